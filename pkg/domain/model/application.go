package model

import (
	"time"

	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Address is a postal address used by application variants
type Address struct {
	Street     string `firestore:"street" json:"street"`
	City       string `firestore:"city" json:"city"`
	State      string `firestore:"state,omitempty" json:"state,omitempty"`
	Country    string `firestore:"country" json:"country"`
	PostalCode string `firestore:"postal_code" json:"postalCode"`
}

// CompanyDetail holds the company-specific application fields
type CompanyDetail struct {
	CompanyType         string     `firestore:"company_type" json:"companyType"`
	CompanyName         string     `firestore:"company_name" json:"companyName"`
	RegistrationNumber  string     `firestore:"registration_number,omitempty" json:"registrationNumber,omitempty"`
	ApplicantName       string     `firestore:"applicant_name" json:"applicantName"`
	ApplicantEmail      string     `firestore:"applicant_email" json:"applicantEmail"`
	ApplicantPhone      string     `firestore:"applicant_phone,omitempty" json:"applicantPhone,omitempty"`
	BusinessAddress     Address    `firestore:"business_address" json:"businessAddress"`
	RegisteredAddress   *Address   `firestore:"registered_address,omitempty" json:"registeredAddress,omitempty"`
	BusinessDescription string     `firestore:"business_description,omitempty" json:"businessDescription,omitempty"`
	IncorporationDate   *time.Time `firestore:"incorporation_date,omitempty" json:"incorporationDate,omitempty"`
}

// PersonDetail holds the person-specific application fields
type PersonDetail struct {
	FirstName        string     `firestore:"first_name" json:"firstName"`
	LastName         string     `firestore:"last_name" json:"lastName"`
	MiddleName       string     `firestore:"middle_name,omitempty" json:"middleName,omitempty"`
	DateOfBirth      *time.Time `firestore:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`
	Nationality      string     `firestore:"nationality,omitempty" json:"nationality,omitempty"`
	PassportNumber   string     `firestore:"passport_number,omitempty" json:"passportNumber,omitempty"`
	NationalIDNumber string     `firestore:"national_id_number,omitempty" json:"nationalIdNumber,omitempty"`
	Email            string     `firestore:"email" json:"email"`
	Phone            string     `firestore:"phone,omitempty" json:"phone,omitempty"`
	Address          Address    `firestore:"address" json:"address"`
	Occupation       string     `firestore:"occupation,omitempty" json:"occupation,omitempty"`
}

// TrustDetail holds the trust-specific application fields
type TrustDetail struct {
	TrustName         string     `firestore:"trust_name" json:"trustName"`
	TrustType         string     `firestore:"trust_type" json:"trustType"`
	SettlorName       string     `firestore:"settlor_name" json:"settlorName"`
	SettlorEmail      string     `firestore:"settlor_email" json:"settlorEmail"`
	SettlorPhone      string     `firestore:"settlor_phone,omitempty" json:"settlorPhone,omitempty"`
	TrusteeName       string     `firestore:"trustee_name" json:"trusteeName"`
	TrusteeEmail      string     `firestore:"trustee_email" json:"trusteeEmail"`
	BeneficiaryCount  int        `firestore:"beneficiary_count,omitempty" json:"beneficiaryCount,omitempty"`
	TrustPurpose      string     `firestore:"trust_purpose,omitempty" json:"trustPurpose,omitempty"`
	EstablishmentDate *time.Time `firestore:"establishment_date,omitempty" json:"establishmentDate,omitempty"`
}

// Application is the business entity a workflow instance runs against.
// It is a tagged union: Kind selects exactly one of the detail variants.
// Applications are read-only reference data joined to instances via EntityID.
type Application struct {
	ID                types.ApplicationID     `firestore:"id" json:"id"`
	ApplicationNumber string                  `firestore:"application_number" json:"applicationNumber"`
	Kind              types.ApplicationKind   `firestore:"kind" json:"kind"`
	Company           *CompanyDetail          `firestore:"company,omitempty" json:"company,omitempty"`
	Person            *PersonDetail           `firestore:"person,omitempty" json:"person,omitempty"`
	Trust             *TrustDetail            `firestore:"trust,omitempty" json:"trust,omitempty"`
	Status            types.ApplicationStatus `firestore:"status" json:"status"`
	SubmittedAt       *time.Time              `firestore:"submitted_at,omitempty" json:"submittedAt,omitempty"`
	ReviewedAt        *time.Time              `firestore:"reviewed_at,omitempty" json:"reviewedAt,omitempty"`
	ReviewedBy        types.UserID            `firestore:"reviewed_by,omitempty" json:"reviewedBy,omitempty"`
	RejectionReason   string                  `firestore:"rejection_reason,omitempty" json:"rejectionReason,omitempty"`
	CreatedAt         time.Time               `firestore:"created_at" json:"createdAt"`
	UpdatedAt         time.Time               `firestore:"updated_at" json:"updatedAt"`
	Attachments       []types.AttachmentID    `firestore:"attachments,omitempty" json:"attachments,omitempty"`
}

// Validate checks that the kind discriminant matches exactly one populated variant
func (a *Application) Validate() error {
	if !a.Kind.IsValid() {
		return ErrInvalidApplicationKind
	}
	switch a.Kind {
	case types.ApplicationKindCompany:
		if a.Company == nil || a.Person != nil || a.Trust != nil {
			return ErrApplicationVariantMismatch
		}
	case types.ApplicationKindPerson:
		if a.Person == nil || a.Company != nil || a.Trust != nil {
			return ErrApplicationVariantMismatch
		}
	case types.ApplicationKindTrust:
		if a.Trust == nil || a.Company != nil || a.Person != nil {
			return ErrApplicationVariantMismatch
		}
	}
	return nil
}

// FileAttachment is read-only file metadata owned by an application
type FileAttachment struct {
	ID            types.AttachmentID  `firestore:"id" json:"id"`
	ApplicationID types.ApplicationID `firestore:"application_id" json:"applicationId"`
	FileName      string              `firestore:"file_name" json:"fileName"`
	FileType      string              `firestore:"file_type" json:"fileType"`
	FileSize      int64               `firestore:"file_size" json:"fileSize"`
	UploadedBy    types.UserID        `firestore:"uploaded_by" json:"uploadedBy"`
	UploadedAt    time.Time           `firestore:"uploaded_at" json:"uploadedAt"`
	Description   string              `firestore:"description,omitempty" json:"description,omitempty"`
}
