package types

import "fmt"

// ApplicationKind discriminates the application variants. The kind is decided
// at construction time, never inferred from field presence.
type ApplicationKind string

const (
	ApplicationKindCompany ApplicationKind = "company"
	ApplicationKindPerson  ApplicationKind = "person"
	ApplicationKindTrust   ApplicationKind = "trust"
)

// IsValid checks if the application kind is valid
func (k ApplicationKind) IsValid() bool {
	switch k {
	case ApplicationKindCompany, ApplicationKindPerson, ApplicationKindTrust:
		return true
	default:
		return false
	}
}

// String returns the string representation of the application kind
func (k ApplicationKind) String() string {
	return string(k)
}

// ParseApplicationKind parses a string into an ApplicationKind
func ParseApplicationKind(s string) (ApplicationKind, error) {
	k := ApplicationKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid application kind: %s", s)
	}
	return k, nil
}

// ApplicationStatus represents the review status of an application
type ApplicationStatus string

const (
	ApplicationStatusDraft            ApplicationStatus = "Draft"
	ApplicationStatusSubmitted        ApplicationStatus = "Submitted"
	ApplicationStatusUnderReview      ApplicationStatus = "Under Review"
	ApplicationStatusApproved         ApplicationStatus = "Approved"
	ApplicationStatusRejected         ApplicationStatus = "Rejected"
	ApplicationStatusPendingDocuments ApplicationStatus = "Pending Documents"
)

// IsValid checks if the application status is valid
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusDraft,
		ApplicationStatusSubmitted,
		ApplicationStatusUnderReview,
		ApplicationStatusApproved,
		ApplicationStatusRejected,
		ApplicationStatusPendingDocuments:
		return true
	default:
		return false
	}
}

// String returns the string representation of the application status
func (s ApplicationStatus) String() string {
	return string(s)
}
