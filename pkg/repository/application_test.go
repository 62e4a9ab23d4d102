package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/memory"
)

func runApplicationRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	companyApp := func(id types.ApplicationID) *model.Application {
		return &model.Application{
			ID:                id,
			ApplicationNumber: "APP-2025-001",
			Kind:              types.ApplicationKindCompany,
			Company: &model.CompanyDetail{
				CompanyType:    "private-limited",
				CompanyName:    "Acme Holdings",
				ApplicantName:  "Jo Smith",
				ApplicantEmail: "jo@example.com",
				BusinessAddress: model.Address{
					Street: "1 Main St", City: "Wellington", Country: "NZ", PostalCode: "6011",
				},
			},
			Status: types.ApplicationStatusSubmitted,
		}
	}

	t.Run("Put and Get round-trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Application().Put(ctx, companyApp("app-1"))).Required()

		retrieved, err := repo.Application().Get(ctx, "app-1")
		gt.NoError(t, err).Required()
		gt.V(t, retrieved.Kind).Equal(types.ApplicationKindCompany)
		gt.V(t, retrieved.Company).NotNil()
		gt.V(t, retrieved.Company.CompanyName).Equal("Acme Holdings")
		gt.V(t, retrieved.Person).Nil()
		gt.V(t, retrieved.Trust).Nil()
	})

	t.Run("Put rejects variant mismatch", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		app := companyApp("app-1")
		app.Person = &model.PersonDetail{FirstName: "Jo", LastName: "Smith", Email: "jo@example.com"}
		gt.Error(t, repo.Application().Put(ctx, app))

		app = companyApp("app-2")
		app.Company = nil
		gt.Error(t, repo.Application().Put(ctx, app))
	})

	t.Run("Get missing application yields error", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Application().Get(context.Background(), "app-404")
		gt.Error(t, err)
	})

	t.Run("List returns all applications", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Application().Put(ctx, companyApp("app-1"))).Required()
		gt.NoError(t, repo.Application().Put(ctx, &model.Application{
			ID:   "app-2",
			Kind: types.ApplicationKindPerson,
			Person: &model.PersonDetail{
				FirstName: "Sam", LastName: "Lee", Email: "sam@example.com",
			},
			Status: types.ApplicationStatusUnderReview,
		})).Required()

		apps, err := repo.Application().List(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, apps).Length(2)
	})

	t.Run("attachments scope to their application", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Second)

		atts := []*model.FileAttachment{
			{ID: "att-1", ApplicationID: "app-1", FileName: "certificate.pdf", FileType: "application/pdf", FileSize: 1024, UploadedBy: "user-1", UploadedAt: now},
			{ID: "att-2", ApplicationID: "app-2", FileName: "passport.png", FileType: "image/png", FileSize: 2048, UploadedBy: "user-2", UploadedAt: now.Add(time.Second)},
			{ID: "att-3", ApplicationID: "app-1", FileName: "deed.pdf", FileType: "application/pdf", FileSize: 512, UploadedBy: "user-1", UploadedAt: now.Add(2 * time.Second)},
		}
		for _, att := range atts {
			gt.NoError(t, repo.Application().PutAttachment(ctx, att)).Required()
		}

		got, err := repo.Application().ListAttachments(ctx, "app-1")
		gt.NoError(t, err).Required()
		gt.A(t, got).Length(2)
		gt.V(t, got[0].FileName).Equal("certificate.pdf")
		gt.V(t, got[1].FileName).Equal("deed.pdf")
	})
}

func TestApplicationRepository_Memory(t *testing.T) {
	runApplicationRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestApplicationRepository_Firestore(t *testing.T) {
	runApplicationRepositoryTest(t, newFirestoreRepository)
}
