package services

import (
	"context"

	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/app/repositories"
)

// ScholarshipStore is the persistence the scholarship directory needs
type ScholarshipStore interface {
	Create(ctx context.Context, s *models.Scholarship) error
	GetByID(ctx context.Context, id string) (*models.Scholarship, error)
	List(ctx context.Context, filter models.ScholarshipFilter) ([]*models.Scholarship, error)
	Top(ctx context.Context, sortBy models.TopSort, limit int) ([]*models.Scholarship, error)
	ListAll(ctx context.Context) ([]*models.Scholarship, error)
	Facets(ctx context.Context) (*models.ScholarshipFacets, error)
	Update(ctx context.Context, s *models.Scholarship) error
	UpdateImage(ctx context.Context, id, imageURL string) error
	Delete(ctx context.Context, id string) error
}

// ApplicationStore is the persistence of the application lifecycle
type ApplicationStore interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	FindByScholarshipAndEmail(ctx context.Context, scholarshipID, email string) (*models.Application, error)
	ListByEmail(ctx context.Context, email string) ([]*models.Application, error)
	List(ctx context.Context, filter models.ApplicationFilter, offset uint64, limit int) ([]*models.Application, int64, error)
	MarkPaid(ctx context.Context, scholarshipID, email string, upd repositories.PaymentUpdate) (models.UpdateResult, error)
	UpdateStatus(ctx context.Context, id string, status, expected models.ApplicationStatus) (models.UpdateResult, error)
	UpdateFeedback(ctx context.Context, id, feedback string) (models.UpdateResult, error)
	UpdateDetails(ctx context.Context, id, email string, d models.ApplicantDetails) (models.UpdateResult, error)
	DeletePending(ctx context.Context, id, email string) (int64, error)
}

// UserStore is the persistence of the user directory
type UserStore interface {
	Upsert(ctx context.Context, email, name, photoURL string) (*models.User, bool, error)
	EnsureRole(ctx context.Context, email string, role models.RoleType) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, role models.RoleType, offset uint64, limit int) ([]*models.User, int64, error)
	UpdateRole(ctx context.Context, id string, role models.RoleType) error
	Delete(ctx context.Context, id string) error
}

// ReviewStore is the persistence of reviews
type ReviewStore interface {
	Create(ctx context.Context, rv *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	ListByScholarship(ctx context.Context, scholarshipID string) ([]*models.Review, error)
	ListByEmail(ctx context.Context, email string) ([]*models.Review, error)
	ListAll(ctx context.Context) ([]*models.Review, error)
	Update(ctx context.Context, rv *models.Review) error
	Delete(ctx context.Context, id string) error
}

// AnalyticsStore aggregates dashboard figures
type AnalyticsStore interface {
	Summary(ctx context.Context) (*models.Analytics, error)
}

var (
	_ ScholarshipStore = (*repositories.ScholarshipRepository)(nil)
	_ ApplicationStore = (*repositories.ApplicationRepository)(nil)
	_ UserStore        = (*repositories.UserRepository)(nil)
	_ ReviewStore      = (*repositories.ReviewRepository)(nil)
	_ AnalyticsStore   = (*repositories.AnalyticsRepository)(nil)
)
