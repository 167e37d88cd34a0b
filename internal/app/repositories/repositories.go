package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// Repositories holds all the repository instances
type Repositories struct {
	ScholarshipRepository *ScholarshipRepository
	ApplicationRepository *ApplicationRepository
	ReviewRepository      *ReviewRepository
	UserRepository        *UserRepository
	AnalyticsRepository   *AnalyticsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ScholarshipRepository: NewScholarshipRepository(db),
		ApplicationRepository: NewApplicationRepository(db),
		ReviewRepository:      NewReviewRepository(db),
		UserRepository:        NewUserRepository(db),
		AnalyticsRepository:   NewAnalyticsRepository(db),
	}
}
