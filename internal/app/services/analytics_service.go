package services

import (
	"context"

	"github.com/yigit/scholarhub/internal/app/models"
)

// AnalyticsService builds the admin dashboard summary
type AnalyticsService interface {
	Summary(ctx context.Context) (*models.Analytics, error)
}

type analyticsServiceImpl struct {
	repo AnalyticsStore
}

// NewAnalyticsService creates a new analytics service instance
func NewAnalyticsService(repo AnalyticsStore) AnalyticsService {
	return &analyticsServiceImpl{repo: repo}
}

func (s *analyticsServiceImpl) Summary(ctx context.Context) (*models.Analytics, error) {
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	if summary.AppsPerUniversity == nil {
		summary.AppsPerUniversity = []models.NameCount{}
	}
	if summary.AppsPerCategory == nil {
		summary.AppsPerCategory = []models.NameCount{}
	}
	summary.LegacyTotalScholarships = summary.TotalScholarships
	return summary, nil
}
