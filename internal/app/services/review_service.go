package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/validation"
)

// ReviewInput is a review as submitted by an applicant
type ReviewInput struct {
	ScholarshipID string
	RatingPoint   int
	ReviewComment string
	UserName      string
	UserEmail     string
	UserImage     string
}

// ReviewService defines review operations
type ReviewService interface {
	CreateReview(ctx context.Context, in ReviewInput) (*models.Review, error)
	ListByScholarship(ctx context.Context, scholarshipID string) ([]*models.Review, error)
	ListMine(ctx context.Context, email string) ([]*models.Review, error)
	ListAll(ctx context.Context) ([]*models.Review, error)
	UpdateReview(ctx context.Context, id, email string, rating int, comment string) (*models.Review, error)
	DeleteReview(ctx context.Context, id, email string) error
	ModeratorDeleteReview(ctx context.Context, id string) error
}

type reviewServiceImpl struct {
	reviews      ReviewStore
	scholarships ScholarshipStore
	applications ApplicationStore
	logger       zerolog.Logger
}

// NewReviewService creates a new review service instance
func NewReviewService(reviews ReviewStore, scholarships ScholarshipStore, applications ApplicationStore, logger zerolog.Logger) ReviewService {
	return &reviewServiceImpl{
		reviews:      reviews,
		scholarships: scholarships,
		applications: applications,
		logger:       logger.With().Str("service", "review").Logger(),
	}
}

func validateReviewContent(rating int, comment string) error {
	if !validation.IsValidRating(rating) {
		return apperrors.NewValidationError("ratingPoint", "rating must be between 1 and 5")
	}
	if strings.TrimSpace(comment) == "" {
		return apperrors.NewValidationError("reviewComment", "review comment cannot be empty")
	}
	return nil
}

// CreateReview stores a review from someone who applied to the scholarship
func (s *reviewServiceImpl) CreateReview(ctx context.Context, in ReviewInput) (*models.Review, error) {
	if err := validateReviewContent(in.RatingPoint, in.ReviewComment); err != nil {
		return nil, err
	}
	if in.UserEmail == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	scholarship, err := s.scholarships.GetByID(ctx, in.ScholarshipID)
	if err != nil {
		return nil, err
	}

	if _, err := s.applications.FindByScholarshipAndEmail(ctx, in.ScholarshipID, in.UserEmail); err != nil {
		if errors.Is(err, apperrors.ErrApplicationNotFound) {
			return nil, apperrors.NewForbiddenError("only applicants of this scholarship can review it")
		}
		return nil, err
	}

	review := &models.Review{
		ID:             uuid.NewString(),
		ScholarshipID:  scholarship.ID,
		UniversityName: scholarship.UniversityName,
		UserName:       in.UserName,
		UserEmail:      in.UserEmail,
		UserImage:      in.UserImage,
		RatingPoint:    in.RatingPoint,
		ReviewComment:  strings.TrimSpace(in.ReviewComment),
		ReviewDate:     time.Now(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewServiceImpl) ListByScholarship(ctx context.Context, scholarshipID string) ([]*models.Review, error) {
	return s.reviews.ListByScholarship(ctx, scholarshipID)
}

func (s *reviewServiceImpl) ListMine(ctx context.Context, email string) ([]*models.Review, error) {
	return s.reviews.ListByEmail(ctx, email)
}

func (s *reviewServiceImpl) ListAll(ctx context.Context) ([]*models.Review, error) {
	return s.reviews.ListAll(ctx)
}

func (s *reviewServiceImpl) UpdateReview(ctx context.Context, id, email string, rating int, comment string) (*models.Review, error) {
	if err := validateReviewContent(rating, comment); err != nil {
		return nil, err
	}

	review, err := s.ownedReview(ctx, id, email)
	if err != nil {
		return nil, err
	}

	review.RatingPoint = rating
	review.ReviewComment = strings.TrimSpace(comment)
	review.ReviewDate = time.Now()
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewServiceImpl) DeleteReview(ctx context.Context, id, email string) error {
	if _, err := s.ownedReview(ctx, id, email); err != nil {
		return err
	}
	return s.reviews.Delete(ctx, id)
}

func (s *reviewServiceImpl) ModeratorDeleteReview(ctx context.Context, id string) error {
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("reviewID", id).Msg("Review removed by moderator")
	return nil
}

func (s *reviewServiceImpl) ownedReview(ctx context.Context, id, email string) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(review.UserEmail, email) {
		return nil, apperrors.NewForbiddenError("you can only change your own reviews")
	}
	return review, nil
}
