package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
)

func newReviewFixture(t *testing.T) (*appFixture, *memReviews, ReviewService) {
	t.Helper()
	f := newAppFixture(t, false)
	reviews := newMemReviews()
	return f, reviews, NewReviewService(reviews, f.scholarships, f.apps, zerolog.Nop())
}

func janeReview() ReviewInput {
	return ReviewInput{
		ScholarshipID: paidScholarshipID,
		RatingPoint:   4,
		ReviewComment: "Smooth process",
		UserName:      jane.Name,
		UserEmail:     jane.Email,
	}
}

func TestReviewRequiresApplication(t *testing.T) {
	f, _, svc := newReviewFixture(t)
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, janeReview())
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	f.create(t, paidScholarshipID, jane)
	review, err := svc.CreateReview(ctx, janeReview())
	require.NoError(t, err)
	assert.Equal(t, "Toronto", review.UniversityName)
	assert.Equal(t, 4, review.RatingPoint)

	list, err := svc.ListByScholarship(ctx, paidScholarshipID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReviewValidation(t *testing.T) {
	f, _, svc := newReviewFixture(t)
	f.create(t, paidScholarshipID, jane)

	in := janeReview()
	in.RatingPoint = 6
	_, err := svc.CreateReview(context.Background(), in)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	in = janeReview()
	in.ReviewComment = "  "
	_, err = svc.CreateReview(context.Background(), in)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestReviewOwnership(t *testing.T) {
	f, reviews, svc := newReviewFixture(t)
	ctx := context.Background()
	f.create(t, paidScholarshipID, jane)

	review, err := svc.CreateReview(ctx, janeReview())
	require.NoError(t, err)

	_, err = svc.UpdateReview(ctx, review.ID, "mallory@example.com", 1, "bad")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, svc.DeleteReview(ctx, review.ID, "mallory@example.com"), apperrors.ErrPermissionDenied)

	updated, err := svc.UpdateReview(ctx, review.ID, jane.Email, 5, "Even better")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.RatingPoint)

	mine, err := svc.ListMine(ctx, jane.Email)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Even better", mine[0].ReviewComment)

	require.NoError(t, svc.DeleteReview(ctx, review.ID, jane.Email))
	assert.Empty(t, reviews.items)
}

func TestModeratorDeleteReview(t *testing.T) {
	f, _, svc := newReviewFixture(t)
	ctx := context.Background()
	f.create(t, paidScholarshipID, jane)

	review, err := svc.CreateReview(ctx, janeReview())
	require.NoError(t, err)

	require.NoError(t, svc.ModeratorDeleteReview(ctx, review.ID))
	assert.ErrorIs(t, svc.ModeratorDeleteReview(ctx, review.ID), apperrors.ErrReviewNotFound)
}
