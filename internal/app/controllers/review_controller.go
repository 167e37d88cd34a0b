package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarhub/internal/app/models/dto"
	"github.com/yigit/scholarhub/internal/app/services"
	"github.com/yigit/scholarhub/internal/middleware"
)

// ReviewController handles scholarship reviews
type ReviewController struct {
	reviewService services.ReviewService
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviewService services.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// ListScholarshipReviews
// @Summary Reviews of a scholarship
// @Tags reviews
// @Produce json
// @Param scholarshipId path string true "Scholarship ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Review} "Reviews, newest first"
// @Router /reviews/{scholarshipId} [get]
func (c *ReviewController) ListScholarshipReviews(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "scholarshipId")
	if !ok {
		return
	}

	reviews, err := c.reviewService.ListByScholarship(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(reviews))
}

// CreateReview
// @Summary Review a scholarship
// @Description Only applicants of the scholarship may review it
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateReviewRequest true "Review"
// @Success 201 {object} dto.APIResponse{data=models.Review} "Review created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Caller has not applied"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Router /reviews [post]
func (c *ReviewController) CreateReview(ctx *gin.Context) {
	var req dto.CreateReviewRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	applicant, ok := currentApplicant(ctx, req.UserName)
	if !ok {
		return
	}

	userImage := req.UserImage
	if identity, _ := middleware.CurrentIdentity(ctx); userImage == "" && identity != nil {
		userImage = identity.Picture
	}

	review, err := c.reviewService.CreateReview(ctx.Request.Context(), services.ReviewInput{
		ScholarshipID: req.ScholarshipID,
		RatingPoint:   req.RatingPoint,
		ReviewComment: req.ReviewComment,
		UserName:      applicant.Name,
		UserEmail:     applicant.Email,
		UserImage:     userImage,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewMessageResponse("Review added", review))
}

// ListMyReviews
// @Summary My reviews
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Review} "Reviews"
// @Router /my-reviews [get]
func (c *ReviewController) ListMyReviews(ctx *gin.Context) {
	applicant, ok := currentApplicant(ctx, "")
	if !ok {
		return
	}

	reviews, err := c.reviewService.ListMine(ctx.Request.Context(), applicant.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(reviews))
}

// UpdateReview
// @Summary Edit own review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body dto.UpdateReviewRequest true "Review"
// @Success 200 {object} dto.APIResponse{data=models.Review} "Review updated"
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Router /reviews/{id} [put]
func (c *ReviewController) UpdateReview(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateReviewRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	applicant, ok := currentApplicant(ctx, "")
	if !ok {
		return
	}

	review, err := c.reviewService.UpdateReview(ctx.Request.Context(), id, applicant.Email, req.RatingPoint, req.ReviewComment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Review updated", review))
}

// DeleteReview
// @Summary Delete own review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} dto.APIResponse "Review deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Router /reviews/{id} [delete]
func (c *ReviewController) DeleteReview(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}
	applicant, ok := currentApplicant(ctx, "")
	if !ok {
		return
	}

	if err := c.reviewService.DeleteReview(ctx.Request.Context(), id, applicant.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Review deleted", nil))
}

// ListAllReviews
// @Summary List all reviews (moderator)
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Review} "Reviews"
// @Router /moderator/reviews [get]
// @Router /moderator/review [get]
func (c *ReviewController) ListAllReviews(ctx *gin.Context) {
	reviews, err := c.reviewService.ListAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(reviews))
}

// ModeratorDeleteReview
// @Summary Remove a review (moderator)
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} dto.APIResponse "Review deleted"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Router /moderator/reviews/{id} [delete]
func (c *ReviewController) ModeratorDeleteReview(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.reviewService.ModeratorDeleteReview(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Review deleted", nil))
}
