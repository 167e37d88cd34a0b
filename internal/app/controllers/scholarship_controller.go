package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarhub/internal/app/models/dto"
	"github.com/yigit/scholarhub/internal/app/services"
	"github.com/yigit/scholarhub/internal/middleware"
)

// ScholarshipController handles the scholarship catalogue
type ScholarshipController struct {
	scholarshipService services.ScholarshipService
}

// NewScholarshipController creates a new ScholarshipController
func NewScholarshipController(scholarshipService services.ScholarshipService) *ScholarshipController {
	return &ScholarshipController{
		scholarshipService: scholarshipService,
	}
}

// ListScholarships returns the filtered catalogue
// @Summary List scholarships
// @Description Lists scholarships, cheapest first. Filters equal to "all" are ignored.
// @Tags scholarships
// @Produce json
// @Param search query string false "Substring of scholarship name, university name or degree"
// @Param category query string false "Scholarship category"
// @Param subject query string false "Subject category"
// @Param country query string false "University country"
// @Param degree query string false "Degree"
// @Success 200 {object} dto.APIResponse{data=[]models.Scholarship} "Scholarships retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /scholarships [get]
func (c *ScholarshipController) ListScholarships(ctx *gin.Context) {
	var query dto.ScholarshipListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	scholarships, err := c.scholarshipService.ListScholarships(ctx.Request.Context(), query.ToFilter())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(scholarships))
}

// GetScholarship returns one scholarship
// @Summary Get scholarship by ID
// @Tags scholarships
// @Produce json
// @Param id path string true "Scholarship ID"
// @Success 200 {object} dto.APIResponse{data=models.Scholarship} "Scholarship retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /scholarships/{id} [get]
func (c *ScholarshipController) GetScholarship(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}

	scholarship, err := c.scholarshipService.GetScholarship(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(scholarship))
}

// TopScholarships returns the featured list
// @Summary Featured scholarships
// @Description Returns six scholarships, cheapest first or most recent first
// @Tags scholarships
// @Produce json
// @Param sortBy query string false "applicationFees (default) or recent"
// @Success 200 {object} dto.APIResponse{data=[]models.Scholarship} "Featured scholarships"
// @Failure 400 {object} dto.ErrorResponse "Unknown sort order"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /top/scholarships [get]
func (c *ScholarshipController) TopScholarships(ctx *gin.Context) {
	scholarships, err := c.scholarshipService.TopScholarships(ctx.Request.Context(), ctx.Query("sortBy"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(scholarships))
}

// Filters returns the distinct facet values
// @Summary Scholarship filter options
// @Tags scholarships
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.ScholarshipFacets} "Filter options"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/scholarships/filters [get]
func (c *ScholarshipController) Filters(ctx *gin.Context) {
	facets, err := c.scholarshipService.Filters(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(facets))
}

// ListAllScholarships returns every scholarship for the admin table
// @Summary List all scholarships (admin)
// @Tags scholarships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Scholarship} "Scholarships retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /admin/scholarships [get]
func (c *ScholarshipController) ListAllScholarships(ctx *gin.Context) {
	scholarships, err := c.scholarshipService.ListAllScholarships(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(scholarships))
}

// CreateScholarship adds a scholarship
// @Summary Create scholarship
// @Tags scholarships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ScholarshipRequest true "Scholarship"
// @Success 201 {object} dto.APIResponse{data=models.Scholarship} "Scholarship created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /scholarships [post]
func (c *ScholarshipController) CreateScholarship(ctx *gin.Context) {
	var req dto.ScholarshipRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	identity, _ := middleware.CurrentIdentity(ctx)
	postedBy := ""
	if identity != nil {
		postedBy = identity.Email
	}

	scholarship, err := c.scholarshipService.CreateScholarship(ctx.Request.Context(), req.ToModel(), postedBy)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewMessageResponse("Scholarship created successfully", scholarship))
}

// UpdateScholarship replaces a scholarship's editable fields
// @Summary Update scholarship
// @Tags scholarships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Scholarship ID"
// @Param request body dto.ScholarshipRequest true "Scholarship"
// @Success 200 {object} dto.APIResponse{data=models.Scholarship} "Scholarship updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Router /scholarships/{id} [put]
func (c *ScholarshipController) UpdateScholarship(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ScholarshipRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	scholarship, err := c.scholarshipService.UpdateScholarship(ctx.Request.Context(), id, req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Scholarship updated successfully", scholarship))
}

// DeleteScholarship removes a scholarship without applications
// @Summary Delete scholarship
// @Tags scholarships
// @Produce json
// @Security BearerAuth
// @Param id path string true "Scholarship ID"
// @Success 200 {object} dto.APIResponse "Scholarship deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Failure 409 {object} dto.ErrorResponse "Scholarship has applications"
// @Router /scholarships/{id} [delete]
func (c *ScholarshipController) DeleteScholarship(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.scholarshipService.DeleteScholarship(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Scholarship deleted successfully", nil))
}

// UploadImage stores the university image of a scholarship
// @Summary Upload university image
// @Tags scholarships
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Scholarship ID"
// @Param image formData file true "Image (jpg, png, webp, gif)"
// @Success 200 {object} dto.APIResponse{data=dto.ImageUploadResponse} "Image uploaded"
// @Failure 400 {object} dto.ErrorResponse "Missing or unsupported file"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Router /scholarships/{id}/image [post]
func (c *ScholarshipController) UploadImage(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Image file is required").WithField("image")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	url, err := c.scholarshipService.UploadImage(ctx.Request.Context(), id, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ImageUploadResponse{UniversityImage: url}))
}
