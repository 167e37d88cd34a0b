package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarhub/internal/app/models/dto"
	"github.com/yigit/scholarhub/internal/app/services"
	"github.com/yigit/scholarhub/internal/middleware"
)

// AnalyticsController serves the admin dashboard
type AnalyticsController struct {
	analyticsService services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// Summary
// @Summary Platform analytics (admin)
// @Description Totals plus application counts per university and per category. totalFees sums fees of paid applications.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Analytics} "Analytics"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /analytics [get]
func (c *AnalyticsController) Summary(ctx *gin.Context) {
	summary, err := c.analyticsService.Summary(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary))
}
