package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/app/models/dto"
	"github.com/yigit/scholarhub/internal/app/services"
	"github.com/yigit/scholarhub/internal/middleware"
	"github.com/yigit/scholarhub/internal/pkg/websocket"
)

// NotificationController upgrades clients to the realtime notification feed
type NotificationController struct {
	hub         *websocket.Hub
	upgrader    *gorillaws.Upgrader
	userService services.UserService
	logger      zerolog.Logger
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(hub *websocket.Hub, allowedOrigins []string, userService services.UserService, logger zerolog.Logger) *NotificationController {
	return &NotificationController{
		hub:         hub,
		upgrader:    hub.Upgrader(allowedOrigins),
		userService: userService,
		logger:      logger.With().Str("controller", "notifications").Logger(),
	}
}

// Connect
// @Summary Notification websocket
// @Description Upgrades to a websocket that receives application events. Browsers may pass the token as ?token=.
// @Tags notifications
// @Security BearerAuth
// @Param token query string false "Identity token"
// @Success 101 "Switching protocols"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /ws/notifications [get]
func (c *NotificationController) Connect(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	// Unregistered callers still get their own events, with student visibility.
	role := models.RoleStudent
	if stored, err := c.userService.GetRole(ctx.Request.Context(), identity.Email); err == nil {
		role = stored
	}

	if err := c.hub.Serve(c.upgrader, ctx.Writer, ctx.Request, identity.Email, string(role)); err != nil {
		c.logger.Warn().Err(err).Str("email", identity.Email).Msg("Websocket upgrade failed")
	}
}
