package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarhub/internal/app/auth"
	"github.com/yigit/scholarhub/internal/app/controllers"
	"github.com/yigit/scholarhub/internal/middleware"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Scholarship  *controllers.ScholarshipController
	Application  *controllers.ApplicationController
	Payment      *controllers.PaymentController
	Review       *controllers.ReviewController
	User         *controllers.UserController
	Analytics    *controllers.AnalyticsController
	Notification *controllers.NotificationController
	Health       *controllers.HealthController
}

// SetupRouter configures all application routes. paymentLimiter may be nil.
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	paymentLimiter middleware.Limiter,
) {
	// --- Public routes ---
	router.GET("/health", c.Health.Health)

	router.GET("/scholarships", c.Scholarship.ListScholarships)
	router.GET("/scholarships/:id", c.Scholarship.GetScholarship)
	router.GET("/top/scholarships", c.Scholarship.TopScholarships)
	router.GET("/api/scholarships/filters", c.Scholarship.Filters)
	router.GET("/reviews/:scholarshipId", c.Review.ListScholarshipReviews)
	router.GET("/user-role/:email", c.User.GetUserRole)

	// --- Any verified identity ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.Authenticate(), authMiddleware.Require(auth.CapabilityAuthenticated))
	{
		authenticated.POST("/users", c.User.UpsertUser)
		authenticated.GET("/ws/notifications", c.Notification.Connect)
	}

	// --- Applicants ---
	apply := router.Group("")
	apply.Use(authMiddleware.Authenticate(), authMiddleware.Require(auth.CapabilityApply))
	{
		apply.POST("/save-application", c.Application.SaveApplication)
		apply.POST("/update-free-application", c.Application.UpdateFreeApplication)
		apply.GET("/my-applications", c.Application.ListMyApplications)
		apply.GET("/my-applications/:email", c.Application.ListMyApplications)
		apply.GET("/application-details/:id", c.Application.GetApplication)
		apply.PUT("/applications/:id", c.Application.UpdateApplication)
		apply.DELETE("/applications/:id", c.Application.DeleteApplication)

		// Payment routes are throttled per identity
		payments := apply.Group("")
		if paymentLimiter != nil {
			payments.Use(middleware.RateLimit(paymentLimiter))
		}
		payments.POST("/create-checkout-session", c.Payment.CreateCheckoutSession)
		payments.POST("/payment-success", c.Payment.PaymentSuccess)

		apply.POST("/reviews", c.Review.CreateReview)
		apply.GET("/my-reviews", c.Review.ListMyReviews)
		apply.PUT("/reviews/:id", c.Review.UpdateReview)
		apply.DELETE("/reviews/:id", c.Review.DeleteReview)
	}

	// --- Moderators and admins ---
	moderator := router.Group("/moderator")
	moderator.Use(authMiddleware.Authenticate(), authMiddleware.Require(auth.CapabilityModerate))
	{
		moderator.GET("/applications", c.Application.ListApplications)
		moderator.PUT("/applications/:id/status", c.Application.UpdateStatus)
		moderator.PUT("/applications/:id/feedback", c.Application.UpdateFeedback)
		moderator.PUT("/applications/:id/reject", c.Application.RejectApplication)
		moderator.GET("/reviews", c.Review.ListAllReviews)
		moderator.GET("/review", c.Review.ListAllReviews)
		moderator.DELETE("/reviews/:id", c.Review.ModeratorDeleteReview)
	}

	// --- Admins ---
	admin := router.Group("")
	admin.Use(authMiddleware.Authenticate(), authMiddleware.Require(auth.CapabilityAdminister))
	{
		admin.POST("/scholarships", c.Scholarship.CreateScholarship)
		admin.PUT("/scholarships/:id", c.Scholarship.UpdateScholarship)
		admin.DELETE("/scholarships/:id", c.Scholarship.DeleteScholarship)
		admin.POST("/scholarships/:id/image", c.Scholarship.UploadImage)
		admin.GET("/admin/scholarships", c.Scholarship.ListAllScholarships)

		admin.GET("/admin/users", c.User.ListUsers)
		admin.PATCH("/users/:id/role", c.User.UpdateRole)
		admin.DELETE("/users/:id", c.User.DeleteUser)

		admin.GET("/analytics", c.Analytics.Summary)
	}
}
