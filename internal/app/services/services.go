package services

// Services groups the business services the HTTP layer depends on
type Services struct {
	Scholarship ScholarshipService
	Review      ReviewService
	User        UserService
	Application ApplicationService
	Payment     PaymentService
	Analytics   AnalyticsService
}
