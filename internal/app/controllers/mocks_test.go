package controllers

import (
	"context"
	"mime/multipart"

	"github.com/stretchr/testify/mock"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/app/services"
	"github.com/yigit/scholarhub/internal/pkg/payment"
)

type mockApplicationService struct{ mock.Mock }

var _ services.ApplicationService = (*mockApplicationService)(nil)

func (m *mockApplicationService) app(args mock.Arguments) (*models.Application, error) {
	a, _ := args.Get(0).(*models.Application)
	return a, args.Error(1)
}

func (m *mockApplicationService) CreateApplication(ctx context.Context, in services.CreateApplicationInput) (*models.Application, bool, error) {
	args := m.Called(ctx, in)
	a, _ := args.Get(0).(*models.Application)
	return a, args.Bool(1), args.Error(2)
}

func (m *mockApplicationService) MarkFreeApplicationPaid(ctx context.Context, scholarshipID, email string) (models.UpdateResult, error) {
	args := m.Called(ctx, scholarshipID, email)
	return args.Get(0).(models.UpdateResult), args.Error(1)
}

func (m *mockApplicationService) ReconcilePaidSession(ctx context.Context, sessionID, callerEmail string) (*services.ReconcileResult, error) {
	args := m.Called(ctx, sessionID, callerEmail)
	r, _ := args.Get(0).(*services.ReconcileResult)
	return r, args.Error(1)
}

func (m *mockApplicationService) UpdateStatus(ctx context.Context, id, status string) (*models.Application, error) {
	return m.app(m.Called(ctx, id, status))
}

func (m *mockApplicationService) UpdateFeedback(ctx context.Context, id, feedback string) (*models.Application, error) {
	return m.app(m.Called(ctx, id, feedback))
}

func (m *mockApplicationService) RejectApplication(ctx context.Context, id string) (*models.Application, error) {
	return m.app(m.Called(ctx, id))
}

func (m *mockApplicationService) UpdateApplicationDetails(ctx context.Context, id, email string, details models.ApplicantDetails) (*models.Application, error) {
	return m.app(m.Called(ctx, id, email, details))
}

func (m *mockApplicationService) DeleteApplication(ctx context.Context, id, email string) error {
	return m.Called(ctx, id, email).Error(0)
}

func (m *mockApplicationService) GetApplication(ctx context.Context, id, email string) (*models.Application, error) {
	return m.app(m.Called(ctx, id, email))
}

func (m *mockApplicationService) ListMyApplications(ctx context.Context, email string) ([]*models.Application, error) {
	args := m.Called(ctx, email)
	list, _ := args.Get(0).([]*models.Application)
	return list, args.Error(1)
}

func (m *mockApplicationService) ListApplications(ctx context.Context, status string, page, size int) ([]*models.Application, int64, error) {
	args := m.Called(ctx, status, page, size)
	list, _ := args.Get(0).([]*models.Application)
	return list, args.Get(1).(int64), args.Error(2)
}

type mockPaymentService struct{ mock.Mock }

var _ services.PaymentService = (*mockPaymentService)(nil)

func (m *mockPaymentService) CreateCheckoutSession(ctx context.Context, scholarshipID string, applicant services.Applicant) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, scholarshipID, applicant)
	s, _ := args.Get(0).(*payment.CheckoutSession)
	return s, args.Error(1)
}

func (m *mockPaymentService) RetrieveSession(ctx context.Context, sessionID string) (*payment.SessionRecord, error) {
	args := m.Called(ctx, sessionID)
	r, _ := args.Get(0).(*payment.SessionRecord)
	return r, args.Error(1)
}

type mockScholarshipService struct{ mock.Mock }

var _ services.ScholarshipService = (*mockScholarshipService)(nil)

func (m *mockScholarshipService) scholarship(args mock.Arguments) (*models.Scholarship, error) {
	s, _ := args.Get(0).(*models.Scholarship)
	return s, args.Error(1)
}

func (m *mockScholarshipService) list(args mock.Arguments) ([]*models.Scholarship, error) {
	s, _ := args.Get(0).([]*models.Scholarship)
	return s, args.Error(1)
}

func (m *mockScholarshipService) ListScholarships(ctx context.Context, filter models.ScholarshipFilter) ([]*models.Scholarship, error) {
	return m.list(m.Called(ctx, filter))
}

func (m *mockScholarshipService) GetScholarship(ctx context.Context, id string) (*models.Scholarship, error) {
	return m.scholarship(m.Called(ctx, id))
}

func (m *mockScholarshipService) TopScholarships(ctx context.Context, sortBy string) ([]*models.Scholarship, error) {
	return m.list(m.Called(ctx, sortBy))
}

func (m *mockScholarshipService) Filters(ctx context.Context) (*models.ScholarshipFacets, error) {
	args := m.Called(ctx)
	f, _ := args.Get(0).(*models.ScholarshipFacets)
	return f, args.Error(1)
}

func (m *mockScholarshipService) ListAllScholarships(ctx context.Context) ([]*models.Scholarship, error) {
	return m.list(m.Called(ctx))
}

func (m *mockScholarshipService) CreateScholarship(ctx context.Context, s *models.Scholarship, postedBy string) (*models.Scholarship, error) {
	return m.scholarship(m.Called(ctx, s, postedBy))
}

func (m *mockScholarshipService) UpdateScholarship(ctx context.Context, id string, s *models.Scholarship) (*models.Scholarship, error) {
	return m.scholarship(m.Called(ctx, id, s))
}

func (m *mockScholarshipService) DeleteScholarship(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockScholarshipService) UploadImage(ctx context.Context, id string, file *multipart.FileHeader) (string, error) {
	args := m.Called(ctx, id, file)
	return args.String(0), args.Error(1)
}
