package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/app/services"
	"github.com/yigit/scholarhub/internal/middleware"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/auth"
)

// asUser stands in for the auth middleware
func asUser(email, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyIdentity, &auth.Identity{UID: "uid-" + email, Email: email, Name: name})
		c.Set(middleware.ContextKeyEmail, email)
		c.Set(middleware.ContextKeyUserID, "user-"+email)
		c.Next()
	}
}

func send(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func newApplicationRouter(svc services.ApplicationService, handlers ...gin.HandlerFunc) (*gin.Engine, *ApplicationController) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	return r, NewApplicationController(svc)
}

func TestSaveApplicationReportsCreation(t *testing.T) {
	svc := &mockApplicationService{}
	r, c := newApplicationRouter(svc, asUser("jane@example.com", "Jane"))
	r.POST("/save-application", c.SaveApplication)

	expected := services.CreateApplicationInput{
		ScholarshipID: "sch-1",
		Applicant:     services.Applicant{UserID: "user-jane@example.com", Name: "Jane", Email: "jane@example.com"},
		PaymentStatus: "unpaid",
	}
	app := &models.Application{ID: "app-1", ScholarshipID: "sch-1"}
	svc.On("CreateApplication", mock.Anything, expected).Return(app, true, nil).Once()
	svc.On("CreateApplication", mock.Anything, expected).Return(app, false, nil).Once()

	body := `{"scholarshipId":"sch-1","paymentStatus":"unpaid"}`
	first := send(r, http.MethodPost, "/save-application", body)
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Contains(t, first.Body.String(), `"created":true`)

	second := send(r, http.MethodPost, "/save-application", body)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), `"created":false`)
	svc.AssertExpectations(t)
}

func TestSaveApplicationValidatesBody(t *testing.T) {
	svc := &mockApplicationService{}
	r, c := newApplicationRouter(svc, asUser("jane@example.com", "Jane"))
	r.POST("/save-application", c.SaveApplication)

	w := send(r, http.MethodPost, "/save-application", `{"paymentStatus":"refunded"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decode(t, w).Success)
	svc.AssertNotCalled(t, "CreateApplication", mock.Anything, mock.Anything)
}

func TestSaveApplicationWithoutIdentity(t *testing.T) {
	svc := &mockApplicationService{}
	r, c := newApplicationRouter(svc)
	r.POST("/save-application", c.SaveApplication)

	w := send(r, http.MethodPost, "/save-application", `{"scholarshipId":"sch-1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestModeratorErrorsMapToStatusCodes(t *testing.T) {
	svc := &mockApplicationService{}
	r, c := newApplicationRouter(svc, asUser("mod@example.com", "Mod"))
	r.PUT("/moderator/applications/:id/status", c.UpdateStatus)
	r.PUT("/moderator/applications/:id/reject", c.RejectApplication)

	svc.On("UpdateStatus", mock.Anything, "missing", "completed").Return(nil, apperrors.ErrApplicationNotFound)
	svc.On("UpdateStatus", mock.Anything, "app-1", "archived").
		Return(nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidApplicationStatus, "archived"))
	svc.On("RejectApplication", mock.Anything, "app-2").
		Return(nil, fmt.Errorf("%w: completed to rejected", apperrors.ErrInvalidStatusTransition))
	svc.On("UpdateStatus", mock.Anything, "app-1", "completed").
		Return(&models.Application{ID: "app-1", ApplicationStatus: models.ApplicationStatusCompleted}, nil)

	assert.Equal(t, http.StatusNotFound, send(r, http.MethodPut, "/moderator/applications/missing/status", `{"applicationStatus":"completed"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPut, "/moderator/applications/app-1/status", `{"applicationStatus":"archived"}`).Code)
	assert.Equal(t, http.StatusConflict, send(r, http.MethodPut, "/moderator/applications/app-2/reject", ``).Code)

	ok := send(r, http.MethodPut, "/moderator/applications/app-1/status", `{"applicationStatus":"completed"}`)
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Contains(t, string(decode(t, ok).Data), `"applicationStatus":"completed"`)
}

func TestDeleteApplicationPassesCallerEmail(t *testing.T) {
	svc := &mockApplicationService{}
	r, c := newApplicationRouter(svc, asUser("jane@example.com", "Jane"))
	r.DELETE("/applications/:id", c.DeleteApplication)

	svc.On("DeleteApplication", mock.Anything, "app-1", "jane@example.com").Return(nil)
	svc.On("DeleteApplication", mock.Anything, "app-2", "jane@example.com").Return(apperrors.ErrApplicationNotPending)

	assert.Equal(t, http.StatusOK, send(r, http.MethodDelete, "/applications/app-1", "").Code)
	assert.Equal(t, http.StatusConflict, send(r, http.MethodDelete, "/applications/app-2", "").Code)
}

func TestListApplicationsPaginates(t *testing.T) {
	svc := &mockApplicationService{}
	r, c := newApplicationRouter(svc, asUser("mod@example.com", "Mod"))
	r.GET("/moderator/applications", c.ListApplications)

	svc.On("ListApplications", mock.Anything, "pending", 2, 5).
		Return([]*models.Application{{ID: "a"}}, int64(6), nil)

	w := send(r, http.MethodGet, "/moderator/applications?status=pending&page=2&size=5", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Items      []models.Application `json:"items"`
		Pagination struct {
			CurrentPage int   `json:"currentPage"`
			TotalPages  int   `json:"totalPages"`
			TotalItems  int64 `json:"totalItems"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &page))
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, int64(6), page.Pagination.TotalItems)
}

func TestListMyApplicationsByEmailPath(t *testing.T) {
	svc := &mockApplicationService{}
	r, c := newApplicationRouter(svc, asUser("jane@example.com", "Jane"))
	r.GET("/my-applications", c.ListMyApplications)
	r.GET("/my-applications/:email", c.ListMyApplications)

	svc.On("ListMyApplications", mock.Anything, "jane@example.com").
		Return([]*models.Application{{ID: "a"}}, nil)

	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/my-applications", "").Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/my-applications/Jane@Example.com", "").Code)

	other := send(r, http.MethodGet, "/my-applications/bob@example.com", "")
	assert.Equal(t, http.StatusForbidden, other.Code)
	svc.AssertNumberOfCalls(t, "ListMyApplications", 2)
}
