package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/yigit/scholarhub/internal/app/models"
)

const scholarshipBody = `{
	"scholarshipName": "Clarendon",
	"universityName": "Oxford",
	"universityCountry": "UK",
	"universityCity": "Oxford",
	"universityWorldRank": 1,
	"scholarshipCategory": "Full fund",
	"subjectCategory": "Engineering",
	"degree": "Masters",
	"applicationFees": 50,
	"applicationDeadline": %s
	%s
}`

func newScholarshipRouter(svc *mockScholarshipService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser("admin@example.com", "Admin"))
	c := NewScholarshipController(svc)
	r.POST("/scholarships", c.CreateScholarship)
	r.PUT("/scholarships/:id", c.UpdateScholarship)
	return r
}

func scholarshipPayload(deadline, extra string) string {
	return fmt.Sprintf(scholarshipBody, deadline, extra)
}

func TestCreateScholarshipAcceptsDateOnlyDeadline(t *testing.T) {
	svc := &mockScholarshipService{}
	r := newScholarshipRouter(svc)

	wantDeadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	wantPosted := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	svc.On("CreateScholarship", mock.Anything, mock.MatchedBy(func(s *models.Scholarship) bool {
		return s.ApplicationDeadline.Equal(wantDeadline) && s.ScholarshipPostDate.Equal(wantPosted)
	}), "admin@example.com").Return(&models.Scholarship{ID: "sch-1"}, nil)

	w := send(r, http.MethodPost, "/scholarships", scholarshipPayload(`"2026-12-31"`, `, "scholarshipPostDate": "2026-10-01"`))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	svc.AssertExpectations(t)
}

func TestCreateScholarshipAcceptsTimestampDeadline(t *testing.T) {
	svc := &mockScholarshipService{}
	r := newScholarshipRouter(svc)

	want := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)
	svc.On("CreateScholarship", mock.Anything, mock.MatchedBy(func(s *models.Scholarship) bool {
		return s.ApplicationDeadline.Equal(want) && s.ScholarshipPostDate.IsZero()
	}), "admin@example.com").Return(&models.Scholarship{ID: "sch-1"}, nil)

	w := send(r, http.MethodPost, "/scholarships", scholarshipPayload(`"2026-12-31T23:59:00Z"`, ""))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	svc.AssertExpectations(t)
}

func TestCreateScholarshipRejectsBadDeadline(t *testing.T) {
	for name, deadline := range map[string]string{
		"not a date": `"next spring"`,
		"missing":    `null`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := &mockScholarshipService{}
			r := newScholarshipRouter(svc)

			w := send(r, http.MethodPost, "/scholarships", scholarshipPayload(deadline, ""))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "CreateScholarship", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateScholarshipAcceptsDateOnlyDeadline(t *testing.T) {
	svc := &mockScholarshipService{}
	r := newScholarshipRouter(svc)

	want := time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC)
	svc.On("UpdateScholarship", mock.Anything, "sch-1", mock.MatchedBy(func(s *models.Scholarship) bool {
		return s.ApplicationDeadline.Equal(want)
	})).Return(&models.Scholarship{ID: "sch-1"}, nil)

	w := send(r, http.MethodPut, "/scholarships/sch-1", scholarshipPayload(`"2027-03-15"`, ""))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	svc.AssertExpectations(t)
}
