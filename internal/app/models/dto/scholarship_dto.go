package dto

import (
	"github.com/yigit/scholarhub/internal/app/models"
)

// ScholarshipRequest is the body of create and update calls
type ScholarshipRequest struct {
	ScholarshipName     string  `json:"scholarshipName" binding:"required"`
	UniversityName      string  `json:"universityName" binding:"required"`
	UniversityImage     string  `json:"universityImage"`
	UniversityCountry   string  `json:"universityCountry" binding:"required"`
	UniversityCity      string  `json:"universityCity" binding:"required"`
	UniversityWorldRank int     `json:"universityWorldRank" binding:"gte=0"`
	ScholarshipCategory string  `json:"scholarshipCategory" binding:"required,oneof='Full fund' Partial Self-fund"`
	SubjectCategory     string  `json:"subjectCategory" binding:"required"`
	Degree              string  `json:"degree" binding:"required,oneof=Diploma Bachelor Masters PhD"`
	TuitionFees         float64 `json:"tuitionFees" binding:"gte=0"`
	ApplicationFees     float64 `json:"applicationFees" binding:"gte=0"`
	ServiceCharge       float64 `json:"serviceCharge" binding:"gte=0"`
	ApplicationDeadline *Date   `json:"applicationDeadline" binding:"required"`
	// ScholarshipPostDate defaults to the time of creation
	ScholarshipPostDate *Date `json:"scholarshipPostDate"`
}

// ToModel builds a Scholarship from the request
func (r *ScholarshipRequest) ToModel() *models.Scholarship {
	s := &models.Scholarship{
		ScholarshipName:     r.ScholarshipName,
		UniversityName:      r.UniversityName,
		UniversityImage:     r.UniversityImage,
		UniversityCountry:   r.UniversityCountry,
		UniversityCity:      r.UniversityCity,
		UniversityWorldRank: r.UniversityWorldRank,
		ScholarshipCategory: models.ScholarshipCategory(r.ScholarshipCategory),
		SubjectCategory:     r.SubjectCategory,
		Degree:              models.Degree(r.Degree),
		TuitionFees:         r.TuitionFees,
		ApplicationFees:     r.ApplicationFees,
		ServiceCharge:       r.ServiceCharge,
	}
	if r.ApplicationDeadline != nil {
		s.ApplicationDeadline = r.ApplicationDeadline.Time
	}
	if r.ScholarshipPostDate != nil {
		s.ScholarshipPostDate = r.ScholarshipPostDate.Time
	}
	return s
}

// ScholarshipListQuery binds the public listing filters
type ScholarshipListQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Subject  string `form:"subject"`
	Country  string `form:"country"`
	Degree   string `form:"degree"`
}

// ToFilter converts the query to a repository filter
func (q ScholarshipListQuery) ToFilter() models.ScholarshipFilter {
	return models.ScholarshipFilter{
		Search:   q.Search,
		Category: q.Category,
		Subject:  q.Subject,
		Country:  q.Country,
		Degree:   q.Degree,
	}
}

// ImageUploadResponse is returned after a university image upload
type ImageUploadResponse struct {
	UniversityImage string `json:"universityImage"`
}
