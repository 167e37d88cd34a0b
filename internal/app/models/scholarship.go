package models

import "time"

// Scholarship is a funding opportunity offered by a university
type Scholarship struct {
	ID                  string              `json:"id" db:"id" example:"3f0b9a5e-8d1c-4a36-9c55-0a1f2b7c9d10"`
	ScholarshipName     string              `json:"scholarshipName" db:"scholarship_name" example:"Global Excellence Scholarship"`
	UniversityName      string              `json:"universityName" db:"university_name" example:"University of Toronto"`
	UniversityImage     string              `json:"universityImage" db:"university_image"`
	UniversityCountry   string              `json:"universityCountry" db:"university_country" example:"Canada"`
	UniversityCity      string              `json:"universityCity" db:"university_city" example:"Toronto"`
	UniversityWorldRank int                 `json:"universityWorldRank" db:"university_world_rank" example:"21"`
	ScholarshipCategory ScholarshipCategory `json:"scholarshipCategory" db:"scholarship_category" example:"Full fund"`
	SubjectCategory     string              `json:"subjectCategory" db:"subject_category" example:"Engineering"`
	Degree              Degree              `json:"degree" db:"degree" example:"Masters"`
	TuitionFees         float64             `json:"tuitionFees" db:"tuition_fees" example:"0"`
	ApplicationFees     float64             `json:"applicationFees" db:"application_fees" example:"50"`
	ServiceCharge       float64             `json:"serviceCharge" db:"service_charge" example:"10"`
	ApplicationDeadline time.Time           `json:"applicationDeadline" db:"application_deadline"`
	ScholarshipPostDate time.Time           `json:"scholarshipPostDate" db:"scholarship_post_date"`
	PostedUserEmail     string              `json:"postedUserEmail" db:"posted_user_email"`
	CreatedAt           time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time           `json:"updatedAt" db:"updated_at"`
}

// IsFree reports whether applying costs nothing
func (s *Scholarship) IsFree() bool {
	return s.ApplicationFees <= 0
}

// ScholarshipFilter narrows a scholarship listing. Empty fields are ignored.
type ScholarshipFilter struct {
	Search   string
	Category string
	Subject  string
	Country  string
	Degree   string
}

// ScholarshipFacets lists the distinct filter values present in the catalogue
type ScholarshipFacets struct {
	Categories []string `json:"categories"`
	Subjects   []string `json:"subjects"`
	Countries  []string `json:"countries"`
	Degrees    []string `json:"degrees"`
}

// TopSort selects the ordering of the featured scholarship list
type TopSort string

const (
	TopSortByFee    TopSort = "applicationFees"
	TopSortByRecent TopSort = "recent"
)
