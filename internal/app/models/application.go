package models

import "time"

// ApplicationStatus is the review state of an application
type ApplicationStatus string

const (
	ApplicationStatusPending    ApplicationStatus = "pending"
	ApplicationStatusProcessing ApplicationStatus = "processing"
	ApplicationStatusCompleted  ApplicationStatus = "completed"
	ApplicationStatusRejected   ApplicationStatus = "rejected"
)

// IsValid reports whether s is one of the four known statuses
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusProcessing, ApplicationStatusCompleted, ApplicationStatusRejected:
		return true
	}
	return false
}

// IsFinal reports whether no further moderation is expected
func (s ApplicationStatus) IsFinal() bool {
	return s == ApplicationStatusCompleted || s == ApplicationStatusRejected
}

// PaymentStatus tracks whether the application fee has been settled
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// IsValid reports whether s is unpaid or paid
func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusPaid
}

// Application is a user's application to one scholarship. At most one exists
// per (ScholarshipID, UserEmail).
type Application struct {
	ID            string `json:"id" db:"id"`
	ScholarshipID string `json:"scholarshipId" db:"scholarship_id"`
	UserID        string `json:"userId" db:"user_id"`
	UserName      string `json:"userName" db:"user_name"`
	UserEmail     string `json:"userEmail" db:"user_email"`

	// Snapshot of the scholarship taken when the application was created
	ScholarshipName     string              `json:"scholarshipName" db:"scholarship_name"`
	UniversityName      string              `json:"universityName" db:"university_name"`
	ScholarshipCategory ScholarshipCategory `json:"scholarshipCategory" db:"scholarship_category"`
	SubjectCategory     string              `json:"subjectCategory" db:"subject_category"`
	Degree              Degree              `json:"degree" db:"degree"`
	ApplicationFees     float64             `json:"applicationFees" db:"application_fees"`
	ServiceCharge       float64             `json:"serviceCharge" db:"service_charge"`

	ApplicationStatus ApplicationStatus `json:"applicationStatus" db:"application_status"`
	PaymentStatus     PaymentStatus     `json:"paymentStatus" db:"payment_status"`
	Feedback          string            `json:"feedback" db:"feedback"`
	ApplicationDate   time.Time         `json:"applicationDate" db:"application_date"`

	ContactNumber  *string `json:"contactNumber,omitempty" db:"contact_number"`
	Address        *string `json:"address,omitempty" db:"address"`
	AdditionalInfo *string `json:"additionalInfo,omitempty" db:"additional_info"`

	TransactionID    *string `json:"transactionId,omitempty" db:"transaction_id"`
	PaymentSessionID *string `json:"paymentSessionId,omitempty" db:"payment_session_id"`

	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ApplyScholarshipSnapshot copies the denormalized scholarship fields onto the application
func (a *Application) ApplyScholarshipSnapshot(s *Scholarship) {
	a.ScholarshipName = s.ScholarshipName
	a.UniversityName = s.UniversityName
	a.ScholarshipCategory = s.ScholarshipCategory
	a.SubjectCategory = s.SubjectCategory
	a.Degree = s.Degree
	a.ApplicationFees = s.ApplicationFees
	a.ServiceCharge = s.ServiceCharge
}

// ApplicantDetails is the optional contact information an applicant provides
type ApplicantDetails struct {
	ContactNumber  *string
	Address        *string
	AdditionalInfo *string
}

// ApplicationFilter narrows a moderator listing
type ApplicationFilter struct {
	Status ApplicationStatus
}

// NameCount is one bucket of an aggregate count
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Analytics is the admin dashboard summary
type Analytics struct {
	TotalUsers        int64       `json:"totalUsers"`
	TotalScholarships int64       `json:"totalScholarships"`
	TotalApplications int64       `json:"totalApplications"`
	TotalFees         float64     `json:"totalFees"`
	AppsPerUniversity []NameCount `json:"appsPerUniversity"`
	AppsPerCategory   []NameCount `json:"appsPerCategory"`

	// LegacyTotalScholarships mirrors TotalScholarships under the dashboard's older key.
	LegacyTotalScholarships int64 `json:"totalScholarShips"`
}
