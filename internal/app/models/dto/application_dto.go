package dto

import "github.com/yigit/scholarhub/internal/app/models"

// SaveApplicationRequest creates an application. The scholarship snapshot and the
// applicant identity are resolved on the server.
type SaveApplicationRequest struct {
	ScholarshipID  string  `json:"scholarshipId" binding:"required"`
	PaymentStatus  string  `json:"paymentStatus" binding:"omitempty,oneof=unpaid paid"`
	ContactNumber  *string `json:"contactNumber"`
	Address        *string `json:"address"`
	AdditionalInfo *string `json:"additionalInfo"`
}

// Details extracts the optional applicant fields
func (r *SaveApplicationRequest) Details() models.ApplicantDetails {
	return models.ApplicantDetails{
		ContactNumber:  r.ContactNumber,
		Address:        r.Address,
		AdditionalInfo: r.AdditionalInfo,
	}
}

// SaveApplicationResponse reports whether a new record was inserted
type SaveApplicationResponse struct {
	Application *models.Application `json:"application"`
	Created     bool                `json:"created"`
}

// FreeApplicationRequest marks a zero-fee application as paid
type FreeApplicationRequest struct {
	ScholarshipID string `json:"scholarshipId" binding:"required"`
}

// UpdateApplicationRequest lets an applicant edit contact details while pending
type UpdateApplicationRequest struct {
	ContactNumber  *string `json:"contactNumber"`
	Address        *string `json:"address"`
	AdditionalInfo *string `json:"additionalInfo"`
}

// Details extracts the optional applicant fields
func (r *UpdateApplicationRequest) Details() models.ApplicantDetails {
	return models.ApplicantDetails{
		ContactNumber:  r.ContactNumber,
		Address:        r.Address,
		AdditionalInfo: r.AdditionalInfo,
	}
}

// UpdateStatusRequest is the moderator status change body
type UpdateStatusRequest struct {
	ApplicationStatus string `json:"applicationStatus" binding:"required"`
}

// UpdateFeedbackRequest is the moderator feedback body
type UpdateFeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}
