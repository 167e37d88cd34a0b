package dto

// CreateReviewRequest is posted by an applicant. Reviewer identity comes from the token.
type CreateReviewRequest struct {
	ScholarshipID string `json:"scholarshipId" binding:"required"`
	RatingPoint   int    `json:"ratingPoint" binding:"required,min=1,max=5"`
	ReviewComment string `json:"reviewComment" binding:"required"`
	UserName      string `json:"userName"`
	UserImage     string `json:"userImage"`
}

// UpdateReviewRequest edits the owner's rating and comment
type UpdateReviewRequest struct {
	RatingPoint   int    `json:"ratingPoint" binding:"required,min=1,max=5"`
	ReviewComment string `json:"reviewComment" binding:"required"`
}
