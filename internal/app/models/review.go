package models

import "time"

// Review is a user's rating of a scholarship
type Review struct {
	ID             string    `json:"id" db:"id"`
	ScholarshipID  string    `json:"scholarshipId" db:"scholarship_id"`
	UniversityName string    `json:"universityName" db:"university_name"`
	UserName       string    `json:"userName" db:"user_name"`
	UserEmail      string    `json:"userEmail" db:"user_email"`
	UserImage      string    `json:"userImage" db:"user_image"`
	RatingPoint    int       `json:"ratingPoint" db:"rating_point" example:"5"`
	ReviewComment  string    `json:"reviewComment" db:"review_comment"`
	ReviewDate     time.Time `json:"reviewDate" db:"review_date"`
}
