package models

import (
	"time"
)

// User is created on first login and keyed by e-mail
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email" example:"student@example.com"`
	Name         string     `json:"name" db:"name" example:"Jane Doe"`
	PhotoURL     string     `json:"photoURL" db:"photo_url"`
	Role         RoleType   `json:"role" db:"role" example:"student"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	LastLoggedIn *time.Time `json:"lastLoggedIn,omitempty" db:"last_logged_in"`
}
