package dto

// UpsertUserRequest is posted on every login. Email is taken from the verified token.
type UpsertUserRequest struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// UpdateRoleRequest changes a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=student moderator admin"`
}

// RoleResponse answers the public role lookup
type RoleResponse struct {
	Email string `json:"email" example:"student@example.com"`
	Role  string `json:"role" example:"student"`
}
