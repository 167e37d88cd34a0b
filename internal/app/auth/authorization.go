// Package auth maps route capabilities onto user roles.
package auth

import (
	"github.com/yigit/scholarhub/internal/app/models"
)

// Capability names what a route group lets its caller do
type Capability string

const (
	// CapabilityAuthenticated only needs a verified identity token
	CapabilityAuthenticated Capability = "authenticated"
	// CapabilityApply covers the applicant workflow: applying, paying, reviewing
	CapabilityApply Capability = "apply"
	// CapabilityModerate covers reviewing applications and reviews
	CapabilityModerate Capability = "moderate"
	// CapabilityAdminister covers scholarship, user and analytics management
	CapabilityAdminister Capability = "administer"
)

var capabilityRoles = map[Capability][]models.RoleType{
	CapabilityApply:      {models.RoleStudent},
	CapabilityModerate:   {models.RoleModerator, models.RoleAdmin},
	CapabilityAdminister: {models.RoleAdmin},
}

// NeedsRole reports whether the capability requires a stored user role
func (c Capability) NeedsRole() bool {
	return c != CapabilityAuthenticated
}

// Roles returns the roles granted the capability
func (c Capability) Roles() []models.RoleType {
	return capabilityRoles[c]
}

// Allows reports whether role holds the capability
func Allows(role models.RoleType, c Capability) bool {
	if !c.NeedsRole() {
		return true
	}
	for _, r := range capabilityRoles[c] {
		if r == role {
			return true
		}
	}
	return false
}
