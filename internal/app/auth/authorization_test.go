package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/scholarhub/internal/app/models"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		role models.RoleType
		cap  Capability
		want bool
	}{
		{models.RoleStudent, CapabilityAuthenticated, true},
		{models.RoleStudent, CapabilityApply, true},
		{models.RoleStudent, CapabilityModerate, false},
		{models.RoleModerator, CapabilityApply, false},
		{models.RoleModerator, CapabilityModerate, true},
		{models.RoleModerator, CapabilityAdminister, false},
		{models.RoleAdmin, CapabilityModerate, true},
		{models.RoleAdmin, CapabilityAdminister, true},
		{models.RoleType("guest"), CapabilityApply, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.cap), func(t *testing.T) {
			assert.Equal(t, tt.want, Allows(tt.role, tt.cap))
		})
	}
}

func TestUnknownCapabilityGrantsNothing(t *testing.T) {
	assert.False(t, Allows(models.RoleAdmin, Capability("launch")))
}
