package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Satisfies(t *testing.T) {
	tests := []struct {
		have     Role
		required Role
		want     bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleClient, true},
		{RoleAgency, RoleTalent, true},
		{RoleAgency, RoleAdmin, false},
		{RoleTalent, RoleAgency, false},
		{RoleClient, RoleClient, true},
		{Role("guest"), RoleClient, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.have)+"->"+string(tt.required), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.have.Satisfies(tt.required))
		})
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleAgency, RoleTalent, RoleClient} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("").Valid())
	assert.False(t, Role("superuser").Valid())
	assert.True(t, RoleAdmin.IsAdmin())
	assert.False(t, RoleAgency.IsAdmin())
}

func TestIsSupport(t *testing.T) {
	assert.True(t, IsSupport(SupportID))
	assert.False(t, IsSupport("U1"))
	assert.False(t, IsSupport(""))
}
