package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, Admin.HasPermission(Staff))
	assert.True(t, Admin.HasPermission(Manager))
	assert.True(t, Admin.HasPermission(Admin))

	assert.True(t, Manager.HasPermission(Staff))
	assert.False(t, Manager.HasPermission(Admin))

	assert.True(t, Staff.HasPermission(Staff))
	assert.False(t, Staff.HasPermission(Manager))
	assert.False(t, Staff.HasPermission(Admin))
}

func TestUnknownRoleFallsBackToStaffLevel(t *testing.T) {
	unknown := Role("contractor")

	assert.Equal(t, StaffLevel, unknown.GetHierarchyLevel())
	assert.False(t, unknown.IsValid())
	assert.False(t, unknown.HasPermission(Manager))
}

func TestIsValid(t *testing.T) {
	for _, r := range []Role{Staff, Manager, Admin} {
		assert.True(t, r.IsValid(), r.String())
	}
}
