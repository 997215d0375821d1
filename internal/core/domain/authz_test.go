package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testActor struct {
	id   uint
	role Role
}

func (a testActor) ActorID() uint   { return a.id }
func (a testActor) ActorRole() Role { return a.role }

func TestRequireRole(t *testing.T) {
	carrier := testActor{id: 1, role: RoleCarrier}
	shipper := testActor{id: 2, role: RoleShipper}
	admin := testActor{id: 3, role: RoleAdmin}

	assert.NoError(t, RequireRole(carrier, RoleCarrier))
	assert.NoError(t, RequireRole(shipper, RoleCarrier, RoleShipper))
	assert.ErrorIs(t, RequireRole(shipper, RoleCarrier), ErrForbidden)

	// Admins pass only when RoleAdmin is listed
	assert.ErrorIs(t, RequireRole(admin, RoleCarrier), ErrForbidden)
	assert.NoError(t, RequireRole(admin, RoleAdmin))
}

func TestRequireOwner(t *testing.T) {
	owner := testActor{id: 7, role: RoleCarrier}
	other := testActor{id: 8, role: RoleCarrier}
	admin := testActor{id: 9, role: RoleAdmin}

	assert.NoError(t, RequireOwner(owner, 7))
	assert.ErrorIs(t, RequireOwner(other, 7), ErrForbidden)

	// Admins bypass ownership
	assert.NoError(t, RequireOwner(admin, 7))
}

func TestIsParty(t *testing.T) {
	shipper := testActor{id: 4, role: RoleShipper}

	assert.True(t, IsParty(shipper, 4, 10))
	assert.True(t, IsParty(shipper, 10, 4))
	assert.False(t, IsParty(shipper, 10, 11))
}
