package types

import (
	"testing"

	"github.com/matryer/is"
)

func TestEveryRoleHasAProfile(t *testing.T) {
	is := is.New(t)

	for _, role := range Roles() {
		is.True(role.Valid())
		profile := role.Profile()
		is.True(profile.LandingPath != "")
		is.True(profile.NotifyScope != "")
	}
}

func TestUnknownRoleIsInvalid(t *testing.T) {
	is := is.New(t)

	is.True(!Role("admin").Valid())
	is.True(!Role("").Valid())
}

func TestNotificationScopes(t *testing.T) {
	is := is.New(t)

	// Biomedical staff poll the role-broadcast list, technicians their
	// targeted list; clinical roles have no notification surface.
	is.Equal(RoleBiomedico.Profile().NotifyScope, ScopeBroadcast)
	is.Equal(RoleTecnico.Profile().NotifyScope, ScopeTargeted)
	is.Equal(RoleEnfermera.Profile().NotifyScope, ScopeNone)
	is.Equal(RoleMedico.Profile().NotifyScope, ScopeNone)
	is.Equal(RoleNatural.Profile().NotifyScope, ScopeNone)
}
