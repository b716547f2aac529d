package types

// Role identifies a user's position in the hospital.
type Role string

const (
	RoleNatural   Role = "natural"
	RoleMedico    Role = "medico"
	RoleEnfermera Role = "enfermera"
	RoleTecnico   Role = "tecnico"
	RoleBiomedico Role = "biomedico"
)

// NotificationScope determines which notification list a role polls.
type NotificationScope string

const (
	ScopeNone      NotificationScope = "none"
	ScopeBroadcast NotificationScope = "role_broadcast"
	ScopeTargeted  NotificationScope = "targeted"
)

// RoleProfile is the per-role behavior consumed uniformly by handlers and
// clients. Single lookup table instead of switch-on-role logic.
type RoleProfile struct {
	LandingPath string            `json:"landing_path"`
	LabelPrefix string            `json:"label_prefix"`
	NotifyScope NotificationScope `json:"notification_scope"`
}

var roleProfiles = map[Role]RoleProfile{
	RoleNatural:   {LandingPath: "/inicio", LabelPrefix: "", NotifyScope: ScopeNone},
	RoleMedico:    {LandingPath: "/medico", LabelPrefix: "Dr.", NotifyScope: ScopeNone},
	RoleEnfermera: {LandingPath: "/enfermeria", LabelPrefix: "Enf.", NotifyScope: ScopeNone},
	RoleTecnico:   {LandingPath: "/tecnico", LabelPrefix: "Tec.", NotifyScope: ScopeTargeted},
	RoleBiomedico: {LandingPath: "/biomedico", LabelPrefix: "Ing.", NotifyScope: ScopeBroadcast},
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleProfiles[r]
	return ok
}

// Profile returns the behavior table entry for r. The zero profile is
// returned for unknown roles.
func (r Role) Profile() RoleProfile {
	return roleProfiles[r]
}

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleNatural, RoleMedico, RoleEnfermera, RoleTecnico, RoleBiomedico}
}
