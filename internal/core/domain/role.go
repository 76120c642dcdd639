package domain

// Role is the single role string the user service assigns to an account.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleClerk      Role = "clerk"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Valid reports whether r is one of the roles the user service knows about.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleClerk, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Capability names a single permission flag.
type Capability string

const (
	CapabilityClerk      Capability = "clerk"
	CapabilityAdmin      Capability = "admin"
	CapabilitySuperAdmin Capability = "super_admin"
)

// Capabilities is the set of boolean flags derived from a role.
type Capabilities struct {
	IsClerk      bool `json:"is_clerk"`
	IsAdmin      bool `json:"is_admin"`
	IsSuperAdmin bool `json:"is_super_admin"`
}

// roleTier pairs a role with the flags it contributes on top of the tiers
// below it.
type roleTier struct {
	role  Role
	flags Capabilities
}

// roleTiers is ordered from lowest to highest. A role's capabilities are the
// union of its own tier and every tier before it.
var roleTiers = []roleTier{
	{role: RoleClerk, flags: Capabilities{IsClerk: true}},
	{role: RoleAdmin, flags: Capabilities{IsAdmin: true}},
	{role: RoleSuperAdmin, flags: Capabilities{IsSuperAdmin: true}},
}

// CapabilitiesFor derives the cumulative capability flags for role.
// Employees and unknown roles get no flags.
func CapabilitiesFor(role Role) Capabilities {
	idx := tierIndex(role)
	if idx < 0 {
		return Capabilities{}
	}

	var caps Capabilities
	for _, tier := range roleTiers[:idx+1] {
		caps = caps.union(tier.flags)
	}
	return caps
}

// contains reports whether every flag set in other is also set in c.
func (c Capabilities) contains(other Capabilities) bool {
	return (c.IsClerk || !other.IsClerk) &&
		(c.IsAdmin || !other.IsAdmin) &&
		(c.IsSuperAdmin || !other.IsSuperAdmin)
}

// Allows reports whether the flag for capability is set.
func (c Capabilities) Allows(capability Capability) bool {
	switch capability {
	case CapabilityClerk:
		return c.IsClerk
	case CapabilityAdmin:
		return c.IsAdmin
	case CapabilitySuperAdmin:
		return c.IsSuperAdmin
	}
	return false
}

func (c Capabilities) union(other Capabilities) Capabilities {
	return Capabilities{
		IsClerk:      c.IsClerk || other.IsClerk,
		IsAdmin:      c.IsAdmin || other.IsAdmin,
		IsSuperAdmin: c.IsSuperAdmin || other.IsSuperAdmin,
	}
}

func tierIndex(role Role) int {
	for i, tier := range roleTiers {
		if tier.role == role {
			return i
		}
	}
	return -1
}

// RoleHierarchy returns the gated roles from lowest to highest.
func RoleHierarchy() []Role {
	out := make([]Role, len(roleTiers))
	for i, tier := range roleTiers {
		out[i] = tier.role
	}
	return out
}
