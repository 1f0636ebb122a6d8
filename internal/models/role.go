package models

// RoleName enumerates the fixed role hierarchy. The two top roles are
// unrestricted; every other role is scoped to an organizational level.
type RoleName string

const (
	RoleSuperAdmin         RoleName = "superadmin"
	RoleGlobalAdmin        RoleName = "globaladmin"
	RoleAdmin              RoleName = "admin"
	RoleManager            RoleName = "manager"
	RoleProgramCoordinator RoleName = "programcoordinator"
	RolePractitioner       RoleName = "practitioner"
)

// Rank returns the position of the role in the hierarchy; lower is more
// privileged. Superadmin and globaladmin share the top rank.
func (r RoleName) Rank() int {
	switch r {
	case RoleSuperAdmin, RoleGlobalAdmin:
		return 0
	case RoleAdmin:
		return 1
	case RoleManager:
		return 2
	case RoleProgramCoordinator:
		return 3
	case RolePractitioner:
		return 4
	default:
		return -1
	}
}

// Unrestricted reports whether the role sees the whole hierarchy.
func (r RoleName) Unrestricted() bool {
	return r == RoleSuperAdmin || r == RoleGlobalAdmin
}

// Role is the persisted role record users reference.
type Role struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Name        RoleName `gorm:"size:32;uniqueIndex;not null" json:"name"`
	DisplayName string   `gorm:"size:64" json:"display_name"`
}
