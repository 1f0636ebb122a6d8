package models

// User is an administrative account. The Countries/Regions/Schools
// associations record the organizational units the user administers
// (their assigned scope, not computed descendants). Ownership of other
// users is inferred through the CreatedBy/UpdatedBy audit trail rather
// than an explicit parent pointer.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FirstName     string    `gorm:"size:255;not null" json:"first_name"`
	LastName      string    `gorm:"size:255" json:"last_name"`
	Email         string    `gorm:"size:255;index;not null" json:"email"`
	PasswordHash  string    `gorm:"size:255" json:"-"`
	RoleID        uint      `gorm:"index;not null" json:"role_id"`
	Role          Role      `json:"role,omitempty"`
	Countries     []Country `gorm:"many2many:user_countries" json:"countries,omitempty"`
	Regions       []Region  `gorm:"many2many:user_regions" json:"regions,omitempty"`
	Schools       []School  `gorm:"many2many:user_schools" json:"schools,omitempty"`
	FirstLoggedIn bool      `gorm:"not null;default:false" json:"first_logged_in"`
	IsDeleted     bool      `gorm:"not null;default:false" json:"is_deleted"`
	Audit
}

// CountryIDs returns the ids of the user's assigned countries.
func (u User) CountryIDs() []uint {
	ids := make([]uint, 0, len(u.Countries))
	for _, c := range u.Countries {
		ids = append(ids, c.ID)
	}
	return ids
}

// RegionIDs returns the ids of the user's assigned regions.
func (u User) RegionIDs() []uint {
	ids := make([]uint, 0, len(u.Regions))
	for _, r := range u.Regions {
		ids = append(ids, r.ID)
	}
	return ids
}

// SchoolIDs returns the ids of the user's assigned schools.
func (u User) SchoolIDs() []uint {
	ids := make([]uint, 0, len(u.Schools))
	for _, s := range u.Schools {
		ids = append(ids, s.ID)
	}
	return ids
}
