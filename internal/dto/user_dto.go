package dto

// RegisterUserRequest creates an administrative account. The scope id
// lists are interpreted per role: admins are assigned countries,
// managers regions, program coordinators and practitioners schools.
type RegisterUserRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name"`
	Email      string `json:"email" validate:"required,email"`
	RoleID     uint   `json:"role_id" validate:"required"`
	CountryIDs []uint `json:"country_ids"`
	RegionIDs  []uint `json:"region_ids"`
	SchoolIDs  []uint `json:"school_ids"`
}

// UpdateUserRequest edits profile fields and reassigns scope.
type UpdateUserRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	CountryIDs []uint `json:"country_ids"`
	RegionIDs  []uint `json:"region_ids"`
	SchoolIDs  []uint `json:"school_ids"`
}

// UserView is the outward representation of an account.
type UserView struct {
	ID            uint   `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	RoleID        uint   `json:"role_id"`
	Role          string `json:"role"`
	CountryIDs    []uint `json:"country_ids"`
	RegionIDs     []uint `json:"region_ids"`
	SchoolIDs     []uint `json:"school_ids"`
	FirstLoggedIn bool   `json:"first_logged_in"`
}
