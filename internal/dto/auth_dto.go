package dto

// LoginRequest carries credentials for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the signed token alongside the account profile.
type LoginResponse struct {
	Token         string   `json:"token"`
	User          UserView `json:"user"`
	FirstLoggedIn bool     `json:"first_logged_in"`
}

// SetPasswordRequest sets the account password on first login.
type SetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}
