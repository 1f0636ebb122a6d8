package dto

// CreateClassRequest creates a class under a school assigned to a practitioner.
type CreateClassRequest struct {
	Name           string `json:"name" validate:"required"`
	SchoolID       uint   `json:"school_id" validate:"required"`
	PractitionerID uint   `json:"practitioner_id" validate:"required"`
}

// UpdateClassRequest edits class fields.
type UpdateClassRequest struct {
	Name           string `json:"name"`
	Status         string `json:"status"`
	PractitionerID uint   `json:"practitioner_id"`
}

// CreateStudentRequest enrolls a student into a class.
type CreateStudentRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	DOB       int64  `json:"dob"`
	Email     string `json:"email" validate:"omitempty,email"`
	ClassID   uint   `json:"class_id" validate:"required"`
}

// UpdateStudentRequest edits student fields.
type UpdateStudentRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	DOB       int64  `json:"dob"`
	Email     string `json:"email" validate:"omitempty,email"`
	ClassID   uint   `json:"class_id"`
}
