package models

// Student is an assessed learner enrolled in a class. DOB is stored as
// epoch milliseconds, matching every other date-of-record field.
type Student struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"size:255;not null" json:"first_name"`
	LastName  string `gorm:"size:255" json:"last_name"`
	Gender    string `gorm:"size:16" json:"gender"`
	DOB       int64  `json:"dob"`
	Email     string `gorm:"size:255" json:"email"`
	Status    string `gorm:"size:16;not null;default:active" json:"status"`
	ClassID   uint   `gorm:"index;not null" json:"class_id"`
	IsDeleted bool   `gorm:"not null;default:false" json:"is_deleted"`
	Audit
}
