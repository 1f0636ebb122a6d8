package models

// Class status values.
const (
	ClassStatusActive   = "active"
	ClassStatusInactive = "inactive"
)

// Class is a group of students taught by a single practitioner. When a
// practitioner account is deleted the class survives and is reassigned to
// a replacement practitioner.
type Class struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"size:255;not null" json:"name"`
	Status         string `gorm:"size:16;not null;default:active" json:"status"`
	SchoolID       uint   `gorm:"index;not null" json:"school_id"`
	PractitionerID uint   `gorm:"index;not null" json:"practitioner_id"`
	IsDeleted      bool   `gorm:"not null;default:false" json:"is_deleted"`
	Audit
}
