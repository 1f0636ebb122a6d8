package models

// Assessment records one observation of a student performing a task.
// The four body scores are immutable facts once created; only soft
// deletion and generic field corrections touch the row afterwards.
type Assessment struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	ClassID        uint    `gorm:"index;not null" json:"class_id"`
	TaskID         uint    `gorm:"index;not null" json:"task_id"`
	PractitionerID uint    `gorm:"index;not null" json:"practitioner_id"`
	StudentID      uint    `gorm:"index;not null" json:"student_id"`
	Head           float64 `json:"head"`
	Arms           float64 `json:"arms"`
	Legs           float64 `json:"legs"`
	Body           float64 `json:"body"`
	Date           int64   `json:"date"`
	IsDeleted      bool    `gorm:"not null;default:false" json:"is_deleted"`
	Audit
}
