package models

import "time"

// Audit carries the ownership and IP trail stamped on every mutable record.
// UpdatedBy/UpdatedIP reflect the actor of the latest mutation, including
// cascade deletions performed on behalf of a parent record.
type Audit struct {
	CreatedBy uint      `gorm:"index" json:"created_by"`
	UpdatedBy uint      `json:"updated_by"`
	CreatedIP string    `gorm:"size:45" json:"created_ip"`
	UpdatedIP string    `gorm:"size:45" json:"updated_ip"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
