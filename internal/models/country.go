package models

// Country is the top of the organizational hierarchy.
//
// Countries carry a dual lifecycle: IsAdded=false retires a country from
// active use (and is what a cascade sets), while IsDeleted remains for
// parity with the generic soft-delete flag used by lower levels. A create
// with the name of a retired country reactivates it instead of inserting
// a duplicate row.
type Country struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Code      string `gorm:"size:8" json:"code"`
	PhoneCode string `gorm:"size:8" json:"phone_code"`
	IsAdded   bool   `gorm:"not null;default:false" json:"is_added"`
	IsDeleted bool   `gorm:"not null;default:false" json:"is_deleted"`
	Audit
}
