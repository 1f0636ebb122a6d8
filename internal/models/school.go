package models

// School belongs to a region and its country.
type School struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	RegionID  uint   `gorm:"index;not null" json:"region_id"`
	CountryID uint   `gorm:"index;not null" json:"country_id"`
	IsDeleted bool   `gorm:"not null;default:false" json:"is_deleted"`
	Audit
}
