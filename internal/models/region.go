package models

// Region is an administrative subdivision of a country. It shares the
// dual IsAdded/IsDeleted lifecycle with Country.
type Region struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	CountryID uint   `gorm:"index;not null" json:"country_id"`
	IsAdded   bool   `gorm:"not null;default:false" json:"is_added"`
	IsDeleted bool   `gorm:"not null;default:false" json:"is_deleted"`
	Audit
}
