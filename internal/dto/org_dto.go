package dto

import "github.com/moveright/assessadmin-api/internal/models"

// CreateCountryRequest creates or reactivates a country by name.
type CreateCountryRequest struct {
	Name      string `json:"name" validate:"required"`
	Code      string `json:"code"`
	PhoneCode string `json:"phone_code"`
}

// UpdateCountryRequest edits country fields.
type UpdateCountryRequest struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	PhoneCode string `json:"phone_code"`
}

// CountryDetail pairs a country with its active regions.
type CountryDetail struct {
	Country models.Country  `json:"country"`
	Regions []models.Region `json:"regions"`
}

// CreateRegionRequest creates a region under a country.
type CreateRegionRequest struct {
	Name      string `json:"name" validate:"required"`
	CountryID uint   `json:"country_id" validate:"required"`
}

// UpdateRegionRequest edits region fields.
type UpdateRegionRequest struct {
	Name string `json:"name"`
}

// CreateSchoolRequest creates a school under a region.
type CreateSchoolRequest struct {
	Name     string `json:"name" validate:"required"`
	RegionID uint   `json:"region_id" validate:"required"`
}

// UpdateSchoolRequest edits school fields.
type UpdateSchoolRequest struct {
	Name string `json:"name"`
}
