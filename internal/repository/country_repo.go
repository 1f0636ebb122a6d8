package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
)

// CountryFilter narrows country list queries.
type CountryFilter struct {
	IsAdded *bool
	IDs     []uint
	Search  string
}

// CountryRepository provides access to country records.
type CountryRepository interface {
	Create(ctx context.Context, country *models.Country) error
	GetByID(ctx context.Context, id uint) (models.Country, error)
	GetByName(ctx context.Context, name string) (models.Country, error)
	List(ctx context.Context, filter CountryFilter) ([]models.Country, error)
	UpdateFields(ctx context.Context, ids []uint, updates map[string]interface{}) error
}

type countryRepository struct {
	db *gorm.DB
}

// NewCountryRepository constructs a country repository.
func NewCountryRepository(db *gorm.DB) CountryRepository {
	return &countryRepository{db: db}
}

func (r *countryRepository) Create(ctx context.Context, country *models.Country) error {
	return r.db.WithContext(ctx).Create(country).Error
}

func (r *countryRepository) GetByID(ctx context.Context, id uint) (models.Country, error) {
	var country models.Country
	if err := r.db.WithContext(ctx).First(&country, id).Error; err != nil {
		return models.Country{}, err
	}
	return country, nil
}

func (r *countryRepository) GetByName(ctx context.Context, name string) (models.Country, error) {
	var country models.Country
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&country).Error
	if err != nil {
		return models.Country{}, err
	}
	return country, nil
}

func (r *countryRepository) List(ctx context.Context, filter CountryFilter) ([]models.Country, error) {
	query := r.db.WithContext(ctx).Model(&models.Country{})

	if filter.IsAdded != nil {
		query = query.Where("is_added = ?", *filter.IsAdded)
	}
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR phone_code LIKE ?", like, like, like)
	}

	var countries []models.Country
	if err := query.Order("name").Find(&countries).Error; err != nil {
		return nil, err
	}
	return countries, nil
}

func (r *countryRepository) UpdateFields(ctx context.Context, ids []uint, updates map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Country{}).Where("id IN ?", ids).Updates(updates).Error
}
