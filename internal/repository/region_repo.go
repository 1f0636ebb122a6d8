package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
)

// RegionFilter narrows region list queries.
type RegionFilter struct {
	IsAdded   *bool
	IDs       []uint
	CountryID uint
	Search    string
}

// RegionRepository provides access to region records.
type RegionRepository interface {
	Create(ctx context.Context, region *models.Region) error
	GetByID(ctx context.Context, id uint) (models.Region, error)
	GetByNameAndCountry(ctx context.Context, name string, countryID uint) (models.Region, error)
	List(ctx context.Context, filter RegionFilter) ([]models.Region, error)
	ListByCountry(ctx context.Context, countryID uint) ([]models.Region, error)
	UpdateFields(ctx context.Context, ids []uint, updates map[string]interface{}) error
	RetireByCountry(ctx context.Context, countryID uint, updates map[string]interface{}) error
}

type regionRepository struct {
	db *gorm.DB
}

// NewRegionRepository constructs a region repository.
func NewRegionRepository(db *gorm.DB) RegionRepository {
	return &regionRepository{db: db}
}

func (r *regionRepository) Create(ctx context.Context, region *models.Region) error {
	return r.db.WithContext(ctx).Create(region).Error
}

func (r *regionRepository) GetByID(ctx context.Context, id uint) (models.Region, error) {
	var region models.Region
	if err := r.db.WithContext(ctx).First(&region, id).Error; err != nil {
		return models.Region{}, err
	}
	return region, nil
}

func (r *regionRepository) GetByNameAndCountry(ctx context.Context, name string, countryID uint) (models.Region, error) {
	var region models.Region
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ? AND country_id = ?", strings.ToLower(name), countryID).
		First(&region).Error
	if err != nil {
		return models.Region{}, err
	}
	return region, nil
}

func (r *regionRepository) List(ctx context.Context, filter RegionFilter) ([]models.Region, error) {
	query := r.db.WithContext(ctx).Model(&models.Region{})

	if filter.IsAdded != nil {
		query = query.Where("is_added = ?", *filter.IsAdded)
	}
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	if filter.CountryID != 0 {
		query = query.Where("country_id = ?", filter.CountryID)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", like)
	}

	var regions []models.Region
	if err := query.Order("name").Find(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}

func (r *regionRepository) ListByCountry(ctx context.Context, countryID uint) ([]models.Region, error) {
	var regions []models.Region
	if err := r.db.WithContext(ctx).Where("country_id = ?", countryID).Find(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}

func (r *regionRepository) UpdateFields(ctx context.Context, ids []uint, updates map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Region{}).Where("id IN ?", ids).Updates(updates).Error
}

func (r *regionRepository) RetireByCountry(ctx context.Context, countryID uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Region{}).Where("country_id = ?", countryID).Updates(updates).Error
}
