package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
)

// SchoolFilter narrows school list queries.
type SchoolFilter struct {
	IDs        []uint
	CountryIDs []uint
	RegionIDs  []uint
	OwnerIDs   []uint
	Search     string
}

// SchoolRepository provides access to school records.
type SchoolRepository interface {
	Create(ctx context.Context, school *models.School) error
	GetByID(ctx context.Context, id uint) (models.School, error)
	GetByNaturalKey(ctx context.Context, name string, regionID, countryID uint) (models.School, error)
	List(ctx context.Context, filter SchoolFilter) ([]models.School, error)
	ListByCountryOrRegions(ctx context.Context, countryID uint, regionIDs []uint) ([]models.School, error)
	ListByRegions(ctx context.Context, regionIDs []uint) ([]models.School, error)
	UpdateFields(ctx context.Context, ids []uint, updates map[string]interface{}) error
}

type schoolRepository struct {
	db *gorm.DB
}

// NewSchoolRepository constructs a school repository.
func NewSchoolRepository(db *gorm.DB) SchoolRepository {
	return &schoolRepository{db: db}
}

func (r *schoolRepository) Create(ctx context.Context, school *models.School) error {
	return r.db.WithContext(ctx).Create(school).Error
}

func (r *schoolRepository) GetByID(ctx context.Context, id uint) (models.School, error) {
	var school models.School
	if err := r.db.WithContext(ctx).First(&school, id).Error; err != nil {
		return models.School{}, err
	}
	return school, nil
}

func (r *schoolRepository) GetByNaturalKey(ctx context.Context, name string, regionID, countryID uint) (models.School, error) {
	var school models.School
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ? AND region_id = ? AND country_id = ? AND is_deleted = ?",
			strings.ToLower(name), regionID, countryID, false).
		First(&school).Error
	if err != nil {
		return models.School{}, err
	}
	return school, nil
}

func (r *schoolRepository) List(ctx context.Context, filter SchoolFilter) ([]models.School, error) {
	query := r.db.WithContext(ctx).Model(&models.School{}).Where("is_deleted = ?", false)

	scope := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if len(filter.IDs) > 0 {
		scope = append(scope, "id IN ?")
		args = append(args, filter.IDs)
	}
	if len(filter.CountryIDs) > 0 {
		scope = append(scope, "country_id IN ?")
		args = append(args, filter.CountryIDs)
	}
	if len(filter.RegionIDs) > 0 {
		scope = append(scope, "region_id IN ?")
		args = append(args, filter.RegionIDs)
	}
	if len(filter.OwnerIDs) > 0 {
		scope = append(scope, "(created_by IN ? OR updated_by IN ?)")
		args = append(args, filter.OwnerIDs, filter.OwnerIDs)
	}
	if len(scope) > 0 {
		query = query.Where(strings.Join(scope, " OR "), args...)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", like)
	}

	var schools []models.School
	if err := query.Order("name").Find(&schools).Error; err != nil {
		return nil, err
	}
	return schools, nil
}

func (r *schoolRepository) ListByCountryOrRegions(ctx context.Context, countryID uint, regionIDs []uint) ([]models.School, error) {
	query := r.db.WithContext(ctx).Model(&models.School{})
	if len(regionIDs) > 0 {
		query = query.Where("country_id = ? OR region_id IN ?", countryID, regionIDs)
	} else {
		query = query.Where("country_id = ?", countryID)
	}

	var schools []models.School
	if err := query.Find(&schools).Error; err != nil {
		return nil, err
	}
	return schools, nil
}

func (r *schoolRepository) ListByRegions(ctx context.Context, regionIDs []uint) ([]models.School, error) {
	if len(regionIDs) == 0 {
		return nil, nil
	}

	var schools []models.School
	if err := r.db.WithContext(ctx).Where("region_id IN ?", regionIDs).Find(&schools).Error; err != nil {
		return nil, err
	}
	return schools, nil
}

func (r *schoolRepository) UpdateFields(ctx context.Context, ids []uint, updates map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.School{}).Where("id IN ?", ids).Updates(updates).Error
}
