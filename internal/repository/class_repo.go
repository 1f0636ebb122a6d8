package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
)

// ClassFilter narrows class list queries.
type ClassFilter struct {
	SchoolIDs       []uint
	PractitionerIDs []uint
	OwnerIDs        []uint
	Status          string
	Search          string
}

// ClassRepository provides access to class records.
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id uint) (models.Class, error)
	List(ctx context.Context, filter ClassFilter) ([]models.Class, error)
	ListBySchoolsOrPractitioners(ctx context.Context, schoolIDs, practitionerIDs []uint) ([]models.Class, error)
	ListByPractitioner(ctx context.Context, practitionerID uint) ([]models.Class, error)
	UpdateFields(ctx context.Context, ids []uint, updates map[string]interface{}) error
	Update(ctx context.Context, class *models.Class) error
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository constructs a class repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) GetByID(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).First(&class, id).Error; err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classRepository) List(ctx context.Context, filter ClassFilter) ([]models.Class, error) {
	query := r.db.WithContext(ctx).Model(&models.Class{}).Where("is_deleted = ?", false)

	scope := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if len(filter.SchoolIDs) > 0 {
		scope = append(scope, "school_id IN ?")
		args = append(args, filter.SchoolIDs)
	}
	if len(filter.PractitionerIDs) > 0 {
		scope = append(scope, "practitioner_id IN ?")
		args = append(args, filter.PractitionerIDs)
	}
	if len(filter.OwnerIDs) > 0 {
		scope = append(scope, "(created_by IN ? OR updated_by IN ?)")
		args = append(args, filter.OwnerIDs, filter.OwnerIDs)
	}
	if len(scope) > 0 {
		query = query.Where(strings.Join(scope, " OR "), args...)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", like)
	}

	var classes []models.Class
	if err := query.Order("name").Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) ListBySchoolsOrPractitioners(ctx context.Context, schoolIDs, practitionerIDs []uint) ([]models.Class, error) {
	query := r.db.WithContext(ctx).Model(&models.Class{})
	switch {
	case len(schoolIDs) > 0 && len(practitionerIDs) > 0:
		query = query.Where("school_id IN ? OR practitioner_id IN ?", schoolIDs, practitionerIDs)
	case len(schoolIDs) > 0:
		query = query.Where("school_id IN ?", schoolIDs)
	case len(practitionerIDs) > 0:
		query = query.Where("practitioner_id IN ?", practitionerIDs)
	default:
		return nil, nil
	}

	var classes []models.Class
	if err := query.Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) ListByPractitioner(ctx context.Context, practitionerID uint) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).
		Where("practitioner_id = ?", practitionerID).
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) UpdateFields(ctx context.Context, ids []uint, updates map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Class{}).Where("id IN ?", ids).Updates(updates).Error
}

func (r *classRepository) Update(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Save(class).Error
}
