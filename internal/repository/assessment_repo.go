package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
)

// AssessmentFilter narrows assessment list queries.
type AssessmentFilter struct {
	TaskID          uint
	ClassIDs        []uint
	StudentIDs      []uint
	PractitionerIDs []uint
	FromDate        int64
	ToDate          int64
}

// AssessmentRepository provides access to assessment records.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	GetByID(ctx context.Context, id uint) (models.Assessment, error)
	List(ctx context.Context, filter AssessmentFilter) ([]models.Assessment, error)
	ListByStudentsOrPractitioners(ctx context.Context, studentIDs, practitionerIDs []uint) ([]models.Assessment, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	UpdateFields(ctx context.Context, ids []uint, updates map[string]interface{}) error
}

type assessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository constructs an assessment repository.
func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	return r.db.WithContext(ctx).Create(assessment).Error
}

func (r *assessmentRepository) GetByID(ctx context.Context, id uint) (models.Assessment, error) {
	var assessment models.Assessment
	if err := r.db.WithContext(ctx).First(&assessment, id).Error; err != nil {
		return models.Assessment{}, err
	}
	return assessment, nil
}

func (r *assessmentRepository) List(ctx context.Context, filter AssessmentFilter) ([]models.Assessment, error) {
	query := r.db.WithContext(ctx).Model(&models.Assessment{}).Where("is_deleted = ?", false)

	if filter.TaskID != 0 {
		query = query.Where("task_id = ?", filter.TaskID)
	}
	if len(filter.ClassIDs) > 0 {
		query = query.Where("class_id IN ?", filter.ClassIDs)
	}
	if len(filter.StudentIDs) > 0 {
		query = query.Where("student_id IN ?", filter.StudentIDs)
	}
	if len(filter.PractitionerIDs) > 0 {
		query = query.Where("practitioner_id IN ?", filter.PractitionerIDs)
	}
	if filter.FromDate != 0 {
		query = query.Where("date >= ?", filter.FromDate)
	}
	if filter.ToDate != 0 {
		query = query.Where("date <= ?", filter.ToDate)
	}

	var assessments []models.Assessment
	if err := query.Order("date DESC").Find(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

func (r *assessmentRepository) ListByStudentsOrPractitioners(ctx context.Context, studentIDs, practitionerIDs []uint) ([]models.Assessment, error) {
	query := r.db.WithContext(ctx).Model(&models.Assessment{})

	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	if len(studentIDs) > 0 {
		conditions = append(conditions, "student_id IN ?")
		args = append(args, studentIDs)
	}
	if len(practitionerIDs) > 0 {
		conditions = append(conditions, "practitioner_id IN ?")
		args = append(args, practitionerIDs)
	}
	if len(conditions) == 0 {
		return nil, nil
	}

	var assessments []models.Assessment
	if err := query.Where(strings.Join(conditions, " OR "), args...).Find(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

func (r *assessmentRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Assessment{}).Where("id = ?", id).Updates(updates).Error
}

func (r *assessmentRepository) UpdateFields(ctx context.Context, ids []uint, updates map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Assessment{}).Where("id IN ?", ids).Updates(updates).Error
}
