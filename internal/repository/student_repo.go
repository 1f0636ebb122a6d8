package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
)

// StudentFilter narrows student list queries.
type StudentFilter struct {
	ClassIDs []uint
	Status   string
	Search   string
}

// StudentRepository provides access to student records.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (models.Student, error)
	List(ctx context.Context, filter StudentFilter) ([]models.Student, error)
	ListByClasses(ctx context.Context, classIDs []uint) ([]models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	UpdateFields(ctx context.Context, ids []uint, updates map[string]interface{}) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{}).Where("is_deleted = ?", false)

	if len(filter.ClassIDs) > 0 {
		query = query.Where("class_id IN ?", filter.ClassIDs)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like)
	}

	var students []models.Student
	if err := query.Order("first_name").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) ListByClasses(ctx context.Context, classIDs []uint) ([]models.Student, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}

	var students []models.Student
	if err := r.db.WithContext(ctx).Where("class_id IN ?", classIDs).Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) UpdateFields(ctx context.Context, ids []uint, updates map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Student{}).Where("id IN ?", ids).Updates(updates).Error
}
