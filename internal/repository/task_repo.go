package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
)

// TaskRepository provides access to curriculum tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uint) (models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	ExistsByNumberAndPhase(ctx context.Context, number int, phaseID uint) (bool, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository constructs a task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) GetByID(ctx context.Context, id uint) (models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Preload("Phase").
		Preload("MovementType").
		First(&task, id).Error
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (r *taskRepository) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Preload("Phase").
		Preload("MovementType").
		Where("is_deleted = ?", false).
		Order("number").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) ExistsByNumberAndPhase(ctx context.Context, number int, phaseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("number = ? AND phase_id = ? AND is_deleted = ?", number, phaseID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
