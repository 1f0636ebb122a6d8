package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
)

// TrainingTaskRepository provides access to training tasks and their
// question bank.
type TrainingTaskRepository interface {
	GetByID(ctx context.Context, id uint) (models.TrainingTask, error)
	Sample(ctx context.Context, n int) ([]models.TrainingTask, error)
	ListQuestions(ctx context.Context, trainingTaskID uint) ([]models.TrainingTaskQuestion, error)
	GetQuestion(ctx context.Context, id uint) (models.TrainingTaskQuestion, error)
	CountQuestions(ctx context.Context, trainingTaskID uint) (int64, error)
}

type trainingTaskRepository struct {
	db *gorm.DB
}

// NewTrainingTaskRepository constructs a training task repository.
func NewTrainingTaskRepository(db *gorm.DB) TrainingTaskRepository {
	return &trainingTaskRepository{db: db}
}

func (r *trainingTaskRepository) GetByID(ctx context.Context, id uint) (models.TrainingTask, error) {
	var task models.TrainingTask
	err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("Task.Phase").
		Preload("Task.MovementType").
		First(&task, id).Error
	if err != nil {
		return models.TrainingTask{}, err
	}
	return task, nil
}

// Sample picks n training tasks uniformly at random, without replacement
// within the sample. RANDOM() is supported by both postgres and sqlite.
func (r *trainingTaskRepository) Sample(ctx context.Context, n int) ([]models.TrainingTask, error) {
	var tasks []models.TrainingTask
	err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("Task.Phase").
		Preload("Task.MovementType").
		Where("is_deleted = ?", false).
		Order("RANDOM()").
		Limit(n).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *trainingTaskRepository) ListQuestions(ctx context.Context, trainingTaskID uint) ([]models.TrainingTaskQuestion, error) {
	var questions []models.TrainingTaskQuestion
	err := r.db.WithContext(ctx).
		Where("training_task_id = ? AND is_deleted = ?", trainingTaskID, false).
		Order("id").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *trainingTaskRepository) GetQuestion(ctx context.Context, id uint) (models.TrainingTaskQuestion, error) {
	var question models.TrainingTaskQuestion
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.TrainingTaskQuestion{}, err
	}
	return question, nil
}

func (r *trainingTaskRepository) CountQuestions(ctx context.Context, trainingTaskID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TrainingTaskQuestion{}).
		Where("training_task_id = ? AND is_deleted = ?", trainingTaskID, false).
		Count(&count).Error
	return count, err
}
