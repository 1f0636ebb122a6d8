package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
)

// TrainingResultRepository provides access to attempt cycles, their
// per-task rows and the snapshotted question answers.
type TrainingResultRepository interface {
	CreateCycle(ctx context.Context, result *models.TrainingResult) error
	GetByID(ctx context.Context, id uint) (models.TrainingResult, error)
	FindIncompleteByUser(ctx context.Context, userID uint) (models.TrainingResult, error)
	LatestByUser(ctx context.Context, userID uint) (models.TrainingResult, error)
	ListByUsers(ctx context.Context, userIDs []uint) ([]models.TrainingResult, error)
	ListByTestID(ctx context.Context, testID string) ([]models.TrainingResult, error)
	GetTraining(ctx context.Context, id uint) (models.UserTraining, error)
	ListTrainings(ctx context.Context, resultID uint) ([]models.UserTraining, error)
	UpdateTraining(ctx context.Context, id uint, updates map[string]interface{}) error
	UpdateResult(ctx context.Context, id uint, updates map[string]interface{}) error
	InsertQuestionResults(ctx context.Context, results []models.TrainingQuestionResult) error
	ListQuestionResults(ctx context.Context, resultID uint, questionIDs []uint) ([]models.TrainingQuestionResult, error)
}

type trainingResultRepository struct {
	db *gorm.DB
}

// NewTrainingResultRepository constructs a training result repository.
func NewTrainingResultRepository(db *gorm.DB) TrainingResultRepository {
	return &trainingResultRepository{db: db}
}

// CreateCycle inserts the result and its three per-task rows in a single
// transaction so no partial cycle is ever observable.
func (r *trainingResultRepository) CreateCycle(ctx context.Context, result *models.TrainingResult) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(result).Error
	})
}

func (r *trainingResultRepository) GetByID(ctx context.Context, id uint) (models.TrainingResult, error) {
	var result models.TrainingResult
	if err := r.db.WithContext(ctx).Preload("Trainings").First(&result, id).Error; err != nil {
		return models.TrainingResult{}, err
	}
	return result, nil
}

func (r *trainingResultRepository) FindIncompleteByUser(ctx context.Context, userID uint) (models.TrainingResult, error) {
	var result models.TrainingResult
	err := r.db.WithContext(ctx).
		Preload("Trainings").
		Where("user_id = ? AND status <> ?", userID, models.TrainingStatusCompleted).
		First(&result).Error
	if err != nil {
		return models.TrainingResult{}, err
	}
	return result, nil
}

func (r *trainingResultRepository) LatestByUser(ctx context.Context, userID uint) (models.TrainingResult, error) {
	var result models.TrainingResult
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		First(&result).Error
	if err != nil {
		return models.TrainingResult{}, err
	}
	return result, nil
}

// ListByUsers returns the results of the given users, newest first. A
// nil slice means no user filter (the unrestricted roles).
func (r *trainingResultRepository) ListByUsers(ctx context.Context, userIDs []uint) ([]models.TrainingResult, error) {
	query := r.db.WithContext(ctx).Order("updated_at DESC")
	if userIDs != nil {
		query = query.Where("user_id IN ?", userIDs)
	}

	var results []models.TrainingResult
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trainingResultRepository) ListByTestID(ctx context.Context, testID string) ([]models.TrainingResult, error) {
	var results []models.TrainingResult
	err := r.db.WithContext(ctx).
		Preload("Trainings").
		Preload("Trainings.TrainingTask").
		Preload("Trainings.TrainingTask.Task").
		Where("test_id = ?", testID).
		Order("attempt").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trainingResultRepository) GetTraining(ctx context.Context, id uint) (models.UserTraining, error) {
	var training models.UserTraining
	if err := r.db.WithContext(ctx).First(&training, id).Error; err != nil {
		return models.UserTraining{}, err
	}
	return training, nil
}

func (r *trainingResultRepository) ListTrainings(ctx context.Context, resultID uint) ([]models.UserTraining, error) {
	var trainings []models.UserTraining
	err := r.db.WithContext(ctx).
		Preload("TrainingTask").
		Where("training_result_id = ?", resultID).
		Order("id").
		Find(&trainings).Error
	if err != nil {
		return nil, err
	}
	return trainings, nil
}

func (r *trainingResultRepository) UpdateTraining(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.UserTraining{}).Where("id = ?", id).Updates(updates).Error
}

func (r *trainingResultRepository) UpdateResult(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.TrainingResult{}).Where("id = ?", id).Updates(updates).Error
}

func (r *trainingResultRepository) InsertQuestionResults(ctx context.Context, results []models.TrainingQuestionResult) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&results).Error
}

func (r *trainingResultRepository) ListQuestionResults(ctx context.Context, resultID uint, questionIDs []uint) ([]models.TrainingQuestionResult, error) {
	query := r.db.WithContext(ctx).Where("training_result_id = ?", resultID)
	if len(questionIDs) > 0 {
		query = query.Where("training_task_question_id IN ?", questionIDs)
	}

	var results []models.TrainingQuestionResult
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
