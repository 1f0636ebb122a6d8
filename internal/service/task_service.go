package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
)

// CreateTaskRequest adds an assessment task to the catalogue.
type CreateTaskRequest struct {
	Number         int    `json:"number" validate:"required"`
	Name           string `json:"name" validate:"required"`
	PhaseID        uint   `json:"phase_id" validate:"required"`
	MovementTypeID uint   `json:"movement_type_id" validate:"required"`
}

// TaskService serves the assessment task catalogue.
type TaskService interface {
	Create(ctx context.Context, actor Actor, req CreateTaskRequest) (dto.TaskView, error)
	Get(ctx context.Context, id uint) (dto.TaskView, error)
	List(ctx context.Context) ([]dto.TaskView, error)
}

type taskService struct {
	tasks     repository.TaskRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTaskService builds the task service.
func NewTaskService(tasks repository.TaskRepository, validate *validator.Validate, logger zerolog.Logger) TaskService {
	return &taskService{
		tasks:     tasks,
		validator: validate,
		logger:    logger.With().Str("component", "task_service").Logger(),
	}
}

func (s *taskService) Create(ctx context.Context, actor Actor, req CreateTaskRequest) (dto.TaskView, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.TaskView{}, err
	}

	exists, err := s.tasks.ExistsByNumberAndPhase(ctx, req.Number, req.PhaseID)
	if err != nil {
		return dto.TaskView{}, err
	}
	if exists {
		return dto.TaskView{}, ErrAlreadyExists
	}

	task := models.Task{
		Number:         req.Number,
		Name:           req.Name,
		PhaseID:        req.PhaseID,
		MovementTypeID: req.MovementTypeID,
		Audit: models.Audit{
			CreatedBy: actor.ID,
			UpdatedBy: actor.ID,
			CreatedIP: actor.IP,
			UpdatedIP: actor.IP,
		},
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return dto.TaskView{}, err
	}

	created, err := s.tasks.GetByID(ctx, task.ID)
	if err != nil {
		return dto.TaskView{}, err
	}
	return toTaskView(created), nil
}

func (s *taskService) Get(ctx context.Context, id uint) (dto.TaskView, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskView{}, ErrNotFound
		}
		return dto.TaskView{}, err
	}
	return toTaskView(task), nil
}

func (s *taskService) List(ctx context.Context) ([]dto.TaskView, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]dto.TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, toTaskView(task))
	}
	return views, nil
}

func toTaskView(task models.Task) dto.TaskView {
	return dto.TaskView{
		ID:             task.ID,
		Number:         task.Number,
		Name:           task.Name,
		DisplayName:    task.DisplayName(),
		Phase:          task.Phase.Name,
		MovementType:   task.MovementType.Name,
		PhaseID:        task.PhaseID,
		MovementTypeID: task.MovementTypeID,
	}
}
