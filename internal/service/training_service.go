package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/observability"
	"github.com/moveright/assessadmin-api/internal/repository"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// TrainingService runs the practitioner certification workflow: cycles
// of three randomly assigned training tasks, quiz grading, reliability
// rating and re-attempt scheduling.
type TrainingService interface {
	AssignCycle(ctx context.Context, actor Actor, finishLater bool) (dto.CycleAssignment, error)
	SubmitAnswers(ctx context.Context, actor Actor, req dto.SubmitAnswersRequest) (dto.ResultSummary, error)
	CurrentStatus(ctx context.Context, userID uint) (dto.TrainingStatusResponse, error)
	ResultDetails(ctx context.Context, testID string) ([]dto.ResultDetail, error)
	ListVisible(ctx context.Context, actor models.User) ([]dto.TrainingResultItem, error)
}

type trainingService struct {
	tasks     repository.TrainingTaskRepository
	results   repository.TrainingResultRepository
	scope     ScopeService
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTrainingService builds the training workflow engine.
func NewTrainingService(
	tasks repository.TrainingTaskRepository,
	results repository.TrainingResultRepository,
	scope ScopeService,
	validate *validator.Validate,
	logger zerolog.Logger,
) TrainingService {
	return &trainingService{
		tasks:     tasks,
		results:   results,
		scope:     scope,
		validator: validate,
		logger:    logger.With().Str("component", "training_service").Logger(),
		now:       time.Now,
	}
}

// AssignCycle resumes the practitioner's incomplete cycle if one exists,
// otherwise starts a new one: attempt 2 reusing the same test id when
// the latest completed cycle was an unreliable first attempt, or attempt
// 1 once the next training date has passed. Three tasks are sampled
// uniformly at random; the cycle rows are created in one transaction so
// no partial cycle is ever visible.
func (s *trainingService) AssignCycle(ctx context.Context, actor Actor, finishLater bool) (dto.CycleAssignment, error) {
	existing, err := s.results.FindIncompleteByUser(ctx, actor.ID)
	if err == nil {
		return s.resumeCycle(ctx, existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CycleAssignment{}, err
	}

	attempt := 1
	testID := uuid.NewString()

	latest, err := s.results.LatestByUser(ctx, actor.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CycleAssignment{}, err
	}
	if err == nil && latest.Status == models.TrainingStatusCompleted {
		if latest.Attempt == 1 && latest.Rating == models.RatingUnreliable {
			attempt = 2
			testID = latest.TestID
		} else if latest.NextTrainingDate > s.now().UnixMilli() {
			return dto.CycleAssignment{}, ErrNotAllowed
		}
	}

	tasks, err := s.tasks.Sample(ctx, models.TasksPerCycle)
	if err != nil {
		return dto.CycleAssignment{}, err
	}
	if len(tasks) < models.TasksPerCycle {
		return dto.CycleAssignment{}, ErrInadequateData
	}

	status := models.TrainingStatusNotStarted
	if finishLater {
		status = models.TrainingStatusInProgress
	}

	result := models.TrainingResult{
		UserID:  actor.ID,
		Attempt: attempt,
		Status:  status,
		TestID:  testID,
	}
	result.CreatedBy = actor.ID
	result.UpdatedBy = actor.ID
	result.CreatedIP = actor.IP
	result.UpdatedIP = actor.IP

	for _, task := range tasks {
		training := models.UserTraining{
			UserID:         actor.ID,
			TrainingTaskID: task.ID,
			Attempt:        attempt,
			Status:         models.TrainingStatusNotStarted,
		}
		training.CreatedBy = actor.ID
		training.UpdatedBy = actor.ID
		training.CreatedIP = actor.IP
		training.UpdatedIP = actor.IP
		result.Trainings = append(result.Trainings, training)
	}

	if err := s.results.CreateCycle(ctx, &result); err != nil {
		return dto.CycleAssignment{}, err
	}

	observability.TrainingCycles().WithLabelValues("assigned").Inc()
	s.logger.Info().
		Uint("user_id", actor.ID).
		Int("attempt", attempt).
		Str("test_id", testID).
		Msg("training cycle assigned")

	view, err := s.taskView(ctx, result.Trainings[0], tasks[0])
	if err != nil {
		return dto.CycleAssignment{}, err
	}
	return dto.CycleAssignment{Task: view, TaskCount: 1}, nil
}

func (s *trainingService) resumeCycle(ctx context.Context, result models.TrainingResult) (dto.CycleAssignment, error) {
	trainings, err := s.results.ListTrainings(ctx, result.ID)
	if err != nil {
		return dto.CycleAssignment{}, err
	}

	incomplete := make([]models.UserTraining, 0, len(trainings))
	for _, training := range trainings {
		if training.Status != models.TrainingStatusCompleted {
			incomplete = append(incomplete, training)
		}
	}
	if len(incomplete) == 0 {
		// All tasks finished but the result row was not rolled up yet;
		// treat the cycle as unavailable rather than inventing a state.
		return dto.CycleAssignment{}, ErrNotFound
	}

	next := incomplete[0]
	task, err := s.tasks.GetByID(ctx, next.TrainingTaskID)
	if err != nil {
		return dto.CycleAssignment{}, err
	}

	// Position within the cycle: 3 remaining means the first task.
	taskCount := models.TasksPerCycle - len(incomplete) + 1

	view, err := s.taskView(ctx, next, task)
	if err != nil {
		return dto.CycleAssignment{}, err
	}
	return dto.CycleAssignment{Task: view, TaskCount: taskCount, Resumed: true}, nil
}

func (s *trainingService) taskView(ctx context.Context, training models.UserTraining, task models.TrainingTask) (dto.AssignedTask, error) {
	questions, err := s.tasks.ListQuestions(ctx, task.ID)
	if err != nil {
		return dto.AssignedTask{}, err
	}

	views := make([]dto.QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, dto.QuestionView{ID: q.ID, Question: q.Question})
	}

	return dto.AssignedTask{
		TrainingID:   training.ID,
		TrainingTask: task.ID,
		TaskName:     task.Task.Name,
		Video:        task.Video,
		Questions:    views,
	}, nil
}

// SubmitAnswers grades one training task. Each answer is snapshotted
// together with the question's correct answer at submission time, the
// task mark is 100 * correct / total, and the parent cycle is rolled up
// once all three tasks are complete.
func (s *trainingService) SubmitAnswers(ctx context.Context, actor Actor, req dto.SubmitAnswersRequest) (dto.ResultSummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ResultSummary{}, err
	}

	training, err := s.results.GetTraining(ctx, req.TrainingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultSummary{}, ErrNotFound
		}
		return dto.ResultSummary{}, err
	}
	// Graded tasks are immutable; the snapshots are the audit record.
	if training.Status == models.TrainingStatusCompleted {
		return dto.ResultSummary{}, ErrNotAllowed
	}

	result, err := s.results.GetByID(ctx, training.TrainingResultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultSummary{}, ErrNotFound
		}
		return dto.ResultSummary{}, err
	}

	snapshots := make([]models.TrainingQuestionResult, 0, len(req.Questions))
	correct := 0
	for _, submitted := range req.Questions {
		question, err := s.tasks.GetQuestion(ctx, submitted.QuestionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ResultSummary{}, ErrNotFound
			}
			return dto.ResultSummary{}, err
		}

		snapshot := models.TrainingQuestionResult{
			TrainingResultID:       result.ID,
			TrainingTaskQuestionID: question.ID,
			Answer:                 submitted.Answer,
			CorrectAnswer:          question.Answer,
		}
		snapshot.CreatedBy = actor.ID
		snapshot.UpdatedBy = actor.ID
		snapshot.CreatedIP = actor.IP
		snapshot.UpdatedIP = actor.IP
		snapshots = append(snapshots, snapshot)

		if submitted.Answer == question.Answer {
			correct++
		}
	}

	if err := s.results.InsertQuestionResults(ctx, snapshots); err != nil {
		return dto.ResultSummary{}, err
	}

	now := s.now()
	marks := float64(correct) * 100 / float64(len(req.Questions))
	if err := s.results.UpdateTraining(ctx, req.TrainingID, map[string]interface{}{
		"status":     models.TrainingStatusCompleted,
		"marks":      marks,
		"date":       now.UnixMilli(),
		"updated_by": actor.ID,
		"updated_ip": actor.IP,
	}); err != nil {
		return dto.ResultSummary{}, err
	}

	trainings, err := s.results.ListTrainings(ctx, result.ID)
	if err != nil {
		return dto.ResultSummary{}, err
	}

	completed := true
	var total float64
	for _, training := range trainings {
		if training.Status != models.TrainingStatusCompleted {
			completed = false
			break
		}
		total += training.Marks
	}

	updates := map[string]interface{}{
		"updated_by": actor.ID,
		"updated_ip": actor.IP,
	}
	summary := dto.ResultSummary{ResultID: result.ID, Attempt: result.Attempt}

	if completed {
		mean := total / float64(len(trainings))
		rating := models.RatingUnreliable
		if mean >= models.ReliabilityThreshold {
			rating = models.RatingReliable
		}

		// A failed first attempt re-opens training immediately; any
		// other outcome schedules the standard six month recheck.
		nextTrainingDate := now.AddDate(0, 6, 0).UnixMilli()
		if result.Attempt == 1 && rating == models.RatingUnreliable {
			nextTrainingDate = now.UnixMilli()
		}

		updates["status"] = models.TrainingStatusCompleted
		updates["marks"] = mean
		updates["rating"] = rating
		updates["next_training_date"] = nextTrainingDate

		summary.Status = models.TrainingStatusCompleted
		summary.Marks = mean
		summary.Rating = rating
		summary.NextTrainingDate = utils.FormatEpochDate(nextTrainingDate)

		observability.TrainingCycles().WithLabelValues("completed").Inc()
	} else {
		updates["status"] = models.TrainingStatusInProgress
		summary.Status = models.TrainingStatusInProgress
	}

	if err := s.results.UpdateResult(ctx, result.ID, updates); err != nil {
		return dto.ResultSummary{}, err
	}

	s.logger.Info().
		Uint("result_id", result.ID).
		Uint("training_id", req.TrainingID).
		Float64("marks", marks).
		Str("status", summary.Status).
		Msg("training answers submitted")

	return summary, nil
}

// CurrentStatus reports the most recent cycle. A completed first
// attempt rated Unreliable is displayed as "Not Started" because the
// practitioner must immediately begin attempt two.
func (s *trainingService) CurrentStatus(ctx context.Context, userID uint) (dto.TrainingStatusResponse, error) {
	latest, err := s.results.LatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TrainingStatusResponse{Status: models.TrainingStatusNotStarted}, nil
		}
		return dto.TrainingStatusResponse{}, err
	}

	status := latest.Status
	if latest.Attempt == 1 && latest.Status == models.TrainingStatusCompleted && latest.Rating == models.RatingUnreliable {
		status = models.TrainingStatusNotStarted
	}

	response := dto.TrainingStatusResponse{
		Date:    latest.CreatedAt.UnixMilli(),
		Attempt: latest.Attempt,
		Rating:  latest.Rating,
		Status:  status,
		Marks:   latest.Marks,
	}
	if latest.NextTrainingDate != 0 {
		response.NextTrainingDate = utils.FormatEpochDate(latest.NextTrainingDate)
	}
	return response, nil
}

// ResultDetails returns the audit view for both attempts sharing a test
// id, with per-task question and correct-answer counts.
func (s *trainingService) ResultDetails(ctx context.Context, testID string) ([]dto.ResultDetail, error) {
	results, err := s.results.ListByTestID(ctx, testID)
	if err != nil {
		return nil, err
	}

	details := make([]dto.ResultDetail, 0, len(results))
	for _, result := range results {
		detail := dto.ResultDetail{
			ResultID: result.ID,
			Attempt:  result.Attempt,
			Rating:   result.Rating,
			Marks:    result.Marks,
		}
		if result.NextTrainingDate != 0 {
			detail.NextTrainingDate = utils.FormatEpochDate(result.NextTrainingDate)
		}

		for _, training := range result.Trainings {
			questions, err := s.tasks.ListQuestions(ctx, training.TrainingTaskID)
			if err != nil {
				return nil, err
			}
			questionIDs := make([]uint, 0, len(questions))
			for _, q := range questions {
				questionIDs = append(questionIDs, q.ID)
			}

			attempted, err := s.results.ListQuestionResults(ctx, result.ID, questionIDs)
			if err != nil {
				return nil, err
			}
			correct := 0
			for _, qr := range attempted {
				if qr.Answer == qr.CorrectAnswer {
					correct++
				}
			}

			item := dto.TrainingDetail{
				TrainingID:     training.ID,
				TaskName:       training.TrainingTask.Task.Name,
				Marks:          training.Marks,
				QuestionCount:  len(questions),
				CorrectAnswers: correct,
			}
			if training.Date != 0 {
				item.Date = utils.FormatEpochDate(training.Date)
			}
			detail.Trainings = append(detail.Trainings, item)
		}

		details = append(details, detail)
	}

	return details, nil
}

// ListVisible returns training results within the actor's scope: their
// own for practitioners, their managed users' otherwise, everything for
// the unrestricted roles. Unreliable first attempts are hidden; the
// follow-up attempt carries the history.
func (s *trainingService) ListVisible(ctx context.Context, actor models.User) ([]dto.TrainingResultItem, error) {
	var userIDs []uint
	switch {
	case actor.Role.Name == models.RolePractitioner:
		userIDs = []uint{actor.ID}
	case actor.Role.Name.Unrestricted():
		userIDs = nil
	default:
		managed, err := s.scope.ManagedUserIDs(ctx, actor)
		if err != nil {
			return nil, err
		}
		userIDs = append([]uint{actor.ID}, managed...)
	}

	results, err := s.results.ListByUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TrainingResultItem, 0, len(results))
	for _, result := range results {
		if !resultVisible(result) {
			continue
		}
		item := dto.TrainingResultItem{
			ResultID: result.ID,
			UserID:   result.UserID,
			Attempt:  result.Attempt,
			Rating:   result.Rating,
			Status:   result.Status,
			Marks:    result.Marks,
			TestID:   result.TestID,
		}
		if result.NextTrainingDate != 0 {
			item.NextTrainingDate = utils.FormatEpochDate(result.NextTrainingDate)
		}
		items = append(items, item)
	}
	return items, nil
}

// resultVisible hides completed-but-unreliable first attempts from the
// listing; only a reliable result, a terminal second attempt or an
// in-progress cycle is shown.
func resultVisible(result models.TrainingResult) bool {
	if result.Rating == models.RatingReliable {
		return true
	}
	if result.Rating == models.RatingUnreliable && result.Attempt == 2 {
		return true
	}
	return result.Status == models.TrainingStatusInProgress
}
