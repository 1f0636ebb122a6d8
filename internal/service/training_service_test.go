package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
	"github.com/moveright/assessadmin-api/internal/utils"
)

func newTrainingService(t *testing.T, db *gorm.DB, now time.Time) *trainingService {
	t.Helper()

	svc := NewTrainingService(
		repository.NewTrainingTaskRepository(db),
		repository.NewTrainingResultRepository(db),
		newScopeService(db),
		validator.New(validator.WithRequiredStructEnabled()),
		testLogger(),
	).(*trainingService)
	svc.now = func() time.Time { return now }
	return svc
}

// seedTrainingTasks creates three training tasks, each with four quiz
// questions whose correct answer is option 1.
func seedTrainingTasks(t *testing.T, db *gorm.DB) map[uint][]models.TrainingTaskQuestion {
	t.Helper()

	phase := models.Phase{Name: "Foundation"}
	require.NoError(t, db.Create(&phase).Error)
	movement := models.MovementType{Name: "Locomotor"}
	require.NoError(t, db.Create(&movement).Error)

	questions := make(map[uint][]models.TrainingTaskQuestion, 3)
	for i := 1; i <= 3; i++ {
		task := models.Task{Name: fmt.Sprintf("Run %d", i), Number: i, PhaseID: phase.ID, MovementTypeID: movement.ID}
		require.NoError(t, db.Create(&task).Error)

		training := models.TrainingTask{Name: task.Name, TaskID: task.ID, Status: "active"}
		require.NoError(t, db.Create(&training).Error)

		for q := 1; q <= 4; q++ {
			question := models.TrainingTaskQuestion{
				TrainingTaskID: training.ID,
				Question:       fmt.Sprintf("Run %d question %d", i, q),
				Answer:         1,
			}
			require.NoError(t, db.Create(&question).Error)
			questions[training.ID] = append(questions[training.ID], question)
		}
	}
	return questions
}

func listCycleTrainings(t *testing.T, db *gorm.DB, userID uint, attempt int) []models.UserTraining {
	t.Helper()

	var trainings []models.UserTraining
	require.NoError(t, db.Where("user_id = ? AND attempt = ?", userID, attempt).Order("id").Find(&trainings).Error)
	return trainings
}

// submitTraining answers every question of one assigned task, the first
// `correct` of them correctly.
func submitTraining(t *testing.T, svc TrainingService, actor Actor, trainingID uint, questions []models.TrainingTaskQuestion, correct int) dto.ResultSummary {
	t.Helper()

	answers := make([]dto.AnswerSubmission, 0, len(questions))
	for i, q := range questions {
		answer := q.Answer
		if i >= correct {
			answer = q.Answer + 1
		}
		answers = append(answers, dto.AnswerSubmission{QuestionID: q.ID, Answer: answer})
	}

	summary, err := svc.SubmitAnswers(context.Background(), actor, dto.SubmitAnswersRequest{
		TrainingID: trainingID,
		Questions:  answers,
	})
	require.NoError(t, err)
	return summary
}

// runCycle assigns a cycle and submits all three tasks with the given
// per-task correct counts.
func runCycle(t *testing.T, svc TrainingService, db *gorm.DB, actor Actor, questions map[uint][]models.TrainingTaskQuestion, correct [3]int) dto.ResultSummary {
	t.Helper()

	_, err := svc.AssignCycle(context.Background(), actor, false)
	require.NoError(t, err)

	var result models.TrainingResult
	require.NoError(t, db.Where("user_id = ?", actor.ID).Order("id DESC").First(&result).Error)

	trainings := listCycleTrainings(t, db, actor.ID, result.Attempt)
	require.Len(t, trainings, models.TasksPerCycle)

	var summary dto.ResultSummary
	for i, training := range trainings {
		summary = submitTraining(t, svc, actor, training.ID, questions[training.TrainingTaskID], correct[i])
	}
	return summary
}

func TestAssignCycleCreatesThreeTaskCycle(t *testing.T) {
	db := setupTestDB(t)
	mustSeedRoles(t, db)
	questions := seedTrainingTasks(t, db)
	svc := newTrainingService(t, db, time.Now())

	actor := Actor{ID: 10, IP: "192.0.2.5"}
	assignment, err := svc.AssignCycle(context.Background(), actor, false)
	require.NoError(t, err)
	require.Equal(t, 1, assignment.TaskCount)
	require.False(t, assignment.Resumed)
	require.Len(t, assignment.Task.Questions, 4)

	var result models.TrainingResult
	require.NoError(t, db.Where("user_id = ?", actor.ID).First(&result).Error)
	require.Equal(t, 1, result.Attempt)
	require.Equal(t, models.TrainingStatusNotStarted, result.Status)
	require.NotEmpty(t, result.TestID)

	trainings := listCycleTrainings(t, db, actor.ID, 1)
	require.Len(t, trainings, models.TasksPerCycle)
	seen := make(map[uint]bool)
	for _, training := range trainings {
		require.False(t, seen[training.TrainingTaskID], "tasks within a cycle must be distinct")
		seen[training.TrainingTaskID] = true
		require.NotEmpty(t, questions[training.TrainingTaskID])
	}
}

func TestSubmitAnswersThreeOfFourIsSeventyFive(t *testing.T) {
	db := setupTestDB(t)
	mustSeedRoles(t, db)
	questions := seedTrainingTasks(t, db)
	svc := newTrainingService(t, db, time.Now())

	actor := Actor{ID: 11, IP: "192.0.2.5"}
	_, err := svc.AssignCycle(context.Background(), actor, false)
	require.NoError(t, err)

	trainings := listCycleTrainings(t, db, actor.ID, 1)
	submitTraining(t, svc, actor, trainings[0].ID, questions[trainings[0].TrainingTaskID], 3)

	var graded models.UserTraining
	require.NoError(t, db.First(&graded, trainings[0].ID).Error)
	require.Equal(t, models.TrainingStatusCompleted, graded.Status)
	require.InDelta(t, 75.0, graded.Marks, 1e-9)

	var result models.TrainingResult
	require.NoError(t, db.Where("user_id = ?", actor.ID).First(&result).Error)
	require.Equal(t, models.TrainingStatusInProgress, result.Status, "cycle stays open until all three tasks are graded")
}

func TestSubmitAnswersRejectsEmptySubmission(t *testing.T) {
	db := setupTestDB(t)
	mustSeedRoles(t, db)
	seedTrainingTasks(t, db)
	svc := newTrainingService(t, db, time.Now())

	actor := Actor{ID: 12, IP: "192.0.2.5"}
	_, err := svc.AssignCycle(context.Background(), actor, false)
	require.NoError(t, err)

	trainings := listCycleTrainings(t, db, actor.ID, 1)
	_, err = svc.SubmitAnswers(context.Background(), actor, dto.SubmitAnswersRequest{
		TrainingID: trainings[0].ID,
	})
	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)

	var graded models.UserTraining
	require.NoError(t, db.First(&graded, trainings[0].ID).Error)
	require.Equal(t, models.TrainingStatusNotStarted, graded.Status, "an empty submission must not grade the task")
}

func TestSubmitAnswersRejectsGradedTask(t *testing.T) {
	db := setupTestDB(t)
	mustSeedRoles(t, db)
	questions := seedTrainingTasks(t, db)
	svc := newTrainingService(t, db, time.Now())

	actor := Actor{ID: 13, IP: "192.0.2.5"}
	_, err := svc.AssignCycle(context.Background(), actor, false)
	require.NoError(t, err)

	trainings := listCycleTrainings(t, db, actor.ID, 1)
	submitTraining(t, svc, actor, trainings[0].ID, questions[trainings[0].TrainingTaskID], 4)

	_, err = svc.SubmitAnswers(context.Background(), actor, dto.SubmitAnswersRequest{
		TrainingID: trainings[0].ID,
		Questions:  []dto.AnswerSubmission{{QuestionID: questions[trainings[0].TrainingTaskID][0].ID, Answer: 1}},
	})
	require.ErrorIs(t, err, ErrNotAllowed)

	var graded models.UserTraining
	require.NoError(t, db.First(&graded, trainings[0].ID).Error)
	require.InDelta(t, 100.0, graded.Marks, 1e-9, "the original mark must stand")

	var snapshots int64
	require.NoError(t, db.Model(&models.TrainingQuestionResult{}).Count(&snapshots).Error)
	require.EqualValues(t, 4, snapshots, "no second set of answer snapshots")
}

func TestCompletedCycleAboveThresholdIsReliable(t *testing.T) {
	db := setupTestDB(t)
	mustSeedRoles(t, db)
	questions := seedTrainingTasks(t, db)
	frozen := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTrainingService(t, db, frozen)

	actor := Actor{ID: 12, IP: "192.0.2.5"}
	// 100 + 100 + 75 over three tasks: mean 91.67.
	summary := runCycle(t, svc, db, actor, questions, [3]int{4, 4, 3})

	require.Equal(t, models.TrainingStatusCompleted, summary.Status)
	require.Equal(t, models.RatingReliable, summary.Rating)
	require.InDelta(t, 91.67, summary.Marks, 0.01)
	require.Equal(t, utils.FormatEpochDate(frozen.AddDate(0, 6, 0).UnixMilli()), summary.NextTrainingDate)
}

func TestCompletedCycleBelowThresholdIsUnreliable(t *testing.T) {
	db := setupTestDB(t)
	mustSeedRoles(t, db)
	questions := seedTrainingTasks(t, db)
	frozen := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTrainingService(t, db, frozen)

	actor := Actor{ID: 13, IP: "192.0.2.5"}
	// 75 + 50 + 50 over three tasks: mean 58.33.
	summary := runCycle(t, svc, db, actor, questions, [3]int{3, 2, 2})

	require.Equal(t, models.RatingUnreliable, summary.Rating)
	require.InDelta(t, 58.33, summary.Marks, 0.01)
	// A failed first attempt re-opens training immediately.
	require.Equal(t, utils.FormatEpochDate(frozen.UnixMilli()), summary.NextTrainingDate)
}

func TestFailedFirstAttemptTriggersSecondAttemptWithSameTestID(t *testing.T) {
	db := setupTestDB(t)
	mustSeedRoles(t, db)
	questions := seedTrainingTasks(t, db)
	svc := newTrainingService(t, db, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	actor := Actor{ID: 14, IP: "192.0.2.5"}
	runCycle(t, svc, db, actor, questions, [3]int{1, 1, 1})

	// The completed but unreliable first attempt is reported as not
	// started: the practitioner must begin attempt two.
	status, err := svc.CurrentStatus(context.Background(), actor.ID)
	require.NoError(t, err)
	require.Equal(t, models.TrainingStatusNotStarted, status.Status)
	require.Equal(t, 1, status.Attempt)
	require.Equal(t, models.RatingUnreliable, status.Rating)

	_, err = svc.AssignCycle(context.Background(), actor, false)
	require.NoError(t, err)

	var results []models.TrainingResult
	require.NoError(t, db.Where("user_id = ?", actor.ID).Order("attempt").Find(&results).Error)
	require.Len(t, results, 2)
	require.Equal(t, 2, results[1].Attempt)
	require.Equal(t, results[0].TestID, results[1].TestID, "both attempts share one test id")
}

func TestAssignCycleBlockedUntilNextTrainingDate(t *testing.T) {
	db := setupTestDB(t)
	mustSeedRoles(t, db)
	questions := seedTrainingTasks(t, db)
	frozen := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTrainingService(t, db, frozen)

	actor := Actor{ID: 15, IP: "192.0.2.5"}
	runCycle(t, svc, db, actor, questions, [3]int{4, 4, 4})

	_, err := svc.AssignCycle(context.Background(), actor, false)
	require.ErrorIs(t, err, ErrNotAllowed)

	// Six months later the recheck is due again.
	svc.now = func() time.Time { return frozen.AddDate(0, 6, 1) }
	assignment, err := svc.AssignCycle(context.Background(), actor, false)
	require.NoError(t, err)
	require.False(t, assignment.Resumed)
}

func TestAssignCycleResumesIncompleteCycle(t *testing.T) {
	db := setupTestDB(t)
	mustSeedRoles(t, db)
	questions := seedTrainingTasks(t, db)
	svc := newTrainingService(t, db, time.Now())

	actor := Actor{ID: 16, IP: "192.0.2.5"}
	_, err := svc.AssignCycle(context.Background(), actor, true)
	require.NoError(t, err)

	trainings := listCycleTrainings(t, db, actor.ID, 1)
	submitTraining(t, svc, actor, trainings[0].ID, questions[trainings[0].TrainingTaskID], 4)

	assignment, err := svc.AssignCycle(context.Background(), actor, false)
	require.NoError(t, err)
	require.True(t, assignment.Resumed)
	require.Equal(t, 2, assignment.TaskCount)
	require.Equal(t, trainings[1].ID, assignment.Task.TrainingID)
}

func TestResultDetailsCoversBothAttempts(t *testing.T) {
	db := setupTestDB(t)
	mustSeedRoles(t, db)
	questions := seedTrainingTasks(t, db)
	svc := newTrainingService(t, db, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	actor := Actor{ID: 17, IP: "192.0.2.5"}
	runCycle(t, svc, db, actor, questions, [3]int{1, 1, 1})
	runCycle(t, svc, db, actor, questions, [3]int{4, 4, 4})

	var result models.TrainingResult
	require.NoError(t, db.Where("user_id = ?", actor.ID).First(&result).Error)

	details, err := svc.ResultDetails(context.Background(), result.TestID)
	require.NoError(t, err)
	require.Len(t, details, 2)
	require.Equal(t, 1, details[0].Attempt)
	require.Equal(t, 2, details[1].Attempt)
	require.Equal(t, models.RatingUnreliable, details[0].Rating)
	require.Equal(t, models.RatingReliable, details[1].Rating)

	require.Len(t, details[1].Trainings, models.TasksPerCycle)
	for _, item := range details[1].Trainings {
		require.Equal(t, 4, item.QuestionCount)
		require.Equal(t, 4, item.CorrectAnswers)
		require.NotEmpty(t, item.TaskName)
	}
}

func TestListVisibleHidesUnreliableFirstAttempts(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	questions := seedTrainingTasks(t, db)
	svc := newTrainingService(t, db, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	manager := createUser(t, db, roles[models.RoleManager], "manager@example.com", 1)
	prac := createUser(t, db, roles[models.RolePractitioner], "prac@example.com", manager.ID)

	actor := Actor{ID: prac.ID, IP: "192.0.2.5"}
	runCycle(t, svc, db, actor, questions, [3]int{1, 1, 1})
	runCycle(t, svc, db, actor, questions, [3]int{4, 4, 4})

	items, err := svc.ListVisible(context.Background(), manager)
	require.NoError(t, err)
	require.Len(t, items, 1, "the failed first attempt is carried by its follow-up")
	require.Equal(t, 2, items[0].Attempt)
	require.Equal(t, models.RatingReliable, items[0].Rating)
	require.Equal(t, prac.ID, items[0].UserID)
}

func TestCurrentStatusNoHistory(t *testing.T) {
	db := setupTestDB(t)
	svc := newTrainingService(t, db, time.Now())

	status, err := svc.CurrentStatus(context.Background(), 999)
	require.NoError(t, err)
	require.Equal(t, models.TrainingStatusNotStarted, status.Status)
	require.Zero(t, status.Attempt)
}
