package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
)

func newAssessmentService(db *gorm.DB) AssessmentService {
	return NewAssessmentService(
		repository.NewAssessmentRepository(db),
		repository.NewStudentRepository(db),
		repository.NewClassRepository(db),
		repository.NewTaskRepository(db),
		repository.NewUserRepository(db),
		repository.NewSchoolRepository(db),
		newScopeService(db),
		validator.New(validator.WithRequiredStructEnabled()),
		testLogger(),
	)
}

func seedAssessmentTask(t *testing.T, db *gorm.DB) models.Task {
	t.Helper()

	phase := models.Phase{Name: "Foundation"}
	require.NoError(t, db.Create(&phase).Error)
	movement := models.MovementType{Name: "Locomotor"}
	require.NoError(t, db.Create(&movement).Error)
	task := models.Task{Name: "Run", Number: 1, PhaseID: phase.ID, MovementTypeID: movement.ID}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func TestCreateAssessmentStampsActor(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	tree := seedOrgTree(t, db, roles)
	task := seedAssessmentTask(t, db)
	svc := newAssessmentService(db)

	actor := Actor{ID: tree.practitioner.ID, IP: "192.0.2.8"}
	created, err := svc.Create(context.Background(), actor, dto.CreateAssessmentRequest{
		ClassID:        tree.class.ID,
		TaskID:         task.ID,
		PractitionerID: tree.practitioner.ID,
		StudentID:      tree.student.ID,
		Head:           3, Arms: 2, Legs: 4, Body: 1,
	})
	require.NoError(t, err)
	require.Equal(t, actor.ID, created.CreatedBy)
	require.Equal(t, "192.0.2.8", created.CreatedIP)
	require.NotZero(t, created.Date, "a missing date defaults to the submission time")
}

func TestCreateAssessmentRejectsDeletedStudent(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	tree := seedOrgTree(t, db, roles)
	task := seedAssessmentTask(t, db)
	svc := newAssessmentService(db)

	require.NoError(t, db.Model(&models.Student{}).Where("id = ?", tree.student.ID).Update("is_deleted", true).Error)

	_, err := svc.Create(context.Background(), Actor{ID: 1}, dto.CreateAssessmentRequest{
		ClassID:        tree.class.ID,
		TaskID:         task.ID,
		PractitionerID: tree.practitioner.ID,
		StudentID:      tree.student.ID,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClassAveragesRoundToTwoDecimals(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	tree := seedOrgTree(t, db, roles)
	task := seedAssessmentTask(t, db)
	svc := newAssessmentService(db)

	scores := [][4]float64{
		{3, 2, 4, 1},
		{4, 3, 3, 2},
		{2, 2, 5, 2},
	}
	for _, score := range scores {
		require.NoError(t, db.Create(&models.Assessment{
			ClassID:        tree.class.ID,
			TaskID:         task.ID,
			PractitionerID: tree.practitioner.ID,
			StudentID:      tree.student.ID,
			Head:           score[0], Arms: score[1], Legs: score[2], Body: score[3],
		}).Error)
	}

	averages, err := svc.ClassAverages(context.Background(), tree.class.ID, task.ID)
	require.NoError(t, err)
	require.Equal(t, 3, averages.Count)
	require.Equal(t, 3.0, averages.Head)
	require.InDelta(t, 2.33, averages.Arms, 1e-9)
	require.Equal(t, 4.0, averages.Legs)
	require.InDelta(t, 1.67, averages.Body, 1e-9)
}

func TestClassAveragesEmptyClass(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	tree := seedOrgTree(t, db, roles)
	task := seedAssessmentTask(t, db)
	svc := newAssessmentService(db)

	averages, err := svc.ClassAverages(context.Background(), tree.class.ID, task.ID)
	require.NoError(t, err)
	require.Zero(t, averages.Count)
	require.Zero(t, averages.Head)
}

func TestClassAveragesDeletedClassNotFound(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	tree := seedOrgTree(t, db, roles)
	svc := newAssessmentService(db)

	require.NoError(t, db.Model(&models.Class{}).Where("id = ?", tree.class.ID).Update("is_deleted", true).Error)

	_, err := svc.ClassAverages(context.Background(), tree.class.ID, 1)
	require.ErrorIs(t, err, ErrNotFound)
}
