package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
)

var testDBSeq atomic.Int64

// setupTestDB opens an isolated in-memory database and migrates the full
// schema. Each call gets its own named shared-cache database so parallel
// tests never see each other's rows.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.Country{},
		&models.Region{},
		&models.School{},
		&models.User{},
		&models.Class{},
		&models.Student{},
		&models.Phase{},
		&models.MovementType{},
		&models.Task{},
		&models.Assessment{},
		&models.TrainingTask{},
		&models.TrainingTaskQuestion{},
		&models.TrainingResult{},
		&models.UserTraining{},
		&models.TrainingQuestionResult{},
	))
	return db
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// mustSeedRoles inserts the fixed role hierarchy and returns the records by name.
func mustSeedRoles(t *testing.T, db *gorm.DB) map[models.RoleName]models.Role {
	t.Helper()

	names := []models.RoleName{
		models.RoleSuperAdmin,
		models.RoleGlobalAdmin,
		models.RoleAdmin,
		models.RoleManager,
		models.RoleProgramCoordinator,
		models.RolePractitioner,
	}

	roles := make(map[models.RoleName]models.Role, len(names))
	for _, name := range names {
		role := models.Role{Name: name, DisplayName: string(name)}
		require.NoError(t, db.Create(&role).Error)
		roles[name] = role
	}
	return roles
}

// createUser inserts an active user with the given role and ownership
// stamp. The Role association is loaded so scope resolution can rank it.
func createUser(t *testing.T, db *gorm.DB, role models.Role, email string, createdBy uint) models.User {
	t.Helper()

	user := models.User{
		FirstName: email,
		Email:     email,
		RoleID:    role.ID,
	}
	user.CreatedBy = createdBy
	user.UpdatedBy = createdBy
	require.NoError(t, db.Create(&user).Error)

	user.Role = role
	return user
}
