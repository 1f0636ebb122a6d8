package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
)

const testJWTSecret = "test-secret"

func newAuthService(db *gorm.DB) AuthService {
	return NewAuthService(
		repository.NewUserRepository(db),
		testJWTSecret,
		time.Hour,
		validator.New(validator.WithRequiredStructEnabled()),
		testLogger(),
	)
}

func TestSetPasswordThenLogin(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newAuthService(db)

	user := createUser(t, db, roles[models.RoleManager], "manager@example.com", 1)

	require.NoError(t, svc.SetPassword(context.Background(), user.ID, dto.SetPasswordRequest{Password: "hunter2hunter2"}))

	response, err := svc.Login(context.Background(), dto.LoginRequest{Email: "Manager@Example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)
	require.True(t, response.FirstLoggedIn, "setting the password flips the first-login flag")
	require.Equal(t, user.ID, response.User.ID)
	require.Equal(t, string(models.RoleManager), response.User.Role)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(response.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.Equal(t, string(models.RoleManager), claims["role"])
	require.EqualValues(t, user.RoleID, claims["role_id"])
}

func TestLoginWithoutPasswordSetRejected(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newAuthService(db)

	createUser(t, db, roles[models.RoleAdmin], "fresh@example.com", 1)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "fresh@example.com", Password: "whatever123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWrongPasswordRejected(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newAuthService(db)

	user := createUser(t, db, roles[models.RoleAdmin], "admin@example.com", 1)
	require.NoError(t, svc.SetPassword(context.Background(), user.ID, dto.SetPasswordRequest{Password: "correct-horse"}))

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: "battery-staple"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDeletedAccountRejected(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newAuthService(db)

	user := createUser(t, db, roles[models.RoleAdmin], "gone@example.com", 1)
	require.NoError(t, svc.SetPassword(context.Background(), user.ID, dto.SetPasswordRequest{Password: "hunter2hunter2"}))
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_deleted", true).Error)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "gone@example.com", Password: "hunter2hunter2"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSetPasswordOnDeletedAccountNotFound(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newAuthService(db)

	user := createUser(t, db, roles[models.RoleAdmin], "gone@example.com", 1)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_deleted", true).Error)

	err := svc.SetPassword(context.Background(), user.ID, dto.SetPasswordRequest{Password: "hunter2hunter2"})
	require.ErrorIs(t, err, ErrNotFound)
}
