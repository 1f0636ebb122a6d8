package handler

import (
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/pkg/mailer"
)

// newUserApp wires the user routes behind a stub auth middleware acting
// as the given admin. The admin's role is restricted to viewing the
// returned allow-listed roles via a stored permission document.
func newUserApp(t *testing.T) (*fiber.App, map[models.RoleName]models.Role) {
	t.Helper()

	db := setupHandlerDB(t)
	logger := zerolog.Nop()

	roles := make(map[models.RoleName]models.Role, 6)
	for _, name := range []models.RoleName{
		models.RoleSuperAdmin,
		models.RoleGlobalAdmin,
		models.RoleAdmin,
		models.RoleManager,
		models.RoleProgramCoordinator,
		models.RolePractitioner,
	} {
		role := models.Role{Name: name}
		require.NoError(t, db.Create(&role).Error)
		roles[name] = role
	}

	admin := seedHandlerUser(t, db, roles[models.RoleAdmin], "admin@example.com", 0)
	manager := seedHandlerUser(t, db, roles[models.RoleManager], "manager@example.com", admin.ID)
	seedHandlerUser(t, db, roles[models.RolePractitioner], "prac@example.com", manager.ID)

	perm := models.Permission{
		RoleID: roles[models.RoleAdmin].ID,
		Module: "User",
		Entries: datatypes.JSONSlice[models.PermissionEntry]{
			{Name: "view", Value: true, Others: []uint{roles[models.RoleManager].ID, roles[models.RolePractitioner].ID}},
		},
	}
	require.NoError(t, db.Create(&perm).Error)

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	countryRepo := repository.NewCountryRepository(db)
	regionRepo := repository.NewRegionRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	scope := service.NewScopeService(userRepo, roleRepo, logger)
	cascade := service.NewCascadeService(
		countryRepo,
		regionRepo,
		schoolRepo,
		repository.NewClassRepository(db),
		repository.NewStudentRepository(db),
		userRepo,
		repository.NewAssessmentRepository(db),
		logger,
	)
	users := service.NewUserService(
		userRepo,
		roleRepo,
		countryRepo,
		regionRepo,
		schoolRepo,
		scope,
		cascade,
		mailer.Noop{},
		validator.New(validator.WithRequiredStructEnabled()),
		logger,
	)
	permissions := service.NewPermissionService(repository.NewPermissionRepository(db), logger)

	app := fiber.New()
	group := app.Group("/users", func(c *fiber.Ctx) error {
		c.Locals("user_id", admin.ID)
		c.Locals("role_id", admin.RoleID)
		c.Locals("user_role", string(models.RoleAdmin))
		return c.Next()
	})
	NewUserHandler(users, permissions, logger).Register(group)
	return app, roles
}

func seedHandlerUser(t *testing.T, db *gorm.DB, role models.Role, email string, createdBy uint) models.User {
	t.Helper()

	user := models.User{FirstName: email, Email: email, RoleID: role.ID}
	user.CreatedBy = createdBy
	user.UpdatedBy = createdBy
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestUserListRejectsRolesOutsideAllowList(t *testing.T) {
	app, roles := newUserApp(t)

	target := fmt.Sprintf("/users/?role_ids=%d", roles[models.RoleSuperAdmin].ID)
	resp, err := app.Test(jsonRequest(t, fiber.MethodGet, target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.False(t, decodeEnvelope(t, resp).Success)
}

func TestUserListNarrowsWithinAllowList(t *testing.T) {
	app, roles := newUserApp(t)

	target := fmt.Sprintf("/users/?role_ids=%d", roles[models.RolePractitioner].ID)
	resp, err := app.Test(jsonRequest(t, fiber.MethodGet, target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.True(t, envelope.Success)
	views, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, views, 1)
	view, ok := views[0].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "prac@example.com", view["email"])
}

func TestUserListDefaultsToAllowList(t *testing.T) {
	app, _ := newUserApp(t)

	resp, err := app.Test(jsonRequest(t, fiber.MethodGet, "/users/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.True(t, envelope.Success)
	views, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, views, 2, "manager and practitioner, never the admin themselves")
}
