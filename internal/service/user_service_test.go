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
	"github.com/moveright/assessadmin-api/pkg/mailer"
)

func newUserService(db *gorm.DB) UserService {
	return NewUserService(
		repository.NewUserRepository(db),
		repository.NewRoleRepository(db),
		repository.NewCountryRepository(db),
		repository.NewRegionRepository(db),
		repository.NewSchoolRepository(db),
		newScopeService(db),
		newCascadeService(db),
		mailer.Noop{},
		validator.New(validator.WithRequiredStructEnabled()),
		testLogger(),
	)
}

func TestRegisterPractitionerDerivesScopeFromSchool(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	tree := seedOrgTree(t, db, roles)
	svc := newUserService(db)

	actor := Actor{ID: 1, IP: "192.0.2.1"}
	view, err := svc.Register(context.Background(), actor, dto.RegisterUserRequest{
		FirstName: "Priya",
		Email:     "Priya@Example.com",
		RoleID:    roles[models.RolePractitioner].ID,
		SchoolIDs: []uint{tree.school.ID},
	})
	require.NoError(t, err)
	require.Equal(t, "priya@example.com", view.Email, "emails are stored lower-cased")
	require.Equal(t, []uint{tree.school.ID}, view.SchoolIDs)
	require.Equal(t, []uint{tree.region.ID}, view.RegionIDs, "region is derived from the school")
	require.Equal(t, []uint{tree.country.ID}, view.CountryIDs, "country is derived from the school")

	var stored models.User
	require.NoError(t, db.Where("email = ?", "priya@example.com").First(&stored).Error)
	require.Equal(t, uint(1), stored.CreatedBy)
	require.False(t, stored.FirstLoggedIn)
}

func TestRegisterManagerRequiresRegions(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newUserService(db)

	_, err := svc.Register(context.Background(), Actor{ID: 1}, dto.RegisterUserRequest{
		FirstName: "Morgan",
		Email:     "morgan@example.com",
		RoleID:    roles[models.RoleManager].ID,
	})
	require.ErrorIs(t, err, ErrInadequateData)
}

func TestRegisterRejectsUnknownScopeIDs(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	tree := seedOrgTree(t, db, roles)
	svc := newUserService(db)

	_, err := svc.Register(context.Background(), Actor{ID: 1}, dto.RegisterUserRequest{
		FirstName: "Priya",
		Email:     "priya@example.com",
		RoleID:    roles[models.RolePractitioner].ID,
		SchoolIDs: []uint{tree.school.ID, 9999},
	})
	require.ErrorIs(t, err, ErrInadequateData)
}

func TestRegisterDuplicateActiveEmailRejected(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newUserService(db)

	req := dto.RegisterUserRequest{
		FirstName: "Sam",
		Email:     "sam@example.com",
		RoleID:    roles[models.RoleGlobalAdmin].ID,
	}
	_, err := svc.Register(context.Background(), Actor{ID: 1}, req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), Actor{ID: 1}, req)
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRegisterDeletedEmailCanBeReused(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newUserService(db)

	req := dto.RegisterUserRequest{
		FirstName: "Sam",
		Email:     "sam@example.com",
		RoleID:    roles[models.RoleGlobalAdmin].ID,
	}
	first, err := svc.Register(context.Background(), Actor{ID: 1}, req)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), first.ID, Actor{ID: 1}, 0))

	_, err = svc.Register(context.Background(), Actor{ID: 1}, req)
	require.NoError(t, err)
}

func TestRegisterUnknownRoleInadequate(t *testing.T) {
	db := setupTestDB(t)
	mustSeedRoles(t, db)
	svc := newUserService(db)

	_, err := svc.Register(context.Background(), Actor{ID: 1}, dto.RegisterUserRequest{
		FirstName: "Ghost",
		Email:     "ghost@example.com",
		RoleID:    9999,
	})
	require.ErrorIs(t, err, ErrInadequateData)
}

func TestListUsersScopedToManagedChain(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newUserService(db)

	admin := createUser(t, db, roles[models.RoleAdmin], "admin@example.com", 1)
	manager := createUser(t, db, roles[models.RoleManager], "manager@example.com", admin.ID)
	prac := createUser(t, db, roles[models.RolePractitioner], "prac@example.com", manager.ID)
	createUser(t, db, roles[models.RoleAdmin], "other@example.com", 1)

	views, err := svc.List(context.Background(), manager, nil)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, prac.ID, views[0].ID)

	views, err = svc.List(context.Background(), admin, nil)
	require.NoError(t, err)
	ids := make([]uint, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	require.ElementsMatch(t, []uint{manager.ID, prac.ID}, ids, "the admin sees their chain but not themselves or peers")
}

func TestCurrentUserRejectsDeletedAccount(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newUserService(db)

	user := createUser(t, db, roles[models.RoleManager], "gone@example.com", 1)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_deleted", true).Error)

	_, err := svc.CurrentUser(context.Background(), user.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}
