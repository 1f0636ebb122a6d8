package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
)

func newScopeService(db *gorm.DB) ScopeService {
	return NewScopeService(repository.NewUserRepository(db), repository.NewRoleRepository(db), testLogger())
}

func TestManagedUserIDsDescendsThroughOnboardingChain(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newScopeService(db)

	admin := createUser(t, db, roles[models.RoleAdmin], "admin@example.com", 1)
	manager := createUser(t, db, roles[models.RoleManager], "manager@example.com", admin.ID)
	pracOne := createUser(t, db, roles[models.RolePractitioner], "p1@example.com", manager.ID)
	pracTwo := createUser(t, db, roles[models.RolePractitioner], "p2@example.com", manager.ID)

	ids, err := svc.ManagedUserIDs(context.Background(), admin)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{manager.ID, pracOne.ID, pracTwo.ID}, ids)

	ids, err = svc.ManagedUserIDs(context.Background(), manager)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{pracOne.ID, pracTwo.ID}, ids)

	ids, err = svc.ManagedUserIDs(context.Background(), pracOne)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestManagedUserIDsSkipsPeersAndSuperiors(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newScopeService(db)

	manager := createUser(t, db, roles[models.RoleManager], "manager@example.com", 1)
	// Records stamped by the manager but not below them in the hierarchy.
	createUser(t, db, roles[models.RoleAdmin], "upstream@example.com", manager.ID)
	createUser(t, db, roles[models.RoleManager], "peer@example.com", manager.ID)
	prac := createUser(t, db, roles[models.RolePractitioner], "prac@example.com", manager.ID)

	ids, err := svc.ManagedUserIDs(context.Background(), manager)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{prac.ID}, ids)
}

func TestManagedUserIDsUnrestrictedReturnsNil(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newScopeService(db)

	super := createUser(t, db, roles[models.RoleSuperAdmin], "root@example.com", 0)

	ids, err := svc.ManagedUserIDs(context.Background(), super)
	require.NoError(t, err)
	require.Nil(t, ids)
}

func TestManagedUserIDsExcludesDeletedUsers(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newScopeService(db)

	manager := createUser(t, db, roles[models.RoleManager], "manager@example.com", 1)
	gone := createUser(t, db, roles[models.RolePractitioner], "gone@example.com", manager.ID)
	kept := createUser(t, db, roles[models.RolePractitioner], "kept@example.com", manager.ID)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", gone.ID).Update("is_deleted", true).Error)

	ids, err := svc.ManagedUserIDs(context.Background(), manager)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{kept.ID}, ids)
}

func TestVisibleOrgScopePerRole(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	svc := newScopeService(db)

	country := models.Country{Name: "Australia", IsAdded: true}
	require.NoError(t, db.Create(&country).Error)
	region := models.Region{Name: "Victoria", CountryID: country.ID, IsAdded: true}
	require.NoError(t, db.Create(&region).Error)
	school := models.School{Name: "Brunswick Primary", RegionID: region.ID, CountryID: country.ID}
	require.NoError(t, db.Create(&school).Error)

	admin := createUser(t, db, roles[models.RoleAdmin], "admin@example.com", 1)
	require.NoError(t, db.Model(&admin).Association("Countries").Append(&country))
	admin.Countries = []models.Country{country}

	scope, err := svc.VisibleOrgScope(context.Background(), admin)
	require.NoError(t, err)
	require.False(t, scope.Unrestricted)
	require.Equal(t, []uint{country.ID}, scope.CountryIDs)
	require.Contains(t, scope.OwnerIDs, admin.ID)

	manager := createUser(t, db, roles[models.RoleManager], "manager@example.com", admin.ID)
	manager.Regions = []models.Region{region}

	scope, err = svc.VisibleOrgScope(context.Background(), manager)
	require.NoError(t, err)
	require.Equal(t, []uint{region.ID}, scope.RegionIDs)
	require.Empty(t, scope.CountryIDs)

	prac := createUser(t, db, roles[models.RolePractitioner], "prac@example.com", manager.ID)
	prac.Schools = []models.School{school}

	scope, err = svc.VisibleOrgScope(context.Background(), prac)
	require.NoError(t, err)
	require.Equal(t, []uint{school.ID}, scope.SchoolIDs)
	require.Equal(t, []uint{prac.ID}, scope.OwnerIDs)

	super := createUser(t, db, roles[models.RoleGlobalAdmin], "global@example.com", 0)
	scope, err = svc.VisibleOrgScope(context.Background(), super)
	require.NoError(t, err)
	require.True(t, scope.Unrestricted)
}
