package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
)

func newCascadeService(db *gorm.DB) CascadeService {
	return NewCascadeService(
		repository.NewCountryRepository(db),
		repository.NewRegionRepository(db),
		repository.NewSchoolRepository(db),
		repository.NewClassRepository(db),
		repository.NewStudentRepository(db),
		repository.NewUserRepository(db),
		repository.NewAssessmentRepository(db),
		testLogger(),
	)
}

// seedOrgTree builds one full branch: country, region, school, a
// practitioner assigned to the school, a class, a student and one
// assessment.
type orgTree struct {
	country      models.Country
	region       models.Region
	school       models.School
	practitioner models.User
	class        models.Class
	student      models.Student
	assessment   models.Assessment
}

func seedOrgTree(t *testing.T, db *gorm.DB, roles map[models.RoleName]models.Role) orgTree {
	t.Helper()

	country := models.Country{Name: "Australia", Code: "AU", IsAdded: true}
	require.NoError(t, db.Create(&country).Error)

	region := models.Region{Name: "Victoria", CountryID: country.ID, IsAdded: true}
	require.NoError(t, db.Create(&region).Error)

	school := models.School{Name: "Brunswick Primary", RegionID: region.ID, CountryID: country.ID}
	require.NoError(t, db.Create(&school).Error)

	practitioner := createUser(t, db, roles[models.RolePractitioner], "prac@example.com", 1)
	require.NoError(t, db.Model(&practitioner).Association("Schools").Append(&school))

	class := models.Class{Name: "Year 3 Blue", Status: models.ClassStatusActive, SchoolID: school.ID, PractitionerID: practitioner.ID}
	require.NoError(t, db.Create(&class).Error)

	student := models.Student{FirstName: "Mia", ClassID: class.ID, Status: "active"}
	require.NoError(t, db.Create(&student).Error)

	assessment := models.Assessment{
		ClassID:        class.ID,
		TaskID:         999,
		PractitionerID: practitioner.ID,
		StudentID:      student.ID,
		Head:           3, Arms: 2, Legs: 3, Body: 2,
	}
	require.NoError(t, db.Create(&assessment).Error)

	return orgTree{country, region, school, practitioner, class, student, assessment}
}

func TestDeleteCountryCascadesThroughSubtree(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	tree := seedOrgTree(t, db, roles)
	svc := newCascadeService(db)

	actor := Actor{ID: 42, IP: "203.0.113.9"}
	require.NoError(t, svc.DeleteCountry(context.Background(), tree.country.ID, actor))

	var country models.Country
	require.NoError(t, db.First(&country, tree.country.ID).Error)
	require.False(t, country.IsAdded)
	require.Equal(t, uint(42), country.UpdatedBy)
	require.Equal(t, "203.0.113.9", country.UpdatedIP)

	var region models.Region
	require.NoError(t, db.First(&region, tree.region.ID).Error)
	require.False(t, region.IsAdded)
	require.Equal(t, uint(42), region.UpdatedBy)

	var school models.School
	require.NoError(t, db.First(&school, tree.school.ID).Error)
	require.True(t, school.IsDeleted)

	var practitioner models.User
	require.NoError(t, db.First(&practitioner, tree.practitioner.ID).Error)
	require.True(t, practitioner.IsDeleted)
	require.Equal(t, uint(42), practitioner.UpdatedBy)

	var class models.Class
	require.NoError(t, db.First(&class, tree.class.ID).Error)
	require.True(t, class.IsDeleted)

	var student models.Student
	require.NoError(t, db.First(&student, tree.student.ID).Error)
	require.True(t, student.IsDeleted)

	var assessment models.Assessment
	require.NoError(t, db.First(&assessment, tree.assessment.ID).Error)
	require.True(t, assessment.IsDeleted)
	require.Equal(t, "203.0.113.9", assessment.UpdatedIP)
}

func TestDeleteCountryRerunOnRetiredCountrySucceeds(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	tree := seedOrgTree(t, db, roles)
	svc := newCascadeService(db)

	actor := Actor{ID: 7, IP: "198.51.100.2"}
	require.NoError(t, svc.DeleteCountry(context.Background(), tree.country.ID, actor))

	// Retired is not deleted; re-running the cascade is the documented
	// recovery path after a partial failure.
	require.NoError(t, svc.DeleteCountry(context.Background(), tree.country.ID, actor))

	var country models.Country
	require.NoError(t, db.First(&country, tree.country.ID).Error)
	require.False(t, country.IsAdded)
}

func TestDeleteCountryMissingReturnsNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newCascadeService(db)

	err := svc.DeleteCountry(context.Background(), 9999, Actor{ID: 1})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRegionLeavesSiblingAlone(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	tree := seedOrgTree(t, db, roles)
	svc := newCascadeService(db)

	sibling := models.Region{Name: "Queensland", CountryID: tree.country.ID, IsAdded: true}
	require.NoError(t, db.Create(&sibling).Error)

	require.NoError(t, svc.DeleteRegion(context.Background(), tree.region.ID, Actor{ID: 5, IP: "192.0.2.1"}))

	var region models.Region
	require.NoError(t, db.First(&region, tree.region.ID).Error)
	require.False(t, region.IsAdded)

	var school models.School
	require.NoError(t, db.First(&school, tree.school.ID).Error)
	require.True(t, school.IsDeleted)

	var untouched models.Region
	require.NoError(t, db.First(&untouched, sibling.ID).Error)
	require.True(t, untouched.IsAdded)

	var country models.Country
	require.NoError(t, db.First(&country, tree.country.ID).Error)
	require.True(t, country.IsAdded, "region deletion must not climb upward")
}

func TestDeleteClassRetiresStudentsAndAssessments(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	tree := seedOrgTree(t, db, roles)
	svc := newCascadeService(db)

	require.NoError(t, svc.DeleteClass(context.Background(), tree.class.ID, Actor{ID: 3, IP: "192.0.2.7"}))

	var class models.Class
	require.NoError(t, db.First(&class, tree.class.ID).Error)
	require.True(t, class.IsDeleted)

	var student models.Student
	require.NoError(t, db.First(&student, tree.student.ID).Error)
	require.True(t, student.IsDeleted)

	var assessment models.Assessment
	require.NoError(t, db.First(&assessment, tree.assessment.ID).Error)
	require.True(t, assessment.IsDeleted)

	var practitioner models.User
	require.NoError(t, db.First(&practitioner, tree.practitioner.ID).Error)
	require.False(t, practitioner.IsDeleted, "class deletion must not touch the practitioner")
}

func TestDeletePractitionerReassignsClasses(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	tree := seedOrgTree(t, db, roles)
	svc := newCascadeService(db)

	replacement := createUser(t, db, roles[models.RolePractitioner], "replacement@example.com", 1)

	actor := Actor{ID: 9, IP: "203.0.113.4"}
	require.NoError(t, svc.DeleteUser(context.Background(), tree.practitioner.ID, actor, replacement.ID))

	var departed models.User
	require.NoError(t, db.First(&departed, tree.practitioner.ID).Error)
	require.True(t, departed.IsDeleted)

	var class models.Class
	require.NoError(t, db.First(&class, tree.class.ID).Error)
	require.False(t, class.IsDeleted, "classes survive a practitioner deletion")
	require.Equal(t, replacement.ID, class.PractitionerID)
	require.Equal(t, uint(9), class.UpdatedBy)

	var student models.Student
	require.NoError(t, db.First(&student, tree.student.ID).Error)
	require.False(t, student.IsDeleted)

	var assessment models.Assessment
	require.NoError(t, db.First(&assessment, tree.assessment.ID).Error)
	require.True(t, assessment.IsDeleted, "the departing practitioner's assessments are retired")
}

func TestDeleteUserNonPractitionerOnlyMarksTheUser(t *testing.T) {
	db := setupTestDB(t)
	roles := mustSeedRoles(t, db)
	tree := seedOrgTree(t, db, roles)
	svc := newCascadeService(db)

	manager := createUser(t, db, roles[models.RoleManager], "manager@example.com", 1)

	require.NoError(t, svc.DeleteUser(context.Background(), manager.ID, Actor{ID: 2, IP: "192.0.2.3"}, 0))

	var deleted models.User
	require.NoError(t, db.First(&deleted, manager.ID).Error)
	require.True(t, deleted.IsDeleted)

	var class models.Class
	require.NoError(t, db.First(&class, tree.class.ID).Error)
	require.False(t, class.IsDeleted)
	require.Equal(t, tree.practitioner.ID, class.PractitionerID)
}
