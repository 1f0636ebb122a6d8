package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/observability"
	"github.com/moveright/assessadmin-api/internal/repository"
)

// CascadeService soft-deletes an organizational subtree, strictly
// top-down. Each step lists the dependents of the previous step and only
// recurses into non-empty sets, which makes re-invocation on a partially
// deleted tree safe: already-marked rows are simply marked again with
// the same values.
//
// The steps are deliberately independent, not wrapped in a transaction:
// a failure partway leaves prior steps committed, and the documented
// recovery path is to re-run the deletion. Every touched row is stamped
// with the deleting actor and their IP, not the original owner.
//
// Deleting a practitioner is the one asymmetric case: their classes are
// reassigned to a replacement practitioner instead of deleted, so class
// and student continuity survives while the practitioner's assessments
// are retired.
type CascadeService interface {
	DeleteCountry(ctx context.Context, id uint, actor Actor) error
	DeleteRegion(ctx context.Context, id uint, actor Actor) error
	DeleteSchool(ctx context.Context, id uint, actor Actor) error
	DeleteClass(ctx context.Context, id uint, actor Actor) error
	DeleteUser(ctx context.Context, id uint, actor Actor, newPractitionerID uint) error
}

type cascadeService struct {
	countries   repository.CountryRepository
	regions     repository.RegionRepository
	schools     repository.SchoolRepository
	classes     repository.ClassRepository
	students    repository.StudentRepository
	users       repository.UserRepository
	assessments repository.AssessmentRepository
	logger      zerolog.Logger
}

// NewCascadeService builds the cascade deletion engine.
func NewCascadeService(
	countries repository.CountryRepository,
	regions repository.RegionRepository,
	schools repository.SchoolRepository,
	classes repository.ClassRepository,
	students repository.StudentRepository,
	users repository.UserRepository,
	assessments repository.AssessmentRepository,
	logger zerolog.Logger,
) CascadeService {
	return &cascadeService{
		countries:   countries,
		regions:     regions,
		schools:     schools,
		classes:     classes,
		students:    students,
		users:       users,
		assessments: assessments,
		logger:      logger.With().Str("component", "cascade_service").Logger(),
	}
}

func (s *cascadeService) softDelete(actor Actor) map[string]interface{} {
	return map[string]interface{}{
		"is_deleted": true,
		"updated_by": actor.ID,
		"updated_ip": actor.IP,
	}
}

func (s *cascadeService) retire(actor Actor) map[string]interface{} {
	return map[string]interface{}{
		"is_added":   false,
		"updated_by": actor.ID,
		"updated_ip": actor.IP,
	}
}

func (s *cascadeService) DeleteCountry(ctx context.Context, id uint, actor Actor) error {
	country, err := s.countries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if country.IsDeleted {
		return ErrNotFound
	}

	regions, err := s.regions.ListByCountry(ctx, id)
	if err != nil {
		return err
	}
	if len(regions) > 0 {
		regionIDs := regionIDs(regions)

		schools, err := s.schools.ListByCountryOrRegions(ctx, id, regionIDs)
		if err != nil {
			return err
		}
		if len(schools) > 0 {
			schoolIDs := schoolIDs(schools)

			if err := s.deleteOrgUsersAndBelow(ctx, actor, []uint{id}, regionIDs, schoolIDs); err != nil {
				return err
			}
			if err := s.schools.UpdateFields(ctx, schoolIDs, s.softDelete(actor)); err != nil {
				return err
			}
		}
	}

	if err := s.regions.RetireByCountry(ctx, id, s.retire(actor)); err != nil {
		return err
	}
	if err := s.countries.UpdateFields(ctx, []uint{id}, s.retire(actor)); err != nil {
		return err
	}

	observability.CascadeDeletions().WithLabelValues("country").Inc()
	s.logger.Info().Uint("country_id", id).Uint("actor_id", actor.ID).Msg("country cascade deleted")
	return nil
}

func (s *cascadeService) DeleteRegion(ctx context.Context, id uint, actor Actor) error {
	region, err := s.regions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if region.IsDeleted {
		return ErrNotFound
	}

	schools, err := s.schools.ListByRegions(ctx, []uint{id})
	if err != nil {
		return err
	}
	if len(schools) > 0 {
		schoolIDs := schoolIDs(schools)

		if err := s.deleteOrgUsersAndBelow(ctx, actor, nil, []uint{id}, schoolIDs); err != nil {
			return err
		}
		if err := s.schools.UpdateFields(ctx, schoolIDs, s.softDelete(actor)); err != nil {
			return err
		}
	}

	if err := s.regions.UpdateFields(ctx, []uint{id}, s.retire(actor)); err != nil {
		return err
	}

	observability.CascadeDeletions().WithLabelValues("region").Inc()
	s.logger.Info().Uint("region_id", id).Uint("actor_id", actor.ID).Msg("region cascade deleted")
	return nil
}

// deleteOrgUsersAndBelow runs the shared lower half of the country and
// region cascades: users assigned to the org units, their classes,
// those classes' students and the reachable assessments.
func (s *cascadeService) deleteOrgUsersAndBelow(ctx context.Context, actor Actor, countryIDs, regionIDs, schoolIDs []uint) error {
	users, err := s.users.ListAssignedToOrgs(ctx, countryIDs, regionIDs, schoolIDs)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}
	userIDs := userIDs(users)

	classes, err := s.classes.ListBySchoolsOrPractitioners(ctx, schoolIDs, userIDs)
	if err != nil {
		return err
	}
	if len(classes) > 0 {
		classIDs := classIDs(classes)

		students, err := s.students.ListByClasses(ctx, classIDs)
		if err != nil {
			return err
		}
		if len(students) > 0 {
			studentIDs := studentIDs(students)

			assessments, err := s.assessments.ListByStudentsOrPractitioners(ctx, studentIDs, userIDs)
			if err != nil {
				return err
			}
			if len(assessments) > 0 {
				if err := s.assessments.UpdateFields(ctx, assessmentIDs(assessments), s.softDelete(actor)); err != nil {
					return err
				}
			}
			if err := s.students.UpdateFields(ctx, studentIDs, s.softDelete(actor)); err != nil {
				return err
			}
		}
		if err := s.classes.UpdateFields(ctx, classIDs, s.softDelete(actor)); err != nil {
			return err
		}
	}

	return s.users.UpdateFields(ctx, userIDs, s.softDelete(actor))
}

func (s *cascadeService) DeleteSchool(ctx context.Context, id uint, actor Actor) error {
	school, err := s.schools.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if school.IsDeleted {
		return ErrNotFound
	}

	classes, err := s.classes.ListBySchoolsOrPractitioners(ctx, []uint{id}, nil)
	if err != nil {
		return err
	}
	if len(classes) > 0 {
		classIDs := classIDs(classes)

		students, err := s.students.ListByClasses(ctx, classIDs)
		if err != nil {
			return err
		}
		if len(students) > 0 {
			studentIDs := studentIDs(students)

			assessments, err := s.assessments.ListByStudentsOrPractitioners(ctx, studentIDs, nil)
			if err != nil {
				return err
			}
			if len(assessments) > 0 {
				if err := s.assessments.UpdateFields(ctx, assessmentIDs(assessments), s.softDelete(actor)); err != nil {
					return err
				}
			}
			if err := s.students.UpdateFields(ctx, studentIDs, s.softDelete(actor)); err != nil {
				return err
			}
		}
		if err := s.classes.UpdateFields(ctx, classIDs, s.softDelete(actor)); err != nil {
			return err
		}
	}

	if err := s.schools.UpdateFields(ctx, []uint{id}, s.softDelete(actor)); err != nil {
		return err
	}

	observability.CascadeDeletions().WithLabelValues("school").Inc()
	s.logger.Info().Uint("school_id", id).Uint("actor_id", actor.ID).Msg("school cascade deleted")
	return nil
}

func (s *cascadeService) DeleteClass(ctx context.Context, id uint, actor Actor) error {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if class.IsDeleted {
		return ErrNotFound
	}

	students, err := s.students.ListByClasses(ctx, []uint{id})
	if err != nil {
		return err
	}
	if len(students) > 0 {
		studentIDs := studentIDs(students)

		assessments, err := s.assessments.ListByStudentsOrPractitioners(ctx, studentIDs, nil)
		if err != nil {
			return err
		}
		if len(assessments) > 0 {
			if err := s.assessments.UpdateFields(ctx, assessmentIDs(assessments), s.softDelete(actor)); err != nil {
				return err
			}
		}
		if err := s.students.UpdateFields(ctx, studentIDs, s.softDelete(actor)); err != nil {
			return err
		}
	}

	if err := s.classes.UpdateFields(ctx, []uint{id}, s.softDelete(actor)); err != nil {
		return err
	}

	observability.CascadeDeletions().WithLabelValues("class").Inc()
	s.logger.Info().Uint("class_id", id).Uint("actor_id", actor.ID).Msg("class cascade deleted")
	return nil
}

// DeleteUser soft-deletes a user account. For practitioners the classes
// are handed to newPractitionerID rather than deleted; only the
// assessments authored by the departing practitioner or belonging to
// students of their classes are retired.
func (s *cascadeService) DeleteUser(ctx context.Context, id uint, actor Actor, newPractitionerID uint) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if user.IsDeleted {
		return ErrNotFound
	}

	if user.Role.Name == models.RolePractitioner {
		classes, err := s.classes.ListByPractitioner(ctx, id)
		if err != nil {
			return err
		}
		if len(classes) > 0 {
			classIDs := classIDs(classes)

			if err := s.classes.UpdateFields(ctx, classIDs, map[string]interface{}{
				"practitioner_id": newPractitionerID,
				"updated_by":      actor.ID,
				"updated_ip":      actor.IP,
			}); err != nil {
				return err
			}

			students, err := s.students.ListByClasses(ctx, classIDs)
			if err != nil {
				return err
			}
			if len(students) > 0 {
				assessments, err := s.assessments.ListByStudentsOrPractitioners(ctx, studentIDs(students), []uint{id})
				if err != nil {
					return err
				}
				if len(assessments) > 0 {
					if err := s.assessments.UpdateFields(ctx, assessmentIDs(assessments), s.softDelete(actor)); err != nil {
						return err
					}
				}
			}
		}
	}

	if err := s.users.UpdateFields(ctx, []uint{id}, s.softDelete(actor)); err != nil {
		return err
	}

	observability.CascadeDeletions().WithLabelValues("user").Inc()
	s.logger.Info().Uint("user_id", id).Uint("actor_id", actor.ID).Msg("user cascade deleted")
	return nil
}

func regionIDs(regions []models.Region) []uint {
	ids := make([]uint, 0, len(regions))
	for _, r := range regions {
		ids = append(ids, r.ID)
	}
	return ids
}

func schoolIDs(schools []models.School) []uint {
	ids := make([]uint, 0, len(schools))
	for _, s := range schools {
		ids = append(ids, s.ID)
	}
	return ids
}

func userIDs(users []models.User) []uint {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func classIDs(classes []models.Class) []uint {
	ids := make([]uint, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}
	return ids
}

func studentIDs(students []models.Student) []uint {
	ids := make([]uint, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}
	return ids
}

func assessmentIDs(assessments []models.Assessment) []uint {
	ids := make([]uint, 0, len(assessments))
	for _, a := range assessments {
		ids = append(ids, a.ID)
	}
	return ids
}
