package service

import (
	"context"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// AssessmentService records and analyses movement observations. The four
// body scores are immutable once captured; corrections go through the
// generic field update.
type AssessmentService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateAssessmentRequest) (models.Assessment, error)
	List(ctx context.Context, actor models.User, filter repository.AssessmentFilter) ([]models.Assessment, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.UpdateAssessmentRequest) (models.Assessment, error)
	Delete(ctx context.Context, id uint, actor Actor) error
	ClassAverages(ctx context.Context, classID, taskID uint) (dto.ClassAverages, error)
}

type assessmentService struct {
	assessments repository.AssessmentRepository
	students    repository.StudentRepository
	classes     repository.ClassRepository
	tasks       repository.TaskRepository
	users       repository.UserRepository
	schools     repository.SchoolRepository
	scope       ScopeService
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() int64
}

// NewAssessmentService builds the assessment service.
func NewAssessmentService(
	assessments repository.AssessmentRepository,
	students repository.StudentRepository,
	classes repository.ClassRepository,
	tasks repository.TaskRepository,
	users repository.UserRepository,
	schools repository.SchoolRepository,
	scope ScopeService,
	validate *validator.Validate,
	logger zerolog.Logger,
) AssessmentService {
	return &assessmentService{
		assessments: assessments,
		students:    students,
		classes:     classes,
		tasks:       tasks,
		users:       users,
		schools:     schools,
		scope:       scope,
		validator:   validate,
		logger:      logger.With().Str("component", "assessment_service").Logger(),
		now:         utils.NowMillis,
	}
}

func (s *assessmentService) Create(ctx context.Context, actor Actor, req dto.CreateAssessmentRequest) (models.Assessment, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Assessment{}, err
	}

	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil || student.IsDeleted {
		return models.Assessment{}, ErrNotFound
	}
	class, err := s.classes.GetByID(ctx, req.ClassID)
	if err != nil || class.IsDeleted {
		return models.Assessment{}, ErrNotFound
	}
	if _, err := s.tasks.GetByID(ctx, req.TaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assessment{}, ErrNotFound
		}
		return models.Assessment{}, err
	}
	practitioner, err := s.users.GetByID(ctx, req.PractitionerID)
	if err != nil || practitioner.IsDeleted || practitioner.Role.Name != models.RolePractitioner {
		return models.Assessment{}, ErrNotFound
	}

	date := req.Date
	if date == 0 {
		date = s.now()
	}

	assessment := models.Assessment{
		ClassID:        req.ClassID,
		TaskID:         req.TaskID,
		PractitionerID: req.PractitionerID,
		StudentID:      req.StudentID,
		Head:           req.Head,
		Arms:           req.Arms,
		Legs:           req.Legs,
		Body:           req.Body,
		Date:           date,
		Audit: models.Audit{
			CreatedBy: actor.ID,
			UpdatedBy: actor.ID,
			CreatedIP: actor.IP,
			UpdatedIP: actor.IP,
		},
	}
	if err := s.assessments.Create(ctx, &assessment); err != nil {
		return models.Assessment{}, err
	}

	s.logger.Info().Uint("assessment_id", assessment.ID).Uint("student_id", assessment.StudentID).Msg("assessment recorded")
	return assessment, nil
}

func (s *assessmentService) List(ctx context.Context, actor models.User, filter repository.AssessmentFilter) ([]models.Assessment, error) {
	if actor.Role.Name == models.RolePractitioner {
		filter.PractitionerIDs = []uint{actor.ID}
		return s.assessments.List(ctx, filter)
	}

	scope, err := s.scope.VisibleOrgScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !scope.Unrestricted && len(filter.ClassIDs) == 0 {
		schools, err := s.scopedSchoolIDs(ctx, scope)
		if err != nil {
			return nil, err
		}
		if len(schools) == 0 {
			return []models.Assessment{}, nil
		}
		classes, err := s.classes.ListBySchoolsOrPractitioners(ctx, schools, nil)
		if err != nil {
			return nil, err
		}
		if len(classes) == 0 {
			return []models.Assessment{}, nil
		}
		ids := make([]uint, 0, len(classes))
		for _, class := range classes {
			ids = append(ids, class.ID)
		}
		filter.ClassIDs = ids
	}

	return s.assessments.List(ctx, filter)
}

func (s *assessmentService) scopedSchoolIDs(ctx context.Context, scope OrgScope) ([]uint, error) {
	schools, err := s.schools.List(ctx, repository.SchoolFilter{
		IDs:        scope.SchoolIDs,
		CountryIDs: scope.CountryIDs,
		RegionIDs:  scope.RegionIDs,
		OwnerIDs:   scope.OwnerIDs,
	})
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(schools))
	for _, school := range schools {
		ids = append(ids, school.ID)
	}
	return ids, nil
}

func (s *assessmentService) Update(ctx context.Context, actor Actor, id uint, req dto.UpdateAssessmentRequest) (models.Assessment, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Assessment{}, err
	}

	assessment, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assessment{}, ErrNotFound
		}
		return models.Assessment{}, err
	}
	if assessment.IsDeleted {
		return models.Assessment{}, ErrNotFound
	}

	updates := map[string]interface{}{
		"updated_by": actor.ID,
		"updated_ip": actor.IP,
	}
	for key, value := range req.Fields {
		updates[key] = value
	}
	if err := s.assessments.Update(ctx, assessment.ID, updates); err != nil {
		return models.Assessment{}, err
	}

	return s.assessments.GetByID(ctx, assessment.ID)
}

func (s *assessmentService) Delete(ctx context.Context, id uint, actor Actor) error {
	assessment, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if assessment.IsDeleted {
		return ErrNotFound
	}

	return s.assessments.UpdateFields(ctx, []uint{assessment.ID}, map[string]interface{}{
		"is_deleted": true,
		"updated_by": actor.ID,
		"updated_ip": actor.IP,
	})
}

func (s *assessmentService) ClassAverages(ctx context.Context, classID, taskID uint) (dto.ClassAverages, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil || class.IsDeleted {
		return dto.ClassAverages{}, ErrNotFound
	}

	assessments, err := s.assessments.List(ctx, repository.AssessmentFilter{
		ClassIDs: []uint{classID},
		TaskID:   taskID,
	})
	if err != nil {
		return dto.ClassAverages{}, err
	}

	averages := dto.ClassAverages{ClassID: classID, TaskID: taskID, Count: len(assessments)}
	if len(assessments) == 0 {
		return averages, nil
	}

	var head, arms, legs, body float64
	for _, a := range assessments {
		head += a.Head
		arms += a.Arms
		legs += a.Legs
		body += a.Body
	}
	n := float64(len(assessments))
	averages.Head = round2(head / n)
	averages.Arms = round2(arms / n)
	averages.Legs = round2(legs / n)
	averages.Body = round2(body / n)
	return averages, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
