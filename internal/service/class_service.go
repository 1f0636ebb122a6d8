package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
)

// ClassService manages classes and their practitioner assignment.
type ClassService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateClassRequest) (models.Class, error)
	Get(ctx context.Context, id uint) (models.Class, error)
	List(ctx context.Context, actor models.User) ([]models.Class, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.UpdateClassRequest) (models.Class, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type classService struct {
	classes   repository.ClassRepository
	schools   repository.SchoolRepository
	users     repository.UserRepository
	scope     ScopeService
	cascade   CascadeService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewClassService builds the class service.
func NewClassService(
	classes repository.ClassRepository,
	schools repository.SchoolRepository,
	users repository.UserRepository,
	scope ScopeService,
	cascade CascadeService,
	validate *validator.Validate,
	logger zerolog.Logger,
) ClassService {
	return &classService{
		classes:   classes,
		schools:   schools,
		users:     users,
		scope:     scope,
		cascade:   cascade,
		validator: validate,
		logger:    logger.With().Str("component", "class_service").Logger(),
	}
}

func (s *classService) Create(ctx context.Context, actor Actor, req dto.CreateClassRequest) (models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Class{}, err
	}

	school, err := s.schools.GetByID(ctx, req.SchoolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Class{}, ErrNotFound
		}
		return models.Class{}, err
	}
	if school.IsDeleted {
		return models.Class{}, ErrNotFound
	}

	if err := s.checkPractitioner(ctx, req.PractitionerID); err != nil {
		return models.Class{}, err
	}

	class := models.Class{
		Name:           req.Name,
		Status:         models.ClassStatusActive,
		SchoolID:       school.ID,
		PractitionerID: req.PractitionerID,
		Audit: models.Audit{
			CreatedBy: actor.ID,
			UpdatedBy: actor.ID,
			CreatedIP: actor.IP,
			UpdatedIP: actor.IP,
		},
	}
	if err := s.classes.Create(ctx, &class); err != nil {
		return models.Class{}, err
	}

	s.logger.Info().Uint("class_id", class.ID).Uint("school_id", class.SchoolID).Msg("class created")
	return class, nil
}

func (s *classService) checkPractitioner(ctx context.Context, id uint) error {
	practitioner, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInadequateData
		}
		return err
	}
	if practitioner.IsDeleted || practitioner.Role.Name != models.RolePractitioner {
		return ErrInadequateData
	}
	return nil
}

func (s *classService) Get(ctx context.Context, id uint) (models.Class, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Class{}, ErrNotFound
		}
		return models.Class{}, err
	}
	if class.IsDeleted {
		return models.Class{}, ErrNotFound
	}
	return class, nil
}

func (s *classService) List(ctx context.Context, actor models.User) ([]models.Class, error) {
	if actor.Role.Name == models.RolePractitioner {
		return s.classes.ListByPractitioner(ctx, actor.ID)
	}

	scope, err := s.scope.VisibleOrgScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if scope.Unrestricted {
		return s.classes.List(ctx, repository.ClassFilter{})
	}

	schools, err := s.schools.List(ctx, repository.SchoolFilter{
		IDs:        scope.SchoolIDs,
		CountryIDs: scope.CountryIDs,
		RegionIDs:  scope.RegionIDs,
		OwnerIDs:   scope.OwnerIDs,
	})
	if err != nil {
		return nil, err
	}

	schoolIDs := make([]uint, 0, len(schools))
	for _, school := range schools {
		schoolIDs = append(schoolIDs, school.ID)
	}
	if len(schoolIDs) == 0 {
		return []models.Class{}, nil
	}

	return s.classes.ListBySchoolsOrPractitioners(ctx, schoolIDs, nil)
}

func (s *classService) Update(ctx context.Context, actor Actor, id uint, req dto.UpdateClassRequest) (models.Class, error) {
	class, err := s.Get(ctx, id)
	if err != nil {
		return models.Class{}, err
	}

	updates := map[string]interface{}{
		"updated_by": actor.ID,
		"updated_ip": actor.IP,
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Status != "" {
		if req.Status != models.ClassStatusActive && req.Status != models.ClassStatusInactive {
			return models.Class{}, ErrInadequateData
		}
		updates["status"] = req.Status
	}
	if req.PractitionerID != 0 {
		if err := s.checkPractitioner(ctx, req.PractitionerID); err != nil {
			return models.Class{}, err
		}
		updates["practitioner_id"] = req.PractitionerID
	}
	if err := s.classes.UpdateFields(ctx, []uint{class.ID}, updates); err != nil {
		return models.Class{}, err
	}

	return s.classes.GetByID(ctx, class.ID)
}

func (s *classService) Delete(ctx context.Context, id uint, actor Actor) error {
	return s.cascade.DeleteClass(ctx, id, actor)
}
