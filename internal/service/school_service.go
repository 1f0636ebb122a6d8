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

// SchoolService manages schools. The country id is derived from the
// parent region, never taken from the caller.
type SchoolService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateSchoolRequest) (models.School, error)
	Get(ctx context.Context, id uint) (models.School, error)
	List(ctx context.Context, actor models.User) ([]models.School, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.UpdateSchoolRequest) (models.School, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type schoolService struct {
	schools   repository.SchoolRepository
	regions   repository.RegionRepository
	scope     ScopeService
	cascade   CascadeService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSchoolService builds the school service.
func NewSchoolService(
	schools repository.SchoolRepository,
	regions repository.RegionRepository,
	scope ScopeService,
	cascade CascadeService,
	validate *validator.Validate,
	logger zerolog.Logger,
) SchoolService {
	return &schoolService{
		schools:   schools,
		regions:   regions,
		scope:     scope,
		cascade:   cascade,
		validator: validate,
		logger:    logger.With().Str("component", "school_service").Logger(),
	}
}

func (s *schoolService) Create(ctx context.Context, actor Actor, req dto.CreateSchoolRequest) (models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.School{}, err
	}

	region, err := s.regions.GetByID(ctx, req.RegionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.School{}, ErrNotFound
		}
		return models.School{}, err
	}
	if !region.IsAdded {
		return models.School{}, ErrNotFound
	}

	if existing, err := s.schools.GetByNaturalKey(ctx, req.Name, region.ID, region.CountryID); err == nil && !existing.IsDeleted {
		return models.School{}, ErrAlreadyExists
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.School{}, err
	}

	school := models.School{
		Name:      req.Name,
		RegionID:  region.ID,
		CountryID: region.CountryID,
		Audit: models.Audit{
			CreatedBy: actor.ID,
			UpdatedBy: actor.ID,
			CreatedIP: actor.IP,
			UpdatedIP: actor.IP,
		},
	}
	if err := s.schools.Create(ctx, &school); err != nil {
		return models.School{}, err
	}

	s.logger.Info().Uint("school_id", school.ID).Uint("region_id", school.RegionID).Msg("school created")
	return school, nil
}

func (s *schoolService) Get(ctx context.Context, id uint) (models.School, error) {
	school, err := s.schools.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.School{}, ErrNotFound
		}
		return models.School{}, err
	}
	if school.IsDeleted {
		return models.School{}, ErrNotFound
	}
	return school, nil
}

func (s *schoolService) List(ctx context.Context, actor models.User) ([]models.School, error) {
	scope, err := s.scope.VisibleOrgScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	filter := repository.SchoolFilter{}
	if !scope.Unrestricted {
		filter.IDs = scope.SchoolIDs
		filter.CountryIDs = scope.CountryIDs
		filter.RegionIDs = scope.RegionIDs
		filter.OwnerIDs = scope.OwnerIDs
	}

	return s.schools.List(ctx, filter)
}

func (s *schoolService) Update(ctx context.Context, actor Actor, id uint, req dto.UpdateSchoolRequest) (models.School, error) {
	school, err := s.Get(ctx, id)
	if err != nil {
		return models.School{}, err
	}

	updates := map[string]interface{}{
		"updated_by": actor.ID,
		"updated_ip": actor.IP,
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if err := s.schools.UpdateFields(ctx, []uint{school.ID}, updates); err != nil {
		return models.School{}, err
	}

	return s.schools.GetByID(ctx, school.ID)
}

func (s *schoolService) Delete(ctx context.Context, id uint, actor Actor) error {
	return s.cascade.DeleteSchool(ctx, id, actor)
}
