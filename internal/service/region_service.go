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

// RegionService manages regions, the second organizational level.
type RegionService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateRegionRequest) (models.Region, error)
	Get(ctx context.Context, id uint) (models.Region, error)
	List(ctx context.Context, actor models.User, countryID uint) ([]models.Region, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.UpdateRegionRequest) (models.Region, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type regionService struct {
	regions   repository.RegionRepository
	countries repository.CountryRepository
	scope     ScopeService
	cascade   CascadeService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewRegionService builds the region service.
func NewRegionService(
	regions repository.RegionRepository,
	countries repository.CountryRepository,
	scope ScopeService,
	cascade CascadeService,
	validate *validator.Validate,
	logger zerolog.Logger,
) RegionService {
	return &regionService{
		regions:   regions,
		countries: countries,
		scope:     scope,
		cascade:   cascade,
		validator: validate,
		logger:    logger.With().Str("component", "region_service").Logger(),
	}
}

func (s *regionService) Create(ctx context.Context, actor Actor, req dto.CreateRegionRequest) (models.Region, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Region{}, err
	}

	country, err := s.countries.GetByID(ctx, req.CountryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Region{}, ErrNotFound
		}
		return models.Region{}, err
	}
	if !country.IsAdded {
		return models.Region{}, ErrNotFound
	}

	if existing, err := s.regions.GetByNameAndCountry(ctx, req.Name, req.CountryID); err == nil && existing.IsAdded {
		return models.Region{}, ErrAlreadyExists
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Region{}, err
	}

	region := models.Region{
		Name:      req.Name,
		CountryID: req.CountryID,
		IsAdded:   true,
		Audit: models.Audit{
			CreatedBy: actor.ID,
			UpdatedBy: actor.ID,
			CreatedIP: actor.IP,
			UpdatedIP: actor.IP,
		},
	}
	if err := s.regions.Create(ctx, &region); err != nil {
		return models.Region{}, err
	}

	s.logger.Info().Uint("region_id", region.ID).Uint("country_id", region.CountryID).Msg("region created")
	return region, nil
}

func (s *regionService) Get(ctx context.Context, id uint) (models.Region, error) {
	region, err := s.regions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Region{}, ErrNotFound
		}
		return models.Region{}, err
	}
	if !region.IsAdded {
		return models.Region{}, ErrNotFound
	}
	return region, nil
}

func (s *regionService) List(ctx context.Context, actor models.User, countryID uint) ([]models.Region, error) {
	scope, err := s.scope.VisibleOrgScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	filter := repository.RegionFilter{CountryID: countryID}
	active := true
	filter.IsAdded = &active
	if !scope.Unrestricted && len(scope.RegionIDs) > 0 {
		filter.IDs = scope.RegionIDs
	}

	return s.regions.List(ctx, filter)
}

func (s *regionService) Update(ctx context.Context, actor Actor, id uint, req dto.UpdateRegionRequest) (models.Region, error) {
	region, err := s.Get(ctx, id)
	if err != nil {
		return models.Region{}, err
	}

	updates := map[string]interface{}{
		"updated_by": actor.ID,
		"updated_ip": actor.IP,
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if err := s.regions.UpdateFields(ctx, []uint{region.ID}, updates); err != nil {
		return models.Region{}, err
	}

	return s.regions.GetByID(ctx, region.ID)
}

func (s *regionService) Delete(ctx context.Context, id uint, actor Actor) error {
	return s.cascade.DeleteRegion(ctx, id, actor)
}
