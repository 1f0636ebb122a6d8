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

// CountryService manages the top level of the organizational hierarchy.
// Creation is an upsert by name: a retired country with the same name is
// reactivated instead of inserted again.
type CountryService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateCountryRequest) (models.Country, error)
	Get(ctx context.Context, id uint) (dto.CountryDetail, error)
	List(ctx context.Context, active *bool) ([]models.Country, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.UpdateCountryRequest) (models.Country, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type countryService struct {
	countries repository.CountryRepository
	regions   repository.RegionRepository
	cascade   CascadeService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCountryService builds the country service.
func NewCountryService(
	countries repository.CountryRepository,
	regions repository.RegionRepository,
	cascade CascadeService,
	validate *validator.Validate,
	logger zerolog.Logger,
) CountryService {
	return &countryService{
		countries: countries,
		regions:   regions,
		cascade:   cascade,
		validator: validate,
		logger:    logger.With().Str("component", "country_service").Logger(),
	}
}

func (s *countryService) Create(ctx context.Context, actor Actor, req dto.CreateCountryRequest) (models.Country, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Country{}, err
	}

	existing, err := s.countries.GetByName(ctx, req.Name)
	switch {
	case err == nil:
		if existing.IsAdded {
			return models.Country{}, ErrAlreadyExists
		}
		updates := map[string]interface{}{
			"is_added":   true,
			"is_deleted": false,
			"updated_by": actor.ID,
			"updated_ip": actor.IP,
		}
		if req.Code != "" {
			updates["code"] = req.Code
		}
		if req.PhoneCode != "" {
			updates["phone_code"] = req.PhoneCode
		}
		if err := s.countries.UpdateFields(ctx, []uint{existing.ID}, updates); err != nil {
			return models.Country{}, err
		}
		s.logger.Info().Uint("country_id", existing.ID).Msg("country reactivated")
		return s.countries.GetByID(ctx, existing.ID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to insert
	default:
		return models.Country{}, err
	}

	country := models.Country{
		Name:      req.Name,
		Code:      req.Code,
		PhoneCode: req.PhoneCode,
		IsAdded:   true,
		Audit: models.Audit{
			CreatedBy: actor.ID,
			UpdatedBy: actor.ID,
			CreatedIP: actor.IP,
			UpdatedIP: actor.IP,
		},
	}
	if err := s.countries.Create(ctx, &country); err != nil {
		return models.Country{}, err
	}

	s.logger.Info().Uint("country_id", country.ID).Msg("country created")
	return country, nil
}

func (s *countryService) Get(ctx context.Context, id uint) (dto.CountryDetail, error) {
	country, err := s.countries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CountryDetail{}, ErrNotFound
		}
		return dto.CountryDetail{}, err
	}
	if !country.IsAdded {
		return dto.CountryDetail{}, ErrNotFound
	}

	regions, err := s.regions.ListByCountry(ctx, country.ID)
	if err != nil {
		return dto.CountryDetail{}, err
	}

	return dto.CountryDetail{Country: country, Regions: regions}, nil
}

func (s *countryService) List(ctx context.Context, active *bool) ([]models.Country, error) {
	return s.countries.List(ctx, repository.CountryFilter{IsAdded: active})
}

func (s *countryService) Update(ctx context.Context, actor Actor, id uint, req dto.UpdateCountryRequest) (models.Country, error) {
	country, err := s.countries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Country{}, ErrNotFound
		}
		return models.Country{}, err
	}
	if !country.IsAdded {
		return models.Country{}, ErrNotFound
	}

	updates := map[string]interface{}{
		"updated_by": actor.ID,
		"updated_ip": actor.IP,
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Code != "" {
		updates["code"] = req.Code
	}
	if req.PhoneCode != "" {
		updates["phone_code"] = req.PhoneCode
	}
	if err := s.countries.UpdateFields(ctx, []uint{id}, updates); err != nil {
		return models.Country{}, err
	}

	return s.countries.GetByID(ctx, id)
}

func (s *countryService) Delete(ctx context.Context, id uint, actor Actor) error {
	return s.cascade.DeleteCountry(ctx, id, actor)
}
