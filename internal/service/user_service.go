package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
	"github.com/moveright/assessadmin-api/pkg/mailer"
)

// UserService manages administrative accounts. Accounts carry an
// organizational scope whose required level depends on the role: admins
// are assigned countries, managers regions, program coordinators and
// practitioners schools. Higher levels of the assignment are always
// derived from the chosen units, never taken from the caller.
type UserService interface {
	Register(ctx context.Context, actor Actor, req dto.RegisterUserRequest) (dto.UserView, error)
	Get(ctx context.Context, id uint) (dto.UserView, error)
	CurrentUser(ctx context.Context, id uint) (models.User, error)
	List(ctx context.Context, actor models.User, roleFilter []uint) ([]dto.UserView, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.UpdateUserRequest) (dto.UserView, error)
	Delete(ctx context.Context, id uint, actor Actor, newPractitionerID uint) error
}

type userService struct {
	users     repository.UserRepository
	roles     repository.RoleRepository
	countries repository.CountryRepository
	regions   repository.RegionRepository
	schools   repository.SchoolRepository
	scope     ScopeService
	cascade   CascadeService
	mail      mailer.Mailer
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserService builds the user service.
func NewUserService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	countries repository.CountryRepository,
	regions repository.RegionRepository,
	schools repository.SchoolRepository,
	scope ScopeService,
	cascade CascadeService,
	mail mailer.Mailer,
	validate *validator.Validate,
	logger zerolog.Logger,
) UserService {
	return &userService{
		users:     users,
		roles:     roles,
		countries: countries,
		regions:   regions,
		schools:   schools,
		scope:     scope,
		cascade:   cascade,
		mail:      mail,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) Register(ctx context.Context, actor Actor, req dto.RegisterUserRequest) (dto.UserView, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserView{}, err
	}

	role, err := s.roles.GetByID(ctx, req.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserView{}, ErrInadequateData
		}
		return dto.UserView{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.users.ExistsActiveEmail(ctx, email)
	if err != nil {
		return dto.UserView{}, err
	}
	if exists {
		return dto.UserView{}, ErrAlreadyExists
	}

	countries, regions, schools, err := s.resolveScope(ctx, role.Name, req.CountryIDs, req.RegionIDs, req.SchoolIDs)
	if err != nil {
		return dto.UserView{}, err
	}

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		RoleID:    role.ID,
		Countries: countries,
		Regions:   regions,
		Schools:   schools,
		Audit: models.Audit{
			CreatedBy: actor.ID,
			UpdatedBy: actor.ID,
			CreatedIP: actor.IP,
			UpdatedIP: actor.IP,
		},
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserView{}, err
	}

	if err := s.mail.SendWelcome(ctx, user.Email, user.FirstName); err != nil {
		// registration stands even when the welcome mail fails
		s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("welcome mail failed")
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", string(role.Name)).Msg("user registered")
	user.Role = role
	return toUserView(user), nil
}

// resolveScope validates the scope ids against the role's level and
// derives the implied higher levels. Admins must name at least one
// country, managers at least one region, program coordinators and
// practitioners at least one school. Unrestricted roles carry no scope.
func (s *userService) resolveScope(ctx context.Context, role models.RoleName, countryIDs, regionIDs, schoolIDs []uint) ([]models.Country, []models.Region, []models.School, error) {
	if role.Unrestricted() {
		return nil, nil, nil, nil
	}

	switch role {
	case models.RoleAdmin:
		if len(countryIDs) == 0 {
			return nil, nil, nil, ErrInadequateData
		}
		countries, err := s.countries.List(ctx, repository.CountryFilter{IDs: countryIDs})
		if err != nil {
			return nil, nil, nil, err
		}
		if len(countries) != len(countryIDs) {
			return nil, nil, nil, ErrInadequateData
		}
		return countries, nil, nil, nil

	case models.RoleManager:
		if len(regionIDs) == 0 {
			return nil, nil, nil, ErrInadequateData
		}
		regions, err := s.regions.List(ctx, repository.RegionFilter{IDs: regionIDs})
		if err != nil {
			return nil, nil, nil, err
		}
		if len(regions) != len(regionIDs) {
			return nil, nil, nil, ErrInadequateData
		}
		countries, err := s.countries.List(ctx, repository.CountryFilter{IDs: countryIDsOfRegions(regions)})
		if err != nil {
			return nil, nil, nil, err
		}
		return countries, regions, nil, nil

	case models.RoleProgramCoordinator, models.RolePractitioner:
		if len(schoolIDs) == 0 {
			return nil, nil, nil, ErrInadequateData
		}
		schools, err := s.schools.List(ctx, repository.SchoolFilter{IDs: schoolIDs})
		if err != nil {
			return nil, nil, nil, err
		}
		if len(schools) != len(schoolIDs) {
			return nil, nil, nil, ErrInadequateData
		}
		regionIDs := make([]uint, 0, len(schools))
		countryIDs := make([]uint, 0, len(schools))
		for _, school := range schools {
			regionIDs = append(regionIDs, school.RegionID)
			countryIDs = append(countryIDs, school.CountryID)
		}
		regions, err := s.regions.List(ctx, repository.RegionFilter{IDs: dedupe(regionIDs)})
		if err != nil {
			return nil, nil, nil, err
		}
		countries, err := s.countries.List(ctx, repository.CountryFilter{IDs: dedupe(countryIDs)})
		if err != nil {
			return nil, nil, nil, err
		}
		return countries, regions, schools, nil

	default:
		return nil, nil, nil, ErrInadequateData
	}
}

func countryIDsOfRegions(regions []models.Region) []uint {
	ids := make([]uint, 0, len(regions))
	for _, region := range regions {
		ids = append(ids, region.CountryID)
	}
	return dedupe(ids)
}

// CurrentUser loads the acting account with its role and scope preloaded.
func (s *userService) CurrentUser(ctx context.Context, id uint) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, err
	}
	if user.IsDeleted {
		return models.User{}, ErrUnauthorized
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uint) (dto.UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserView{}, ErrNotFound
		}
		return dto.UserView{}, err
	}
	if user.IsDeleted {
		return dto.UserView{}, ErrNotFound
	}
	return toUserView(user), nil
}

func (s *userService) List(ctx context.Context, actor models.User, roleFilter []uint) ([]dto.UserView, error) {
	filter := repository.UserFilter{
		RoleIDs:   roleFilter,
		ExcludeID: actor.ID,
	}

	if !actor.Role.Name.Unrestricted() {
		managed, err := s.scope.ManagedUserIDs(ctx, actor)
		if err != nil {
			return nil, err
		}
		filter.OwnerIDs = append([]uint{actor.ID}, managed...)
	}

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]dto.UserView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}
	return views, nil
}

func (s *userService) Update(ctx context.Context, actor Actor, id uint, req dto.UpdateUserRequest) (dto.UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserView{}, ErrNotFound
		}
		return dto.UserView{}, err
	}
	if user.IsDeleted {
		return dto.UserView{}, ErrNotFound
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	user.UpdatedBy = actor.ID
	user.UpdatedIP = actor.IP
	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserView{}, err
	}

	if len(req.CountryIDs)+len(req.RegionIDs)+len(req.SchoolIDs) > 0 {
		countries, regions, schools, err := s.resolveScope(ctx, user.Role.Name, req.CountryIDs, req.RegionIDs, req.SchoolIDs)
		if err != nil {
			return dto.UserView{}, err
		}
		if err := s.users.ReplaceScopes(ctx, &user, countries, regions, schools); err != nil {
			return dto.UserView{}, err
		}
	}

	refreshed, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return dto.UserView{}, err
	}
	return toUserView(refreshed), nil
}

func (s *userService) Delete(ctx context.Context, id uint, actor Actor, newPractitionerID uint) error {
	return s.cascade.DeleteUser(ctx, id, actor, newPractitionerID)
}

func toUserView(user models.User) dto.UserView {
	return dto.UserView{
		ID:            user.ID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Email:         user.Email,
		RoleID:        user.RoleID,
		Role:          string(user.Role.Name),
		CountryIDs:    user.CountryIDs(),
		RegionIDs:     user.RegionIDs(),
		SchoolIDs:     user.SchoolIDs(),
		FirstLoggedIn: user.FirstLoggedIn,
	}
}
