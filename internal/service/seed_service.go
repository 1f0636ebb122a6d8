package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedService bootstraps the fixed role hierarchy and the initial
// superadmin account on a fresh deployment.
type SeedService interface {
	SeedRoles(ctx context.Context, token string) (int64, error)
	SeedSuperAdmin(ctx context.Context, token, email, password string) (uint, error)
}

type seedService struct {
	roles   repository.RoleRepository
	users   repository.UserRepository
	enabled bool
	token   string
	logger  zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(roles repository.RoleRepository, users repository.UserRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		roles:   roles,
		users:   users,
		enabled: enabled,
		token:   token,
		logger:  logger.With().Str("component", "seed_service").Logger(),
	}
}

var seedRoles = []models.Role{
	{Name: models.RoleSuperAdmin, DisplayName: "Super Admin"},
	{Name: models.RoleGlobalAdmin, DisplayName: "Global Admin"},
	{Name: models.RoleAdmin, DisplayName: "Admin"},
	{Name: models.RoleManager, DisplayName: "Manager"},
	{Name: models.RoleProgramCoordinator, DisplayName: "Program Coordinator"},
	{Name: models.RolePractitioner, DisplayName: "Practitioner"},
}

func (s *seedService) SeedRoles(ctx context.Context, token string) (int64, error) {
	if !s.enabled {
		return 0, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return 0, ErrSeedUnauthorized
	}

	var created int64
	for _, role := range seedRoles {
		if _, err := s.roles.GetByName(ctx, role.Name); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}

		role := role
		if err := s.roles.Create(ctx, &role); err != nil {
			return created, err
		}
		created++
	}

	s.logger.Info().Int64("created", created).Msg("roles seeded")
	return created, nil
}

func (s *seedService) SeedSuperAdmin(ctx context.Context, token, email, password string) (uint, error) {
	if !s.enabled {
		return 0, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return 0, ErrSeedUnauthorized
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return 0, ErrInadequateData
	}

	exists, err := s.users.ExistsActiveEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrAlreadyExists
	}

	role, err := s.roles.GetByName(ctx, models.RoleSuperAdmin)
	if err != nil {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	user := models.User{
		FirstName:     "Super",
		LastName:      "Admin",
		Email:         email,
		PasswordHash:  string(hash),
		RoleID:        role.ID,
		FirstLoggedIn: true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return 0, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("superadmin seeded")
	return user.ID, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtleConstantTimeCompare(expected, strings.TrimSpace(token))
}

func subtleConstantTimeCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	mismatch := byte(0)
	for i := 0; i < len(a); i++ {
		mismatch |= a[i] ^ b[i]
	}
	return mismatch == 0
}
