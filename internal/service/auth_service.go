package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/repository"
)

// AuthService authenticates administrative accounts and issues tokens.
// Accounts are created without a password; the first login flow sets one
// and flips FirstLoggedIn.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	SetPassword(ctx context.Context, userID uint, req dto.SetPasswordRequest) error
}

type authService struct {
	users     repository.UserRepository
	secret    string
	tokenTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService builds the auth service.
func NewAuthService(users repository.UserRepository, secret string, tokenTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		users:     users,
		secret:    secret,
		tokenTTL:  tokenTTL,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if user.PasswordHash == "" {
		// account exists but the password was never set
		return dto.LoginResponse{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID, user.RoleID, string(user.Role.Name))
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user logged in")
	return dto.LoginResponse{
		Token:         token,
		User:          toUserView(user),
		FirstLoggedIn: user.FirstLoggedIn,
	}, nil
}

func (s *authService) issueToken(userID, roleID uint, role string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":     strconv.FormatUint(uint64(userID), 10),
		"role_id": roleID,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *authService) SetPassword(ctx context.Context, userID uint, req dto.SetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if user.IsDeleted {
		return ErrNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.users.UpdateFields(ctx, []uint{user.ID}, map[string]interface{}{
		"password_hash":   string(hash),
		"first_logged_in": true,
		"updated_by":      user.ID,
	})
}
