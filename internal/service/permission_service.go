package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
)

// Decision is the outcome of a permission resolution. When AllowedRoles
// is non-empty the caller must additionally check the action's target
// role against it; today only the User module carries such a list.
type Decision struct {
	Allowed      bool
	AllowedRoles []uint
}

// PermissionService resolves the per-role, per-module permission matrix.
//
// Resolution is fail-open: a missing permission document, or an action
// not listed in an existing document, allows the action. Denials must
// be stated explicitly in the stored matrix.
type PermissionService interface {
	Resolve(ctx context.Context, roleID uint, module, action string) (Decision, error)
	AuthorizeTargetRole(decision Decision, targetRoleID uint) error
	ListForRole(ctx context.Context, roleID uint) ([]models.Permission, error)
	Save(ctx context.Context, actor Actor, roleID uint, module string, entries []models.PermissionEntry) (models.Permission, error)
}

type permissionService struct {
	permissions repository.PermissionRepository
	logger      zerolog.Logger
}

// NewPermissionService builds the permission resolver.
func NewPermissionService(permissions repository.PermissionRepository, logger zerolog.Logger) PermissionService {
	return &permissionService{
		permissions: permissions,
		logger:      logger.With().Str("component", "permission_service").Logger(),
	}
}

func (s *permissionService) Resolve(ctx context.Context, roleID uint, module, action string) (Decision, error) {
	permission, err := s.permissions.GetByRoleAndModule(ctx, roleID, module)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Decision{Allowed: true}, nil
		}
		return Decision{}, err
	}

	for _, entry := range permission.Entries {
		if entry.Name != action {
			continue
		}
		if !entry.Value {
			return Decision{Allowed: false}, nil
		}
		return Decision{Allowed: true, AllowedRoles: entry.Others}, nil
	}

	// Action not listed in the document.
	return Decision{Allowed: true}, nil
}

// AuthorizeTargetRole enforces the sub-permission role allow-list against
// the role the action targets. A decision without an allow-list passes.
func (s *permissionService) AuthorizeTargetRole(decision Decision, targetRoleID uint) error {
	if !decision.Allowed {
		return ErrUnauthorized
	}
	if len(decision.AllowedRoles) == 0 {
		return nil
	}
	for _, id := range decision.AllowedRoles {
		if id == targetRoleID {
			return nil
		}
	}
	return ErrUnauthorized
}

func (s *permissionService) ListForRole(ctx context.Context, roleID uint) ([]models.Permission, error) {
	return s.permissions.ListByRole(ctx, roleID)
}

func (s *permissionService) Save(ctx context.Context, actor Actor, roleID uint, module string, entries []models.PermissionEntry) (models.Permission, error) {
	permission := models.Permission{
		RoleID:  roleID,
		Module:  module,
		Entries: entries,
	}
	permission.CreatedBy = actor.ID
	permission.UpdatedBy = actor.ID
	permission.CreatedIP = actor.IP
	permission.UpdatedIP = actor.IP

	if err := s.permissions.Upsert(ctx, &permission); err != nil {
		return models.Permission{}, err
	}

	s.logger.Info().Uint("role_id", roleID).Str("module", module).Msg("permission matrix saved")
	return permission, nil
}
