package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/moveright/assessadmin-api/internal/models"
)

// PermissionRepository stores the per-role, per-module permission documents.
type PermissionRepository interface {
	GetByRoleAndModule(ctx context.Context, roleID uint, module string) (models.Permission, error)
	ListByRole(ctx context.Context, roleID uint) ([]models.Permission, error)
	Upsert(ctx context.Context, permission *models.Permission) error
}

type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository constructs a permission repository.
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) GetByRoleAndModule(ctx context.Context, roleID uint, module string) (models.Permission, error) {
	var permission models.Permission
	err := r.db.WithContext(ctx).
		Where("role_id = ? AND module = ?", roleID, module).
		First(&permission).Error
	if err != nil {
		return models.Permission{}, err
	}
	return permission, nil
}

func (r *permissionRepository) ListByRole(ctx context.Context, roleID uint) ([]models.Permission, error) {
	var permissions []models.Permission
	if err := r.db.WithContext(ctx).Where("role_id = ?", roleID).Order("module").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *permissionRepository) Upsert(ctx context.Context, permission *models.Permission) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}, {Name: "module"}},
		DoUpdates: clause.AssignmentColumns([]string{"entries", "updated_by", "updated_ip", "updated_at"}),
	}).Create(permission).Error
}
