package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
)

// RoleRepository provides access to the fixed role records.
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id uint) (models.Role, error)
	GetByName(ctx context.Context, name models.RoleName) (models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
	ListExcept(ctx context.Context, id uint) ([]models.Role, error)
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository constructs a role repository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepository) GetByID(ctx context.Context, id uint) (models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return models.Role{}, err
	}
	return role, nil
}

func (r *roleRepository) GetByName(ctx context.Context, name models.RoleName) (models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return models.Role{}, err
	}
	return role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.WithContext(ctx).Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) ListExcept(ctx context.Context, id uint) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.WithContext(ctx).Where("id <> ?", id).Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}
