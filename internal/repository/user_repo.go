package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
)

// UserFilter narrows user list queries to the actor's authorized subtree.
type UserFilter struct {
	RoleIDs   []uint
	OwnerIDs  []uint
	ExcludeID uint
	Search    string
}

// UserRepository provides access to administrative user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetActiveByEmail(ctx context.Context, email string) (models.User, error)
	ExistsActiveEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, error)
	ListByOwners(ctx context.Context, ownerIDs []uint) ([]models.User, error)
	ListAssignedToOrgs(ctx context.Context, countryIDs, regionIDs, schoolIDs []uint) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, ids []uint, updates map[string]interface{}) error
	ReplaceScopes(ctx context.Context, user *models.User, countries []models.Country, regions []models.Region, schools []models.School) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Countries").
		Preload("Regions").
		Preload("Schools").
		First(&user, id).Error
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) GetActiveByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("LOWER(email) = ? AND is_deleted = ?", strings.ToLower(email), false).
		First(&user).Error
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) ExistsActiveEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(email) = ? AND is_deleted = ?", strings.ToLower(email), false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).
		Preload("Role").
		Where("is_deleted = ?", false)

	if len(filter.RoleIDs) > 0 {
		query = query.Where("role_id IN ?", filter.RoleIDs)
	}
	if len(filter.OwnerIDs) > 0 {
		query = query.Where("created_by IN ? OR updated_by IN ?", filter.OwnerIDs, filter.OwnerIDs)
	}
	if filter.ExcludeID != 0 {
		query = query.Where("id <> ?", filter.ExcludeID)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListByOwners(ctx context.Context, ownerIDs []uint) ([]models.User, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("is_deleted = ?", false).
		Where("created_by IN ? OR updated_by IN ?", ownerIDs, ownerIDs).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListAssignedToOrgs(ctx context.Context, countryIDs, regionIDs, schoolIDs []uint) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Distinct("users.*").
		Joins("LEFT JOIN user_countries uc ON uc.user_id = users.id").
		Joins("LEFT JOIN user_regions ur ON ur.user_id = users.id").
		Joins("LEFT JOIN user_schools us ON us.user_id = users.id")

	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if len(countryIDs) > 0 {
		conditions = append(conditions, "uc.country_id IN ?")
		args = append(args, countryIDs)
	}
	if len(regionIDs) > 0 {
		conditions = append(conditions, "ur.region_id IN ?")
		args = append(args, regionIDs)
	}
	if len(schoolIDs) > 0 {
		conditions = append(conditions, "us.school_id IN ?")
		args = append(args, schoolIDs)
	}
	if len(conditions) == 0 {
		return nil, nil
	}

	var users []models.User
	err := query.Where(strings.Join(conditions, " OR "), args...).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdateFields(ctx context.Context, ids []uint, updates map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id IN ?", ids).Updates(updates).Error
}

func (r *userRepository) ReplaceScopes(ctx context.Context, user *models.User, countries []models.Country, regions []models.Region, schools []models.School) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(user).Association("Countries").Replace(countries); err != nil {
		return err
	}
	if err := db.Model(user).Association("Regions").Replace(regions); err != nil {
		return err
	}
	return db.Model(user).Association("Schools").Replace(schools)
}
