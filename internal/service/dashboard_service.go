package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
)

// DashboardService aggregates entity counts within the caller's scope.
type DashboardService interface {
	GetCounts(ctx context.Context, actor models.User) (dto.DashboardCounts, error)
}

type dashboardService struct {
	schools  repository.SchoolRepository
	classes  repository.ClassRepository
	students repository.StudentRepository
	users    repository.UserRepository
	roles    repository.RoleRepository
	scope    ScopeService
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(
	schools repository.SchoolRepository,
	classes repository.ClassRepository,
	students repository.StudentRepository,
	users repository.UserRepository,
	roles repository.RoleRepository,
	scope ScopeService,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		schools:  schools,
		classes:  classes,
		students: students,
		users:    users,
		roles:    roles,
		scope:    scope,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) GetCounts(ctx context.Context, actor models.User) (dto.DashboardCounts, error) {
	cacheKey := fmt.Sprintf("dashboard:user:%d", actor.ID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var counts dto.DashboardCounts
			if unmarshalErr := json.Unmarshal([]byte(cached), &counts); unmarshalErr == nil {
				s.logger.Debug().Uint("user_id", actor.ID).Msg("dashboard cache hit")
				return counts, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	counts, err := s.buildCounts(ctx, actor)
	if err != nil {
		return dto.DashboardCounts{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(counts); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return counts, nil
}

func (s *dashboardService) buildCounts(ctx context.Context, actor models.User) (dto.DashboardCounts, error) {
	scope, err := s.scope.VisibleOrgScope(ctx, actor)
	if err != nil {
		return dto.DashboardCounts{}, err
	}

	filter := repository.SchoolFilter{}
	if !scope.Unrestricted {
		filter.IDs = scope.SchoolIDs
		filter.CountryIDs = scope.CountryIDs
		filter.RegionIDs = scope.RegionIDs
		filter.OwnerIDs = scope.OwnerIDs
	}
	schools, err := s.schools.List(ctx, filter)
	if err != nil {
		return dto.DashboardCounts{}, err
	}

	schoolIDs := make([]uint, 0, len(schools))
	for _, school := range schools {
		schoolIDs = append(schoolIDs, school.ID)
	}

	var classes []models.Class
	if scope.Unrestricted {
		classes, err = s.classes.List(ctx, repository.ClassFilter{})
	} else if len(schoolIDs) > 0 {
		classes, err = s.classes.ListBySchoolsOrPractitioners(ctx, schoolIDs, nil)
	}
	if err != nil {
		return dto.DashboardCounts{}, err
	}

	classIDs := make([]uint, 0, len(classes))
	for _, class := range classes {
		classIDs = append(classIDs, class.ID)
	}

	var students []models.Student
	if scope.Unrestricted {
		students, err = s.students.List(ctx, repository.StudentFilter{})
	} else if len(classIDs) > 0 {
		students, err = s.students.ListByClasses(ctx, classIDs)
	}
	if err != nil {
		return dto.DashboardCounts{}, err
	}

	practitioners, err := s.countPractitioners(ctx, actor, scope)
	if err != nil {
		return dto.DashboardCounts{}, err
	}

	return dto.DashboardCounts{
		Schools:       int64(len(schools)),
		Classes:       int64(len(classes)),
		Students:      int64(len(students)),
		Practitioners: practitioners,
	}, nil
}

func (s *dashboardService) countPractitioners(ctx context.Context, actor models.User, scope OrgScope) (int64, error) {
	role, err := s.roles.GetByName(ctx, models.RolePractitioner)
	if err != nil {
		return 0, err
	}

	filter := repository.UserFilter{RoleIDs: []uint{role.ID}}
	if !scope.Unrestricted {
		filter.OwnerIDs = scope.OwnerIDs
	}
	practitioners, err := s.users.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(practitioners)), nil
}
