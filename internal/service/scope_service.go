package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
)

// OrgScope is the filter a list query must apply for an actor. An
// unrestricted scope means no filtering at all. Otherwise the final
// filter is the union of the actor's assigned org units and the
// ownership chain (records created or updated by the actor or any
// managed user).
type OrgScope struct {
	Unrestricted bool
	CountryIDs   []uint
	RegionIDs    []uint
	SchoolIDs    []uint
	OwnerIDs     []uint
}

// ScopeService computes which users and organizational units an actor
// may see or act upon. Ownership of users is transitive through the
// created-by/updated-by audit trail; the role hierarchy has fixed depth
// so the descent is bounded rather than a general graph traversal.
type ScopeService interface {
	ManagedUserIDs(ctx context.Context, actor models.User) ([]uint, error)
	VisibleOrgScope(ctx context.Context, actor models.User) (OrgScope, error)
}

type scopeService struct {
	users  repository.UserRepository
	roles  repository.RoleRepository
	logger zerolog.Logger
}

// NewScopeService builds the scope resolver.
func NewScopeService(users repository.UserRepository, roles repository.RoleRepository, logger zerolog.Logger) ScopeService {
	return &scopeService{
		users:  users,
		roles:  roles,
		logger: logger.With().Str("component", "scope_service").Logger(),
	}
}

// ManagedUserIDs returns the ids of every user below the actor in the
// onboarding chain. A nil result for an unrestricted role means no
// filter should be applied. The actor itself is not included; list
// views exclude self by convention.
func (s *scopeService) ManagedUserIDs(ctx context.Context, actor models.User) ([]uint, error) {
	if actor.Role.Name.Unrestricted() {
		return nil, nil
	}

	actorRank := actor.Role.Name.Rank()
	leafRank := models.RolePractitioner.Rank()

	managed := make([]uint, 0)
	frontier := []uint{actor.ID}

	// One descent level per rank below the actor's.
	for level := actorRank; level < leafRank && len(frontier) > 0; level++ {
		found, err := s.users.ListByOwners(ctx, frontier)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, user := range found {
			rank := user.Role.Name.Rank()
			if rank <= actorRank || user.ID == actor.ID {
				continue
			}
			managed = append(managed, user.ID)
			if rank < leafRank {
				frontier = append(frontier, user.ID)
			}
		}
	}

	return dedupe(managed), nil
}

// VisibleOrgScope returns the org-unit filter for the actor's role:
// admins see their assigned countries, managers their regions,
// programcoordinators and practitioners their schools, each united with
// the ownership chain.
func (s *scopeService) VisibleOrgScope(ctx context.Context, actor models.User) (OrgScope, error) {
	if actor.Role.Name.Unrestricted() {
		return OrgScope{Unrestricted: true}, nil
	}

	managed, err := s.ManagedUserIDs(ctx, actor)
	if err != nil {
		return OrgScope{}, err
	}

	scope := OrgScope{OwnerIDs: append([]uint{actor.ID}, managed...)}
	switch actor.Role.Name {
	case models.RoleAdmin:
		scope.CountryIDs = actor.CountryIDs()
	case models.RoleManager:
		scope.RegionIDs = actor.RegionIDs()
	case models.RoleProgramCoordinator, models.RolePractitioner:
		scope.SchoolIDs = actor.SchoolIDs()
	}

	return scope, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
