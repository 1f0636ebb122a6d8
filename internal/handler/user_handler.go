package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// UserHandler exposes administrative account endpoints.
type UserHandler struct {
	users       service.UserService
	permissions service.PermissionService
	logger      zerolog.Logger
}

// NewUserHandler constructs a user handler.
func NewUserHandler(users service.UserService, permissions service.PermissionService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:       users,
		permissions: permissions,
		logger:      logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register wires user routes.
func (h *UserHandler) Register(router fiber.Router) {
	router.Post("/", h.register)
	router.Get("/", h.list)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *UserHandler) register(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	actor := actorFromContext(c)

	decision, err := h.permissions.Resolve(c.UserContext(), actor.RoleID, "User", "add")
	if err != nil {
		return sendServiceError(c, err)
	}
	if !decision.Allowed {
		return sendServiceError(c, service.ErrUnauthorized)
	}
	if err := h.permissions.AuthorizeTargetRole(decision, req.RoleID); err != nil {
		return sendServiceError(c, err)
	}

	view, err := h.users.Register(c.UserContext(), actor, req)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("user registration failed")
		return sendServiceError(c, err)
	}

	return utils.SendCreated(c, "user registered", view)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	actor, err := h.users.CurrentUser(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	roleFilter := parseUintList(c.Query("role_ids"))

	decision, err := h.permissions.Resolve(c.UserContext(), actor.RoleID, "User", "view")
	if err != nil {
		return sendServiceError(c, err)
	}
	if !decision.Allowed {
		return sendServiceError(c, service.ErrUnauthorized)
	}
	if len(decision.AllowedRoles) > 0 {
		if len(roleFilter) == 0 {
			roleFilter = decision.AllowedRoles
		} else {
			// The caller's filter may only narrow the allow-list.
			roleFilter = intersectRoleIDs(roleFilter, decision.AllowedRoles)
			if len(roleFilter) == 0 {
				return sendServiceError(c, service.ErrUnauthorized)
			}
		}
	}

	views, err := h.users.List(c.UserContext(), actor, roleFilter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list users")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "users retrieved", views)
}

func intersectRoleIDs(requested, allowed []uint) []uint {
	allowedSet := make(map[uint]struct{}, len(allowed))
	for _, id := range allowed {
		allowedSet[id] = struct{}{}
	}
	var kept []uint
	for _, id := range requested {
		if _, ok := allowedSet[id]; ok {
			kept = append(kept, id)
		}
	}
	return kept
}

func (h *UserHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	view, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "user retrieved", view)
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	view, err := h.users.Update(c.UserContext(), actorFromContext(c), id, req)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("user_id", id).Msg("user update failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "user updated", view)
}

func (h *UserHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	newPractitionerID := parseQueryUint(c, "new_practitioner_id")

	if err := h.users.Delete(c.UserContext(), id, actorFromContext(c), newPractitionerID); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("user_id", id).Msg("user deletion failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "user deleted", nil)
}
