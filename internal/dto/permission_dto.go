package dto

import "github.com/moveright/assessadmin-api/internal/models"

// SavePermissionRequest upserts the permission entries for one role and module.
type SavePermissionRequest struct {
	RoleID  uint                     `json:"role_id" validate:"required"`
	Module  string                   `json:"module" validate:"required"`
	Entries []models.PermissionEntry `json:"entries" validate:"required,dive"`
}
