package service

import "github.com/moveright/assessadmin-api/internal/models"

// Actor identifies the authenticated user performing an operation, as
// supplied by the HTTP layer. IP is stamped into the audit trail of
// every record the operation touches.
type Actor struct {
	ID     uint
	RoleID uint
	Role   models.RoleName
	IP     string
}
