package models

import "gorm.io/datatypes"

// PermissionEntry is a single (action, allow) pair inside a module's
// permission document. Others is a role-id allow-list restricting which
// roles the holder may act upon; today only the User module uses it.
type PermissionEntry struct {
	Name   string `json:"name"`
	Value  bool   `json:"value"`
	Others []uint `json:"others,omitempty"`
}

// Permission is the per-role, per-module permission document. A missing
// document or an unlisted action defaults to allow; see the permission
// service for the resolution rules.
type Permission struct {
	ID      uint                                  `gorm:"primaryKey" json:"id"`
	RoleID  uint                                  `gorm:"index:idx_permissions_role_module,unique;not null" json:"role_id"`
	Module  string                                `gorm:"index:idx_permissions_role_module,unique;size:64;not null" json:"module"`
	Entries datatypes.JSONSlice[PermissionEntry] `json:"entries"`
	Audit
}
