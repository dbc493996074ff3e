package models

import "gorm.io/gorm"

const (
	RoleSuperAdmin     = "super_admin"
	RoleAdmin          = "admin"
	RoleProjectManager = "project_manager"
	RoleAccountant     = "accountant"
)

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleProjectManager, RoleAccountant:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Name         string `json:"name"`
	Login        string `json:"login" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}
