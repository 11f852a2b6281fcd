package utils

import (
	"slices"

	"internship-bot/models"
)

// Permission levels for commands.
const (
	LevelDeveloper = "developer"
	LevelAdmin     = "admin"
	LevelGuest     = "guest"
)

// Auth provides methods for authorization checks.
type Auth struct {
	config models.AuthConfig
}

// NewAuth creates a new Auth instance from the commands configuration.
func NewAuth(config models.CommandsConfig) *Auth {
	return &Auth{config: config.Auth}
}

// IsDeveloper checks if a user is a developer.
func (a *Auth) IsDeveloper(userID string) bool {
	return slices.Contains(a.config.Developers, userID)
}

// IsAdmin checks if any of the member's roles is an admin role.
func (a *Auth) IsAdmin(roles []string) bool {
	for _, adminRoleID := range a.config.AdminsRoles {
		if slices.Contains(roles, adminRoleID) {
			return true
		}
	}
	return false
}

// CheckPermission checks if a user has the required permission level.
func (a *Auth) CheckPermission(userID string, roles []string, requiredLevel string) bool {
	switch requiredLevel {
	case LevelDeveloper:
		return a.IsDeveloper(userID)
	case LevelAdmin:
		return a.IsDeveloper(userID) || a.IsAdmin(roles)
	case LevelGuest:
		return true
	default:
		return false
	}
}
