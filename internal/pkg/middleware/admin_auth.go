package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"github.com/ProffsKontakt/provision-tracker-sub000/app/repository"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/env"
)

// NewAdminAuthorizer builds the credential check for the admin basicauth
// groups. Credentials resolve against the users table: active admins log
// in with their email and password. The ADMIN_USER/ADMIN_PASSWORD pair
// from the environment stays valid as the bootstrap login so the first
// admin user can be created through the API.
func NewAdminAuthorizer(users repository.UserRepository, fallbackUser, fallbackPass string) func(string, string) bool {
	return func(username, password string) bool {
		user, err := users.GetByEmail(username)
		if err == nil {
			if user.Role != models.ROLE_ADMIN || user.Status != models.STATUS_ACTIVE {
				return false
			}
			return models.CheckPasswordHash(password, user.Password)
		}

		if fallbackUser == "" || fallbackPass == "" {
			return false
		}
		userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(fallbackUser)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(fallbackPass)) == 1
		return userMatch && passMatch
	}
}

// AdminAuthMiddleware protects the admin endpoints with basic auth
// backed by the users table.
func AdminAuthMiddleware() fiber.Handler {
	return basicauth.New(basicauth.Config{
		Authorizer: NewAdminAuthorizer(
			repository.GetGlobalFactory().GetUserRepository(),
			env.GetEnv("ADMIN_USER", ""),
			env.GetEnv("ADMIN_PASSWORD", ""),
		),
	})
}
