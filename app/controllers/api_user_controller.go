package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"github.com/ProffsKontakt/provision-tracker-sub000/app/repository"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/database"
)

// CreateUserRequest is the payload for registering an internal account.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleCreateUser registers an internal account. Admins created here
// can log in to the admin endpoints with their email and password.
func HandleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Role == "" {
		req.Role = models.ROLE_USER
	}
	if req.Role != models.ROLE_USER && req.Role != models.ROLE_ADMIN {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "role must be user or admin")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := repo.GetByEmail(req.Email); err == nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "A user with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check email")
	}

	user, err := models.CreateUser(database.GetDB(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleListUsers returns the internal accounts.
func HandleListUsers(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	repo := repository.GetGlobalFactory().GetUserRepository()

	users, err := repo.List(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load users")
	}
	total, err := repo.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count users")
	}

	return c.JSON(fiber.Map{
		"users":  users,
		"offset": offset,
		"limit":  limit,
		"total":  total,
	})
}
