package controllers

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/repository"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/database"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/provision"
)

// CreditRequest is a partner company's dispute of a shared lead.
type CreditRequest struct {
	DealID uint   `json:"deal_id" validate:"required"`
	Reason string `json:"reason" validate:"required,min=3,max=2000"`
}

// HandleRequestCredit records a credit-back for the authenticated
// partner company. The company identity comes from the API key, never
// from the payload, so a partner cannot credit on behalf of another.
func HandleRequestCredit(c *fiber.Ctx) error {
	company := getCompanyContext(c)
	if company == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid API key")
	}

	var req CreditRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}
	if err := validator.New().Struct(req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	svc := provision.NewServiceFromDB(database.GetDB())
	row, rejection, err := svc.RequestCreditBack(c.Context(), req.DealID, company.Name, req.Reason, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Deal not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to process credit request")
	}
	if rejection != nil {
		return c.Status(fiber.StatusConflict).JSON(rejection)
	}

	return c.JSON(row)
}

// HandleListCredited returns credited commission rows across all deals,
// newest first. Admin view for reconciliation with partner invoices.
func HandleListCredited(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	repo := repository.GetGlobalFactory().GetCommissionRepository()

	rows, err := repo.ListCredited(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load credited commissions")
	}
	return c.JSON(fiber.Map{"credited": rows, "offset": offset, "limit": limit})
}
