package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"github.com/ProffsKontakt/provision-tracker-sub000/app/repository"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/creditwindow"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/database"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/provision"
)

// ShareDealRequest shares an approved deal with a batch of companies.
type ShareDealRequest struct {
	CompanyIDs    []uint `json:"company_ids" validate:"required,min=1,max=4"`
	SharingMethod string `json:"sharing_method" validate:"required,oneof=email api manual"`
}

// HandleShareDeal creates the lead shares for a deal and starts the
// 14-day credit window per company. All-or-nothing per request.
func HandleShareDeal(c *fiber.Ctx) error {
	dealID, err := parseDealID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid deal id")
	}

	var req ShareDealRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}
	if err := validator.New().Struct(req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	svc := provision.NewServiceFromDB(database.GetDB())
	shares, rejection, err := svc.ShareDeal(c.Context(), dealID, req.CompanyIDs, req.SharingMethod, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Deal or company not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to share deal")
	}
	if rejection != nil {
		return c.Status(fiber.StatusConflict).JSON(rejection)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"shares": shares})
}

// HandleListDealShares returns the shares of a deal including the
// computed credit-window status of each.
func HandleListDealShares(c *fiber.Ctx) error {
	dealID, err := parseDealID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid deal id")
	}

	repos := repository.GetGlobalRepositories()
	shares, err := repos.LeadShare.ListByDeal(dealID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load shares")
	}
	credited, err := repos.Commission.CreditedCompanies(dealID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load credited companies")
	}

	now := time.Now()
	entries := make([]fiber.Map, 0, len(shares))
	for _, share := range shares {
		company, err := repos.Company.GetByID(share.CompanyID)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load company")
		}
		status := creditwindow.ComputeStatus(share.CreditWindowExpires, credited[company.Name], now)
		entries = append(entries, fiber.Map{
			"share":   share,
			"company": company.Name,
			"status":  status,
		})
	}

	return c.JSON(fiber.Map{"deal_id": dealID, "shares": entries})
}

// HandleAcknowledgeShare lets the authenticated partner company confirm
// it received a shared lead.
func HandleAcknowledgeShare(c *fiber.Ctx) error {
	company := getCompanyContext(c)
	if company == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid API key")
	}

	shareID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid share id")
	}

	repo := repository.GetGlobalFactory().GetLeadShareRepository()
	share, err := repo.GetByID(uint(shareID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Share not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load share")
	}
	if share.CompanyID != company.ID {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Share belongs to another company")
	}

	if err := repo.Acknowledge(share.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to acknowledge share")
	}
	return c.JSON(fiber.Map{"acknowledged": true})
}

func getCompanyContext(c *fiber.Ctx) *models.Company {
	if v := c.Locals("PARTNER_COMPANY"); v != nil {
		if company, ok := v.(*models.Company); ok {
			return company
		}
	}
	return nil
}
