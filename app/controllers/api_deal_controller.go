package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"github.com/ProffsKontakt/provision-tracker-sub000/app/repository"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/database"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/provision"
)

// CompanySlotRequest is one (company, lead type) assignment on import.
type CompanySlotRequest struct {
	Name     string `json:"name" validate:"required,max=150"`
	LeadType string `json:"lead_type" validate:"required"`
}

// CreateDealRequest is the payload for importing a booked deal. The id
// comes from the call-center platform. Lead types must arrive already
// validated; nothing is inferred from free text here.
type CreateDealRequest struct {
	ID          uint                 `json:"id" validate:"required"`
	Opener      string               `json:"opener" validate:"required,max=150"`
	OpenerEmail string               `json:"opener_email" validate:"omitempty,email"`
	Companies   []CompanySlotRequest `json:"companies" validate:"max=4,dive"`
}

// ReviewDealRequest carries the admin decision for a pending deal.
type ReviewDealRequest struct {
	Decision string `json:"decision" validate:"required"`
	Reviewer string `json:"reviewer" validate:"required,max=150"`
}

// HandleCreateDeal imports a deal from the call-center platform.
func HandleCreateDeal(c *fiber.Ctx) error {
	var req CreateDealRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}
	if err := validator.New().Struct(req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}
	seen := make(map[string]bool, len(req.Companies))
	for _, slot := range req.Companies {
		if !models.ValidLeadType(slot.LeadType) {
			return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed",
				fmt.Sprintf("unknown lead type %q for company %q", slot.LeadType, slot.Name))
		}
		if seen[slot.Name] {
			return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed",
				fmt.Sprintf("company %q appears in more than one slot", slot.Name))
		}
		seen[slot.Name] = true
	}

	deal := &models.Deal{
		ID:            req.ID,
		Opener:        req.Opener,
		OpenerEmail:   req.OpenerEmail,
		AdminApproval: models.ApprovalPending,
	}
	for i, slot := range req.Companies {
		name, leadType := slot.Name, slot.LeadType
		switch i {
		case 0:
			deal.Company1, deal.Company1LeadType = &name, &leadType
		case 1:
			deal.Company2, deal.Company2LeadType = &name, &leadType
		case 2:
			deal.Company3, deal.Company3LeadType = &name, &leadType
		case 3:
			deal.Company4, deal.Company4LeadType = &name, &leadType
		}
	}

	repo := repository.GetGlobalFactory().GetDealRepository()
	if _, err := repo.GetByID(deal.ID); err == nil {
		return jsonError(c, fiber.StatusConflict, "conflict", fmt.Sprintf("Deal %d already exists", deal.ID))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check deal")
	}
	if err := repo.Create(deal); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store deal")
	}

	return c.Status(fiber.StatusCreated).JSON(deal)
}

// HandleGetDeal returns a deal with its commission breakdown and the
// derived credited-company set.
func HandleGetDeal(c *fiber.Ctx) error {
	dealID, err := parseDealID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid deal id")
	}

	repos := repository.GetGlobalRepositories()
	deal, err := repos.Deal.GetByID(dealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Deal not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load deal")
	}

	rows, err := repos.Commission.ListByDeal(dealID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load commissions")
	}
	credited, err := repos.Commission.CreditedCompanies(dealID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load credited companies")
	}
	creditedNames := make([]string, 0, len(credited))
	for name := range credited {
		creditedNames = append(creditedNames, name)
	}

	return c.JSON(fiber.Map{
		"deal":               deal,
		"commissions":        rows,
		"credited_companies": creditedNames,
	})
}

// HandleListDeals returns deals, optionally filtered by review state or
// opener.
func HandleListDeals(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	repo := repository.GetGlobalFactory().GetDealRepository()

	var deals []models.Deal
	var err error
	if approval := c.Query("approval"); approval != "" {
		if !models.ValidAdminApproval(approval) {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", fmt.Sprintf("Unknown approval state %q", approval))
		}
		deals, err = repo.ListByApproval(approval, offset, limit)
	} else if opener := c.Query("opener"); opener != "" {
		deals, err = repo.ListByOpener(opener, offset, limit)
	} else {
		deals, err = repo.List(offset, limit)
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load deals")
	}

	return c.JSON(fiber.Map{"deals": deals, "offset": offset, "limit": limit})
}

// HandleReviewDeal records the admin approve/reject decision. Approval
// creates the commission rows and stamps the cached totals.
func HandleReviewDeal(c *fiber.Ctx) error {
	dealID, err := parseDealID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid deal id")
	}

	var req ReviewDealRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}
	if err := validator.New().Struct(req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}
	if req.Decision != models.ApprovalApproved && req.Decision != models.ApprovalRejected {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed",
			fmt.Sprintf("decision must be %q or %q", models.ApprovalApproved, models.ApprovalRejected))
	}

	svc := provision.NewServiceFromDB(database.GetDB())
	deal, rejection, err := svc.ReviewDeal(c.Context(), dealID, req.Reviewer, req.Decision, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Deal not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to review deal")
	}
	if rejection != nil {
		return c.Status(fiber.StatusConflict).JSON(rejection)
	}

	return c.JSON(deal)
}

// HandleGetDealCommission recomputes and returns the breakdown for a
// deal without touching stored state.
func HandleGetDealCommission(c *fiber.Ctx) error {
	dealID, err := parseDealID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid deal id")
	}

	svc := provision.NewServiceFromDB(database.GetDB())
	breakdown, err := svc.CalculateCommission(c.Context(), dealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Deal not found")
		}
		var slotErr models.ErrSlotMissingLeadType
		if errors.As(err, &slotErr) {
			return jsonError(c, fiber.StatusUnprocessableEntity, "data_integrity", slotErr.Error())
		}
		var dupErr models.ErrDuplicateCompanySlot
		if errors.As(err, &dupErr) {
			return jsonError(c, fiber.StatusUnprocessableEntity, "data_integrity", dupErr.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to calculate commission")
	}

	return c.JSON(breakdown)
}
