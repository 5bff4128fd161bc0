package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"github.com/ProffsKontakt/provision-tracker-sub000/app/repository"
)

// CreateCompanyRequest is the payload for registering a partner company.
type CreateCompanyRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
}

// HandleListCompanies returns the registered partner companies.
func HandleListCompanies(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	repo := repository.GetGlobalFactory().GetCompanyRepository()

	companies, err := repo.List(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load companies")
	}
	total, err := repo.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count companies")
	}

	return c.JSON(fiber.Map{
		"companies": companies,
		"offset":    offset,
		"limit":     limit,
		"total":     total,
	})
}

// HandleCreateCompany registers a partner company and issues its API key.
// The raw key appears only in this response; afterwards only its hash is
// stored.
func HandleCreateCompany(c *fiber.Ctx) error {
	var req CreateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	company := models.Company{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		Status:       models.CompanyStatusActive,
	}
	if err := company.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	rawKey, err := company.IssueAPIKey()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue API key")
	}

	repo := repository.GetGlobalFactory().GetCompanyRepository()
	if _, err := repo.GetByName(company.Name); err == nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "A company with this name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check company name")
	}

	if err := repo.Create(&company); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create company")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"company": company,
		"api_key": rawKey,
	})
}

// HandleRotateCompanyKey replaces a company's API key. The previous key
// stops working immediately; the new raw key appears only in this
// response.
func HandleRotateCompanyKey(c *fiber.Ctx) error {
	companyID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid company id")
	}

	repo := repository.GetGlobalFactory().GetCompanyRepository()
	company, err := repo.GetByID(uint(companyID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Company not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load company")
	}
	if company.Status != models.CompanyStatusActive {
		return jsonError(c, fiber.StatusConflict, "company_inactive", "Cannot issue a key for an inactive company")
	}

	rawKey, err := company.IssueAPIKey()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue API key")
	}
	if err := repo.Update(company); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save company")
	}

	return c.JSON(fiber.Map{
		"company": company,
		"api_key": rawKey,
	})
}

// HandleRevokeCompanyKey disables a company's API key without deleting
// the company.
func HandleRevokeCompanyKey(c *fiber.Ctx) error {
	companyID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid company id")
	}

	repo := repository.GetGlobalFactory().GetCompanyRepository()
	company, err := repo.GetByID(uint(companyID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Company not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load company")
	}

	company.RevokeAPIKey()
	if err := repo.Update(company); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save company")
	}

	return c.JSON(fiber.Map{"company": company})
}
