package repository

import (
	"strings"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"gorm.io/gorm"
)

// companyRepository implements the CompanyRepository interface
type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository instance
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

// Create stores a new partner company
func (r *companyRepository) Create(company *models.Company) error {
	return r.db.Create(company).Error
}

// GetByID retrieves a company by id
func (r *companyRepository) GetByID(id uint) (*models.Company, error) {
	var company models.Company
	if err := r.db.First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// GetByName retrieves a company by its unique name
func (r *companyRepository) GetByName(name string) (*models.Company, error) {
	var company models.Company
	if err := r.db.Where("name = ?", name).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// GetByAPIKeyHash resolves an active API key hash to its company.
func (r *companyRepository) GetByAPIKeyHash(hash string) (*models.Company, error) {
	trimmed := strings.TrimSpace(hash)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var company models.Company
	err := r.db.Where("api_key_hash = ? AND api_key_hash <> '' AND api_key_revoked_at IS NULL", trimmed).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// Update saves changes to a company
func (r *companyRepository) Update(company *models.Company) error {
	return r.db.Save(company).Error
}

// List retrieves companies with pagination
func (r *companyRepository) List(offset, limit int) ([]models.Company, error) {
	var companies []models.Company
	err := r.db.Offset(offset).Limit(limit).Order("name ASC").Find(&companies).Error
	return companies, err
}

// Count returns the total number of companies
func (r *companyRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Company{}).Count(&count).Error
	return count, err
}
