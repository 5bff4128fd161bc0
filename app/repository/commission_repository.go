package repository

import (
	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"gorm.io/gorm"
)

// commissionRepository implements the CommissionRepository interface
type commissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository creates a new commission repository instance
func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &commissionRepository{db: db}
}

// GetByDealAndCompany retrieves the single commission row for a
// (deal, company) pair
func (r *commissionRepository) GetByDealAndCompany(dealID uint, companyName string) (*models.Commission, error) {
	var row models.Commission
	err := r.db.Where("deal_id = ? AND company_name = ?", dealID, companyName).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByDeal retrieves all commission rows of a deal
func (r *commissionRepository) ListByDeal(dealID uint) ([]models.Commission, error) {
	var rows []models.Commission
	err := r.db.Where("deal_id = ?", dealID).Order("company_name ASC").Find(&rows).Error
	return rows, err
}

// ListByCompany retrieves the commission rows naming one company
func (r *commissionRepository) ListByCompany(companyName string, offset, limit int) ([]models.Commission, error) {
	var rows []models.Commission
	err := r.db.Where("company_name = ?", companyName).
		Offset(offset).Limit(limit).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// ListCredited retrieves credited rows across all deals, newest first
func (r *commissionRepository) ListCredited(offset, limit int) ([]models.Commission, error) {
	var rows []models.Commission
	err := r.db.Where("credited_back = ?", true).
		Offset(offset).Limit(limit).Order("credited_at DESC").Find(&rows).Error
	return rows, err
}

// CreditedCompanies derives the credited-company set of a deal from its
// commission rows
func (r *commissionRepository) CreditedCompanies(dealID uint) (map[string]bool, error) {
	return models.CreditedCompanies(r.db, dealID)
}
