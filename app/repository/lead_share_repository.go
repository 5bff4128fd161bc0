package repository

import (
	"time"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"gorm.io/gorm"
)

// leadShareRepository implements the LeadShareRepository interface
type leadShareRepository struct {
	db *gorm.DB
}

// NewLeadShareRepository creates a new lead share repository instance
func NewLeadShareRepository(db *gorm.DB) LeadShareRepository {
	return &leadShareRepository{db: db}
}

// GetByID retrieves a lead share by id
func (r *leadShareRepository) GetByID(id uint) (*models.LeadShare, error) {
	var share models.LeadShare
	if err := r.db.First(&share, id).Error; err != nil {
		return nil, err
	}
	return &share, nil
}

// GetByDealAndCompany retrieves the single share for a (deal, company) pair
func (r *leadShareRepository) GetByDealAndCompany(dealID, companyID uint) (*models.LeadShare, error) {
	var share models.LeadShare
	err := r.db.Where("deal_id = ? AND company_id = ?", dealID, companyID).First(&share).Error
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// ListByDeal retrieves all shares of a deal
func (r *leadShareRepository) ListByDeal(dealID uint) ([]models.LeadShare, error) {
	var shares []models.LeadShare
	err := r.db.Where("deal_id = ?", dealID).Order("shared_at ASC").Find(&shares).Error
	return shares, err
}

// ListByCompany retrieves the shares disclosed to one company
func (r *leadShareRepository) ListByCompany(companyID uint, offset, limit int) ([]models.LeadShare, error) {
	var shares []models.LeadShare
	err := r.db.Where("company_id = ?", companyID).
		Offset(offset).Limit(limit).Order("shared_at DESC").Find(&shares).Error
	return shares, err
}

// ListExpiringBefore retrieves shares whose window closes before cutoff,
// soonest first
func (r *leadShareRepository) ListExpiringBefore(cutoff time.Time) ([]models.LeadShare, error) {
	var shares []models.LeadShare
	err := r.db.Where("credit_window_expires < ?", cutoff).
		Order("credit_window_expires ASC").Find(&shares).Error
	return shares, err
}

// Acknowledge marks a share as acknowledged by the partner. The only
// mutable field on an otherwise immutable row.
func (r *leadShareRepository) Acknowledge(id uint) error {
	return r.db.Model(&models.LeadShare{}).Where("id = ?", id).
		Update("acknowledged", true).Error
}
