package repository

import (
	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"gorm.io/gorm"
)

// dealRepository implements the DealRepository interface
type dealRepository struct {
	db *gorm.DB
}

// NewDealRepository creates a new deal repository instance
func NewDealRepository(db *gorm.DB) DealRepository {
	return &dealRepository{db: db}
}

// Create stores an imported deal. The ID comes from the call-center
// platform and must be set by the caller.
func (r *dealRepository) Create(deal *models.Deal) error {
	return r.db.Create(deal).Error
}

// GetByID retrieves a deal by its external id
func (r *dealRepository) GetByID(id uint) (*models.Deal, error) {
	return models.FindDealByID(r.db, id)
}

// Update saves changes to a deal
func (r *dealRepository) Update(deal *models.Deal) error {
	return r.db.Save(deal).Error
}

// List retrieves deals with pagination, newest imports first
func (r *dealRepository) List(offset, limit int) ([]models.Deal, error) {
	var deals []models.Deal
	err := r.db.Offset(offset).Limit(limit).Order("imported_at DESC").Find(&deals).Error
	return deals, err
}

// ListByApproval retrieves deals in one review state with pagination
func (r *dealRepository) ListByApproval(approval string, offset, limit int) ([]models.Deal, error) {
	var deals []models.Deal
	err := r.db.Where("admin_approval = ?", approval).
		Offset(offset).Limit(limit).Order("imported_at DESC").Find(&deals).Error
	return deals, err
}

// ListByOpener retrieves one salesperson's deals with pagination
func (r *dealRepository) ListByOpener(opener string, offset, limit int) ([]models.Deal, error) {
	var deals []models.Deal
	err := r.db.Where("opener = ?", opener).
		Offset(offset).Limit(limit).Order("imported_at DESC").Find(&deals).Error
	return deals, err
}

// Count returns the total number of deals
func (r *dealRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Deal{}).Count(&count).Error
	return count, err
}

// CountByApproval returns the number of deals in one review state
func (r *dealRepository) CountByApproval(approval string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Deal{}).Where("admin_approval = ?", approval).Count(&count).Error
	return count, err
}
