package repository

import (
	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"gorm.io/gorm"
)

// commissionRuleRepository implements the CommissionRuleRepository interface
type commissionRuleRepository struct {
	db *gorm.DB
}

// NewCommissionRuleRepository creates a new commission rule repository instance
func NewCommissionRuleRepository(db *gorm.DB) CommissionRuleRepository {
	return &commissionRuleRepository{db: db}
}

// GetActiveByName retrieves the active rule for a name
func (r *commissionRuleRepository) GetActiveByName(name string) (*models.CommissionRule, error) {
	return models.FindActiveRule(r.db, name)
}

// List retrieves all rules, active and inactive
func (r *commissionRuleRepository) List() ([]models.CommissionRule, error) {
	var rules []models.CommissionRule
	err := r.db.Order("name ASC").Find(&rules).Error
	return rules, err
}
