package models

import (
	"time"

	"gorm.io/gorm"
)

// Commission row states.
const (
	CommissionStatusPending  = "pending"
	CommissionStatusApproved = "approved"
	CommissionStatusCredited = "credited"
	CommissionStatusRejected = "rejected"
)

// Commission is one payable (or credited) fee for a single company on an
// approved deal. LeadTypeAmount is copied from the active CommissionRule
// when the row is created; it is never re-read, so rule changes do not
// retroactively alter past commissions. CreditedBack is the single source
// of truth for which companies have been credited on a deal.
type Commission struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	DealID         uint       `gorm:"not null;index:ux_commissions_deal_company,unique,priority:1" json:"deal_id"`
	Deal           Deal       `gorm:"foreignKey:DealID" json:"-"`
	CompanyName    string     `gorm:"type:varchar(150);not null;index:ux_commissions_deal_company,unique,priority:2" json:"company_name"`
	LeadType       string     `gorm:"type:varchar(20);not null" json:"lead_type" validate:"oneof=offert platsbesok"`
	LeadTypeAmount int64      `gorm:"not null" json:"lead_type_amount"`
	IsBaseIncluded bool       `gorm:"default:false" json:"is_base_included"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status" validate:"oneof=pending approved credited rejected"`
	CreditedBack   bool       `gorm:"default:false;index" json:"credited_back"`
	CreditedAt     *time.Time `gorm:"type:timestamp;default:null" json:"credited_at,omitempty"`
	CreditReason   string     `gorm:"type:text" json:"credit_reason,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// CreditedCompanies derives the set of credited company names for a deal
// from its commission rows.
func CreditedCompanies(db *gorm.DB, dealID uint) (map[string]bool, error) {
	var names []string
	err := db.Model(&Commission{}).
		Where("deal_id = ? AND credited_back = ?", dealID, true).
		Pluck("company_name", &names).Error
	if err != nil {
		return nil, err
	}
	credited := make(map[string]bool, len(names))
	for _, n := range names {
		credited[n] = true
	}
	return credited, nil
}
