package models

import (
	"time"
)

// Sharing methods for a lead share.
const (
	SharingMethodEmail  = "email"
	SharingMethodAPI    = "api"
	SharingMethodManual = "manual"
)

// CreditWindow is the calendar span a partner company has to credit a
// shared lead back.
const CreditWindow = 14 * 24 * time.Hour

// LeadShare records the disclosure of a deal's contact details to one
// partner company and starts the credit clock. CreditWindowExpires is
// computed once at creation and never recomputed. Rows are immutable
// afterwards except for Acknowledged.
type LeadShare struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	DealID              uint      `gorm:"not null;index:ux_lead_shares_deal_company,unique,priority:1" json:"deal_id"`
	Deal                Deal      `gorm:"foreignKey:DealID" json:"-"`
	CompanyID           uint      `gorm:"not null;index:ux_lead_shares_deal_company,unique,priority:2" json:"company_id"`
	Company             Company   `gorm:"foreignKey:CompanyID" json:"-"`
	SharedAt            time.Time `gorm:"not null" json:"shared_at"`
	CreditWindowExpires time.Time `gorm:"not null;index" json:"credit_window_expires"`
	SharingMethod       string    `gorm:"type:varchar(20);not null;default:'manual'" json:"sharing_method" validate:"oneof=email api manual"`
	Acknowledged        bool      `gorm:"default:false" json:"acknowledged"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewLeadShare builds a share for a deal/company pair with the expiry
// fixed at sharedAt plus the credit window.
func NewLeadShare(dealID, companyID uint, method string, sharedAt time.Time) *LeadShare {
	return &LeadShare{
		DealID:              dealID,
		CompanyID:           companyID,
		SharedAt:            sharedAt,
		CreditWindowExpires: sharedAt.Add(CreditWindow),
		SharingMethod:       method,
	}
}
