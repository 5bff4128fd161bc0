package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Admin review states for a deal. Values are canonical lowercase; any
// other casing or spelling is rejected at the boundary instead of being
// normalized, so inconsistent imports surface as validation errors.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Lead types a company slot can carry.
const (
	LeadTypeOffert     = "offert"
	LeadTypePlatsbesok = "platsbesok"
)

// MaxCompanySlots is the number of company assignment slots on a deal.
const MaxCompanySlots = 4

// Deal is one booked sales appointment imported from the call-center
// platform. The ID is externally sourced, never auto-incremented.
// BaseBonus and TotalCommission are cached results of the commission
// calculation and stay NULL while the deal is pending review.
type Deal struct {
	ID               uint       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Opener           string     `gorm:"type:varchar(150);not null;index" json:"opener" validate:"required,max=150"`
	OpenerEmail      string     `gorm:"type:varchar(200);default:null" json:"opener_email" validate:"omitempty,email"`
	Company1         *string    `gorm:"type:varchar(150)" json:"company_1"`
	Company1LeadType *string    `gorm:"type:varchar(20)" json:"company_1_lead_type"`
	Company2         *string    `gorm:"type:varchar(150)" json:"company_2"`
	Company2LeadType *string    `gorm:"type:varchar(20)" json:"company_2_lead_type"`
	Company3         *string    `gorm:"type:varchar(150)" json:"company_3"`
	Company3LeadType *string    `gorm:"type:varchar(20)" json:"company_3_lead_type"`
	Company4         *string    `gorm:"type:varchar(150)" json:"company_4"`
	Company4LeadType *string    `gorm:"type:varchar(20)" json:"company_4_lead_type"`
	AdminApproval    string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"admin_approval" validate:"oneof=pending approved rejected"`
	ReviewedBy       string     `gorm:"type:varchar(150);default:null" json:"reviewed_by"`
	ApprovedAt       *time.Time `gorm:"type:timestamp;default:null" json:"approved_at,omitempty"`
	BaseBonus        *int64     `json:"base_bonus,omitempty"`
	TotalCommission  *int64     `json:"total_commission,omitempty"`
	ImportedAt       time.Time  `gorm:"autoCreateTime" json:"imported_at"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// Assignment is one validated (company, lead type) pair from a deal slot.
type Assignment struct {
	Company  string
	LeadType string
}

// ErrSlotMissingLeadType marks a company slot that has a name but no lead
// type. This is a data-integrity error: the calculator never guesses a
// default lead type.
type ErrSlotMissingLeadType struct {
	DealID  uint
	Slot    int
	Company string
}

func (e ErrSlotMissingLeadType) Error() string {
	return fmt.Sprintf("deal %d: company slot %d (%s) has no lead type", e.DealID, e.Slot, e.Company)
}

// ErrDuplicateCompanySlot marks a deal carrying the same company name in
// more than one slot. Commission rows are unique per (deal, company), so
// such a deal can never be approved; this is a data-integrity error.
type ErrDuplicateCompanySlot struct {
	DealID  uint
	Slot    int
	Company string
}

func (e ErrDuplicateCompanySlot) Error() string {
	return fmt.Sprintf("deal %d: company %q appears in more than one slot (slot %d)", e.DealID, e.Company, e.Slot)
}

// ValidAdminApproval reports whether s is a canonical review state.
func ValidAdminApproval(s string) bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// ValidLeadType reports whether s is a canonical lead type.
func ValidLeadType(s string) bool {
	switch s {
	case LeadTypeOffert, LeadTypePlatsbesok:
		return true
	}
	return false
}

// Assignments extracts the non-empty company slots in slot order. A slot
// with a company name but no lead type, an unknown lead type, or a
// company name already used by an earlier slot yields an error rather
// than a silently defaulted or double-counted assignment.
func (d *Deal) Assignments() ([]Assignment, error) {
	slots := []struct {
		company  *string
		leadType *string
	}{
		{d.Company1, d.Company1LeadType},
		{d.Company2, d.Company2LeadType},
		{d.Company3, d.Company3LeadType},
		{d.Company4, d.Company4LeadType},
	}

	var out []Assignment
	seen := make(map[string]bool, MaxCompanySlots)
	for i, s := range slots {
		if s.company == nil || *s.company == "" {
			continue
		}
		if s.leadType == nil || *s.leadType == "" {
			return nil, ErrSlotMissingLeadType{DealID: d.ID, Slot: i + 1, Company: *s.company}
		}
		if !ValidLeadType(*s.leadType) {
			return nil, fmt.Errorf("deal %d: company slot %d (%s) has unknown lead type %q", d.ID, i+1, *s.company, *s.leadType)
		}
		if seen[*s.company] {
			return nil, ErrDuplicateCompanySlot{DealID: d.ID, Slot: i + 1, Company: *s.company}
		}
		seen[*s.company] = true
		out = append(out, Assignment{Company: *s.company, LeadType: *s.leadType})
	}
	return out, nil
}

// IsAssigned reports whether the named company occupies one of the
// deal's slots.
func (d *Deal) IsAssigned(company string) bool {
	for _, c := range []*string{d.Company1, d.Company2, d.Company3, d.Company4} {
		if c != nil && *c == company {
			return true
		}
	}
	return false
}

func (d *Deal) Validate() error {
	v := validator.New()

	return v.Struct(d)
}

// FindDealByID loads a deal by its external id.
func FindDealByID(db *gorm.DB, id uint) (*Deal, error) {
	var deal Deal
	if err := db.First(&deal, id).Error; err != nil {
		return nil, err
	}
	return &deal, nil
}
