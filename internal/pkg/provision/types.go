package provision

import (
	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
)

// Breakdown is the result of one commission calculation for a deal.
// Amounts are whole SEK; Rows contains one entry per assigned company,
// credited rows included for audit with their would-have-been amount.
type Breakdown struct {
	BaseBonus       int64               `json:"base_bonus"`
	TotalCommission int64               `json:"total_commission"`
	Rows            []models.Commission `json:"rows"`
}

// RejectionReason identifies an expected business-rule refusal. These
// are outcomes, not faults; callers map them to API responses.
type RejectionReason string

const (
	RejectionDealNotApproved    RejectionReason = "deal_not_approved"
	RejectionAlreadyReviewed    RejectionReason = "already_reviewed"
	RejectionCompanyNotAssigned RejectionReason = "company_not_assigned"
	RejectionShareNotFound      RejectionReason = "share_not_found"
	RejectionWindowExpired      RejectionReason = "credit_window_expired"
	RejectionAlreadyCredited    RejectionReason = "already_credited"
	RejectionDuplicateShare     RejectionReason = "duplicate_share"
	RejectionCompanyInactive    RejectionReason = "company_inactive"
)

// Rejection carries a typed business-rule refusal back to the caller.
type Rejection struct {
	Reason  RejectionReason `json:"reason"`
	Message string          `json:"message"`
}

func reject(reason RejectionReason, message string) *Rejection {
	return &Rejection{Reason: reason, Message: message}
}
