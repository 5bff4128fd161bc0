package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/creditwindow"
)

// Service owns the commission lifecycle of a deal: the review decision,
// commission row creation, lead sharing and the credit-back flow. All
// reads are side-effect free; the two mutating operations (ReviewDeal,
// RequestCreditBack) run as single transactions.
type Service struct {
	repo Repository
}

// NewService creates a provision service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a provision service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// CalculateCommission recomputes the breakdown for a deal from its
// current state. It never writes; cached deal fields are updated only by
// the mutating operations.
func (s *Service) CalculateCommission(ctx context.Context, dealID uint) (Breakdown, error) {
	_ = ctx
	deal, err := s.repo.GetDeal(dealID)
	if err != nil {
		return Breakdown{}, err
	}
	if deal.AdminApproval != models.ApprovalApproved {
		return Breakdown{}, nil
	}

	rates, err := s.repo.GetRates()
	if err != nil {
		return Breakdown{}, err
	}
	credited, err := s.repo.CreditedCompanies(dealID)
	if err != nil {
		return Breakdown{}, err
	}
	return Calculate(deal, rates, credited)
}

// ReviewDeal records the admin decision on a pending deal. The decision
// is set exactly once; re-reviewing is a rejection, not an error. On
// approval the commission rows are created and the deal's cached totals
// are stamped in the same transaction.
func (s *Service) ReviewDeal(ctx context.Context, dealID uint, reviewer, decision string, now time.Time) (*models.Deal, *Rejection, error) {
	_ = ctx
	if decision != models.ApprovalApproved && decision != models.ApprovalRejected {
		return nil, nil, fmt.Errorf("invalid review decision %q", decision)
	}

	var reviewed *models.Deal
	var rejection *Rejection
	err := s.repo.Transact(func(tx Repository) error {
		deal, err := tx.GetDealForUpdate(dealID)
		if err != nil {
			return err
		}
		if deal.AdminApproval != models.ApprovalPending {
			rejection = reject(RejectionAlreadyReviewed, fmt.Sprintf("deal %d was already reviewed as %s", dealID, deal.AdminApproval))
			return nil
		}

		deal.AdminApproval = decision
		deal.ReviewedBy = reviewer
		if decision == models.ApprovalApproved {
			deal.ApprovedAt = &now

			rates, err := tx.GetRates()
			if err != nil {
				return err
			}
			breakdown, err := Calculate(deal, rates, nil)
			if err != nil {
				return err
			}
			if err := tx.CreateCommissions(breakdown.Rows); err != nil {
				return err
			}
			deal.BaseBonus = &breakdown.BaseBonus
			deal.TotalCommission = &breakdown.TotalCommission
		}

		if err := tx.SaveDeal(deal); err != nil {
			return err
		}
		reviewed = deal
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return reviewed, rejection, nil
}

// RequestCreditBack records a partner company's credit of a shared lead.
// The whole operation is one transaction locked on the deal row: the
// window check, the commission flip and the recomputation of the deal's
// cached totals commit together or not at all. Expired windows refuse
// the credit; the calculator therefore never sees a post-expiry credit.
func (s *Service) RequestCreditBack(ctx context.Context, dealID uint, companyName, reason string, now time.Time) (*models.Commission, *Rejection, error) {
	_ = ctx
	var credited *models.Commission
	var rejection *Rejection
	err := s.repo.Transact(func(tx Repository) error {
		deal, err := tx.GetDealForUpdate(dealID)
		if err != nil {
			return err
		}
		if deal.AdminApproval != models.ApprovalApproved {
			rejection = reject(RejectionDealNotApproved, fmt.Sprintf("deal %d is %s, not approved", dealID, deal.AdminApproval))
			return nil
		}
		if !deal.IsAssigned(companyName) {
			rejection = reject(RejectionCompanyNotAssigned, fmt.Sprintf("company %q is not assigned on deal %d", companyName, dealID))
			return nil
		}

		company, err := tx.GetCompanyByName(companyName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				rejection = reject(RejectionShareNotFound, fmt.Sprintf("no lead share exists for company %q on deal %d", companyName, dealID))
				return nil
			}
			return err
		}
		if company.Status != models.CompanyStatusActive {
			rejection = reject(RejectionCompanyInactive, fmt.Sprintf("company %q is inactive", companyName))
			return nil
		}

		share, err := tx.GetLeadShare(dealID, company.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				rejection = reject(RejectionShareNotFound, fmt.Sprintf("no lead share exists for company %q on deal %d", companyName, dealID))
				return nil
			}
			return err
		}

		row, err := tx.GetCommission(dealID, companyName)
		if err != nil {
			return err
		}
		if row.CreditedBack {
			rejection = reject(RejectionAlreadyCredited, fmt.Sprintf("company %q already credited deal %d", companyName, dealID))
			return nil
		}

		status := creditwindow.ComputeStatus(share.CreditWindowExpires, row.CreditedBack, now)
		if !creditwindow.CanCredit(status.State) {
			rejection = reject(RejectionWindowExpired, fmt.Sprintf("credit window for deal %d closed at %s", dealID, share.CreditWindowExpires.Format(time.RFC3339)))
			return nil
		}

		row.CreditedBack = true
		row.CreditedAt = &now
		row.CreditReason = reason
		row.Status = models.CommissionStatusCredited
		if err := tx.SaveCommission(row); err != nil {
			return err
		}

		rates, err := tx.GetRates()
		if err != nil {
			return err
		}
		creditedSet, err := tx.CreditedCompanies(dealID)
		if err != nil {
			return err
		}
		breakdown, err := Calculate(deal, rates, creditedSet)
		if err != nil {
			return err
		}
		deal.BaseBonus = &breakdown.BaseBonus
		deal.TotalCommission = &breakdown.TotalCommission
		if err := tx.SaveDeal(deal); err != nil {
			return err
		}

		credited = row
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return credited, rejection, nil
}

// ShareDeal discloses an approved deal to the given partner companies,
// creating one lead share per company with the credit window fixed at
// now plus fourteen days. The batch is all-or-nothing: one ineligible or
// already-shared company rejects the whole request.
func (s *Service) ShareDeal(ctx context.Context, dealID uint, companyIDs []uint, method string, now time.Time) ([]models.LeadShare, *Rejection, error) {
	_ = ctx
	switch method {
	case models.SharingMethodEmail, models.SharingMethodAPI, models.SharingMethodManual:
	default:
		return nil, nil, fmt.Errorf("invalid sharing method %q", method)
	}
	if len(companyIDs) == 0 {
		return nil, nil, errors.New("at least one company is required")
	}

	var shares []models.LeadShare
	var rejection *Rejection
	err := s.repo.Transact(func(tx Repository) error {
		deal, err := tx.GetDeal(dealID)
		if err != nil {
			return err
		}
		if deal.AdminApproval != models.ApprovalApproved {
			rejection = reject(RejectionDealNotApproved, fmt.Sprintf("deal %d is %s, not approved", dealID, deal.AdminApproval))
			return nil
		}

		created := make([]models.LeadShare, 0, len(companyIDs))
		for _, companyID := range companyIDs {
			company, err := tx.GetCompany(companyID)
			if err != nil {
				return err
			}
			if !deal.IsAssigned(company.Name) {
				rejection = reject(RejectionCompanyNotAssigned, fmt.Sprintf("company %q is not assigned on deal %d", company.Name, dealID))
				return nil
			}
			if _, err := tx.GetLeadShare(dealID, companyID); err == nil {
				rejection = reject(RejectionDuplicateShare, fmt.Sprintf("deal %d was already shared with company %q", dealID, company.Name))
				return nil
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			share := models.NewLeadShare(dealID, companyID, method, now)
			if err := tx.CreateLeadShare(share); err != nil {
				return err
			}
			created = append(created, *share)
		}
		shares = created
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if rejection != nil {
		return nil, rejection, nil
	}
	return shares, nil, nil
}

// ShareStatus computes the credit-window status of one share as of now.
func (s *Service) ShareStatus(ctx context.Context, dealID, companyID uint, now time.Time) (creditwindow.Status, error) {
	_ = ctx
	share, err := s.repo.GetLeadShare(dealID, companyID)
	if err != nil {
		return creditwindow.Status{}, err
	}
	company, err := s.repo.GetCompany(companyID)
	if err != nil {
		return creditwindow.Status{}, err
	}
	creditedSet, err := s.repo.CreditedCompanies(dealID)
	if err != nil {
		return creditwindow.Status{}, err
	}
	return creditwindow.ComputeStatus(share.CreditWindowExpires, creditedSet[company.Name], now), nil
}

// ListExpiringAlerts returns the per-deal credit-window alerts as of
// now, grouped and sorted soonest-expiring first.
func (s *Service) ListExpiringAlerts(ctx context.Context, now time.Time, horizonDays int) ([]creditwindow.Alert, error) {
	_ = ctx
	infos, err := s.repo.ListShareInfos()
	if err != nil {
		return nil, err
	}
	return creditwindow.BuildAlerts(infos, now, horizonDays), nil
}
