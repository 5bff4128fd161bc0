package provision

import (
	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
)

// Calculate computes the commission owed on a deal as a pure function of
// its approval state, company assignments, the rate snapshot and the set
// of credited companies. It is deterministic and idempotent: the same
// inputs always yield the same breakdown, which is required because
// credit events recompute the whole deal rather than applying deltas.
//
// A non-approved deal yields a zero breakdown with no rows; that is a
// valid outcome, not an error. A company slot with a name but no lead
// type, or the same company in two slots, is a data-integrity error and
// aborts the calculation: rows are unique per (deal, company), so a
// duplicate can neither be counted twice nor stored.
//
// The base bonus is paid once when at least one company was assigned,
// regardless of how many and regardless of credits. Crediting every
// assigned company still leaves the base bonus in place: it compensates
// the booking itself, not the delivery.
func Calculate(deal *models.Deal, rates RateSet, credited map[string]bool) (Breakdown, error) {
	if deal.AdminApproval != models.ApprovalApproved {
		return Breakdown{}, nil
	}

	assignments, err := deal.Assignments()
	if err != nil {
		return Breakdown{}, err
	}
	if len(assignments) == 0 {
		return Breakdown{}, nil
	}

	breakdown := Breakdown{
		BaseBonus: rates.BaseBonus,
		Rows:      make([]models.Commission, 0, len(assignments)),
	}
	breakdown.TotalCommission = rates.BaseBonus

	for _, a := range assignments {
		fee, err := rates.FeeFor(a.LeadType)
		if err != nil {
			return Breakdown{}, err
		}

		row := models.Commission{
			DealID:         deal.ID,
			CompanyName:    a.Company,
			LeadType:       a.LeadType,
			LeadTypeAmount: fee,
			IsBaseIncluded: false,
		}
		// Credits against names not assigned to the deal are ignored by
		// construction: only assigned slots are iterated here.
		if credited[a.Company] {
			row.Status = models.CommissionStatusCredited
			row.CreditedBack = true
		} else {
			row.Status = models.CommissionStatusApproved
			breakdown.TotalCommission += fee
		}
		breakdown.Rows = append(breakdown.Rows, row)
	}

	return breakdown, nil
}
