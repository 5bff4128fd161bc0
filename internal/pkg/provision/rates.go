package provision

import (
	"fmt"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
)

// RateSet is a consistent snapshot of the three commission rules, loaded
// once per calculation so a rule change can never mix versions inside a
// single computation. Amounts are whole SEK.
type RateSet struct {
	BaseBonus      int64
	OffertRate     int64
	PlatsbesokRate int64
}

// FeeFor returns the per-company fee for a lead type.
func (r RateSet) FeeFor(leadType string) (int64, error) {
	switch leadType {
	case models.LeadTypeOffert:
		return r.OffertRate, nil
	case models.LeadTypePlatsbesok:
		return r.PlatsbesokRate, nil
	default:
		return 0, fmt.Errorf("unknown lead type %q", leadType)
	}
}
