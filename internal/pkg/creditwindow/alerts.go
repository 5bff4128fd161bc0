package creditwindow

import (
	"sort"
	"time"
)

// ShareInfo is the flattened view of one lead share used for alert
// classification. Credited mirrors the commission row's credited_back
// flag for the (deal, company) pair.
type ShareInfo struct {
	ShareID     uint
	DealID      uint
	Opener      string
	CompanyID   uint
	CompanyName string
	SharedAt    time.Time
	ExpiresAt   time.Time
	Credited    bool
}

// CompanyAlert is one company entry inside a deal alert.
type CompanyAlert struct {
	CompanyID     uint      `json:"company_id"`
	CompanyName   string    `json:"company_name"`
	ExpiresAt     time.Time `json:"expires_at"`
	DaysRemaining int       `json:"days_remaining"`
	State         State     `json:"state"`
}

// Alert is one alert entry per deal, listing every company whose credit
// window needs attention. A deal shared with three companies produces a
// single alert, not three.
type Alert struct {
	DealID         uint           `json:"deal_id"`
	Opener         string         `json:"opener"`
	EarliestExpiry time.Time      `json:"earliest_expiry"`
	Companies      []CompanyAlert `json:"companies"`
}

// BuildAlerts classifies the given shares as of now and groups the ones
// needing attention by deal. A share qualifies when its window is
// expiring or expired, or still active with at most horizonDays
// remaining. Credited shares never alert. Entries are sorted soonest
// expiring first, both across alerts and within each alert's companies.
func BuildAlerts(shares []ShareInfo, now time.Time, horizonDays int) []Alert {
	if horizonDays <= 0 {
		horizonDays = DefaultAlertHorizonDays
	}

	byDeal := make(map[uint]*Alert)
	for _, s := range shares {
		status := ComputeStatus(s.ExpiresAt, s.Credited, now)
		if !alertWorthy(status, horizonDays) {
			continue
		}

		alert, ok := byDeal[s.DealID]
		if !ok {
			alert = &Alert{DealID: s.DealID, Opener: s.Opener, EarliestExpiry: s.ExpiresAt}
			byDeal[s.DealID] = alert
		}
		if s.ExpiresAt.Before(alert.EarliestExpiry) {
			alert.EarliestExpiry = s.ExpiresAt
		}
		alert.Companies = append(alert.Companies, CompanyAlert{
			CompanyID:     s.CompanyID,
			CompanyName:   s.CompanyName,
			ExpiresAt:     s.ExpiresAt,
			DaysRemaining: status.DaysRemaining,
			State:         status.State,
		})
	}

	alerts := make([]Alert, 0, len(byDeal))
	for _, a := range byDeal {
		sort.Slice(a.Companies, func(i, j int) bool {
			return a.Companies[i].ExpiresAt.Before(a.Companies[j].ExpiresAt)
		})
		alerts = append(alerts, *a)
	}
	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].EarliestExpiry.Equal(alerts[j].EarliestExpiry) {
			return alerts[i].DealID < alerts[j].DealID
		}
		return alerts[i].EarliestExpiry.Before(alerts[j].EarliestExpiry)
	})
	return alerts
}

func alertWorthy(status Status, horizonDays int) bool {
	switch status.State {
	case StateExpiring, StateExpired:
		return true
	case StateActive:
		return status.DaysRemaining <= horizonDays
	default:
		return false
	}
}
