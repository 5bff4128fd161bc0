package creditwindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func share(dealID, companyID uint, company string, expiresIn time.Duration, credited bool) ShareInfo {
	return ShareInfo{
		ShareID:     dealID*10 + companyID,
		DealID:      dealID,
		Opener:      "Moltas",
		CompanyID:   companyID,
		CompanyName: company,
		SharedAt:    now.Add(expiresIn - 14*24*time.Hour),
		ExpiresAt:   now.Add(expiresIn),
		Credited:    credited,
	}
}

func TestBuildAlertsGroupsByDeal(t *testing.T) {
	// Deal 100001 shared with three companies, two within the horizon:
	// one alert entry listing exactly those two.
	shares := []ShareInfo{
		share(100001, 1, "Solkraft AB", 2*24*time.Hour, false),
		share(100001, 2, "Energi Nord", 3*24*time.Hour, false),
		share(100001, 3, "Takmontage Syd", 10*24*time.Hour, false),
	}

	alerts := BuildAlerts(shares, now, DefaultAlertHorizonDays)
	require.Len(t, alerts, 1)
	assert.Equal(t, uint(100001), alerts[0].DealID)
	require.Len(t, alerts[0].Companies, 2)
	assert.Equal(t, "Solkraft AB", alerts[0].Companies[0].CompanyName)
	assert.Equal(t, "Energi Nord", alerts[0].Companies[1].CompanyName)
}

func TestBuildAlertsSortsSoonestFirst(t *testing.T) {
	shares := []ShareInfo{
		share(100002, 1, "Energi Nord", 2*24*time.Hour, false),
		share(100003, 2, "Solkraft AB", 6*time.Hour, false),
		share(100004, 3, "Takmontage Syd", -time.Hour, false),
	}

	alerts := BuildAlerts(shares, now, DefaultAlertHorizonDays)
	require.Len(t, alerts, 3)
	assert.Equal(t, uint(100004), alerts[0].DealID)
	assert.Equal(t, uint(100003), alerts[1].DealID)
	assert.Equal(t, uint(100002), alerts[2].DealID)
	assert.Equal(t, StateExpired, alerts[0].Companies[0].State)
	assert.Equal(t, StateExpiring, alerts[1].Companies[0].State)
}

func TestBuildAlertsSkipsCreditedAndDistant(t *testing.T) {
	shares := []ShareInfo{
		share(100005, 1, "Solkraft AB", time.Hour, true),
		share(100005, 2, "Energi Nord", 12*24*time.Hour, false),
	}

	alerts := BuildAlerts(shares, now, DefaultAlertHorizonDays)
	assert.Empty(t, alerts)
}

func TestBuildAlertsHorizonOverride(t *testing.T) {
	shares := []ShareInfo{
		share(100006, 1, "Solkraft AB", 5*24*time.Hour, false),
	}

	assert.Empty(t, BuildAlerts(shares, now, 3))
	assert.Len(t, BuildAlerts(shares, now, 7), 1)
	// Non-positive horizon falls back to the default.
	assert.Empty(t, BuildAlerts(shares, now, 0))
}
