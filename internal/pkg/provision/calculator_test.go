package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
)

func strp(s string) *string { return &s }

func testRates() RateSet {
	return RateSet{BaseBonus: 100, OffertRate: 100, PlatsbesokRate: 300}
}

func approvedDeal(id uint, slots ...[2]string) *models.Deal {
	deal := &models.Deal{ID: id, Opener: "Moltas", AdminApproval: models.ApprovalApproved}
	for i, slot := range slots {
		company, leadType := strp(slot[0]), strp(slot[1])
		switch i {
		case 0:
			deal.Company1, deal.Company1LeadType = company, leadType
		case 1:
			deal.Company2, deal.Company2LeadType = company, leadType
		case 2:
			deal.Company3, deal.Company3LeadType = company, leadType
		case 3:
			deal.Company4, deal.Company4LeadType = company, leadType
		}
	}
	return deal
}

func TestCalculateFees(t *testing.T) {
	deal := approvedDeal(1,
		[2]string{"Solkraft AB", models.LeadTypeOffert},
		[2]string{"Energi Nord", models.LeadTypePlatsbesok},
	)

	breakdown, err := Calculate(deal, testRates(), nil)
	require.NoError(t, err)

	assert.Equal(t, int64(100), breakdown.BaseBonus)
	assert.Equal(t, int64(500), breakdown.TotalCommission)
	require.Len(t, breakdown.Rows, 2)
	assert.Equal(t, models.CommissionStatusApproved, breakdown.Rows[0].Status)
	assert.Equal(t, int64(100), breakdown.Rows[0].LeadTypeAmount)
	assert.Equal(t, int64(300), breakdown.Rows[1].LeadTypeAmount)
	for _, row := range breakdown.Rows {
		assert.False(t, row.IsBaseIncluded)
		assert.False(t, row.CreditedBack)
	}
}

func TestCalculateDuplicateCompanyRejected(t *testing.T) {
	deal := approvedDeal(9,
		[2]string{"Solkraft AB", models.LeadTypeOffert},
		[2]string{"Solkraft AB", models.LeadTypePlatsbesok},
	)

	_, err := Calculate(deal, testRates(), nil)
	require.Error(t, err)

	var dupErr models.ErrDuplicateCompanySlot
	assert.ErrorAs(t, err, &dupErr)
}

func TestCalculateCreditExclusion(t *testing.T) {
	deal := approvedDeal(2,
		[2]string{"Solkraft AB", models.LeadTypeOffert},
		[2]string{"Energi Nord", models.LeadTypePlatsbesok},
	)

	breakdown, err := Calculate(deal, testRates(), map[string]bool{"Energi Nord": true})
	require.NoError(t, err)

	// Credited fee excluded from the total, base bonus retained, but the
	// credited row is still produced for audit with its full amount.
	assert.Equal(t, int64(100), breakdown.BaseBonus)
	assert.Equal(t, int64(200), breakdown.TotalCommission)
	require.Len(t, breakdown.Rows, 2)
	creditedRow := breakdown.Rows[1]
	assert.Equal(t, "Energi Nord", creditedRow.CompanyName)
	assert.True(t, creditedRow.CreditedBack)
	assert.Equal(t, models.CommissionStatusCredited, creditedRow.Status)
	assert.Equal(t, int64(300), creditedRow.LeadTypeAmount)
}

func TestCalculateAllCreditedRetainsBase(t *testing.T) {
	deal := approvedDeal(3, [2]string{"Solkraft AB", models.LeadTypeOffert})

	breakdown, err := Calculate(deal, testRates(), map[string]bool{"Solkraft AB": true})
	require.NoError(t, err)

	assert.Equal(t, int64(100), breakdown.BaseBonus)
	assert.Equal(t, int64(100), breakdown.TotalCommission)
}

func TestCalculateUnassignedCreditIsNoOp(t *testing.T) {
	deal := approvedDeal(4, [2]string{"Solkraft AB", models.LeadTypeOffert})

	breakdown, err := Calculate(deal, testRates(), map[string]bool{"Aldrig Delad AB": true})
	require.NoError(t, err)

	assert.Equal(t, int64(200), breakdown.TotalCommission)
	require.Len(t, breakdown.Rows, 1)
	assert.False(t, breakdown.Rows[0].CreditedBack)
}

func TestCalculateNonApprovedYieldsZero(t *testing.T) {
	for _, approval := range []string{models.ApprovalPending, models.ApprovalRejected} {
		deal := approvedDeal(5, [2]string{"Solkraft AB", models.LeadTypeOffert})
		deal.AdminApproval = approval

		breakdown, err := Calculate(deal, testRates(), nil)
		require.NoError(t, err)
		assert.Zero(t, breakdown.BaseBonus)
		assert.Zero(t, breakdown.TotalCommission)
		assert.Empty(t, breakdown.Rows)
	}
}

func TestCalculateNoAssignments(t *testing.T) {
	deal := &models.Deal{ID: 6, Opener: "Moltas", AdminApproval: models.ApprovalApproved}

	breakdown, err := Calculate(deal, testRates(), nil)
	require.NoError(t, err)
	assert.Zero(t, breakdown.BaseBonus)
	assert.Zero(t, breakdown.TotalCommission)
	assert.Empty(t, breakdown.Rows)
}

func TestCalculateMissingLeadTypeFails(t *testing.T) {
	deal := &models.Deal{ID: 7, Opener: "Moltas", AdminApproval: models.ApprovalApproved, Company1: strp("Solkraft AB")}

	_, err := Calculate(deal, testRates(), nil)
	require.Error(t, err)
	var slotErr models.ErrSlotMissingLeadType
	assert.ErrorAs(t, err, &slotErr)
}

func TestCalculateIdempotent(t *testing.T) {
	deal := approvedDeal(8,
		[2]string{"C5", models.LeadTypePlatsbesok},
		[2]string{"C6", models.LeadTypePlatsbesok},
		[2]string{"C7", models.LeadTypeOffert},
	)
	credited := map[string]bool{"C6": true}

	first, err := Calculate(deal, testRates(), credited)
	require.NoError(t, err)
	second, err := Calculate(deal, testRates(), credited)
	require.NoError(t, err)

	assert.Equal(t, first.TotalCommission, second.TotalCommission)
	assert.Equal(t, first.BaseBonus, second.BaseBonus)
	assert.Equal(t, first.Rows, second.Rows)
}

// Mirrors the seed scenario for deal 100004: two platsbesök companies and
// one offert company with one platsbesök credited.
func TestCalculateSeedScenario(t *testing.T) {
	deal := approvedDeal(100004,
		[2]string{"C5", models.LeadTypePlatsbesok},
		[2]string{"C6", models.LeadTypePlatsbesok},
		[2]string{"C7", models.LeadTypeOffert},
	)

	breakdown, err := Calculate(deal, testRates(), map[string]bool{"C6": true})
	require.NoError(t, err)

	assert.Equal(t, int64(100), breakdown.BaseBonus)
	assert.Equal(t, int64(500), breakdown.TotalCommission)
}

func TestFeeFor(t *testing.T) {
	rates := testRates()

	tests := []struct {
		leadType string
		want     int64
		wantErr  bool
	}{
		{leadType: models.LeadTypeOffert, want: 100},
		{leadType: models.LeadTypePlatsbesok, want: 300},
		{leadType: "telefonmöte", wantErr: true},
		{leadType: "OFFERT", wantErr: true},
		{leadType: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := rates.FeeFor(tt.leadType)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("FeeFor(%q) expected error, got %d", tt.leadType, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("FeeFor(%q) unexpected error: %v", tt.leadType, err)
		}
		if got != tt.want {
			t.Fatalf("FeeFor(%q) = %d, want %d", tt.leadType, got, tt.want)
		}
	}
}
