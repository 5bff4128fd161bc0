package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDealAssignmentsSkipsEmptySlots(t *testing.T) {
	deal := &Deal{
		ID:               100004,
		Opener:           "Moltas",
		Company1:         strPtr("Solkraft Nord AB"),
		Company1LeadType: strPtr(LeadTypePlatsbesok),
		Company3:         strPtr("Takvolt AB"),
		Company3LeadType: strPtr(LeadTypeOffert),
	}

	assignments, err := deal.Assignments()
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	assert.Equal(t, "Solkraft Nord AB", assignments[0].Company)
	assert.Equal(t, LeadTypePlatsbesok, assignments[0].LeadType)
	assert.Equal(t, "Takvolt AB", assignments[1].Company)
	assert.Equal(t, LeadTypeOffert, assignments[1].LeadType)
}

func TestDealAssignmentsMissingLeadType(t *testing.T) {
	deal := &Deal{
		ID:       100005,
		Opener:   "Frank",
		Company2: strPtr("Energihem Syd"),
	}

	_, err := deal.Assignments()
	require.Error(t, err)

	var slotErr ErrSlotMissingLeadType
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, uint(100005), slotErr.DealID)
	assert.Equal(t, 2, slotErr.Slot)
	assert.Equal(t, "Energihem Syd", slotErr.Company)
}

func TestDealAssignmentsDuplicateCompany(t *testing.T) {
	deal := &Deal{
		ID:               100007,
		Opener:           "Moltas",
		Company1:         strPtr("Solkraft Nord AB"),
		Company1LeadType: strPtr(LeadTypeOffert),
		Company2:         strPtr("Solkraft Nord AB"),
		Company2LeadType: strPtr(LeadTypePlatsbesok),
	}

	_, err := deal.Assignments()
	require.Error(t, err)

	var dupErr ErrDuplicateCompanySlot
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, uint(100007), dupErr.DealID)
	assert.Equal(t, 2, dupErr.Slot)
	assert.Equal(t, "Solkraft Nord AB", dupErr.Company)
}

func TestDealAssignmentsUnknownLeadType(t *testing.T) {
	deal := &Deal{
		ID:               100006,
		Opener:           "Moltas",
		Company1:         strPtr("Solkraft Nord AB"),
		Company1LeadType: strPtr("Offert"),
	}

	_, err := deal.Assignments()
	assert.Error(t, err)
}

func TestDealIsAssigned(t *testing.T) {
	deal := &Deal{
		Company1: strPtr("Solkraft Nord AB"),
		Company4: strPtr("Takvolt AB"),
	}

	assert.True(t, deal.IsAssigned("Solkraft Nord AB"))
	assert.True(t, deal.IsAssigned("Takvolt AB"))
	assert.False(t, deal.IsAssigned("Energihem Syd"))
	assert.False(t, deal.IsAssigned(""))
}

func TestValidAdminApprovalIsStrict(t *testing.T) {
	assert.True(t, ValidAdminApproval("pending"))
	assert.True(t, ValidAdminApproval("approved"))
	assert.True(t, ValidAdminApproval("rejected"))

	assert.False(t, ValidAdminApproval("Approved"))
	assert.False(t, ValidAdminApproval("APPROVED"))
	assert.False(t, ValidAdminApproval("godkand"))
	assert.False(t, ValidAdminApproval(""))
}

func TestNewLeadShareExpiry(t *testing.T) {
	sharedAt := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	share := NewLeadShare(100004, 7, SharingMethodEmail, sharedAt)

	assert.Equal(t, sharedAt, share.SharedAt)
	assert.Equal(t, sharedAt.Add(14*24*time.Hour), share.CreditWindowExpires)
	assert.Equal(t, SharingMethodEmail, share.SharingMethod)
	assert.False(t, share.Acknowledged)
}
