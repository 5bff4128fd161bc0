package provision

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/creditwindow"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// fakeRepository keeps everything in memory. Transact simply runs the
// callback against the same instance; transactional atomicity is covered
// by the GORM repository, not here.
type fakeRepository struct {
	rates       RateSet
	deals       map[uint]*models.Deal
	commissions map[uint]map[string]*models.Commission
	companies   map[uint]*models.Company
	shares      map[uint]map[uint]*models.LeadShare
	nextID      uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		rates:       RateSet{BaseBonus: 100, OffertRate: 100, PlatsbesokRate: 300},
		deals:       make(map[uint]*models.Deal),
		commissions: make(map[uint]map[string]*models.Commission),
		companies:   make(map[uint]*models.Company),
		shares:      make(map[uint]map[uint]*models.LeadShare),
		nextID:      1,
	}
}

func (f *fakeRepository) Transact(fn func(Repository) error) error { return fn(f) }

func (f *fakeRepository) GetRates() (RateSet, error) { return f.rates, nil }

func (f *fakeRepository) GetDeal(id uint) (*models.Deal, error) {
	deal, ok := f.deals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *deal
	return &copied, nil
}

func (f *fakeRepository) GetDealForUpdate(id uint) (*models.Deal, error) { return f.GetDeal(id) }

func (f *fakeRepository) SaveDeal(deal *models.Deal) error {
	copied := *deal
	f.deals[deal.ID] = &copied
	return nil
}

func (f *fakeRepository) CreateCommissions(rows []models.Commission) error {
	for _, row := range rows {
		if f.commissions[row.DealID] == nil {
			f.commissions[row.DealID] = make(map[string]*models.Commission)
		}
		row.ID = f.nextID
		f.nextID++
		copied := row
		f.commissions[row.DealID][row.CompanyName] = &copied
	}
	return nil
}

func (f *fakeRepository) GetCommission(dealID uint, companyName string) (*models.Commission, error) {
	row, ok := f.commissions[dealID][companyName]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (f *fakeRepository) SaveCommission(row *models.Commission) error {
	copied := *row
	f.commissions[row.DealID][row.CompanyName] = &copied
	return nil
}

func (f *fakeRepository) ListCommissionsByDeal(dealID uint) ([]models.Commission, error) {
	var rows []models.Commission
	for _, row := range f.commissions[dealID] {
		rows = append(rows, *row)
	}
	return rows, nil
}

func (f *fakeRepository) CreditedCompanies(dealID uint) (map[string]bool, error) {
	credited := make(map[string]bool)
	for name, row := range f.commissions[dealID] {
		if row.CreditedBack {
			credited[name] = true
		}
	}
	return credited, nil
}

func (f *fakeRepository) GetCompany(id uint) (*models.Company, error) {
	company, ok := f.companies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return company, nil
}

func (f *fakeRepository) GetCompanyByName(name string) (*models.Company, error) {
	for _, company := range f.companies {
		if company.Name == name {
			return company, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) GetLeadShare(dealID, companyID uint) (*models.LeadShare, error) {
	share, ok := f.shares[dealID][companyID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return share, nil
}

func (f *fakeRepository) CreateLeadShare(share *models.LeadShare) error {
	if f.shares[share.DealID] == nil {
		f.shares[share.DealID] = make(map[uint]*models.LeadShare)
	}
	share.ID = f.nextID
	f.nextID++
	copied := *share
	f.shares[share.DealID][share.CompanyID] = &copied
	return nil
}

func (f *fakeRepository) ListShareInfos() ([]creditwindow.ShareInfo, error) {
	var infos []creditwindow.ShareInfo
	for dealID, byCompany := range f.shares {
		deal := f.deals[dealID]
		for companyID, share := range byCompany {
			company := f.companies[companyID]
			credited := false
			if row, ok := f.commissions[dealID][company.Name]; ok {
				credited = row.CreditedBack
			}
			infos = append(infos, creditwindow.ShareInfo{
				ShareID:     share.ID,
				DealID:      dealID,
				Opener:      deal.Opener,
				CompanyID:   companyID,
				CompanyName: company.Name,
				SharedAt:    share.SharedAt,
				ExpiresAt:   share.CreditWindowExpires,
				Credited:    credited,
			})
		}
	}
	return infos, nil
}

func (f *fakeRepository) addCompany(id uint, name string) {
	f.companies[id] = &models.Company{ID: id, Name: name, Status: models.CompanyStatusActive}
}

func (f *fakeRepository) addPendingDeal(id uint, slots ...[2]string) {
	deal := approvedDeal(id, slots...)
	deal.AdminApproval = models.ApprovalPending
	f.deals[id] = deal
}

func setupServiceFixture(t *testing.T) (*Service, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	repo.addCompany(5, "C5")
	repo.addCompany(6, "C6")
	repo.addCompany(7, "C7")
	repo.addPendingDeal(100004,
		[2]string{"C5", models.LeadTypePlatsbesok},
		[2]string{"C6", models.LeadTypePlatsbesok},
		[2]string{"C7", models.LeadTypeOffert},
	)
	return NewService(repo), repo
}

func approveAndShare(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()

	_, rejection, err := svc.ReviewDeal(ctx, 100004, "admin", models.ApprovalApproved, testNow)
	require.NoError(t, err)
	require.Nil(t, rejection)

	_, rejection, err = svc.ShareDeal(ctx, 100004, []uint{5, 6, 7}, models.SharingMethodEmail, testNow)
	require.NoError(t, err)
	require.Nil(t, rejection)
}

func TestReviewDealApprovalCreatesCommissions(t *testing.T) {
	svc, repo := setupServiceFixture(t)
	ctx := context.Background()

	deal, rejection, err := svc.ReviewDeal(ctx, 100004, "admin", models.ApprovalApproved, testNow)
	require.NoError(t, err)
	require.Nil(t, rejection)

	assert.Equal(t, models.ApprovalApproved, deal.AdminApproval)
	require.NotNil(t, deal.TotalCommission)
	assert.Equal(t, int64(800), *deal.TotalCommission) // 100 base + 300 + 300 + 100
	assert.Equal(t, int64(100), *deal.BaseBonus)

	rows, err := repo.ListCommissionsByDeal(100004)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestReviewDealIsSetExactlyOnce(t *testing.T) {
	svc, _ := setupServiceFixture(t)
	ctx := context.Background()

	_, rejection, err := svc.ReviewDeal(ctx, 100004, "admin", models.ApprovalApproved, testNow)
	require.NoError(t, err)
	require.Nil(t, rejection)

	_, rejection, err = svc.ReviewDeal(ctx, 100004, "admin", models.ApprovalRejected, testNow)
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, RejectionAlreadyReviewed, rejection.Reason)
}

func TestReviewDealRejectionCreatesNothing(t *testing.T) {
	svc, repo := setupServiceFixture(t)
	ctx := context.Background()

	deal, rejection, err := svc.ReviewDeal(ctx, 100004, "admin", models.ApprovalRejected, testNow)
	require.NoError(t, err)
	require.Nil(t, rejection)

	assert.Nil(t, deal.TotalCommission)
	assert.Nil(t, deal.BaseBonus)
	rows, _ := repo.ListCommissionsByDeal(100004)
	assert.Empty(t, rows)

	breakdown, err := svc.CalculateCommission(ctx, 100004)
	require.NoError(t, err)
	assert.Zero(t, breakdown.TotalCommission)
}

func TestRequestCreditBackWithinWindow(t *testing.T) {
	svc, repo := setupServiceFixture(t)
	approveAndShare(t, svc)
	ctx := context.Background()

	creditAt := testNow.Add(5 * 24 * time.Hour)
	row, rejection, err := svc.RequestCreditBack(ctx, 100004, "C6", "kund ångrade sig", creditAt)
	require.NoError(t, err)
	require.Nil(t, rejection)

	assert.True(t, row.CreditedBack)
	assert.Equal(t, models.CommissionStatusCredited, row.Status)
	require.NotNil(t, row.CreditedAt)
	assert.Equal(t, creditAt, *row.CreditedAt)
	assert.Equal(t, "kund ångrade sig", row.CreditReason)
	assert.Equal(t, int64(300), row.LeadTypeAmount)

	// Seed scenario: 100 base + 300 C5 + 100 C7, C6 excluded.
	deal, err := repo.GetDeal(100004)
	require.NoError(t, err)
	assert.Equal(t, int64(500), *deal.TotalCommission)
	assert.Equal(t, int64(100), *deal.BaseBonus)
}

func TestRequestCreditBackAfterExpiryRejected(t *testing.T) {
	svc, repo := setupServiceFixture(t)
	approveAndShare(t, svc)
	ctx := context.Background()

	lateNow := testNow.Add(14 * 24 * time.Hour) // exact boundary counts as expired
	row, rejection, err := svc.RequestCreditBack(ctx, 100004, "C6", "för sent", lateNow)
	require.NoError(t, err)
	require.Nil(t, row)
	require.NotNil(t, rejection)
	assert.Equal(t, RejectionWindowExpired, rejection.Reason)

	// Nothing was applied: commission row untouched, totals unchanged.
	stored, err := repo.GetCommission(100004, "C6")
	require.NoError(t, err)
	assert.False(t, stored.CreditedBack)
	deal, _ := repo.GetDeal(100004)
	assert.Equal(t, int64(800), *deal.TotalCommission)
}

func TestRequestCreditBackTwiceRejected(t *testing.T) {
	svc, _ := setupServiceFixture(t)
	approveAndShare(t, svc)
	ctx := context.Background()

	creditAt := testNow.Add(24 * time.Hour)
	_, rejection, err := svc.RequestCreditBack(ctx, 100004, "C6", "first", creditAt)
	require.NoError(t, err)
	require.Nil(t, rejection)

	_, rejection, err = svc.RequestCreditBack(ctx, 100004, "C6", "second", creditAt.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, RejectionAlreadyCredited, rejection.Reason)
}

func TestRequestCreditBackUnsharedCompanyRejected(t *testing.T) {
	svc, repo := setupServiceFixture(t)
	ctx := context.Background()

	_, rejection, err := svc.ReviewDeal(ctx, 100004, "admin", models.ApprovalApproved, testNow)
	require.NoError(t, err)
	require.Nil(t, rejection)

	// Approved but never shared: no window ever opened for C6.
	_, rejection, err = svc.RequestCreditBack(ctx, 100004, "C6", "no share", testNow.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, RejectionShareNotFound, rejection.Reason)

	// A company that is not assigned on the deal at all.
	repo.addCompany(9, "Okänd AB")
	_, rejection, err = svc.RequestCreditBack(ctx, 100004, "Okänd AB", "wrong deal", testNow.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, RejectionCompanyNotAssigned, rejection.Reason)
}

func TestShareDealDuplicateRejected(t *testing.T) {
	svc, _ := setupServiceFixture(t)
	ctx := context.Background()

	_, rejection, err := svc.ReviewDeal(ctx, 100004, "admin", models.ApprovalApproved, testNow)
	require.NoError(t, err)
	require.Nil(t, rejection)

	shares, rejection, err := svc.ShareDeal(ctx, 100004, []uint{5}, models.SharingMethodAPI, testNow)
	require.NoError(t, err)
	require.Nil(t, rejection)
	require.Len(t, shares, 1)
	assert.Equal(t, testNow.Add(models.CreditWindow), shares[0].CreditWindowExpires)

	_, rejection, err = svc.ShareDeal(ctx, 100004, []uint{5}, models.SharingMethodAPI, testNow.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, RejectionDuplicateShare, rejection.Reason)
}

func TestShareDealRequiresApproval(t *testing.T) {
	svc, _ := setupServiceFixture(t)
	ctx := context.Background()

	_, rejection, err := svc.ShareDeal(ctx, 100004, []uint{5}, models.SharingMethodEmail, testNow)
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, RejectionDealNotApproved, rejection.Reason)
}

func TestShareStatus(t *testing.T) {
	svc, _ := setupServiceFixture(t)
	approveAndShare(t, svc)
	ctx := context.Background()

	status, err := svc.ShareStatus(ctx, 100004, 5, testNow.Add(13*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, creditwindow.StateExpiring, status.State)
	assert.Equal(t, 1, status.DaysRemaining)
}

func TestListExpiringAlertsGroupsPerDeal(t *testing.T) {
	svc, _ := setupServiceFixture(t)
	approveAndShare(t, svc)
	ctx := context.Background()

	alerts, err := svc.ListExpiringAlerts(ctx, testNow.Add(12*24*time.Hour), creditwindow.DefaultAlertHorizonDays)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, uint(100004), alerts[0].DealID)
	assert.Len(t, alerts[0].Companies, 3)
}

func TestCalculateCommissionIdempotentThroughService(t *testing.T) {
	svc, _ := setupServiceFixture(t)
	approveAndShare(t, svc)
	ctx := context.Background()

	_, rejection, err := svc.RequestCreditBack(ctx, 100004, "C6", "ånger", testNow.Add(time.Hour))
	require.NoError(t, err)
	require.Nil(t, rejection)

	first, err := svc.CalculateCommission(ctx, 100004)
	require.NoError(t, err)
	second, err := svc.CalculateCommission(ctx, 100004)
	require.NoError(t, err)
	assert.Equal(t, first.TotalCommission, second.TotalCommission)
	assert.Equal(t, int64(500), first.TotalCommission)
}
