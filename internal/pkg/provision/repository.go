package provision

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/creditwindow"
)

// Repository provides the DB operations used by the provision service.
// Transact runs fn against a repository bound to one transaction; every
// call made inside fn commits or rolls back as a unit.
type Repository interface {
	Transact(fn func(Repository) error) error

	GetRates() (RateSet, error)
	GetDeal(id uint) (*models.Deal, error)
	GetDealForUpdate(id uint) (*models.Deal, error)
	SaveDeal(deal *models.Deal) error

	CreateCommissions(rows []models.Commission) error
	GetCommission(dealID uint, companyName string) (*models.Commission, error)
	SaveCommission(row *models.Commission) error
	ListCommissionsByDeal(dealID uint) ([]models.Commission, error)
	CreditedCompanies(dealID uint) (map[string]bool, error)

	GetCompany(id uint) (*models.Company, error)
	GetCompanyByName(name string) (*models.Company, error)

	GetLeadShare(dealID, companyID uint) (*models.LeadShare, error)
	CreateLeadShare(share *models.LeadShare) error
	ListShareInfos() ([]creditwindow.ShareInfo, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a provision repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transact(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) GetRates() (RateSet, error) {
	var rules []models.CommissionRule
	err := r.db.
		Where("name IN ? AND is_active = ?", []string{models.RuleBaseBonus, models.RuleOffertRate, models.RulePlatsbesokRate}, true).
		Find(&rules).Error
	if err != nil {
		return RateSet{}, err
	}
	if len(rules) < 3 {
		return RateSet{}, gorm.ErrRecordNotFound
	}

	var rates RateSet
	for _, rule := range rules {
		switch rule.Name {
		case models.RuleBaseBonus:
			rates.BaseBonus = rule.Value
		case models.RuleOffertRate:
			rates.OffertRate = rule.Value
		case models.RulePlatsbesokRate:
			rates.PlatsbesokRate = rule.Value
		}
	}
	return rates, nil
}

func (r *gormRepository) GetDeal(id uint) (*models.Deal, error) {
	return models.FindDealByID(r.db, id)
}

// GetDealForUpdate locks the deal row for the remainder of the current
// transaction. Concurrent credit requests against the same deal
// serialize on this lock.
func (r *gormRepository) GetDealForUpdate(id uint) (*models.Deal, error) {
	var deal models.Deal
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&deal, id).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *gormRepository) SaveDeal(deal *models.Deal) error {
	return r.db.Save(deal).Error
}

func (r *gormRepository) CreateCommissions(rows []models.Commission) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(&rows).Error
}

func (r *gormRepository) GetCommission(dealID uint, companyName string) (*models.Commission, error) {
	var row models.Commission
	err := r.db.Where("deal_id = ? AND company_name = ?", dealID, companyName).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *gormRepository) SaveCommission(row *models.Commission) error {
	return r.db.Save(row).Error
}

func (r *gormRepository) ListCommissionsByDeal(dealID uint) ([]models.Commission, error) {
	var rows []models.Commission
	err := r.db.Where("deal_id = ?", dealID).Order("company_name asc").Find(&rows).Error
	return rows, err
}

func (r *gormRepository) CreditedCompanies(dealID uint) (map[string]bool, error) {
	return models.CreditedCompanies(r.db, dealID)
}

func (r *gormRepository) GetCompany(id uint) (*models.Company, error) {
	var company models.Company
	if err := r.db.First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *gormRepository) GetCompanyByName(name string) (*models.Company, error) {
	var company models.Company
	if err := r.db.Where("name = ?", name).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *gormRepository) GetLeadShare(dealID, companyID uint) (*models.LeadShare, error) {
	var share models.LeadShare
	err := r.db.Where("deal_id = ? AND company_id = ?", dealID, companyID).First(&share).Error
	if err != nil {
		return nil, err
	}
	return &share, nil
}

func (r *gormRepository) CreateLeadShare(share *models.LeadShare) error {
	return r.db.Create(share).Error
}

// ListShareInfos loads every lead share joined with its deal, company
// and the credited flag of the matching commission row. Classification
// against the clock happens in creditwindow, not in SQL, so the rounding
// formula lives in exactly one place.
func (r *gormRepository) ListShareInfos() ([]creditwindow.ShareInfo, error) {
	type row struct {
		ShareID     uint
		DealID      uint
		Opener      string
		CompanyID   uint
		CompanyName string
		SharedAt    time.Time
		ExpiresAt   time.Time
		Credited    bool
	}

	var rows []row
	err := r.db.Model(&models.LeadShare{}).
		Select(`lead_shares.id AS share_id,
			lead_shares.deal_id AS deal_id,
			deals.opener AS opener,
			lead_shares.company_id AS company_id,
			companies.name AS company_name,
			lead_shares.shared_at AS shared_at,
			lead_shares.credit_window_expires AS expires_at,
			COALESCE(commissions.credited_back, false) AS credited`).
		Joins("JOIN deals ON deals.id = lead_shares.deal_id").
		Joins("JOIN companies ON companies.id = lead_shares.company_id").
		Joins("LEFT JOIN commissions ON commissions.deal_id = lead_shares.deal_id AND commissions.company_name = companies.name").
		Order("lead_shares.credit_window_expires asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	infos := make([]creditwindow.ShareInfo, 0, len(rows))
	for _, s := range rows {
		infos = append(infos, creditwindow.ShareInfo{
			ShareID:     s.ShareID,
			DealID:      s.DealID,
			Opener:      s.Opener,
			CompanyID:   s.CompanyID,
			CompanyName: s.CompanyName,
			SharedAt:    s.SharedAt,
			ExpiresAt:   s.ExpiresAt,
			Credited:    s.Credited,
		})
	}
	return infos, nil
}
