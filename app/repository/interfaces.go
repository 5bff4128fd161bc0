package repository

import (
	"time"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"gorm.io/gorm"
)

// DealRepository defines the interface for deal-related database operations
type DealRepository interface {
	Create(deal *models.Deal) error
	GetByID(id uint) (*models.Deal, error)
	Update(deal *models.Deal) error
	List(offset, limit int) ([]models.Deal, error)
	ListByApproval(approval string, offset, limit int) ([]models.Deal, error)
	ListByOpener(opener string, offset, limit int) ([]models.Deal, error)
	Count() (int64, error)
	CountByApproval(approval string) (int64, error)
}

// CommissionRepository defines the interface for commission row operations
type CommissionRepository interface {
	GetByDealAndCompany(dealID uint, companyName string) (*models.Commission, error)
	ListByDeal(dealID uint) ([]models.Commission, error)
	ListByCompany(companyName string, offset, limit int) ([]models.Commission, error)
	ListCredited(offset, limit int) ([]models.Commission, error)
	CreditedCompanies(dealID uint) (map[string]bool, error)
}

// LeadShareRepository defines the interface for lead share operations
type LeadShareRepository interface {
	GetByID(id uint) (*models.LeadShare, error)
	GetByDealAndCompany(dealID, companyID uint) (*models.LeadShare, error)
	ListByDeal(dealID uint) ([]models.LeadShare, error)
	ListByCompany(companyID uint, offset, limit int) ([]models.LeadShare, error)
	ListExpiringBefore(cutoff time.Time) ([]models.LeadShare, error)
	Acknowledge(id uint) error
}

// CommissionRuleRepository defines the interface for commission rule lookups
type CommissionRuleRepository interface {
	GetActiveByName(name string) (*models.CommissionRule, error)
	List() ([]models.CommissionRule, error)
}

// CompanyRepository defines the interface for partner company operations
type CompanyRepository interface {
	Create(company *models.Company) error
	GetByID(id uint) (*models.Company, error)
	GetByName(name string) (*models.Company, error)
	GetByAPIKeyHash(hash string) (*models.Company, error)
	Update(company *models.Company) error
	List(offset, limit int) ([]models.Company, error)
	Count() (int64, error)
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// NotificationRepository defines the interface for alert notification records
type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListByDeal(dealID uint) ([]models.Notification, error)
	ListByBatch(batchID string) ([]models.Notification, error)
	ListRecent(limit int) ([]models.Notification, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Deal           DealRepository
	Commission     CommissionRepository
	LeadShare      LeadShareRepository
	CommissionRule CommissionRuleRepository
	Company        CompanyRepository
	User           UserRepository
	Notification   NotificationRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Deal:           NewDealRepository(db),
		Commission:     NewCommissionRepository(db),
		LeadShare:      NewLeadShareRepository(db),
		CommissionRule: NewCommissionRuleRepository(db),
		Company:        NewCompanyRepository(db),
		User:           NewUserRepository(db),
		Notification:   NewNotificationRepository(db),
	}
}
