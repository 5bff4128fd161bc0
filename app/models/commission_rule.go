package models

import (
	"time"

	"gorm.io/gorm"
)

// Rule names. Exactly one active rule per name exists at a time.
const (
	RuleBaseBonus      = "BASE_BONUS"
	RuleOffertRate     = "OFFERT_RATE"
	RulePlatsbesokRate = "PLATSBESOK_RATE"
)

// CommissionRule holds one configurable payout amount in whole SEK.
// Rules are seeded by migration and read-only during calculation;
// commissions copy the amount at creation time, so later rule changes
// never alter historical rows.
type CommissionRule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name" validate:"required,oneof=BASE_BONUS OFFERT_RATE PLATSBESOK_RATE"`
	Value     int64     `gorm:"not null" json:"value" validate:"gte=0"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FindActiveRule loads the active rule for a name.
func FindActiveRule(db *gorm.DB, name string) (*CommissionRule, error) {
	var rule CommissionRule
	err := db.Where("name = ? AND is_active = ?", name, true).First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}
