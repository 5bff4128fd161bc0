package statistics

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/cache"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/database"
)

const (
	CacheKeyDealsTotal      = "statistics:deals:total"
	CacheKeyDealsPending    = "statistics:deals:pending"
	CacheKeyCommissionTotal = "statistics:commission:total"
	CacheKeyCreditedCount   = "statistics:credits:total"
	CacheExpiration         = 30 * time.Minute
)

// StatisticsData holds the totals shown on the admin dashboard.
type StatisticsData struct {
	TotalDeals      int   `json:"total_deals"`
	PendingReview   int   `json:"pending_review"`
	TotalCommission int64 `json:"total_commission_sek"`
	CreditedLeads   int   `json:"credited_leads"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached totals are stale.
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached totals when stale.
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces a refresh on the next read.
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache recomputes all dashboard totals and stores them
// in the cache.
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalDeals int64
	if err := db.Model(&models.Deal{}).Count(&totalDeals).Error; err != nil {
		log.Printf("Error counting deals: %v", err)
		return err
	}

	var pendingDeals int64
	if err := db.Model(&models.Deal{}).Where("admin_approval = ?", models.ApprovalPending).Count(&pendingDeals).Error; err != nil {
		log.Printf("Error counting pending deals: %v", err)
		return err
	}

	var totalCommission int64
	row := db.Model(&models.Deal{}).
		Where("admin_approval = ?", models.ApprovalApproved).
		Select("COALESCE(SUM(total_commission), 0)").
		Row()
	if err := row.Scan(&totalCommission); err != nil {
		log.Printf("Error summing commission: %v", err)
		return err
	}

	var creditedLeads int64
	if err := db.Model(&models.Commission{}).Where("credited_back = ?", true).Count(&creditedLeads).Error; err != nil {
		log.Printf("Error counting credited leads: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyDealsTotal, strconv.FormatInt(totalDeals, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyDealsPending, strconv.FormatInt(pendingDeals, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyCommissionTotal, strconv.FormatInt(totalCommission, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyCreditedCount, strconv.FormatInt(creditedLeads, 10), CacheExpiration); err != nil {
		return err
	}

	log.Printf("Statistics updated in cache: deals: %d, pending: %d, commission: %d SEK, credited: %d",
		totalDeals, pendingDeals, totalCommission, creditedLeads)

	return nil
}

func cachedInt64(key string, recompute func() (int64, error)) int64 {
	val, err := cache.Get(key)
	if err == nil {
		if count, err := strconv.ParseInt(val, 10, 64); err == nil {
			return count
		}
	}

	count, err := recompute()
	if err != nil {
		log.Printf("Error recomputing statistic %s: %v", key, err)
		return 0
	}
	if err := cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("Error caching statistic %s: %v", key, err)
	}
	return count
}

// GetTotalDeals returns the total deal count from cache or database.
func GetTotalDeals() int {
	return int(cachedInt64(CacheKeyDealsTotal, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.Deal{}).Count(&count).Error
		return count, err
	}))
}

// GetPendingDeals returns the number of deals awaiting review.
func GetPendingDeals() int {
	return int(cachedInt64(CacheKeyDealsPending, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.Deal{}).
			Where("admin_approval = ?", models.ApprovalPending).Count(&count).Error
		return count, err
	}))
}

// GetTotalCommission returns the summed commission of approved deals in SEK.
func GetTotalCommission() int64 {
	return cachedInt64(CacheKeyCommissionTotal, func() (int64, error) {
		var total int64
		row := database.GetDB().Model(&models.Deal{}).
			Where("admin_approval = ?", models.ApprovalApproved).
			Select("COALESCE(SUM(total_commission), 0)").
			Row()
		err := row.Scan(&total)
		return total, err
	})
}

// GetCreditedLeads returns the number of credited lead shares.
func GetCreditedLeads() int {
	return int(cachedInt64(CacheKeyCreditedCount, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.Commission{}).
			Where("credited_back = ?", true).Count(&count).Error
		return count, err
	}))
}

// GetStatisticsData returns all dashboard totals, refreshing the cache
// when stale.
func GetStatisticsData() StatisticsData {
	UpdateCacheIfNeeded()

	return StatisticsData{
		TotalDeals:      GetTotalDeals(),
		PendingReview:   GetPendingDeals(),
		TotalCommission: GetTotalCommission(),
		CreditedLeads:   GetCreditedLeads(),
	}
}
