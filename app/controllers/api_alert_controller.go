package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"github.com/ProffsKontakt/provision-tracker-sub000/app/repository"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/cache"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/creditwindow"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/database"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/env"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/mail"
	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/provision"
)

const alertCacheTTL = 60 * time.Second

// HandleListAlerts returns the credit-window alerts grouped per deal,
// soonest-expiring first. Results are cached briefly per horizon since
// the listing is polled by the admin dashboard.
func HandleListAlerts(c *fiber.Ctx) error {
	horizonDays := creditwindow.DefaultAlertHorizonDays
	if raw := c.Query("horizon_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "horizon_days must be a positive integer")
		}
		horizonDays = parsed
	}

	cacheKey := fmt.Sprintf("alerts:horizon:%d", horizonDays)
	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	svc := provision.NewServiceFromDB(database.GetDB())
	alerts, err := svc.ListExpiringAlerts(c.Context(), time.Now(), horizonDays)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load alerts")
	}

	payload := fiber.Map{"alerts": alerts, "horizon_days": horizonDays}
	if encoded, err := json.Marshal(payload); err == nil {
		if err := cache.Set(cacheKey, string(encoded), alertCacheTTL); err != nil {
			log.Printf("failed to cache alert listing: %v", err)
		}
	}
	return c.JSON(payload)
}

// HandleDispatchAlerts emails the current alert digest to the configured
// recipient and records one notification row per alerted deal. The
// batch id ties the rows of one dispatch run together.
func HandleDispatchAlerts(c *fiber.Ctx) error {
	svc := provision.NewServiceFromDB(database.GetDB())
	alerts, err := svc.ListExpiringAlerts(c.Context(), time.Now(), creditwindow.DefaultAlertHorizonDays)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load alerts")
	}
	if len(alerts) == 0 {
		return c.JSON(fiber.Map{"dispatched": 0})
	}

	batchID := uuid.NewString()
	recipient := env.GetEnv("ALERT_EMAIL", "")
	body := renderAlertDigest(alerts)
	var sentAt *time.Time
	if recipient != "" {
		if err := mail.SendMail(recipient, "Kreditfönster: leads som snart löper ut", body); err == nil {
			now := time.Now()
			sentAt = &now
		}
	}

	notificationRepo := repository.GetGlobalFactory().GetNotificationRepository()
	for _, alert := range alerts {
		notifType := models.NotificationTypeExpiring
		for _, company := range alert.Companies {
			if company.State == creditwindow.StateExpired {
				notifType = models.NotificationTypeExpired
				break
			}
		}
		notification := models.Notification{
			DealID:  alert.DealID,
			BatchID: batchID,
			Type:    notifType,
			Content: alertSummaryLine(alert),
			SentAt:  sentAt,
		}
		if err := notificationRepo.Create(&notification); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to record notifications")
		}
	}

	return c.JSON(fiber.Map{"dispatched": len(alerts), "batch_id": batchID})
}

func renderAlertDigest(alerts []creditwindow.Alert) string {
	var b strings.Builder
	b.WriteString("<h2>Leads med kreditfönster som kräver åtgärd</h2><ul>")
	for _, alert := range alerts {
		b.WriteString("<li>")
		b.WriteString(alertSummaryLine(alert))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

func alertSummaryLine(alert creditwindow.Alert) string {
	parts := make([]string, 0, len(alert.Companies))
	for _, company := range alert.Companies {
		parts = append(parts, fmt.Sprintf("%s (%s, %d dagar kvar)", company.CompanyName, company.State, company.DaysRemaining))
	}
	return fmt.Sprintf("Deal %d (%s): %s", alert.DealID, alert.Opener, strings.Join(parts, ", "))
}
