package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ProffsKontakt/provision-tracker-sub000/internal/pkg/middleware"
)

// RegisterHandlers attaches the v1 endpoints to the given router group.
// Admin endpoints sit behind basic auth backed by the users table,
// partner endpoints behind the company API key middleware. The ping
// endpoint stays open.
func RegisterHandlers(router fiber.Router, si *APIServer) {
	router.Get("/ping", si.GetPing)

	partner := router.Group("/partner", middleware.PartnerAuthMiddleware())
	partner.Post("/credits", si.PostCredit)
	partner.Post("/shares/:id/ack", si.PostShareAck)

	admin := router.Group("", middleware.AdminAuthMiddleware())

	admin.Post("/deals", si.PostDeal)
	admin.Get("/deals", si.GetDeals)
	admin.Get("/deals/:id", si.GetDeal)
	admin.Post("/deals/:id/review", si.PostDealReview)
	admin.Get("/deals/:id/commission", si.GetDealCommission)
	admin.Post("/deals/:id/shares", si.PostDealShares)
	admin.Get("/deals/:id/shares", si.GetDealShares)

	admin.Get("/credits", si.GetCredited)
	admin.Get("/stats", si.GetStats)

	admin.Get("/alerts", si.GetAlerts)
	admin.Post("/alerts/dispatch", si.PostAlertDispatch)

	admin.Get("/companies", si.GetCompanies)
	admin.Post("/companies", si.PostCompany)
	admin.Post("/companies/:id/api-key", si.PostCompanyKeyRotation)
	admin.Delete("/companies/:id/api-key", si.DeleteCompanyKey)

	admin.Get("/users", si.GetUsers)
	admin.Post("/users", si.PostUser)
}
