package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/ProffsKontakt/provision-tracker-sub000/app/controllers"
)

// Pong is the ping endpoint response body.
type Pong struct {
	Ping string `json:"ping"`
}

// APIServer implements the public v1 API surface.
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// PostDeal registers an imported deal.
func (s *APIServer) PostDeal(c *fiber.Ctx) error {
	return controllers.HandleCreateDeal(c)
}

// GetDeals lists deals with optional approval and opener filters.
func (s *APIServer) GetDeals(c *fiber.Ctx) error {
	return controllers.HandleListDeals(c)
}

// GetDeal returns one deal with its commission rows.
func (s *APIServer) GetDeal(c *fiber.Ctx) error {
	return controllers.HandleGetDeal(c)
}

// PostDealReview records the once-only admin review decision.
func (s *APIServer) PostDealReview(c *fiber.Ctx) error {
	return controllers.HandleReviewDeal(c)
}

// GetDealCommission returns the computed commission breakdown.
func (s *APIServer) GetDealCommission(c *fiber.Ctx) error {
	return controllers.HandleGetDealCommission(c)
}

// PostDealShares shares an approved deal with its assigned companies.
func (s *APIServer) PostDealShares(c *fiber.Ctx) error {
	return controllers.HandleShareDeal(c)
}

// GetDealShares lists the shares of a deal with their window status.
func (s *APIServer) GetDealShares(c *fiber.Ctx) error {
	return controllers.HandleListDealShares(c)
}

// PostCredit records a partner credit-back request.
// Security is enforced via the partner API key middleware attached in the router.
func (s *APIServer) PostCredit(c *fiber.Ctx) error {
	return controllers.HandleRequestCredit(c)
}

// PostShareAck confirms receipt of a shared lead.
// Security is enforced via the partner API key middleware attached in the router.
func (s *APIServer) PostShareAck(c *fiber.Ctx) error {
	return controllers.HandleAcknowledgeShare(c)
}

// GetCredited lists credited commission rows.
func (s *APIServer) GetCredited(c *fiber.Ctx) error {
	return controllers.HandleListCredited(c)
}

// GetAlerts returns the credit-window alert listing.
func (s *APIServer) GetAlerts(c *fiber.Ctx) error {
	return controllers.HandleListAlerts(c)
}

// PostAlertDispatch emails the alert digest and records notifications.
func (s *APIServer) PostAlertDispatch(c *fiber.Ctx) error {
	return controllers.HandleDispatchAlerts(c)
}

// GetStats returns the dashboard totals.
func (s *APIServer) GetStats(c *fiber.Ctx) error {
	return controllers.HandleGetStats(c)
}

// GetCompanies lists partner companies.
func (s *APIServer) GetCompanies(c *fiber.Ctx) error {
	return controllers.HandleListCompanies(c)
}

// PostCompany registers a partner company and issues its API key.
func (s *APIServer) PostCompany(c *fiber.Ctx) error {
	return controllers.HandleCreateCompany(c)
}

// PostCompanyKeyRotation replaces a company's API key.
func (s *APIServer) PostCompanyKeyRotation(c *fiber.Ctx) error {
	return controllers.HandleRotateCompanyKey(c)
}

// DeleteCompanyKey revokes a company's API key.
func (s *APIServer) DeleteCompanyKey(c *fiber.Ctx) error {
	return controllers.HandleRevokeCompanyKey(c)
}

// GetUsers lists internal accounts.
func (s *APIServer) GetUsers(c *fiber.Ctx) error {
	return controllers.HandleListUsers(c)
}

// PostUser registers an internal account.
func (s *APIServer) PostUser(c *fiber.Ctx) error {
	return controllers.HandleCreateUser(c)
}
