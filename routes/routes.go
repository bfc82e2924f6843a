package routes

import (
	"log"
	"os"

	controller "agencydesk/controllers"
	"agencydesk/middleware"
	"agencydesk/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

// SetupRoutes wires every HTTP endpoint. The hub is shared with the metrics
// worker so dashboard clients see sync completions as they happen.
func SetupRoutes(app *fiber.App, db *gorm.DB, hub *controller.Hub) {
	// Initialize controllers with their respective loggers
	clientController := controller.NewClientController(db, log.New(os.Stdout, "CLIENT: ", log.LstdFlags))
	adAccountController := controller.NewAdAccountController(db, log.New(os.Stdout, "ADACCOUNT: ", log.LstdFlags))
	facebookController := controller.NewFacebookController(db, utils.NewFacebookClient(), log.New(os.Stdout, "FACEBOOK: ", log.LstdFlags))
	googleAdsController := controller.NewGoogleAdsController(db, utils.NewGoogleAdsClient(), log.New(os.Stdout, "GOOGLEADS: ", log.LstdFlags))
	insightController := controller.NewInsightController(db, log.New(os.Stdout, "INSIGHT: ", log.LstdFlags))
	dashboardController := controller.NewDashboardController(db, log.New(os.Stdout, "DASHBOARD: ", log.LstdFlags))
	leadController := controller.NewLeadController(db, log.New(os.Stdout, "LEAD: ", log.LstdFlags))
	taskController := controller.NewTaskController(db, log.New(os.Stdout, "TASK: ", log.LstdFlags))
	contractController := controller.NewContractController(db, utils.NewContractMailer(), log.New(os.Stdout, "CONTRACT: ", log.LstdFlags))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Stripe posts here without our API prefix
	app.Post("/webhooks/stripe", contractController.HandleStripeWebhook)

	// API group with versioning
	api := app.Group("/api/v1", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Client routes
	client := api.Group("/clients")
	client.Post("/", clientController.CreateClient)
	client.Get("/", clientController.GetClients)
	client.Get("/:id", clientController.GetClient)
	client.Put("/:id", clientController.UpdateClient)

	// Ad account credential store
	adAccount := api.Group("/ad-accounts")
	adAccount.Post("/", adAccountController.CreateAdAccount)
	adAccount.Get("/", adAccountController.GetAdAccounts)
	adAccount.Get("/:id", adAccountController.GetAdAccount)
	adAccount.Put("/:id", adAccountController.UpdateAdAccount)
	adAccount.Delete("/:id", adAccountController.DeleteAdAccount)

	// Ad-platform proxies with rate limiting
	integrations := api.Group("/integrations", middleware.IntegrationRateLimiter())
	integrations.Post("/facebook/insights", facebookController.GetCampaignInsights)
	integrations.Post("/facebook/insights/aggregate", facebookController.AggregateCampaignInsights)
	integrations.Post("/google/keywords", googleAdsController.GetKeywordPerformance)

	// Insight routes
	api.Post("/insights", insightController.GenerateInsights)
	api.Get("/insights", insightController.GetInsights)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.Get("/overview", dashboardController.GetOverview)

	// WebSocket route for live sync notifications
	app.Get("/api/v1/dashboard/live", websocket.New(func(c *websocket.Conn) {
		hub.LiveFeed(c)
	}))

	// Lead routes
	lead := api.Group("/leads")
	lead.Post("/", leadController.CreateLead)
	lead.Get("/", leadController.GetLeads)
	lead.Get("/:id", leadController.GetLead)
	lead.Put("/:id", leadController.UpdateLead)
	lead.Delete("/:id", leadController.DeleteLead)
	lead.Post("/:id/comments", leadController.AddComment)
	lead.Get("/:id/comments", leadController.GetComments)

	// Separate route for resolving comments
	api.Put("/comments/:id/resolve", leadController.ResolveComment)

	// Task board routes
	task := api.Group("/tasks")
	task.Post("/", taskController.CreateTask)
	task.Get("/", taskController.GetTasks)
	task.Put("/:id", taskController.UpdateTask)
	task.Put("/:id/move", taskController.MoveTask)
	task.Delete("/:id", taskController.DeleteTask)

	// Contract routes
	contract := api.Group("/contracts")
	contract.Post("/", contractController.CreateContract)
	contract.Get("/", contractController.GetContracts)
	contract.Get("/:id", contractController.GetContract)
	contract.Post("/:id/send", contractController.SendContract)
	contract.Post("/:id/payment-link", contractController.CreatePaymentLink)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
