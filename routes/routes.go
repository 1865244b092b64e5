package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	controller "fairmeet/controllers"
	"fairmeet/engine"
	"fairmeet/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, eng *engine.Engine) {
	routeLogger := log.New(os.Stdout, "ROUTES: ", log.Ldate|log.Ltime|log.Lshortfile)

	teamController := controller.NewTeamController(db)
	suggestionController := controller.NewSuggestionController(db, eng)
	demoController := controller.NewDemoController(db)
	shareController := controller.NewShareController(db)

	api := app.Group("/api", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Team, member and rules management
	api.Post("/teams", teamController.CreateTeam)
	api.Get("/teams", teamController.ListTeams)
	api.Get("/teams/:teamID", teamController.GetTeam)
	api.Post("/teams/:teamID/members", teamController.CreateMember)
	api.Delete("/teams/:teamID/members/:memberID", teamController.DeleteMember)
	api.Put("/teams/:teamID/rules", teamController.UpsertRules)

	// Suggestion generation and export
	api.Post("/teams/:teamID/suggestions/generate", middleware.GenerateRateLimiter(), suggestionController.Generate)
	api.Get("/teams/:teamID/suggestions", suggestionController.List)
	api.Get("/suggestions/:suggestionID/ics", suggestionController.ExportICS)
	api.Get("/suggestions/:suggestionID/google-link", suggestionController.GoogleLink)

	// Share links
	api.Post("/teams/:teamID/share-links", shareController.CreateShareLink)
	app.Get("/s/:token", shareController.GetSharedTeam)

	// Demo surface
	api.Post("/demo/sample-team", demoController.CreateSampleTeam)
	api.Get("/demo", demoController.GetDemoData)

	routeLogger.Println("Routes initialized successfully")
}
