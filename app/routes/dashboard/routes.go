package dashboard

import (
	"shulepro/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App) {
	app.Get("/dashboard", auth.AuthMiddleware, GetDashboard)

	api := app.Group("/api/dashboard")
	api.Use(auth.AuthMiddleware)
	api.Get("/stats", GetDashboardStatsAPI)
	api.Get("/incomplete-uploads", GetIncompleteUploadsAPI)
}
