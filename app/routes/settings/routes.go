package settings

import (
	"shulepro/app/models"
	"shulepro/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupSettingsRoutes(app *fiber.App) {
	settings := app.Group("/settings")
	settings.Use(auth.AuthMiddleware, auth.RoleMiddleware(models.RoleAdmin))

	settings.Get("/", SettingsPageHandler())

	// API Routes for Settings
	api := app.Group("/api/settings")
	api.Use(auth.AuthMiddleware)

	// Reads are open to any signed-in user, the mark entry and report
	// screens need terms and assessment types for their pickers
	api.Get("/terms", GetAllTermsHandler)
	api.Get("/terms/:id", GetTermHandler)
	api.Get("/assessment-types", GetAllAssessmentTypesHandler)
	api.Get("/grades", GetAllGradesHandler)

	admin := app.Group("/api/settings")
	admin.Use(auth.AuthMiddleware, auth.RoleMiddleware(models.RoleAdmin))

	// Term routes
	admin.Post("/terms", CreateTermHandler)
	admin.Put("/terms/:id", UpdateTermHandler)
	admin.Delete("/terms/:id", DeleteTermHandler)
	admin.Put("/terms/:id/set-current", SetCurrentTermHandler)
	admin.Post("/terms/auto-set-current", AutoSetCurrentTermHandler)

	// Assessment Type routes
	admin.Post("/assessment-types", CreateAssessmentTypeHandler)
	admin.Put("/assessment-types/:id", UpdateAssessmentTypeHandler)
	admin.Delete("/assessment-types/:id", DeleteAssessmentTypeHandler)

	// Grade band routes
	admin.Post("/grades", CreateGradeHandler)
	admin.Put("/grades/:id", UpdateGradeHandler)
	admin.Delete("/grades/:id", DeleteGradeHandler)
	admin.Post("/grades/seed-defaults", SeedDefaultGradesHandler)
}
