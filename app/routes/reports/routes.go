package reports

import (
	"database/sql"

	"shulepro/app/database"
	"shulepro/app/models"
	"shulepro/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupReportsRoutes sets up report card and mark sheet routes. Parents do
// not come through here, the parents portal serves their children's reports
// with its own ownership checks.
func SetupReportsRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/reports")
	api.Use(auth.AuthMiddleware, auth.RoleMiddleware(models.RoleAdmin, models.RoleTeacher))
	api.Get("/report-card/:studentId", func(c *fiber.Ctx) error { return GetReportCardAPI(c, db) })
	api.Get("/mark-sheet/:classId", func(c *fiber.Ctx) error { return GetMarkSheetAPI(c, db) })

	// Page route
	app.Get("/reports", auth.AuthMiddleware, func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)

		classes, err := database.GetActiveClassesSimple(db)
		if err != nil {
			classes = []models.Class{}
		}
		terms, err := database.GetAllTerms(db)
		if err != nil {
			terms = []*models.Term{}
		}
		assessmentTypes, err := database.GetAllAssessmentTypes(db)
		if err != nil {
			assessmentTypes = []*models.AssessmentType{}
		}

		return c.Render("reports/index", fiber.Map{
			"Title":           "Reports - ShulePro",
			"CurrentPage":     "reports",
			"classes":         classes,
			"terms":           terms,
			"assessmentTypes": assessmentTypes,
			"user":            user,
			"FirstName":       user.FirstName,
			"LastName":        user.LastName,
			"Email":           user.Email,
		})
	})
}
