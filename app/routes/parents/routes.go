package parents

import (
	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"
	"shulepro/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupParentsRoutes(app *fiber.App) {
	// Admin management of parent accounts and guardian links
	api := app.Group("/api/parents")
	api.Use(auth.AuthMiddleware, auth.RoleMiddleware(models.RoleAdmin))

	api.Get("/", GetParentsAPI)
	api.Post("/", CreateParentAPI)
	api.Get("/search", SearchParentsAPI)
	api.Get("/guardians/:studentId", GetStudentGuardiansAPI)
	api.Post("/guardians", LinkGuardianAPI)
	api.Delete("/guardians", UnlinkGuardianAPI)

	// Parent-facing portal
	portal := app.Group("/api/portal")
	portal.Use(auth.AuthMiddleware, auth.RoleMiddleware(models.RoleParent))
	portal.Get("/children", MyChildrenAPI)
	portal.Get("/children/:studentId/report-card", ChildReportCardAPI)

	app.Get("/portal", auth.AuthMiddleware, auth.RoleMiddleware(models.RoleParent), PortalPage)
}

// PortalPage renders the parent portal with the guardian's children
func PortalPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	children, err := database.GetStudentsByGuardian(config.GetDB(), user.ID)
	if err != nil {
		children = nil
	}

	terms, err := database.GetAllTerms(config.GetDB())
	if err != nil {
		terms = nil
	}

	assessmentTypes, err := database.GetAllAssessmentTypes(config.GetDB())
	if err != nil {
		assessmentTypes = nil
	}

	return c.Render("portal/index", fiber.Map{
		"Title":           "Parent Portal - ShulePro",
		"CurrentPage":     "portal",
		"children":        children,
		"terms":           terms,
		"assessmentTypes": assessmentTypes,
		"user":            user,
		"FirstName":       user.FirstName,
		"LastName":        user.LastName,
		"Email":           user.Email,
	})
}
