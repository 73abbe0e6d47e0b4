package subjects

import (
	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"
	"shulepro/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupSubjectsRoutes(app *fiber.App) {
	subjects := app.Group("/subjects")
	subjects.Use(auth.AuthMiddleware)

	// Routes
	subjects.Get("/", SubjectsPage)

	// API routes
	api := app.Group("/api/subjects")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetSubjectsAPI)
	api.Get("/search", SearchSubjectsAPI)
	api.Get("/lookup", LookupSubjectAPI)
	api.Get("/with-components", GetSubjectsWithComponentsAPI)
	api.Get("/:id", GetSubjectAPI)
	api.Get("/:id/components", GetComponentsAPI)
	api.Get("/:id/weights/validate", ValidateWeightsAPI)

	// Catalog changes are admin-only
	admin := app.Group("/api/subjects")
	admin.Use(auth.AuthMiddleware, auth.RoleMiddleware(models.RoleAdmin))
	admin.Post("/", CreateSubjectAPI)
	admin.Put("/:id", UpdateSubjectAPI)
	admin.Delete("/:id", DeleteSubjectAPI)
	admin.Post("/:id/components", AddComponentAPI)
	admin.Put("/:id/components/:componentId", UpdateComponentAPI)
	admin.Delete("/:id/components/:componentId", DeleteComponentAPI)
	admin.Put("/:id/weights", SaveComponentWeightsAPI)
}

func SubjectsPage(c *fiber.Ctx) error {
	subjects, err := database.GetAllSubjects(config.GetDB())
	if err != nil {
		// Log the error for debugging
		println("Error getting subjects:", err.Error())
		// Initialize empty slice if there's an error
		subjects = []*models.Subject{}
	}

	// Ensure subjects is never nil
	if subjects == nil {
		subjects = []*models.Subject{}
	}

	compositeCount := 0
	for _, subject := range subjects {
		if subject.IsComposite {
			compositeCount++
		}
	}

	user := c.Locals("user").(*models.User)
	return c.Render("subjects/index", fiber.Map{
		"Title":          "Subjects Management - ShulePro",
		"CurrentPage":    "subjects",
		"subjects":       subjects,
		"subjectsCount":  len(subjects),
		"compositeCount": compositeCount,
		"user":           user,
		"FirstName":      user.FirstName,
		"LastName":       user.LastName,
		"Email":          user.Email,
	})
}
