package classes

import (
	"fmt"
	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"
	"shulepro/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupClassesRoutes(app *fiber.App) {
	classes := app.Group("/classes")
	classes.Use(auth.AuthMiddleware)

	// Routes
	classes.Get("/", ClassesPage)
	classes.Get("/:id", ClassDetailPage)

	// API routes
	api := app.Group("/api/classes")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetClassesAPI)
	api.Get("/stats", GetClassesStatsAPI)
	api.Get("/table", GetClassesTableAPI)
	api.Get("/:id", GetClassAPI)
	api.Get("/:id/details", GetClassDetailsAPI)

	admin := app.Group("/api/classes")
	admin.Use(auth.AuthMiddleware, auth.RoleMiddleware(models.RoleAdmin))
	admin.Post("/", CreateClassAPI)
	admin.Put("/:id", UpdateClassAPI)
	admin.Delete("/:id", DeleteClassAPI)
}

func ClassesPage(c *fiber.Ctx) error {
	classes, err := database.GetAllClasses(config.GetDB())
	if err != nil {
		// Log the error for debugging
		println("Error getting classes:", err.Error())
		// Initialize empty slice if there's an error
		classes = []*models.Class{}
	}

	// Ensure classes is never nil
	if classes == nil {
		classes = []*models.Class{}
	}

	return c.Render("classes/index", fiber.Map{
		"Title":       "Classes Management - ShulePro",
		"CurrentPage": "classes",
		"classes":     classes,
		"user":        c.Locals("user"),
	})
}

// ClassDetailPage renders the individual class detail page
func ClassDetailPage(c *fiber.Ctx) error {
	classID := c.Params("id")

	class, err := database.GetClassByID(config.GetDB(), classID)
	if err != nil {
		return c.Status(404).SendString("Class not found")
	}

	return c.Render("classes/detail", fiber.Map{
		"Title":       fmt.Sprintf("%s - Class Details", class.DisplayName()),
		"CurrentPage": "classes",
		"class":       class,
		"classID":     classID,
		"user":        c.Locals("user"),
	})
}
