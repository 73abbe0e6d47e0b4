package teachers

import (
	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"
	"shulepro/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupTeachersRoutes(app *fiber.App) {
	teachers := app.Group("/teachers")
	teachers.Use(auth.AuthMiddleware, auth.RoleMiddleware(models.RoleAdmin))

	// Routes
	teachers.Get("/", TeachersPage)

	// API routes, staff accounts are admin business
	api := app.Group("/api/teachers")
	api.Use(auth.AuthMiddleware, auth.RoleMiddleware(models.RoleAdmin))
	api.Get("/", GetTeachersAPI)
	api.Get("/selection", GetTeachersForSelectionAPI)
	api.Post("/", CreateTeacherAPI)
	api.Get("/:id", GetTeacherAPI)
	api.Put("/:id", UpdateTeacherAPI)
	api.Delete("/:id", DeactivateTeacherAPI)
}

func TeachersPage(c *fiber.Ctx) error {
	teachers, err := database.GetUsersByRole(config.GetDB(), models.RoleTeacher)
	if err != nil {
		println("Error getting teachers:", err.Error())
		teachers = []*models.User{}
	}

	return c.Render("teachers/index", fiber.Map{
		"Title":       "Teachers - ShulePro",
		"CurrentPage": "teachers",
		"teachers":    teachers,
		"user":        c.Locals("user"),
	})
}
