package marks

import (
	"database/sql"
	"shulepro/app/models"
	"shulepro/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupMarksRoutes sets up all mark entry and aggregation routes
func SetupMarksRoutes(app *fiber.App, db *sql.DB) {
	// API routes
	api := app.Group("/api/marks")
	api.Use(auth.AuthMiddleware)
	api.Get("/", func(c *fiber.Ctx) error { return GetMarkAPI(c, db) })
	api.Get("/components", func(c *fiber.Ctx) error { return GetComponentMarksAPI(c, db) })
	api.Get("/entry-grid", func(c *fiber.Ctx) error { return EntryGridAPI(c, db) })
	api.Post("/component", func(c *fiber.Ctx) error { return UpsertComponentMarkAPI(c, db) })
	api.Post("/simple", func(c *fiber.Ctx) error { return UpsertSimpleMarkAPI(c, db) })
	api.Post("/batch", func(c *fiber.Ctx) error { return BatchComponentMarksAPI(c, db) })
	api.Post("/aggregate", func(c *fiber.Ctx) error { return AggregateAPI(c, db) })
	api.Delete("/component/:componentId", func(c *fiber.Ctx) error { return DeleteComponentMarkAPI(c, db) })

	// Page route for the mark entry grid
	app.Get("/marks/entry", auth.AuthMiddleware, func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)
		return c.Render("marks/entry", fiber.Map{
			"Title":       "Enter Marks",
			"CurrentPage": "marks",
			"FirstName":   user.FirstName,
			"LastName":    user.LastName,
			"Email":       user.Email,
			"user":        user,
		})
	})
}
