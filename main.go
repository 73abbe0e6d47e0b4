package main

import (
	"encoding/json"
	"errors"
	"log"
	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"
	"shulepro/app/routes/auth"
	"shulepro/app/routes/classes"
	"shulepro/app/routes/dashboard"
	"shulepro/app/routes/marks"
	"shulepro/app/routes/parents"
	"shulepro/app/routes/reports"
	"shulepro/app/routes/settings"
	"shulepro/app/routes/students"
	"shulepro/app/routes/subjects"
	"shulepro/app/routes/teachers"
	"shulepro/app/services"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
)

// customErrorHandler maps domain errors onto HTTP statuses and renders
// error pages for web requests
func customErrorHandler(c *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	var validationErr *models.ValidationError
	var notFoundErr *models.NotFoundError
	var invalidOpErr *models.InvalidOperationError

	switch {
	case errors.As(err, &validationErr):
		code = fiber.StatusBadRequest
		if len(c.Path()) >= 4 && c.Path()[:4] == "/api" {
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   validationErr.Msg,
				"fields":  validationErr.Fields,
				"code":    code,
			})
		}
	case errors.As(err, &notFoundErr):
		code = fiber.StatusNotFound
	case errors.As(err, &invalidOpErr):
		code = fiber.StatusConflict
	default:
		// Retrieve the custom status code if it's a *fiber.Error
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}
	}

	// Check if this is an API request
	if len(c.Path()) >= 4 && c.Path()[:4] == "/api" {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	// Handle different error codes for web requests
	switch code {
	case 404:
		return c.Status(404).Render("404", fiber.Map{
			"Title":       "Page Not Found - ShulePro",
			"CurrentPage": "",
		})
	case 403:
		return c.Status(403).Render("error", fiber.Map{
			"Title":        "Access Forbidden - ShulePro",
			"CurrentPage":  "",
			"ErrorCode":    "403",
			"ErrorTitle":   "Access Forbidden",
			"ErrorMessage": "You don't have permission to access this resource.",
		})
	case 401:
		return c.Status(401).Render("error", fiber.Map{
			"Title":        "Unauthorized - ShulePro",
			"CurrentPage":  "",
			"ErrorCode":    "401",
			"ErrorTitle":   "Unauthorized",
			"ErrorMessage": "Please log in to access this resource.",
		})
	case 500:
		return c.Status(500).Render("500", fiber.Map{
			"Title":        "Server Error - ShulePro",
			"CurrentPage":  "",
			"ErrorCode":    "500",
			"ErrorTitle":   "Internal Server Error",
			"ErrorMessage": "We're experiencing technical difficulties. Please try again later.",
			"ShowRetry":    true,
		})
	default:
		return c.Status(code).Render("error", fiber.Map{
			"Title":        "Error - ShulePro",
			"CurrentPage":  "",
			"ErrorCode":    code,
			"ErrorTitle":   "An Error Occurred",
			"ErrorMessage": err.Error(),
		})
	}
}

func main() {
	// Set global time zone to East Africa Time
	loc, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		log.Printf("Warning: Failed to load Africa/Nairobi location, falling back to UTC+3: %v", err)
		time.Local = time.FixedZone("EAT", 3*60*60)
	} else {
		time.Local = loc
	}
	log.Printf("Application time zone set to: %s", time.Local.String())

	// Load configuration and connect
	config.Load()
	config.InitDB()
	defer config.GetDB().Close()

	// Create tables and seed defaults
	if err := database.EnsureSchema(config.GetDB()); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}
	if err := database.SeedDefaultGrades(config.GetDB()); err != nil {
		log.Printf("Warning: failed to seed default grades: %v", err)
	}

	// Start background scheduler
	services.StartScheduler(config.GetDB(), config.MarksIncompletePolicy())

	// Initialize template engine
	engine := html.New("./app/templates", ".html")
	engine.AddFunc("json", func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	})
	engine.Reload(true) // Enable template reloading for development
	engine.Debug(false)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Static files
	app.Static("/static", "./static")
	app.Get("/favicon.ico", func(c *fiber.Ctx) error {
		return c.SendFile("./static/favicon.ico")
	})

	// Routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/auth/login")
	})

	// Setup auth routes
	auth.SetupAuthRoutes(app)

	// Setup dashboard routes
	dashboard.SetupDashboardRoutes(app)

	// Setup students routes
	students.SetupStudentsRoutes(app)

	// Setup classes routes
	classes.SetupClassesRoutes(app)

	// Setup teachers routes
	teachers.SetupTeachersRoutes(app)

	// Setup subjects routes
	subjects.SetupSubjectsRoutes(app)

	// Setup marks routes
	marks.SetupMarksRoutes(app, config.GetDB())

	// Setup reports routes
	reports.SetupReportsRoutes(app, config.GetDB())

	// Setup parents routes
	parents.SetupParentsRoutes(app)

	// Setup settings routes
	settings.SetupSettingsRoutes(app)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	// Start server
	log.Println("Server starting on :" + config.Port())
	log.Fatal(app.Listen(":" + config.Port()))
}
