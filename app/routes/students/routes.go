package students

import (
	"fmt"
	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"
	"shulepro/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupStudentsRoutes(app *fiber.App) {
	students := app.Group("/students")
	students.Use(auth.AuthMiddleware)

	// Routes
	students.Get("/", StudentsPage)
	students.Get("/:id", StudentViewPage)

	// API routes
	api := app.Group("/api/students")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetStudentsAPI)             // Get students with filters
	api.Get("/search", SearchStudentsAPI)    // Search students
	api.Get("/stats", GetStudentsStatsAPI)   // Get roster statistics
	api.Get("/table", GetStudentsTableAPI)   // Get students formatted for table
	api.Get("/class", GetStudentsByClassAPI) // Get students by class (?class_id=uuid)
	api.Get("/:id", GetStudentByIDAPI)       // Get single student by ID

	// Roster changes are admin-only
	admin := app.Group("/api/students")
	admin.Use(auth.AuthMiddleware, auth.RoleMiddleware(models.RoleAdmin))
	admin.Post("/", CreateStudentAPI)
	admin.Put("/:id", UpdateStudentAPI)
	admin.Delete("/:id", DeleteStudentAPI)
}

func StudentsPage(c *fiber.Ctx) error {
	filters := database.StudentFilters{Status: "active"}
	students, totalCount, err := database.GetStudentsWithFiltersAndPagination(config.GetDB(), filters)
	if err != nil {
		return c.Status(500).Render("error", fiber.Map{
			"Title":        "Error - ShulePro",
			"CurrentPage":  "students",
			"ErrorCode":    "500",
			"ErrorTitle":   "Database Error",
			"ErrorMessage": "Failed to load students. Please try again later.",
			"ShowRetry":    true,
			"user":         c.Locals("user"),
		})
	}

	user := c.Locals("user").(*models.User)
	return c.Render("students/index", fiber.Map{
		"Title":       "Students - ShulePro",
		"CurrentPage": "students",
		"students":    students,
		"totalCount":  totalCount,
		"user":        user,
		"FirstName":   user.FirstName,
		"LastName":    user.LastName,
		"Email":       user.Email,
	})
}

func StudentViewPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	studentID := c.Params("id")

	// Get student details to show name in title if possible
	student, _ := database.GetStudentByID(config.GetDB(), studentID)

	title := "Student Profile - ShulePro"
	if student != nil {
		title = fmt.Sprintf("%s %s - Profile", student.FirstName, student.LastName)
	}

	return c.Render("students/view", fiber.Map{
		"Title":       title,
		"CurrentPage": "students",
		"studentID":   studentID,
		"student":     student,
		"user":        user,
		"FirstName":   user.FirstName,
		"LastName":    user.LastName,
		"Email":       user.Email,
	})
}
