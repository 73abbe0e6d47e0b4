package dashboard

import (
	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"

	"github.com/gofiber/fiber/v2"
)

// GetDashboard handles dashboard page
func GetDashboard(c *fiber.Ctx) error {
	// Get user from context (set by auth middleware)
	user := c.Locals("user").(*models.User)

	db := config.GetDB()

	stats, err := database.GetDashboardStats(db)
	if err != nil {
		stats = &models.DashboardStats{}
	}

	// Composite uploads still missing component marks, surfaced so staff
	// chase them before report day
	incomplete, err := database.GetIncompleteUploads(db, 5)
	if err != nil {
		incomplete = []*models.IncompleteUpload{}
	}

	return c.Render("dashboard/index", fiber.Map{
		"Title":       "Dashboard",
		"CurrentPage": "dashboard",
		"FirstName":   user.FirstName,
		"LastName":    user.LastName,
		"Email":       user.Email,
		"user":        user,
		"Stats":       stats,
		"Incomplete":  incomplete,
	})
}

// GetDashboardStatsAPI returns dashboard statistics as JSON
func GetDashboardStatsAPI(c *fiber.Ctx) error {
	db := config.GetDB()

	stats, err := database.GetDashboardStats(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   "Failed to fetch dashboard statistics",
			"details": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// GetIncompleteUploadsAPI lists composite marks still awaiting components
func GetIncompleteUploadsAPI(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	uploads, err := database.GetIncompleteUploads(config.GetDB(), limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   "Failed to fetch incomplete uploads",
			"details": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"uploads": uploads,
		"count":   len(uploads),
	})
}
