package parents

import (
	"strings"

	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"
	"shulepro/app/routes/reports"

	"github.com/gofiber/fiber/v2"
)

func GetParentsAPI(c *fiber.Ctx) error {
	parents, err := database.GetUsersByRole(config.GetDB(), models.RoleParent)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch parents"})
	}

	return c.JSON(fiber.Map{
		"parents": parents,
		"count":   len(parents),
	})
}

// CreateParentAPI registers a parent account. Linking to students happens
// separately through the guardians endpoints.
func CreateParentAPI(c *fiber.Ctx) error {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Password  string `json:"password"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"error": "First name, last name and email are required"})
	}
	if len(req.Password) < 8 {
		return c.Status(400).JSON(fiber.Map{"error": "Password must be at least 8 characters"})
	}

	parent := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}
	if req.Phone != "" {
		parent.Phone = &req.Phone
	}

	if err := database.CreateUser(config.GetDB(), parent, models.RoleParent); err != nil {
		return err
	}

	parent.Password = ""
	return c.Status(201).JSON(fiber.Map{
		"message": "Parent created successfully",
		"parent":  parent,
	})
}

// SearchParentsAPI handles searching for parents by name or email
func SearchParentsAPI(c *fiber.Ctx) error {
	query := c.Query("q", "")
	if query == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Search query is required",
		})
	}

	parents, err := database.GetUsersByRole(config.GetDB(), models.RoleParent)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to search parents",
		})
	}

	queryLower := strings.ToLower(query)
	var matched []*models.User
	for _, parent := range parents {
		fullName := strings.ToLower(parent.FirstName + " " + parent.LastName)
		if strings.Contains(fullName, queryLower) ||
			strings.Contains(strings.ToLower(parent.Email), queryLower) {
			matched = append(matched, parent)
		}
	}
	if matched == nil {
		matched = []*models.User{}
	}

	return c.JSON(fiber.Map{
		"parents": matched,
		"count":   len(matched),
	})
}

// GetStudentGuardiansAPI lists the guardian accounts linked to a student
func GetStudentGuardiansAPI(c *fiber.Ctx) error {
	studentID := c.Params("studentId")

	guardians, err := database.GetGuardiansByStudent(config.GetDB(), studentID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"guardians": guardians,
		"count":     len(guardians),
	})
}

func LinkGuardianAPI(c *fiber.Ctx) error {
	var req struct {
		UserID       string `json:"user_id"`
		StudentID    string `json:"student_id"`
		Relationship string `json:"relationship"`
		IsPrimary    bool   `json:"is_primary"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	relationship := models.RelationshipType(req.Relationship)
	if req.Relationship == "" {
		relationship = models.Guardian
	}

	link := &models.GuardianLink{
		UserID:       req.UserID,
		StudentID:    req.StudentID,
		Relationship: relationship,
		IsPrimary:    req.IsPrimary,
	}

	if err := database.LinkGuardian(config.GetDB(), link); err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"message":  "Guardian linked successfully",
		"guardian": link,
	})
}

func UnlinkGuardianAPI(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	studentID := c.Query("student_id")
	if userID == "" || studentID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "user_id and student_id are required"})
	}

	if err := database.UnlinkGuardian(config.GetDB(), userID, studentID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Guardian unlinked successfully"})
}

// MyChildrenAPI lists the students linked to the signed-in parent
func MyChildrenAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	children, err := database.GetStudentsByGuardian(config.GetDB(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"children": children,
		"count":    len(children),
	})
}

// ChildReportCardAPI serves a child's report card to their own guardian.
// The ownership check runs before anything is fetched.
func ChildReportCardAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	studentID := c.Params("studentId")

	db := config.GetDB()

	linked, err := database.IsGuardianOf(db, userID, studentID)
	if err != nil {
		return err
	}
	if !linked {
		return c.Status(403).JSON(fiber.Map{"error": "You are not linked to this student"})
	}

	assessmentTypeID := c.Query("assessment_type_id")
	if assessmentTypeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "assessment_type_id is required"})
	}

	termID := c.Query("term_id")
	if termID == "" {
		term, err := database.GetCurrentTerm(db)
		if err != nil {
			return models.NewValidationError("no term selected and no current term is set",
				models.FieldError{Field: "term_id", Message: "required"})
		}
		termID = term.ID
	}

	card, err := reports.GetReportCard(db, studentID, termID, assessmentTypeID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"report_card": card,
	})
}
