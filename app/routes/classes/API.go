package classes

import (
	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func GetClassesAPI(c *fiber.Ctx) error {
	classes, err := database.GetAllClasses(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch classes"})
	}

	return c.JSON(fiber.Map{
		"classes": classes,
		"count":   len(classes),
	})
}

// GetClassesStatsAPI returns classes statistics for the classes page
func GetClassesStatsAPI(c *fiber.Ctx) error {
	db := config.GetDB()

	stats := make(map[string]interface{})

	var totalClasses int
	err := db.QueryRow("SELECT COUNT(*) FROM classes WHERE is_active = true AND deleted_at IS NULL").Scan(&totalClasses)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   "Failed to fetch classes statistics",
			"details": err.Error(),
		})
	}

	var classesWithStudents int
	err = db.QueryRow(`SELECT COUNT(DISTINCT c.id) FROM classes c
					   INNER JOIN students s ON c.id = s.class_id
					   WHERE c.is_active = true AND c.deleted_at IS NULL AND s.is_active = true`).Scan(&classesWithStudents)
	if err != nil {
		classesWithStudents = 0
	}

	var classesWithoutTeachers int
	err = db.QueryRow("SELECT COUNT(*) FROM classes WHERE is_active = true AND deleted_at IS NULL AND teacher_id IS NULL").Scan(&classesWithoutTeachers)
	if err != nil {
		classesWithoutTeachers = 0
	}

	stats["total_classes"] = totalClasses
	stats["active_classes"] = totalClasses
	stats["classes_with_students"] = classesWithStudents
	stats["classes_without_teachers"] = classesWithoutTeachers

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// GetClassesTableAPI returns classes formatted for table display
func GetClassesTableAPI(c *fiber.Ctx) error {
	search := c.Query("search", "")

	classes, err := database.GetAllClasses(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch classes"})
	}

	// Filter classes based on search if provided
	if search != "" {
		var filteredClasses []*models.Class
		searchLower := strings.ToLower(search)

		for _, class := range classes {
			if strings.Contains(strings.ToLower(class.Name), searchLower) ||
				(class.Stream != nil && strings.Contains(strings.ToLower(*class.Stream), searchLower)) ||
				(class.Teacher != nil &&
					(strings.Contains(strings.ToLower(class.Teacher.FirstName), searchLower) ||
						strings.Contains(strings.ToLower(class.Teacher.LastName), searchLower))) {
				filteredClasses = append(filteredClasses, class)
			}
		}
		classes = filteredClasses
	}

	return c.JSON(fiber.Map{
		"success": true,
		"classes": classes,
		"count":   len(classes),
	})
}

func CreateClassAPI(c *fiber.Ctx) error {
	var req struct {
		Name           string `json:"name"`
		EducationLevel string `json:"education_level"`
		Stream         string `json:"stream"`
		TeacherID      string `json:"teacher_id"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Class name is required"})
	}

	level := models.EducationLevel(req.EducationLevel)
	if !level.Valid() {
		return models.NewValidationError("invalid class",
			models.FieldError{Field: "education_level", Message: "must be lower_primary, upper_primary or junior_secondary"})
	}

	class := &models.Class{
		Name:           req.Name,
		EducationLevel: level,
	}

	if req.Stream != "" {
		class.Stream = &req.Stream
	}
	if req.TeacherID != "" {
		class.TeacherID = &req.TeacherID
	}

	if err := database.CreateClass(config.GetDB(), class); err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Class created successfully",
		"class":   class,
	})
}

func GetClassAPI(c *fiber.Ctx) error {
	classID := c.Params("id")

	class, err := database.GetClassByID(config.GetDB(), classID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"class": class,
	})
}

// GetClassDetailsAPI returns a class with its roster and statistics
func GetClassDetailsAPI(c *fiber.Ctx) error {
	classID := c.Params("id")

	db := config.GetDB()

	class, err := database.GetClassByID(db, classID)
	if err != nil {
		return err
	}

	students, err := database.GetStudentsByClass(db, classID)
	if err != nil {
		students = []*models.Student{}
	}

	stats, err := database.GetClassStatistics(db, classID)
	if err != nil {
		stats = map[string]interface{}{}
	}

	// Subjects taught at this class's level, for the mark entry picker
	subjects, err := database.GetAllSubjects(db)
	if err != nil {
		subjects = []*models.Subject{}
	}
	var levelSubjects []*models.Subject
	for _, subject := range subjects {
		if subject.EducationLevel == class.EducationLevel {
			levelSubjects = append(levelSubjects, subject)
		}
	}
	if levelSubjects == nil {
		levelSubjects = []*models.Subject{}
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"class":      class,
		"students":   students,
		"statistics": stats,
		"subjects":   levelSubjects,
	})
}

func UpdateClassAPI(c *fiber.Ctx) error {
	classID := c.Params("id")

	var req struct {
		Name           string `json:"name"`
		EducationLevel string `json:"education_level"`
		Stream         string `json:"stream"`
		TeacherID      string `json:"teacher_id"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Class name is required"})
	}

	existingClass, err := database.GetClassByID(config.GetDB(), classID)
	if err != nil {
		return err
	}

	existingClass.Name = req.Name
	if req.EducationLevel != "" {
		level := models.EducationLevel(req.EducationLevel)
		if !level.Valid() {
			return models.NewValidationError("invalid class",
				models.FieldError{Field: "education_level", Message: "must be lower_primary, upper_primary or junior_secondary"})
		}
		existingClass.EducationLevel = level
	}
	if req.Stream != "" {
		existingClass.Stream = &req.Stream
	} else {
		existingClass.Stream = nil
	}
	if req.TeacherID != "" {
		existingClass.TeacherID = &req.TeacherID
	} else {
		existingClass.TeacherID = nil
	}

	if err := database.UpdateClass(config.GetDB(), existingClass); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Class updated successfully",
		"class":   existingClass,
	})
}

func DeleteClassAPI(c *fiber.Ctx) error {
	classID := c.Params("id")

	if err := database.DeleteClass(config.GetDB(), classID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Class deleted successfully",
	})
}
