package teachers

import (
	"database/sql"

	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
)

func GetTeachersAPI(c *fiber.Ctx) error {
	teachers, err := database.GetUsersByRole(config.GetDB(), models.RoleTeacher)
	if err != nil {
		return c.JSON(fiber.Map{
			"teachers": []*models.User{},
			"count":    0,
		})
	}

	return c.JSON(fiber.Map{
		"teachers": teachers,
		"count":    len(teachers),
	})
}

// GetTeachersForSelectionAPI feeds the class-teacher picker on the class
// form: id and name only, capped at 20 rows.
func GetTeachersForSelectionAPI(c *fiber.Ctx) error {
	search := c.Query("search", "")

	db := config.GetDB()
	query := `SELECT DISTINCT u.id, u.first_name, u.last_name, u.email
			  FROM users u
			  INNER JOIN user_roles ur ON u.id = ur.user_id
			  INNER JOIN roles r ON ur.role_id = r.id
			  WHERE r.name = 'teacher' AND u.is_active = true AND u.deleted_at IS NULL`
	args := []interface{}{}

	if search != "" {
		query += ` AND (u.first_name ILIKE $1 OR u.last_name ILIKE $1 OR u.email ILIKE $1)`
		args = append(args, "%"+search+"%")
	}

	query += ` ORDER BY u.first_name, u.last_name LIMIT 20`

	rows, err := db.Query(query, args...)
	if err != nil {
		return c.JSON(fiber.Map{"teachers": []interface{}{}, "count": 0})
	}
	defer rows.Close()

	var teachers []fiber.Map
	for rows.Next() {
		var id, firstName, lastName, email string
		if err := rows.Scan(&id, &firstName, &lastName, &email); err != nil {
			continue
		}
		teachers = append(teachers, fiber.Map{
			"id":         id,
			"first_name": firstName,
			"last_name":  lastName,
			"email":      email,
			"full_name":  firstName + " " + lastName,
		})
	}

	return c.JSON(fiber.Map{
		"teachers": teachers,
		"count":    len(teachers),
	})
}

func CreateTeacherAPI(c *fiber.Ctx) error {
	type CreateTeacherRequest struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Phone     string `json:"phone"`
	}

	var req CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "First name, last name, email, and password are required"})
	}
	if len(req.Password) < 8 {
		return c.Status(400).JSON(fiber.Map{"error": "Password must be at least 8 characters"})
	}

	teacher := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}
	if req.Phone != "" {
		teacher.Phone = &req.Phone
	}

	if err := database.CreateUser(config.GetDB(), teacher, models.RoleTeacher); err != nil {
		return err
	}

	teacher.Password = ""
	return c.Status(201).JSON(fiber.Map{
		"message": "Teacher created successfully",
		"teacher": teacher,
	})
}

// GetTeacherAPI returns one teacher with the classes assigned to them.
func GetTeacherAPI(c *fiber.Ctx) error {
	teacherID := c.Params("id")
	if teacherID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Teacher ID is required"})
	}

	db := config.GetDB()
	teacher, err := database.GetUserByID(db, teacherID)
	if err == sql.ErrNoRows {
		return models.NewNotFoundError("teacher", teacherID)
	}
	if err != nil {
		return err
	}
	teacher.Password = ""

	roles, err := database.GetUserRoles(db, teacherID)
	if err == nil {
		teacher.Roles = roles
	}
	if !teacher.HasRole(models.RoleTeacher) {
		return models.NewNotFoundError("teacher", teacherID)
	}

	query := `SELECT c.id, c.name, c.stream, c.education_level,
			  (SELECT COUNT(*) FROM students s WHERE s.class_id = c.id AND s.is_active = true AND s.deleted_at IS NULL) AS student_count
			  FROM classes c
			  WHERE c.teacher_id = $1 AND c.deleted_at IS NULL
			  ORDER BY c.name`

	classes := make([]fiber.Map, 0)
	rows, err := db.Query(query, teacherID)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var id, name string
			var stream *string
			var level models.EducationLevel
			var studentCount int
			if err := rows.Scan(&id, &name, &stream, &level, &studentCount); err != nil {
				continue
			}
			displayName := name
			if stream != nil && *stream != "" {
				displayName = name + " " + *stream
			}
			classes = append(classes, fiber.Map{
				"id":              id,
				"name":            name,
				"display_name":    displayName,
				"education_level": level,
				"student_count":   studentCount,
			})
		}
	}

	return c.JSON(fiber.Map{
		"teacher": teacher,
		"classes": classes,
	})
}

func UpdateTeacherAPI(c *fiber.Ctx) error {
	teacherID := c.Params("id")
	if teacherID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Teacher ID is required"})
	}

	type UpdateTeacherRequest struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	}

	var req UpdateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"error": "First name, last name, and email are required"})
	}

	db := config.GetDB()
	teacher, err := database.GetUserByID(db, teacherID)
	if err == sql.ErrNoRows {
		return models.NewNotFoundError("teacher", teacherID)
	}
	if err != nil {
		return err
	}

	var phone *string
	if req.Phone != "" {
		phone = &req.Phone
	}

	query := `UPDATE users
			  SET first_name = $1, last_name = $2, email = $3, phone = $4, updated_at = NOW()
			  WHERE id = $5 AND deleted_at IS NULL`
	if _, err := db.Exec(query, req.FirstName, req.LastName, req.Email, phone, teacherID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return models.NewInvalidOperationError("update teacher", "an account with this email already exists")
		}
		return err
	}

	teacher.FirstName = req.FirstName
	teacher.LastName = req.LastName
	teacher.Email = req.Email
	teacher.Phone = phone
	teacher.Password = ""

	return c.JSON(fiber.Map{
		"message": "Teacher updated successfully",
		"teacher": teacher,
	})
}

// DeactivateTeacherAPI retires the account. The teacher's name stays on
// past classes and reports.
func DeactivateTeacherAPI(c *fiber.Ctx) error {
	teacherID := c.Params("id")
	if teacherID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Teacher ID is required"})
	}

	if err := database.DeactivateUser(config.GetDB(), teacherID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Teacher deactivated successfully",
	})
}
