package database

import (
	"database/sql"
	"fmt"
	"shulepro/app/models"
)

// GetActiveClassesSimple retrieves a simple list of active classes for dropdowns
func GetActiveClassesSimple(db *sql.DB) ([]models.Class, error) {
	query := `SELECT id, name, education_level, stream FROM classes
			  WHERE is_active = true AND deleted_at IS NULL ORDER BY name ASC`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []models.Class
	for rows.Next() {
		var c models.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.EducationLevel, &c.Stream); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, nil
}

func GetAllClasses(db *sql.DB) ([]*models.Class, error) {
	query := `SELECT c.id, c.name, c.education_level, c.stream, c.teacher_id, c.is_active, c.created_at, c.updated_at,
			  u.first_name, u.last_name, u.email,
			  COALESCE(s.student_count, 0) as student_count
			  FROM classes c
			  LEFT JOIN users u ON c.teacher_id = u.id
			  LEFT JOIN (
				  SELECT class_id, COUNT(*) as student_count
				  FROM students
				  WHERE is_active = true AND deleted_at IS NULL
				  GROUP BY class_id
			  ) s ON c.id = s.class_id
			  WHERE c.deleted_at IS NULL
			  ORDER BY c.education_level, c.name`

	rows, err := db.Query(query)
	if err != nil {
		return []*models.Class{}, nil
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		class := &models.Class{}
		var teacherFirstName, teacherLastName, teacherEmail *string
		var studentCount int
		err := rows.Scan(
			&class.ID, &class.Name, &class.EducationLevel, &class.Stream, &class.TeacherID,
			&class.IsActive, &class.CreatedAt, &class.UpdatedAt,
			&teacherFirstName, &teacherLastName, &teacherEmail, &studentCount,
		)
		if err != nil {
			continue
		}

		if teacherFirstName != nil && teacherLastName != nil && class.TeacherID != nil {
			class.Teacher = &models.User{
				ID:        *class.TeacherID,
				FirstName: *teacherFirstName,
				LastName:  *teacherLastName,
				Email:     *teacherEmail,
			}
		}

		// Student list stays empty here; the count rides on a throwaway slice
		// only when templates need len().
		if studentCount > 0 {
			class.Students = make([]*models.Student, studentCount)
		}

		classes = append(classes, class)
	}

	if classes == nil {
		classes = []*models.Class{}
	}

	return classes, nil
}

func GetClassByID(db *sql.DB, classID string) (*models.Class, error) {
	query := `SELECT c.id, c.name, c.education_level, c.stream, c.teacher_id, c.is_active, c.created_at, c.updated_at,
			  u.first_name, u.last_name, u.email
			  FROM classes c
			  LEFT JOIN users u ON c.teacher_id = u.id
			  WHERE c.id = $1 AND c.deleted_at IS NULL`

	class := &models.Class{}
	var teacherFirstName, teacherLastName, teacherEmail *string
	err := db.QueryRow(query, classID).Scan(
		&class.ID, &class.Name, &class.EducationLevel, &class.Stream, &class.TeacherID,
		&class.IsActive, &class.CreatedAt, &class.UpdatedAt,
		&teacherFirstName, &teacherLastName, &teacherEmail,
	)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("class", classID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}

	if teacherFirstName != nil && teacherLastName != nil && class.TeacherID != nil {
		class.Teacher = &models.User{
			ID:        *class.TeacherID,
			FirstName: *teacherFirstName,
			LastName:  *teacherLastName,
			Email:     *teacherEmail,
		}
	}

	return class, nil
}

func CreateClass(db *sql.DB, class *models.Class) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// One class per teacher at a time
	if class.TeacherID != nil && *class.TeacherID != "" {
		var existingClassID string
		err := tx.QueryRow("SELECT id FROM classes WHERE teacher_id = $1 AND is_active = true AND deleted_at IS NULL LIMIT 1", *class.TeacherID).Scan(&existingClassID)
		if err == nil {
			return models.NewInvalidOperationError("create class", "teacher is already assigned to another class")
		}
	}

	query := `INSERT INTO classes (name, education_level, stream, teacher_id, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	class.IsActive = true
	err = tx.QueryRow(query, class.Name, class.EducationLevel, class.Stream, class.TeacherID).Scan(
		&class.ID, &class.CreatedAt, &class.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if class.TeacherID != nil && *class.TeacherID != "" {
		roleQuery := `INSERT INTO user_roles (user_id, role_id, created_at)
					  SELECT $1, r.id, NOW() FROM roles r WHERE r.name = $2
					  ON CONFLICT (user_id, role_id) DO NOTHING`
		if _, err := tx.Exec(roleQuery, *class.TeacherID, models.RoleTeacher); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func UpdateClass(db *sql.DB, class *models.Class) error {
	query := `UPDATE classes
			  SET name = $1, education_level = $2, stream = $3, teacher_id = $4, updated_at = NOW()
			  WHERE id = $5 AND deleted_at IS NULL`

	result, err := db.Exec(query, class.Name, class.EducationLevel, class.Stream, class.TeacherID, class.ID)
	if err != nil {
		return fmt.Errorf("failed to update class: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("class", class.ID)
	}

	return nil
}

// DeleteClass soft deletes a class. Classes with enrolled students are kept.
func DeleteClass(db *sql.DB, classID string) error {
	var studentCount int
	err := db.QueryRow("SELECT COUNT(*) FROM students WHERE class_id = $1 AND is_active = true AND deleted_at IS NULL", classID).Scan(&studentCount)
	if err != nil {
		return fmt.Errorf("failed to check class students: %w", err)
	}
	if studentCount > 0 {
		return models.NewInvalidOperationError("delete class", fmt.Sprintf("class still has %d active students", studentCount))
	}

	query := `UPDATE classes
			  SET is_active = false, deleted_at = NOW(), updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`

	result, err := db.Exec(query, classID)
	if err != nil {
		return fmt.Errorf("failed to delete class: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("class", classID)
	}

	return nil
}

func GetClassStatistics(db *sql.DB, classID string) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalStudents int
	err := db.QueryRow("SELECT COUNT(*) FROM students WHERE class_id = $1 AND is_active = true AND deleted_at IS NULL", classID).Scan(&totalStudents)
	if err != nil {
		totalStudents = 0
	}

	var maleStudents int
	err = db.QueryRow("SELECT COUNT(*) FROM students WHERE class_id = $1 AND is_active = true AND deleted_at IS NULL AND gender = 'male'", classID).Scan(&maleStudents)
	if err != nil {
		maleStudents = 0
	}

	var femaleStudents int
	err = db.QueryRow("SELECT COUNT(*) FROM students WHERE class_id = $1 AND is_active = true AND deleted_at IS NULL AND gender = 'female'", classID).Scan(&femaleStudents)
	if err != nil {
		femaleStudents = 0
	}

	stats["total_students"] = totalStudents
	stats["male_students"] = maleStudents
	stats["female_students"] = femaleStudents

	return stats, nil
}
