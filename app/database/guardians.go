package database

import (
	"database/sql"
	"fmt"
	"shulepro/app/models"

	"github.com/lib/pq"
)

// LinkGuardian ties a parent user to a student
func LinkGuardian(db *sql.DB, link *models.GuardianLink) error {
	if err := models.Validate(link); err != nil {
		return err
	}

	query := `INSERT INTO guardians (user_id, student_id, relationship, is_primary, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := db.QueryRow(query, link.UserID, link.StudentID, link.Relationship, link.IsPrimary).Scan(
		&link.ID, &link.CreatedAt, &link.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return models.NewInvalidOperationError("link guardian", "guardian is already linked to this student")
		}
		return fmt.Errorf("failed to link guardian: %w", err)
	}

	return nil
}

func UnlinkGuardian(db *sql.DB, userID, studentID string) error {
	result, err := db.Exec(`DELETE FROM guardians WHERE user_id = $1 AND student_id = $2`, userID, studentID)
	if err != nil {
		return fmt.Errorf("failed to unlink guardian: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("guardian link", userID)
	}

	return nil
}

// GetGuardiansByStudent lists the guardian accounts linked to a student
func GetGuardiansByStudent(db *sql.DB, studentID string) ([]*models.GuardianLink, error) {
	query := `SELECT g.id, g.user_id, g.student_id, g.relationship, g.is_primary, g.created_at, g.updated_at,
			  u.first_name, u.last_name, u.email, u.phone
			  FROM guardians g
			  JOIN users u ON g.user_id = u.id
			  WHERE g.student_id = $1 AND u.is_active = true
			  ORDER BY g.is_primary DESC, u.first_name`

	rows, err := db.Query(query, studentID)
	if err != nil {
		return []*models.GuardianLink{}, nil
	}
	defer rows.Close()

	var links []*models.GuardianLink
	for rows.Next() {
		link := &models.GuardianLink{}
		user := &models.User{}
		err := rows.Scan(
			&link.ID, &link.UserID, &link.StudentID, &link.Relationship, &link.IsPrimary,
			&link.CreatedAt, &link.UpdatedAt,
			&user.FirstName, &user.LastName, &user.Email, &user.Phone,
		)
		if err != nil {
			continue
		}
		user.ID = link.UserID
		link.User = user
		links = append(links, link)
	}

	if links == nil {
		links = []*models.GuardianLink{}
	}

	return links, nil
}

// GetStudentsByGuardian lists the students a parent account can see
func GetStudentsByGuardian(db *sql.DB, userID string) ([]*models.Student, error) {
	query := `SELECT s.id, s.admission_no, s.first_name, s.last_name, s.gender, s.date_of_birth,
			  s.class_id, s.is_active, s.created_at, s.updated_at,
			  c.name as class_name, c.stream as class_stream, c.education_level
			  FROM students s
			  JOIN guardians g ON s.id = g.student_id
			  LEFT JOIN classes c ON s.class_id = c.id
			  WHERE g.user_id = $1 AND s.is_active = true AND s.deleted_at IS NULL
			  ORDER BY s.first_name, s.last_name`

	rows, err := db.Query(query, userID)
	if err != nil {
		return []*models.Student{}, nil
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student := &models.Student{}
		var gender *string
		var dob sql.NullTime
		var className, classStream, educationLevel *string
		err := rows.Scan(
			&student.ID, &student.AdmissionNo, &student.FirstName, &student.LastName,
			&gender, &dob, &student.ClassID, &student.IsActive,
			&student.CreatedAt, &student.UpdatedAt, &className, &classStream, &educationLevel,
		)
		if err != nil {
			continue
		}
		if gender != nil {
			g := models.Gender(*gender)
			student.Gender = &g
		}
		if dob.Valid {
			student.DateOfBirth = &models.CustomDate{Time: dob.Time}
		}
		if className != nil && student.ClassID != nil {
			student.Class = &models.Class{
				ID:     *student.ClassID,
				Name:   *className,
				Stream: classStream,
			}
			if educationLevel != nil {
				student.Class.EducationLevel = models.EducationLevel(*educationLevel)
			}
		}
		students = append(students, student)
	}

	if students == nil {
		students = []*models.Student{}
	}

	return students, nil
}

// IsGuardianOf reports whether the user is linked to the student
func IsGuardianOf(db *sql.DB, userID, studentID string) (bool, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM guardians WHERE user_id = $1 AND student_id = $2`,
		userID, studentID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check guardian link: %w", err)
	}
	return count > 0, nil
}
