package database

import (
	"database/sql"
	"fmt"
	"shulepro/app/models"
	"strings"
)

// StudentFilters represents filtering options for student listings
type StudentFilters struct {
	Search    string
	Status    string
	ClassID   string
	ClassIDs  string // comma-separated list of class IDs
	Gender    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

func studentFilterConditions(filters StudentFilters) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filters.Search != "" {
		searchPattern := "%" + strings.ToLower(filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf(`(
			LOWER(s.first_name) LIKE $%d
			OR LOWER(s.last_name) LIKE $%d
			OR LOWER(CONCAT(s.first_name, ' ', s.last_name)) LIKE $%d
			OR LOWER(s.admission_no) LIKE $%d
		)`, argIndex, argIndex, argIndex, argIndex))
		args = append(args, searchPattern)
		argIndex++
	}

	switch filters.Status {
	case "active":
		conditions = append(conditions, "s.is_active = true")
	case "inactive":
		conditions = append(conditions, "s.is_active = false")
	}

	if filters.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("s.class_id = $%d", argIndex))
		args = append(args, filters.ClassID)
		argIndex++
	} else if filters.ClassIDs != "" {
		classIDList := strings.Split(filters.ClassIDs, ",")
		placeholders := make([]string, len(classIDList))
		for i, classID := range classIDList {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, strings.TrimSpace(classID))
			argIndex++
		}
		conditions = append(conditions, fmt.Sprintf("s.class_id IN (%s)", strings.Join(placeholders, ",")))
	}

	if filters.Gender != "" {
		conditions = append(conditions, fmt.Sprintf("s.gender = $%d", argIndex))
		args = append(args, filters.Gender)
		argIndex++
	}

	return conditions, args
}

func studentOrderClause(filters StudentFilters) string {
	column := "s.first_name, s.last_name"
	switch filters.SortBy {
	case "admission_no":
		column = "s.admission_no"
	case "created_at":
		column = "s.created_at"
	case "class":
		column = "c.name, s.first_name"
	}
	direction := "ASC"
	if strings.EqualFold(filters.SortOrder, "desc") {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}

// GetStudentsWithFiltersAndPagination returns one page of students plus
// the unpaginated total for the same filters.
func GetStudentsWithFiltersAndPagination(db *sql.DB, filters StudentFilters) ([]*models.Student, int, error) {
	conditions, args := studentFilterConditions(filters)
	whereClause := " WHERE s.deleted_at IS NULL"
	if len(conditions) > 0 {
		whereClause += " AND " + strings.Join(conditions, " AND ")
	}

	countQuery := `SELECT COUNT(s.id)
			  FROM students s
			  LEFT JOIN classes c ON s.class_id = c.id` + whereClause

	var total int
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	dataQuery := `SELECT s.id, s.admission_no, s.first_name, s.last_name, s.gender, s.date_of_birth,
			  s.class_id, s.is_active, s.created_at, s.updated_at,
			  c.name as class_name, c.stream as class_stream, c.education_level
			  FROM students s
			  LEFT JOIN classes c ON s.class_id = c.id` + whereClause + studentOrderClause(filters)

	argIndex := len(args) + 1
	if filters.Limit > 0 {
		dataQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filters.Limit, filters.Offset)
	}

	rows, err := db.Query(dataQuery, args...)
	if err != nil {
		return nil, total, fmt.Errorf("failed to query students: %w", err)
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

	return students, total, nil
}

func GetStudentsByClass(db *sql.DB, classID string) ([]*models.Student, error) {
	query := `SELECT id, admission_no, first_name, last_name, gender, date_of_birth, class_id, is_active, created_at, updated_at
			  FROM students
			  WHERE class_id = $1 AND is_active = true AND deleted_at IS NULL
			  ORDER BY first_name, last_name`

	rows, err := db.Query(query, classID)
	if err != nil {
		return []*models.Student{}, nil
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student := &models.Student{}
		var gender *string
		var dob sql.NullTime
		err := rows.Scan(
			&student.ID, &student.AdmissionNo, &student.FirstName, &student.LastName,
			&gender, &dob, &student.ClassID,
			&student.IsActive, &student.CreatedAt, &student.UpdatedAt,
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
		students = append(students, student)
	}

	if students == nil {
		students = []*models.Student{}
	}

	return students, nil
}

func GetStudentByID(db *sql.DB, studentID string) (*models.Student, error) {
	query := `SELECT s.id, s.admission_no, s.first_name, s.last_name, s.gender, s.date_of_birth,
			  s.class_id, s.is_active, s.created_at, s.updated_at,
			  c.name as class_name, c.stream as class_stream, c.education_level
			  FROM students s
			  LEFT JOIN classes c ON s.class_id = c.id
			  WHERE s.id = $1 AND s.deleted_at IS NULL`

	student := &models.Student{}
	var gender *string
	var dob sql.NullTime
	var className, classStream, educationLevel *string
	err := db.QueryRow(query, studentID).Scan(
		&student.ID, &student.AdmissionNo, &student.FirstName, &student.LastName,
		&gender, &dob, &student.ClassID, &student.IsActive,
		&student.CreatedAt, &student.UpdatedAt, &className, &classStream, &educationLevel,
	)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("student", studentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
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

	return student, nil
}

func CreateStudent(db *sql.DB, student *models.Student) error {
	query := `INSERT INTO students (admission_no, first_name, last_name, gender, date_of_birth, class_id, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	var gender *string
	if student.Gender != nil {
		g := string(*student.Gender)
		gender = &g
	}
	var dob interface{}
	if student.DateOfBirth != nil {
		dob = student.DateOfBirth.Time
	}

	err := db.QueryRow(query, student.AdmissionNo, student.FirstName, student.LastName, gender, dob, student.ClassID).Scan(
		&student.ID, &student.CreatedAt, &student.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}

	student.IsActive = true
	return nil
}

func UpdateStudent(db *sql.DB, student *models.Student) error {
	query := `UPDATE students
			  SET admission_no = $1, first_name = $2, last_name = $3, gender = $4, date_of_birth = $5, class_id = $6, updated_at = NOW()
			  WHERE id = $7 AND deleted_at IS NULL`

	var gender *string
	if student.Gender != nil {
		g := string(*student.Gender)
		gender = &g
	}
	var dob interface{}
	if student.DateOfBirth != nil {
		dob = student.DateOfBirth.Time
	}

	result, err := db.Exec(query, student.AdmissionNo, student.FirstName, student.LastName, gender, dob, student.ClassID, student.ID)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("student", student.ID)
	}

	return nil
}

// DeleteStudent soft deletes a student record
func DeleteStudent(db *sql.DB, studentID string) error {
	query := `UPDATE students
			  SET is_active = false, deleted_at = NOW(), updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`

	result, err := db.Exec(query, studentID)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("student", studentID)
	}

	return nil
}

func GetStudentsStats(db *sql.DB) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalStudents int
	err := db.QueryRow("SELECT COUNT(*) FROM students WHERE is_active = true AND deleted_at IS NULL").Scan(&totalStudents)
	if err != nil {
		totalStudents = 0
	}
	stats["total_students"] = totalStudents

	var newThisMonth int
	err = db.QueryRow("SELECT COUNT(*) FROM students WHERE is_active = true AND deleted_at IS NULL AND created_at >= date_trunc('month', CURRENT_DATE)").Scan(&newThisMonth)
	if err != nil {
		newThisMonth = 0
	}
	stats["new_this_month"] = newThisMonth

	var withoutClass int
	err = db.QueryRow("SELECT COUNT(*) FROM students WHERE is_active = true AND deleted_at IS NULL AND class_id IS NULL").Scan(&withoutClass)
	if err != nil {
		withoutClass = 0
	}
	stats["without_class"] = withoutClass

	return stats, nil
}
