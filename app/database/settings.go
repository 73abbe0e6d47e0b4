package database

import (
	"database/sql"
	"fmt"
	"shulepro/app/models"

	"github.com/lib/pq"
)

// Terms

func GetAllTerms(db *sql.DB) ([]*models.Term, error) {
	query := `SELECT id, name, year, start_date, end_date, is_current, created_at, updated_at
			  FROM terms WHERE deleted_at IS NULL
			  ORDER BY year DESC, name`

	rows, err := db.Query(query)
	if err != nil {
		return []*models.Term{}, nil
	}
	defer rows.Close()

	var terms []*models.Term
	for rows.Next() {
		term := &models.Term{}
		var start, end sql.NullTime
		err := rows.Scan(&term.ID, &term.Name, &term.Year, &start, &end,
			&term.IsCurrent, &term.CreatedAt, &term.UpdatedAt)
		if err != nil {
			continue
		}
		if start.Valid {
			term.StartDate = &models.CustomDate{Time: start.Time}
		}
		if end.Valid {
			term.EndDate = &models.CustomDate{Time: end.Time}
		}
		terms = append(terms, term)
	}

	if terms == nil {
		terms = []*models.Term{}
	}

	return terms, nil
}

func GetTermByID(db *sql.DB, termID string) (*models.Term, error) {
	query := `SELECT id, name, year, start_date, end_date, is_current, created_at, updated_at
			  FROM terms WHERE id = $1 AND deleted_at IS NULL`

	term := &models.Term{}
	var start, end sql.NullTime
	err := db.QueryRow(query, termID).Scan(&term.ID, &term.Name, &term.Year, &start, &end,
		&term.IsCurrent, &term.CreatedAt, &term.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("term", termID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get term: %w", err)
	}
	if start.Valid {
		term.StartDate = &models.CustomDate{Time: start.Time}
	}
	if end.Valid {
		term.EndDate = &models.CustomDate{Time: end.Time}
	}

	return term, nil
}

// GetCurrentTerm returns the term flagged current, if any
func GetCurrentTerm(db *sql.DB) (*models.Term, error) {
	query := `SELECT id, name, year, start_date, end_date, is_current, created_at, updated_at
			  FROM terms WHERE is_current = true AND deleted_at IS NULL
			  ORDER BY year DESC LIMIT 1`

	term := &models.Term{}
	var start, end sql.NullTime
	err := db.QueryRow(query).Scan(&term.ID, &term.Name, &term.Year, &start, &end,
		&term.IsCurrent, &term.CreatedAt, &term.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("current term", "none")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current term: %w", err)
	}
	if start.Valid {
		term.StartDate = &models.CustomDate{Time: start.Time}
	}
	if end.Valid {
		term.EndDate = &models.CustomDate{Time: end.Time}
	}

	return term, nil
}

func CreateTerm(db *sql.DB, term *models.Term) error {
	if err := models.Validate(term); err != nil {
		return err
	}
	if err := term.CheckDates(); err != nil {
		return err
	}

	query := `INSERT INTO terms (name, year, start_date, end_date, is_current, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	var start, end interface{}
	if term.StartDate != nil {
		start = term.StartDate.Time
	}
	if term.EndDate != nil {
		end = term.EndDate.Time
	}

	err := db.QueryRow(query, term.Name, term.Year, start, end, term.IsCurrent).Scan(
		&term.ID, &term.CreatedAt, &term.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return models.NewInvalidOperationError("create term",
				fmt.Sprintf("term %q already exists for %d", term.Name, term.Year))
		}
		return fmt.Errorf("failed to create term: %w", err)
	}

	return nil
}

func UpdateTerm(db *sql.DB, term *models.Term) error {
	if err := term.CheckDates(); err != nil {
		return err
	}

	query := `UPDATE terms
			  SET name = $1, year = $2, start_date = $3, end_date = $4, is_current = $5, updated_at = NOW()
			  WHERE id = $6 AND deleted_at IS NULL`

	var start, end interface{}
	if term.StartDate != nil {
		start = term.StartDate.Time
	}
	if term.EndDate != nil {
		end = term.EndDate.Time
	}

	result, err := db.Exec(query, term.Name, term.Year, start, end, term.IsCurrent, term.ID)
	if err != nil {
		return fmt.Errorf("failed to update term: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("term", term.ID)
	}

	return nil
}

// SetCurrentTerm flips the current flag to the given term only
func SetCurrentTerm(db *sql.DB, termID string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE terms SET is_current = false, updated_at = NOW() WHERE is_current = true`); err != nil {
		return fmt.Errorf("failed to clear current term: %w", err)
	}

	result, err := tx.Exec(`UPDATE terms SET is_current = true, updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`, termID)
	if err != nil {
		return fmt.Errorf("failed to set current term: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("term", termID)
	}

	return tx.Commit()
}

func DeleteTerm(db *sql.DB, termID string) error {
	var markCount int
	err := db.QueryRow(`SELECT COUNT(*) FROM marks WHERE term_id = $1`, termID).Scan(&markCount)
	if err != nil {
		return fmt.Errorf("failed to check term marks: %w", err)
	}
	if markCount > 0 {
		return models.NewInvalidOperationError("delete term",
			fmt.Sprintf("term has %d marks recorded", markCount))
	}

	result, err := db.Exec(`UPDATE terms SET deleted_at = NOW(), updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`, termID)
	if err != nil {
		return fmt.Errorf("failed to delete term: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("term", termID)
	}

	return nil
}

// Assessment types

func GetAllAssessmentTypes(db *sql.DB) ([]*models.AssessmentType, error) {
	query := `SELECT id, name, weight, position, is_active, created_at, updated_at
			  FROM assessment_types WHERE deleted_at IS NULL
			  ORDER BY position, name`

	rows, err := db.Query(query)
	if err != nil {
		return []*models.AssessmentType{}, nil
	}
	defer rows.Close()

	var types []*models.AssessmentType
	for rows.Next() {
		at := &models.AssessmentType{}
		err := rows.Scan(&at.ID, &at.Name, &at.Weight, &at.Position,
			&at.IsActive, &at.CreatedAt, &at.UpdatedAt)
		if err != nil {
			continue
		}
		types = append(types, at)
	}

	if types == nil {
		types = []*models.AssessmentType{}
	}

	return types, nil
}

func GetAssessmentTypeByID(db *sql.DB, id string) (*models.AssessmentType, error) {
	query := `SELECT id, name, weight, position, is_active, created_at, updated_at
			  FROM assessment_types WHERE id = $1 AND deleted_at IS NULL`

	at := &models.AssessmentType{}
	err := db.QueryRow(query, id).Scan(&at.ID, &at.Name, &at.Weight, &at.Position,
		&at.IsActive, &at.CreatedAt, &at.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("assessment type", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment type: %w", err)
	}

	return at, nil
}

func CreateAssessmentType(db *sql.DB, at *models.AssessmentType) error {
	if err := models.Validate(at); err != nil {
		return err
	}

	query := `INSERT INTO assessment_types (name, weight, position, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	at.IsActive = true
	err := db.QueryRow(query, at.Name, at.Weight, at.Position).Scan(
		&at.ID, &at.CreatedAt, &at.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return models.NewInvalidOperationError("create assessment type",
				fmt.Sprintf("assessment type %q already exists", at.Name))
		}
		return fmt.Errorf("failed to create assessment type: %w", err)
	}

	return nil
}

func UpdateAssessmentType(db *sql.DB, at *models.AssessmentType) error {
	query := `UPDATE assessment_types
			  SET name = $1, weight = $2, position = $3, is_active = $4, updated_at = NOW()
			  WHERE id = $5 AND deleted_at IS NULL`

	result, err := db.Exec(query, at.Name, at.Weight, at.Position, at.IsActive, at.ID)
	if err != nil {
		return fmt.Errorf("failed to update assessment type: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("assessment type", at.ID)
	}

	return nil
}

func DeleteAssessmentType(db *sql.DB, id string) error {
	var markCount int
	err := db.QueryRow(`SELECT COUNT(*) FROM marks WHERE assessment_type_id = $1`, id).Scan(&markCount)
	if err != nil {
		return fmt.Errorf("failed to check assessment marks: %w", err)
	}
	if markCount > 0 {
		return models.NewInvalidOperationError("delete assessment type",
			fmt.Sprintf("assessment type has %d marks recorded", markCount))
	}

	result, err := db.Exec(`UPDATE assessment_types SET deleted_at = NOW(), updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assessment type: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("assessment type", id)
	}

	return nil
}

// Grades

func GetAllGrades(db *sql.DB) ([]*models.Grade, error) {
	query := `SELECT id, name, description, min_marks, max_marks, points, is_active, created_at, updated_at
			  FROM grades WHERE deleted_at IS NULL
			  ORDER BY min_marks DESC`

	rows, err := db.Query(query)
	if err != nil {
		return []*models.Grade{}, nil
	}
	defer rows.Close()

	var grades []*models.Grade
	for rows.Next() {
		grade := &models.Grade{}
		err := rows.Scan(&grade.ID, &grade.Name, &grade.Description, &grade.MinMarks,
			&grade.MaxMarks, &grade.Points, &grade.IsActive, &grade.CreatedAt, &grade.UpdatedAt)
		if err != nil {
			continue
		}
		grades = append(grades, grade)
	}

	if grades == nil {
		grades = []*models.Grade{}
	}

	return grades, nil
}

func CreateGrade(db *sql.DB, grade *models.Grade) error {
	if err := models.Validate(grade); err != nil {
		return err
	}

	existing, err := GetAllGrades(db)
	if err != nil {
		return err
	}
	if err := models.ValidateGradeBands(append(existing, grade)); err != nil {
		return err
	}

	query := `INSERT INTO grades (name, description, min_marks, max_marks, points, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	grade.IsActive = true
	err = db.QueryRow(query, grade.Name, grade.Description, grade.MinMarks, grade.MaxMarks, grade.Points).Scan(
		&grade.ID, &grade.CreatedAt, &grade.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return models.NewInvalidOperationError("create grade",
				fmt.Sprintf("grade %q already exists", grade.Name))
		}
		return fmt.Errorf("failed to create grade: %w", err)
	}

	return nil
}

func UpdateGrade(db *sql.DB, grade *models.Grade) error {
	existing, err := GetAllGrades(db)
	if err != nil {
		return err
	}
	others := make([]*models.Grade, 0, len(existing))
	for _, g := range existing {
		if g.ID != grade.ID {
			others = append(others, g)
		}
	}
	if err := models.ValidateGradeBands(append(others, grade)); err != nil {
		return err
	}

	query := `UPDATE grades
			  SET name = $1, description = $2, min_marks = $3, max_marks = $4, points = $5, is_active = $6, updated_at = NOW()
			  WHERE id = $7 AND deleted_at IS NULL`

	result, err := db.Exec(query, grade.Name, grade.Description, grade.MinMarks,
		grade.MaxMarks, grade.Points, grade.IsActive, grade.ID)
	if err != nil {
		return fmt.Errorf("failed to update grade: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("grade", grade.ID)
	}

	return nil
}

func DeleteGrade(db *sql.DB, gradeID string) error {
	result, err := db.Exec(`UPDATE grades SET deleted_at = NOW(), is_active = false, updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`, gradeID)
	if err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("grade", gradeID)
	}

	return nil
}

// SeedDefaultGrades inserts the stock CBC bands when the table is empty
func SeedDefaultGrades(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM grades WHERE deleted_at IS NULL`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count grades: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, grade := range models.DefaultGrades() {
		if err := CreateGrade(db, grade); err != nil {
			return err
		}
	}
	return nil
}
