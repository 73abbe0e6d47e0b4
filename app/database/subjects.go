package database

import (
	"database/sql"
	"fmt"
	"log"
	"shulepro/app/models"

	"github.com/lib/pq"
)

// GetAllSubjects gets active subjects with their component counts
func GetAllSubjects(db *sql.DB) ([]*models.Subject, error) {
	query := `SELECT s.id, s.name, s.code, s.education_level, s.is_composite, s.max_raw_mark,
			  s.is_active, s.created_at, s.updated_at,
			  COALESCE(c.component_count, 0) as component_count
			  FROM subjects s
			  LEFT JOIN (
				  SELECT subject_id, COUNT(*) as component_count
				  FROM subject_components
				  WHERE deleted_at IS NULL
				  GROUP BY subject_id
			  ) c ON s.id = c.subject_id
			  WHERE s.deleted_at IS NULL
			  ORDER BY s.education_level, s.name`

	rows, err := db.Query(query)
	if err != nil {
		return []*models.Subject{}, nil
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		subject := &models.Subject{}
		var componentCount int
		err := rows.Scan(
			&subject.ID, &subject.Name, &subject.Code, &subject.EducationLevel,
			&subject.IsComposite, &subject.MaxRawMark, &subject.IsActive,
			&subject.CreatedAt, &subject.UpdatedAt, &componentCount,
		)
		if err != nil {
			continue
		}

		// Dummy slice so templates can len() without another query
		if componentCount > 0 {
			subject.Components = make([]*models.SubjectComponent, componentCount)
		}

		subjects = append(subjects, subject)
	}

	if subjects == nil {
		subjects = []*models.Subject{}
	}

	return subjects, nil
}

// GetSubjectByID gets one subject with its full component list loaded.
// The returned snapshot is what the aggregator works from.
func GetSubjectByID(db *sql.DB, id string) (*models.Subject, error) {
	query := `SELECT id, name, code, education_level, is_composite, max_raw_mark, is_active, created_at, updated_at
			  FROM subjects WHERE id = $1 AND deleted_at IS NULL`

	subject := &models.Subject{}
	err := db.QueryRow(query, id).Scan(
		&subject.ID, &subject.Name, &subject.Code, &subject.EducationLevel,
		&subject.IsComposite, &subject.MaxRawMark, &subject.IsActive,
		&subject.CreatedAt, &subject.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("subject", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	components, err := ListComponents(db, subject.ID)
	if err != nil {
		return nil, err
	}
	subject.Components = components

	return subject, nil
}

// GetSubjectByNameLevel looks a subject up by name and education level.
// Matching is case-insensitive so "english" and "English" hit the same row.
func GetSubjectByNameLevel(db *sql.DB, name string, level models.EducationLevel) (*models.Subject, error) {
	query := `SELECT id, name, code, education_level, is_composite, max_raw_mark, is_active, created_at, updated_at
			  FROM subjects
			  WHERE LOWER(name) = LOWER($1) AND education_level = $2 AND deleted_at IS NULL`

	subject := &models.Subject{}
	err := db.QueryRow(query, name, level).Scan(
		&subject.ID, &subject.Name, &subject.Code, &subject.EducationLevel,
		&subject.IsComposite, &subject.MaxRawMark, &subject.IsActive,
		&subject.CreatedAt, &subject.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("subject", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	components, err := ListComponents(db, subject.ID)
	if err != nil {
		return nil, err
	}
	subject.Components = components

	return subject, nil
}

// SearchSubjects matches subjects by name or code
func SearchSubjects(db *sql.DB, search string) ([]*models.Subject, error) {
	query := `SELECT id, name, code, education_level, is_composite, max_raw_mark, is_active, created_at, updated_at
			  FROM subjects
			  WHERE deleted_at IS NULL
			  AND (LOWER(name) LIKE LOWER($1) OR LOWER(code) LIKE LOWER($1))
			  ORDER BY name`

	rows, err := db.Query(query, "%"+search+"%")
	if err != nil {
		return []*models.Subject{}, nil
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		subject := &models.Subject{}
		err := rows.Scan(
			&subject.ID, &subject.Name, &subject.Code, &subject.EducationLevel,
			&subject.IsComposite, &subject.MaxRawMark, &subject.IsActive,
			&subject.CreatedAt, &subject.UpdatedAt,
		)
		if err != nil {
			continue
		}
		subjects = append(subjects, subject)
	}

	if subjects == nil {
		subjects = []*models.Subject{}
	}

	return subjects, nil
}

// ListComponents returns a subject's active components ordered by
// position then name, so iteration order is stable everywhere.
func ListComponents(db *sql.DB, subjectID string) ([]*models.SubjectComponent, error) {
	query := `SELECT id, subject_id, name, code, weight, max_raw_mark, position, created_at, updated_at
			  FROM subject_components
			  WHERE subject_id = $1 AND deleted_at IS NULL
			  ORDER BY position, name`

	rows, err := db.Query(query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}
	defer rows.Close()

	var components []*models.SubjectComponent
	for rows.Next() {
		component := &models.SubjectComponent{}
		err := rows.Scan(
			&component.ID, &component.SubjectID, &component.Name, &component.Code,
			&component.Weight, &component.MaxRawMark, &component.Position,
			&component.CreatedAt, &component.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		components = append(components, component)
	}

	if components == nil {
		components = []*models.SubjectComponent{}
	}

	return components, nil
}

func GetComponentByID(db *sql.DB, componentID string) (*models.SubjectComponent, error) {
	query := `SELECT id, subject_id, name, code, weight, max_raw_mark, position, created_at, updated_at
			  FROM subject_components
			  WHERE id = $1 AND deleted_at IS NULL`

	component := &models.SubjectComponent{}
	err := db.QueryRow(query, componentID).Scan(
		&component.ID, &component.SubjectID, &component.Name, &component.Code,
		&component.Weight, &component.MaxRawMark, &component.Position,
		&component.CreatedAt, &component.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("component", componentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get component: %w", err)
	}

	return component, nil
}

// GetComponentsByIDs loads several components at once, for batch mark entry
func GetComponentsByIDs(db *sql.DB, componentIDs []string) ([]*models.SubjectComponent, error) {
	if len(componentIDs) == 0 {
		return []*models.SubjectComponent{}, nil
	}

	query := `SELECT id, subject_id, name, code, weight, max_raw_mark, position, created_at, updated_at
			  FROM subject_components
			  WHERE id = ANY($1) AND deleted_at IS NULL
			  ORDER BY position, name`

	rows, err := db.Query(query, pq.Array(componentIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get components: %w", err)
	}
	defer rows.Close()

	var components []*models.SubjectComponent
	for rows.Next() {
		component := &models.SubjectComponent{}
		err := rows.Scan(
			&component.ID, &component.SubjectID, &component.Name, &component.Code,
			&component.Weight, &component.MaxRawMark, &component.Position,
			&component.CreatedAt, &component.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		components = append(components, component)
	}

	return components, nil
}

// CreateSubjectWithComponents creates a subject and its components in one
// transaction. Component weights are validated and normalized first; a sum
// that is off by more than the tolerance is logged and corrected, not
// rejected.
func CreateSubjectWithComponents(db *sql.DB, subject *models.Subject) error {
	if err := models.Validate(subject); err != nil {
		return err
	}
	if err := subject.CheckComposite(); err != nil {
		return err
	}

	if subject.IsComposite {
		warning, err := models.NormalizeWeights(subject, subject.Components)
		if err != nil {
			return err
		}
		if warning != nil {
			log.Printf("Warning: %v", warning)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO subjects (name, code, education_level, is_composite, max_raw_mark, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	subject.IsActive = true
	err = tx.QueryRow(query, subject.Name, subject.Code, subject.EducationLevel, subject.IsComposite, subject.MaxRawMark).Scan(
		&subject.ID, &subject.CreatedAt, &subject.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return models.NewInvalidOperationError("create subject",
				fmt.Sprintf("subject %q already exists for %s", subject.Name, subject.EducationLevel))
		}
		return fmt.Errorf("failed to create subject: %w", err)
	}

	componentQuery := `INSERT INTO subject_components (subject_id, name, code, weight, max_raw_mark, position, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	for _, component := range subject.Components {
		component.SubjectID = subject.ID
		err = tx.QueryRow(componentQuery, subject.ID, component.Name, component.Code,
			component.Weight, component.MaxRawMark, component.Position).Scan(
			&component.ID, &component.CreatedAt, &component.UpdatedAt,
		)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return models.NewInvalidOperationError("create subject",
					fmt.Sprintf("duplicate component %q", component.Name))
			}
			return fmt.Errorf("failed to create component: %w", err)
		}
	}

	return tx.Commit()
}

// UpdateSubject updates the subject row only. Components are managed
// through the component CRUD below.
func UpdateSubject(db *sql.DB, subject *models.Subject) error {
	query := `UPDATE subjects
			  SET name = $1, code = $2, education_level = $3, max_raw_mark = $4, is_active = $5, updated_at = NOW()
			  WHERE id = $6 AND deleted_at IS NULL`

	result, err := db.Exec(query, subject.Name, subject.Code, subject.EducationLevel,
		subject.MaxRawMark, subject.IsActive, subject.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return models.NewInvalidOperationError("update subject",
				fmt.Sprintf("subject %q already exists for %s", subject.Name, subject.EducationLevel))
		}
		return fmt.Errorf("failed to update subject: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("subject", subject.ID)
	}

	return nil
}

// DeleteSubject soft deletes a subject and its components. Existing marks
// keep their rows; reports still resolve the name through the soft-deleted
// record.
func DeleteSubject(db *sql.DB, subjectID string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE subjects SET deleted_at = NOW(), is_active = false, updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`, subjectID)
	if err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("subject", subjectID)
	}

	_, err = tx.Exec(`UPDATE subject_components SET deleted_at = NOW(), updated_at = NOW()
			  WHERE subject_id = $1 AND deleted_at IS NULL`, subjectID)
	if err != nil {
		return fmt.Errorf("failed to delete subject components: %w", err)
	}

	return tx.Commit()
}

// AddComponent adds a component to an existing subject, flipping the
// subject to composite when it gets its first one.
func AddComponent(db *sql.DB, component *models.SubjectComponent) error {
	if err := models.Validate(component); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var isComposite bool
	err = tx.QueryRow(`SELECT is_composite FROM subjects WHERE id = $1 AND deleted_at IS NULL`,
		component.SubjectID).Scan(&isComposite)
	if err == sql.ErrNoRows {
		return models.NewNotFoundError("subject", component.SubjectID)
	}
	if err != nil {
		return fmt.Errorf("failed to check subject: %w", err)
	}

	query := `INSERT INTO subject_components (subject_id, name, code, weight, max_raw_mark, position, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err = tx.QueryRow(query, component.SubjectID, component.Name, component.Code,
		component.Weight, component.MaxRawMark, component.Position).Scan(
		&component.ID, &component.CreatedAt, &component.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return models.NewInvalidOperationError("add component",
				fmt.Sprintf("duplicate component %q", component.Name))
		}
		return fmt.Errorf("failed to add component: %w", err)
	}

	if !isComposite {
		if _, err := tx.Exec(`UPDATE subjects SET is_composite = true, updated_at = NOW() WHERE id = $1`,
			component.SubjectID); err != nil {
			return fmt.Errorf("failed to mark subject composite: %w", err)
		}
	}

	return tx.Commit()
}

func UpdateComponent(db *sql.DB, component *models.SubjectComponent) error {
	if err := models.Validate(component); err != nil {
		return err
	}

	query := `UPDATE subject_components
			  SET name = $1, code = $2, weight = $3, max_raw_mark = $4, position = $5, updated_at = NOW()
			  WHERE id = $6 AND deleted_at IS NULL`

	result, err := db.Exec(query, component.Name, component.Code, component.Weight,
		component.MaxRawMark, component.Position, component.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return models.NewInvalidOperationError("update component",
				fmt.Sprintf("duplicate component %q", component.Name))
		}
		return fmt.Errorf("failed to update component: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("component", component.ID)
	}

	return nil
}

// DeleteComponent soft deletes a component. A composite subject keeps at
// least one component; deleting the last one is refused so the composite
// invariant holds.
func DeleteComponent(db *sql.DB, componentID string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	component, err := GetComponentByID(db, componentID)
	if err != nil {
		return err
	}

	var remaining int
	err = tx.QueryRow(`SELECT COUNT(*) FROM subject_components
			  WHERE subject_id = $1 AND deleted_at IS NULL AND id <> $2`,
		component.SubjectID, componentID).Scan(&remaining)
	if err != nil {
		return fmt.Errorf("failed to count components: %w", err)
	}
	if remaining == 0 {
		return models.NewInvalidOperationError("delete component",
			"a composite subject must keep at least one component")
	}

	result, err := tx.Exec(`UPDATE subject_components SET deleted_at = NOW(), updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`, componentID)
	if err != nil {
		return fmt.Errorf("failed to delete component: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("component", componentID)
	}

	return tx.Commit()
}

// ListCompositeSubjects returns all composite subjects with components
// attached. The nightly weight audit sweeps over this list.
func ListCompositeSubjects(db *sql.DB) ([]*models.Subject, error) {
	query := `SELECT id, name, code, education_level, is_composite, max_raw_mark, is_active, created_at, updated_at
			  FROM subjects
			  WHERE is_composite = true AND deleted_at IS NULL
			  ORDER BY name`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list composite subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		subject := &models.Subject{}
		err := rows.Scan(
			&subject.ID, &subject.Name, &subject.Code, &subject.EducationLevel,
			&subject.IsComposite, &subject.MaxRawMark, &subject.IsActive,
			&subject.CreatedAt, &subject.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}

	for _, subject := range subjects {
		components, err := ListComponents(db, subject.ID)
		if err != nil {
			return nil, err
		}
		subject.Components = components
	}

	return subjects, nil
}
