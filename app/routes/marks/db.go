package marks

import (
	"database/sql"
	"fmt"
	"log"
	"shulepro/app/database"
	"shulepro/app/models"

	"github.com/lib/pq"
)

// MarkScope identifies one mark slot: a student's result for a subject in
// a term under an assessment type.
type MarkScope struct {
	StudentID        string `json:"student_id"`
	SubjectID        string `json:"subject_id"`
	TermID           string `json:"term_id"`
	AssessmentTypeID string `json:"assessment_type_id"`
}

func (s MarkScope) validate() error {
	var fields []models.FieldError
	if s.StudentID == "" {
		fields = append(fields, models.FieldError{Field: "student_id", Message: "student_id is required"})
	}
	if s.SubjectID == "" {
		fields = append(fields, models.FieldError{Field: "subject_id", Message: "subject_id is required"})
	}
	if s.TermID == "" {
		fields = append(fields, models.FieldError{Field: "term_id", Message: "term_id is required"})
	}
	if s.AssessmentTypeID == "" {
		fields = append(fields, models.FieldError{Field: "assessment_type_id", Message: "assessment_type_id is required"})
	}
	if len(fields) > 0 {
		return models.NewValidationError("missing mark identifiers", fields...)
	}
	return nil
}

// mapFKError turns foreign key violations from mark inserts into
// validation errors the caller can answer with a 400.
func mapFKError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return models.NewValidationError("unknown student, subject, term, or assessment type")
	}
	return err
}

// ensureMarkRow creates the mark row for the scope if missing and returns
// its id. The numeric columns stay untouched here; aggregation fills them.
func ensureMarkRow(tx *sql.Tx, scope MarkScope) (string, error) {
	query := `
		INSERT INTO marks (student_id, subject_id, term_id, assessment_type_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, subject_id, term_id, assessment_type_id)
		DO UPDATE SET updated_at = NOW()
		RETURNING id
	`

	var markID string
	err := tx.QueryRow(query, scope.StudentID, scope.SubjectID, scope.TermID, scope.AssessmentTypeID).Scan(&markID)
	if err != nil {
		return "", mapFKError(err)
	}
	return markID, nil
}

func readComponentEntries(tx *sql.Tx, markID string) ([]*models.ComponentMark, error) {
	query := `
		SELECT id, mark_id, component_id, raw_mark, max_raw_mark, percentage, created_at, updated_at
		FROM component_marks
		WHERE mark_id = $1
	`

	rows, err := tx.Query(query, markID)
	if err != nil {
		return nil, fmt.Errorf("failed to read component marks: %w", err)
	}
	defer rows.Close()

	var entries []*models.ComponentMark
	for rows.Next() {
		entry := &models.ComponentMark{}
		err := rows.Scan(&entry.ID, &entry.MarkID, &entry.ComponentID, &entry.RawMark,
			&entry.MaxRawMark, &entry.Percentage, &entry.CreatedAt, &entry.UpdatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// recomputeMark refreshes the mark row's aggregate columns from its
// component entries. Under the defer policy an incomplete subject either
// fails (strict, the explicit aggregate call) or parks the row with NULL
// numeric columns (entry flow), so partial entry is never lost.
func recomputeMark(tx *sql.Tx, markID string, subject *models.Subject, entries []*models.ComponentMark, policy models.IncompletePolicy, strict bool) error {
	aggregate, err := ComputeAggregate(subject, entries, policy)
	if err == ErrSubjectIncomplete {
		if strict {
			return err
		}
		_, err = tx.Exec(`UPDATE marks SET raw_mark = NULL, max_raw_mark = NULL, percentage = NULL, updated_at = NOW() WHERE id = $1`, markID)
		if err != nil {
			return fmt.Errorf("failed to park incomplete mark: %w", err)
		}
		return nil
	}
	if err != nil {
		return err
	}

	// The aggregate row keeps the uploaded scale: raw and max are summed over
	// the subject's components, percentage is the weighted blend. A student
	// on 48/60 and 28/40 reads as 76/100 at 76.0%.
	active := make(map[string]bool, len(subject.Components))
	maxTotal := 0
	for _, component := range subject.Components {
		active[component.ID] = true
		maxTotal += component.MaxRawMark
	}
	rawTotal := 0.0
	for _, entry := range entries {
		if active[entry.ComponentID] {
			rawTotal += entry.RawMark
		}
	}

	_, err = tx.Exec(`UPDATE marks SET raw_mark = $1, max_raw_mark = $2, percentage = $3, updated_at = NOW() WHERE id = $4`,
		models.Round2(rawTotal), maxTotal, aggregate, markID)
	if err != nil {
		return fmt.Errorf("failed to store aggregate: %w", err)
	}
	return nil
}

// UpsertComponentMark records one component score and refreshes the
// subject-level aggregate, all in a single transaction. Re-sending the
// same entry is a no-op; sending a new raw mark overwrites the old one.
func UpsertComponentMark(db *sql.DB, scope MarkScope, componentID string, rawMark float64, policy models.IncompletePolicy) (*models.Mark, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	if componentID == "" {
		return nil, models.NewValidationError("missing mark identifiers",
			models.FieldError{Field: "component_id", Message: "component_id is required"})
	}

	subject, err := database.GetSubjectByID(db, scope.SubjectID)
	if err != nil {
		return nil, err
	}
	if !subject.IsComposite {
		return nil, models.NewInvalidOperationError("enter component mark",
			fmt.Sprintf("subject %q is not composite, enter the mark directly", subject.Name))
	}

	var component *models.SubjectComponent
	for _, candidate := range subject.Components {
		if candidate.ID == componentID {
			component = candidate
			break
		}
	}
	if component == nil {
		return nil, models.NewNotFoundError("component", componentID)
	}

	if err := models.CheckRawMark(rawMark, component.MaxRawMark); err != nil {
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	markID, err := ensureMarkRow(tx, scope)
	if err != nil {
		return nil, err
	}

	percentage := models.Percent(rawMark, component.MaxRawMark)
	upsert := `
		INSERT INTO component_marks (mark_id, component_id, raw_mark, max_raw_mark, percentage)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (mark_id, component_id)
		DO UPDATE SET raw_mark = EXCLUDED.raw_mark, max_raw_mark = EXCLUDED.max_raw_mark,
			percentage = EXCLUDED.percentage, updated_at = NOW()
	`
	if _, err := tx.Exec(upsert, markID, componentID, rawMark, component.MaxRawMark, percentage); err != nil {
		return nil, mapFKError(err)
	}

	entries, err := readComponentEntries(tx, markID)
	if err != nil {
		return nil, err
	}

	if err := recomputeMark(tx, markID, subject, entries, policy, false); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit mark: %w", err)
	}

	return GetMark(db, scope)
}

// UpsertSimpleMark records the mark for a non-composite subject.
func UpsertSimpleMark(db *sql.DB, scope MarkScope, rawMark float64) (*models.Mark, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}

	subject, err := database.GetSubjectByID(db, scope.SubjectID)
	if err != nil {
		return nil, err
	}

	percentage, err := ComputeSimple(subject, rawMark)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO marks (student_id, subject_id, term_id, assessment_type_id, raw_mark, max_raw_mark, percentage)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (student_id, subject_id, term_id, assessment_type_id)
		DO UPDATE SET raw_mark = EXCLUDED.raw_mark, max_raw_mark = EXCLUDED.max_raw_mark,
			percentage = EXCLUDED.percentage, updated_at = NOW()
	`
	if _, err := db.Exec(query, scope.StudentID, scope.SubjectID, scope.TermID, scope.AssessmentTypeID,
		rawMark, subject.MaxRawMark, percentage); err != nil {
		return nil, mapFKError(err)
	}

	return GetMark(db, scope)
}

// GetMark loads the mark for a scope with its component entries attached.
func GetMark(db *sql.DB, scope MarkScope) (*models.Mark, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}

	query := `
		SELECT id, student_id, subject_id, term_id, assessment_type_id,
			raw_mark, max_raw_mark, percentage, created_at, updated_at
		FROM marks
		WHERE student_id = $1 AND subject_id = $2 AND term_id = $3 AND assessment_type_id = $4
	`

	mark := &models.Mark{}
	var rawMark, percentage sql.NullFloat64
	var maxRawMark sql.NullInt64
	err := db.QueryRow(query, scope.StudentID, scope.SubjectID, scope.TermID, scope.AssessmentTypeID).Scan(
		&mark.ID, &mark.StudentID, &mark.SubjectID, &mark.TermID, &mark.AssessmentTypeID,
		&rawMark, &maxRawMark, &percentage, &mark.CreatedAt, &mark.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("mark", scope.StudentID+"/"+scope.SubjectID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mark: %w", err)
	}

	if percentage.Valid {
		mark.RawMark = rawMark.Float64
		mark.MaxRawMark = int(maxRawMark.Int64)
		mark.Percentage = percentage.Float64
		mark.Aggregated = true
	}

	componentMarks, err := GetComponentMarks(db, scope)
	if err != nil {
		return nil, err
	}
	mark.ComponentMarks = componentMarks

	return mark, nil
}

// GetComponentMarks returns the component entries recorded for a scope,
// ordered by the catalog's component order.
func GetComponentMarks(db *sql.DB, scope MarkScope) ([]*models.ComponentMark, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}

	query := `
		SELECT cm.id, cm.mark_id, cm.component_id, cm.raw_mark, cm.max_raw_mark, cm.percentage,
			cm.created_at, cm.updated_at,
			sc.name, sc.code, sc.weight, sc.position
		FROM component_marks cm
		JOIN marks m ON cm.mark_id = m.id
		JOIN subject_components sc ON cm.component_id = sc.id
		WHERE m.student_id = $1 AND m.subject_id = $2 AND m.term_id = $3 AND m.assessment_type_id = $4
		ORDER BY sc.position, sc.name
	`

	rows, err := db.Query(query, scope.StudentID, scope.SubjectID, scope.TermID, scope.AssessmentTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch component marks: %w", err)
	}
	defer rows.Close()

	var entries []*models.ComponentMark
	for rows.Next() {
		entry := &models.ComponentMark{}
		component := &models.SubjectComponent{}
		err := rows.Scan(
			&entry.ID, &entry.MarkID, &entry.ComponentID, &entry.RawMark, &entry.MaxRawMark,
			&entry.Percentage, &entry.CreatedAt, &entry.UpdatedAt,
			&component.Name, &component.Code, &component.Weight, &component.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan component mark: %w", err)
		}
		component.ID = entry.ComponentID
		entry.Component = component
		entries = append(entries, entry)
	}

	if entries == nil {
		entries = []*models.ComponentMark{}
	}

	return entries, nil
}

// Aggregate recomputes the stored aggregate for a scope from whatever
// component entries exist. Under the defer policy an incomplete subject
// fails with ErrSubjectIncomplete and the stored mark is left untouched.
func Aggregate(db *sql.DB, scope MarkScope, policy models.IncompletePolicy) (*models.Mark, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}

	subject, err := database.GetSubjectByID(db, scope.SubjectID)
	if err != nil {
		return nil, err
	}
	if !subject.IsComposite {
		return nil, models.NewInvalidOperationError("aggregate",
			fmt.Sprintf("subject %q is not composite", subject.Name))
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	markID, err := ensureMarkRow(tx, scope)
	if err != nil {
		return nil, err
	}

	entries, err := readComponentEntries(tx, markID)
	if err != nil {
		return nil, err
	}

	if err := recomputeMark(tx, markID, subject, entries, policy, true); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit aggregate: %w", err)
	}

	return GetMark(db, scope)
}

// DeleteComponentMark removes one component entry and refreshes the
// aggregate. When the last entry goes, the mark row goes with it so the
// scope reads as never entered.
func DeleteComponentMark(db *sql.DB, scope MarkScope, componentID string, policy models.IncompletePolicy) error {
	if err := scope.validate(); err != nil {
		return err
	}

	subject, err := database.GetSubjectByID(db, scope.SubjectID)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var markID string
	err = tx.QueryRow(`SELECT id FROM marks WHERE student_id = $1 AND subject_id = $2 AND term_id = $3 AND assessment_type_id = $4`,
		scope.StudentID, scope.SubjectID, scope.TermID, scope.AssessmentTypeID).Scan(&markID)
	if err == sql.ErrNoRows {
		return models.NewNotFoundError("mark", scope.StudentID+"/"+scope.SubjectID)
	}
	if err != nil {
		return fmt.Errorf("failed to find mark: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM component_marks WHERE mark_id = $1 AND component_id = $2`, markID, componentID)
	if err != nil {
		return fmt.Errorf("failed to delete component mark: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.NewNotFoundError("component mark", componentID)
	}

	entries, err := readComponentEntries(tx, markID)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		if _, err := tx.Exec(`DELETE FROM marks WHERE id = $1`, markID); err != nil {
			return fmt.Errorf("failed to delete empty mark: %w", err)
		}
		return tx.Commit()
	}

	if err := recomputeMark(tx, markID, subject, entries, policy, false); err != nil {
		return err
	}

	return tx.Commit()
}

// BatchEntry is one student's raw mark in a batch save.
type BatchEntry struct {
	StudentID string  `json:"student_id"`
	RawMark   float64 `json:"raw_mark"`
}

// BatchUpsertComponentMarks saves a whole class column for one component
// in a single transaction. All rows land or none do.
func BatchUpsertComponentMarks(db *sql.DB, subjectID, termID, assessmentTypeID, componentID string, entries []BatchEntry, policy models.IncompletePolicy) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	subject, err := database.GetSubjectByID(db, subjectID)
	if err != nil {
		return 0, err
	}
	if !subject.IsComposite {
		return 0, models.NewInvalidOperationError("enter component marks",
			fmt.Sprintf("subject %q is not composite", subject.Name))
	}

	var component *models.SubjectComponent
	for _, candidate := range subject.Components {
		if candidate.ID == componentID {
			component = candidate
			break
		}
	}
	if component == nil {
		return 0, models.NewNotFoundError("component", componentID)
	}

	for _, entry := range entries {
		if err := models.CheckRawMark(entry.RawMark, component.MaxRawMark); err != nil {
			return 0, err
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ensureStmt, err := tx.Prepare(`
		INSERT INTO marks (student_id, subject_id, term_id, assessment_type_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, subject_id, term_id, assessment_type_id)
		DO UPDATE SET updated_at = NOW()
		RETURNING id
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare mark statement: %w", err)
	}
	defer ensureStmt.Close()

	upsertStmt, err := tx.Prepare(`
		INSERT INTO component_marks (mark_id, component_id, raw_mark, max_raw_mark, percentage)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (mark_id, component_id)
		DO UPDATE SET raw_mark = EXCLUDED.raw_mark, max_raw_mark = EXCLUDED.max_raw_mark,
			percentage = EXCLUDED.percentage, updated_at = NOW()
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare component statement: %w", err)
	}
	defer upsertStmt.Close()

	saved := 0
	for _, entry := range entries {
		scope := MarkScope{
			StudentID:        entry.StudentID,
			SubjectID:        subjectID,
			TermID:           termID,
			AssessmentTypeID: assessmentTypeID,
		}
		if err := scope.validate(); err != nil {
			return 0, err
		}

		var markID string
		if err := ensureStmt.QueryRow(scope.StudentID, scope.SubjectID, scope.TermID, scope.AssessmentTypeID).Scan(&markID); err != nil {
			return 0, mapFKError(err)
		}

		percentage := models.Percent(entry.RawMark, component.MaxRawMark)
		if _, err := upsertStmt.Exec(markID, componentID, entry.RawMark, component.MaxRawMark, percentage); err != nil {
			return 0, mapFKError(err)
		}

		componentEntries, err := readComponentEntries(tx, markID)
		if err != nil {
			return 0, err
		}
		if err := recomputeMark(tx, markID, subject, componentEntries, policy, false); err != nil {
			return 0, err
		}

		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}

	return saved, nil
}

// ReaggregateSubject recomputes every stored mark for a subject, term by
// term. The weight audit runs this after a catalog change so stored
// aggregates track the current weights. Rows that fail are logged and
// skipped, the sweep keeps going.
func ReaggregateSubject(db *sql.DB, subjectID string, policy models.IncompletePolicy) (int, error) {
	subject, err := database.GetSubjectByID(db, subjectID)
	if err != nil {
		return 0, err
	}
	if !subject.IsComposite {
		return 0, nil
	}

	rows, err := db.Query(`SELECT id FROM marks WHERE subject_id = $1`, subjectID)
	if err != nil {
		return 0, fmt.Errorf("failed to list marks: %w", err)
	}

	var markIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		markIDs = append(markIDs, id)
	}
	rows.Close()

	updated := 0
	for _, markID := range markIDs {
		if err := reaggregateOne(db, markID, subject, policy); err != nil {
			log.Printf("Failed to re-aggregate mark %s: %v", markID, err)
			continue
		}
		updated++
	}

	return updated, nil
}

func reaggregateOne(db *sql.DB, markID string, subject *models.Subject, policy models.IncompletePolicy) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	entries, err := readComponentEntries(tx, markID)
	if err != nil {
		return err
	}

	if err := recomputeMark(tx, markID, subject, entries, policy, false); err != nil {
		return err
	}

	return tx.Commit()
}
