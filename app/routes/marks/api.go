package marks

import (
	"database/sql"
	"errors"
	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
)

// UpsertComponentMarkAPI records one component score and returns the
// refreshed mark, aggregate included when it could be computed.
func UpsertComponentMarkAPI(c *fiber.Ctx, db *sql.DB) error {
	var request struct {
		StudentID        string  `json:"student_id"`
		SubjectID        string  `json:"subject_id"`
		TermID           string  `json:"term_id"`
		AssessmentTypeID string  `json:"assessment_type_id"`
		ComponentID      string  `json:"component_id"`
		RawMark          float64 `json:"raw_mark"`
	}

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	scope := MarkScope{
		StudentID:        request.StudentID,
		SubjectID:        request.SubjectID,
		TermID:           request.TermID,
		AssessmentTypeID: request.AssessmentTypeID,
	}

	mark, err := UpsertComponentMark(db, scope, request.ComponentID, request.RawMark, config.MarksIncompletePolicy())
	if err != nil {
		return err
	}

	return c.JSON(mark)
}

// UpsertSimpleMarkAPI records the mark for a non-composite subject.
func UpsertSimpleMarkAPI(c *fiber.Ctx, db *sql.DB) error {
	var request struct {
		StudentID        string  `json:"student_id"`
		SubjectID        string  `json:"subject_id"`
		TermID           string  `json:"term_id"`
		AssessmentTypeID string  `json:"assessment_type_id"`
		RawMark          float64 `json:"raw_mark"`
	}

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	scope := MarkScope{
		StudentID:        request.StudentID,
		SubjectID:        request.SubjectID,
		TermID:           request.TermID,
		AssessmentTypeID: request.AssessmentTypeID,
	}

	mark, err := UpsertSimpleMark(db, scope, request.RawMark)
	if err != nil {
		return err
	}

	return c.JSON(mark)
}

// BatchComponentMarksAPI saves a class column of raw marks for one
// component in a single transaction.
func BatchComponentMarksAPI(c *fiber.Ctx, db *sql.DB) error {
	var request struct {
		SubjectID        string       `json:"subject_id"`
		TermID           string       `json:"term_id"`
		AssessmentTypeID string       `json:"assessment_type_id"`
		ComponentID      string       `json:"component_id"`
		Entries          []BatchEntry `json:"entries"`
	}

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if request.SubjectID == "" || request.TermID == "" || request.AssessmentTypeID == "" || request.ComponentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "subject_id, term_id, assessment_type_id and component_id are required",
		})
	}

	saved, err := BatchUpsertComponentMarks(db, request.SubjectID, request.TermID, request.AssessmentTypeID,
		request.ComponentID, request.Entries, config.MarksIncompletePolicy())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Marks saved successfully",
		"count":   saved,
	})
}

// AggregateAPI recomputes the aggregate for one scope on demand. With the
// defer policy an incomplete subject answers 409 rather than storing a
// partial figure.
func AggregateAPI(c *fiber.Ctx, db *sql.DB) error {
	var request struct {
		StudentID        string `json:"student_id"`
		SubjectID        string `json:"subject_id"`
		TermID           string `json:"term_id"`
		AssessmentTypeID string `json:"assessment_type_id"`
	}

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	scope := MarkScope{
		StudentID:        request.StudentID,
		SubjectID:        request.SubjectID,
		TermID:           request.TermID,
		AssessmentTypeID: request.AssessmentTypeID,
	}

	mark, err := Aggregate(db, scope, config.MarksIncompletePolicy())
	if errors.Is(err, ErrSubjectIncomplete) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Subject still has components without marks",
		})
	}
	if err != nil {
		return err
	}

	return c.JSON(mark)
}

func scopeFromQuery(c *fiber.Ctx) MarkScope {
	return MarkScope{
		StudentID:        c.Query("student_id"),
		SubjectID:        c.Query("subject_id"),
		TermID:           c.Query("term_id"),
		AssessmentTypeID: c.Query("assessment_type_id"),
	}
}

// GetMarkAPI returns the stored mark for a scope
func GetMarkAPI(c *fiber.Ctx, db *sql.DB) error {
	mark, err := GetMark(db, scopeFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(mark)
}

// GetComponentMarksAPI lists the component entries for a scope in
// catalog order
func GetComponentMarksAPI(c *fiber.Ctx, db *sql.DB) error {
	entries, err := GetComponentMarks(db, scopeFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

// DeleteComponentMarkAPI removes one component entry and refreshes the
// aggregate
func DeleteComponentMarkAPI(c *fiber.Ctx, db *sql.DB) error {
	componentID := c.Params("componentId")
	if componentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "componentId is required",
		})
	}

	if err := DeleteComponentMark(db, scopeFromQuery(c), componentID, config.MarksIncompletePolicy()); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Component mark deleted",
	})
}

// EntryGridAPI returns everything the entry page needs for one class and
// subject: the component columns, the roster, and whatever marks exist.
func EntryGridAPI(c *fiber.Ctx, db *sql.DB) error {
	classID := c.Query("class_id")
	subjectID := c.Query("subject_id")
	termID := c.Query("term_id")
	assessmentTypeID := c.Query("assessment_type_id")

	if classID == "" || subjectID == "" || termID == "" || assessmentTypeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "class_id, subject_id, term_id and assessment_type_id are required",
		})
	}

	subject, err := database.GetSubjectByID(db, subjectID)
	if err != nil {
		return err
	}

	students, err := database.GetStudentsByClass(db, classID)
	if err != nil {
		return err
	}

	grid, err := buildEntryGrid(db, subject, students, termID, assessmentTypeID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"subject":  subject,
		"students": grid,
	})
}

// entryGridRow is one student line on the entry grid
type entryGridRow struct {
	Student    *models.Student                  `json:"student"`
	Entries    map[string]*models.ComponentMark `json:"entries"`
	RawMark    *float64                         `json:"raw_mark"`
	Percentage *float64                         `json:"percentage"`
	Aggregated bool                             `json:"aggregated"`
}

func buildEntryGrid(db *sql.DB, subject *models.Subject, students []*models.Student, termID, assessmentTypeID string) ([]*entryGridRow, error) {
	rowsByStudent := make(map[string]*entryGridRow, len(students))
	grid := make([]*entryGridRow, 0, len(students))
	studentIDs := make([]string, 0, len(students))
	for _, student := range students {
		row := &entryGridRow{
			Student: student,
			Entries: map[string]*models.ComponentMark{},
		}
		grid = append(grid, row)
		rowsByStudent[student.ID] = row
		studentIDs = append(studentIDs, student.ID)
	}
	if len(studentIDs) == 0 {
		return grid, nil
	}

	query := `
		SELECT m.student_id, m.raw_mark, m.percentage,
			cm.id, cm.mark_id, cm.component_id, cm.raw_mark, cm.max_raw_mark, cm.percentage
		FROM marks m
		LEFT JOIN component_marks cm ON m.id = cm.mark_id
		WHERE m.subject_id = $1 AND m.term_id = $2 AND m.assessment_type_id = $3
		AND m.student_id = ANY($4)
	`

	rows, err := db.Query(query, subject.ID, termID, assessmentTypeID, pq.Array(studentIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var studentID string
		var rawMark, percentage sql.NullFloat64
		var entryID, markID, componentID sql.NullString
		var entryRaw, entryPct sql.NullFloat64
		var entryMax sql.NullInt64

		err := rows.Scan(&studentID, &rawMark, &percentage,
			&entryID, &markID, &componentID, &entryRaw, &entryMax, &entryPct)
		if err != nil {
			return nil, err
		}

		row, ok := rowsByStudent[studentID]
		if !ok {
			continue
		}

		if percentage.Valid {
			row.RawMark = &rawMark.Float64
			row.Percentage = &percentage.Float64
			row.Aggregated = true
		}

		if entryID.Valid && componentID.Valid {
			row.Entries[componentID.String] = &models.ComponentMark{
				ID:          entryID.String,
				MarkID:      markID.String,
				ComponentID: componentID.String,
				RawMark:     entryRaw.Float64,
				MaxRawMark:  int(entryMax.Int64),
				Percentage:  entryPct.Float64,
			}
		}
	}

	return grid, nil
}
