package reports

import (
	"database/sql"
	"fmt"
	"time"

	"shulepro/app/database"
	"shulepro/app/models"
)

// GetReportCard assembles a student's full report for one term and
// assessment. Deferred composite marks appear with a nil percentage so the
// card can show them as pending instead of silently dropping the subject.
func GetReportCard(db *sql.DB, studentID, termID, assessmentTypeID string) (*models.ReportCard, error) {
	student, err := database.GetStudentByID(db, studentID)
	if err != nil {
		return nil, err
	}

	term, err := database.GetTermByID(db, termID)
	if err != nil {
		return nil, err
	}

	assessmentType, err := database.GetAssessmentTypeByID(db, assessmentTypeID)
	if err != nil {
		return nil, err
	}

	grades, err := database.GetAllGrades(db)
	if err != nil {
		return nil, err
	}

	card := &models.ReportCard{
		Student:        student,
		Term:           term,
		AssessmentType: assessmentType,
		Subjects:       []models.SubjectMarkLine{},
		GeneratedAt:    time.Now(),
	}
	if student.Class != nil {
		card.ClassName = student.Class.DisplayName()
	}

	query := `SELECT m.id, m.subject_id, s.name, s.code, s.is_composite, m.percentage
			  FROM marks m
			  JOIN subjects s ON m.subject_id = s.id
			  WHERE m.student_id = $1 AND m.term_id = $2 AND m.assessment_type_id = $3
			  AND s.deleted_at IS NULL
			  ORDER BY s.name`

	rows, err := db.Query(query, studentID, termID, assessmentTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report card marks: %w", err)
	}
	defer rows.Close()

	markIDs := make(map[string]int) // mark ID -> index into card.Subjects
	for rows.Next() {
		var markID string
		var line models.SubjectMarkLine
		var percentage sql.NullFloat64
		err := rows.Scan(&markID, &line.SubjectID, &line.SubjectName, &line.SubjectCode,
			&line.IsComposite, &percentage)
		if err != nil {
			continue
		}

		if percentage.Valid {
			pct := percentage.Float64
			line.Percentage = &pct
			line.Aggregated = true
			if grade := models.GradeFor(grades, pct); grade != nil {
				line.GradeName = &grade.Name
			}
		}

		markIDs[markID] = len(card.Subjects)
		card.Subjects = append(card.Subjects, line)
	}

	if err := attachComponentLines(db, studentID, termID, assessmentTypeID, markIDs, card.Subjects); err != nil {
		return nil, err
	}

	average := averageOf(card.Subjects)
	if average != nil {
		card.AveragePct = average
		if grade := models.GradeFor(grades, *average); grade != nil {
			card.OverallGrade = &grade.Name
		}
	}

	return card, nil
}

// attachComponentLines loads component scores for the composite lines on a
// report card in one query.
func attachComponentLines(db *sql.DB, studentID, termID, assessmentTypeID string, markIDs map[string]int, lines []models.SubjectMarkLine) error {
	if len(markIDs) == 0 {
		return nil
	}

	query := `SELECT cm.mark_id, cm.id, cm.component_id, cm.raw_mark, cm.max_raw_mark, cm.percentage,
			  cm.created_at, cm.updated_at, sc.name, sc.code, sc.weight
			  FROM component_marks cm
			  JOIN marks m ON cm.mark_id = m.id
			  JOIN subject_components sc ON cm.component_id = sc.id
			  WHERE m.student_id = $1 AND m.term_id = $2 AND m.assessment_type_id = $3
			  ORDER BY sc.position, sc.name`

	rows, err := db.Query(query, studentID, termID, assessmentTypeID)
	if err != nil {
		return fmt.Errorf("failed to fetch report card components: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var markID string
		var cmr models.ComponentMarkResponse
		err := rows.Scan(&markID, &cmr.ID, &cmr.ComponentID, &cmr.RawMark, &cmr.MaxRawMark,
			&cmr.Percentage, &cmr.CreatedAt, &cmr.UpdatedAt,
			&cmr.ComponentName, &cmr.ComponentCode, &cmr.Weight)
		if err != nil {
			continue
		}
		cmr.MarkID = markID

		if idx, ok := markIDs[markID]; ok {
			lines[idx].Components = append(lines[idx].Components, cmr)
		}
	}

	return nil
}

// GetClassMarkSheet builds the class-wide matrix of subject percentages for
// one term and assessment, ranked by average.
func GetClassMarkSheet(db *sql.DB, classID, termID, assessmentTypeID string) (*models.MarkSheet, error) {
	class, err := database.GetClassByID(db, classID)
	if err != nil {
		return nil, err
	}

	term, err := database.GetTermByID(db, termID)
	if err != nil {
		return nil, err
	}

	assessmentType, err := database.GetAssessmentTypeByID(db, assessmentTypeID)
	if err != nil {
		return nil, err
	}

	students, err := database.GetStudentsByClass(db, classID)
	if err != nil {
		return nil, err
	}

	grades, err := database.GetAllGrades(db)
	if err != nil {
		return nil, err
	}

	sheet := &models.MarkSheet{
		Class:          class,
		Term:           term,
		AssessmentType: assessmentType,
		Subjects:       []*models.Subject{},
		Rows:           []models.MarkSheetRow{},
		GeneratedAt:    time.Now(),
	}

	// Columns are the subjects offered at this class's level
	allSubjects, err := database.GetAllSubjects(db)
	if err != nil {
		return nil, err
	}
	for _, subject := range allSubjects {
		if subject.EducationLevel == class.EducationLevel {
			sheet.Subjects = append(sheet.Subjects, subject)
		}
	}

	if len(students) == 0 || len(sheet.Subjects) == 0 {
		return sheet, nil
	}

	query := `SELECT m.student_id, m.subject_id, m.percentage
			  FROM marks m
			  JOIN students st ON m.student_id = st.id
			  WHERE st.class_id = $1 AND m.term_id = $2 AND m.assessment_type_id = $3
			  AND st.deleted_at IS NULL`

	rows, err := db.Query(query, classID, termID, assessmentTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mark sheet marks: %w", err)
	}
	defer rows.Close()

	type cellKey struct{ studentID, subjectID string }
	percentages := make(map[cellKey]*float64)
	for rows.Next() {
		var studentID, subjectID string
		var percentage sql.NullFloat64
		if err := rows.Scan(&studentID, &subjectID, &percentage); err != nil {
			continue
		}
		if percentage.Valid {
			pct := percentage.Float64
			percentages[cellKey{studentID, subjectID}] = &pct
		} else {
			percentages[cellKey{studentID, subjectID}] = nil
		}
	}

	for _, student := range students {
		row := models.MarkSheetRow{
			StudentID:   student.ID,
			StudentName: student.FullName(),
			AdmissionNo: student.AdmissionNo,
			Cells:       make([]models.MarkSheetCell, 0, len(sheet.Subjects)),
		}

		for _, subject := range sheet.Subjects {
			cell := models.MarkSheetCell{SubjectID: subject.ID}
			if pct, ok := percentages[cellKey{student.ID, subject.ID}]; ok && pct != nil {
				cell.Percentage = pct
				if grade := models.GradeFor(grades, *pct); grade != nil {
					cell.GradeName = &grade.Name
				}
			}
			row.Cells = append(row.Cells, cell)
		}

		row.AveragePct = averageOfCells(row.Cells)
		sheet.Rows = append(sheet.Rows, row)
	}

	rankRows(sheet.Rows)

	return sheet, nil
}
