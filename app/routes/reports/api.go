package reports

import (
	"database/sql"

	"shulepro/app/database"
	"shulepro/app/models"

	"github.com/gofiber/fiber/v2"
)

// resolveTermID falls back to the current term when the request does not
// name one.
func resolveTermID(db *sql.DB, termID string) (string, error) {
	if termID != "" {
		return termID, nil
	}
	term, err := database.GetCurrentTerm(db)
	if err != nil {
		return "", models.NewValidationError("no term selected and no current term is set",
			models.FieldError{Field: "term_id", Message: "required"})
	}
	return term.ID, nil
}

// GetReportCardAPI returns a student's report card for one term and
// assessment type.
func GetReportCardAPI(c *fiber.Ctx, db *sql.DB) error {
	studentID := c.Params("studentId")
	assessmentTypeID := c.Query("assessment_type_id")
	if assessmentTypeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "assessment_type_id is required"})
	}

	termID, err := resolveTermID(db, c.Query("term_id"))
	if err != nil {
		return err
	}

	card, err := GetReportCard(db, studentID, termID, assessmentTypeID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"report_card": card,
	})
}

// GetMarkSheetAPI returns the ranked class matrix for one term and
// assessment type.
func GetMarkSheetAPI(c *fiber.Ctx, db *sql.DB) error {
	classID := c.Params("classId")
	assessmentTypeID := c.Query("assessment_type_id")
	if assessmentTypeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "assessment_type_id is required"})
	}

	termID, err := resolveTermID(db, c.Query("term_id"))
	if err != nil {
		return err
	}

	sheet, err := GetClassMarkSheet(db, classID, termID, assessmentTypeID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"mark_sheet": sheet,
	})
}
