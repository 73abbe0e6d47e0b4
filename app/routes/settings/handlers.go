package settings

import (
	"time"

	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"

	"github.com/gofiber/fiber/v2"
)

func SettingsPageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)

		terms, err := database.GetAllTerms(config.GetDB())
		if err != nil {
			terms = []*models.Term{}
		}

		assessmentTypes, err := database.GetAllAssessmentTypes(config.GetDB())
		if err != nil {
			assessmentTypes = []*models.AssessmentType{}
		}

		grades, err := database.GetAllGrades(config.GetDB())
		if err != nil {
			grades = []*models.Grade{}
		}

		return c.Render("settings/index", fiber.Map{
			"Title":            "App Settings",
			"CurrentPage":      "settings",
			"FirstName":        user.FirstName,
			"LastName":         user.LastName,
			"Email":            user.Email,
			"user":             user,
			"Terms":            terms,
			"AssessmentTypes":  assessmentTypes,
			"Grades":           grades,
			"IncompletePolicy": string(config.MarksIncompletePolicy()),
		})
	}
}

// Term Handlers
func GetAllTermsHandler(c *fiber.Ctx) error {
	terms, err := database.GetAllTerms(config.GetDB())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load terms: " + err.Error()})
	}
	return c.JSON(terms)
}

func GetTermHandler(c *fiber.Ctx) error {
	term, err := database.GetTermByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(term)
}

func CreateTermHandler(c *fiber.Ctx) error {
	var term models.Term
	if err := c.BodyParser(&term); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := database.CreateTerm(config.GetDB(), &term); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(term)
}

func UpdateTermHandler(c *fiber.Ctx) error {
	var term models.Term
	if err := c.BodyParser(&term); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	term.ID = c.Params("id")
	if err := database.UpdateTerm(config.GetDB(), &term); err != nil {
		return err
	}

	return c.JSON(term)
}

func DeleteTermHandler(c *fiber.Ctx) error {
	if err := database.DeleteTerm(config.GetDB(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func SetCurrentTermHandler(c *fiber.Ctx) error {
	if err := database.SetCurrentTerm(config.GetDB(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Current term updated"})
}

// AutoSetCurrentTermHandler picks the term whose dates contain today and
// makes it current. Terms without dates are never auto-selected.
func AutoSetCurrentTermHandler(c *fiber.Ctx) error {
	terms, err := database.GetAllTerms(config.GetDB())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load terms: " + err.Error()})
	}

	now := time.Now()
	for _, term := range terms {
		if term.StartDate == nil || term.EndDate == nil {
			continue
		}
		if term.IsCurrentByDate(now) {
			if err := database.SetCurrentTerm(config.GetDB(), term.ID); err != nil {
				return err
			}
			return c.JSON(fiber.Map{
				"message": "Current term set to " + term.Label(),
				"term":    term,
			})
		}
	}

	return c.Status(404).JSON(fiber.Map{"error": "No term covers today's date"})
}

// Assessment Type Handlers
func GetAllAssessmentTypesHandler(c *fiber.Ctx) error {
	types, err := database.GetAllAssessmentTypes(config.GetDB())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load assessment types: " + err.Error()})
	}
	return c.JSON(types)
}

func CreateAssessmentTypeHandler(c *fiber.Ctx) error {
	var t models.AssessmentType
	if err := c.BodyParser(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := database.CreateAssessmentType(config.GetDB(), &t); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(t)
}

func UpdateAssessmentTypeHandler(c *fiber.Ctx) error {
	var t models.AssessmentType
	if err := c.BodyParser(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	t.ID = c.Params("id")
	if err := database.UpdateAssessmentType(config.GetDB(), &t); err != nil {
		return err
	}

	return c.JSON(t)
}

func DeleteAssessmentTypeHandler(c *fiber.Ctx) error {
	if err := database.DeleteAssessmentType(config.GetDB(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Grade Band Handlers
func GetAllGradesHandler(c *fiber.Ctx) error {
	grades, err := database.GetAllGrades(config.GetDB())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load grades: " + err.Error()})
	}
	return c.JSON(grades)
}

func CreateGradeHandler(c *fiber.Ctx) error {
	var grade models.Grade
	if err := c.BodyParser(&grade); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := database.CreateGrade(config.GetDB(), &grade); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(grade)
}

func UpdateGradeHandler(c *fiber.Ctx) error {
	var grade models.Grade
	if err := c.BodyParser(&grade); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	grade.ID = c.Params("id")
	if err := database.UpdateGrade(config.GetDB(), &grade); err != nil {
		return err
	}

	return c.JSON(grade)
}

func DeleteGradeHandler(c *fiber.Ctx) error {
	if err := database.DeleteGrade(config.GetDB(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SeedDefaultGradesHandler installs the stock CBC bands when none exist
func SeedDefaultGradesHandler(c *fiber.Ctx) error {
	if err := database.SeedDefaultGrades(config.GetDB()); err != nil {
		return err
	}

	grades, err := database.GetAllGrades(config.GetDB())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Grade bands are in place",
		"grades":  grades,
	})
}
