package subjects

import (
	"log"
	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"

	"github.com/gofiber/fiber/v2"
)

// GetComponentsAPI lists a subject's components in display order
func GetComponentsAPI(c *fiber.Ctx) error {
	subjectID := c.Params("id")

	components, err := database.ListComponents(config.GetDB(), subjectID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"components": components,
		"count":      len(components),
		"weight_sum": models.WeightSum(components),
	})
}

func AddComponentAPI(c *fiber.Ctx) error {
	subjectID := c.Params("id")

	var request struct {
		Name       string  `json:"name"`
		Code       string  `json:"code"`
		Weight     float64 `json:"weight"`
		MaxRawMark int     `json:"max_raw_mark"`
		Position   int     `json:"position"`
	}

	if err := c.BodyParser(&request); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	component, err := models.NewSubjectComponent(subjectID, request.Name, request.Code,
		request.Weight, request.MaxRawMark, request.Position)
	if err != nil {
		return err
	}

	if err := database.AddComponent(config.GetDB(), component); err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"message":   "Component added successfully",
		"component": component,
	})
}

func UpdateComponentAPI(c *fiber.Ctx) error {
	componentID := c.Params("componentId")

	existing, err := database.GetComponentByID(config.GetDB(), componentID)
	if err != nil {
		return err
	}

	var request struct {
		Name       *string  `json:"name"`
		Code       *string  `json:"code"`
		Weight     *float64 `json:"weight"`
		MaxRawMark *int     `json:"max_raw_mark"`
		Position   *int     `json:"position"`
	}

	if err := c.BodyParser(&request); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if request.Name != nil {
		existing.Name = *request.Name
	}
	if request.Code != nil {
		existing.Code = *request.Code
	}
	if request.Weight != nil {
		existing.Weight = *request.Weight
	}
	if request.MaxRawMark != nil {
		existing.MaxRawMark = *request.MaxRawMark
	}
	if request.Position != nil {
		existing.Position = *request.Position
	}

	if err := database.UpdateComponent(config.GetDB(), existing); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Component updated successfully",
		"component": existing,
	})
}

func DeleteComponentAPI(c *fiber.Ctx) error {
	componentID := c.Params("componentId")

	if err := database.DeleteComponent(config.GetDB(), componentID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Component deleted successfully"})
}

// ValidateWeightsAPI reports whether a subject's component weights sum to
// 1.0 within tolerance. The UI calls this before saving a weight change.
func ValidateWeightsAPI(c *fiber.Ctx) error {
	subjectID := c.Params("id")

	subject, err := database.GetSubjectByID(config.GetDB(), subjectID)
	if err != nil {
		return err
	}

	weightSum := models.WeightSum(subject.Components)
	valid := models.ValidateWeights(subject.Components)

	response := fiber.Map{
		"subject_id": subject.ID,
		"weight_sum": weightSum,
		"valid":      valid,
	}
	if !valid {
		warning := &models.ConsistencyWarning{
			SubjectID:   subject.ID,
			SubjectName: subject.Name,
			WeightSum:   weightSum,
		}
		response["warning"] = warning.Error()
	}

	return c.JSON(response)
}

// SaveComponentWeightsAPI rewrites all component weights for a subject in
// one transaction. Off-by-a-little sums are accepted and logged, the
// aggregator normalizes at read time; a sum that is not positive is
// rejected outright.
func SaveComponentWeightsAPI(c *fiber.Ctx) error {
	subjectID := c.Params("id")

	type WeightInput struct {
		ComponentID string  `json:"component_id"`
		Weight      float64 `json:"weight"`
	}

	var request struct {
		Weights []WeightInput `json:"weights"`
	}

	if err := c.BodyParser(&request); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if len(request.Weights) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "weights are required"})
	}

	totalWeight := 0.0
	for _, w := range request.Weights {
		if w.Weight <= 0 {
			return c.Status(400).JSON(fiber.Map{"error": "Each weight must be greater than zero"})
		}
		totalWeight += w.Weight
	}

	subject, err := database.GetSubjectByID(config.GetDB(), subjectID)
	if err != nil {
		return err
	}

	db := config.GetDB()
	tx, err := db.Begin()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to start transaction"})
	}

	for _, w := range request.Weights {
		result, err := tx.Exec(`UPDATE subject_components SET weight = $1, updated_at = NOW()
			WHERE id = $2 AND subject_id = $3 AND deleted_at IS NULL`,
			w.Weight, w.ComponentID, subjectID)
		if err != nil {
			tx.Rollback()
			log.Printf("Error saving weight: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "Failed to save weights"})
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			tx.Rollback()
			return c.Status(404).JSON(fiber.Map{"error": "Component not found on this subject"})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	response := fiber.Map{
		"message":    "Component weights saved successfully",
		"weight_sum": totalWeight,
	}

	if totalWeight < 1.0-models.WeightEpsilon || totalWeight > 1.0+models.WeightEpsilon {
		warning := &models.ConsistencyWarning{
			SubjectID:   subject.ID,
			SubjectName: subject.Name,
			WeightSum:   totalWeight,
		}
		log.Printf("Warning: %v", warning)
		response["warning"] = warning.Error()
	}

	return c.JSON(response)
}
