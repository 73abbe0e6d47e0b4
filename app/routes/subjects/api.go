package subjects

import (
	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"

	"github.com/gofiber/fiber/v2"
)

func SearchSubjectsAPI(c *fiber.Ctx) error {
	query := c.Query("q", "")

	var subjects []*models.Subject
	var err error

	if query == "" {
		subjects, err = database.GetAllSubjects(config.GetDB())
	} else {
		subjects, err = database.SearchSubjects(config.GetDB(), query)
	}

	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to search subjects"})
	}

	return c.JSON(fiber.Map{
		"subjects": subjects,
		"count":    len(subjects),
	})
}

func GetSubjectsAPI(c *fiber.Ctx) error {
	subjects, err := database.GetAllSubjects(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch subjects"})
	}

	// Optional filters for the catalog views
	level := c.Query("education_level")
	composite := c.Query("composite")
	if level != "" || composite != "" {
		filtered := make([]*models.Subject, 0, len(subjects))
		for _, subject := range subjects {
			if level != "" && string(subject.EducationLevel) != level {
				continue
			}
			if composite == "true" && !subject.IsComposite {
				continue
			}
			if composite == "false" && subject.IsComposite {
				continue
			}
			filtered = append(filtered, subject)
		}
		subjects = filtered
	}

	return c.JSON(fiber.Map{
		"subjects": subjects,
		"count":    len(subjects),
	})
}

func GetSubjectAPI(c *fiber.Ctx) error {
	subjectID := c.Params("id")

	subject, err := database.GetSubjectByID(config.GetDB(), subjectID)
	if err != nil {
		return err
	}

	return c.JSON(subject)
}

// LookupSubjectAPI finds a subject by name and education level, the way
// mark entry screens resolve what a teacher typed.
func LookupSubjectAPI(c *fiber.Ctx) error {
	name := c.Query("name")
	level := c.Query("education_level")

	if name == "" || level == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name and education_level are required"})
	}

	educationLevel := models.EducationLevel(level)
	if !educationLevel.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown education level"})
	}

	subject, err := database.GetSubjectByNameLevel(config.GetDB(), name, educationLevel)
	if err != nil {
		return err
	}

	return c.JSON(subject)
}

func CreateSubjectAPI(c *fiber.Ctx) error {
	var request struct {
		Name           string `json:"name"`
		Code           string `json:"code"`
		EducationLevel string `json:"education_level"`
		MaxRawMark     int    `json:"max_raw_mark"`
		Components     []struct {
			Name       string  `json:"name"`
			Code       string  `json:"code"`
			Weight     float64 `json:"weight"`
			MaxRawMark int     `json:"max_raw_mark"`
			Position   int     `json:"position"`
		} `json:"components"`
	}

	if err := c.BodyParser(&request); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if request.Name == "" || request.Code == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Name and code are required"})
	}

	educationLevel := models.EducationLevel(request.EducationLevel)
	if !educationLevel.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown education level"})
	}

	subject := &models.Subject{
		Name:           request.Name,
		Code:           request.Code,
		EducationLevel: educationLevel,
		MaxRawMark:     request.MaxRawMark,
		IsComposite:    len(request.Components) > 0,
	}
	if subject.MaxRawMark == 0 {
		subject.MaxRawMark = 100
	}

	for _, comp := range request.Components {
		component, err := models.NewSubjectComponent("", comp.Name, comp.Code, comp.Weight, comp.MaxRawMark, comp.Position)
		if err != nil {
			return err
		}
		subject.Components = append(subject.Components, component)
	}

	if err := database.CreateSubjectWithComponents(config.GetDB(), subject); err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Subject created successfully",
		"subject": subject,
	})
}

func UpdateSubjectAPI(c *fiber.Ctx) error {
	subjectID := c.Params("id")

	existing, err := database.GetSubjectByID(config.GetDB(), subjectID)
	if err != nil {
		return err
	}

	var request struct {
		Name           *string `json:"name"`
		Code           *string `json:"code"`
		EducationLevel *string `json:"education_level"`
		MaxRawMark     *int    `json:"max_raw_mark"`
		IsActive       *bool   `json:"is_active"`
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
	if request.EducationLevel != nil {
		level := models.EducationLevel(*request.EducationLevel)
		if !level.Valid() {
			return c.Status(400).JSON(fiber.Map{"error": "Unknown education level"})
		}
		existing.EducationLevel = level
	}
	if request.MaxRawMark != nil {
		existing.MaxRawMark = *request.MaxRawMark
	}
	if request.IsActive != nil {
		existing.IsActive = *request.IsActive
	}

	if err := models.Validate(existing); err != nil {
		return err
	}

	if err := database.UpdateSubject(config.GetDB(), existing); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Subject updated successfully",
		"subject": existing,
	})
}

func DeleteSubjectAPI(c *fiber.Ctx) error {
	subjectID := c.Params("id")

	if err := database.DeleteSubject(config.GetDB(), subjectID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Subject deleted successfully"})
}

// GetSubjectsWithComponentsAPI returns the whole catalog with component
// lists inlined, for the admin tree view.
func GetSubjectsWithComponentsAPI(c *fiber.Ctx) error {
	db := config.GetDB()

	query := `
		SELECT
			s.id as subject_id,
			s.name as subject_name,
			s.code as subject_code,
			s.education_level,
			s.is_composite,
			s.max_raw_mark,
			sc.id as component_id,
			sc.name as component_name,
			sc.code as component_code,
			sc.weight,
			sc.max_raw_mark as component_max
		FROM
			subjects s
		LEFT JOIN
			subject_components sc ON s.id = sc.subject_id AND sc.deleted_at IS NULL
		WHERE
			s.deleted_at IS NULL
		ORDER BY
			s.name, sc.position, sc.name;
	`

	rows, err := db.Query(query)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch subjects with components"})
	}
	defer rows.Close()

	subjectsMap := make(map[string]fiber.Map)
	var subjectsOrder []string

	for rows.Next() {
		var subjectID, subjectName, subjectCode, educationLevel string
		var isComposite bool
		var maxRawMark int
		var componentID, componentName, componentCode *string
		var weight *float64
		var componentMax *int

		if err := rows.Scan(&subjectID, &subjectName, &subjectCode, &educationLevel,
			&isComposite, &maxRawMark, &componentID, &componentName, &componentCode,
			&weight, &componentMax); err != nil {
			continue
		}

		if _, ok := subjectsMap[subjectID]; !ok {
			subjectsMap[subjectID] = fiber.Map{
				"id":              subjectID,
				"name":            subjectName,
				"code":            subjectCode,
				"education_level": educationLevel,
				"is_composite":    isComposite,
				"max_raw_mark":    maxRawMark,
				"components":      []fiber.Map{},
			}
			subjectsOrder = append(subjectsOrder, subjectID)
		}

		if componentID != nil {
			components := subjectsMap[subjectID]["components"].([]fiber.Map)
			subjectsMap[subjectID]["components"] = append(components, fiber.Map{
				"id":           *componentID,
				"name":         *componentName,
				"code":         *componentCode,
				"weight":       *weight,
				"max_raw_mark": *componentMax,
			})
		}
	}

	subjects := make([]fiber.Map, len(subjectsOrder))
	for i, subjectID := range subjectsOrder {
		subjects[i] = subjectsMap[subjectID]
	}

	return c.JSON(fiber.Map{
		"subjects": subjects,
		"count":    len(subjects),
	})
}
