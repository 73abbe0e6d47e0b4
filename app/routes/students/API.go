package students

import (
	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"

	"github.com/gofiber/fiber/v2"
)

func GetStudentsAPI(c *fiber.Ctx) error {
	filters := database.StudentFilters{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		ClassID:   c.Query("class_id"),
		ClassIDs:  c.Query("class_ids"),
		Gender:    c.Query("gender"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order", "asc"),
		Limit:     c.QueryInt("limit", 0),
		Offset:    c.QueryInt("offset", 0),
	}

	students, totalCount, err := database.GetStudentsWithFiltersAndPagination(config.GetDB(), filters)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"students":    students,
		"count":       len(students),
		"total_count": totalCount,
	})
}

// GetStudentsStatsAPI returns roster statistics for the students page
func GetStudentsStatsAPI(c *fiber.Ctx) error {
	stats, err := database.GetStudentsStats(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   "Failed to fetch students statistics",
			"details": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// GetStudentsTableAPI returns students formatted for table display with
// filtering and pagination pushed down to the database.
func GetStudentsTableAPI(c *fiber.Ctx) error {
	filters := database.StudentFilters{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		ClassID:   c.Query("class_id"),
		ClassIDs:  c.Query("class_ids"),
		Gender:    c.Query("gender"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order", "asc"),
		Limit:     c.QueryInt("limit", 10),
		Offset:    c.QueryInt("offset", 0),
	}

	db := config.GetDB()
	students, totalCount, err := database.GetStudentsWithFiltersAndPagination(db, filters)
	if err != nil {
		return err
	}

	studentIDs := make([]string, 0, len(students))
	for _, student := range students {
		studentIDs = append(studentIDs, student.ID)
	}
	contacts, err := primaryGuardianContacts(db, studentIDs)
	if err != nil {
		// Contact info is decorative on the roster, render without it
		contacts = map[string]guardianContact{}
	}

	type StudentTableData struct {
		ID            string `json:"id"`
		AdmissionNo   string `json:"admission_no"`
		FirstName     string `json:"first_name"`
		LastName      string `json:"last_name"`
		FullName      string `json:"full_name"`
		ClassID       string `json:"class_id,omitempty"`
		ClassName     string `json:"class_name,omitempty"`
		GuardianName  string `json:"guardian_name,omitempty"`
		GuardianPhone string `json:"guardian_phone,omitempty"`
		GuardianEmail string `json:"guardian_email,omitempty"`
		Status        string `json:"status"`
		Initials      string `json:"initials"`
		DateOfBirth   string `json:"date_of_birth,omitempty"`
		Gender        string `json:"gender,omitempty"`
	}

	var tableData []StudentTableData
	for _, student := range students {
		className := ""
		classID := ""
		if student.Class != nil {
			className = student.Class.DisplayName()
			classID = student.Class.ID
		} else if student.ClassID != nil {
			classID = *student.ClassID
		}

		dateOfBirth := ""
		if student.DateOfBirth != nil {
			dateOfBirth = student.DateOfBirth.Format("2006-01-02")
		}

		gender := ""
		if student.Gender != nil {
			gender = string(*student.Gender)
		}

		status := "Active"
		if !student.IsActive {
			status = "Inactive"
		}

		contact := contacts[student.ID]

		tableData = append(tableData, StudentTableData{
			ID:            student.ID,
			AdmissionNo:   student.AdmissionNo,
			FirstName:     student.FirstName,
			LastName:      student.LastName,
			FullName:      student.FullName(),
			ClassID:       classID,
			ClassName:     className,
			GuardianName:  contact.Name,
			GuardianPhone: contact.Phone,
			GuardianEmail: contact.Email,
			Status:        status,
			Initials:      initialsFor(student.FirstName, student.LastName),
			DateOfBirth:   dateOfBirth,
			Gender:        gender,
		})
	}

	return c.JSON(fiber.Map{
		"students":    tableData,
		"count":       len(tableData),
		"total_count": totalCount,
		"has_more":    filters.Offset+filters.Limit < totalCount,
		"next_offset": filters.Offset + filters.Limit,
	})
}

// GetStudentByIDAPI returns a single student by ID
func GetStudentByIDAPI(c *fiber.Ctx) error {
	studentID := c.Params("id")

	student, err := database.GetStudentByID(config.GetDB(), studentID)
	if err != nil {
		return err
	}

	className := ""
	if student.Class != nil {
		className = student.Class.DisplayName()
	}

	response := fiber.Map{
		"student": fiber.Map{
			"id":           student.ID,
			"admission_no": student.AdmissionNo,
			"first_name":   student.FirstName,
			"last_name":    student.LastName,
			"date_of_birth": func() string {
				if student.DateOfBirth != nil {
					return student.DateOfBirth.Format("2006-01-02")
				}
				return ""
			}(),
			"gender": func() string {
				if student.Gender != nil {
					return string(*student.Gender)
				}
				return ""
			}(),
			"class_id": func() string {
				if student.ClassID != nil {
					return *student.ClassID
				}
				return ""
			}(),
			"class_name": className,
			"is_active":  student.IsActive,
		},
	}

	guardians, err := database.GetGuardiansByStudent(config.GetDB(), studentID)
	if err == nil && len(guardians) > 0 {
		response["guardians"] = guardians
	}

	return c.JSON(response)
}

// GetStudentsByClassAPI returns the active roster of one class
func GetStudentsByClassAPI(c *fiber.Ctx) error {
	classID := c.Query("class_id")
	if classID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Class ID parameter is required"})
	}

	students, err := database.GetStudentsByClass(config.GetDB(), classID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"students": students,
		"count":    len(students),
		"class_id": classID,
	})
}

func CreateStudentAPI(c *fiber.Ctx) error {
	var req struct {
		AdmissionNo          string `json:"admission_no"` // auto-generated if empty
		FirstName            string `json:"first_name"`
		LastName             string `json:"last_name"`
		DateOfBirth          string `json:"date_of_birth"`
		Gender               string `json:"gender"`
		ClassID              string `json:"class_id"`
		GuardianID           string `json:"guardian_id"`
		GuardianRelationship string `json:"guardian_relationship"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	if req.FirstName == "" || req.LastName == "" {
		return c.Status(400).JSON(fiber.Map{"error": "First name and last name are required"})
	}

	admissionNo := req.AdmissionNo
	if admissionNo == "" {
		generated, err := GenerateAdmissionNo(config.GetDB())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to generate admission number"})
		}
		admissionNo = generated
	}

	student := &models.Student{
		AdmissionNo: admissionNo,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	}

	if req.DateOfBirth != "" {
		dob := &models.CustomDate{}
		if err := dob.UnmarshalJSON([]byte(`"` + req.DateOfBirth + `"`)); err == nil {
			student.DateOfBirth = dob
		}
	}
	if req.Gender != "" {
		gender := models.Gender(req.Gender)
		student.Gender = &gender
	}
	if req.ClassID != "" {
		student.ClassID = &req.ClassID
	}

	if err := models.Validate(student); err != nil {
		return err
	}

	if err := database.CreateStudent(config.GetDB(), student); err != nil {
		return err
	}

	if req.GuardianID != "" {
		relationship := models.RelationshipType(req.GuardianRelationship)
		if req.GuardianRelationship == "" {
			relationship = models.Guardian
		}
		link := &models.GuardianLink{
			UserID:       req.GuardianID,
			StudentID:    student.ID,
			Relationship: relationship,
			IsPrimary:    true,
		}
		if err := database.LinkGuardian(config.GetDB(), link); err != nil {
			return err
		}
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Student created successfully",
		"student": student,
	})
}

// UpdateStudentAPI updates an existing student
func UpdateStudentAPI(c *fiber.Ctx) error {
	studentID := c.Params("id")

	var req struct {
		AdmissionNo string `json:"admission_no"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		DateOfBirth string `json:"date_of_birth"`
		Gender      string `json:"gender"`
		ClassID     string `json:"class_id"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	student, err := database.GetStudentByID(config.GetDB(), studentID)
	if err != nil {
		return err
	}

	if req.AdmissionNo != "" {
		student.AdmissionNo = req.AdmissionNo
	}
	if req.FirstName != "" {
		student.FirstName = req.FirstName
	}
	if req.LastName != "" {
		student.LastName = req.LastName
	}
	if req.DateOfBirth != "" {
		dob := &models.CustomDate{}
		if err := dob.UnmarshalJSON([]byte(`"` + req.DateOfBirth + `"`)); err == nil {
			student.DateOfBirth = dob
		}
	}
	if req.Gender != "" {
		gender := models.Gender(req.Gender)
		student.Gender = &gender
	}
	if req.ClassID != "" {
		student.ClassID = &req.ClassID
	}

	if err := models.Validate(student); err != nil {
		return err
	}

	if err := database.UpdateStudent(config.GetDB(), student); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

// DeleteStudentAPI soft-deletes a student; their marks stay on record
func DeleteStudentAPI(c *fiber.Ctx) error {
	studentID := c.Params("id")

	if err := database.DeleteStudent(config.GetDB(), studentID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Student deleted successfully",
	})
}

// SearchStudentsAPI searches for students by name or admission number
func SearchStudentsAPI(c *fiber.Ctx) error {
	query := c.Query("q", "")

	if query == "" {
		return c.JSON(fiber.Map{
			"students": []interface{}{},
			"count":    0,
		})
	}

	filters := database.StudentFilters{
		Search: query,
		Status: "active",
		Limit:  20,
	}
	students, _, err := database.GetStudentsWithFiltersAndPagination(config.GetDB(), filters)
	if err != nil {
		return c.JSON(fiber.Map{
			"students": []interface{}{},
			"count":    0,
		})
	}

	type SearchResult struct {
		ID          string `json:"id"`
		AdmissionNo string `json:"admission_no"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		FullName    string `json:"full_name"`
		ClassName   string `json:"class_name"`
	}

	var results []SearchResult
	for _, student := range students {
		className := "Not assigned"
		if student.Class != nil {
			className = student.Class.DisplayName()
		}

		results = append(results, SearchResult{
			ID:          student.ID,
			AdmissionNo: student.AdmissionNo,
			FirstName:   student.FirstName,
			LastName:    student.LastName,
			FullName:    student.FullName(),
			ClassName:   className,
		})
	}

	return c.JSON(fiber.Map{
		"students": results,
		"count":    len(results),
	})
}
