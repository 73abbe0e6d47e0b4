package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"
)

// Seeds a fresh database with the fixtures a school needs on day one:
// the CBC grade bands, three terms for the current year, the standard
// assessment types and a starter subject catalog including the two
// composite subjects (English and Kiswahili). Safe to run twice, every
// step skips rows that already exist.
func main() {
	config.Load()
	config.InitDB()
	db := config.GetDB()
	if db == nil {
		log.Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("Schema setup failed: %v", err)
	}
	fmt.Println("Schema is up to date")

	if err := database.SeedDefaultGrades(db); err != nil {
		log.Fatalf("Grade seeding failed: %v", err)
	}
	fmt.Println("Grade bands seeded (E.E / M.E / A.E / B.E)")

	if err := seedTerms(db); err != nil {
		log.Fatalf("Term seeding failed: %v", err)
	}
	if err := seedAssessmentTypes(db); err != nil {
		log.Fatalf("Assessment type seeding failed: %v", err)
	}
	if err := seedSubjects(db); err != nil {
		log.Fatalf("Subject seeding failed: %v", err)
	}

	fmt.Println("Seeding complete")
}

func seedTerms(db *sql.DB) error {
	existing, err := database.GetAllTerms(db)
	if err != nil {
		return err
	}
	year := time.Now().Year()

	have := make(map[string]bool)
	for _, t := range existing {
		if t.Year == year {
			have[t.Name] = true
		}
	}

	for _, name := range []string{"Term 1", "Term 2", "Term 3"} {
		if have[name] {
			fmt.Printf("Term exists, skipping: %s %d\n", name, year)
			continue
		}
		term := &models.Term{Name: name, Year: year}
		if err := database.CreateTerm(db, term); err != nil {
			return err
		}
		fmt.Printf("Term created: %s %d\n", name, year)
	}
	return nil
}

func seedAssessmentTypes(db *sql.DB) error {
	existing, err := database.GetAllAssessmentTypes(db)
	if err != nil {
		return err
	}

	have := make(map[string]bool)
	for _, at := range existing {
		have[at.Name] = true
	}

	names := []string{"Opener", "Mid-Term", "End-Term"}
	for i, name := range names {
		if have[name] {
			fmt.Printf("Assessment type exists, skipping: %s\n", name)
			continue
		}
		at := &models.AssessmentType{Name: name, Position: i + 1, IsActive: true}
		if err := database.CreateAssessmentType(db, at); err != nil {
			return err
		}
		fmt.Printf("Assessment type created: %s\n", name)
	}
	return nil
}

type componentFixture struct {
	name       string
	code       string
	weight     float64
	maxRawMark int
}

type subjectFixture struct {
	name       string
	code       string
	level      models.EducationLevel
	maxRawMark int
	components []componentFixture
}

func seedSubjects(db *sql.DB) error {
	fixtures := []subjectFixture{
		{
			name: "English", code: "ENG", level: models.UpperPrimary, maxRawMark: 100,
			components: []componentFixture{
				{name: "Grammar", code: "ENG-GRM", weight: 0.6, maxRawMark: 60},
				{name: "Composition", code: "ENG-CMP", weight: 0.4, maxRawMark: 40},
			},
		},
		{
			name: "Kiswahili", code: "KIS", level: models.UpperPrimary, maxRawMark: 100,
			components: []componentFixture{
				{name: "Lugha", code: "KIS-LUG", weight: 0.5, maxRawMark: 50},
				{name: "Insha", code: "KIS-INS", weight: 0.5, maxRawMark: 50},
			},
		},
		{name: "Mathematics", code: "MAT", level: models.UpperPrimary, maxRawMark: 100},
		{name: "Science and Technology", code: "SCI", level: models.UpperPrimary, maxRawMark: 100},
		{name: "Social Studies", code: "SST", level: models.UpperPrimary, maxRawMark: 100},
	}

	for _, f := range fixtures {
		existing, err := database.GetSubjectByNameLevel(db, f.name, f.level)
		if err != nil {
			var notFound *models.NotFoundError
			if !errors.As(err, &notFound) {
				return err
			}
		}
		if existing != nil {
			fmt.Printf("Subject exists, skipping: %s (%s)\n", f.name, f.level)
			continue
		}

		subject := &models.Subject{
			Name:           f.name,
			Code:           f.code,
			EducationLevel: f.level,
			IsComposite:    len(f.components) > 0,
			MaxRawMark:     f.maxRawMark,
		}
		for i, cf := range f.components {
			component, err := models.NewSubjectComponent("", cf.name, cf.code, cf.weight, cf.maxRawMark, i+1)
			if err != nil {
				return err
			}
			subject.Components = append(subject.Components, component)
		}

		if err := database.CreateSubjectWithComponents(db, subject); err != nil {
			return err
		}
		if subject.IsComposite {
			fmt.Printf("Subject created: %s (%s) with %d components\n", f.name, f.level, len(f.components))
		} else {
			fmt.Printf("Subject created: %s (%s)\n", f.name, f.level)
		}
	}
	return nil
}
