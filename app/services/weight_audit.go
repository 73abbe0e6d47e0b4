package services

import (
	"database/sql"
	"fmt"
	"log"

	"shulepro/app/database"
	"shulepro/app/models"
	"shulepro/app/routes/marks"
)

// RunWeightAudit sweeps every composite subject, logs the ones whose
// component weights no longer sum to 1.0, and recomputes their stored
// aggregates. Weights drift when an admin edits components mid-term; the
// aggregator normalizes at read time, so the stored marks just need a
// refresh to agree with the catalog again.
func RunWeightAudit(db *sql.DB, policy models.IncompletePolicy) error {
	log.Println("Starting composite weight audit...")

	subjects, err := database.ListCompositeSubjects(db)
	if err != nil {
		return fmt.Errorf("failed to list composite subjects: %v", err)
	}

	audited := 0
	recomputed := 0
	for _, subject := range subjects {
		if len(subject.Components) == 0 {
			log.Printf("Composite subject %q (%s) has no components", subject.Name, subject.ID)
			continue
		}

		if !models.ValidateWeights(subject.Components) {
			warning := &models.ConsistencyWarning{
				SubjectID:   subject.ID,
				SubjectName: subject.Name,
				WeightSum:   models.WeightSum(subject.Components),
			}
			log.Printf("Warning: %v", warning)
		}
		audited++

		count, err := marks.ReaggregateSubject(db, subject.ID, policy)
		if err != nil {
			log.Printf("Failed to reaggregate %q: %v", subject.Name, err)
			continue
		}
		recomputed += count
	}

	log.Printf("Weight audit completed. Audited %d subjects, recomputed %d marks.", audited, recomputed)
	return nil
}
