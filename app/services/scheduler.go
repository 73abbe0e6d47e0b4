package services

import (
	"database/sql"
	"log"
	"time"

	"shulepro/app/models"
)

// StartScheduler starts the background task scheduler
func StartScheduler(db *sql.DB, policy models.IncompletePolicy) {
	go func() {
		log.Println("Scheduler started...")
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()

			// Trigger at 9:00 PM (21:00), after the school day's mark entry
			if now.Hour() == 21 && now.Minute() == 0 {
				log.Println("Triggering scheduled tasks [21:00]...")

				if err := RunWeightAudit(db, policy); err != nil {
					log.Printf("Error running weight audit: %v", err)
				}
			}
		}
	}()
}
