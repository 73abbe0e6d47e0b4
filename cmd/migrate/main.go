package main

import (
	"log"

	"shulepro/app/config"
	"shulepro/app/database"
)

// Applies the schema to the configured database and stops. The server
// does the same at startup; this exists for deploy pipelines that run
// schema changes before rolling the new binary.
func main() {
	log.Println("Applying database schema...")

	config.Load()
	config.InitDB()
	db := config.GetDB()
	if db == nil {
		log.Fatal("Failed to get database instance")
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("Schema migration failed: %v", err)
	}

	log.Println("Schema migration completed successfully!")
}
