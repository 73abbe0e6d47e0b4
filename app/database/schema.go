package database

import (
	"database/sql"
	"log"
)

// EnsureSchema creates missing tables and indexes on startup. Every
// statement is idempotent so restarts are safe.
func EnsureSchema(db *sql.DB) error {
	log.Println("Ensuring database schema...")

	if err := createAuthTables(db); err != nil {
		return err
	}
	if err := createSchoolTables(db); err != nil {
		return err
	}
	if err := createCatalogTables(db); err != nil {
		return err
	}
	if err := createMarkTables(db); err != nil {
		return err
	}
	if err := seedDefaultRoles(db); err != nil {
		return err
	}

	log.Println("Database schema is up to date")
	return nil
}

func createAuthTables(db *sql.DB) error {
	query := `
		CREATE EXTENSION IF NOT EXISTS pgcrypto;

		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			phone VARCHAR(30),
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS roles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(50) UNIQUE NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS user_roles (
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role_id UUID NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, role_id)
		);
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to create auth tables: %v", err)
		return err
	}
	return nil
}

func createSchoolTables(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS classes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(100) NOT NULL,
			education_level VARCHAR(30) NOT NULL,
			stream VARCHAR(50),
			teacher_id UUID REFERENCES users(id),
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			admission_no VARCHAR(50) UNIQUE NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			gender VARCHAR(10),
			date_of_birth DATE,
			class_id UUID REFERENCES classes(id),
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_students_class ON students(class_id);

		CREATE TABLE IF NOT EXISTS guardians (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			relationship VARCHAR(20) NOT NULL DEFAULT 'guardian',
			is_primary BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, student_id)
		);
		CREATE INDEX IF NOT EXISTS idx_guardians_student ON guardians(student_id);
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to create school tables: %v", err)
		return err
	}
	return nil
}

func createCatalogTables(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS subjects (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(100) NOT NULL,
			code VARCHAR(20) NOT NULL,
			education_level VARCHAR(30) NOT NULL,
			is_composite BOOLEAN NOT NULL DEFAULT false,
			max_raw_mark INTEGER NOT NULL DEFAULT 100,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_subjects_name_level
			ON subjects (LOWER(name), education_level) WHERE deleted_at IS NULL;

		CREATE TABLE IF NOT EXISTS subject_components (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			subject_id UUID NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			code VARCHAR(20) NOT NULL,
			weight DECIMAL(6,4) NOT NULL,
			max_raw_mark INTEGER NOT NULL DEFAULT 100,
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_components_subject_name
			ON subject_components (subject_id, LOWER(name)) WHERE deleted_at IS NULL;

		CREATE TABLE IF NOT EXISTS terms (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(50) NOT NULL,
			year INTEGER NOT NULL,
			start_date DATE,
			end_date DATE,
			is_current BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			UNIQUE (name, year)
		);

		CREATE TABLE IF NOT EXISTS assessment_types (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(50) UNIQUE NOT NULL,
			weight DECIMAL(6,4),
			position INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS grades (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(20) UNIQUE NOT NULL,
			description VARCHAR(100) NOT NULL DEFAULT '',
			min_marks DECIMAL(5,2) NOT NULL,
			max_marks DECIMAL(5,2) NOT NULL,
			points DECIMAL(5,2) NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to create catalog tables: %v", err)
		return err
	}
	return nil
}

// Mark rows are hard-deleted, never soft-deleted. The plain UNIQUE
// constraints back the ON CONFLICT upserts in the marks package.
func createMarkTables(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS marks (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			subject_id UUID NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
			term_id UUID NOT NULL REFERENCES terms(id),
			assessment_type_id UUID NOT NULL REFERENCES assessment_types(id),
			raw_mark DECIMAL(7,2),
			max_raw_mark INTEGER,
			percentage DECIMAL(5,2),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, subject_id, term_id, assessment_type_id)
		);
		CREATE INDEX IF NOT EXISTS idx_marks_subject_term ON marks(subject_id, term_id, assessment_type_id);
		CREATE INDEX IF NOT EXISTS idx_marks_student ON marks(student_id);

		CREATE TABLE IF NOT EXISTS component_marks (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			mark_id UUID NOT NULL REFERENCES marks(id) ON DELETE CASCADE,
			component_id UUID NOT NULL REFERENCES subject_components(id),
			raw_mark DECIMAL(7,2) NOT NULL,
			max_raw_mark INTEGER NOT NULL,
			percentage DECIMAL(5,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (mark_id, component_id)
		);
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to create mark tables: %v", err)
		return err
	}
	return nil
}

func seedDefaultRoles(db *sql.DB) error {
	query := `
		INSERT INTO roles (name) VALUES ('admin'), ('teacher'), ('parent')
		ON CONFLICT (name) DO NOTHING;
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to seed default roles: %v", err)
		return err
	}
	return nil
}
