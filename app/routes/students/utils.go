package students

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateAdmissionNo issues the next admission number for the current
// year, formatted like ADM-2026-0042. Gaps in the sequence are fine, the
// number only has to be unique.
func GenerateAdmissionNo(db *sql.DB) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("ADM-%d-", year)

	var lastNo sql.NullString
	err := db.QueryRow(`SELECT admission_no FROM students
		WHERE admission_no LIKE $1
		ORDER BY admission_no DESC LIMIT 1`, prefix+"%").Scan(&lastNo)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to look up last admission number: %w", err)
	}

	next := 1
	if lastNo.Valid {
		if n, convErr := strconv.Atoi(strings.TrimPrefix(lastNo.String, prefix)); convErr == nil {
			next = n + 1
		}
	}

	candidate := fmt.Sprintf("%s%04d", prefix, next)

	// Concurrent admissions can race on the sequence. Fall back to a random
	// suffix rather than failing the enrolment.
	var exists bool
	if err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM students WHERE admission_no = $1)`,
		candidate).Scan(&exists); err == nil && exists {
		candidate = prefix + strings.ToUpper(uuid.NewString()[:8])
	}

	return candidate, nil
}

// initialsFor builds the two-letter avatar initials shown on roster rows.
func initialsFor(firstName, lastName string) string {
	initials := "??"
	if len(firstName) > 0 && len(lastName) > 0 {
		initials = string(firstName[0]) + string(lastName[0])
	} else if len(firstName) > 0 {
		initials = string(firstName[0]) + "?"
	} else if len(lastName) > 0 {
		initials = "?" + string(lastName[0])
	}
	return strings.ToUpper(initials)
}
