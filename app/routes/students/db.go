package students

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type guardianContact struct {
	StudentID    string
	Name         string
	Phone        string
	Email        string
	Relationship string
}

// primaryGuardianContacts returns the contact line shown per student on
// the roster table, keyed by student ID. Primary guardians win; a student
// with no primary link gets whichever guardian sorts first.
func primaryGuardianContacts(db *sql.DB, studentIDs []string) (map[string]guardianContact, error) {
	contacts := make(map[string]guardianContact)
	if len(studentIDs) == 0 {
		return contacts, nil
	}

	query := `SELECT g.student_id, u.first_name, u.last_name, u.email, u.phone, g.relationship
			  FROM guardians g
			  JOIN users u ON g.user_id = u.id
			  WHERE g.student_id = ANY($1) AND u.is_active = true
			  ORDER BY g.is_primary DESC, u.first_name`

	rows, err := db.Query(query, pq.Array(studentIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query guardian contacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var studentID, firstName, lastName, email, relationship string
		var phone *string
		if err := rows.Scan(&studentID, &firstName, &lastName, &email, &phone, &relationship); err != nil {
			continue
		}
		if _, ok := contacts[studentID]; ok {
			continue
		}
		contact := guardianContact{
			StudentID:    studentID,
			Name:         firstName + " " + lastName,
			Email:        email,
			Relationship: relationship,
		}
		if phone != nil {
			contact.Phone = *phone
		}
		contacts[studentID] = contact
	}

	return contacts, nil
}
