package database

import (
	"database/sql"
	"fmt"
	"shulepro/app/models"
	"time"
)

// GetDashboardStats returns statistics for the admin dashboard
func GetDashboardStats(db *sql.DB) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	err := db.QueryRow("SELECT COUNT(*) FROM students WHERE is_active = true AND deleted_at IS NULL").Scan(&stats.TotalStudents)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow(`
		SELECT COUNT(DISTINCT u.id)
		FROM users u
		JOIN user_roles ur ON u.id = ur.user_id
		JOIN roles r ON ur.role_id = r.id
		WHERE r.name IN ('admin', 'teacher')
		AND u.is_active = true
	`).Scan(&stats.TotalTeachers)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow("SELECT COUNT(*) FROM classes WHERE is_active = true AND deleted_at IS NULL").Scan(&stats.TotalClasses)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow("SELECT COUNT(*) FROM subjects WHERE deleted_at IS NULL").Scan(&stats.TotalSubjects)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow("SELECT COUNT(*) FROM subjects WHERE is_composite = true AND deleted_at IS NULL").Scan(&stats.CompositeSubjects)
	if err != nil {
		return nil, err
	}

	// Marks recorded in the current term, zero when no term is current
	err = db.QueryRow(`
		SELECT COUNT(*)
		FROM marks m
		JOIN terms t ON m.term_id = t.id
		WHERE t.is_current = true
	`).Scan(&stats.MarksThisTerm)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow(`SELECT COUNT(*) FROM marks WHERE percentage IS NULL`).Scan(&stats.PendingAggregates)
	if err != nil {
		return nil, err
	}

	stats.RecentActivities = getRecentActivities(db)

	return stats, nil
}

func getRecentActivities(db *sql.DB) []models.Activity {
	query := `SELECT s.first_name || ' ' || s.last_name, sub.name, m.percentage, m.updated_at
			  FROM marks m
			  JOIN students s ON m.student_id = s.id
			  JOIN subjects sub ON m.subject_id = sub.id
			  ORDER BY m.updated_at DESC
			  LIMIT 6`

	rows, err := db.Query(query)
	if err != nil {
		return []models.Activity{}
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var studentName, subjectName string
		var percentage sql.NullFloat64
		var updatedAt time.Time
		if err := rows.Scan(&studentName, &subjectName, &percentage, &updatedAt); err != nil {
			continue
		}

		activity := models.Activity{
			Type:    "marks",
			Title:   fmt.Sprintf("Marks updated for %s", studentName),
			TimeAgo: timeAgo(updatedAt),
			Icon:    "clipboard-list",
			Color:   "purple",
			RawTime: updatedAt,
		}
		if percentage.Valid {
			activity.Description = fmt.Sprintf("%s - %.1f%%", subjectName, percentage.Float64)
		} else {
			activity.Description = fmt.Sprintf("%s - awaiting components", subjectName)
			activity.Icon = "hourglass"
			activity.Color = "orange"
		}
		activities = append(activities, activity)
	}

	if activities == nil {
		activities = []models.Activity{}
	}

	return activities
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
}

// GetIncompleteUploads lists composite marks whose component entries are
// still short of the subject's component count. The dashboard and the
// nightly sweep both read this.
func GetIncompleteUploads(db *sql.DB, limit int) ([]*models.IncompleteUpload, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT s.first_name || ' ' || s.last_name, m.student_id, m.subject_id, sub.name,
			  t.name || ' ' || t.year, at.name,
			  COALESCE(cm.entered, 0) as entered,
			  COALESCE(sc.expected, 0) as expected
			  FROM marks m
			  JOIN students s ON m.student_id = s.id
			  JOIN subjects sub ON m.subject_id = sub.id
			  JOIN terms t ON m.term_id = t.id
			  JOIN assessment_types at ON m.assessment_type_id = at.id
			  LEFT JOIN (
				  SELECT mark_id, COUNT(*) as entered FROM component_marks GROUP BY mark_id
			  ) cm ON m.id = cm.mark_id
			  LEFT JOIN (
				  SELECT subject_id, COUNT(*) as expected FROM subject_components
				  WHERE deleted_at IS NULL GROUP BY subject_id
			  ) sc ON m.subject_id = sc.subject_id
			  WHERE sub.is_composite = true
			  AND COALESCE(cm.entered, 0) < COALESCE(sc.expected, 0)
			  ORDER BY m.updated_at DESC
			  LIMIT $1`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomplete uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*models.IncompleteUpload
	for rows.Next() {
		u := &models.IncompleteUpload{}
		err := rows.Scan(&u.StudentName, &u.StudentID, &u.SubjectID, &u.SubjectName,
			&u.TermLabel, &u.AssessmentName, &u.EnteredCount, &u.ExpectedCount)
		if err != nil {
			continue
		}
		uploads = append(uploads, u)
	}

	if uploads == nil {
		uploads = []*models.IncompleteUpload{}
	}

	return uploads, nil
}
