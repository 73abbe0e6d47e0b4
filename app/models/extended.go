package models

import "time"

// MarkResponse extends the base Mark with display details resolved by joins.
type MarkResponse struct {
	Mark
	StudentName    string  `json:"student_name"`
	AdmissionNo    string  `json:"admission_no"`
	SubjectName    string  `json:"subject_name"`
	SubjectCode    string  `json:"subject_code"`
	TermLabel      string  `json:"term_label"`
	AssessmentName string  `json:"assessment_name"`
	GradeName      *string `json:"grade_name,omitempty"`
}

// ComponentMarkResponse pairs a component mark with its component details.
type ComponentMarkResponse struct {
	ComponentMark
	ComponentName string  `json:"component_name"`
	ComponentCode string  `json:"component_code"`
	Weight        float64 `json:"weight"`
}

// SubjectMarkLine is one subject row on a student's report card.
type SubjectMarkLine struct {
	SubjectID   string                  `json:"subject_id"`
	SubjectName string                  `json:"subject_name"`
	SubjectCode string                  `json:"subject_code"`
	IsComposite bool                    `json:"is_composite"`
	Percentage  *float64                `json:"percentage"`
	GradeName   *string                 `json:"grade_name,omitempty"`
	Aggregated  bool                    `json:"aggregated"`
	Components  []ComponentMarkResponse `json:"components,omitempty"`
}

// ReportCard is a full per-student report for one term and assessment.
type ReportCard struct {
	Student        *Student          `json:"student"`
	ClassName      string            `json:"class_name"`
	Term           *Term             `json:"term"`
	AssessmentType *AssessmentType   `json:"assessment_type"`
	Subjects       []SubjectMarkLine `json:"subjects"`
	AveragePct     *float64          `json:"average_pct"`
	OverallGrade   *string           `json:"overall_grade,omitempty"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

// MarkSheetCell is one student-subject intersection on a class mark sheet.
type MarkSheetCell struct {
	SubjectID  string   `json:"subject_id"`
	Percentage *float64 `json:"percentage"`
	GradeName  *string  `json:"grade_name,omitempty"`
}

// MarkSheetRow is one student row on a class mark sheet.
type MarkSheetRow struct {
	StudentID   string          `json:"student_id"`
	StudentName string          `json:"student_name"`
	AdmissionNo string          `json:"admission_no"`
	Cells       []MarkSheetCell `json:"cells"`
	AveragePct  *float64        `json:"average_pct"`
	Position    int             `json:"position"`
}

// MarkSheet is a class-wide matrix of subject percentages.
type MarkSheet struct {
	Class          *Class          `json:"class"`
	Term           *Term           `json:"term"`
	AssessmentType *AssessmentType `json:"assessment_type"`
	Subjects       []*Subject      `json:"subjects"`
	Rows           []MarkSheetRow  `json:"rows"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

type DashboardStats struct {
	TotalStudents     int        `json:"total_students"`
	TotalTeachers     int        `json:"total_teachers"`
	TotalClasses      int        `json:"total_classes"`
	TotalSubjects     int        `json:"total_subjects"`
	CompositeSubjects int        `json:"composite_subjects"`
	MarksThisTerm     int        `json:"marks_this_term"`
	PendingAggregates int        `json:"pending_aggregates"`
	RecentActivities  []Activity `json:"recent_activities"`
}

type Activity struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TimeAgo     string    `json:"time_ago"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	RawTime     time.Time `json:"-"`
}

// IncompleteUpload is a composite mark still missing component entries.
type IncompleteUpload struct {
	StudentID      string `json:"student_id"`
	StudentName    string `json:"student_name"`
	SubjectID      string `json:"subject_id"`
	SubjectName    string `json:"subject_name"`
	TermLabel      string `json:"term_label"`
	AssessmentName string `json:"assessment_name"`
	EnteredCount   int    `json:"entered_count"`
	ExpectedCount  int    `json:"expected_count"`
}
