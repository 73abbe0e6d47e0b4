package models

// EducationLevel defines the CBC education levels a subject or class belongs to.
type EducationLevel string

const (
	LowerPrimary    EducationLevel = "lower_primary"
	UpperPrimary    EducationLevel = "upper_primary"
	JuniorSecondary EducationLevel = "junior_secondary"
)

// EducationLevels lists all supported levels in curriculum order.
func EducationLevels() []EducationLevel {
	return []EducationLevel{LowerPrimary, UpperPrimary, JuniorSecondary}
}

// Valid reports whether the level is one of the supported CBC levels.
func (l EducationLevel) Valid() bool {
	switch l {
	case LowerPrimary, UpperPrimary, JuniorSecondary:
		return true
	}
	return false
}

// Label returns the display name for the level.
func (l EducationLevel) Label() string {
	switch l {
	case LowerPrimary:
		return "Lower Primary"
	case UpperPrimary:
		return "Upper Primary"
	case JuniorSecondary:
		return "Junior Secondary"
	}
	return string(l)
}

// Gender defines the possible gender values for a student.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

// RelationshipType defines the relationship of a guardian to a student.
type RelationshipType string

const (
	Father   RelationshipType = "father"
	Mother   RelationshipType = "mother"
	Guardian RelationshipType = "guardian"
	OtherRel RelationshipType = "other"
)

// Role names used across the app.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
)

// IncompletePolicy controls how the aggregator treats a composite subject
// for which some components have no uploaded mark yet.
type IncompletePolicy string

const (
	// PolicyZeroFill treats a missing component as raw_mark = 0: its weight
	// contributes nothing to the percentage and aggregation always proceeds.
	PolicyZeroFill IncompletePolicy = "zero"
	// PolicyDefer refuses to aggregate until every component has a mark.
	PolicyDefer IncompletePolicy = "defer"
)

// ParseIncompletePolicy maps a config string to a policy, defaulting to
// zero-fill for an empty value.
func ParseIncompletePolicy(s string) (IncompletePolicy, error) {
	switch IncompletePolicy(s) {
	case "":
		return PolicyZeroFill, nil
	case PolicyZeroFill, PolicyDefer:
		return IncompletePolicy(s), nil
	}
	return "", NewValidationError("unknown incomplete-subject policy: "+s,
		FieldError{Field: "MARKS_INCOMPLETE_POLICY", Message: "must be 'zero' or 'defer'"})
}
