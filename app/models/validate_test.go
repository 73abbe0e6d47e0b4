package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReportsJSONFieldNames(t *testing.T) {
	subject := &Subject{Code: "ENG", EducationLevel: UpperPrimary, MaxRawMark: 100}

	err := Validate(subject)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "name", vErr.Fields[0].Field)
}

func TestValidateAcceptsCompleteSubject(t *testing.T) {
	subject := &Subject{Name: "English", Code: "ENG", EducationLevel: UpperPrimary, MaxRawMark: 100}
	require.NoError(t, Validate(subject))
}
