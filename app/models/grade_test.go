package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeForBoundaries(t *testing.T) {
	grades := DefaultGrades()

	tests := []struct {
		percentage float64
		want       string
	}{
		{percentage: 100, want: "E.E"},
		{percentage: 75, want: "E.E"},
		{percentage: 74.99, want: "M.E"},
		{percentage: 50, want: "M.E"},
		{percentage: 49.99, want: "A.E"},
		{percentage: 30, want: "A.E"},
		{percentage: 29.99, want: "B.E"},
		{percentage: 0, want: "B.E"},
	}
	for _, tt := range tests {
		g := GradeFor(grades, tt.percentage)
		require.NotNil(t, g, "no band for %.2f", tt.percentage)
		assert.Equal(t, tt.want, g.Name, "band for %.2f", tt.percentage)
	}
}

func TestGradeForSkipsInactiveBands(t *testing.T) {
	grades := DefaultGrades()
	grades[0].IsActive = false

	assert.Nil(t, GradeFor(grades, 90), "inactive band must not match")

	g := GradeFor(grades, 60)
	require.NotNil(t, g)
	assert.Equal(t, "M.E", g.Name)
}

func TestGradeForOutsideAllBands(t *testing.T) {
	assert.Nil(t, GradeFor(DefaultGrades(), -5))
	assert.Nil(t, GradeFor(nil, 50))
}

func TestGradeForOverlappingEdges(t *testing.T) {
	// 50 sits in both bands here; the higher band wins.
	grades := []*Grade{
		{Name: "Low", MinMarks: 0, MaxMarks: 50, IsActive: true},
		{Name: "High", MinMarks: 50, MaxMarks: 100, IsActive: true},
	}
	g := GradeFor(grades, 50)
	require.NotNil(t, g)
	assert.Equal(t, "High", g.Name)
}

func TestValidateGradeBands(t *testing.T) {
	t.Run("stock bands are valid", func(t *testing.T) {
		require.NoError(t, ValidateGradeBands(DefaultGrades()))
	})

	t.Run("inverted range", func(t *testing.T) {
		grades := []*Grade{{Name: "Broken", MinMarks: 60, MaxMarks: 40, IsActive: true}}
		var vErr *ValidationError
		require.ErrorAs(t, ValidateGradeBands(grades), &vErr)
	})

	t.Run("overlapping ranges", func(t *testing.T) {
		grades := []*Grade{
			{Name: "Low", MinMarks: 0, MaxMarks: 55, IsActive: true},
			{Name: "High", MinMarks: 50, MaxMarks: 100, IsActive: true},
		}
		var vErr *ValidationError
		require.ErrorAs(t, ValidateGradeBands(grades), &vErr)
	})
}
