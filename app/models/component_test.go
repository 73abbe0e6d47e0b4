package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubjectComponent(t *testing.T) {
	tests := []struct {
		name       string
		compName   string
		code       string
		weight     float64
		maxRawMark int
		wantErr    bool
	}{
		{name: "valid", compName: "Grammar", code: "ENG-GRM", weight: 0.6, maxRawMark: 60},
		{name: "code defaults to name", compName: "Insha", weight: 0.5, maxRawMark: 50},
		{name: "missing name", weight: 0.5, maxRawMark: 50, wantErr: true},
		{name: "zero weight", compName: "Grammar", weight: 0, maxRawMark: 60, wantErr: true},
		{name: "negative weight", compName: "Grammar", weight: -0.2, maxRawMark: 60, wantErr: true},
		{name: "weight above one", compName: "Grammar", weight: 1.5, maxRawMark: 60, wantErr: true},
		{name: "weight of exactly one", compName: "Insha", weight: 1, maxRawMark: 50},
		{name: "zero max raw mark", compName: "Grammar", weight: 0.6, maxRawMark: 0, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewSubjectComponent("sub-1", tt.compName, tt.code, tt.weight, tt.maxRawMark, 1)
			if tt.wantErr {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.NotEmpty(t, vErr.Fields)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.compName, c.Name)
			if tt.code == "" {
				assert.Equal(t, tt.compName, c.Code)
			} else {
				assert.Equal(t, tt.code, c.Code)
			}
		})
	}
}

func TestValidateWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		want    bool
	}{
		{name: "exact sum", weights: []float64{0.6, 0.4}, want: true},
		{name: "within epsilon", weights: []float64{0.6, 0.405}, want: true},
		{name: "at epsilon", weights: []float64{0.6, 0.41}, want: true},
		{name: "beyond epsilon", weights: []float64{0.6, 0.42}, want: false},
		{name: "under one", weights: []float64{0.5, 0.3}, want: false},
		{name: "no components", weights: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var components []*SubjectComponent
			for _, w := range tt.weights {
				components = append(components, &SubjectComponent{Weight: w})
			}
			assert.Equal(t, tt.want, ValidateWeights(components))
		})
	}
}

func TestNormalizeWeights(t *testing.T) {
	subject := &Subject{ID: "sub-eng", Name: "English"}

	t.Run("balanced set passes without warning", func(t *testing.T) {
		components := []*SubjectComponent{
			{Name: "Grammar", Weight: 0.6},
			{Name: "Composition", Weight: 0.4},
		}
		warning, err := NormalizeWeights(subject, components)
		require.NoError(t, err)
		assert.Nil(t, warning)
		assert.InDelta(t, 0.6, components[0].Weight, 0.001)
		assert.InDelta(t, 0.4, components[1].Weight, 0.001)
	})

	t.Run("drifted set is scaled and flagged", func(t *testing.T) {
		components := []*SubjectComponent{
			{Name: "Grammar", Weight: 0.7},
			{Name: "Composition", Weight: 0.4},
		}
		warning, err := NormalizeWeights(subject, components)
		require.NoError(t, err)
		require.NotNil(t, warning)
		assert.Equal(t, "sub-eng", warning.SubjectID)
		assert.Equal(t, "English", warning.SubjectName)
		assert.InDelta(t, 1.1, warning.WeightSum, 0.001)
		assert.InDelta(t, 1.0, WeightSum(components), 0.0001)
	})

	t.Run("zero sum is rejected", func(t *testing.T) {
		components := []*SubjectComponent{{Name: "Grammar", Weight: 0}}
		_, err := NormalizeWeights(subject, components)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("empty set is rejected", func(t *testing.T) {
		_, err := NormalizeWeights(subject, nil)
		var opErr *InvalidOperationError
		require.ErrorAs(t, err, &opErr)
	})
}

func TestSortComponents(t *testing.T) {
	components := []*SubjectComponent{
		{Name: "Insha", Position: 2},
		{Name: "Lugha", Position: 1},
		{Name: "Maelezo", Position: 2},
	}
	SortComponents(components)

	assert.Equal(t, "Lugha", components[0].Name)
	assert.Equal(t, "Insha", components[1].Name, "equal positions fall back to name order")
	assert.Equal(t, "Maelezo", components[2].Name)
}

func TestCheckComposite(t *testing.T) {
	composite := &Subject{
		Name:        "English",
		IsComposite: true,
		Components:  []*SubjectComponent{{Name: "Grammar", Weight: 1, MaxRawMark: 60}},
	}
	require.NoError(t, composite.CheckComposite())

	bare := &Subject{Name: "English", IsComposite: true}
	var opErr *InvalidOperationError
	require.ErrorAs(t, bare.CheckComposite(), &opErr)

	simpleWithComponents := &Subject{
		Name:       "Mathematics",
		Components: []*SubjectComponent{{Name: "Algebra", Weight: 1, MaxRawMark: 50}},
	}
	require.ErrorAs(t, simpleWithComponents.CheckComposite(), &opErr)
}
