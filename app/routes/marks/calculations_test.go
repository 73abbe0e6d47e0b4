package marks

import (
	"testing"

	"shulepro/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compositeEnglish() *models.Subject {
	return &models.Subject{
		ID:             "sub-eng",
		Name:           "English",
		Code:           "ENG",
		EducationLevel: models.UpperPrimary,
		IsComposite:    true,
		MaxRawMark:     100,
		Components: []*models.SubjectComponent{
			{ID: "comp-grm", SubjectID: "sub-eng", Name: "Grammar", Code: "ENG-GRM", Weight: 0.6, MaxRawMark: 60, Position: 1},
			{ID: "comp-cmp", SubjectID: "sub-eng", Name: "Composition", Code: "ENG-CMP", Weight: 0.4, MaxRawMark: 40, Position: 2},
		},
	}
}

func compositeKiswahili() *models.Subject {
	return &models.Subject{
		ID:             "sub-kis",
		Name:           "Kiswahili",
		Code:           "KIS",
		EducationLevel: models.UpperPrimary,
		IsComposite:    true,
		MaxRawMark:     100,
		Components: []*models.SubjectComponent{
			{ID: "comp-lug", SubjectID: "sub-kis", Name: "Lugha", Code: "KIS-LUG", Weight: 0.5, MaxRawMark: 50, Position: 1},
			{ID: "comp-ins", SubjectID: "sub-kis", Name: "Insha", Code: "KIS-INS", Weight: 0.5, MaxRawMark: 50, Position: 2},
		},
	}
}

func entry(componentID string, raw float64, max int) *models.ComponentMark {
	return &models.ComponentMark{
		ComponentID: componentID,
		RawMark:     raw,
		MaxRawMark:  max,
		Percentage:  models.Percent(raw, max),
	}
}

func TestComputeAggregateWeightedBlend(t *testing.T) {
	// Grammar 48/60 is 80%, Composition 28/40 is 70%.
	// 80*0.6 + 70*0.4 = 76.
	subject := compositeEnglish()
	entries := []*models.ComponentMark{
		entry("comp-grm", 48, 60),
		entry("comp-cmp", 28, 40),
	}

	got, err := ComputeAggregate(subject, entries, models.PolicyZeroFill)
	require.NoError(t, err)
	assert.InDelta(t, 76.0, got, 0.001)

	got, err = ComputeAggregate(subject, entries, models.PolicyDefer)
	require.NoError(t, err)
	assert.InDelta(t, 76.0, got, 0.001)
}

func TestComputeAggregateIncompleteZeroFill(t *testing.T) {
	// Only Lugha is in, 40/50 is 80%. The missing Insha counts as zero,
	// so the aggregate is 80*0.5 = 40.
	subject := compositeKiswahili()
	entries := []*models.ComponentMark{entry("comp-lug", 40, 50)}

	got, err := ComputeAggregate(subject, entries, models.PolicyZeroFill)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, got, 0.001)
}

func TestComputeAggregateIncompleteDefer(t *testing.T) {
	subject := compositeKiswahili()
	entries := []*models.ComponentMark{entry("comp-lug", 40, 50)}

	_, err := ComputeAggregate(subject, entries, models.PolicyDefer)
	require.ErrorIs(t, err, ErrSubjectIncomplete)
}

func TestComputeAggregateReentryRecomputes(t *testing.T) {
	// A corrected Grammar mark replaces the old one and the aggregate
	// follows: 50/60 is 83.33%, 83.33*0.6 + 70*0.4 = 78.
	subject := compositeEnglish()
	entries := []*models.ComponentMark{
		entry("comp-grm", 50, 60),
		entry("comp-cmp", 28, 40),
	}

	got, err := ComputeAggregate(subject, entries, models.PolicyZeroFill)
	require.NoError(t, err)
	assert.InDelta(t, 78.0, got, 0.001)
}

func TestComputeAggregateDeterministic(t *testing.T) {
	subject := compositeEnglish()
	forward := []*models.ComponentMark{
		entry("comp-grm", 48, 60),
		entry("comp-cmp", 28, 40),
	}
	reversed := []*models.ComponentMark{
		entry("comp-cmp", 28, 40),
		entry("comp-grm", 48, 60),
	}

	want, err := ComputeAggregate(subject, forward, models.PolicyZeroFill)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		got, err := ComputeAggregate(subject, forward, models.PolicyZeroFill)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := ComputeAggregate(subject, reversed, models.PolicyZeroFill)
	require.NoError(t, err)
	assert.Equal(t, want, got, "entry order must not change the aggregate")
}

func TestComputeAggregateNormalizesDriftedWeights(t *testing.T) {
	// An admin edit left the weights at 0.7 + 0.4 = 1.1. The aggregate
	// divides by the actual sum so the result stays on the 0-100 scale:
	// (80*0.7 + 70*0.4) / 1.1 = 76.36.
	subject := compositeEnglish()
	subject.Components[0].Weight = 0.7
	subject.Components[1].Weight = 0.4
	entries := []*models.ComponentMark{
		entry("comp-grm", 48, 60),
		entry("comp-cmp", 28, 40),
	}

	got, err := ComputeAggregate(subject, entries, models.PolicyZeroFill)
	require.NoError(t, err)
	assert.InDelta(t, 76.36, got, 0.001)
}

func TestComputeAggregateSkipsStaleEntries(t *testing.T) {
	// A mark captured for a component that was later removed from the
	// catalog no longer contributes.
	subject := compositeEnglish()
	entries := []*models.ComponentMark{
		entry("comp-grm", 48, 60),
		entry("comp-cmp", 28, 40),
		entry("comp-removed", 99, 100),
	}

	got, err := ComputeAggregate(subject, entries, models.PolicyZeroFill)
	require.NoError(t, err)
	assert.InDelta(t, 76.0, got, 0.001)

	got, err = ComputeAggregate(subject, entries, models.PolicyDefer)
	require.NoError(t, err)
	assert.InDelta(t, 76.0, got, 0.001)
}

func TestComputeAggregateBoundaryMarks(t *testing.T) {
	subject := compositeEnglish()

	tests := []struct {
		name    string
		entries []*models.ComponentMark
		want    float64
	}{
		{
			name: "all zero",
			entries: []*models.ComponentMark{
				entry("comp-grm", 0, 60),
				entry("comp-cmp", 0, 40),
			},
			want: 0,
		},
		{
			name: "full marks",
			entries: []*models.ComponentMark{
				entry("comp-grm", 60, 60),
				entry("comp-cmp", 40, 40),
			},
			want: 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeAggregate(subject, tt.entries, models.PolicyZeroFill)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestComputeAggregateRejectsBadSubjects(t *testing.T) {
	simple := &models.Subject{ID: "sub-mat", Name: "Mathematics", IsComposite: false, MaxRawMark: 100}
	bare := &models.Subject{ID: "sub-bare", Name: "Bare", IsComposite: true}
	zeroWeights := compositeEnglish()
	zeroWeights.Components[0].Weight = 0
	zeroWeights.Components[1].Weight = 0

	tests := []struct {
		name    string
		subject *models.Subject
		wantOp  bool
	}{
		{name: "nil subject", subject: nil},
		{name: "simple subject", subject: simple, wantOp: true},
		{name: "composite without components", subject: bare, wantOp: true},
		{name: "weights sum to zero", subject: zeroWeights},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeAggregate(tt.subject, nil, models.PolicyZeroFill)
			require.Error(t, err)
			if tt.wantOp {
				var opErr *models.InvalidOperationError
				assert.ErrorAs(t, err, &opErr)
			}
		})
	}
}

func TestComputeSimple(t *testing.T) {
	subject := &models.Subject{ID: "sub-mat", Name: "Mathematics", IsComposite: false, MaxRawMark: 80}

	tests := []struct {
		name    string
		raw     float64
		want    float64
		wantErr bool
	}{
		{name: "mid range", raw: 73, want: 91.25},
		{name: "zero is legal", raw: 0, want: 0},
		{name: "exactly max is legal", raw: 80, want: 100},
		{name: "above max", raw: 80.5, wantErr: true},
		{name: "negative", raw: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeSimple(subject, tt.raw)
			if tt.wantErr {
				var vErr *models.ValidationError
				require.ErrorAs(t, err, &vErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestComputeSimpleRejectsCompositeSubject(t *testing.T) {
	_, err := ComputeSimple(compositeEnglish(), 50)
	var opErr *models.InvalidOperationError
	require.ErrorAs(t, err, &opErr)

	_, err = ComputeSimple(nil, 50)
	var nfErr *models.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}
