package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRawMark(t *testing.T) {
	tests := []struct {
		name    string
		raw     float64
		max     int
		wantErr bool
	}{
		{name: "zero is legal", raw: 0, max: 60},
		{name: "exactly max is legal", raw: 60, max: 60},
		{name: "mid range", raw: 48.5, max: 60},
		{name: "negative", raw: -0.5, max: 60, wantErr: true},
		{name: "above max", raw: 60.01, max: 60, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRawMark(tt.raw, tt.max)
			if tt.wantErr {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 80.0, Percent(48, 60), 0.001)
	assert.InDelta(t, 83.33, Percent(50, 60), 0.001)
	assert.InDelta(t, 100.0, Percent(40, 40), 0.001)
	assert.InDelta(t, 0.0, Percent(0, 60), 0.001)
	assert.Equal(t, 0.0, Percent(10, 0), "zero max never divides")
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 83.33, Round2(83.333333))
	assert.Equal(t, 77.13, Round2(77.125), "halves round away from zero")
	assert.Equal(t, 76.0, Round2(76.0))
	assert.Equal(t, -1.23, Round2(-1.234))
}

func TestNewComponentMark(t *testing.T) {
	grammar := &SubjectComponent{ID: "comp-grm", SubjectID: "sub-eng", Name: "Grammar", Weight: 0.6, MaxRawMark: 60}

	cm, err := NewComponentMark(grammar, 48)
	require.NoError(t, err)
	assert.Equal(t, "comp-grm", cm.ComponentID)
	assert.Equal(t, 48.0, cm.RawMark)
	assert.Equal(t, 60, cm.MaxRawMark, "max is copied from the component at write time")
	assert.InDelta(t, 80.0, cm.Percentage, 0.001)

	_, err = NewComponentMark(grammar, 61)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = NewComponentMark(nil, 48)
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
}
