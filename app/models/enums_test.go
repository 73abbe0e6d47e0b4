package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEducationLevelValid(t *testing.T) {
	for _, level := range EducationLevels() {
		assert.True(t, level.Valid(), "%s", level)
	}
	assert.False(t, EducationLevel("senior_secondary").Valid())
	assert.False(t, EducationLevel("").Valid())
}

func TestParseIncompletePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    IncompletePolicy
		wantErr bool
	}{
		{input: "", want: PolicyZeroFill},
		{input: "zero", want: PolicyZeroFill},
		{input: "defer", want: PolicyDefer},
		{input: "skip", wantErr: true},
		{input: "ZERO", wantErr: true},
	}
	for _, tt := range tests {
		t.Run("input "+tt.input, func(t *testing.T) {
			got, err := ParseIncompletePolicy(tt.input)
			if tt.wantErr {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
