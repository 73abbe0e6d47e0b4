package reports

import (
	"testing"

	"shulepro/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(v float64) *float64 { return &v }

func TestAverageOfExcludesPendingSubjects(t *testing.T) {
	lines := []models.SubjectMarkLine{
		{SubjectName: "English", Percentage: pct(76)},
		{SubjectName: "Kiswahili", Percentage: nil},
		{SubjectName: "Mathematics", Percentage: pct(84)},
	}

	avg := averageOf(lines)
	require.NotNil(t, avg)
	assert.InDelta(t, 80.0, *avg, 0.001, "pending subject must not count as zero")
}

func TestAverageOfAllPending(t *testing.T) {
	lines := []models.SubjectMarkLine{
		{SubjectName: "English", Percentage: nil},
		{SubjectName: "Kiswahili", Percentage: nil},
	}
	assert.Nil(t, averageOf(lines))
	assert.Nil(t, averageOf(nil))
}

func TestAverageOfRounds(t *testing.T) {
	lines := []models.SubjectMarkLine{
		{Percentage: pct(76)},
		{Percentage: pct(84)},
		{Percentage: pct(70)},
	}
	avg := averageOf(lines)
	require.NotNil(t, avg)
	assert.InDelta(t, 76.67, *avg, 0.001)
}

func TestRankRowsSharesTiedPositions(t *testing.T) {
	rows := []models.MarkSheetRow{
		{StudentName: "Amina", AveragePct: pct(82)},
		{StudentName: "Brian", AveragePct: pct(91)},
		{StudentName: "Carol", AveragePct: pct(91)},
		{StudentName: "Daudi", AveragePct: pct(67)},
	}

	rankRows(rows)

	require.Len(t, rows, 4)
	assert.Equal(t, "Brian", rows[0].StudentName)
	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, "Carol", rows[1].StudentName)
	assert.Equal(t, 1, rows[1].Position, "tied students share the position")
	assert.Equal(t, "Amina", rows[2].StudentName)
	assert.Equal(t, 3, rows[2].Position, "the position after a tie skips")
	assert.Equal(t, "Daudi", rows[3].StudentName)
	assert.Equal(t, 4, rows[3].Position)
}

func TestRankRowsPutsUnmarkedStudentsLast(t *testing.T) {
	rows := []models.MarkSheetRow{
		{StudentName: "Amina", AveragePct: nil},
		{StudentName: "Brian", AveragePct: pct(55)},
		{StudentName: "Carol", AveragePct: pct(73)},
	}

	rankRows(rows)

	assert.Equal(t, "Carol", rows[0].StudentName)
	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, "Brian", rows[1].StudentName)
	assert.Equal(t, 2, rows[1].Position)
	assert.Equal(t, "Amina", rows[2].StudentName)
	assert.Equal(t, 0, rows[2].Position, "students with no marks carry no position")
}

func TestRankRowsStableForEqualAverages(t *testing.T) {
	// Same average keeps the original (name) order from the roster query.
	rows := []models.MarkSheetRow{
		{StudentName: "Amina", AveragePct: pct(70)},
		{StudentName: "Brian", AveragePct: pct(70)},
		{StudentName: "Carol", AveragePct: pct(70)},
	}

	rankRows(rows)

	assert.Equal(t, []string{"Amina", "Brian", "Carol"},
		[]string{rows[0].StudentName, rows[1].StudentName, rows[2].StudentName})
	for _, row := range rows {
		assert.Equal(t, 1, row.Position)
	}
}
