package reports

import (
	"sort"

	"shulepro/app/models"
)

// averageOf computes the mean of the aggregated subject percentages on a
// report card. Subjects still awaiting components are excluded rather than
// counted as zero, a pending upload should not drag the average down.
func averageOf(lines []models.SubjectMarkLine) *float64 {
	total := 0.0
	counted := 0
	for _, line := range lines {
		if line.Percentage == nil {
			continue
		}
		total += *line.Percentage
		counted++
	}
	if counted == 0 {
		return nil
	}
	avg := models.Round2(total / float64(counted))
	return &avg
}

func averageOfCells(cells []models.MarkSheetCell) *float64 {
	total := 0.0
	counted := 0
	for _, cell := range cells {
		if cell.Percentage == nil {
			continue
		}
		total += *cell.Percentage
		counted++
	}
	if counted == 0 {
		return nil
	}
	avg := models.Round2(total / float64(counted))
	return &avg
}

// rankRows orders mark sheet rows by average descending and assigns
// positions. Students on the same average share a position and the next
// position skips, so two students tied at 1 are followed by position 3.
// Students with no marks at all sort last and carry no position.
func rankRows(rows []models.MarkSheetRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].AveragePct, rows[j].AveragePct
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a > *b
	})

	for i := range rows {
		if rows[i].AveragePct == nil {
			rows[i].Position = 0
			continue
		}
		if i > 0 && rows[i-1].AveragePct != nil && *rows[i].AveragePct == *rows[i-1].AveragePct {
			rows[i].Position = rows[i-1].Position
			continue
		}
		rows[i].Position = i + 1
	}
}
