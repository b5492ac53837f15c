package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialpulse/pkg/contracts/domain"
)

func TestMonthColumns(t *testing.T) {
	t.Run("mixed month header styles land in the same order", func(t *testing.T) {
		table := NewTable(
			[]string{"Site ID", "Subject Status", "Feb-2025", "January-2025", "03-2025"},
			nil,
		)
		cols := monthColumns(table)
		require.Len(t, cols, 3)
		assert.Equal(t, "January-2025", cols[0].Name)
		assert.Equal(t, "Feb-2025", cols[1].Name)
		assert.Equal(t, "03-2025", cols[2].Name)
		for _, col := range cols {
			assert.False(t, col.Synthetic)
		}
	})

	t.Run("metadata columns never become months", func(t *testing.T) {
		table := NewTable([]string{"Site ID", "Total", "Jan-2025"}, nil)
		cols := monthColumns(table)
		require.Len(t, cols, 1)
		assert.Equal(t, "Jan-2025", cols[0].Name)
	})

	t.Run("synthetic fallback keeps numeric columns in source order", func(t *testing.T) {
		table := NewTable(
			[]string{"Site ID", "Subject Status", "Period A", "Period B", "Notes"},
			[][]string{
				{"001", "Screened", "3", "4", "follow up"},
				{"002", "Screened", "1", "2", ""},
			},
		)
		cols := monthColumns(table)
		require.Len(t, cols, 2)
		assert.Equal(t, "Period A", cols[0].Name)
		assert.Equal(t, "Period B", cols[1].Name)
		assert.True(t, cols[0].Synthetic)
		assert.True(t, cols[1].Synthetic)
	})
}

func TestResolveStatuses(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   map[domain.SubjectStatus]string
	}{
		{
			name:   "canonical labels pass through",
			labels: []string{"Screened", "Screen Failed", "Randomized"},
			want: map[domain.SubjectStatus]string{
				domain.StatusScreened:     "Screened",
				domain.StatusScreenFailed: "Screen Failed",
				domain.StatusRandomized:   "Randomized",
			},
		},
		{
			name:   "loose labels resolve by keyword",
			labels: []string{"Subjects Screening", "Screening Failure", "Enrolled"},
			want: map[domain.SubjectStatus]string{
				domain.StatusScreened:     "Subjects Screening",
				domain.StatusScreenFailed: "Screening Failure",
				domain.StatusRandomized:   "Enrolled",
			},
		},
		{
			name:   "fail keyword outranks the screen keyword",
			labels: []string{"Screen-Fail", "In Screening"},
			want: map[domain.SubjectStatus]string{
				domain.StatusScreened:     "In Screening",
				domain.StatusScreenFailed: "Screen-Fail",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveStatuses(tt.labels)
			for status, label := range tt.want {
				assert.Equal(t, label, got[status], "status %s", status)
			}
		})
	}
}

func TestExtractMonthlyScreening(t *testing.T) {
	t.Run("sums per month with zero-guarded rate", func(t *testing.T) {
		table := NewTable(
			[]string{"Site ID", "Subject Status", "Jan-2025", "Feb-2025", "Mar-2025"},
			[][]string{
				{"001", "Screened", "10", "0", "6"},
				{"002", "Screened", "20", "0", "0"},
				{"001", "Screen Failed", "9", "0", "0"},
				{"001", "Randomized", "5", "0", "2"},
			},
		)

		rows, reason := ExtractMonthlyScreening(table)
		require.Equal(t, domain.ReasonNone, reason)
		// Feb has no screening activity at all and is skipped.
		require.Len(t, rows, 2)

		assert.Equal(t, "Jan-2025", rows[0].Month)
		assert.Equal(t, 30, rows[0].Screened)
		assert.Equal(t, 9, rows[0].ScreenFailed)
		assert.Equal(t, 5, rows[0].Randomized)
		assert.Equal(t, 30.0, rows[0].ScreenFailureRate)

		assert.Equal(t, "Mar-2025", rows[1].Month)
		assert.Equal(t, 6, rows[1].Screened)
		assert.Equal(t, 0.0, rows[1].ScreenFailureRate)
	})

	t.Run("rate is zero when nothing screened", func(t *testing.T) {
		table := NewTable(
			[]string{"Subject Status", "Jan-2025"},
			[][]string{
				{"Screened", "0"},
				{"Screen Failed", "4"},
			},
		)
		rows, reason := ExtractMonthlyScreening(table)
		require.Equal(t, domain.ReasonNone, reason)
		require.Len(t, rows, 1)
		assert.Equal(t, 0.0, rows[0].ScreenFailureRate)
	})

	t.Run("missing subject status column", func(t *testing.T) {
		table := NewTable([]string{"Site ID", "Jan-2025"}, nil)
		rows, reason := ExtractMonthlyScreening(table)
		assert.Nil(t, rows)
		assert.Equal(t, domain.ReasonMissingColumns, reason)
	})

	t.Run("no month columns", func(t *testing.T) {
		table := NewTable(
			[]string{"Site ID", "Subject Status", "Notes"},
			[][]string{{"001", "Screened", "text"}},
		)
		rows, reason := ExtractMonthlyScreening(table)
		assert.Nil(t, rows)
		assert.Equal(t, domain.ReasonNoMonthColumns, reason)
	})

	t.Run("unmappable statuses", func(t *testing.T) {
		table := NewTable(
			[]string{"Subject Status", "Jan-2025"},
			[][]string{
				{"Withdrawn", "3"},
				{"Completed", "2"},
			},
		)
		rows, reason := ExtractMonthlyScreening(table)
		assert.Nil(t, rows)
		assert.Equal(t, domain.ReasonUnmappedStatuses, reason)
	})
}

func TestExtractMonthlyEnrollment(t *testing.T) {
	t.Run("cumulative randomized trend", func(t *testing.T) {
		table := NewTable(
			[]string{"Subject Status", "Jan-2025", "Feb-2025"},
			[][]string{
				{"Screened", "50", "40"},
				{"Randomized", "30", "10"},
			},
		)
		rows, reason := ExtractMonthlyEnrollment(table)
		require.Equal(t, domain.ReasonNone, reason)
		require.Len(t, rows, 2)

		assert.Equal(t, 30, rows[0].MonthlyRandomized)
		assert.Equal(t, 30, rows[0].CumulativeRandomized)
		assert.Equal(t, 10, rows[1].MonthlyRandomized)
		assert.Equal(t, 40, rows[1].CumulativeRandomized)
		assert.Equal(t, time.January, rows[0].MonthDate.Month())
	})

	t.Run("synthetic months are not a trend", func(t *testing.T) {
		table := NewTable(
			[]string{"Subject Status", "Period A"},
			[][]string{{"Randomized", "5"}},
		)
		rows, reason := ExtractMonthlyEnrollment(table)
		assert.Nil(t, rows)
		assert.Equal(t, domain.ReasonNoMonthColumns, reason)
	})
}
