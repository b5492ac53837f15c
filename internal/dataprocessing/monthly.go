package dataprocessing

import (
	"sort"
	"strings"
	"time"

	"trialpulse/internal/config"
	"trialpulse/pkg/contracts/domain"
)

// monthColumn is a source column identified as holding one month of counts.
type monthColumn struct {
	Name      string
	Date      time.Time
	Synthetic bool
}

// monthColumns identifies the month columns of a monthly summary table.
// Every column outside the fixed metadata set is a candidate; the first
// month layout that parses the header wins. When no header parses as a date
// at all, all-numeric candidate columns are kept in source order under
// synthetic sequential stamps, a best-effort degrade for exports with
// unrecognizable month labels. Synthetic stamps order the columns and mean
// nothing as calendar months.
func monthColumns(t *Table) []monthColumn {
	var cols []monthColumn
	for _, header := range t.Headers() {
		if config.NonMonthColumns[header] {
			continue
		}
		for _, layout := range config.MonthLayouts {
			if d, err := time.Parse(layout, header); err == nil {
				cols = append(cols, monthColumn{Name: header, Date: d})
				break
			}
		}
	}

	if len(cols) == 0 {
		i := 0
		for _, header := range t.Headers() {
			if config.NonMonthColumns[header] || !t.ColumnIsNumeric(header) {
				continue
			}
			cols = append(cols, monthColumn{
				Name:      header,
				Date:      time.Date(2020, time.Month(i%12+1), 1, 0, 0, 0, 0, time.UTC),
				Synthetic: true,
			})
			i++
		}
	}

	sort.SliceStable(cols, func(i, j int) bool {
		return cols[i].Date.Before(cols[j].Date)
	})
	return cols
}

// resolveStatuses maps the source subject-status labels onto the canonical
// statuses using case-insensitive substring heuristics. The first pass looks
// for the canonical name inside each label; if fewer than two statuses
// resolve, a second pass applies the looser keyword rules, where "fail"
// takes precedence over a generic "screen" match.
func resolveStatuses(labels []string) map[domain.SubjectStatus]string {
	mapping := make(map[domain.SubjectStatus]string)

	canonical := []domain.SubjectStatus{domain.StatusScreened, domain.StatusScreenFailed, domain.StatusRandomized}
	for _, want := range canonical {
		for _, label := range labels {
			if strings.Contains(strings.ToLower(label), strings.ToLower(string(want))) {
				mapping[want] = label
				break
			}
		}
	}

	if len(mapping) < 2 {
		for _, label := range labels {
			l := strings.ToLower(label)
			switch {
			case strings.Contains(l, "screen") && !strings.Contains(l, "fail"):
				mapping[domain.StatusScreened] = label
			case strings.Contains(l, "fail"):
				mapping[domain.StatusScreenFailed] = label
			case strings.Contains(l, "random") || strings.Contains(l, "enroll"):
				mapping[domain.StatusRandomized] = label
			}
		}
	}

	return mapping
}

// uniqueStatusLabels returns the distinct subject-status labels in row order.
func uniqueStatusLabels(t *Table) []string {
	seen := make(map[string]bool)
	var labels []string
	for i := 0; i < t.Len(); i++ {
		label := t.Cell(i, config.ColSubjectStatus)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// sumByStatus sums one month column over the rows carrying the given
// subject-status label.
func sumByStatus(t *Table, col, statusLabel string) int {
	total := 0
	for i := 0; i < t.Len(); i++ {
		if t.Cell(i, config.ColSubjectStatus) == statusLabel {
			total += CoerceCount(t.Cell(i, col))
		}
	}
	return total
}

// ExtractMonthlyScreening reshapes the wide monthly table into one row per
// month with summed screened / screen-failed / randomized counts and a
// zero-guarded screen-failure rate, sorted chronologically. Months with no
// screening activity are skipped. Partial results are never returned: if
// screened and screen-failed labels cannot both be resolved, the extraction
// reports why instead.
func ExtractMonthlyScreening(t *Table) ([]domain.MonthlyScreenRow, domain.AbsenceReason) {
	if !t.Has(config.ColSubjectStatus) {
		return nil, domain.ReasonMissingColumns
	}

	cols := monthColumns(t)
	if len(cols) == 0 {
		return nil, domain.ReasonNoMonthColumns
	}

	mapping := resolveStatuses(uniqueStatusLabels(t))
	screenedLabel, okScreened := mapping[domain.StatusScreened]
	failedLabel, okFailed := mapping[domain.StatusScreenFailed]
	if !okScreened || !okFailed {
		return nil, domain.ReasonUnmappedStatuses
	}
	randomizedLabel := mapping[domain.StatusRandomized]

	rows := make([]domain.MonthlyScreenRow, 0, len(cols))
	for _, col := range cols {
		screened := sumByStatus(t, col.Name, screenedLabel)
		failed := sumByStatus(t, col.Name, failedLabel)
		randomized := 0
		if randomizedLabel != "" {
			randomized = sumByStatus(t, col.Name, randomizedLabel)
		}

		if screened == 0 && failed == 0 {
			continue
		}

		rate := 0.0
		if screened > 0 {
			rate = round1(float64(failed) / float64(screened) * 100)
		}

		rows = append(rows, domain.MonthlyScreenRow{
			Month:             col.Name,
			MonthDate:         col.Date,
			Synthetic:         col.Synthetic,
			Screened:          screened,
			ScreenFailed:      failed,
			Randomized:        randomized,
			ScreenFailureRate: rate,
		})
	}

	if len(rows) == 0 {
		return nil, domain.ReasonNoRows
	}
	return rows, domain.ReasonNone
}

// ExtractMonthlyEnrollment extracts the randomization trend: monthly and
// cumulative randomized counts per calendar month. Unlike the screening
// extraction this path requires real month headers; a synthetic month
// sequence would make the cumulative trend line meaningless next to the
// dated projection.
func ExtractMonthlyEnrollment(t *Table) ([]domain.MonthlyEnrollmentRow, domain.AbsenceReason) {
	if !t.Has(config.ColSubjectStatus) {
		return nil, domain.ReasonMissingColumns
	}

	cols := monthColumns(t)
	if len(cols) == 0 || cols[0].Synthetic {
		return nil, domain.ReasonNoMonthColumns
	}

	rows := make([]domain.MonthlyEnrollmentRow, 0, len(cols))
	cumulative := 0
	for _, col := range cols {
		monthly := sumByStatus(t, col.Name, string(domain.StatusRandomized))
		cumulative += monthly
		rows = append(rows, domain.MonthlyEnrollmentRow{
			Month:                col.Name,
			MonthDate:            col.Date,
			MonthlyRandomized:    monthly,
			CumulativeRandomized: cumulative,
		})
	}

	if len(rows) == 0 {
		return nil, domain.ReasonNoRows
	}
	return rows, domain.ReasonNone
}
