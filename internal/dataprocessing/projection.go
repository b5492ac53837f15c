package dataprocessing

import (
	"math"
	"time"

	"trialpulse/internal/config"
	"trialpulse/pkg/contracts/domain"
)

// ResolveScreenFailureRate picks the study-wide screen-failure rate by
// precedence: an explicit positive override first, then the enrollment
// summary aggregate, then the monthly table's Total column, and finally the
// fixed default. The returned rate is a percentage in [0, 100+].
func ResolveScreenFailureRate(enrollment EnrollmentData, monthly *Table, override float64) float64 {
	if override > 0 {
		return override
	}

	if enrollment.HasScreened && enrollment.HasScreenFailed {
		screened := enrollment.TotalScreened()
		if screened > 0 {
			return float64(enrollment.TotalScreenFailed()) / float64(screened) * 100
		}
	}

	if monthly != nil && monthly.HasAll(config.ColSubjectStatus, config.ColTotal) {
		screened := sumByStatus(monthly, config.ColTotal, string(domain.StatusScreened))
		failed := sumByStatus(monthly, config.ColTotal, string(domain.StatusScreenFailed))
		if screened > 0 {
			return float64(failed) / float64(screened) * 100
		}
	}

	return config.DefaultScreenFailureRate
}

// ScreeningsNeeded inverts the screen-failure rate to estimate how many
// screenings produce the target number of randomizations. A rate at or above
// 100% would blow the division up, so it saturates at a fixed multiple of the
// target instead.
func ScreeningsNeeded(target int, rate float64) int {
	if rate >= 100 {
		return target * config.SaturationMultiplier
	}
	return int(math.Round(float64(target) / (1 - rate/100)))
}

// GenerateProjections builds the month-by-month enrollment projection from
// the first day of the current month through the end of the projection-end
// month. The cumulative target starts from the current randomized total and
// grows by the monthly target; the screenings-needed estimate is constant
// across the horizon.
func GenerateProjections(currentRandomized, monthlyTarget int, end time.Time, rate float64, now time.Time) []domain.ProjectionRow {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	endMonth := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	needed := ScreeningsNeeded(monthlyTarget, rate)

	var rows []domain.ProjectionRow
	for i, month := 0, start; !month.After(endMonth); i, month = i+1, month.AddDate(0, 1, 0) {
		rows = append(rows, domain.ProjectionRow{
			Month:                month.Format("Jan-2006"),
			MonthDate:            month,
			TargetRandomizations: monthlyTarget,
			CumulativeTarget:     currentRandomized + (i+1)*monthlyTarget,
			ScreeningsNeeded:     needed,
		})
	}
	return rows
}
