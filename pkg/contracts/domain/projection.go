package domain

import (
	"time"
)

// ProjectionRow is one generated month of the enrollment projection. It is a
// pure function of the current cumulative randomized count, the monthly
// target and the resolved screen-failure rate; ScreeningsNeeded is computed
// once for the whole horizon and repeated on every row.
type ProjectionRow struct {
	Month                string    `json:"month"`
	MonthDate            time.Time `json:"month_date"`
	TargetRandomizations int       `json:"target_randomizations"`
	CumulativeTarget     int       `json:"cumulative_target"`
	ScreeningsNeeded     int       `json:"screenings_needed"`
}

// GenerateParams are the user-configurable knobs of a dashboard generation
// run. RateOverride of 0 means "use the calculated rate".
type GenerateParams struct {
	MonthlyTarget int       `json:"monthly_target" validate:"required,min=1"`
	ProjectionEnd time.Time `json:"projection_end" validate:"required"`
	RateOverride  float64   `json:"rate_override" validate:"min=0,max=100"`
}
