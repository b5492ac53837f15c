package domain

import (
	"time"
)

// SubjectStatus is a canonical subject status resolved from the fuzzy labels
// found in the monthly summary export.
type SubjectStatus string

const (
	StatusScreened     SubjectStatus = "Screened"
	StatusScreenFailed SubjectStatus = "Screen Failed"
	StatusRandomized   SubjectStatus = "Randomized"
)

// MonthlyScreenRow is one calendar month of screening activity summed across
// all sites, with a zero-guarded screen-failure rate.
//
// Synthetic is true when the source month headers did not parse as dates and
// the extractor fell back to a sequential ordering; MonthDate then carries a
// dummy stamp usable only for sorting, never for calendar arithmetic.
type MonthlyScreenRow struct {
	Month             string    `json:"month"`
	MonthDate         time.Time `json:"month_date"`
	Synthetic         bool      `json:"synthetic,omitempty"`
	Screened          int       `json:"screened"`
	ScreenFailed      int       `json:"screen_failed"`
	Randomized        int       `json:"randomized"`
	ScreenFailureRate float64   `json:"screen_failure_rate"`
}

// MonthlyEnrollmentRow is one calendar month of randomizations with the
// running cumulative total, used by the enrollment trend.
type MonthlyEnrollmentRow struct {
	Month                string    `json:"month"`
	MonthDate            time.Time `json:"month_date"`
	MonthlyRandomized    int       `json:"monthly_randomized"`
	CumulativeRandomized int       `json:"cumulative_randomized"`
}
