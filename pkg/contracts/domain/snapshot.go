package domain

import (
	"time"
)

// TableName identifies one derived dashboard table. The names double as URL
// path segments and export file basenames.
type TableName string

const (
	TableProjections       TableName = "projections"
	TableMonthlyActual     TableName = "monthly-actual"
	TableMonthlyScreening  TableName = "monthly-screen-failure"
	TableActivation        TableName = "activation"
	TableCOSLMetrics       TableName = "cosl-metrics"
	TableCountryScreenFail TableName = "screen-failure-country"
	TableSiteScreenFail    TableName = "screen-failure-site"
)

// AllTables lists every derived table in presentation order.
var AllTables = []TableName{
	TableProjections,
	TableMonthlyActual,
	TableMonthlyScreening,
	TableActivation,
	TableCOSLMetrics,
	TableCountryScreenFail,
	TableSiteScreenFail,
}

// AbsenceReason explains why a derived section could not be produced.
// Structural gaps (missing columns) are distinguished from empty results so
// the presentation layer can choose between "fix your export" and "no data
// yet" messaging.
type AbsenceReason string

const (
	ReasonNone             AbsenceReason = ""
	ReasonMissingColumns   AbsenceReason = "missing_columns"
	ReasonNoMonthColumns   AbsenceReason = "no_month_columns"
	ReasonUnmappedStatuses AbsenceReason = "unmapped_statuses"
	ReasonNoRows           AbsenceReason = "no_rows"
)

// SectionStatus records availability of one derived table.
type SectionStatus struct {
	Available bool          `json:"available"`
	Reason    AbsenceReason `json:"reason,omitempty"`
	Detail    string        `json:"detail,omitempty"`
}

// Snapshot is the immutable result of one dashboard generation run. A run
// either publishes a complete snapshot or fails without touching the
// previously published one; fields are never mutated after construction.
type Snapshot struct {
	ID          string         `json:"id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Params      GenerateParams `json:"params"`

	// Headline figures.
	ScreenFailureRate float64 `json:"screen_failure_rate"`
	ScreeningsNeeded  int     `json:"screenings_needed"`
	TotalScreened     int     `json:"total_screened"`
	TotalRandomized   int     `json:"total_randomized"`

	Enrollment        []EnrollmentRecord     `json:"enrollment"`
	Timeline          []SiteTimelineRow      `json:"timeline"`
	SiteMetrics       SiteMetrics            `json:"site_metrics"`
	COSLAssignments   []COSLAssignment       `json:"cosl_assignments"`
	COSLMetrics       []COSLMetric           `json:"cosl_metrics"`
	Projections       []ProjectionRow        `json:"projections"`
	MonthlyEnrollment []MonthlyEnrollmentRow `json:"monthly_enrollment"`
	MonthlyScreening  []MonthlyScreenRow     `json:"monthly_screening"`
	CountryScreenFail []ScreenFailureStat    `json:"country_screen_failure"`
	SiteScreenFail    []ScreenFailureStat    `json:"site_screen_failure"`

	Sections map[TableName]SectionStatus `json:"sections"`
}

// Section returns the status for a table, defaulting to unavailable when the
// generator recorded nothing for it.
func (s *Snapshot) Section(name TableName) SectionStatus {
	if st, ok := s.Sections[name]; ok {
		return st
	}
	return SectionStatus{Available: false, Reason: ReasonNoRows}
}
