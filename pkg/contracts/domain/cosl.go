package domain

// COSLAssignment maps one site to its Clinical Operations Site Lead. The
// assignment source is, in priority order: an explicit COSL column, a
// PI/investigator column, or a deterministic round-robin over the configured
// fallback name list.
type COSLAssignment struct {
	SiteNumber string `json:"site_number"`
	COSL       string `json:"cosl"`
}

// COSLMetric is the per-lead rollup of site and enrollment performance.
// ScreenFailureRate is nil when the enrollment table lacked the columns
// needed for the join; the column is omitted rather than zeroed.
type COSLMetric struct {
	COSL                    string   `json:"cosl"`
	SitesAssigned           int      `json:"sites_assigned"`
	Screened                int      `json:"sites_screened"`
	NotScreened             int      `json:"sites_not_screened"`
	Randomized              int      `json:"sites_randomized"`
	NotRandomized           int      `json:"sites_not_randomized"`
	AvgDaysToFirstScreening float64  `json:"avg_days_to_first_screening"`
	ScreenFailureRate       *float64 `json:"screen_failure_rate,omitempty"`
}
