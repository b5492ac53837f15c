package domain

// EnrollmentRecord holds the aggregate subject counts for one site as
// reported by the enrollment summary export. Counts are coerced to 0 when the
// source cell is missing or non-numeric; they are never negative by
// construction but screened >= screen-failed is NOT enforced because source
// exports have been seen to violate it.
type EnrollmentRecord struct {
	SiteID       string `json:"site_id"`
	SiteName     string `json:"site_name,omitempty"`
	Country      string `json:"country"`
	Screened     int    `json:"screened"`
	ScreenFailed int    `json:"screen_failed"`
	Randomized   int    `json:"randomized"`
}

// ScreenFailureRate returns the screen-failure percentage for the record,
// 0 when nothing was screened.
func (r EnrollmentRecord) ScreenFailureRate() float64 {
	if r.Screened <= 0 {
		return 0
	}
	return float64(r.ScreenFailed) / float64(r.Screened) * 100
}

// ScreenFailureStat is one row of a screen-failure rollup grouped by country,
// site, or COSL. Key holds the group value; Country is populated for
// site-level groupings where each site also carries its country.
type ScreenFailureStat struct {
	Key               string  `json:"key"`
	Country           string  `json:"country,omitempty"`
	Screened          int     `json:"screened"`
	ScreenFailed      int     `json:"screen_failed"`
	Randomized        int     `json:"randomized"`
	ScreenFailureRate float64 `json:"screen_failure_rate"`
	RandomizationRate float64 `json:"randomization_rate"`
}
