package domain

import (
	"time"
)

// Site represents one investigative site in the merged view built from the
// monthly summary and site-master inputs. SiteNumber is the canonical key and
// is always compared as a string; numeric-looking IDs keep their leading
// zeros.
type Site struct {
	SiteNumber         string     `json:"site_number" validate:"required"`
	SiteName           string     `json:"site_name,omitempty"`
	Country            string     `json:"country"`
	Investigator       string     `json:"investigator,omitempty"`
	Status             string     `json:"status"`
	ActivationDate     *time.Time `json:"activation_date,omitempty"`
	FirstScreening     *time.Time `json:"first_screening,omitempty"`
	FirstRandomization *time.Time `json:"first_randomization,omitempty"`
	AssignedCOSL       string     `json:"assigned_cosl,omitempty"`
}

// SiteStatusActive is the only status value counted as active. The comparison
// is exact and case-sensitive; everything else is inactive.
const SiteStatusActive = "Active"

// IsActive reports whether the site status is exactly "Active".
func (s Site) IsActive() bool {
	return s.Status == SiteStatusActive
}

// SiteTimelineRow is one row of the site activation timeline: a Site plus the
// derived day count between activation and first screening.
//
// ScreeningPending distinguishes a censored observation from a completed one:
// when true, DaysToFirstScreening was measured from the activation date to
// the generation clock because the site has not screened yet.
type SiteTimelineRow struct {
	Site
	DaysToFirstScreening *int `json:"days_to_first_screening,omitempty"`
	ScreeningPending     bool `json:"screening_pending"`
}

// SiteMetrics summarizes the activation timeline.
type SiteMetrics struct {
	TotalSites          int     `json:"total_sites"`
	ActiveSites         int     `json:"active_sites"`
	InactiveSites       int     `json:"inactive_sites"`
	SitesNotScreening   int     `json:"sites_not_screening"`
	SitesNotRandomizing int     `json:"sites_not_randomizing"`
	PctActive           float64 `json:"pct_active"`
	PctNotScreening     float64 `json:"pct_not_screening"`
	PctNotRandomizing   float64 `json:"pct_not_randomizing"`

	// Pooled figures include pending (censored) day counts, matching the
	// headline numbers of the legacy dashboard. CompletedOnly excludes them.
	AvgDaysToFirstScreening       float64 `json:"avg_days_to_first_screening"`
	MedianDaysToFirstScreening    float64 `json:"median_days_to_first_screening"`
	AvgDaysCompletedScreeningOnly float64 `json:"avg_days_completed_screening_only"`
	HasDayMetrics                 bool    `json:"has_day_metrics"`
}
