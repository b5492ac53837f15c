package dataprocessing

import (
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"trialpulse/internal/config"
	"trialpulse/pkg/contracts/domain"
)

// BuildTimeline merges the monthly summary (site identity, status, first
// screening / first enrollment dates, PI names) with the site-master
// activation dates into one row per unique site.
//
// Site numbers are matched as trimmed strings, never as numbers, so IDs like
// "007" survive the join. Monthly rows are deduplicated by the full identity
// tuple before merging because the monthly export repeats each site once per
// subject status.
func BuildTimeline(monthly, site *Table, now time.Time) []domain.SiteTimelineRow {
	activationBySite := make(map[string]*time.Time)
	if site != nil {
		for i := 0; i < site.Len(); i++ {
			num := strings.TrimSpace(site.Cell(i, config.ColSiteNumber))
			if num == "" {
				continue
			}
			if d := CoerceDate(site.Cell(i, config.ColSiteActivatedDate)); d != nil {
				activationBySite[num] = d
			}
		}
	}

	type dedupeKey struct {
		siteID, name, status, country, firstScreening, firstEnrollment string
	}
	seen := make(map[dedupeKey]bool)

	var rows []domain.SiteTimelineRow
	for i := 0; i < monthly.Len(); i++ {
		key := dedupeKey{
			siteID:          monthly.Cell(i, config.ColSiteID),
			name:            monthly.Cell(i, config.ColSiteName),
			status:          monthly.Cell(i, config.ColStatus),
			country:         monthly.Cell(i, config.ColCountry),
			firstScreening:  monthly.Cell(i, config.ColFirstScreening),
			firstEnrollment: monthly.Cell(i, config.ColFirstEnrollment),
		}
		if key.siteID == "" || seen[key] {
			continue
		}
		seen[key] = true

		investigator := strings.TrimSpace(
			monthly.Cell(i, config.ColPIFirstName) + " " + monthly.Cell(i, config.ColPILastName))

		row := domain.SiteTimelineRow{
			Site: domain.Site{
				SiteNumber:         key.siteID,
				SiteName:           key.name,
				Country:            key.country,
				Investigator:       investigator,
				Status:             key.status,
				ActivationDate:     activationBySite[key.siteID],
				FirstScreening:     CoerceDate(key.firstScreening),
				FirstRandomization: CoerceDate(key.firstEnrollment),
			},
		}

		if row.ActivationDate != nil {
			switch {
			case row.FirstScreening != nil:
				days := calendarDays(*row.ActivationDate, *row.FirstScreening)
				row.DaysToFirstScreening = &days
			default:
				// No screening yet: measure against the generation clock and
				// flag the interval as censored.
				days := calendarDays(*row.ActivationDate, now)
				row.DaysToFirstScreening = &days
				row.ScreeningPending = true
			}
		}

		rows = append(rows, row)
	}

	return rows
}

// calendarDays returns the whole-day difference between two dates, ignoring
// the time of day.
func calendarDays(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

// ComputeSiteMetrics derives the activation summary from the timeline.
// "Active" is an exact, case-sensitive match; everything else counts as
// inactive. Percentages are zero-guarded for an empty timeline.
//
// The pooled day averages include censored (screening-pending) intervals,
// matching the legacy dashboard's headline numbers; the completed-only mean
// is computed alongside for consumers that want the uncensored figure.
func ComputeSiteMetrics(rows []domain.SiteTimelineRow) domain.SiteMetrics {
	m := domain.SiteMetrics{TotalSites: len(rows)}

	var pooled, completed []float64
	for _, row := range rows {
		if row.IsActive() {
			m.ActiveSites++
		}
		if row.FirstScreening == nil {
			m.SitesNotScreening++
		}
		if row.FirstRandomization == nil {
			m.SitesNotRandomizing++
		}
		if row.DaysToFirstScreening != nil {
			pooled = append(pooled, float64(*row.DaysToFirstScreening))
			if !row.ScreeningPending {
				completed = append(completed, float64(*row.DaysToFirstScreening))
			}
		}
	}
	m.InactiveSites = m.TotalSites - m.ActiveSites

	if m.TotalSites > 0 {
		m.PctActive = float64(m.ActiveSites) / float64(m.TotalSites) * 100
		m.PctNotScreening = float64(m.SitesNotScreening) / float64(m.TotalSites) * 100
		m.PctNotRandomizing = float64(m.SitesNotRandomizing) / float64(m.TotalSites) * 100
	}

	if len(pooled) > 0 {
		m.HasDayMetrics = true
		if mean, err := stats.Mean(pooled); err == nil {
			m.AvgDaysToFirstScreening = mean
		}
		if median, err := stats.Median(pooled); err == nil {
			m.MedianDaysToFirstScreening = median
		}
	}
	if len(completed) > 0 {
		if mean, err := stats.Mean(completed); err == nil {
			m.AvgDaysCompletedScreeningOnly = mean
		}
	}

	return m
}
