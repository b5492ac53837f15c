package dataprocessing

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"trialpulse/internal/config"
	"trialpulse/pkg/contracts/domain"
)

// coslColumn picks the column the lead assignments come from. A header
// containing "cosl" wins outright; failing that, a PI or investigator column
// stands in for the lead.
func coslColumn(t *Table) string {
	for _, header := range t.Headers() {
		if strings.Contains(strings.ToLower(header), "cosl") {
			return header
		}
	}
	for _, header := range t.Headers() {
		l := strings.ToLower(header)
		if strings.Contains(l, "pi") || strings.Contains(l, "investigator") {
			return header
		}
	}
	return ""
}

// GenerateAssignments maps each unique site in the site-master data to a
// clinical operations site lead. When the data carries no usable lead column
// at all, sites are spread round-robin over the default lead pool in
// first-encounter order so the workload view stays populated.
func GenerateAssignments(site *Table, leadPool []string) []domain.COSLAssignment {
	if site == nil {
		return nil
	}
	if len(leadPool) == 0 {
		leadPool = config.DefaultCOSLNames
	}

	leadCol := coslColumn(site)

	seen := make(map[string]bool)
	var assignments []domain.COSLAssignment
	for i := 0; i < site.Len(); i++ {
		num := strings.TrimSpace(site.Cell(i, config.ColSiteNumber))
		if num == "" || seen[num] {
			continue
		}
		seen[num] = true

		lead := ""
		if leadCol != "" {
			lead = strings.TrimSpace(site.Cell(i, leadCol))
		}
		if leadCol == "" {
			lead = leadPool[len(assignments)%len(leadPool)]
		}

		assignments = append(assignments, domain.COSLAssignment{
			SiteNumber: num,
			COSL:       lead,
		})
	}
	return assignments
}

// BuildCOSLMetrics rolls the timeline and enrollment data up per site lead:
// assigned-site counts, screening and randomization progress, the mean days
// to first screening, and the mean of the per-site screen-failure rates.
// The rate mean covers the lead's assigned sites that appear in the
// enrollment aggregation, joined by site number; timeline membership plays
// no part in it. Sites without a lead are dropped rather than grouped under
// a blank name. The screen-failure column is omitted entirely when the
// enrollment data cannot support per-site rates.
func BuildCOSLMetrics(assignments []domain.COSLAssignment, timeline []domain.SiteTimelineRow, enrollment EnrollmentData) []domain.COSLMetric {
	leadBySite := make(map[string]string, len(assignments))
	for _, a := range assignments {
		leadBySite[a.SiteNumber] = a.COSL
	}

	hasRates := enrollment.HasSiteID && enrollment.HasScreened && enrollment.HasScreenFailed
	rateBySite := make(map[string]float64)
	if hasRates {
		type agg struct{ screened, failed int }
		totals := make(map[string]*agg)
		for _, r := range enrollment.Records {
			if r.SiteID == "" {
				continue
			}
			a, ok := totals[r.SiteID]
			if !ok {
				a = &agg{}
				totals[r.SiteID] = a
			}
			a.screened += r.Screened
			a.failed += r.ScreenFailed
		}
		for id, a := range totals {
			if a.screened > 0 {
				rateBySite[id] = float64(a.failed) / float64(a.screened) * 100
			} else {
				rateBySite[id] = 0
			}
		}
	}

	leadRates := make(map[string][]float64)
	if hasRates {
		for _, a := range assignments {
			if a.COSL == "" {
				continue
			}
			if rate, ok := rateBySite[a.SiteNumber]; ok {
				leadRates[a.COSL] = append(leadRates[a.COSL], rate)
			}
		}
	}

	type group struct {
		metric domain.COSLMetric
		days   []float64
	}
	groups := make(map[string]*group)
	var order []string

	for _, row := range timeline {
		lead := leadBySite[row.SiteNumber]
		if lead == "" {
			continue
		}
		g, ok := groups[lead]
		if !ok {
			g = &group{metric: domain.COSLMetric{COSL: lead}}
			groups[lead] = g
			order = append(order, lead)
		}

		g.metric.SitesAssigned++
		if row.FirstScreening != nil {
			g.metric.Screened++
		} else {
			g.metric.NotScreened++
		}
		if row.FirstRandomization != nil {
			g.metric.Randomized++
		} else {
			g.metric.NotRandomized++
		}
		if row.DaysToFirstScreening != nil {
			g.days = append(g.days, float64(*row.DaysToFirstScreening))
		}
	}

	sort.Strings(order)

	metrics := make([]domain.COSLMetric, 0, len(order))
	for _, lead := range order {
		g := groups[lead]
		if len(g.days) > 0 {
			if mean, err := stats.Mean(g.days); err == nil {
				g.metric.AvgDaysToFirstScreening = round1(mean)
			}
		}
		if rates := leadRates[lead]; hasRates && len(rates) > 0 {
			if mean, err := stats.Mean(rates); err == nil {
				rate := round1(mean)
				g.metric.ScreenFailureRate = &rate
			}
		}
		metrics = append(metrics, g.metric)
	}
	return metrics
}
