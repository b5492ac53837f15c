package dataprocessing

import (
	"math"
	"sort"

	"trialpulse/internal/config"
	"trialpulse/pkg/contracts/domain"
)

// round1 rounds to one decimal place, matching the precision the source
// exports carry for percentage columns.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// RollupByCountry aggregates enrollment records per country and computes
// zero-guarded screen-failure and randomization rates, sorted by screening
// volume descending.
func RollupByCountry(data EnrollmentData) []domain.ScreenFailureStat {
	if !data.HasCountry || !data.HasScreened || !data.HasScreenFailed {
		return nil
	}

	byCountry := make(map[string]*domain.ScreenFailureStat)
	var order []string
	for _, r := range data.Records {
		if r.Country == "" {
			continue
		}
		stat, ok := byCountry[r.Country]
		if !ok {
			stat = &domain.ScreenFailureStat{Key: r.Country, Country: r.Country}
			byCountry[r.Country] = stat
			order = append(order, r.Country)
		}
		stat.Screened += r.Screened
		stat.ScreenFailed += r.ScreenFailed
		stat.Randomized += r.Randomized
	}

	stats := make([]domain.ScreenFailureStat, 0, len(order))
	for _, country := range order {
		stat := byCountry[country]
		finalizeRates(stat)
		stats = append(stats, *stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Screened > stats[j].Screened
	})
	return stats
}

// RollupBySite aggregates enrollment records per site, keeping only sites
// with enough screened subjects for the rate to mean anything, sorted by
// screen-failure rate descending.
func RollupBySite(data EnrollmentData) []domain.ScreenFailureStat {
	if !data.HasSiteID || !data.HasScreened || !data.HasScreenFailed {
		return nil
	}

	type siteKey struct{ id, country string }
	bySite := make(map[siteKey]*domain.ScreenFailureStat)
	var order []siteKey
	for _, r := range data.Records {
		if r.SiteID == "" {
			continue
		}
		key := siteKey{id: r.SiteID, country: r.Country}
		stat, ok := bySite[key]
		if !ok {
			stat = &domain.ScreenFailureStat{Key: r.SiteID, Country: r.Country}
			bySite[key] = stat
			order = append(order, key)
		}
		stat.Screened += r.Screened
		stat.ScreenFailed += r.ScreenFailed
		stat.Randomized += r.Randomized
	}

	var stats []domain.ScreenFailureStat
	for _, key := range order {
		stat := bySite[key]
		if stat.Screened < config.MinScreenedForSiteRate {
			continue
		}
		finalizeRates(stat)
		stats = append(stats, *stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].ScreenFailureRate > stats[j].ScreenFailureRate
	})
	return stats
}

func finalizeRates(stat *domain.ScreenFailureStat) {
	if stat.Screened > 0 {
		stat.ScreenFailureRate = round1(float64(stat.ScreenFailed) / float64(stat.Screened) * 100)
		stat.RandomizationRate = round1(float64(stat.Randomized) / float64(stat.Screened) * 100)
	}
}
