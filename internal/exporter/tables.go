package exporter

import (
	"fmt"

	"trialpulse/pkg/contracts/domain"
)

const exportDateLayout = "02-Jan-2006"

// RenderTable produces the fixed-order headers and records for one derived
// dashboard table. The layouts are stable: downstream spreadsheets key on
// column position.
func RenderTable(s *domain.Snapshot, name domain.TableName) ([]string, [][]string, error) {
	switch name {
	case domain.TableProjections:
		return renderProjections(s), projectionRecords(s), nil
	case domain.TableMonthlyActual:
		return renderMonthlyActualHeaders(), monthlyActualRecords(s), nil
	case domain.TableMonthlyScreening:
		return renderMonthlyScreeningHeaders(), monthlyScreeningRecords(s), nil
	case domain.TableActivation:
		return renderActivationHeaders(), activationRecords(s), nil
	case domain.TableCOSLMetrics:
		return renderCOSLHeaders(), coslRecords(s), nil
	case domain.TableCountryScreenFail:
		return renderStatHeaders("Country"), statRecords(s.CountryScreenFail, false), nil
	case domain.TableSiteScreenFail:
		return renderStatHeaders("Site ID"), statRecords(s.SiteScreenFail, true), nil
	default:
		return nil, nil, fmt.Errorf("unknown table: %s", name)
	}
}

func renderProjections(_ *domain.Snapshot) []string {
	return []string{"Month", "Target Randomizations", "Cumulative Target", "Screenings Needed"}
}

func projectionRecords(s *domain.Snapshot) [][]string {
	records := make([][]string, 0, len(s.Projections))
	for _, row := range s.Projections {
		records = append(records, []string{
			row.Month,
			formatInt(row.TargetRandomizations),
			formatInt(row.CumulativeTarget),
			formatInt(row.ScreeningsNeeded),
		})
	}
	return records
}

func renderMonthlyActualHeaders() []string {
	return []string{"Month", "Monthly Randomized", "Cumulative Randomized"}
}

func monthlyActualRecords(s *domain.Snapshot) [][]string {
	records := make([][]string, 0, len(s.MonthlyEnrollment))
	for _, row := range s.MonthlyEnrollment {
		records = append(records, []string{
			row.Month,
			formatInt(row.MonthlyRandomized),
			formatInt(row.CumulativeRandomized),
		})
	}
	return records
}

func renderMonthlyScreeningHeaders() []string {
	return []string{"Month", "Screened", "Screen Failed", "Randomized", "Screen Failure Rate (%)"}
}

func monthlyScreeningRecords(s *domain.Snapshot) [][]string {
	records := make([][]string, 0, len(s.MonthlyScreening))
	for _, row := range s.MonthlyScreening {
		records = append(records, []string{
			row.Month,
			formatInt(row.Screened),
			formatInt(row.ScreenFailed),
			formatInt(row.Randomized),
			formatRate(row.ScreenFailureRate),
		})
	}
	return records
}

func renderActivationHeaders() []string {
	return []string{
		"Site Number", "Site Name", "Country", "Investigator", "Status",
		"Activation Date", "1st Screening", "1st Enrollment",
		"Days to 1st Screening", "Screening Pending",
	}
}

func activationRecords(s *domain.Snapshot) [][]string {
	records := make([][]string, 0, len(s.Timeline))
	for _, row := range s.Timeline {
		records = append(records, []string{
			row.SiteNumber,
			row.SiteName,
			row.Country,
			row.Investigator,
			row.Status,
			formatDate(row.ActivationDate),
			formatDate(row.FirstScreening),
			formatDate(row.FirstRandomization),
			formatIntPtr(row.DaysToFirstScreening),
			formatBool(row.ScreeningPending),
		})
	}
	return records
}

func renderCOSLHeaders() []string {
	return []string{
		"COSL", "Sites Assigned", "Screened", "Not Screened",
		"Randomized", "Not Randomized", "Avg Days to 1st Screening",
		"Screen Failure Rate (%)",
	}
}

func coslRecords(s *domain.Snapshot) [][]string {
	records := make([][]string, 0, len(s.COSLMetrics))
	for _, m := range s.COSLMetrics {
		rate := ""
		if m.ScreenFailureRate != nil {
			rate = formatRate(*m.ScreenFailureRate)
		}
		records = append(records, []string{
			m.COSL,
			formatInt(m.SitesAssigned),
			formatInt(m.Screened),
			formatInt(m.NotScreened),
			formatInt(m.Randomized),
			formatInt(m.NotRandomized),
			formatRate(m.AvgDaysToFirstScreening),
			rate,
		})
	}
	return records
}

func renderStatHeaders(keyHeader string) []string {
	headers := []string{keyHeader}
	if keyHeader == "Site ID" {
		headers = append(headers, "Country")
	}
	return append(headers,
		"Screened", "Screen Failed", "Randomized",
		"Screen Failure Rate (%)", "Randomization Rate (%)")
}

func statRecords(stats []domain.ScreenFailureStat, withCountry bool) [][]string {
	records := make([][]string, 0, len(stats))
	for _, stat := range stats {
		record := []string{stat.Key}
		if withCountry {
			record = append(record, stat.Country)
		}
		record = append(record,
			formatInt(stat.Screened),
			formatInt(stat.ScreenFailed),
			formatInt(stat.Randomized),
			formatRate(stat.ScreenFailureRate),
			formatRate(stat.RandomizationRate),
		)
		records = append(records, record)
	}
	return records
}
