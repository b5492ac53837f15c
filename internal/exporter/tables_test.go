package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialpulse/pkg/contracts/domain"
)

func snapshotFixture() *domain.Snapshot {
	activation := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	screening := time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC)
	days := 10
	rate := 37.5

	return &domain.Snapshot{
		Projections: []domain.ProjectionRow{
			{Month: "Jun-2025", TargetRandomizations: 10, CumulativeTarget: 110, ScreeningsNeeded: 20},
		},
		MonthlyEnrollment: []domain.MonthlyEnrollmentRow{
			{Month: "Jan-2025", MonthlyRandomized: 30, CumulativeRandomized: 30},
		},
		MonthlyScreening: []domain.MonthlyScreenRow{
			{Month: "Jan-2025", Screened: 30, ScreenFailed: 9, Randomized: 5, ScreenFailureRate: 30},
		},
		Timeline: []domain.SiteTimelineRow{
			{
				Site: domain.Site{
					SiteNumber:     "007",
					SiteName:       "Mercy General",
					Country:        "USA",
					Investigator:   "Ada Okafor",
					Status:         "Active",
					ActivationDate: &activation,
					FirstScreening: &screening,
				},
				DaysToFirstScreening: &days,
			},
		},
		COSLMetrics: []domain.COSLMetric{
			{COSL: "Dana Reyes", SitesAssigned: 2, Screened: 1, NotScreened: 1, AvgDaysToFirstScreening: 20, ScreenFailureRate: &rate},
		},
		CountryScreenFail: []domain.ScreenFailureStat{
			{Key: "Germany", Country: "Germany", Screened: 12, ScreenFailed: 7, Randomized: 3, ScreenFailureRate: 58.3, RandomizationRate: 25},
		},
		SiteScreenFail: []domain.ScreenFailureStat{
			{Key: "007", Country: "Germany", Screened: 9, ScreenFailed: 6, Randomized: 2, ScreenFailureRate: 66.7, RandomizationRate: 22.2},
		},
	}
}

func TestRenderTableColumnOrder(t *testing.T) {
	s := snapshotFixture()

	tests := []struct {
		table       domain.TableName
		wantHeaders []string
		wantRecord  []string
	}{
		{
			table:       domain.TableProjections,
			wantHeaders: []string{"Month", "Target Randomizations", "Cumulative Target", "Screenings Needed"},
			wantRecord:  []string{"Jun-2025", "10", "110", "20"},
		},
		{
			table:       domain.TableMonthlyActual,
			wantHeaders: []string{"Month", "Monthly Randomized", "Cumulative Randomized"},
			wantRecord:  []string{"Jan-2025", "30", "30"},
		},
		{
			table:       domain.TableMonthlyScreening,
			wantHeaders: []string{"Month", "Screened", "Screen Failed", "Randomized", "Screen Failure Rate (%)"},
			wantRecord:  []string{"Jan-2025", "30", "9", "5", "30.0"},
		},
		{
			table: domain.TableActivation,
			wantHeaders: []string{
				"Site Number", "Site Name", "Country", "Investigator", "Status",
				"Activation Date", "1st Screening", "1st Enrollment",
				"Days to 1st Screening", "Screening Pending",
			},
			wantRecord: []string{"007", "Mercy General", "USA", "Ada Okafor", "Active", "01-Jan-2025", "11-Jan-2025", "", "10", "false"},
		},
		{
			table: domain.TableCOSLMetrics,
			wantHeaders: []string{
				"COSL", "Sites Assigned", "Screened", "Not Screened",
				"Randomized", "Not Randomized", "Avg Days to 1st Screening",
				"Screen Failure Rate (%)",
			},
			wantRecord: []string{"Dana Reyes", "2", "1", "1", "0", "0", "20.0", "37.5"},
		},
		{
			table:       domain.TableCountryScreenFail,
			wantHeaders: []string{"Country", "Screened", "Screen Failed", "Randomized", "Screen Failure Rate (%)", "Randomization Rate (%)"},
			wantRecord:  []string{"Germany", "12", "7", "3", "58.3", "25.0"},
		},
		{
			table:       domain.TableSiteScreenFail,
			wantHeaders: []string{"Site ID", "Country", "Screened", "Screen Failed", "Randomized", "Screen Failure Rate (%)", "Randomization Rate (%)"},
			wantRecord:  []string{"007", "Germany", "9", "6", "2", "66.7", "22.2"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.table), func(t *testing.T) {
			headers, records, err := RenderTable(s, tt.table)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeaders, headers)
			require.Len(t, records, 1)
			assert.Equal(t, tt.wantRecord, records[0])
		})
	}
}

func TestRenderTableUnknown(t *testing.T) {
	_, _, err := RenderTable(snapshotFixture(), domain.TableName("nope"))
	assert.Error(t, err)
}

func TestRenderCOSLWithoutRate(t *testing.T) {
	s := &domain.Snapshot{
		COSLMetrics: []domain.COSLMetric{{COSL: "Dana Reyes", SitesAssigned: 1}},
	}
	_, records, err := RenderTable(s, domain.TableCOSLMetrics)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0][7], "absent rate exports as an empty cell")
}
