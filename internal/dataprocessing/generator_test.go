package dataprocessing

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialpulse/pkg/contracts/domain"
)

func testGenerator(now time.Time) *Generator {
	g := NewGenerator(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	g.now = func() time.Time { return now }
	return g
}

func generatorInputs() Inputs {
	enrollment := NewTable(
		[]string{"Site ID", "Site Name", "Country", "Screened", "Screen Failed", "Randomized"},
		[][]string{
			{"001", "Mercy General", "USA", "20", "5", "18"},
			{"007", "St. Anna", "Germany", "10", "5", "12"},
		},
	)
	monthly := NewTable(
		[]string{"Site ID", "Site Name", "PI First Name", "PI Last Name", "Status", "Country", "1st Screening", "1st Enrollment", "Subject Status", "Total", "Jan-2025", "Feb-2025"},
		[][]string{
			{"001", "Mercy General", "Ada", "Okafor", "Active", "USA", "11-Jan-2025", "20-Jan-2025", "Screened", "30", "20", "10"},
			{"001", "Mercy General", "Ada", "Okafor", "Active", "USA", "11-Jan-2025", "20-Jan-2025", "Screen Failed", "10", "6", "4"},
			{"001", "Mercy General", "Ada", "Okafor", "Active", "USA", "11-Jan-2025", "20-Jan-2025", "Randomized", "40", "30", "10"},
			{"007", "St. Anna", "Jonas", "Weber", "Active", "Germany", "", "", "Screened", "0", "0", "0"},
		},
	)
	site := NewTable(
		[]string{"Site Number", "Country", "Site Activated Date"},
		[][]string{
			{"001", "USA", "01-Jan-2025"},
			{"007", "Germany", "15-Jan-2025"},
		},
	)
	return Inputs{Enrollment: enrollment, Monthly: monthly, Site: site}
}

func TestGeneratorGenerate(t *testing.T) {
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC)
	g := testGenerator(now)

	snapshot, err := g.Generate(context.Background(), generatorInputs(), domain.GenerateParams{
		MonthlyTarget: 10,
		ProjectionEnd: end,
	})
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.NotEmpty(t, snapshot.ID)
	assert.Equal(t, now, snapshot.GeneratedAt)

	// Headline rate from the enrollment aggregate: 10 failed of 30 screened.
	assert.InDelta(t, 33.333, snapshot.ScreenFailureRate, 0.001)
	assert.Equal(t, 15, snapshot.ScreeningsNeeded)
	assert.Equal(t, 30, snapshot.TotalScreened)
	assert.Equal(t, 30, snapshot.TotalRandomized)

	// Projection: Mar + Apr on top of the current 30 randomized.
	require.Len(t, snapshot.Projections, 2)
	assert.Equal(t, 40, snapshot.Projections[0].CumulativeTarget)
	assert.Equal(t, 50, snapshot.Projections[1].CumulativeTarget)

	// Monthly trend: cumulative randomized [30, 40].
	require.Len(t, snapshot.MonthlyEnrollment, 2)
	assert.Equal(t, 30, snapshot.MonthlyEnrollment[0].CumulativeRandomized)
	assert.Equal(t, 40, snapshot.MonthlyEnrollment[1].CumulativeRandomized)

	require.Len(t, snapshot.Timeline, 2)
	require.Len(t, snapshot.COSLAssignments, 2)
	assert.Equal(t, 2, snapshot.SiteMetrics.TotalSites)

	for _, name := range []domain.TableName{
		domain.TableProjections,
		domain.TableMonthlyActual,
		domain.TableMonthlyScreening,
		domain.TableActivation,
		domain.TableCOSLMetrics,
		domain.TableCountryScreenFail,
		domain.TableSiteScreenFail,
	} {
		assert.True(t, snapshot.Section(name).Available, "section %s", name)
	}
}

func TestGeneratorDegradedSections(t *testing.T) {
	in := generatorInputs()
	// Strip the countries so the country rollup loses its key column.
	in.Enrollment = NewTable(
		[]string{"Site ID", "Screened", "Screen Failed"},
		[][]string{{"001", "2", "1"}},
	)

	g := testGenerator(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	snapshot, err := g.Generate(context.Background(), in, domain.GenerateParams{
		MonthlyTarget: 5,
		ProjectionEnd: time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	country := snapshot.Section(domain.TableCountryScreenFail)
	assert.False(t, country.Available)
	assert.Equal(t, domain.ReasonMissingColumns, country.Reason)

	// Only site 001 exists and it screened 2 subjects, below the threshold.
	site := snapshot.Section(domain.TableSiteScreenFail)
	assert.False(t, site.Available)
	assert.Equal(t, domain.ReasonNoRows, site.Reason)

	assert.True(t, snapshot.Section(domain.TableActivation).Available,
		"unrelated sections stay available")
}

func TestGeneratorAtomicity(t *testing.T) {
	g := testGenerator(time.Now())

	tests := []struct {
		name   string
		in     Inputs
		params domain.GenerateParams
	}{
		{
			name:   "missing input table",
			in:     Inputs{Enrollment: NewTable(nil, nil), Monthly: NewTable(nil, nil)},
			params: domain.GenerateParams{MonthlyTarget: 10, ProjectionEnd: time.Now()},
		},
		{
			name:   "zero monthly target",
			in:     generatorInputs(),
			params: domain.GenerateParams{MonthlyTarget: 0, ProjectionEnd: time.Now()},
		},
		{
			name:   "rate override out of range",
			in:     generatorInputs(),
			params: domain.GenerateParams{MonthlyTarget: 10, ProjectionEnd: time.Now(), RateOverride: 120},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot, err := g.Generate(context.Background(), tt.in, tt.params)
			require.Error(t, err)
			assert.Nil(t, snapshot, "a failed run must not publish a partial snapshot")
		})
	}
}
