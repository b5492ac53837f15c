package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"trialpulse/internal/config"
	"trialpulse/internal/infrastructure"
	"trialpulse/pkg/contracts/domain"
)

// Inputs are the three parsed source tables of one generation run. All three
// must be present; column-level gaps inside a table degrade per section, a
// missing table blocks the run.
type Inputs struct {
	Enrollment *Table
	Monthly    *Table
	Site       *Table
}

// Generator derives a dashboard snapshot from the three reconciled inputs.
// A Generator is safe for concurrent use; each run is independent.
type Generator struct {
	logger   *slog.Logger
	metrics  *infrastructure.DashboardMetrics
	validate *validator.Validate
	leadPool []string
	now      func() time.Time
}

// NewGenerator creates a generator. metrics may be nil for batch use.
func NewGenerator(logger *slog.Logger, metrics *infrastructure.DashboardMetrics) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		logger:   logger.With(slog.String("component", "generator")),
		metrics:  metrics,
		validate: validator.New(),
		leadPool: config.DefaultCOSLNames,
		now:      time.Now,
	}
}

// Generate runs every analysis over the inputs and returns a complete,
// immutable snapshot. Analyses that cannot run are recorded in the section
// map with a typed reason instead of failing the whole run; only a missing
// input table or invalid parameters are hard errors.
func (g *Generator) Generate(ctx context.Context, in Inputs, params domain.GenerateParams) (*domain.Snapshot, error) {
	start := g.now()
	logger := infrastructure.LoggerWithContext(ctx, g.logger)

	if g.metrics != nil {
		g.metrics.GenerationsTotal.Add(ctx, 1)
	}

	snapshot, err := g.generate(ctx, in, params)
	if err != nil {
		if g.metrics != nil {
			g.metrics.GenerationFailures.Add(ctx, 1)
		}
		logger.Error("dashboard generation failed", slog.String("error", err.Error()))
		return nil, err
	}

	elapsed := g.now().Sub(start)
	if g.metrics != nil {
		g.metrics.GenerationDuration.Record(ctx, elapsed.Seconds())
	}
	logger.Info("dashboard generated",
		slog.String("snapshot_id", snapshot.ID),
		slog.Int("timeline_sites", len(snapshot.Timeline)),
		slog.Int("projection_months", len(snapshot.Projections)),
		slog.Duration("duration", elapsed))

	return snapshot, nil
}

func (g *Generator) generate(_ context.Context, in Inputs, params domain.GenerateParams) (*domain.Snapshot, error) {
	if in.Enrollment == nil || in.Monthly == nil || in.Site == nil {
		return nil, fmt.Errorf("all three input tables are required")
	}
	if err := g.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("invalid generation parameters: %w", err)
	}

	now := g.now()

	enrollment := PrepareEnrollment(in.Enrollment)
	PrepareMonthly(in.Monthly)
	PrepareSite(in.Site)

	rate := ResolveScreenFailureRate(enrollment, in.Monthly, params.RateOverride)

	timeline := BuildTimeline(in.Monthly, in.Site, now)
	assignments := GenerateAssignments(in.Site, g.leadPool)
	coslMetrics := BuildCOSLMetrics(assignments, timeline, enrollment)
	projections := GenerateProjections(enrollment.TotalRandomized(), params.MonthlyTarget, params.ProjectionEnd, rate, now)
	monthlyEnrollment, enrollmentReason := ExtractMonthlyEnrollment(in.Monthly)
	monthlyScreening, screeningReason := ExtractMonthlyScreening(in.Monthly)
	countryStats := RollupByCountry(enrollment)
	siteStats := RollupBySite(enrollment)

	snapshot := &domain.Snapshot{
		ID:          uuid.NewString(),
		GeneratedAt: now,
		Params:      params,

		ScreenFailureRate: rate,
		ScreeningsNeeded:  ScreeningsNeeded(params.MonthlyTarget, rate),
		TotalScreened:     enrollment.TotalScreened(),
		TotalRandomized:   enrollment.TotalRandomized(),

		Enrollment:        enrollment.Records,
		Timeline:          timeline,
		SiteMetrics:       ComputeSiteMetrics(timeline),
		COSLAssignments:   assignments,
		COSLMetrics:       coslMetrics,
		Projections:       projections,
		MonthlyEnrollment: monthlyEnrollment,
		MonthlyScreening:  monthlyScreening,
		CountryScreenFail: countryStats,
		SiteScreenFail:    siteStats,

		Sections: make(map[domain.TableName]domain.SectionStatus, len(domain.AllTables)),
	}

	g.setSection(snapshot, domain.TableProjections, len(projections) > 0, domain.ReasonNoRows,
		"projection end precedes the current month")
	g.setSection(snapshot, domain.TableMonthlyActual, enrollmentReason == domain.ReasonNone, enrollmentReason, "")
	g.setSection(snapshot, domain.TableMonthlyScreening, screeningReason == domain.ReasonNone, screeningReason, "")

	timelineReason := domain.ReasonNoRows
	if !in.Monthly.Has(config.ColSiteID) {
		timelineReason = domain.ReasonMissingColumns
	}
	g.setSection(snapshot, domain.TableActivation, len(timeline) > 0, timelineReason, "")

	coslReason := domain.ReasonNoRows
	if !in.Site.Has(config.ColSiteNumber) {
		coslReason = domain.ReasonMissingColumns
	}
	g.setSection(snapshot, domain.TableCOSLMetrics, len(coslMetrics) > 0, coslReason, "")

	countryReason := domain.ReasonNoRows
	if !enrollment.HasCountry || !enrollment.HasScreened || !enrollment.HasScreenFailed {
		countryReason = domain.ReasonMissingColumns
	}
	g.setSection(snapshot, domain.TableCountryScreenFail, len(countryStats) > 0, countryReason, "")

	siteReason := domain.ReasonNoRows
	siteDetail := "no site reached the minimum screened count"
	if !enrollment.HasSiteID || !enrollment.HasScreened || !enrollment.HasScreenFailed {
		siteReason = domain.ReasonMissingColumns
		siteDetail = ""
	}
	g.setSection(snapshot, domain.TableSiteScreenFail, len(siteStats) > 0, siteReason, siteDetail)

	return snapshot, nil
}

func (g *Generator) setSection(s *domain.Snapshot, name domain.TableName, available bool, reason domain.AbsenceReason, detail string) {
	if available {
		s.Sections[name] = domain.SectionStatus{Available: true}
		return
	}
	s.Sections[name] = domain.SectionStatus{Available: false, Reason: reason, Detail: detail}
}
