// dashgen generates the full set of dashboard tables from the three source
// exports in one batch run, without the HTTP server. It shares the generation
// code path with the web API, so a CSV written here matches a CSV downloaded
// from the export endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"trialpulse/internal/config"
	"trialpulse/internal/dataprocessing"
	"trialpulse/internal/exporter"
	"trialpulse/internal/infrastructure"
	"trialpulse/pkg/contracts/domain"
)

func main() {
	enrollmentPath := flag.String("enrollment", "", "enrollment summary export (.csv/.xlsx/.xls)")
	monthlyPath := flag.String("monthly", "", "site monthly summary export (.csv/.xlsx/.xls)")
	sitesPath := flag.String("sites", "", "site-master export (.csv/.xlsx/.xls)")
	outDir := flag.String("out", "data/reports", "output directory for generated CSV files")
	target := flag.Int("target", config.DefaultMonthlyTarget, "monthly randomization target")
	end := flag.String("end", "", "projection end date (YYYY-MM-DD, defaults to 6 months out)")
	rateOverride := flag.Float64("rate-override", 0, "screen-failure rate override in percent (0 = calculate)")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	logger, err := infrastructure.InitializeLogger(config.LoggingConfig{
		Level:  *logLevel,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if *enrollmentPath == "" || *monthlyPath == "" || *sitesPath == "" {
		logger.Error("all three inputs are required: -enrollment, -monthly, -sites")
		flag.Usage()
		os.Exit(2)
	}

	projectionEnd := time.Now().AddDate(0, 6, 0)
	if *end != "" {
		projectionEnd, err = time.Parse("2006-01-02", *end)
		if err != nil {
			logger.Error("invalid -end date, expected YYYY-MM-DD", "value", *end)
			os.Exit(2)
		}
	}

	inputs, err := loadInputs(*enrollmentPath, *monthlyPath, *sitesPath)
	if err != nil {
		logger.Error("failed to load inputs", "error", err)
		os.Exit(1)
	}

	generator := dataprocessing.NewGenerator(logger, nil)
	snapshot, err := generator.Generate(context.Background(), inputs, domain.GenerateParams{
		MonthlyTarget: *target,
		ProjectionEnd: projectionEnd,
		RateOverride:  *rateOverride,
	})
	if err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter(logger)
	written := 0
	for _, name := range domain.AllTables {
		if !snapshot.Section(name).Available {
			logger.Warn("skipping unavailable table",
				slog.String("table", string(name)),
				slog.String("reason", string(snapshot.Section(name).Reason)))
			continue
		}
		headers, records, err := exporter.RenderTable(snapshot, name)
		if err != nil {
			logger.Error("failed to render table", "table", string(name), "error", err)
			os.Exit(1)
		}
		path := filepath.Join(*outDir, string(name)+".csv")
		if err := writer.WriteFile(path, exporter.WriteOptions{
			Headers:   headers,
			Records:   records,
			BOMPrefix: true,
		}); err != nil {
			logger.Error("failed to write table", "table", string(name), "error", err)
			os.Exit(1)
		}
		written++
	}

	fmt.Printf("Dashboard %s generated at %s\n", snapshot.ID, snapshot.GeneratedAt.Format(time.RFC3339))
	fmt.Printf("  Screen-failure rate: %.1f%%\n", snapshot.ScreenFailureRate)
	fmt.Printf("  Screenings needed:   %d per month\n", snapshot.ScreeningsNeeded)
	fmt.Printf("  Total screened:      %d\n", snapshot.TotalScreened)
	fmt.Printf("  Total randomized:    %d\n", snapshot.TotalRandomized)
	fmt.Printf("  Sites on timeline:   %d (%d active)\n", snapshot.SiteMetrics.TotalSites, snapshot.SiteMetrics.ActiveSites)
	fmt.Printf("  Tables written:      %d of %d to %s\n", written, len(domain.AllTables), *outDir)
}

func loadInputs(enrollmentPath, monthlyPath, sitesPath string) (dataprocessing.Inputs, error) {
	var in dataprocessing.Inputs
	var err error

	if in.Enrollment, err = dataprocessing.ReadTable(enrollmentPath); err != nil {
		return in, fmt.Errorf("enrollment input: %w", err)
	}
	if in.Monthly, err = dataprocessing.ReadTable(monthlyPath); err != nil {
		return in, fmt.Errorf("monthly input: %w", err)
	}
	if in.Site, err = dataprocessing.ReadTable(sitesPath); err != nil {
		return in, fmt.Errorf("sites input: %w", err)
	}
	return in, nil
}
