package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"trialpulse/internal/config"
	"trialpulse/pkg/contracts/domain"
)

// ReconcileColumns resolves required canonical columns against the synonym
// sets. For every required column the table lacks, the first present synonym
// is copied under the canonical name; a required column no synonym can
// satisfy stays absent and downstream code treats it as optional. Existing
// canonical columns are never overwritten. Never fails.
func ReconcileColumns(t *Table, required []string) {
	for _, canonical := range required {
		if t.Has(canonical) {
			continue
		}
		for _, alt := range config.ColumnSynonyms[canonical] {
			if t.Has(alt) {
				t.CopyColumn(canonical, alt)
				break
			}
		}
	}
}

// CoerceCount parses a count cell permissively: missing or non-numeric cells
// become 0. Thousands separators are tolerated; fractional values are
// truncated the way the source system's integer casts did.
func CoerceCount(cell string) int {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// CoerceDate parses a date cell permissively: the explicit clinical layouts
// are tried in order, then dateparse as a last resort. Unparseable or
// missing cells return nil, never a fabricated date.
func CoerceDate(cell string) *time.Time {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	for _, layout := range config.DateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return &d
		}
	}
	if d, err := dateparse.ParseAny(s); err == nil {
		return &d
	}
	return nil
}

// EnrollmentData is the reconciled enrollment summary: one record per source
// row plus presence flags for the columns downstream analyses key on.
type EnrollmentData struct {
	Records []domain.EnrollmentRecord

	HasSiteID       bool
	HasSiteName     bool
	HasCountry      bool
	HasScreened     bool
	HasScreenFailed bool
	HasRandomized   bool
}

// TotalScreened sums the screened counts across all records.
func (d EnrollmentData) TotalScreened() int {
	total := 0
	for _, r := range d.Records {
		total += r.Screened
	}
	return total
}

// TotalScreenFailed sums the screen-failed counts across all records.
func (d EnrollmentData) TotalScreenFailed() int {
	total := 0
	for _, r := range d.Records {
		total += r.ScreenFailed
	}
	return total
}

// TotalRandomized sums the randomized counts across all records.
func (d EnrollmentData) TotalRandomized() int {
	total := 0
	for _, r := range d.Records {
		total += r.Randomized
	}
	return total
}

// PrepareEnrollment reconciles the enrollment summary table and converts it
// into enrollment records. Count cells degrade to 0, never to an error.
func PrepareEnrollment(t *Table) EnrollmentData {
	ReconcileColumns(t, config.EnrollmentRequiredColumns)

	data := EnrollmentData{
		HasSiteID:       t.Has(config.ColSiteID),
		HasSiteName:     t.Has(config.ColSiteName),
		HasCountry:      t.Has(config.ColCountry),
		HasScreened:     t.Has(config.ColScreened),
		HasScreenFailed: t.Has(config.ColScreenFailed),
		HasRandomized:   t.Has(config.ColRandomized),
	}

	data.Records = make([]domain.EnrollmentRecord, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		data.Records = append(data.Records, domain.EnrollmentRecord{
			SiteID:       t.Cell(i, config.ColSiteID),
			SiteName:     t.Cell(i, config.ColSiteName),
			Country:      t.Cell(i, config.ColCountry),
			Screened:     CoerceCount(t.Cell(i, config.ColScreened)),
			ScreenFailed: CoerceCount(t.Cell(i, config.ColScreenFailed)),
			Randomized:   CoerceCount(t.Cell(i, config.ColRandomized)),
		})
	}
	return data
}

// PrepareMonthly reconciles the monthly summary table in place. The table
// keeps its wide shape because the month columns are dynamic; extraction
// happens in the wide-month extractor.
func PrepareMonthly(t *Table) {
	ReconcileColumns(t, config.MonthlyRequiredColumns)
}

// PrepareSite reconciles the site-master table in place.
func PrepareSite(t *Table) {
	ReconcileColumns(t, config.SiteRequiredColumns)
}
