package exporter

import (
	"fmt"
	"time"
)

// formatRate formats a percentage or day-count value with one decimal place,
// matching the precision the analyses round to.
func formatRate(f float64) string {
	return fmt.Sprintf("%.1f", f)
}

// formatInt formats an int value for CSV output.
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatIntPtr formats an optional int, empty when absent.
func formatIntPtr(i *int) string {
	if i == nil {
		return ""
	}
	return formatInt(*i)
}

// formatDate formats an optional date, empty when absent.
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportDateLayout)
}

// formatBool formats a boolean value for CSV output.
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
