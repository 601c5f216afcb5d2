package exporter

import (
	"fmt"

	"esccli/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	// Values like 13.4 appear as 13.40
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// formatSummary renders a summary in column order, or n/a for every column
// when it is undefined
func formatSummary(res domain.SummaryResult) []string {
	out := make([]string, 0, len(domain.StatColumns))
	if !res.Defined() {
		for range domain.StatColumns {
			out = append(out, notAvailable)
		}
		return out
	}
	for _, v := range res.Summary.Values() {
		out = append(out, formatFloat(v))
	}
	return out
}
