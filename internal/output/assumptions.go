package output

import (
	"fmt"

	"github.com/rgehrsitz/fiscalgo/internal/domain"
)

// DefaultAssumptions lists the rules every calculator follows, rendered in
// detailed outputs.
var DefaultAssumptions = []string{
	"Amounts are rounded to the cent after each intermediate step",
	"Negative intermediate bases are treated as zero",
	"Tier and bracket upper bounds are inclusive",
	"Results are estimates and do not replace the official tax assessment",
}

// TablesAssumption describes the rate tables a report was computed with
func TablesAssumption(meta domain.TablesMetadata) string {
	if meta.LastUpdated == "" {
		return fmt.Sprintf("Rate tables: data year %d", meta.DataYear)
	}
	return fmt.Sprintf("Rate tables: data year %d, last updated %s", meta.DataYear, meta.LastUpdated)
}
