package output

import (
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/fiscalgo/internal/domain"
)

// Report is the envelope every formatter renders: one or more computation
// results plus the context needed to read them.
type Report struct {
	ID          string                      `json:"id"`
	GeneratedAt time.Time                   `json:"generated_at"`
	Locale      string                      `json:"locale"`
	Assumptions []string                    `json:"assumptions,omitempty"`
	Results     []*domain.ComputationResult `json:"results"`
}

// NewReport wraps results in a report with a fresh ID
func NewReport(locale string, results ...*domain.ComputationResult) *Report {
	if locale == "" {
		locale = DefaultLocale
	}
	return &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Locale:      locale,
		Assumptions: append([]string(nil), DefaultAssumptions...),
		Results:     results,
	}
}

// WithTables records the rate-table metadata among the assumptions
func (r *Report) WithTables(meta domain.TablesMetadata) *Report {
	r.Assumptions = append(r.Assumptions, TablesAssumption(meta))
	return r
}

// ShortID is the first block of the report ID, used in file names
func (r *Report) ShortID() string {
	if len(r.ID) < 8 {
		return r.ID
	}
	return r.ID[:8]
}
