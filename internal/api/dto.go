package api

import (
	"github.com/rgehrsitz/fiscalgo/internal/compare"
)

// EvaluateRequest is the body of POST /calculators/{name}/evaluate.
// Values are raw strings, exactly as typed in a form.
type EvaluateRequest struct {
	Inputs map[string]string `json:"inputs"`
}

// CompareRequest is the body of POST /calculators/{name}/compare
type CompareRequest struct {
	Base     map[string]string `json:"base"`
	Variants []compare.Variant `json:"variants"`
}

// HealthResponse reports liveness and the loaded rate tables
type HealthResponse struct {
	Status      string `json:"status"`
	DataYear    int    `json:"dataYear"`
	Calculators int    `json:"calculators"`
}

// ErrorResponse is returned for every non-2xx status
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
