package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rgehrsitz/fiscalgo/internal/calculation"
	"github.com/rgehrsitz/fiscalgo/internal/compare"
)

// Handler serves the calculator endpoints
type Handler struct {
	engine  *calculation.CalculationEngine
	compare *compare.CompareEngine
}

// NewHandler creates a handler over a calculation engine
func NewHandler(engine *calculation.CalculationEngine) *Handler {
	return &Handler{
		engine:  engine,
		compare: compare.NewCompareEngine(engine),
	}
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:      "ok",
		Calculators: len(h.engine.Registry.Names()),
	}
	if h.engine.Tables != nil {
		resp.DataYear = h.engine.Tables.Metadata.DataYear
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListCalculators returns every calculator descriptor in name order
func (h *Handler) ListCalculators(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Registry.Describe())
}

// GetCalculator returns one calculator descriptor
func (h *Handler) GetCalculator(w http.ResponseWriter, r *http.Request) {
	c, err := h.engine.Registry.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calculation.Describe(c))
}

// Evaluate runs a calculator over the posted raw inputs
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.engine.Evaluate(chi.URLParam(r, "name"), req.Inputs)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Compare runs a calculator over a base input set and its variants
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	set, err := h.compare.Compare(r.Context(), chi.URLParam(r, "name"), req.Base, req.Variants)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// maxBodyBytes limits request bodies
const maxBodyBytes = 64 << 10

// decodeBody decodes a JSON body of at most maxBodyBytes; an empty body
// leaves v untouched
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// writeFailure maps evaluation errors to status codes
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calculation.ErrUnknownCalculator):
		writeError(w, http.StatusNotFound, "unknown calculator", err)
	case errors.Is(err, calculation.ErrUnknownOption), errors.Is(err, compare.ErrInvalidVariant):
		writeError(w, http.StatusBadRequest, "invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "evaluation failed", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
