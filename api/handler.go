// Package api - HTTP handlers
// Handlers decode, call the engine, and map the result. Nothing else.
package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"doorcost/core/determinism"
	"doorcost/core/door"
	"doorcost/core/engine"
	"doorcost/core/output"
	"doorcost/core/quote"
	"doorcost/core/rules"
	doorerrors "doorcost/internal/errors"
)

// Handler serves the v1 endpoints against one rules table
type Handler struct {
	table  *rules.Table
	logger *zap.Logger
}

// NewHandler creates a handler
func NewHandler(table *rules.Table, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{table: table, logger: logger}
}

// HandleCalculate handles POST /v1/calculate
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if !h.decode(w, r, &req) {
		return
	}

	eng, err := h.engine(r)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	result, err := eng.Calculate(req.Configuration)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	rng := door.CheckRange(req.Configuration, h.table)
	writeJSON(w, CalculateResponse{
		ResultView:       output.NewResultView(result, req.Details),
		InRange:          rng.OK(),
		Range:            rng,
		Warnings:         door.Validate(req.Configuration, h.table),
		RulesFingerprint: h.table.Fingerprint(),
		InputHash:        inputHash(req.Configuration, h.table.Fingerprint()),
	}, http.StatusOK)
}

// HandleQuote handles POST /v1/quote
func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Doors) == 0 {
		writeError(w, "VALIDATION_ERROR", "doors must contain at least one door", http.StatusBadRequest)
		return
	}

	eng, err := h.engine(r)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	doors := make([]door.Door, len(req.Doors))
	for i, d := range req.Doors {
		doors[i] = door.Door{ID: d.ID, Config: d.Configuration}
	}
	doors = door.FromDoors(h.table, doors).Doors()

	q, err := quote.Build(r.Context(), eng, doors)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, output.NewQuoteView(q, req.Details), http.StatusOK)
}

// HandleRules handles GET /v1/rules
func (h *Handler) HandleRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, output.NewRulesView(h.table), http.StatusOK)
}

// inputHash is stable for equal configurations, count order included
func inputHash(cfg engine.Configuration, fingerprint string) string {
	data, _ := json.Marshal(cfg)
	return determinism.ComputeHash(append(data, fingerprint...)).Short()
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// engine picks labels from ?lang= first, then Accept-Language
func (h *Handler) engine(r *http.Request) (*engine.Engine, error) {
	return engine.New(h.table, engine.WithLanguage(requestLanguage(r)))
}

func requestLanguage(r *http.Request) language.Tag {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			return tag
		}
	}
	if tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil && len(tags) > 0 {
		return tags[0]
	}
	return language.English
}

func (h *Handler) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch doorerrors.TypeOf(err) {
	case doorerrors.TypeUnknownProduct:
		writeError(w, "UNKNOWN_PRODUCT", err.Error(), http.StatusUnprocessableEntity)
	case doorerrors.TypeInput:
		writeError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("pricing failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, "INTERNAL_ERROR", "internal error", http.StatusInternalServerError)
	}
}
