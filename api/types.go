// Package api - HTTP contract types
// The API is stateless and idempotent apart from generated quote ids.
package api

import (
	"doorcost/core/door"
	"doorcost/core/engine"
	"doorcost/core/output"
)

// CalculateRequest is the input to POST /v1/calculate
type CalculateRequest struct {
	engine.Configuration

	// Details adds the formula of each line
	Details bool `json:"details,omitempty"`
}

// CalculateResponse is a single priced configuration
type CalculateResponse struct {
	output.ResultView

	InRange          bool             `json:"in_range"`
	Range            door.RangeReport `json:"range"`
	Warnings         []door.Warning   `json:"warnings,omitempty"`
	RulesFingerprint string           `json:"rules_fingerprint"`

	// InputHash identifies the configuration priced against this rules table
	InputHash string `json:"input_hash"`
}

// QuoteDoor is one door in a quote request
type QuoteDoor struct {
	ID string `json:"id,omitempty"`
	engine.Configuration
}

// QuoteRequest is the input to POST /v1/quote
type QuoteRequest struct {
	Doors   []QuoteDoor `json:"doors"`
	Details bool        `json:"details,omitempty"`
}

// ErrorBody is the error envelope
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable code and a human message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
