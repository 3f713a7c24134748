// Package api - API types for the HTTP front-end
// Request bodies decode into input.Input, the same shape case files use.
package api

import (
	"time"

	"steam-toolbox/adapters/input"
	"steam-toolbox/adapters/storage"
	"steam-toolbox/core/batch"
	"steam-toolbox/core/result"
)

// SolveRequest is the input to POST /api/v1/solve
type SolveRequest struct {
	// Name labels the calculation in the history
	Name string `json:"name,omitempty"`

	input.Input
}

// SolveResponse is the output of POST /api/v1/solve
type SolveResponse struct {
	// ID of the stored calculation; empty when history is disabled
	ID     string              `json:"id,omitempty"`
	Name   string              `json:"name,omitempty"`
	Result *result.SolveResult `json:"result"`

	Metadata *ResponseMetadata `json:"metadata"`
}

// BatchRequest is the input to POST /api/v1/batch
type BatchRequest struct {
	// Defaults are merged under every case
	Defaults input.Input `json:"defaults"`

	Cases []BatchCase `json:"cases"`
}

// BatchCase is one named case of a batch
type BatchCase struct {
	Name string `json:"name"`

	input.Input
}

// BatchItem is the outcome of one batch case
type BatchItem struct {
	batch.Item

	// ID of the stored calculation for successful cases
	ID string `json:"id,omitempty"`
}

// BatchResponse is the output of POST /api/v1/batch
type BatchResponse struct {
	Items []BatchItem `json:"items"`
	Stats batch.Stats `json:"stats"`

	Metadata *ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains response metadata
type ResponseMetadata struct {
	// RequestID echoes the X-Request-ID header
	RequestID string `json:"request_id"`

	// InputHash is a hash of the decoded request body
	InputHash string `json:"input_hash"`

	// EngineVersion is the server version
	EngineVersion string `json:"engine_version"`

	// DurationMs is the handler duration
	DurationMs int64 `json:"duration_ms"`
}

// HistoryResponse is the output of GET /api/v1/history
type HistoryResponse struct {
	Count   int               `json:"count"`
	Records []*storage.Record `json:"records"`
}

// ConvertResponse is the output of GET /api/v1/convert
type ConvertResponse struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
	From  string  `json:"from"`
	To    string  `json:"to"`
	Out   float64 `json:"result"`
}

// HealthResponse is the output of GET /health
type HealthResponse struct {
	Status  string    `json:"status"`
	Version string    `json:"version"`
	History bool      `json:"history"`
	Time    time.Time `json:"time"`
}

// ErrorBody is the error envelope of every failed request
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}
