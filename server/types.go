package server

import (
	"chatwatch/analyzer"
	"chatwatch/engine"
)

// Every endpoint wraps its payload in a success envelope; failures carry the
// underlying cause in message for diagnostics.

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type conversationsResponse struct {
	Success bool             `json:"success"`
	Data    []engine.Summary `json:"data"`
	Total   int              `json:"total"`
}

type conversationsByStatusResponse struct {
	Success bool             `json:"success"`
	Data    []engine.Summary `json:"data"`
	Total   int              `json:"total"`
	Status  analyzer.Status  `json:"status"`
}

type conversationResponse struct {
	Success bool                `json:"success"`
	Data    engine.Conversation `json:"data"`
}

type alertsResponse struct {
	Success bool               `json:"success"`
	Data    []engine.Alert     `json:"data"`
	Total   int                `json:"total"`
	Summary engine.AlertLevels `json:"summary"`
}

type urgentAlertsResponse struct {
	Success bool           `json:"success"`
	Data    []engine.Alert `json:"data"`
	Total   int            `json:"total"`
}

type failureTypesResponse struct {
	Success bool                    `json:"success"`
	Data    engine.FailureBreakdown `json:"data"`
}

type metricsResponse struct {
	Success bool                   `json:"success"`
	Data    engine.MetricsSnapshot `json:"data"`
}

type detailedMetricsResponse struct {
	Success bool                   `json:"success"`
	Data    engine.DetailedMetrics `json:"data"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
