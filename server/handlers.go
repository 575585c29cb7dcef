package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"chatwatch/analyzer"
	"chatwatch/engine"
)

func (s *Server) healthHandler(c fiber.Ctx) error {
	if err := s.engine.Ping(c.Context()); err != nil {
		log.Error().Err(err).Msg("Health check: store unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(healthResponse{
			Status:    "DOWN",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(healthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) conversationsHandler(c fiber.Ctx) error {
	summaries, err := s.engine.Conversations(c.Context())
	if err != nil {
		return s.fail(c, "Failed to list conversations", err)
	}

	return c.JSON(conversationsResponse{
		Success: true,
		Data:    summaries,
		Total:   len(summaries),
	})
}

func (s *Server) conversationsByStatusHandler(c fiber.Ctx) error {
	status := analyzer.Status(c.Params("status"))

	summaries, err := s.engine.ConversationsByStatus(c.Context(), status)
	if err != nil {
		return s.fail(c, "Failed to filter conversations", err)
	}

	return c.JSON(conversationsByStatusResponse{
		Success: true,
		Data:    summaries,
		Total:   len(summaries),
		Status:  status,
	})
}

func (s *Server) conversationHandler(c fiber.Ctx) error {
	phone := c.Params("phone")

	conversation, err := s.engine.Lookup(c.Context(), phone)
	if errors.Is(err, engine.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{
			Success: false,
			Error:   "Conversation not found",
		})
	}
	if err != nil {
		return s.fail(c, "Failed to fetch conversation", err)
	}

	return c.JSON(conversationResponse{
		Success: true,
		Data:    conversation,
	})
}

func (s *Server) alertsHandler(c fiber.Ctx) error {
	alerts, err := s.engine.Alerts(c.Context())
	if err != nil {
		return s.fail(c, "Failed to list alerts", err)
	}

	return c.JSON(alertsResponse{
		Success: true,
		Data:    alerts,
		Total:   len(alerts),
		Summary: engine.CountLevels(alerts),
	})
}

func (s *Server) urgentAlertsHandler(c fiber.Ctx) error {
	alerts, err := s.engine.UrgentAlerts(c.Context())
	if err != nil {
		return s.fail(c, "Failed to list urgent alerts", err)
	}

	return c.JSON(urgentAlertsResponse{
		Success: true,
		Data:    alerts,
		Total:   len(alerts),
	})
}

func (s *Server) failureTypesHandler(c fiber.Ctx) error {
	breakdown, err := s.engine.FailureTypes(c.Context())
	if err != nil {
		return s.fail(c, "Failed to tally failure types", err)
	}

	return c.JSON(failureTypesResponse{
		Success: true,
		Data:    breakdown,
	})
}

func (s *Server) metricsHandler(c fiber.Ctx) error {
	snapshot, err := s.engine.Metrics(c.Context())
	if err != nil {
		return s.fail(c, "Failed to compute metrics", err)
	}

	return c.JSON(metricsResponse{
		Success: true,
		Data:    snapshot,
	})
}

func (s *Server) detailedMetricsHandler(c fiber.Ctx) error {
	metrics, err := s.engine.DetailedMetrics(c.Context())
	if err != nil {
		return s.fail(c, "Failed to compute detailed metrics", err)
	}

	return c.JSON(detailedMetricsResponse{
		Success: true,
		Data:    metrics,
	})
}

func (s *Server) fail(c fiber.Ctx, message string, err error) error {
	log.Error().Err(err).Msg(message)
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
		Success: false,
		Error:   message,
		Message: err.Error(),
	})
}
