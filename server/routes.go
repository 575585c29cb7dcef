package server

func (s *Server) setupRoutes() {
	api := s.app.Group("/api")

	api.Get("/health", s.healthHandler)

	// Status route must be registered before the phone parameter route.
	api.Get("/conversations", s.conversationsHandler)
	api.Get("/conversations/status/:status", s.conversationsByStatusHandler)
	api.Get("/conversations/:phone", s.conversationHandler)

	api.Get("/alerts", s.alertsHandler)
	api.Get("/alerts/urgent", s.urgentAlertsHandler)
	api.Get("/alerts/types", s.failureTypesHandler)

	api.Get("/metrics", s.metricsHandler)
	api.Get("/metrics/detailed", s.detailedMetricsHandler)
}
