package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"chatwatch/engine"
)

type Server struct {
	app    *fiber.App
	engine *engine.Engine
}

func New(eng *engine.Engine) *Server {
	server := &Server{
		app:    fiber.New(),
		engine: eng,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) Start(port string) {
	log.Info().Str("port", port).Msg("Starting chatwatch server")

	err := s.app.Listen(":"+port, fiber.ListenConfig{
		DisableStartupMessage: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
