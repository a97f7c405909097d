package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Server owns the fiber app lifecycle.
type Server struct {
	app  *fiber.App
	addr string
	log  zerolog.Logger
}

// New wires the routes exposed by the RSVP API.
func New(log zerolog.Logger, addr string, api *APIHandlers) *Server {
	log = log.With().Str("component", "HTTP").Logger()

	app := fiber.New(fiber.Config{
		AppName:               "wedding-rsvp",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
	})
	app.Use(recover.New())
	app.Use(requestLogger(log))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	r := app.Group("/api")
	r.Post("/submit-rsvp", api.submitRSVP)
	r.Get("/update-rsvp", api.fetchRSVP)
	r.Post("/update-rsvp", api.updateRSVP)
	r.Get("/get-all-rsvp", api.listRSVPs)
	r.Get("/vocabulary", api.vocabulary)

	return &Server{app: app, addr: addr, log: log}
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.addr).Msg("Starting HTTP server")
	return s.app.Listen(s.addr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("Request completed")
		return err
	}
}
