package transport

import (
	"log/slog"
	"net/http"

	"github.com/courtsplit/courtsplit/internal/domain/allocation"
	"github.com/courtsplit/courtsplit/internal/mcp"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config wires the HTTP API.
type Config struct {
	Services  mcp.Services
	Formatter *allocation.Formatter
	Logger    *slog.Logger
	// MCP is mounted at /mcp when set.
	MCP http.Handler
}

// Server wires HTTP handlers.
type Server struct {
	services  mcp.Services
	formatter *allocation.Formatter
	logger    *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Formatter == nil {
		cfg.Formatter = allocation.DefaultFormatter()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	srv := &Server{services: cfg.Services, formatter: cfg.Formatter, logger: cfg.Logger}

	r.Get("/health", srv.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/calculate", srv.handleCalculate)

		r.Post("/wizard", srv.handleStartWizard)
		r.Route("/wizard/{id}", func(r chi.Router) {
			r.Get("/", srv.handleGetWizard)
			r.Delete("/", srv.handleCloseWizard)
			r.Put("/costs", srv.handleSubmitCosts)
			r.Put("/players", srv.handleSubmitPlayers)
			r.Get("/results", srv.handleResults)
			r.Post("/back", srv.handleBack)
			r.Post("/start-over", srv.handleStartOver)
			r.Get("/activity", srv.handleActivity)
		})
	})

	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
