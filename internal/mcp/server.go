package mcp

import (
	"context"
	"log/slog"

	"github.com/courtsplit/courtsplit/internal/domain/activity"
	"github.com/courtsplit/courtsplit/internal/domain/advice"
	"github.com/courtsplit/courtsplit/internal/domain/allocation"
	"github.com/courtsplit/courtsplit/internal/domain/wizard"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// WizardService defines wizard operations needed by MCP.
type WizardService interface {
	Start(ctx context.Context) (*wizard.Session, error)
	Get(ctx context.Context, id string) (*wizard.Session, error)
	SubmitCosts(ctx context.Context, id string, costs allocation.SessionCosts) (*wizard.Session, error)
	SubmitPlayers(ctx context.Context, id string, players []allocation.PlayerAttendance) (*wizard.Session, error)
	AwaitResults(ctx context.Context, id string) (*wizard.Session, error)
	Back(ctx context.Context, id string) (*wizard.Session, error)
	StartOver(ctx context.Context, id string) (*wizard.Session, error)
	Close(ctx context.Context, id string) error
	Calculate(ctx context.Context, costs allocation.SessionCosts, players []allocation.PlayerAttendance, withAdvice bool) (*wizard.Calculation, error)
}

// AdviceService defines advice operations needed by MCP.
type AdviceService interface {
	Suggest(ctx context.Context, req advice.Request) advice.Suggestion
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Wizard   WizardService
	Advice   AdviceService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services  Services
	Formatter *allocation.Formatter
	Logger    *slog.Logger
	Version   string
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Formatter == nil {
		cfg.Formatter = allocation.DefaultFormatter()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "courtsplit",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &handler{
		services:  cfg.Services,
		formatter: cfg.Formatter,
		logger:    cfg.Logger,
	})

	return server
}
