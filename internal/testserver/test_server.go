package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/courtsplit/courtsplit/internal/domain/activity"
	"github.com/courtsplit/courtsplit/internal/domain/advice"
	"github.com/courtsplit/courtsplit/internal/domain/wizard"
	"github.com/courtsplit/courtsplit/internal/mcp"
	"github.com/courtsplit/courtsplit/internal/sqlite"
	"github.com/courtsplit/courtsplit/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// AdvisorFunc adapts a function to advice.Advisor.
type AdvisorFunc func(ctx context.Context, req advice.Request) (*advice.Suggestion, error)

func (f AdvisorFunc) Suggest(ctx context.Context, req advice.Request) (*advice.Suggestion, error) {
	return f(ctx, req)
}

// StaticAdvisor always answers with the given method and reasoning.
func StaticAdvisor(method, reasoning string) advice.Advisor {
	return AdvisorFunc(func(context.Context, advice.Request) (*advice.Suggestion, error) {
		return &advice.Suggestion{SuggestedMethod: method, Reasoning: reasoning}, nil
	})
}

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Wizard *wizard.Service
}

// New starts the full HTTP stack over a private in-memory database.
func New(t *testing.T, advisor advice.Advisor) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	sessionRepo := sqlite.NewSessionRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	adviceSvc := advice.NewService(advisor, 0, nil)
	activitySvc := activity.NewService(activityRepo, nil)
	wizardSvc := wizard.NewService(sessionRepo, adviceSvc, activitySvc, nil)

	services := mcp.Services{Wizard: wizardSvc, Advice: adviceSvc, Activity: activitySvc}
	mcpServer := mcp.NewServer(mcp.Config{Services: services})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(func(_ *http.Request) *sdkmcp.Server {
		return mcpServer
	}, &sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute})

	server := httptest.NewServer(transport.NewServer(transport.Config{
		Services: services,
		MCP:      mcpHandler,
	}))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{Server: server, DB: db, Wizard: wizardSvc}
}

// URL joins path onto the server's base URL.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
