// Package mcptest provides test helpers for invoking drupalrefactor MCP
// tools with swappable transports: in-process (fast) or subprocess (full
// binary).
package mcptest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	mcpclient "github.com/mark3labs/mcp-go/client"
	mcpsdk "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	internalmcp "github.com/mamaar/drupalrefactor/internal/mcp"
)

// Session wraps an MCP client with cleanup logic.
type Session struct {
	*mcpclient.Client
	state *internalmcp.MCPServer // non-nil only for in-process
}

// Close tears down the session.
func (s *Session) Close() {
	if s.Client != nil {
		s.Client.Close()
	}
	if s.state != nil {
		s.state.Close()
	}
}

// Transport selects how the MCP server is reached.
type Transport interface {
	connect(ctx context.Context, t testing.TB) (*Session, error)
}

// Dial connects to an MCP server using the given transport, then calls
// load_workspace with workspacePath.
func Dial(ctx context.Context, t testing.TB, transport Transport, workspacePath string) *Session {
	t.Helper()
	sess, err := transport.connect(ctx, t)
	if err != nil {
		t.Fatalf("mcptest.Dial: connect: %v", err)
	}

	req := mcpsdk.CallToolRequest{}
	req.Params.Name = "load_workspace"
	req.Params.Arguments = map[string]any{"path": workspacePath}

	result, err := sess.CallTool(ctx, req)
	if err != nil {
		sess.Close()
		t.Fatalf("mcptest.Dial: load_workspace: %v", err)
	}
	if result.IsError {
		sess.Close()
		t.Fatalf("mcptest.Dial: load_workspace returned error: %v", result.Content)
	}
	return sess
}

// initialize runs the MCP handshake on a connected client.
func initialize(ctx context.Context, c *mcpclient.Client) error {
	req := mcpsdk.InitializeRequest{}
	req.Params.ProtocolVersion = mcpsdk.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcpsdk.Implementation{Name: "test-client", Version: "1.0"}
	_, err := c.Initialize(ctx, req)
	return err
}

// inProcess is the in-process transport backed by a server instance in the
// test binary.
type inProcess struct{}

// InProcess returns a transport that runs the MCP server in-process.
func InProcess() Transport { return inProcess{} }

func (inProcess) connect(ctx context.Context, t testing.TB) (*Session, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	state := internalmcp.NewMCPServer(logger)

	srv := server.NewMCPServer("drupalrefactor-mcp", "test",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)
	internalmcp.RegisterAll(srv, state)

	c, err := mcpclient.NewInProcessClient(srv)
	if err != nil {
		state.Close()
		return nil, err
	}
	if err := c.Start(ctx); err != nil {
		state.Close()
		return nil, err
	}
	if err := initialize(ctx, c); err != nil {
		c.Close()
		state.Close()
		return nil, err
	}
	return &Session{Client: c, state: state}, nil
}

// subprocess is the stdio transport shelling out to a built binary.
type subprocess struct {
	binPath string
}

// Subprocess returns a transport that shells out to the given binary.
func Subprocess(bin string) Transport { return subprocess{binPath: bin} }

func (sp subprocess) connect(ctx context.Context, t testing.TB) (*Session, error) {
	c, err := mcpclient.NewStdioMCPClient(sp.binPath, nil)
	if err != nil {
		return nil, err
	}
	if err := initialize(ctx, c); err != nil {
		c.Close()
		return nil, err
	}
	return &Session{Client: c}, nil
}
