package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mamaar/drupalrefactor/internal/mcp"
)

var (
	flagWorkspace = flag.String("workspace", "", "Root workspace directory (defaults to current directory)")
	flagPort      = flag.Int("port", 0, "TCP port to listen on (0 for stdio)")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagVersion   = flag.Bool("version", false, "Show version information")
)

const version = "0.1.0"

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("drupalrefactor-mcp version %s\n", version)
		fmt.Println("Model Context Protocol server for Drupal DI refactoring")
		os.Exit(0)
	}

	// stdio carries the protocol, so logs go to stderr.
	level := slog.LevelInfo
	if *flagDebug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	workspace := *flagWorkspace
	if workspace == "" {
		var err error
		workspace, err = os.Getwd()
		if err != nil {
			logger.Error("failed to get current directory", "err", err)
			os.Exit(1)
		}
	}
	workspace, err := filepath.Abs(workspace)
	if err != nil {
		logger.Error("failed to resolve workspace path", "err", err)
		os.Exit(1)
	}
	info, err := os.Stat(workspace)
	if err != nil || !info.IsDir() {
		logger.Error("workspace must be an existing directory", "path", workspace)
		os.Exit(1)
	}

	logger.Info("MCP server starting",
		"version", version,
		"pid", os.Getpid(),
		"workspace", workspace,
	)

	mcpServer := server.NewMCPServer(
		"drupalrefactor-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	state := mcp.NewMCPServer(logger)
	defer state.Close()

	if _, err := state.LoadWorkspace(context.Background(), workspace); err != nil {
		logger.Error("failed to load workspace", "err", err)
		os.Exit(1)
	}

	mcp.RegisterAll(mcpServer, state)

	if *flagPort == 0 {
		if err := server.ServeStdio(mcpServer); err != nil {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	} else {
		httpServer := server.NewStreamableHTTPServer(mcpServer)
		logger.Info("starting HTTP server", "port", *flagPort)
		if err := httpServer.Start(fmt.Sprintf(":%d", *flagPort)); err != nil {
			logger.Error("HTTP server failed", "err", err)
			os.Exit(1)
		}
	}
}
