package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mamaar/drupalrefactor/internal/lsp"
)

var (
	flagPort    = flag.Int("port", 0, "Port to listen on (0 for stdio)")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("logfile", "", "Log file path (default: /tmp/drupalrefactor-lsp.log)")
	flagVersion = flag.Bool("version", false, "Show version information")
)

const version = "0.1.0"

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("drupalrefactor-lsp version %s\n", version)
		os.Exit(0)
	}

	// stdio carries the protocol, so logs go to a file.
	logFile := *flagLogFile
	if logFile == "" {
		logFile = "/tmp/drupalrefactor-lsp.log"
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		os.Exit(1)
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", logFile, err)
		os.Exit(1)
	}
	defer func() { _ = file.Close() }()

	level := slog.LevelInfo
	if *flagDebug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}))

	logger.Info("LSP server starting",
		"version", version,
		"pid", os.Getpid(),
		"port", *flagPort,
	)

	server := lsp.NewServer(logger)

	if err := server.Start(context.Background(), *flagPort); err != nil {
		logger.Error("LSP server stopped", "err", err)
		os.Exit(1)
	}
}
