package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mamaar/drupalrefactor/pkg/config"
	"github.com/mamaar/drupalrefactor/pkg/refactor"
	"github.com/mamaar/drupalrefactor/pkg/registry"
	"github.com/mamaar/drupalrefactor/pkg/watch"
)

const (
	serverName    = "drupalrefactor-lsp"
	serverVersion = "0.1.0"

	// CommandInjectServices is the workspace command carried by the code
	// actions this server offers.
	CommandInjectServices = "drupalrefactor.injectServices"

	watchDebounce = 500 * time.Millisecond
)

// Server represents the LSP server
type Server struct {
	mu           sync.RWMutex
	engine       refactor.Engine
	registry     *registry.Index
	rootPath     string
	documents    map[string]string
	initialized  bool
	capabilities ServerCapabilities
	logger       *slog.Logger

	conn      *Connection
	requestID int

	watchCancel context.CancelFunc
}

// NewServer creates a new LSP server instance
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		documents: make(map[string]string),
		logger:    logger,
		capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save: &SaveOptions{
					IncludeText: false,
				},
			},
			CodeActionProvider: &CodeActionOptions{
				CodeActionKinds: []string{"refactor.rewrite"},
			},
			ExecuteCommandProvider: &ExecuteCommandOptions{
				Commands: []string{CommandInjectServices},
			},
		},
	}
}

// Start starts the LSP server
func (s *Server) Start(ctx context.Context, port int) error {
	if port == 0 {
		return s.ServeStdio(ctx)
	}
	return s.ServeTCP(ctx, port)
}

// ServeStdio serves the LSP over stdio
func (s *Server) ServeStdio(ctx context.Context) error {
	s.logger.Info("serving LSP on stdio")
	return s.serve(ctx, os.Stdin, os.Stdout)
}

// ServeTCP serves the LSP over TCP
func (s *Server) ServeTCP(ctx context.Context, port int) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	defer func() { _ = listener.Close() }()

	s.logger.Info("serving LSP on TCP", "port", port)

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.logger.Error("failed to accept connection", "err", err)
			continue
		}

		go func() {
			defer func() { _ = conn.Close() }()
			if err := s.serve(ctx, conn, conn); err != nil {
				s.logger.Error("connection closed with error", "err", err)
			}
		}()
	}
}

// serve handles the LSP protocol over the given reader/writer
func (s *Server) serve(ctx context.Context, reader io.Reader, writer io.Writer) error {
	connection := NewConnection(reader, writer)

	s.mu.Lock()
	s.conn = connection
	s.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		message, err := connection.ReadMessage()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		response, err := s.handleMessage(ctx, message)
		if err != nil {
			s.logger.Error("message handling failed", "method", message.Method, "err", err)
			continue
		}

		if response != nil {
			if err := connection.WriteMessage(response); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
		}
	}
}

// handleMessage processes an LSP message and returns a response
func (s *Server) handleMessage(ctx context.Context, message *Message) (*Message, error) {
	switch message.Method {
	case "initialize":
		return s.handleInitialize(message)
	case "initialized":
		return s.handleInitialized(ctx, message)
	case "shutdown":
		return s.handleShutdown(message)
	case "exit":
		os.Exit(0)
		return nil, nil
	case "textDocument/didOpen":
		return s.handleTextDocumentDidOpen(message)
	case "textDocument/didChange":
		return s.handleTextDocumentDidChange(message)
	case "textDocument/didSave":
		return s.handleTextDocumentDidSave(message)
	case "textDocument/didClose":
		return s.handleTextDocumentDidClose(message)
	case "textDocument/codeAction":
		return s.handleTextDocumentCodeAction(message)
	case "workspace/executeCommand":
		return s.handleWorkspaceExecuteCommand(message)
	case "":
		// A message without a method is the client's reply to one of the
		// server's own requests (workspace/applyEdit).
		s.logger.Debug("client response received", "id", message.ID)
		return nil, nil
	default:
		s.logger.Debug("unhandled method", "method", message.Method)
		return nil, nil
	}
}

func (s *Server) handleInitialize(message *Message) (*Message, error) {
	var params InitializeParams
	if err := json.Unmarshal(message.Params, &params); err != nil {
		return s.errorResponse(message.ID, CodeInvalidParams, "Invalid params", err)
	}

	root := params.RootURI
	if root == "" {
		root = params.RootPath
	}

	s.mu.Lock()
	s.rootPath = uriToPath(root)
	s.mu.Unlock()

	s.logger.Info("initialize", "root", uriToPath(root), "client", clientName(params.ClientInfo))

	result := InitializeResult{
		Capabilities: s.capabilities,
		ServerInfo: &ServerInfo{
			Name:    serverName,
			Version: serverVersion,
		},
	}

	return s.successResponse(message.ID, result)
}

// handleInitialized indexes the workspace registry and starts the file
// watcher that keeps it current.
func (s *Server) handleInitialized(ctx context.Context, message *Message) (*Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rootPath == "" {
		s.logger.Warn("no root path given, service registry will be empty")
		s.registry = registry.NewIndex(s.logger)
		s.engine = refactor.CreateEngine(s.registry, s.logger)
		s.initialized = true
		return nil, nil
	}

	cfg, err := config.Load("", s.rootPath)
	if err != nil {
		s.logger.Warn("could not load workspace config, using defaults", "err", err)
		cfg = config.DefaultConfig()
	}

	index, err := registry.LoadWithExcludes(s.rootPath, cfg.Exclude, s.logger)
	if err != nil {
		s.logger.Warn("could not index service registry", "root", s.rootPath, "err", err)
		index = registry.NewIndex(s.logger)
	}

	s.registry = index
	s.engine = refactor.CreateEngineWithConfig(cfg.EngineConfig(), index, s.logger)
	s.initialized = true

	s.startWatcher(ctx, cfg)

	return nil, nil
}

// startWatcher begins re-indexing declaration files as they change. Watch
// failures degrade to a static registry snapshot.
func (s *Server) startWatcher(ctx context.Context, cfg *config.Config) {
	watcher, err := watch.NewWatcher(s.rootPath, watchDebounce, s.logger)
	if err != nil {
		s.logger.Warn("file watching unavailable", "err", err)
		return
	}

	updater := watch.NewRegistryUpdater(
		s.registry,
		registry.NewIndexerWithExcludes(s.rootPath, cfg.Exclude, s.logger),
		s.logger,
	)

	wctx, cancel := context.WithCancel(ctx)
	s.watchCancel = cancel

	out := make(chan []watch.ChangeEvent, 1)
	go func() {
		defer func() { _ = watcher.Close() }()
		if err := watcher.Run(wctx, out); err != nil && err != context.Canceled {
			s.logger.Error("watcher stopped", "err", err)
		}
	}()
	go func() {
		for {
			select {
			case <-wctx.Done():
				return
			case batch := <-out:
				updater.HandleChanges(batch)
			}
		}
	}()
}

func (s *Server) handleShutdown(message *Message) (*Message, error) {
	s.mu.Lock()
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	s.initialized = false
	s.engine = nil
	s.registry = nil
	s.mu.Unlock()

	return s.successResponse(message.ID, nil)
}

func (s *Server) handleTextDocumentDidOpen(message *Message) (*Message, error) {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(message.Params, &params); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.documents[params.TextDocument.URI] = params.TextDocument.Text
	s.mu.Unlock()

	s.logger.Debug("document opened", "uri", params.TextDocument.URI)
	return nil, nil
}

func (s *Server) handleTextDocumentDidChange(message *Message) (*Message, error) {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(message.Params, &params); err != nil {
		return nil, err
	}

	s.mu.Lock()
	for _, change := range params.ContentChanges {
		// Full sync: every change carries the whole document.
		if change.Range == nil {
			s.documents[params.TextDocument.URI] = change.Text
		}
	}
	s.mu.Unlock()

	return nil, nil
}

func (s *Server) handleTextDocumentDidSave(message *Message) (*Message, error) {
	var params DidSaveTextDocumentParams
	if err := json.Unmarshal(message.Params, &params); err != nil {
		return nil, err
	}

	if params.Text != nil {
		s.mu.Lock()
		s.documents[params.TextDocument.URI] = *params.Text
		s.mu.Unlock()
	}

	return nil, nil
}

func (s *Server) handleTextDocumentDidClose(message *Message) (*Message, error) {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(message.Params, &params); err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()

	return nil, nil
}

// sourceForLocked returns the text for a URI, preferring the open document
// over the file on disk. Callers must hold at least a read lock.
func (s *Server) sourceForLocked(uri string) (string, bool) {
	if text, ok := s.documents[uri]; ok {
		return text, true
	}
	data, err := os.ReadFile(uriToPath(uri))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// sendRequest delivers a server-initiated request to the client.
func (s *Server) sendRequest(method string, params interface{}) error {
	s.mu.Lock()
	conn := s.conn
	s.requestID++
	id := s.requestID
	s.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("no active connection")
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal request params: %w", err)
	}

	return conn.WriteMessage(&Message{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  raw,
	})
}

func (s *Server) successResponse(id interface{}, result interface{}) (*Message, error) {
	return &Message{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}, nil
}

func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) (*Message, error) {
	return &Message{
		JSONRPC: "2.0",
		ID:      id,
		Error: &ResponseError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}, nil
}

func clientName(info *ClientInfo) string {
	if info == nil {
		return "unknown"
	}
	return info.Name
}

// uriToPath converts a file URI to a filesystem path
func uriToPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		return uri[len("file://"):]
	}
	return uri
}

// pathToURI converts a filesystem path to a file URI
func pathToURI(path string) string {
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return "file://" + path
}
