package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mamaar/drupalrefactor/pkg/config"
	"github.com/mamaar/drupalrefactor/pkg/refactor"
	"github.com/mamaar/drupalrefactor/pkg/registry"
	"github.com/mamaar/drupalrefactor/pkg/watch"
)

// MCPServer holds the shared state for the MCP tool handlers: a loaded
// workspace with its service registry, the refactoring engine built from
// the workspace configuration, and an optional filesystem watcher that
// keeps the registry current while the server runs.
type MCPServer struct {
	mu      sync.RWMutex
	config  *config.Config
	engine  refactor.Engine
	index   *registry.Index
	indexer *registry.Indexer
	root    string
	watcher *watch.Watcher
	cancel  context.CancelFunc // stops watcher goroutine
	logger  *slog.Logger
}

// NewMCPServer creates a new MCPServer with the given logger. The engine
// starts without a service registry; LoadWorkspace replaces it with one
// bound to the workspace index.
func NewMCPServer(logger *slog.Logger) *MCPServer {
	return &MCPServer{
		config: config.DefaultConfig(),
		engine: refactor.CreateEngine(nil, logger),
		logger: logger,
	}
}

// LoadWorkspace loads (or reloads) the workspace at the given path: reads
// its configuration file, indexes every service declaration file beneath
// it, and starts a background watcher for incremental registry updates.
// Returns the number of services indexed.
func (s *MCPServer) LoadWorkspace(ctx context.Context, path string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stop any existing watcher.
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.watcher != nil {
		_ = s.watcher.Close()
		s.watcher = nil
	}

	s.logger.Info("loading workspace", "path", path)
	cfg, err := config.Load("", path)
	if err != nil {
		return 0, fmt.Errorf("load configuration: %w", err)
	}

	index, err := registry.LoadWithExcludes(path, cfg.Exclude, s.logger)
	if err != nil {
		return 0, fmt.Errorf("index services: %w", err)
	}

	s.config = cfg
	s.index = index
	s.indexer = registry.NewIndexerWithExcludes(path, cfg.Exclude, s.logger)
	s.engine = refactor.CreateEngineWithConfig(cfg.EngineConfig(), index, s.logger)
	s.root = path
	s.logger.Info("workspace loaded", "services", index.Len())

	// Start watcher.
	w, err := watch.NewWatcher(path, 200*time.Millisecond, s.logger)
	if err != nil {
		s.logger.Warn("watcher unavailable, registry will not auto-update", "err", err)
		return index.Len(), nil
	}
	s.watcher = w
	updater := watch.NewRegistryUpdater(index, s.indexer, s.logger)

	watchCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	ch := make(chan []watch.ChangeEvent, 4)
	go func() {
		if err := w.Run(watchCtx, ch); err != nil && watchCtx.Err() == nil {
			s.logger.Error("watcher error", "err", err)
		}
	}()
	go func() {
		for {
			select {
			case <-watchCtx.Done():
				return
			case events := <-ch:
				updater.HandleChanges(events)
			}
		}
	}()

	return index.Len(), nil
}

// GetRegistry returns the workspace service index or an error if no
// workspace is loaded.
func (s *MCPServer) GetRegistry() (*registry.Index, error) {
	if s.index == nil {
		return nil, fmt.Errorf("no workspace loaded - call load_workspace first")
	}
	return s.index, nil
}

// GetEngine returns the refactoring engine.
func (s *MCPServer) GetEngine() refactor.Engine {
	return s.engine
}

// Root returns the loaded workspace root, empty when none is loaded.
func (s *MCPServer) Root() string {
	return s.root
}

// Watching reports whether the filesystem watcher is running.
func (s *MCPServer) Watching() bool {
	return s.watcher != nil
}

// RLock acquires a read lock on the server state.
func (s *MCPServer) RLock() { s.mu.RLock() }

// RUnlock releases the read lock.
func (s *MCPServer) RUnlock() { s.mu.RUnlock() }

// Close stops the watcher and releases resources.
func (s *MCPServer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.watcher != nil {
		_ = s.watcher.Close()
		s.watcher = nil
	}
}
