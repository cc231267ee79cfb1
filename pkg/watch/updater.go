package watch

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mamaar/drupalrefactor/pkg/registry"
)

// RegistryUpdater keeps a service registry index in sync with declaration
// file changes reported by a Watcher.
type RegistryUpdater struct {
	index   *registry.Index
	indexer *registry.Indexer
	logger  *slog.Logger
}

// NewRegistryUpdater creates a RegistryUpdater over an existing index. The
// indexer must be rooted at the same workspace the watcher observes.
func NewRegistryUpdater(index *registry.Index, indexer *registry.Indexer, logger *slog.Logger) *RegistryUpdater {
	return &RegistryUpdater{
		index:   index,
		indexer: indexer,
		logger:  logger,
	}
}

// HandleChanges processes a batch of file-change events. Declaration files
// are re-parsed into the index; PHP changes need no registry action because
// class sources are read from disk at refactor time.
func (u *RegistryUpdater) HandleChanges(events []ChangeEvent) {
	start := time.Now()

	reindexed := 0
	removed := 0
	for _, ev := range events {
		if !ev.IsDeclaration() {
			continue
		}
		switch {
		case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
			u.index.RemoveFile(ev.Path)
			removed++
		case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
			if u.reindexFile(ev.Path) {
				reindexed++
			}
		}
	}

	if reindexed == 0 && removed == 0 {
		return
	}

	u.logger.Info("registry updated",
		"reindexed", reindexed,
		"removed", removed,
		"services", u.index.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
}

// reindexFile re-parses a single declaration file and replaces its index
// entries. Returns false when the file no longer exists or fails to parse.
func (u *RegistryUpdater) reindexFile(path string) bool {
	// Create events can race with deletes.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		u.index.RemoveFile(path)
		return false
	}

	defs, err := u.indexer.DefinitionsFromFile(path)
	if err != nil {
		u.logger.Error("reindex: parse failed", "file", path, "err", err)
		return false
	}

	u.index.SetFile(path, defs)
	return true
}

// ServiceCount returns the number of services currently indexed.
// Useful for test assertions.
func (u *RegistryUpdater) ServiceCount() int {
	return u.index.Len()
}

// String implements fmt.Stringer for logging convenience.
func (u *RegistryUpdater) String() string {
	return fmt.Sprintf("RegistryUpdater{services=%d}", u.index.Len())
}
