package registry

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

// Index is an in-memory service registry built from the declarative
// registration files of a workspace. It tracks which file contributed each
// definition so single files can be re-indexed when they change. Safe for
// concurrent use.
type Index struct {
	mu     sync.RWMutex
	logger *slog.Logger
	defs   map[string]*types.ServiceDefinition
	byFile map[string][]string
}

// NewIndex creates an empty index.
func NewIndex(logger *slog.Logger) *Index {
	return &Index{
		logger: logger,
		defs:   make(map[string]*types.ServiceDefinition),
		byFile: make(map[string][]string),
	}
}

// Load builds an index by scanning root for declaration files.
func Load(root string, logger *slog.Logger) (*Index, error) {
	return LoadWithExcludes(root, nil, logger)
}

// LoadWithExcludes builds an index by scanning root for declaration files,
// skipping paths matching the extra exclude patterns.
func LoadWithExcludes(root string, excludes []string, logger *slog.Logger) (*Index, error) {
	start := time.Now()

	idx := NewIndex(logger)
	indexer := NewIndexerWithExcludes(root, excludes, logger)

	files, err := indexer.Discover()
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		defs, err := indexer.DefinitionsFromFile(file)
		if err != nil {
			logger.Warn("skipping declaration file", "file", file, "err", err)
			continue
		}
		idx.SetFile(file, defs)
	}

	logger.Info("service registry loaded",
		"files", len(files),
		"services", idx.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond))

	return idx, nil
}

// Lookup resolves a service id to its definition.
func (x *Index) Lookup(id string) (*types.ServiceDefinition, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	def, ok := x.defs[id]
	return def, ok
}

// All returns every known definition, sorted by id for deterministic
// output.
func (x *Index) All() []*types.ServiceDefinition {
	x.mu.RLock()
	defer x.mu.RUnlock()

	defs := make([]*types.ServiceDefinition, 0, len(x.defs))
	for _, def := range x.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].ID < defs[j].ID
	})
	return defs
}

// Len returns the number of known services.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return len(x.defs)
}

// SetFile replaces every definition contributed by the given declaration
// file with the new set.
func (x *Index) SetFile(path string, defs []*types.ServiceDefinition) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.removeFileLocked(path)

	ids := make([]string, 0, len(defs))
	for _, def := range defs {
		x.defs[def.ID] = def
		ids = append(ids, def.ID)
	}
	x.byFile[path] = ids
}

// RemoveFile drops every definition contributed by a declaration file,
// used when the file is deleted.
func (x *Index) RemoveFile(path string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.removeFileLocked(path)
}

func (x *Index) removeFileLocked(path string) {
	for _, id := range x.byFile[path] {
		if def, ok := x.defs[id]; ok && def.DeclarationFilePath == path {
			delete(x.defs, id)
		}
	}
	delete(x.byFile, path)
}
