package registry

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

// skipDirs are directory names never scanned for declaration files.
var skipDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
	"vendor":       {},
}

// Indexer discovers declarative service registration files in a workspace.
type Indexer struct {
	root     string
	logger   *slog.Logger
	matcher  *ignore.GitIgnore
	excludes *ignore.GitIgnore
}

// NewIndexer creates an indexer rooted at the given workspace directory.
// A .gitignore at the root is honored when present.
func NewIndexer(root string, logger *slog.Logger) *Indexer {
	return NewIndexerWithExcludes(root, nil, logger)
}

// NewIndexerWithExcludes creates an indexer that additionally skips paths
// matching the given gitignore-style patterns.
func NewIndexerWithExcludes(root string, excludes []string, logger *slog.Logger) *Indexer {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	ix := &Indexer{root: root, logger: logger}
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		ix.matcher = gi
	}
	if len(excludes) > 0 {
		ix.excludes = ignore.CompileIgnoreLines(excludes...)
	}
	return ix
}

// Discover walks the workspace and returns every *.services.yml file,
// sorted for deterministic indexing. Hidden directories and common
// dependency directories are skipped.
func (ix *Indexer) Discover() ([]string, error) {
	var files []string

	err := filepath.WalkDir(ix.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}

		name := d.Name()
		if d.IsDir() {
			if path == ix.root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(name, ".services.yml") {
			return nil
		}
		if ix.matcher != nil || ix.excludes != nil {
			if rel, err := filepath.Rel(ix.root, path); err == nil {
				if ix.matcher != nil && ix.matcher.MatchesPath(rel) {
					return nil
				}
				if ix.excludes != nil && ix.excludes.MatchesPath(rel) {
					return nil
				}
			}
		}

		ix.logger.Debug("declaration file discovered", "file", path)
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// DefinitionsFromFile parses one declaration file and fills in the class
// file path of each definition whose implementing class exists on disk.
func (ix *Indexer) DefinitionsFromFile(path string) ([]*types.ServiceDefinition, error) {
	defs, err := ParseServicesFile(path)
	if err != nil {
		return nil, err
	}

	for _, def := range defs {
		def.ClassFilePath = resolveClassFilePath(path, def.ClassName)
	}

	return defs, nil
}

// resolveClassFilePath maps a class name to a file under the declaring
// module using the framework's autoloading layout: Drupal\<module>\X lives
// in src/X.php next to the declaration file, while Drupal\Core\X and
// Drupal\Component\X live in lib/Drupal/<part>/X.php. Returns empty when
// no such file exists.
func resolveClassFilePath(declPath, className string) string {
	parts := strings.Split(strings.TrimPrefix(className, "\\"), "\\")
	if len(parts) < 3 || parts[0] != "Drupal" {
		return ""
	}

	dir := filepath.Dir(declPath)
	rest := filepath.Join(parts[2:]...) + ".php"

	var candidate string
	switch parts[1] {
	case "Core", "Component":
		candidate = filepath.Join(dir, "lib", "Drupal", parts[1], rest)
	default:
		candidate = filepath.Join(dir, "src", rest)
	}

	if _, err := os.Stat(candidate); err != nil {
		return ""
	}

	abs, err := filepath.Abs(candidate)
	if err != nil {
		return ""
	}
	return abs
}
