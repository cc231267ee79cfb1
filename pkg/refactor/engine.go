package refactor

import (
	"log/slog"

	"github.com/mamaar/drupalrefactor/pkg/analysis"
	"github.com/mamaar/drupalrefactor/pkg/types"
)

// Engine is the main interface for DI refactoring operations
type Engine interface {
	// DetectCalls scans PHP source for static service lookups.
	DetectCalls(source string) []types.StaticServiceCall

	// AnalyzeClass extracts the structural skeleton of the first class in
	// the source.
	AnalyzeClass(source string) *types.ClassSkeleton

	// Refactor converts the context's selected static calls into
	// constructor-injected dependencies, returning the ordered edit list.
	Refactor(ctx *types.RefactoringContext) ([]types.RefactoringEdit, error)
}

// DefaultEngine implements the Engine interface
type DefaultEngine struct {
	detector   *analysis.Detector
	analyzer   *analysis.Analyzer
	composer   *Composer
	registry   types.ServiceRegistry
	logger     *slog.Logger
	strategies map[types.ClassRole]strategyFunc
}

// EngineConfig contains configuration options for the refactoring engine
type EngineConfig struct {
	// RootAliases lists additional static facade classes recognized beside
	// \Drupal.
	RootAliases []string

	// ExtraShortcuts maps additional accessor names to service ids, merged
	// over the builtin shortcut table.
	ExtraShortcuts map[string]string
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() *EngineConfig {
	return &EngineConfig{}
}

func CreateEngine(reg types.ServiceRegistry, logger *slog.Logger) Engine {
	return CreateEngineWithConfig(DefaultConfig(), reg, logger)
}

func CreateEngineWithConfig(config *EngineConfig, reg types.ServiceRegistry, logger *slog.Logger) Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	detector := analysis.NewDetectorWith(config.RootAliases, config.ExtraShortcuts)
	e := &DefaultEngine{
		detector: detector,
		analyzer: analysis.NewAnalyzer(),
		composer: NewComposer(detector),
		registry: reg,
		logger:   logger,
	}
	e.strategies = map[types.ClassRole]strategyFunc{
		types.RoleService:        e.serviceStrategy,
		types.RoleController:     e.controllerStrategy,
		types.RoleForm:           e.controllerStrategy,
		types.RoleBlock:          e.pluginStrategy,
		types.RolePlugin:         e.pluginStrategy,
		types.RoleFieldFormatter: e.pluginStrategy,
		types.RoleFieldWidget:    e.pluginStrategy,
		types.RoleQueueWorker:    e.pluginStrategy,
	}

	return e
}

// DetectCalls scans the source for static service lookups.
func (e *DefaultEngine) DetectCalls(source string) []types.StaticServiceCall {
	return e.detector.DetectAll(source)
}

// AnalyzeClass extracts the structural skeleton from the source.
func (e *DefaultEngine) AnalyzeClass(source string) *types.ClassSkeleton {
	return e.analyzer.Analyze(source)
}

// Refactor fills in the context's skeleton and role when the caller left
// them unset, dispatches the role's strategy, and composes the final edit
// list. A context selecting no services yields an empty list. A source
// without a class header yields an empty list rather than an error.
func (e *DefaultEngine) Refactor(ctx *types.RefactoringContext) ([]types.RefactoringEdit, error) {
	if ctx == nil {
		return nil, &types.RefactorError{
			Type:    types.InvalidOperation,
			Message: "refactoring context is required",
		}
	}
	if len(ctx.ServiceIDs) == 0 {
		return nil, nil
	}

	if ctx.Registry == nil {
		ctx.Registry = e.registry
	}
	if ctx.Skeleton == nil {
		ctx.Skeleton = e.analyzer.Analyze(ctx.Source)
	}
	if ctx.Skeleton.ClassLine < 0 {
		e.logger.Debug("no class header found, nothing to refactor", "file", ctx.FilePath)
		return nil, nil
	}
	if ctx.ClassLine == 0 {
		ctx.ClassLine = ctx.Skeleton.ClassLine
	}

	if ctx.Role == types.RoleService {
		ctx.Role = analysis.DetectRole(ctx.Skeleton)
	}

	strategy, ok := e.strategies[ctx.Role]
	if !ok {
		strategy = e.serviceStrategy
	}

	e.logger.Debug("refactoring class",
		"file", ctx.FilePath,
		"class", ctx.Skeleton.ClassName,
		"role", ctx.Role.String(),
		"services", len(ctx.ServiceIDs))

	structural, err := strategy(ctx)
	if err != nil {
		return nil, err
	}

	return e.composer.Compose(ctx, structural), nil
}
