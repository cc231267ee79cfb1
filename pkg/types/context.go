package types

// RefactoringContext carries everything one injection run needs. A context
// is built per refactor action from the text currently open in the editor
// and discarded afterwards; nothing in it is cached across requests.
type RefactoringContext struct {
	FilePath   string
	Source     string
	ClassLine  int
	Role       ClassRole
	ServiceIDs []string // unique ids to inject, first-seen order
	Skeleton   *ClassSkeleton
	Registry   ServiceRegistry
}
