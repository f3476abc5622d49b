package domain

// SourceFile is one eligible file produced by a tree walk.
type SourceFile struct {
	Path    string `json:"path"`     // absolute
	RelPath string `json:"rel_path"` // relative to the walk root
	Content string `json:"-"`
}

// WalkFailure records a file or directory that could not be read.
// Walk failures are isolated: they never abort the surrounding run.
type WalkFailure struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// TreeWalker walks a root directory and returns the eligible source
// files, with per-file read failures reported separately.
type TreeWalker interface {
	Walk(root string, extraSkipDirs []string) ([]SourceFile, []WalkFailure, error)
}

// ConfigLoader loads the engine configuration for a project directory.
type ConfigLoader interface {
	Load(projectPath string) (EngineConfig, error)
}

// TemplateStore supplies and persists the template corpus.
type TemplateStore interface {
	Load(path string) ([]Template, error)
	Save(path string, templates []Template) error
}

// GitInfo resolves version-control metadata for report stamping.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}
