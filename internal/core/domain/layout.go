package domain

import "path/filepath"

const (
	// SlateDirName is the name of the internal project data directory.
	SlateDirName = ".slate"

	// TasksDirName is the name of the task document directory.
	TasksDirName = "tasks"

	// ManifestFileName is the name of the project manifest file.
	ManifestFileName = "slate.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultSlatePath returns the slate metadata directory under root.
func DefaultSlatePath(root string) string {
	return filepath.Join(root, SlateDirName)
}

// DefaultTasksPath returns the task document directory under root.
func DefaultTasksPath(root string) string {
	return filepath.Join(root, SlateDirName, TasksDirName)
}

// Project describes a loaded project manifest.
type Project struct {
	// Name is the project name from the manifest.
	Name string
	// Root is the directory containing the manifest.
	Root string
}

// TasksPath returns the absolute path of the project's task document directory.
func (p Project) TasksPath() string {
	return DefaultTasksPath(p.Root)
}
