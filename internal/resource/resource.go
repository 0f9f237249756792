// Package resource models the workspace-scoped resource tree protected by
// the authorization engine: a plain hierarchical store plus a securing
// decorator that derives per-principal read/write rights from workspace
// administration status.
package resource

import (
	"io"
	"time"
)

// Type describes what a path points at. Undefined doubles as the
// "resource does not exist" signal, which the secured store also uses for
// resources the caller is not allowed to see.
type Type int

const (
	TypeUndefined Type = iota
	TypeDirectory
	TypeFile
)

func (t Type) String() string {
	switch t {
	case TypeDirectory:
		return "directory"
	case TypeFile:
		return "file"
	default:
		return "undefined"
	}
}

// Resource is a node of the resource tree. Paths use forward slashes and
// are relative to the store root; the root is the empty path.
type Resource interface {
	// Path returns the resource's full path within the store
	Path() string

	// Name returns the last path segment
	Name() string

	// Type reports whether the path is a directory, a file, or nothing
	Type() Type

	// In opens the resource content for reading
	In() (io.ReadCloser, error)

	// Out opens the resource content for writing, creating it if needed
	Out() (io.WriteCloser, error)

	// List returns the resource's direct children; empty for non-directories
	List() []Resource

	// Delete removes the resource; reports whether the removal happened
	Delete() bool

	// RenameTo moves the resource to dest; reports whether the move happened
	RenameTo(dest Resource) bool

	// Parent returns the parent resource, nil at the root
	Parent() Resource

	// Get returns the child resource at the given relative path
	Get(child string) Resource

	// LastModified returns the resource's modification time
	LastModified() time.Time
}

// Store is a resource-tree store.
type Store interface {
	// Get returns the resource at path. Resources are handles: Get never
	// fails, the resulting resource may have TypeUndefined.
	Get(path string) Resource

	// Remove deletes the resource at path; reports whether it happened
	Remove(path string) bool

	// Move renames source to target; reports whether it happened
	Move(source, target string) bool
}
