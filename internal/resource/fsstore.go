package resource

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// FileStore is a resource-tree store backed by a directory on disk.
// Store paths are slash-separated and relative to the root; the empty path
// is the root directory itself.
type FileStore struct {
	root string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{root: dir}, nil
}

func (s *FileStore) Get(p string) Resource {
	return &fileResource{store: s, path: cleanPath(p)}
}

func (s *FileStore) Remove(p string) bool {
	p = cleanPath(p)
	if p == "" {
		// never remove the store root
		return false
	}
	if _, err := os.Stat(s.file(p)); err != nil {
		return false
	}
	return os.RemoveAll(s.file(p)) == nil
}

func (s *FileStore) Move(source, target string) bool {
	source, target = cleanPath(source), cleanPath(target)
	if source == "" || target == "" {
		return false
	}
	if _, err := os.Stat(s.file(source)); err != nil {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(s.file(target)), 0755); err != nil {
		return false
	}
	return os.Rename(s.file(source), s.file(target)) == nil
}

func (s *FileStore) file(p string) string {
	return filepath.Join(s.root, filepath.FromSlash(p))
}

// cleanPath normalizes a store path: forward slashes, no leading/trailing
// separator, no traversal outside the root.
func cleanPath(p string) string {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "." {
		return ""
	}
	return p
}

type fileResource struct {
	store *FileStore
	path  string
}

func (r *fileResource) Path() string { return r.path }

func (r *fileResource) Name() string {
	if r.path == "" {
		return ""
	}
	return path.Base(r.path)
}

func (r *fileResource) Type() Type {
	info, err := os.Stat(r.store.file(r.path))
	if err != nil {
		return TypeUndefined
	}
	if info.IsDir() {
		return TypeDirectory
	}
	return TypeFile
}

func (r *fileResource) In() (io.ReadCloser, error) {
	return os.Open(r.store.file(r.path))
}

func (r *fileResource) Out() (io.WriteCloser, error) {
	file := r.store.file(r.path)
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return nil, err
	}
	return os.Create(file)
}

func (r *fileResource) List() []Resource {
	entries, err := os.ReadDir(r.store.file(r.path))
	if err != nil {
		return nil
	}
	children := make([]Resource, 0, len(entries))
	for _, e := range entries {
		children = append(children, r.Get(e.Name()))
	}
	return children
}

func (r *fileResource) Delete() bool {
	return r.store.Remove(r.path)
}

func (r *fileResource) RenameTo(dest Resource) bool {
	return r.store.Move(r.path, dest.Path())
}

func (r *fileResource) Parent() Resource {
	if r.path == "" {
		return nil
	}
	parent := path.Dir(r.path)
	if parent == "." {
		parent = ""
	}
	return r.store.Get(parent)
}

func (r *fileResource) Get(child string) Resource {
	return r.store.Get(path.Join(r.path, child))
}

func (r *fileResource) LastModified() time.Time {
	info, err := os.Stat(r.store.file(r.path))
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
