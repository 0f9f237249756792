package resource

import (
	"io"
	"testing"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() unexpected error: %v", err)
	}
	return store
}

func writeResource(t *testing.T, store *FileStore, path, content string) {
	t.Helper()
	out, err := store.Get(path).Out()
	if err != nil {
		t.Fatalf("Out(%q) unexpected error: %v", path, err)
	}
	if _, err := out.Write([]byte(content)); err != nil {
		t.Fatalf("Write(%q) unexpected error: %v", path, err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close(%q) unexpected error: %v", path, err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newFileStore(t)
	writeResource(t, store, "workspaces/acme/store.xml", "<store/>")

	res := store.Get("workspaces/acme/store.xml")
	if res.Type() != TypeFile {
		t.Fatalf("Type() = %v, want %v", res.Type(), TypeFile)
	}
	if res.Name() != "store.xml" {
		t.Errorf("Name() = %q, want %q", res.Name(), "store.xml")
	}

	in, err := res.In()
	if err != nil {
		t.Fatalf("In() unexpected error: %v", err)
	}
	defer in.Close()
	content, _ := io.ReadAll(in)
	if string(content) != "<store/>" {
		t.Errorf("In() content = %q, want %q", content, "<store/>")
	}

	if parent := res.Parent(); parent.Path() != "workspaces/acme" {
		t.Errorf("Parent().Path() = %q, want %q", parent.Path(), "workspaces/acme")
	}
	if res.LastModified().IsZero() {
		t.Error("LastModified() is zero for an existing file")
	}
}

func TestFileStorePathCleaning(t *testing.T) {
	store := newFileStore(t)

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "traversal stays inside the root",
			path: "../../etc/passwd",
			want: "etc/passwd",
		},
		{
			name: "leading slash stripped",
			path: "/workspaces/acme",
			want: "workspaces/acme",
		},
		{
			name: "dot segments collapsed",
			path: "workspaces/./acme",
			want: "workspaces/acme",
		},
		{
			name: "trailing slash stripped",
			path: "workspaces/",
			want: "workspaces",
		},
		{
			name: "dot is the root",
			path: ".",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := store.Get(tt.path).Path(); got != tt.want {
				t.Errorf("Get(%q).Path() = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestFileStoreRoot(t *testing.T) {
	store := newFileStore(t)

	root := store.Get("")
	if root.Type() != TypeDirectory {
		t.Errorf("Type() = %v for the root, want %v", root.Type(), TypeDirectory)
	}
	if root.Name() != "" {
		t.Errorf("Name() = %q for the root, want empty", root.Name())
	}
	if root.Parent() != nil {
		t.Error("Parent() of the root should be nil")
	}
	if store.Remove("") {
		t.Error("Remove() of the root should be refused")
	}
}

func TestFileStoreList(t *testing.T) {
	store := newFileStore(t)
	writeResource(t, store, "workspaces/acme/store.xml", "<store/>")
	writeResource(t, store, "workspaces/other/store.xml", "<store/>")

	children := store.Get("workspaces").List()
	if len(children) != 2 {
		t.Fatalf("List() returned %d children, want 2", len(children))
	}
	for _, child := range children {
		if child.Type() != TypeDirectory {
			t.Errorf("List() child %q Type() = %v, want %v", child.Path(), child.Type(), TypeDirectory)
		}
	}

	if missing := store.Get("workspaces/ghost").List(); missing != nil {
		t.Errorf("List() of a missing directory = %v, want nil", missing)
	}
}

func TestFileStoreRemove(t *testing.T) {
	store := newFileStore(t)
	writeResource(t, store, "workspaces/acme/store.xml", "<store/>")

	if !store.Remove("workspaces/acme") {
		t.Fatal("Remove() = false, want true")
	}
	if got := store.Get("workspaces/acme/store.xml").Type(); got != TypeUndefined {
		t.Errorf("Type() after Remove() = %v, want %v", got, TypeUndefined)
	}
	if store.Remove("workspaces/acme") {
		t.Error("Remove() of an already removed path should report false")
	}
}

func TestFileStoreMove(t *testing.T) {
	store := newFileStore(t)
	writeResource(t, store, "workspaces/acme/store.xml", "<store/>")

	if !store.Move("workspaces/acme/store.xml", "workspaces/acme/backup/store.xml") {
		t.Fatal("Move() = false, want true")
	}
	if got := store.Get("workspaces/acme/store.xml").Type(); got != TypeUndefined {
		t.Errorf("source Type() after Move() = %v, want %v", got, TypeUndefined)
	}
	if got := store.Get("workspaces/acme/backup/store.xml").Type(); got != TypeFile {
		t.Errorf("target Type() after Move() = %v, want %v", got, TypeFile)
	}

	if store.Move("workspaces/acme/missing.xml", "elsewhere.xml") {
		t.Error("Move() of a missing source should report false")
	}
}
