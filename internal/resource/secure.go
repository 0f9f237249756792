package resource

import (
	"context"
	"fmt"
	"io"
	"time"

	"atlas/internal/domain"
	"atlas/internal/security/authn"
)

// Securer builds request-scoped secured views over a resource store.
type Securer struct {
	delegate Store
	filter   *AccessFilter
}

// NewSecurer creates a securer decorating the given store.
func NewSecurer(delegate Store, filter *AccessFilter) *Securer {
	return &Securer{delegate: delegate, filter: filter}
}

// Store returns the secured view of the underlying store for one request.
// The view holds the request context and principal; it must not outlive the
// request.
func (s *Securer) Store(ctx context.Context, p authn.Principal) Store {
	return &secureStore{
		ctx:       ctx,
		principal: p,
		delegate:  s.delegate,
		filter:    s.filter,
	}
}

// secureStore consults the access filter before every operation. Full
// administrators bypass every check.
type secureStore struct {
	ctx       context.Context
	principal authn.Principal
	delegate  Store
	filter    *AccessFilter
}

// Get returns the raw resource for administrators, and a secured decorator
// for everyone else. No access check happens at wrap time: the decorator
// re-checks on every subsequent call and hides itself on Type() when the
// caller cannot read it.
func (s *secureStore) Get(path string) Resource {
	res := s.delegate.Get(path)
	if s.isAdmin() {
		return res
	}
	return s.wrap(res)
}

func (s *secureStore) Remove(path string) bool {
	return s.canWrite(path) && s.delegate.Remove(path)
}

func (s *secureStore) Move(source, target string) bool {
	return s.canWrite(source) && s.canWrite(target) && s.delegate.Move(source, target)
}

// Support methods for securedResource so all gating logic stays in the store.

// list returns the readable children of path, each wrapped. READ on a
// directory does not imply READ on its children: every child is re-filtered
// independently.
func (s *secureStore) list(path string) []Resource {
	if !s.canRead(path) {
		return nil
	}
	children := s.delegate.Get(path).List()
	visible := make([]Resource, 0, len(children))
	for _, child := range children {
		if s.canRead(child.Path()) {
			visible = append(visible, s.wrap(child))
		}
	}
	return visible
}

func (s *secureStore) getType(r *securedResource) Type {
	if s.canRead(r.Path()) {
		return r.delegate.Type()
	}
	return TypeUndefined
}

func (s *secureStore) in(r *securedResource) (io.ReadCloser, error) {
	if s.canRead(r.Path()) {
		return r.delegate.In()
	}
	// never "forbidden": that would confirm the resource exists
	return nil, &domain.NotFoundError{Message: fmt.Sprintf("resource not found: %s", r.Path())}
}

func (s *secureStore) out(r *securedResource) (io.WriteCloser, error) {
	if s.canWrite(r.Path()) {
		return r.delegate.Out()
	}
	if s.canRead(r.Path()) {
		return nil, &domain.ReadOnlyError{Message: fmt.Sprintf("resource is read only: %s", r.Path())}
	}
	return nil, &domain.NotFoundError{Message: fmt.Sprintf("resource not found: %s", r.Path())}
}

// wrap is applied uniformly at every tree-traversal boundary so securing is
// structural rather than re-invoked per call site.
func (s *secureStore) wrap(r Resource) Resource {
	if r == nil {
		return nil
	}
	return &securedResource{delegate: r, store: s}
}

func (s *secureStore) canRead(path string) bool {
	return s.isAdmin() || (s.principal != nil && s.filter.AccessLimits(s.ctx, s.principal, path).CanRead())
}

func (s *secureStore) canWrite(path string) bool {
	return s.isAdmin() || (s.principal != nil && s.filter.AccessLimits(s.ctx, s.principal, path).CanWrite())
}

func (s *secureStore) isAdmin() bool {
	return authn.IsAdmin(s.principal)
}

// securedResource re-checks access on every call, delegating the gating to
// its owning store.
type securedResource struct {
	delegate Resource
	store    *secureStore
}

func (r *securedResource) Path() string { return r.delegate.Path() }
func (r *securedResource) Name() string { return r.delegate.Name() }

func (r *securedResource) Type() Type { return r.store.getType(r) }

func (r *securedResource) In() (io.ReadCloser, error) { return r.store.in(r) }

func (r *securedResource) Out() (io.WriteCloser, error) { return r.store.out(r) }

func (r *securedResource) List() []Resource { return r.store.list(r.Path()) }

func (r *securedResource) Delete() bool { return r.store.Remove(r.Path()) }

func (r *securedResource) RenameTo(dest Resource) bool {
	return r.store.Move(r.Path(), dest.Path())
}

func (r *securedResource) Parent() Resource {
	return r.store.wrap(r.delegate.Parent())
}

func (r *securedResource) Get(child string) Resource {
	return r.store.wrap(r.delegate.Get(child))
}

func (r *securedResource) LastModified() time.Time { return r.delegate.LastModified() }
