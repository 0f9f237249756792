// Package rules holds the URL-pattern access rules granting workspace
// administrators access to management API endpoints, the ant-style path
// template matcher, and the priority-ordered rule store.
package rules

import (
	"sort"
	"strings"
)

// AccessRule is a single pattern/method/priority tuple. Rules are immutable
// once constructed; the store replaces its whole collection on reload.
type AccessRule struct {
	priority int
	pattern  string
	methods  map[string]struct{}
}

func newAccessRule(priority int, pattern string, methods map[string]struct{}) *AccessRule {
	return &AccessRule{
		priority: priority,
		pattern:  pattern,
		methods:  methods,
	}
}

// Parse builds a rule from its configuration form: an ant-style pattern and
// a method spec (comma-separated verb names and/or the r/w/a shorthands).
func Parse(priority int, pattern, methodSpec string) (*AccessRule, error) {
	methods, err := parseMethods(methodSpec)
	if err != nil {
		return nil, err
	}
	return newAccessRule(priority, pattern, methods), nil
}

// Pattern returns the rule's ant-style path template.
func (r *AccessRule) Pattern() string { return r.pattern }

// Priority returns the rule's evaluation order. Lower values are evaluated first.
func (r *AccessRule) Priority() int { return r.priority }

// Matches reports whether the rule governs the given request: the method must
// belong to the rule's method set and the URI must match the rule's pattern.
func (r *AccessRule) Matches(uri, method string) bool {
	if _, ok := r.methods[strings.ToUpper(method)]; !ok {
		return false
	}
	return Match(r.pattern, uri)
}

// Methods returns the rule's method set as a sorted comma-separated string.
func (r *AccessRule) Methods() string {
	names := make([]string, 0, len(r.methods))
	for m := range r.methods {
		names = append(names, m)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// Attribute renders the rule in its configuration form, "pattern=METHODS".
// The rendered form doubles as the rule's attribute value when the rule is
// surfaced to the decision engine's metadata sources.
func (r *AccessRule) Attribute() string {
	return r.pattern + "=" + r.Methods()
}

// Equal reports whether two rules have the same pattern and method set.
// Priority is deliberately excluded: it is an ordering concern, not identity.
func (r *AccessRule) Equal(other *AccessRule) bool {
	if other == nil || r.pattern != other.pattern || len(r.methods) != len(other.methods) {
		return false
	}
	for m := range r.methods {
		if _, ok := other.methods[m]; !ok {
			return false
		}
	}
	return true
}

func (r *AccessRule) String() string { return r.Attribute() }
