package rules

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

//go:embed rest.workspaceadmin.defaults.properties
var defaultsFile []byte

// Store owns the ordered collection of access rules. The collection is an
// immutable snapshot published through an atomic pointer: readers mid-scan
// see either the old or the new snapshot in full, never a mix, and reloads
// never block matching.
type Store struct {
	rules  atomic.Pointer[[]*AccessRule]
	logger *slog.Logger
}

// NewStore creates a store holding only the built-in default rules. Returns
// an error if the embedded defaults are malformed; the engine must not start
// with a corrupt rule set.
func NewStore(logger *slog.Logger) (*Store, error) {
	s := &Store{logger: logger}
	if err := s.Load(nil); err != nil {
		return nil, fmt.Errorf("load default rules: %w", err)
	}
	return s, nil
}

// Load parses the configured override entries, merges them with the built-in
// defaults and atomically replaces the store's rule collection. Configured
// entries get ascending priorities starting at 0 in file order; defaults
// continue from there. For any pattern present in both, the configured
// rule's method set wins entirely.
func (s *Store) Load(configured []byte) error {
	configuredRules, err := loadRules(configured, 0)
	if err != nil {
		return fmt.Errorf("configured rules: %w", err)
	}
	defaultRules, err := loadRules(defaultsFile, len(configuredRules))
	if err != nil {
		return fmt.Errorf("default rules: %w", err)
	}

	merged := mergeRules(defaultRules, configuredRules)
	s.rules.Store(&merged)

	if s.logger != nil {
		s.logger.Info("access rules loaded",
			"configured", len(configuredRules),
			"defaults", len(defaultRules),
			"effective", len(merged),
		)
	}
	return nil
}

// LoadFile loads the override file at path. A missing file is not an error:
// the store falls back to the built-in defaults alone.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.Load(nil)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	return s.Load(data)
}

// Rules returns the current rule snapshot in priority order. The returned
// slice is safe to iterate while a reload happens concurrently.
func (s *Store) Rules() []*AccessRule {
	return *s.rules.Load()
}

// FirstMatch scans rules in priority order and returns the first whose
// Matches holds. Absence means no rule governs this request, which callers
// must treat as "not a workspace-admin-eligible path", not as an error.
func (s *Store) FirstMatch(uri, method string) (*AccessRule, bool) {
	for _, rule := range s.Rules() {
		if rule.Matches(uri, method) {
			return rule, true
		}
	}
	return nil, false
}

// loadRules parses a properties source into rules with ascending priorities
// starting at basePriority, preserving file order.
func loadRules(data []byte, basePriority int) ([]*AccessRule, error) {
	entries, err := parseProperties(data)
	if err != nil {
		return nil, err
	}
	loaded := make([]*AccessRule, 0, len(entries))
	for i, e := range entries {
		rule, err := Parse(basePriority+i, e.key, e.value)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", e.key, err)
		}
		loaded = append(loaded, rule)
	}
	return loaded, nil
}

// mergeRules combines defaults with configured overrides, keyed by pattern.
// Configured rules keep their original relative order; defaults whose
// pattern has no override are appended after. Re-running the merge on
// unchanged inputs yields an identical ordered result.
func mergeRules(defaults, configured []*AccessRule) []*AccessRule {
	seen := make(map[string]struct{}, len(configured))
	merged := make([]*AccessRule, 0, len(defaults)+len(configured))
	for _, r := range configured {
		if _, dup := seen[r.Pattern()]; dup {
			continue
		}
		seen[r.Pattern()] = struct{}{}
		merged = append(merged, r)
	}
	for _, d := range defaults {
		if _, overridden := seen[d.Pattern()]; !overridden {
			merged = append(merged, d)
		}
	}
	return merged
}
