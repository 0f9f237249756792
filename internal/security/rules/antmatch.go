package rules

import "strings"

// Ant-style path template matching. The template language supports:
//
//   - `*`      one path segment (or a glob within a segment, with `?`)
//   - `**`     any number of path segments, including zero
//   - `{name}` a named single-segment variable, capturable via ExtractVariable
//
// Matching is anchored: the whole path must match the whole pattern, never
// just a prefix.

// Match reports whether pattern matches path.
func Match(pattern, path string) bool {
	return matchSegments(splitPath(pattern), splitPath(path), nil)
}

// ExtractVariables matches pattern against path and, on success, returns the
// values bound to the pattern's named template variables.
func ExtractVariables(pattern, path string) (map[string]string, bool) {
	vars := map[string]string{}
	if !matchSegments(splitPath(pattern), splitPath(path), vars) {
		return nil, false
	}
	return vars, true
}

// ExtractVariable returns the value bound to the named template variable if
// the pattern matches the path.
func ExtractVariable(pattern, path, name string) (string, bool) {
	vars, ok := ExtractVariables(pattern, path)
	if !ok {
		return "", false
	}
	value, ok := vars[name]
	return value, ok
}

func splitPath(p string) []string {
	return strings.Split(p, "/")
}

func matchSegments(pattern, path []string, vars map[string]string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}
	if pattern[0] == "**" {
		// `**` matches zero segments first, then consumes one at a time
		if matchSegments(pattern[1:], path, vars) {
			return true
		}
		if len(path) == 0 {
			return false
		}
		return matchSegments(pattern, path[1:], vars)
	}
	if len(path) == 0 {
		return false
	}
	if !matchSegment(pattern[0], path[0], vars) {
		return false
	}
	return matchSegments(pattern[1:], path[1:], vars)
}

func matchSegment(pattern, segment string, vars map[string]string) bool {
	if len(pattern) > 1 && pattern[0] == '{' && pattern[len(pattern)-1] == '}' {
		if segment == "" {
			return false
		}
		if vars != nil {
			vars[pattern[1:len(pattern)-1]] = segment
		}
		return true
	}
	return matchGlob(pattern, segment)
}

// matchGlob matches a single segment against a pattern containing `*` and
// `?`. Two-pointer scan with star backtracking: on a mismatch the last `*`
// absorbs one more character and the scan resumes, keeping the match linear
// in len(s)*len(pattern) even for star-heavy patterns.
func matchGlob(pattern, s string) bool {
	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case pi < len(pattern) && (pattern[pi] == '?' || pattern[pi] == s[si]):
			pi++
			si++
		case pi < len(pattern) && pattern[pi] == '*':
			star, mark = pi, si
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
