package rules

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// Rule files are line-oriented properties: `antPattern=methodSpec`, where
// methodSpec is a comma-separated list of HTTP verb names and/or the
// shorthands `r` (read set), `w` (write set) and `a` (both). Line order
// establishes rule priority within the file.

var readMethods = []string{"GET", "HEAD", "OPTIONS", "TRACE"}
var writeMethods = []string{"POST", "PUT", "PATCH", "DELETE"}

var knownMethods = func() map[string]struct{} {
	known := make(map[string]struct{}, len(readMethods)+len(writeMethods))
	for _, m := range readMethods {
		known[m] = struct{}{}
	}
	for _, m := range writeMethods {
		known[m] = struct{}{}
	}
	return known
}()

type propertyEntry struct {
	key   string
	value string
}

// parseProperties parses a properties file preserving entry order. Blank
// lines and `#` comments are skipped.
func parseProperties(data []byte) ([]propertyEntry, error) {
	var entries []propertyEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("line %d: expected antPattern=methods, got %q", lineNo, line)
		}
		entries = append(entries, propertyEntry{
			key:   strings.TrimSpace(key),
			value: strings.TrimSpace(value),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// parseMethods expands a methodSpec into its method set. Expansion is
// case-insensitive; an unrecognized token is a load-time error.
func parseMethods(spec string) (map[string]struct{}, error) {
	methods := map[string]struct{}{}
	for _, token := range strings.Split(spec, ",") {
		token = strings.ToUpper(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		switch token {
		case "R":
			for _, m := range readMethods {
				methods[m] = struct{}{}
			}
		case "W":
			for _, m := range writeMethods {
				methods[m] = struct{}{}
			}
		case "A":
			for _, m := range readMethods {
				methods[m] = struct{}{}
			}
			for _, m := range writeMethods {
				methods[m] = struct{}{}
			}
		default:
			if _, ok := knownMethods[token]; !ok {
				return nil, fmt.Errorf("unknown HTTP method %q", token)
			}
			methods[token] = struct{}{}
		}
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("empty method spec %q", spec)
	}
	return methods, nil
}
