package authz

import (
	"embed"
	"fmt"
	"net/http"

	"atlas/internal/security/rules"

	"gopkg.in/yaml.v3"
)

//go:embed config/restdefs.yaml
var restDefsFile embed.FS

// restDefinition is one entry of the REST definition file: a path pattern
// plus method spec mapped to the attribute values it imposes (role names or
// IS_AUTHENTICATED_* markers).
type restDefinition struct {
	Pattern    string   `yaml:"pattern"`
	Methods    string   `yaml:"methods"`
	Attributes []string `yaml:"attributes"`
}

type restDefinitionFile struct {
	Definitions []restDefinition `yaml:"definitions"`
}

// RestDefinitionSource maps requests to role and authentication-level
// attributes from the embedded REST definition file. The first matching
// definition wins; later entries never add attributes.
type RestDefinitionSource struct {
	entries []restDefEntry
}

type restDefEntry struct {
	rule       *rules.AccessRule
	attributes []Attribute
}

// NewRestDefinitionSource loads the embedded definitions. A malformed file
// is a startup error.
func NewRestDefinitionSource() (*RestDefinitionSource, error) {
	data, err := restDefsFile.ReadFile("config/restdefs.yaml")
	if err != nil {
		return nil, fmt.Errorf("read rest definitions: %w", err)
	}

	var file restDefinitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal rest definitions: %w", err)
	}

	src := &RestDefinitionSource{}
	for i, def := range file.Definitions {
		rule, err := rules.Parse(i, def.Pattern, def.Methods)
		if err != nil {
			return nil, fmt.Errorf("rest definition %q: %w", def.Pattern, err)
		}
		attrs := make([]Attribute, 0, len(def.Attributes))
		for _, a := range def.Attributes {
			attrs = append(attrs, StringAttribute(a))
		}
		src.entries = append(src.entries, restDefEntry{rule: rule, attributes: attrs})
	}
	return src, nil
}

func (s *RestDefinitionSource) Attributes(r *http.Request) []Attribute {
	for _, e := range s.entries {
		if e.rule.Matches(r.URL.Path, r.Method) {
			return e.attributes
		}
	}
	return nil
}
