package rules

import (
	"testing"
)

func TestParseMethodSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    string
		wantErr bool
	}{
		{
			name: "read shorthand",
			spec: "r",
			want: "GET,HEAD,OPTIONS,TRACE",
		},
		{
			name: "write shorthand",
			spec: "w",
			want: "DELETE,PATCH,POST,PUT",
		},
		{
			name: "all shorthand",
			spec: "a",
			want: "DELETE,GET,HEAD,OPTIONS,PATCH,POST,PUT,TRACE",
		},
		{
			name: "read plus write equals all",
			spec: "r,w",
			want: "DELETE,GET,HEAD,OPTIONS,PATCH,POST,PUT,TRACE",
		},
		{
			name: "single verb",
			spec: "GET",
			want: "GET",
		},
		{
			name: "verbs are case insensitive",
			spec: "get,Put",
			want: "GET,PUT",
		},
		{
			name: "whitespace and shorthand mix",
			spec: " r , post ",
			want: "GET,HEAD,OPTIONS,POST,TRACE",
		},
		{
			name:    "empty spec",
			spec:    "",
			wantErr: true,
		},
		{
			name:    "unknown token",
			spec:    "fetch",
			wantErr: true,
		},
		{
			name:    "unknown token mixed with valid ones",
			spec:    "GET,fetch",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := Parse(0, "/rest/**", tt.spec)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse() expected error for spec %q, got nil", tt.spec)
				}
				return
			}

			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if got := rule.Methods(); got != tt.want {
				t.Errorf("Methods() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRuleMatches(t *testing.T) {
	rule, err := Parse(0, "/rest/workspaces/{workspace}/**", "w")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		uri    string
		method string
		want   bool
	}{
		{
			name:   "write verb on matching path",
			uri:    "/rest/workspaces/acme/datastores",
			method: "PUT",
			want:   true,
		},
		{
			name:   "method is case insensitive",
			uri:    "/rest/workspaces/acme/datastores",
			method: "put",
			want:   true,
		},
		{
			name:   "read verb not in method set",
			uri:    "/rest/workspaces/acme/datastores",
			method: "GET",
			want:   false,
		},
		{
			name:   "write verb on non-matching path",
			uri:    "/rest/layers/acme",
			method: "PUT",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rule.Matches(tt.uri, tt.method); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.uri, tt.method, got, tt.want)
			}
		})
	}
}

func TestRuleEqual(t *testing.T) {
	base, _ := Parse(0, "/rest", "r")
	samePatternHigherPriority, _ := Parse(9, "/rest", "r")
	sameSetSpelledOut, _ := Parse(0, "/rest", "GET,HEAD,OPTIONS,TRACE")
	differentMethods, _ := Parse(0, "/rest", "a")
	differentPattern, _ := Parse(0, "/rest/**", "r")

	if !base.Equal(samePatternHigherPriority) {
		t.Error("Equal() should ignore priority")
	}
	if !base.Equal(sameSetSpelledOut) {
		t.Error("Equal() should compare expanded method sets")
	}
	if base.Equal(differentMethods) {
		t.Error("Equal() should detect differing method sets")
	}
	if base.Equal(differentPattern) {
		t.Error("Equal() should detect differing patterns")
	}
	if base.Equal(nil) {
		t.Error("Equal(nil) should be false")
	}
}

func TestRuleAttribute(t *testing.T) {
	rule, _ := Parse(3, "/rest", "r")
	want := "/rest=GET,HEAD,OPTIONS,TRACE"
	if got := rule.Attribute(); got != want {
		t.Errorf("Attribute() = %q, want %q", got, want)
	}
}
