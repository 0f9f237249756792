package authz

import (
	"context"
	"net/http"

	"atlas/internal/security/authn"
)

// Decision is a voter's three-valued vote. Abstained means the voter has no
// opinion on the request; it never counts toward denial.
type Decision int

const (
	Abstained Decision = iota
	Granted
	Denied
)

func (d Decision) String() string {
	switch d {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "abstained"
	}
}

// Voter is a single-purpose decision unit returning a vote for one
// authorization concern. A voter that cannot resolve required external
// state abstains rather than failing.
type Voter interface {
	Vote(ctx context.Context, p authn.Principal, r *http.Request) Decision
}

// DecisionEngine combines the voters into one grant/deny verdict using
// affirmative-based aggregation: the first grant wins regardless of prior
// denies; if any voter denied and none granted the request is denied; if
// every voter abstained the configured allowIfAllAbstain flag decides.
type DecisionEngine struct {
	voters            []Voter
	allowIfAllAbstain bool
}

// NewDecisionEngine builds the engine with the fixed voter order
// [authenticated, workspace-admin, role]. The order is observable behavior:
// a grant short-circuits the remaining voters.
func NewDecisionEngine(metadata MetadataSource, authorizer *WorkspaceAdminAuthorizer, allowIfAllAbstain bool) *DecisionEngine {
	return &DecisionEngine{
		voters: []Voter{
			&AuthenticatedVoter{metadata: metadata},
			&WorkspaceAdminVoter{metadata: metadata, authorizer: authorizer},
			&RoleVoter{metadata: metadata},
		},
		allowIfAllAbstain: allowIfAllAbstain,
	}
}

// newEngineWithVoters is a test seam for exercising the aggregation policy
// with arbitrary voters.
func newEngineWithVoters(voters []Voter, allowIfAllAbstain bool) *DecisionEngine {
	return &DecisionEngine{voters: voters, allowIfAllAbstain: allowIfAllAbstain}
}

// Check runs the voters in order and returns the aggregate verdict.
func (e *DecisionEngine) Check(ctx context.Context, p authn.Principal, r *http.Request) bool {
	deny := 0
	for _, voter := range e.voters {
		switch voter.Vote(ctx, p, r) {
		case Granted:
			return true
		case Denied:
			deny++
		}
	}
	if deny > 0 {
		return false
	}
	// every voter abstained
	return e.allowIfAllAbstain
}
