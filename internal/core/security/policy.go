// Package security holds the route access policy: an ordered list of rules
// evaluated first-match against the request path.
package security

import (
	"strings"

	"github.com/portal/user-accounts/internal/core/domain"
)

// Access is what a rule demands of the caller.
type Access int

const (
	// Public routes are reachable in any session state.
	Public Access = iota
	// Authenticated routes need a logged-in principal of any role.
	Authenticated
	// RequireRole routes need a principal holding Rule.Role.
	RequireRole
)

// Decision is the outcome of evaluating the policy for one request.
type Decision int

const (
	Permit Decision = iota
	// Challenge means the caller must log in first.
	Challenge
	// Forbid means the caller is logged in but lacks the required role.
	Forbid
)

func (d Decision) String() string {
	switch d {
	case Permit:
		return "permit"
	case Challenge:
		return "challenge"
	case Forbid:
		return "forbid"
	default:
		return "unknown"
	}
}

// Rule binds a path pattern to an access requirement. A pattern is either an
// exact path or a prefix ending in "/**", which matches the prefix itself and
// everything below it.
type Rule struct {
	Pattern string
	Access  Access
	Role    domain.Role
}

// Matches reports whether path falls under the rule's pattern.
func (r Rule) Matches(path string) bool {
	if prefix, ok := strings.CutSuffix(r.Pattern, "/**"); ok {
		if prefix == "" {
			return true
		}
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == r.Pattern
}

// Policy is an ordered rule list. Paths matching no rule require
// authentication.
type Policy struct {
	rules []Rule
}

func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultPolicy is the portal's access table.
func DefaultPolicy() *Policy {
	return NewPolicy(
		Rule{Pattern: "/", Access: Public},
		Rule{Pattern: "/register", Access: Public},
		Rule{Pattern: "/login", Access: Public},
		Rule{Pattern: "/css/**", Access: Public},
		Rule{Pattern: "/actuator/**", Access: Public},
		Rule{Pattern: "/admin/**", Access: RequireRole, Role: domain.RoleAdmin},
		Rule{Pattern: "/**", Access: Authenticated},
	)
}

// Rules returns a copy of the rule list in evaluation order.
func (p *Policy) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Decide evaluates path for principal, which is nil for anonymous callers.
func (p *Policy) Decide(path string, principal *domain.Principal) Decision {
	access, role := Authenticated, domain.Role("")
	for _, r := range p.rules {
		if r.Matches(path) {
			access, role = r.Access, r.Role
			break
		}
	}

	switch access {
	case Public:
		return Permit
	case RequireRole:
		if principal == nil {
			return Challenge
		}
		if !principal.HasRole(role) {
			return Forbid
		}
		return Permit
	default:
		if principal == nil {
			return Challenge
		}
		return Permit
	}
}
