package security

import (
	"testing"

	"github.com/portal/user-accounts/internal/core/domain"
)

var (
	anonymous *domain.Principal
	user      = &domain.Principal{Username: "alice", Role: domain.RoleUser}
	admin     = &domain.Principal{Username: "root", Role: domain.RoleAdmin}
)

func TestRule_Matches(t *testing.T) {
	cases := []struct {
		pattern, path string
		want          bool
	}{
		{"/login", "/login", true},
		{"/login", "/login/extra", false},
		{"/login", "/loginx", false},
		{"/css/**", "/css", true},
		{"/css/**", "/css/site.css", true},
		{"/css/**", "/css/deep/x.css", true},
		{"/css/**", "/cssx/site.css", false},
		{"/**", "/anything/at/all", true},
		{"/**", "/", true},
	}
	for _, tc := range cases {
		r := Rule{Pattern: tc.pattern}
		if got := r.Matches(tc.path); got != tc.want {
			t.Errorf("Rule(%q).Matches(%q) = %v, want %v", tc.pattern, tc.path, got, tc.want)
		}
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	cases := []struct {
		path      string
		principal *domain.Principal
		want      Decision
	}{
		{"/", anonymous, Permit},
		{"/login", anonymous, Permit},
		{"/register", anonymous, Permit},
		{"/css/site.css", anonymous, Permit},
		{"/actuator/health", anonymous, Permit},
		{"/profile", anonymous, Challenge},
		{"/profile", user, Permit},
		{"/api/v1/profile", anonymous, Challenge},
		{"/logout", user, Permit},
		{"/admin/users", anonymous, Challenge},
		{"/admin/users", user, Forbid},
		{"/admin/users", admin, Permit},
		{"/admin", user, Forbid},
		{"/administrator", user, Permit},
		{"/login", admin, Permit},
	}
	for _, tc := range cases {
		if got := p.Decide(tc.path, tc.principal); got != tc.want {
			t.Errorf("Decide(%q, %v) = %v, want %v", tc.path, tc.principal, got, tc.want)
		}
	}
}

func TestPolicy_FirstMatchWins(t *testing.T) {
	p := NewPolicy(
		Rule{Pattern: "/admin/health", Access: Public},
		Rule{Pattern: "/admin/**", Access: RequireRole, Role: domain.RoleAdmin},
	)
	if got := p.Decide("/admin/health", anonymous); got != Permit {
		t.Fatalf("earlier public rule must win, got %v", got)
	}
	if got := p.Decide("/admin/users", user); got != Forbid {
		t.Fatalf("expected forbid, got %v", got)
	}
}

func TestPolicy_NoMatchRequiresAuthentication(t *testing.T) {
	p := NewPolicy(Rule{Pattern: "/", Access: Public})
	if got := p.Decide("/elsewhere", anonymous); got != Challenge {
		t.Fatalf("unmatched path must challenge, got %v", got)
	}
}

func TestPolicy_RulesIsCopy(t *testing.T) {
	p := DefaultPolicy()
	rules := p.Rules()
	rules[0].Access = Authenticated
	if p.Decide("/", anonymous) != Permit {
		t.Fatal("mutating Rules() must not change the policy")
	}
}
