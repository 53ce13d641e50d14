package view

import (
	"bytes"
	"io/fs"
	"strings"
	"testing"

	"github.com/portal/user-accounts/internal/core/domain"
)

type registerForm struct {
	Username, Email, FullName string
}

func TestRenderer_RendersEveryPage(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	for _, name := range pages {
		var buf bytes.Buffer
		if err := r.Render(&buf, name, Page{Title: "T", Form: registerForm{}}, nil); err != nil {
			t.Errorf("render %s: %v", name, err)
		}
	}
}

func TestRenderer_EscapesAndShowsFieldErrors(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	var buf bytes.Buffer
	page := Page{
		Title:       "Register",
		CSRF:        "tok123",
		Form:        registerForm{Username: "<script>", Email: "a@example.com"},
		FieldErrors: map[string]string{"username": "Username must be alphanumeric"},
	}
	if err := r.Render(&buf, PageRegister, page, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{`value="tok123"`, "Username must be alphanumeric", `value="a@example.com"`, "&lt;script&gt;"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Error("form value was not escaped")
	}
}

func TestRenderer_AdminLinkOnlyForAdmins(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	render := func(role domain.Role) string {
		var buf bytes.Buffer
		page := Page{Title: "Home", Principal: &domain.Principal{Username: "u", Role: role}}
		if err := r.Render(&buf, PageHome, page, nil); err != nil {
			t.Fatalf("render: %v", err)
		}
		return buf.String()
	}

	if !strings.Contains(render(domain.RoleAdmin), `href="/admin/users"`) {
		t.Error("admin should see the users link")
	}
	if strings.Contains(render(domain.RoleUser), `href="/admin/users"`) {
		t.Error("user must not see the users link")
	}
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if err := r.Render(&bytes.Buffer{}, "missing", Page{}, nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestStatic_ServesStylesheet(t *testing.T) {
	if _, err := fs.Stat(Static(), "site.css"); err != nil {
		t.Fatalf("site.css not embedded: %v", err)
	}
}
