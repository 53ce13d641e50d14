// Package view renders the portal's HTML pages from embedded templates.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/labstack/echo/v4"

	"github.com/portal/user-accounts/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names understood by Renderer.
const (
	PageHome       = "index"
	PageLogin      = "login"
	PageRegister   = "register"
	PageProfile    = "profile"
	PageAdminUsers = "admin_users"
	PageError      = "error"
)

var pages = []string{PageHome, PageLogin, PageRegister, PageProfile, PageAdminUsers, PageError}

// Page is the data every template receives.
type Page struct {
	Title     string
	CSRF      string
	Principal *domain.Principal

	// Notice is an informational banner, Error a form-level failure.
	Notice string
	Error  string

	Form        any
	FieldErrors map[string]string
	Data        any
}

// Renderer implements echo.Renderer. Each page is parsed together with the
// shared layout once at construction.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Static returns the stylesheet tree served under /css.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, path.Join("static", "css"))
	if err != nil {
		panic(err)
	}
	return sub
}
