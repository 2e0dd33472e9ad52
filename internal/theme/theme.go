// Package theme loads the page templates and renders each of them inside
// the configured base layout.
package theme

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates
var embedded embed.FS

// Page template names.
const (
	DetailTemplate = "app/detail.html"
	ErrorTemplate  = "app/error.html"
)

var ErrBaseTemplateMissing = errors.New("base template not found")

type Options struct {
	// Dir overrides the embedded templates when set.
	Dir string
	// BaseTemplate is the layout every page is rendered into.
	BaseTemplate string
	Funcs        template.FuncMap
	// Reload re-reads the templates on every render.
	Reload bool
}

// Renderer implements gin's render.HTMLRender.
type Renderer struct {
	opts   Options
	source fs.FS

	mu    sync.RWMutex
	pages map[string]*template.Template
}

func New(opts Options) (*Renderer, error) {
	source, err := templateFS(opts.Dir)
	if err != nil {
		return nil, err
	}

	r := &Renderer{opts: opts, source: source}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Instance satisfies render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	if r.opts.Reload {
		if err := r.load(); err != nil {
			return errorRender{err: err}
		}
	}

	r.mu.RLock()
	tmpl, ok := r.pages[name]
	r.mu.RUnlock()
	if !ok {
		return errorRender{err: fmt.Errorf("template %q not found", name)}
	}

	return render.HTML{
		Template: tmpl,
		Name:     r.opts.BaseTemplate,
		Data:     data,
	}
}

func (r *Renderer) load() error {
	base, err := fs.ReadFile(r.source, r.opts.BaseTemplate)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBaseTemplateMissing, r.opts.BaseTemplate)
	}

	layout, err := template.New(r.opts.BaseTemplate).Funcs(r.opts.Funcs).Parse(string(base))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", r.opts.BaseTemplate, err)
	}

	pages := make(map[string]*template.Template)
	err = fs.WalkDir(r.source, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(name) != ".html" || name == r.opts.BaseTemplate {
			return nil
		}

		content, err := fs.ReadFile(r.source, name)
		if err != nil {
			return err
		}

		page, err := layout.Clone()
		if err != nil {
			return err
		}
		if _, err := page.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pages[name] = page
		return nil
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.pages = pages
	r.mu.Unlock()
	return nil
}

func templateFS(dir string) (fs.FS, error) {
	if strings.TrimSpace(dir) != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("templates directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("templates path %s is not a directory", dir)
		}
		return os.DirFS(dir), nil
	}
	return fs.Sub(embedded, "templates")
}

type errorRender struct {
	err error
}

func (e errorRender) Render(w http.ResponseWriter) error {
	return e.err
}

func (e errorRender) WriteContentType(w http.ResponseWriter) {
	render.HTML{}.WriteContentType(w)
}
