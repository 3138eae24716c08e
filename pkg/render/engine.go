package render

import (
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Engine wraps a pongo2 template set with file and inline-source caches.
// Parsed templates are shared across renders; per-render state travels
// through the execution context, never through the templates themselves.
type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	files     map[string]*pongo2.Template
	inline    map[string]*pongo2.Template
	ext       string
	hasLoader bool
}

func newEngine(baseDir string, files fs.FS, ext string) (*Engine, error) {
	registerTags()

	var loaders []pongo2.TemplateLoader
	if baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(baseDir)
		if err != nil {
			return nil, fmt.Errorf("render: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(files))
	}

	hasLoader := len(loaders) > 0
	if !hasLoader {
		// pongo2 refuses to build a set without loaders; inline-only
		// pipelines get a placeholder one. FromFile keeps its own guard
		// so file lookups still fail with a clear message.
		loaders = append(loaders, pongo2.MustNewLocalFileSystemLoader(""))
	}

	return &Engine{
		set:       pongo2.NewSet("components", loaders...),
		files:     make(map[string]*pongo2.Template),
		inline:    make(map[string]*pongo2.Template),
		ext:       ext,
		hasLoader: hasLoader,
	}, nil
}

// FromString parses inline template source, caching by source text so a
// component's template is parsed once per process.
func (e *Engine) FromString(source string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.inline[source]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.inline[source]; ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromString(source)
	if err != nil {
		return nil, err
	}
	e.inline[source] = tmpl
	return tmpl, nil
}

// FromFile loads and caches a template by name through the configured
// loaders, appending the default extension when the name carries none.
func (e *Engine) FromFile(name string) (*pongo2.Template, error) {
	if !e.hasLoader {
		return nil, fmt.Errorf("render: template %q: no template directory or fs configured", name)
	}

	path := name
	if e.ext != "" && !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}

	e.mu.RLock()
	if tmpl, ok := e.files[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.files[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("render: load template %q: %w", path, err)
	}
	e.files[path] = tmpl
	return tmpl, nil
}

var tagsOnce sync.Once

// registerTags installs the component template tags. pongo2 tags are
// process-global, so this runs once regardless of how many pipelines are
// constructed.
func registerTags() {
	tagsOnce.Do(func() {
		_ = pongo2.RegisterTag("slot", slotTagParser)
		_ = pongo2.RegisterTag("component", componentTagParser)
		_ = pongo2.RegisterTag("fill", fillTagParser)
	})
}
