package render

import (
	"io/fs"
	"log/slog"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-components/pkg/registry"
	"github.com/goliatone/go-components/pkg/scope"
)

// Option configures the pipeline before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	ext       string
	registry  *registry.Registry
	behavior  scope.Behavior
	globals   map[string]any
	theme     *theme.RendererConfig
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
	maxDepth  int
}

// WithTemplatesDir loads component template files from a directory on
// disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(path)
	}
}

// WithTemplatesFS loads component template files from an fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension sets a default extension appended to template names that
// carry none.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.ext = trimmed
	}
}

// WithRegistry injects the component registry consulted by Render requests
// and by the component template tag.
func WithRegistry(reg *registry.Registry) Option {
	return func(cfg *config) {
		cfg.registry = reg
	}
}

// WithContextBehavior fixes the context-isolation mode for every render
// this pipeline performs. The default is scope.BehaviorDjango.
func WithContextBehavior(behavior scope.Behavior) Option {
	return func(cfg *config) {
		if behavior != "" {
			cfg.behavior = behavior
		}
	}
}

// WithGlobalData seeds bindings into the root layer of every render.
// Request context entries win on collision.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[key] = value
		}
	}
}

// WithTheme exposes a resolved go-theme renderer config to every render
// under the "theme" root binding: name, variant, tokens, CSS vars, and
// partials.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithSanitizer applies a bluemonday policy to the output of computed
// fills before it is embedded, for callers that hand fill rendering to
// untrusted code.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		cfg.sanitizer = policy
	}
}

// WithLogger enables debug logging, currently for fills that match no
// slot. The pipeline is silent without it.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithMaxDepth overrides the component nesting limit that guards against
// definition cycles.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) {
		if depth > 0 {
			cfg.maxDepth = depth
		}
	}
}
