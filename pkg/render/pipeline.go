// Package render implements the component render pipeline over a pongo2
// template set: it marshals invocation arguments into the data function's
// input record, resolves the visible context under the configured
// isolation behavior, and executes the component template, resolving every
// slot, fill, and nested component tag encountered along the way.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-components/pkg/assets"
	"github.com/goliatone/go-components/pkg/component"
	"github.com/goliatone/go-components/pkg/registry"
	"github.com/goliatone/go-components/pkg/scope"
	"github.com/goliatone/go-components/pkg/slots"
)

const defaultMaxDepth = 64

// Pipeline renders components. It is immutable after construction and safe
// for concurrent use: every render builds its own context chain, slot
// resolver, and asset collector.
type Pipeline struct {
	engine    *Engine
	registry  *registry.Registry
	behavior  scope.Behavior
	globals   map[string]any
	theme     *theme.RendererConfig
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
	maxDepth  int
}

// New constructs a Pipeline applying any provided options.
func New(options ...Option) (*Pipeline, error) {
	cfg := config{
		behavior: scope.BehaviorDjango,
		maxDepth: defaultMaxDepth,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	engine, err := newEngine(cfg.baseDir, cfg.templates, cfg.ext)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		engine:    engine,
		registry:  cfg.registry,
		behavior:  cfg.behavior,
		globals:   cfg.globals,
		theme:     cfg.theme,
		sanitizer: cfg.sanitizer,
		logger:    cfg.logger,
		maxDepth:  cfg.maxDepth,
	}, nil
}

// Behavior reports the context-isolation mode the pipeline renders under.
func (p *Pipeline) Behavior() scope.Behavior {
	return p.behavior
}

// Request describes one component render.
type Request struct {
	// Component names a registered component. Ignored when Definition is
	// set.
	Component string

	// Definition renders a component directly, bypassing the registry.
	Definition component.Definition

	// Args is the ordered argument sequence handed to the data function.
	Args []any

	// Kwargs is the named argument mapping handed to the data function.
	Kwargs map[string]any

	// Context seeds the root layer of the render's context chain.
	Context map[string]any

	// Fills maps slot names to fill values: a string (static content), a
	// slots.Fill, or a function with the slots.FillFunc shape.
	Fills map[string]any
}

// Result carries the rendered markup plus the static assets declared by
// every component the render touched.
type Result struct {
	HTML   string
	Assets assets.Media
}

// Render renders the requested component to markup.
func (p *Pipeline) Render(ctx context.Context, req Request) (string, error) {
	res, err := p.RenderWithInfo(ctx, req)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

// RenderWithInfo renders the requested component and reports the collected
// assets alongside the markup. A failed render returns no partial output.
func (p *Pipeline) RenderWithInfo(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("render: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	def, err := p.resolveDefinition(req)
	if err != nil {
		return Result{}, err
	}
	fills, err := slots.Normalize(req.Fills)
	if err != nil {
		return Result{}, err
	}

	chain := scope.NewChain(p.rootContext(req.Context))
	collector := assets.NewCollector()

	var buf bytes.Buffer
	if err := p.renderComponent(&buf, def, req.Args, req.Kwargs, chain, fills, collector, 0); err != nil {
		return Result{}, err
	}
	return Result{HTML: buf.String(), Assets: collector.Media()}, nil
}

func (p *Pipeline) resolveDefinition(req Request) (component.Definition, error) {
	if req.Definition != nil {
		return req.Definition, nil
	}
	if req.Component == "" {
		return nil, errors.New("render: component name or definition is required")
	}
	if p.registry == nil {
		return nil, errors.New("render: no component registry configured")
	}
	def, err := p.registry.Get(req.Component)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return def, nil
}

// rootContext assembles the root layer: pipeline globals, then the theme
// binding, then the request context, later entries winning.
func (p *Pipeline) rootContext(override map[string]any) map[string]any {
	root := make(map[string]any, len(p.globals)+len(override)+1)
	for key, value := range p.globals {
		root[key] = value
	}
	if tc := themeContext(p.theme); tc != nil {
		root["theme"] = tc
	}
	for key, value := range override {
		root[key] = value
	}
	return root
}

func (p *Pipeline) renderComponent(w io.Writer, def component.Definition, args []any, kwargs map[string]any, ambient scope.Chain, fills map[string]slots.Fill, collector *assets.Collector, depth int) error {
	if def == nil {
		return errors.New("render: component definition is nil")
	}
	if depth > p.maxDepth {
		return fmt.Errorf("render: component %q: nesting exceeds %d levels", def.Name(), p.maxDepth)
	}

	input := component.Input{
		Args:    args,
		Kwargs:  kwargs,
		Context: ambient.Flatten(),
		Fills:   fills,
	}
	if ident, ok := def.(component.Identifier); ok {
		input.ComponentID = ident.ComponentID()
	}

	data := map[string]any{}
	if provider, ok := def.(component.DataProvider); ok {
		var err error
		data, err = provider.Data(input)
		if err != nil {
			return fmt.Errorf("render: component %q: data: %w", def.Name(), err)
		}
		if data == nil {
			data = map[string]any{}
		}
	}

	tmpl, err := p.resolveTemplate(def, data)
	if err != nil {
		return err
	}

	fr := &frame{
		pipeline:  p,
		chain:     scope.Resolve(ambient, data, p.behavior),
		resolver:  slots.NewResolver(fills),
		collector: collector,
		depth:     depth,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(fr.publicContext(), &buf); err != nil {
		return fmt.Errorf("render: component %q: %w", def.Name(), innermost(err))
	}

	if owner, ok := def.(component.AssetOwner); ok {
		collector.Add(owner.Assets())
	}
	if p.logger != nil {
		for _, name := range fr.resolver.Unmatched() {
			p.logger.Debug("fill matched no slot", "component", def.Name(), "fill", name)
		}
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// resolveTemplate probes the definition's template capabilities in order:
// static inline source, data-computed source, template name. A component
// providing none of them is misconfigured.
func (p *Pipeline) resolveTemplate(def component.Definition, data map[string]any) (*pongo2.Template, error) {
	name := def.Name()

	if src, ok := def.(component.TemplateSource); ok {
		if source := src.TemplateSource(); source != "" {
			tmpl, err := p.engine.FromString(source)
			if err != nil {
				return nil, fmt.Errorf("render: component %q: parse template: %w", name, err)
			}
			return tmpl, nil
		}
	}

	if resolver, ok := def.(component.TemplateResolver); ok {
		source, err := resolver.ResolveTemplate(data)
		if err != nil {
			return nil, fmt.Errorf("render: component %q: resolve template: %w", name, err)
		}
		if source != "" {
			tmpl, err := p.engine.FromString(source)
			if err != nil {
				return nil, fmt.Errorf("render: component %q: parse template: %w", name, err)
			}
			return tmpl, nil
		}
	}

	if namer, ok := def.(component.TemplateNamer); ok {
		file, err := namer.TemplateName(data)
		if err != nil {
			return nil, fmt.Errorf("render: component %q: template name: %w", name, err)
		}
		if file != "" {
			tmpl, err := p.engine.FromFile(file)
			if err != nil {
				return nil, fmt.Errorf("render: component %q: %w", name, err)
			}
			return tmpl, nil
		}
	}

	return nil, &component.ConfigurationError{Component: name}
}

// renderSnippet renders static fill content as template source under the
// provided visible context, keeping the frame reachable for nested tags.
func (p *Pipeline) renderSnippet(source string, visible map[string]any, fr *frame) (string, error) {
	tmpl, err := p.engine.FromString(source)
	if err != nil {
		return "", fmt.Errorf("render: parse fill content: %w", err)
	}
	pub := make(pongo2.Context, len(visible)+1)
	for key, value := range visible {
		pub[key] = value
	}
	pub[frameKey] = fr
	out, err := tmpl.Execute(pub)
	if err != nil {
		return "", innermost(err)
	}
	return out, nil
}

func (p *Pipeline) sanitizeFunc() func(string) string {
	if p.sanitizer == nil {
		return nil
	}
	return p.sanitizer.Sanitize
}

func themeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return nil
	}
	ctx := map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
	}
	if len(cfg.Tokens) > 0 {
		ctx["tokens"] = cfg.Tokens
	}
	if len(cfg.CSSVars) > 0 {
		ctx["css_vars"] = cfg.CSSVars
	}
	if len(cfg.Partials) > 0 {
		ctx["partials"] = cfg.Partials
	}
	return ctx
}

// innermost strips pongo2's error nesting so typed errors raised inside
// tags, such as a slot resolution failure, stay reachable through
// errors.As at the top-level Render call.
func innermost(err error) error {
	var perr *pongo2.Error
	if errors.As(err, &perr) && perr.OrigError != nil {
		return innermost(perr.OrigError)
	}
	return err
}
