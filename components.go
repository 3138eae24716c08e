// Package components is the top-level entry point for the component
// layer: reusable UI components defined as a template plus a data function
// plus optional static assets, composed through slot, fill, and component
// template tags with configurable context isolation.
package components

import (
	"context"

	"github.com/goliatone/go-components/pkg/component"
	"github.com/goliatone/go-components/pkg/registry"
	"github.com/goliatone/go-components/pkg/render"
	"github.com/goliatone/go-components/pkg/scope"
)

// Request describes one component render; alias exported via the root
// package for convenience.
type Request = render.Request

// Result carries rendered markup plus collected assets.
type Result = render.Result

// Response is the default render_to_response wrapper.
type Response = render.Response

// Option configures the render pipeline.
type Option = render.Option

// Def is a ready-made component definition.
type Def = component.Def

// Input is the record handed to component data functions.
type Input = component.Input

// Context behaviors, fixed per pipeline.
const (
	BehaviorDjango   = scope.BehaviorDjango
	BehaviorIsolated = scope.BehaviorIsolated
)

// New constructs a render pipeline from the top-level module.
func New(options ...Option) (*render.Pipeline, error) {
	return render.New(options...)
}

// NewRegistry creates an empty component registry.
func NewRegistry() *registry.Registry {
	return registry.New()
}

// Render renders a single component definition with a one-shot pipeline.
// It is the simplest entry point for callers that just want markup; reuse
// a Pipeline when rendering repeatedly.
func Render(ctx context.Context, def component.Definition, req Request, options ...Option) (string, error) {
	pipeline, err := render.New(options...)
	if err != nil {
		return "", err
	}
	req.Definition = def
	return pipeline.Render(ctx, req)
}

// WithRegistry exposes render.WithRegistry at the root for quick starts.
func WithRegistry(reg *registry.Registry) Option {
	return render.WithRegistry(reg)
}

// WithContextBehavior exposes render.WithContextBehavior at the root.
func WithContextBehavior(behavior scope.Behavior) Option {
	return render.WithContextBehavior(behavior)
}
