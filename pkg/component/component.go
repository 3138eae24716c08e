// Package component defines the capability surface a UI component
// implements: a name, an optional data function, one of several template
// sources, and optional static assets. Components implement only the
// interfaces they need; the render pipeline probes for the rest.
package component

import (
	"github.com/goliatone/go-components/pkg/assets"
)

// Definition is the minimal contract every component satisfies.
type Definition interface {
	// Name identifies the component, for registry lookup and error
	// messages.
	Name() string
}

// DataProvider computes the data mapping a component binds into its
// template context. The input record carries the invocation's positional
// and named arguments, the ambient context, and the supplied fills; the
// pipeline treats the function as a black box.
type DataProvider interface {
	Data(in Input) (map[string]any, error)
}

// TemplateSource supplies a static inline template. An empty string means
// "not provided" and the pipeline falls through to the next capability.
type TemplateSource interface {
	TemplateSource() string
}

// TemplateResolver supplies inline template source computed from the
// component's data, for components whose markup varies per invocation.
type TemplateResolver interface {
	ResolveTemplate(data map[string]any) (string, error)
}

// TemplateNamer supplies the name of a template file to load, possibly
// computed from the component's data.
type TemplateNamer interface {
	TemplateName(data map[string]any) (string, error)
}

// AssetOwner declares the static CSS/JS files the component depends on.
type AssetOwner interface {
	Assets() assets.Media
}

// Identifier exposes a per-instance component ID, surfaced to the data
// function through the input record.
type Identifier interface {
	ComponentID() string
}
