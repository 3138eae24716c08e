package render

import (
	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-components/pkg/assets"
	"github.com/goliatone/go-components/pkg/scope"
	"github.com/goliatone/go-components/pkg/slots"
)

// Reserved context keys. Template authors must not bind these names.
const (
	frameKey         = "__componentFrame"
	fillCollectorKey = "__componentFills"
)

// frame carries one component render's state through template execution:
// the resolved context chain, the slot resolver over this invocation's
// fills, and the asset collector shared by the whole render tree. A new
// frame is built per component render, so concurrent renders never share
// mutable state.
type frame struct {
	pipeline  *Pipeline
	chain     scope.Chain
	resolver  *slots.Resolver
	collector *assets.Collector
	depth     int
}

func frameFrom(ctx *pongo2.ExecutionContext) (*frame, bool) {
	f, ok := ctx.Public[frameKey].(*frame)
	return f, ok
}

// publicContext builds the pongo2 context for this component's template:
// the flattened chain plus the frame itself under a reserved key.
func (f *frame) publicContext() pongo2.Context {
	pub := pongo2.Context(f.chain.Flatten())
	pub[frameKey] = f
	return pub
}

// fillContext is the context a fill may observe: the full chain under
// "django" behavior, only the render root under "isolated".
func (f *frame) fillContext() map[string]any {
	if f.pipeline.behavior == scope.BehaviorIsolated {
		return f.chain.Root()
	}
	return f.chain.Flatten()
}

// fillCollector gathers the fill tags found in a component tag's body
// before the nested component renders.
type fillCollector struct {
	fills map[string]slots.Fill
}
