// Package scope implements the layered render context shared by components
// and slot fills. A Chain is an immutable stack of bindings: extending a
// chain never mutates the layers it was built from, so concurrent renders
// can branch from a common root without copying it defensively.
package scope

import (
	"fmt"
	"strings"
)

// Behavior controls how nested component scopes inherit ambient data.
type Behavior string

const (
	// BehaviorDjango lets components and slot fills see the full ambient
	// chain, including data bound by enclosing components.
	BehaviorDjango Behavior = "django"

	// BehaviorIsolated restricts components and slot fills to the root
	// bindings supplied at the outermost render call.
	BehaviorIsolated Behavior = "isolated"
)

// ParseBehavior converts a textual behavior into a Behavior value.
func ParseBehavior(value string) (Behavior, error) {
	switch Behavior(strings.ToLower(strings.TrimSpace(value))) {
	case BehaviorDjango, "":
		return BehaviorDjango, nil
	case BehaviorIsolated:
		return BehaviorIsolated, nil
	}
	return "", fmt.Errorf("scope: unknown context behavior %q", value)
}

// Chain is an ordered stack of binding layers. Later layers shadow earlier
// ones on lookup; the outermost layer is the render root. The zero value is
// an empty, usable chain.
type Chain struct {
	layers []map[string]any
}

// NewChain builds a chain whose root layer holds a copy of the provided
// bindings. A nil map yields an empty root.
func NewChain(root map[string]any) Chain {
	return Chain{}.Extend(root)
}

// Extend returns a new chain with bindings pushed as the innermost layer.
// The receiver is left untouched. Nil or empty bindings still produce a
// distinct chain value so callers can rely on value semantics.
func (c Chain) Extend(bindings map[string]any) Chain {
	layer := make(map[string]any, len(bindings))
	for key, value := range bindings {
		layer[key] = value
	}
	layers := make([]map[string]any, 0, len(c.layers)+1)
	layers = append(layers, c.layers...)
	layers = append(layers, layer)
	return Chain{layers: layers}
}

// Root returns a copy of the outermost layer.
func (c Chain) Root() map[string]any {
	if len(c.layers) == 0 {
		return map[string]any{}
	}
	root := c.layers[0]
	out := make(map[string]any, len(root))
	for key, value := range root {
		out[key] = value
	}
	return out
}

// Flatten collapses the chain into a single map, with inner layers
// shadowing outer ones.
func (c Chain) Flatten() map[string]any {
	out := map[string]any{}
	for _, layer := range c.layers {
		for key, value := range layer {
			out[key] = value
		}
	}
	return out
}

// Get looks a key up, innermost layer first.
func (c Chain) Get(key string) (any, bool) {
	for i := len(c.layers) - 1; i >= 0; i-- {
		if value, ok := c.layers[i][key]; ok {
			return value, true
		}
	}
	return nil, false
}

// Depth reports the number of layers in the chain.
func (c Chain) Depth() int {
	return len(c.layers)
}

// Resolve produces the context visible to a component given the ambient
// chain it was invoked from and the bindings produced by its own data
// function. Under BehaviorDjango the ambient chain is extended in place;
// under BehaviorIsolated every intermediate layer is discarded and only the
// root bindings survive. Resolve is pure: neither input is modified.
func Resolve(ambient Chain, own map[string]any, mode Behavior) Chain {
	if mode == BehaviorIsolated {
		return NewChain(ambient.Root()).Extend(own)
	}
	return ambient.Extend(own)
}
