// Package slots implements the slot and fill resolution engine: matching
// caller-supplied fills against slot declarations encountered while a
// component template renders, with required/default semantics and named
// slot data passed from declaration to fill.
package slots

import "fmt"

// Declaration describes one slot placeholder as the template layer
// encountered it. A slot name may be declared multiple times within a
// render (templates can loop); each occurrence carries its own Data,
// evaluated at the point the slot was reached.
type Declaration struct {
	// Name identifies the slot and is the key fills are matched on.
	Name string

	// Required marks the slot as needing an external fill. Rendering
	// fails with a ResolutionError when no fill is supplied.
	Required bool

	// Default marks the slot's inline body as usable fallback content
	// when no fill is supplied.
	Default bool

	// Data holds the named key/value pairs emitted by the declaration,
	// already evaluated against the component's resolved context.
	Data map[string]any
}

// FillFunc is a computed fill. It receives the context visible at the slot
// site, the slot's emitted data, and a lazy reference to the slot's inline
// default content. The returned value is rendered in place of the slot:
// strings verbatim, a *SlotRef as the rendered default body, anything else
// through fmt.
type FillFunc func(visible map[string]any, data map[string]any, ref *SlotRef) (any, error)

// BodyFunc renders template-backed fill content, such as the body of a
// fill tag, against the context visible at the slot site.
type BodyFunc func(visible map[string]any, data map[string]any) (string, error)

type fillKind int

const (
	fillNone fillKind = iota
	fillContent
	fillFunc
	fillBody
)

// Fill is caller-supplied content for a named slot: either static content,
// a computed FillFunc, or a template-backed body. The zero value means "no
// fill".
type Fill struct {
	kind    fillKind
	content string
	fn      FillFunc
	body    BodyFunc
}

// Content builds a static fill. The content is rendered in place of the
// slot under the slot-visible context, so it may itself contain template
// expressions.
func Content(content string) Fill {
	return Fill{kind: fillContent, content: content}
}

// Func builds a computed fill.
func Func(fn FillFunc) Fill {
	return Fill{kind: fillFunc, fn: fn}
}

// Body builds a template-backed fill.
func Body(render BodyFunc) Fill {
	return Fill{kind: fillBody, body: render}
}

// IsZero reports whether the fill carries no content.
func (f Fill) IsZero() bool {
	return f.kind == fillNone
}

// Normalize coerces a loosely-typed fill mapping, as accepted by the
// public render surface, into Fill values. Strings become static content;
// functions with the FillFunc shape become computed fills.
func Normalize(fills map[string]any) (map[string]Fill, error) {
	if len(fills) == 0 {
		return map[string]Fill{}, nil
	}
	out := make(map[string]Fill, len(fills))
	for name, raw := range fills {
		switch v := raw.(type) {
		case Fill:
			out[name] = v
		case string:
			out[name] = Content(v)
		case FillFunc:
			out[name] = Func(v)
		case func(map[string]any, map[string]any, *SlotRef) (any, error):
			out[name] = Func(v)
		case BodyFunc:
			out[name] = Body(v)
		case fmt.Stringer:
			out[name] = Content(v.String())
		default:
			return nil, fmt.Errorf("slots: unsupported fill type %T for slot %q", raw, name)
		}
	}
	return out, nil
}
