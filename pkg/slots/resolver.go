package slots

import (
	"fmt"
	"sort"
)

// Occurrence is one encounter of a slot declaration during template
// traversal, together with the hooks the resolver needs to produce output.
// The hooks keep the resolver independent of any particular template
// engine.
type Occurrence struct {
	Declaration

	// Visible is the context a fill may observe, already resolved under
	// the render's context behavior.
	Visible map[string]any

	// RenderDefault renders the slot's inline body under the component's
	// own context. Nil means the slot has no body.
	RenderDefault func() (string, error)

	// RenderContent renders static fill content under the provided
	// context. Nil means static content is emitted verbatim.
	RenderContent func(content string, visible map[string]any) (string, error)

	// Sanitize, when set, is applied to the output of computed fills
	// before it is emitted.
	Sanitize func(string) string
}

// Resolver matches fills against slot occurrences for the duration of one
// component render. It is not safe for concurrent use; every render must
// construct its own.
type Resolver struct {
	fills   map[string]Fill
	matched map[string]bool
}

// NewResolver builds a resolver over the invocation's fill mapping.
func NewResolver(fills map[string]Fill) *Resolver {
	if fills == nil {
		fills = map[string]Fill{}
	}
	return &Resolver{
		fills:   fills,
		matched: map[string]bool{},
	}
}

// Resolve produces the content that renders in place of one slot
// occurrence: an explicit fill wins over the inline default; a default
// body renders when declared and no fill was supplied; a required slot
// with neither fails with a ResolutionError; otherwise the slot renders
// empty. Each occurrence of a repeated slot name is resolved
// independently.
func (r *Resolver) Resolve(occ Occurrence) (string, error) {
	if occ.Name == "" {
		return "", fmt.Errorf("slots: slot declaration is missing a name")
	}

	fill, ok := r.fills[occ.Name]
	if ok && !fill.IsZero() {
		r.matched[occ.Name] = true
		return r.renderFill(fill, occ)
	}

	if occ.Default {
		return r.renderDefault(occ)
	}
	if occ.Required {
		return "", &ResolutionError{Slot: occ.Name}
	}
	return "", nil
}

// Unmatched returns the sorted names of fills that never matched a slot
// occurrence. Supplying a fill for a slot that is never declared is not an
// error; callers may want to log it.
func (r *Resolver) Unmatched() []string {
	var names []string
	for name := range r.fills {
		if !r.matched[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (r *Resolver) renderFill(fill Fill, occ Occurrence) (string, error) {
	switch fill.kind {
	case fillContent:
		if occ.RenderContent == nil {
			return fill.content, nil
		}
		return occ.RenderContent(fill.content, occ.Visible)

	case fillBody:
		return fill.body(occ.Visible, occ.Data)

	case fillFunc:
		ref := NewSlotRef(occ.RenderDefault)
		result, err := fill.fn(occ.Visible, occ.Data, ref)
		if err != nil {
			return "", fmt.Errorf("slots: fill %q: %w", occ.Name, err)
		}
		out, err := coerce(result)
		if err != nil {
			return "", fmt.Errorf("slots: fill %q: %w", occ.Name, err)
		}
		// A fill embedding the reference can hide a failed default
		// render inside String(); surface it here.
		if err := ref.Err(); err != nil {
			return "", fmt.Errorf("slots: fill %q: default content: %w", occ.Name, err)
		}
		if occ.Sanitize != nil {
			out = occ.Sanitize(out)
		}
		return out, nil
	}
	return "", nil
}

func (r *Resolver) renderDefault(occ Occurrence) (string, error) {
	if occ.RenderDefault == nil {
		return "", nil
	}
	out, err := occ.RenderDefault()
	if err != nil {
		return "", fmt.Errorf("slots: slot %q: default content: %w", occ.Name, err)
	}
	return out, nil
}

func coerce(result any) (string, error) {
	switch v := result.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case *SlotRef:
		return v.Content()
	case fmt.Stringer:
		return v.String(), nil
	case error:
		return "", fmt.Errorf("fill returned an error value: %w", v)
	default:
		return fmt.Sprint(v), nil
	}
}
