package component

import "github.com/goliatone/go-components/pkg/slots"

// Input is the fixed-shape record handed to a component's data function:
// an ordered argument sequence, a string-keyed argument mapping, the
// ambient context visible at the invocation site, and the fills supplied
// for this render. It is constructed per render and must not be retained
// past the data call.
type Input struct {
	Args        []any
	Kwargs      map[string]any
	Context     map[string]any
	Fills       map[string]slots.Fill
	ComponentID string
}

// Arg returns the positional argument at index i, or nil when absent.
func (in Input) Arg(i int) any {
	if i < 0 || i >= len(in.Args) {
		return nil
	}
	return in.Args[i]
}

// Kwarg returns the named argument, or nil when absent.
func (in Input) Kwarg(name string) any {
	return in.Kwargs[name]
}

// HasFill reports whether a fill was supplied for the named slot.
func (in Input) HasFill(name string) bool {
	fill, ok := in.Fills[name]
	return ok && !fill.IsZero()
}
