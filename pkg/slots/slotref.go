package slots

import "sync"

// SlotRef is a lazy handle to a slot's inline default content. It is
// handed to computed fills so they can embed the default body in their own
// output, or ignore it entirely. The body renders at most once per slot
// occurrence, on first access, and the result is cached along with any
// render error. A fill that never touches the reference never triggers the
// render.
type SlotRef struct {
	mu      sync.Mutex
	render  func() (string, error)
	done    bool
	content string
	err     error
}

// NewSlotRef wraps a render thunk for a slot's inline body. A nil thunk
// yields an empty reference.
func NewSlotRef(render func() (string, error)) *SlotRef {
	return &SlotRef{render: render}
}

// Content renders the inline body if it hasn't been rendered yet and
// returns the cached result.
func (r *SlotRef) Content() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.done {
		r.done = true
		if r.render != nil {
			r.content, r.err = r.render()
		}
	}
	return r.content, r.err
}

// String implements fmt.Stringer so fills can interpolate the reference
// directly. Render errors are surfaced through Err rather than the
// returned string.
func (r *SlotRef) String() string {
	content, _ := r.Content()
	return content
}

// Err reports the error from rendering the inline body. It never triggers
// the render itself: it returns nil when the body has not been accessed.
func (r *SlotRef) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
