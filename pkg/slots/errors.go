package slots

import "fmt"

// ResolutionError reports a required slot that reached rendering with no
// supplied fill and no applicable default. It halts the encompassing
// render.
type ResolutionError struct {
	Slot string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("slots: slot %q is required but no fill was supplied", e.Slot)
}
