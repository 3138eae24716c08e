package component

import "fmt"

// ConfigurationError reports a component that reached render time without
// any usable template source: no inline source, no template resolver
// output, and no template name.
type ConfigurationError struct {
	Component string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("component: %q declares no template source, template resolver, or template name", e.Component)
}
