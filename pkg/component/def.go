package component

import "github.com/goliatone/go-components/pkg/assets"

// Def is a ready-made Definition for components that don't need their own
// type: a name, an inline source or a template file, an optional data
// function, optional static data merged under the data function's output,
// and optional assets.
type Def struct {
	// ComponentName is the registry name. Required.
	ComponentName string

	// ID is an optional per-instance identifier, exposed to the data
	// function as Input.ComponentID.
	ID string

	// Source is inline template source. Takes precedence over
	// TemplateFile when both are set.
	Source string

	// TemplateFile names a template to load through the pipeline's
	// template loader.
	TemplateFile string

	// DataFunc computes the component's data. When nil, StaticData alone
	// is bound.
	DataFunc func(in Input) (map[string]any, error)

	// StaticData is bound into the component context before DataFunc
	// output; DataFunc keys win on collision.
	StaticData map[string]any

	// Media lists the component's static assets.
	Media assets.Media
}

var (
	_ Definition       = (*Def)(nil)
	_ DataProvider     = (*Def)(nil)
	_ TemplateResolver = (*Def)(nil)
	_ TemplateNamer    = (*Def)(nil)
	_ AssetOwner       = (*Def)(nil)
	_ Identifier       = (*Def)(nil)
)

func (d *Def) Name() string { return d.ComponentName }

func (d *Def) ComponentID() string { return d.ID }

func (d *Def) Data(in Input) (map[string]any, error) {
	out := make(map[string]any, len(d.StaticData))
	for key, value := range d.StaticData {
		out[key] = value
	}
	if d.DataFunc == nil {
		return out, nil
	}
	computed, err := d.DataFunc(in)
	if err != nil {
		return nil, err
	}
	for key, value := range computed {
		out[key] = value
	}
	return out, nil
}

func (d *Def) ResolveTemplate(map[string]any) (string, error) {
	return d.Source, nil
}

func (d *Def) TemplateName(map[string]any) (string, error) {
	return d.TemplateFile, nil
}

func (d *Def) Assets() assets.Media { return d.Media }
