// Package manifest loads YAML component manifests: declarative component
// definitions naming a template, static assets, and static data, for
// setups that wire components from configuration rather than code.
package manifest

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-components/pkg/assets"
	"github.com/goliatone/go-components/pkg/component"
	"github.com/goliatone/go-components/pkg/registry"
)

// File is the top-level manifest document.
type File struct {
	Components []Entry `yaml:"components"`
}

// Entry declares one component.
type Entry struct {
	// Name is the registry name. Required.
	Name string `yaml:"name"`

	// Template names a template file resolved through the pipeline's
	// template loader.
	Template string `yaml:"template"`

	// Source is inline template source, an alternative to Template.
	Source string `yaml:"source"`

	// CSS and JS list the component's static assets.
	CSS []string `yaml:"css"`
	JS  []string `yaml:"js"`

	// Data is bound into the component context; invocation kwargs win on
	// collision.
	Data map[string]any `yaml:"data"`
}

// Load parses a manifest document from a reader.
func Load(r io.Reader) (File, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return File{}, fmt.Errorf("manifest: read: %w", err)
	}
	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return File{}, fmt.Errorf("manifest: parse: %w", err)
	}
	if err := file.validate(); err != nil {
		return File{}, err
	}
	return file, nil
}

// LoadFile parses a manifest from a path on disk.
func LoadFile(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("manifest: open %q: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// LoadFS parses a manifest from a path inside an fs.FS.
func LoadFS(fsys fs.FS, path string) (File, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("manifest: open %q: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

func (f File) validate() error {
	seen := make(map[string]struct{}, len(f.Components))
	for i, entry := range f.Components {
		if entry.Name == "" {
			return fmt.Errorf("manifest: component %d is missing a name", i)
		}
		if _, dup := seen[entry.Name]; dup {
			return fmt.Errorf("manifest: duplicate component %q", entry.Name)
		}
		seen[entry.Name] = struct{}{}
	}
	return nil
}

// Definitions converts the manifest entries into component definitions.
// Invocation kwargs are merged over each entry's static data, so manifest
// values act as defaults.
func (f File) Definitions() []component.Definition {
	defs := make([]component.Definition, 0, len(f.Components))
	for _, entry := range f.Components {
		defs = append(defs, entry.Definition())
	}
	return defs
}

// Definition converts one entry into a component definition.
func (e Entry) Definition() component.Definition {
	return &component.Def{
		ComponentName: e.Name,
		Source:        e.Source,
		TemplateFile:  e.Template,
		StaticData:    e.Data,
		DataFunc: func(in component.Input) (map[string]any, error) {
			out := make(map[string]any, len(in.Kwargs))
			for key, value := range in.Kwargs {
				out[key] = value
			}
			return out, nil
		},
		Media: assets.Media{CSS: e.CSS, JS: e.JS},
	}
}

// Register adds every manifest component to the registry.
func Register(reg *registry.Registry, f File) error {
	for _, def := range f.Definitions() {
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}
