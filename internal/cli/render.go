package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-components/pkg/manifest"
	"github.com/goliatone/go-components/pkg/registry"
	"github.com/goliatone/go-components/pkg/render"
	"github.com/goliatone/go-components/pkg/scope"
)

func newRenderCommand(opts *Options) *cobra.Command {
	var (
		contextPairs []string
		fillPairs    []string
		kwargPairs   []string
		output       string
		withAssets   bool
	)

	cmd := &cobra.Command{
		Use:   "render NAME",
		Short: "Render a component from the manifest to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			pipeline, reg, err := buildPipeline(opts)
			if err != nil {
				return err
			}
			if !reg.Has(name) {
				return fmt.Errorf("cli: component %q not in manifest (have: %s)", name, strings.Join(reg.List(), ", "))
			}

			req := render.Request{
				Component: name,
				Kwargs:    toAnyMap(parsePairs(kwargPairs)),
				Context:   toAnyMap(parsePairs(contextPairs)),
				Fills:     toAnyMap(parsePairs(fillPairs)),
			}

			result, err := pipeline.RenderWithInfo(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := result.HTML
			if withAssets {
				out = result.Assets.Tags() + out
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
					return fmt.Errorf("cli: write output: %w", err)
				}
				opts.logger.Info("component rendered", "component", name, "output", output)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&kwargPairs, "arg", nil, "Named argument as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&contextPairs, "context", nil, "Root context binding as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&fillPairs, "fill", nil, "Slot fill as name=content (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().BoolVar(&withAssets, "assets", false, "Prepend collected asset tags to the output")
	return cmd
}

func buildPipeline(opts *Options) (*render.Pipeline, *registry.Registry, error) {
	file, err := manifest.LoadFile(opts.Manifest)
	if err != nil {
		return nil, nil, err
	}

	reg := registry.New()
	if err := manifest.Register(reg, file); err != nil {
		return nil, nil, err
	}

	behavior, err := scope.ParseBehavior(opts.Behavior)
	if err != nil {
		return nil, nil, err
	}

	options := []render.Option{
		render.WithRegistry(reg),
		render.WithContextBehavior(behavior),
		render.WithLogger(opts.logger),
	}
	if opts.TemplatesDir != "" {
		options = append(options, render.WithTemplatesDir(opts.TemplatesDir))
	}

	pipeline, err := render.New(options...)
	if err != nil {
		return nil, nil, err
	}
	return pipeline, reg, nil
}

// parsePairs splits repeatable key=value flags. Values may contain '='.
func parsePairs(pairs []string) map[string]string {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			continue
		}
		out[key] = value
	}
	return out
}

func toAnyMap(in map[string]string) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
