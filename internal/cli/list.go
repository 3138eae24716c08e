package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-components/pkg/manifest"
)

func newListCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the components declared in the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := manifest.LoadFile(opts.Manifest)
			if err != nil {
				return err
			}
			for _, entry := range file.Components {
				source := entry.Template
				if source == "" {
					source = "(inline)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", entry.Name, source)
			}
			return nil
		},
	}
}
