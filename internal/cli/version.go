package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/kubesplit/internal/version"
)

// noConfig skips config loading for commands that never read a kubeconfig.
func noConfig(*cobra.Command, []string) error { return nil }

func newVersionCommand() *cobra.Command {
	var (
		jsonOutput bool
		short      bool
	)

	cmd := &cobra.Command{
		Use:               "version",
		Short:             "Print version information",
		Long:              "Display the version, git commit, build date, Go version, platform and kubeconfig schema version.",
		Args:              cobra.NoArgs,
		PersistentPreRunE: noConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()
			w := cmd.OutOrStdout()

			switch {
			case jsonOutput:
				j, err := info.JSON()
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(w, j)

				return err
			case short:
				_, err := fmt.Fprintln(w, info.Version)
				return err
			default:
				_, err := fmt.Fprintln(w, info.String())
				return err
			}
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output version info as JSON")
	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	cmd.MarkFlagsMutuallyExclusive("json", "short")

	return cmd
}
