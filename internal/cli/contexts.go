package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/kubesplit/internal/kubeconfig"
)

type contextsOptions struct {
	namesOnly bool
}

func newContextsCommand() *cobra.Command {
	opts := &contextsOptions{}

	cmd := &cobra.Command{
		Use:     "contexts [kubeconfig]",
		Aliases: []string{"ctx"},
		Short:   "List the contexts of a kubeconfig",
		Long: `List every context with its cluster, user and namespace, and whether
it passes validation. The current context is marked with '*'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContexts(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.namesOnly, "names", false, "print only context names, one per line")

	return cmd
}

func runContexts(cmd *cobra.Command, args []string, opts *contextsOptions) error {
	f, err := loadKubeconfigFile(cmd, args)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	if opts.namesOnly {
		for _, name := range f.config.ContextNames() {
			_, _ = fmt.Fprintln(w, name)
		}

		return nil
	}

	printContexts(w, f.config, newValidator(cmd))

	return nil
}

func printContexts(w io.Writer, cfg *kubeconfig.Config, v *kubeconfig.Validator) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CURRENT\tNAME\tCLUSTER\tUSER\tNAMESPACE\tSTATUS")

	for _, c := range cfg.Contexts {
		current := ""
		if c.Name == cfg.CurrentContext {
			current = "*"
		}

		status := "ok"
		if err := v.Validate(cfg, c.Name, kubeconfig.DefaultValidationOptions()); err != nil {
			status = oneLine(err.Error())
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", current, c.Name, c.Cluster, c.User, c.Namespace, status)
	}

	_ = tw.Flush()
}
