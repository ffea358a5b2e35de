package cli

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/kubesplit/internal/kubeconfig"
	"github.com/hupe1980/kubesplit/internal/logging"
	"github.com/hupe1980/kubesplit/internal/output"
)

// registerFormatFlag adds the --format flag with the registered format names.
func registerFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "format", "yaml", "output format: "+output.DefaultRegistry().AvailableFormats())

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return output.DefaultRegistry().Formats(), cobra.ShellCompDirectiveNoFileComp
	})
}

// registerValidationFlags adds the --skip-* flags that disable validation
// checks.
func registerValidationFlags(cmd *cobra.Command, opts *validationFlags) {
	f := cmd.Flags()
	f.BoolVar(&opts.skipCluster, "skip-cluster", false, "do not check that the context's cluster exists")
	f.BoolVar(&opts.skipUser, "skip-user", false, "do not check that the context's user exists")
	f.BoolVar(&opts.skipExec, "skip-exec", false, "do not check that exec credential plugins are installed")
}

type validationFlags struct {
	skipCluster bool
	skipUser    bool
	skipExec    bool
}

func (f validationFlags) options() kubeconfig.ValidationOptions {
	return kubeconfig.ValidationOptions{
		ValidateCluster: !f.skipCluster,
		ValidateUser:    !f.skipUser,
		ValidateExec:    !f.skipExec,
	}
}

// formatFor looks up a registered output format, mapping unknown names to
// a usage error. Encoders log through the command logger.
func formatFor(cmd *cobra.Command, name string) (output.Format, error) {
	logger := logging.FromContext(cmd.Context())

	f, err := output.DefaultRegistry(kubeconfig.WithDumpLogger(logger)).Format(name)
	if err != nil {
		return output.Format{}, &ExitError{Code: exitUsage, Err: err}
	}

	return f, nil
}
