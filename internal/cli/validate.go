package cli

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/hupe1980/kubesplit/internal/config"
	"github.com/hupe1980/kubesplit/internal/kubeconfig"
)

type validateOptions struct {
	validationFlags

	context string
	strict  bool
}

func newValidateCommand() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate [kubeconfig]",
		Short: "Validate the contexts of a kubeconfig",
		Long: `Validate that contexts reference an existing cluster and user, and that
exec credential plugins can be found on this machine.

All contexts are validated unless --context names one. Names shared by
several clusters, users or contexts are reported as warnings; with --strict
they fail validation and malformed context entries are rejected instead of
skipped.

Returns exit code 3 if the file does not match the kubeconfig schema and
exit code 4 on validation failure.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.context, "context", "", "validate only this context")
	f.BoolVar(&opts.strict, "strict", false, "reject malformed contexts and fail on duplicate names")
	registerValidationFlags(cmd, &opts.validationFlags)

	return cmd
}

type contextResult struct {
	name string
	err  error
}

func runValidate(cmd *cobra.Command, args []string, opts *validateOptions) error {
	var parseOpts []kubeconfig.ParseOption
	if opts.strict {
		parseOpts = append(parseOpts, kubeconfig.WithStrict())
	}

	f, err := loadKubeconfigFile(cmd, args, parseOpts...)
	if err != nil {
		return err
	}

	names := f.config.ContextNames()
	if opts.context != "" {
		names = []string{opts.context}
	}

	if len(names) == 0 {
		f.logger.Warn("kubeconfig has no contexts")
	}

	v := newValidator(cmd)
	validation := opts.options()

	results := lo.Map(names, func(name string, _ int) contextResult {
		return contextResult{name: name, err: v.Validate(f.config, name, validation)}
	})

	stderr := cmd.ErrOrStderr()

	dups := kubeconfig.Duplicates(f.config)
	for _, d := range dups {
		_, _ = fmt.Fprintf(stderr, "warning: %s name %q is used by %d entries; only the first is used\n", d.Kind, d.Name, d.Count)
	}

	if !config.FromContext(cmd.Context()).Quiet {
		printContextResults(stderr, results)
	}

	failed := lo.CountBy(results, func(r contextResult) bool { return r.err != nil })

	f.logger.Debug("validation finished",
		slog.Int("contexts", len(results)),
		slog.Int("failed", failed),
		slog.Int("duplicates", len(dups)),
	)

	if failed > 0 {
		return &ExitError{Code: exitValidation, Err: fmt.Errorf("validation failed for %d of %d context(s)", failed, len(results))}
	}

	if opts.strict && len(dups) > 0 {
		return &ExitError{Code: exitValidation, Err: fmt.Errorf("validation failed with %d duplicate name(s) (strict mode)", len(dups))}
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Validation passed.")

	return nil
}

func printContextResults(w io.Writer, results []contextResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CONTEXT\tSTATUS\tMESSAGE")

	for _, r := range results {
		if r.err != nil {
			_, _ = fmt.Fprintf(tw, "%s\tfailed\t%s\n", r.name, oneLine(r.err.Error()))
			continue
		}

		_, _ = fmt.Fprintf(tw, "%s\tok\t\n", r.name)
	}

	_ = tw.Flush()
}
