package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/kubesplit/internal/config"
	"github.com/hupe1980/kubesplit/internal/diff"
	"github.com/hupe1980/kubesplit/internal/output"
)

type normalizeOptions struct {
	format     string
	outputFile string
	showDiff   bool
}

func newNormalizeCommand() *cobra.Command {
	opts := &normalizeOptions{}

	cmd := &cobra.Command{
		Use:   "normalize [kubeconfig]",
		Short: "Re-serialize a kubeconfig in canonical form",
		Long: `Parse a kubeconfig and write it back in canonical form: fixed key order,
kebab-case field names, empty fields and malformed contexts dropped, and
trailing slashes removed from server URLs. A multi-document stream, such
as the output of split, is normalized document by document.

With --diff a unified diff between the input and the canonical form is
printed instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	registerFormatFlag(cmd, &opts.format)
	f.StringVarP(&opts.outputFile, "output", "o", "", "write to this file instead of stdout")
	f.BoolVar(&opts.showDiff, "diff", false, "print a unified diff against the input")

	return cmd
}

func runNormalize(cmd *cobra.Command, args []string, opts *normalizeOptions) error {
	format, err := formatFor(cmd, opts.format)
	if err != nil {
		return err
	}

	f, err := loadKubeconfigDocuments(cmd, args)
	if err != nil {
		return err
	}

	docs := make([][]byte, 0, len(f.configs))

	for i, c := range f.configs {
		data, err := format.Encode(c)
		if err != nil {
			return &ExitError{Code: exitFailure, Err: fmt.Errorf("serializing document %d: %w", i+1, err)}
		}

		docs = append(docs, data)
	}

	data := output.JoinEncoded(docs, format)

	if opts.showDiff {
		result, err := diff.Compute(string(f.raw), string(data), diff.DefaultOptions())
		if err != nil {
			return &ExitError{Code: exitFailure, Err: err}
		}

		diff.Write(cmd.OutOrStdout(), result, !config.FromContext(cmd.Context()).NoColor)

		return nil
	}

	w := output.NewWriter(opts.outputFile, cmd.OutOrStdout(), output.WithLogger(f.logger))
	if err := w.Write(data); err != nil {
		return &ExitError{Code: exitFailure, Err: err}
	}

	return nil
}
