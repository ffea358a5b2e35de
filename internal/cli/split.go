package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/hupe1980/kubesplit/internal/config"
	"github.com/hupe1980/kubesplit/internal/kubeconfig"
	"github.com/hupe1980/kubesplit/internal/output"
)

type splitOptions struct {
	outputDir string
	format    string
}

func newSplitCommand() *cobra.Command {
	opts := &splitOptions{}

	cmd := &cobra.Command{
		Use:   "split [kubeconfig]",
		Short: "Split a kubeconfig into one kubeconfig per context",
		Long: `Split a kubeconfig into one self-contained kubeconfig per context.

Each result holds the context, the cluster and user it references, and sets
the context as current-context. Every result is validated; failures are
reported in the status table but the result is still written.

Without --output-dir the results are printed as one multi-document stream.
With --output-dir each result is written to <dir>/<context>.<ext> with mode
0600. Returns exit code 4 if any context failed validation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "write one file per context into this directory")
	registerFormatFlag(cmd, &opts.format)

	return cmd
}

func runSplit(cmd *cobra.Command, args []string, opts *splitOptions) error {
	format, err := formatFor(cmd, opts.format)
	if err != nil {
		return err
	}

	f, err := loadKubeconfigFile(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	entries, err := kubeconfig.SplitContext(ctx, f.config,
		kubeconfig.WithValidator(newValidator(cmd)),
		kubeconfig.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return &ExitError{Code: exitFailure, Err: fmt.Errorf("splitting kubeconfig: %w", err)}
	}

	var written []output.WrittenFile

	if opts.outputDir != "" {
		written, err = output.WriteSplitDir(entries, opts.outputDir, format, output.WithLogger(f.logger))
		if err != nil {
			return &ExitError{Code: exitFailure, Err: err}
		}
	} else if err := output.WriteSplitStream(entries, cmd.OutOrStdout(), format); err != nil {
		return &ExitError{Code: exitFailure, Err: err}
	}

	if !cfg.Quiet {
		printSplitStatus(cmd.ErrOrStderr(), entries, written)
	}

	failed := lo.CountBy(entries, func(e kubeconfig.SplitEntry) bool { return e.Err != nil })

	f.logger.Info("kubeconfig split",
		slog.Int("contexts", len(entries)),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		return &ExitError{
			Code: exitValidation,
			Err:  fmt.Errorf("%d of %d context(s) failed validation", failed, len(entries)),
		}
	}

	return nil
}

// printSplitStatus writes one row per entry. The FILE column is present only
// when entries were written to a directory.
func printSplitStatus(w io.Writer, entries []kubeconfig.SplitEntry, written []output.WrittenFile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if written != nil {
		_, _ = fmt.Fprintln(tw, "CONTEXT\tSTATUS\tFILE\tMESSAGE")
	} else {
		_, _ = fmt.Fprintln(tw, "CONTEXT\tSTATUS\tMESSAGE")
	}

	for i, e := range entries {
		status := "ok"
		if e.Err != nil {
			status = "failed"
		}

		msg := oneLine(e.Message())

		if written != nil && i < len(written) {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ContextName(), status, written[i].Path, msg)
			continue
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ContextName(), status, msg)
	}

	_ = tw.Flush()
}

// oneLine folds a joined multi-line error into a single table cell.
func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", "; ")
}
