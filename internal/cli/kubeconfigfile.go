package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/kubesplit/internal/config"
	"github.com/hupe1980/kubesplit/internal/kubeconfig"
	"github.com/hupe1980/kubesplit/internal/logging"
)

// kubeconfigFile is a loaded kubeconfig and where it came from.
type kubeconfigFile struct {
	path   string
	config *kubeconfig.Config
	logger *slog.Logger
}

// kubeconfigPath picks the file argument, then the kubeconfig setting, then
// the default location.
func kubeconfigPath(cmd *cobra.Command, args []string) (string, error) {
	p := config.FromContext(cmd.Context()).Kubeconfig
	if len(args) > 0 {
		p = args[0]
	}

	resolved, err := kubeconfig.ResolvePath(p)
	if err != nil {
		return "", &ExitError{Code: exitFailure, Err: fmt.Errorf("resolving kubeconfig path: %w", err)}
	}

	return resolved, nil
}

// loadKubeconfigFile reads and parses the kubeconfig selected by args.
// Schema errors map to exit code 3, everything else to exit code 1.
func loadKubeconfigFile(cmd *cobra.Command, args []string, opts ...kubeconfig.ParseOption) (*kubeconfigFile, error) {
	path, err := kubeconfigPath(cmd, args)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	logger := logging.ForKubeconfig(ctx, path)

	opts = append([]kubeconfig.ParseOption{kubeconfig.WithLogger(logger)}, opts...)

	cfg, err := kubeconfig.LoadFileContext(ctx, path, opts...)
	if err != nil {
		return nil, exitErrorFor(err)
	}

	logger.Debug("kubeconfig loaded",
		slog.Int("clusters", len(cfg.Clusters)),
		slog.Int("users", len(cfg.Users)),
		slog.Int("contexts", len(cfg.Contexts)),
	)

	return &kubeconfigFile{path: path, config: cfg, logger: logger}, nil
}

// kubeconfigDocuments is every document of a kubeconfig stream plus the
// raw input they were parsed from.
type kubeconfigDocuments struct {
	path    string
	raw     []byte
	configs []*kubeconfig.Config
	logger  *slog.Logger
}

// loadKubeconfigDocuments reads the file selected by args and parses each
// YAML document in it. Errors map to exit codes as in loadKubeconfigFile.
func loadKubeconfigDocuments(cmd *cobra.Command, args []string) (*kubeconfigDocuments, error) {
	path, err := kubeconfigPath(cmd, args)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	logger := logging.ForKubeconfig(ctx, path)

	raw, err := kubeconfig.ReadFileContext(ctx, path)
	if err != nil {
		return nil, exitErrorFor(err)
	}

	configs, err := kubeconfig.ParseDocuments(raw, kubeconfig.WithLogger(logger))
	if err != nil {
		return nil, exitErrorFor(err)
	}

	logger.Debug("kubeconfig loaded", slog.Int("documents", len(configs)))

	return &kubeconfigDocuments{path: path, raw: raw, configs: configs, logger: logger}, nil
}

func exitErrorFor(err error) error {
	var schemaErr *kubeconfig.SchemaError
	if errors.As(err, &schemaErr) {
		return &ExitError{Code: exitSchema, Err: fmt.Errorf("invalid kubeconfig: %w", err)}
	}

	return &ExitError{Code: exitFailure, Err: fmt.Errorf("reading kubeconfig: %w", err)}
}

// newValidator builds a validator logging through the command logger.
func newValidator(cmd *cobra.Command) *kubeconfig.Validator {
	return kubeconfig.NewValidator(kubeconfig.WithValidatorLogger(logging.FromContext(cmd.Context())))
}
