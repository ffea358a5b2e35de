// Package kubesplit provides a public Go API for splitting, validating and
// normalizing kubeconfig files.
//
// Basic usage:
//
//	entries, err := kubesplit.SplitFile(ctx, "~/.kube/config")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range entries {
//	    fmt.Println(e.Context, e.Err)
//	}
//
// With options:
//
//	entries, err := kubesplit.SplitFile(ctx, path,
//	    kubesplit.WithWorkers(4),
//	    kubesplit.WithFormat("json"),
//	)
package kubesplit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hupe1980/kubesplit/internal/kubeconfig"
	"github.com/hupe1980/kubesplit/internal/logging"
	"github.com/hupe1980/kubesplit/internal/output"
)

// Aliases for the types callers inspect with errors.As or implement.
type (
	Config                  = kubeconfig.Config
	SchemaError             = kubeconfig.SchemaError
	ReferenceError          = kubeconfig.ReferenceError
	ExecPluginNotFoundError = kubeconfig.ExecPluginNotFoundError
	CommandResolver         = kubeconfig.CommandResolver
	CommandResolverFunc     = kubeconfig.CommandResolverFunc
)

// Option configures SplitFile, Split, ValidateFile and Normalize.
type Option func(*options)

type options struct {
	workers  int
	resolver CommandResolver
	logger   *slog.Logger
	strict   bool
	format   string
}

// WithWorkers bounds concurrent per-context validation. Zero or less means
// GOMAXPROCS.
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

// WithResolver replaces the host PATH lookup used to find exec plugins.
func WithResolver(r CommandResolver) Option { return func(o *options) { o.resolver = r } }

// WithLogger sets the logger. Defaults to discarding all output.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithStrict rejects malformed context entries instead of dropping them.
func WithStrict() Option { return func(o *options) { o.strict = true } }

// WithFormat selects the serialization format: "yaml" (default) or "json".
func WithFormat(name string) Option { return func(o *options) { o.format = name } }

func newOptions(opts []Option) *options {
	o := &options{format: "yaml"}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = logging.Discard()
	}

	return o
}

func (o *options) parseOptions() []kubeconfig.ParseOption {
	po := []kubeconfig.ParseOption{kubeconfig.WithLogger(o.logger)}
	if o.strict {
		po = append(po, kubeconfig.WithStrict())
	}

	return po
}

func (o *options) validator() *kubeconfig.Validator {
	vo := []kubeconfig.ValidatorOption{kubeconfig.WithValidatorLogger(o.logger)}
	if o.resolver != nil {
		vo = append(vo, kubeconfig.WithResolver(o.resolver))
	}

	return kubeconfig.NewValidator(vo...)
}

// Entry is one single-context kubeconfig produced by a split.
type Entry struct {
	// Context is the name of the context the document was built for.
	Context string

	// Document is the serialized kubeconfig.
	Document []byte

	// Config is the structured kubeconfig.
	Config *Config

	// Err is the validation failure for this context, or nil.
	Err error
}

// SplitFile loads the kubeconfig at path and splits it into one document per
// context. An empty path means ~/.kube/config. Validation failures are
// reported per Entry and do not make SplitFile fail.
func SplitFile(ctx context.Context, path string, opts ...Option) ([]Entry, error) {
	o := newOptions(opts)

	resolved, err := kubeconfig.ResolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolving kubeconfig path: %w", err)
	}

	cfg, err := kubeconfig.LoadFileContext(ctx, resolved, o.parseOptions()...)
	if err != nil {
		return nil, err
	}

	return split(ctx, cfg, o)
}

// Split parses data and splits it into one document per context.
func Split(ctx context.Context, data []byte, opts ...Option) ([]Entry, error) {
	o := newOptions(opts)

	cfg, err := kubeconfig.Parse(data, o.parseOptions()...)
	if err != nil {
		return nil, err
	}

	return split(ctx, cfg, o)
}

func split(ctx context.Context, cfg *Config, o *options) ([]Entry, error) {
	format, err := output.DefaultRegistry(kubeconfig.WithDumpLogger(o.logger)).Format(o.format)
	if err != nil {
		return nil, err
	}

	splits, err := kubeconfig.SplitContext(ctx, cfg,
		kubeconfig.WithValidator(o.validator()),
		kubeconfig.WithWorkers(o.workers),
	)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(splits))

	for _, s := range splits {
		doc, err := format.Encode(s.Config)
		if err != nil {
			return nil, fmt.Errorf("encoding context %q: %w", s.ContextName(), err)
		}

		entries = append(entries, Entry{
			Context:  s.ContextName(),
			Document: doc,
			Config:   s.Config,
			Err:      s.Err,
		})
	}

	return entries, nil
}

// ValidateFile loads the kubeconfig at path and validates contextName, or the
// current context when contextName is empty.
func ValidateFile(ctx context.Context, path, contextName string, opts ...Option) error {
	o := newOptions(opts)

	resolved, err := kubeconfig.ResolvePath(path)
	if err != nil {
		return fmt.Errorf("resolving kubeconfig path: %w", err)
	}

	cfg, err := kubeconfig.LoadFileContext(ctx, resolved, o.parseOptions()...)
	if err != nil {
		return err
	}

	if contextName == "" {
		contextName = cfg.CurrentContext
	}

	if contextName == "" {
		return errors.New("no context given and kubeconfig has no current-context")
	}

	return o.validator().Validate(cfg, contextName, kubeconfig.DefaultValidationOptions())
}

// Normalize parses data and re-serializes it in canonical form. Each
// document of a multi-document YAML stream is normalized on its own.
func Normalize(data []byte, opts ...Option) ([]byte, error) {
	o := newOptions(opts)

	format, err := output.DefaultRegistry(kubeconfig.WithDumpLogger(o.logger)).Format(o.format)
	if err != nil {
		return nil, err
	}

	configs, err := kubeconfig.ParseDocuments(data, o.parseOptions()...)
	if err != nil {
		return nil, err
	}

	docs := make([][]byte, 0, len(configs))

	for _, cfg := range configs {
		doc, err := format.Encode(cfg)
		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
	}

	return output.JoinEncoded(docs, format), nil
}
