package kubeconfig

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SplitEntry is one single-context Config produced by Split. Err holds the
// validation failure for that context, if any; the Config is returned either
// way.
type SplitEntry struct {
	Config *Config
	Err    error
}

// ContextName returns the name of the context the entry was built for.
func (e SplitEntry) ContextName() string {
	if e.Config == nil {
		return ""
	}

	return e.Config.CurrentContext
}

// Message returns the validation error text, or "" for a valid entry.
func (e SplitEntry) Message() string {
	if e.Err == nil {
		return ""
	}

	return e.Err.Error()
}

// SplitOption configures Split and SplitContext.
type SplitOption func(*splitOptions)

type splitOptions struct {
	validator *Validator
	workers   int
}

// WithValidator sets the Validator run against every child config.
func WithValidator(v *Validator) SplitOption {
	return func(o *splitOptions) {
		o.validator = v
	}
}

// WithWorkers bounds the number of goroutines used by SplitContext.
// Defaults to GOMAXPROCS.
func WithWorkers(n int) SplitOption {
	return func(o *splitOptions) {
		o.workers = n
	}
}

func newSplitOptions(opts []SplitOption) *splitOptions {
	o := &splitOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if o.validator == nil {
		o.validator = NewValidator()
	}

	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	return o
}

// Split breaks cfg into one Config per context, in context order. Each child
// holds deep copies of at most one cluster, at most one user and exactly one
// context, with that context current. A failing context never aborts the
// batch.
func Split(cfg *Config, opts ...SplitOption) []SplitEntry {
	o := newSplitOptions(opts)

	entries := make([]SplitEntry, len(cfg.Contexts))
	for i, ctx := range cfg.Contexts {
		entries[i] = splitOne(cfg, ctx, o.validator)
	}

	return entries
}

// SplitContext is Split with the per-context work spread over a bounded
// worker pool. Entries keep context order. It fails only when ctx is
// cancelled.
func SplitContext(ctx context.Context, cfg *Config, opts ...SplitOption) ([]SplitEntry, error) {
	o := newSplitOptions(opts)

	entries := make([]SplitEntry, len(cfg.Contexts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, kctx := range cfg.Contexts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			entries[i] = splitOne(cfg, kctx, o.validator)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return entries, nil
}

func splitOne(parent *Config, ctx *Context, v *Validator) SplitEntry {
	child := &Config{}

	if cl, ok := parent.Cluster(ctx.Cluster); ok {
		child.Clusters = []*Cluster{cl.DeepCopy()}
	}

	if u, ok := parent.User(ctx.User); ok {
		child.Users = []*User{u.DeepCopy()}
	}

	if c, ok := parent.Context(ctx.Name); ok {
		child.Contexts = []*Context{c.DeepCopy()}
	}

	child.CurrentContext = ctx.Name

	var errs []error
	if err := v.Validate(child, ctx.Name, DefaultValidationOptions()); err != nil {
		errs = append(errs, err)
	}

	return SplitEntry{Config: child, Err: errors.Join(errs...)}
}
