package kubeconfig

import (
	"log/slog"
	"path/filepath"
)

// ValidationOptions selects which checks Validate runs. The context check
// always runs.
type ValidationOptions struct {
	ValidateCluster bool
	ValidateUser    bool
	ValidateExec    bool
}

// DefaultValidationOptions enables every check.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		ValidateCluster: true,
		ValidateUser:    true,
		ValidateExec:    true,
	}
}

// Validator checks that a context resolves within a Config.
type Validator struct {
	resolver CommandResolver
	logger   *slog.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithResolver replaces the host command resolver.
func WithResolver(r CommandResolver) ValidatorOption {
	return func(v *Validator) {
		v.resolver = r
	}
}

// WithValidatorLogger sets the logger for failed exec command lookups.
func WithValidatorLogger(logger *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		v.logger = logger
	}
}

// NewValidator creates a Validator. Without options it looks up commands on
// the real host.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		resolver: NewHostResolver(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate checks contextName against cfg with every check enabled and the
// host resolver.
func Validate(cfg *Config, contextName string) error {
	return NewValidator().Validate(cfg, contextName, DefaultValidationOptions())
}

// Validate runs, in order, the context, cluster, user and exec checks and
// returns the first failure.
func (v *Validator) Validate(cfg *Config, contextName string, opts ValidationOptions) error {
	ctx, ok := cfg.Context(contextName)
	if !ok {
		return &ReferenceError{Kind: RefContext, Context: contextName}
	}

	if opts.ValidateCluster {
		if _, ok := cfg.Cluster(ctx.Cluster); !ok {
			return &ReferenceError{Kind: RefCluster, Context: contextName}
		}
	}

	user, found := cfg.User(ctx.User)
	if opts.ValidateUser && !found {
		return &ReferenceError{Kind: RefUser, Context: contextName}
	}

	if opts.ValidateExec && found && user.Exec != nil {
		command := user.Exec.Command

		if _, err := v.resolver.LookPath(command); err != nil {
			v.logger.Debug("exec command not found",
				slog.String("command", command),
				slog.String("context", contextName),
				slog.Any("error", err),
			)

			return &ExecPluginNotFoundError{Command: command, Absolute: filepath.IsAbs(command)}
		}
	}

	return nil
}
