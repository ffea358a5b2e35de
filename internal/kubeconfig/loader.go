package kubeconfig

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/client-go/util/homedir"
)

// DefaultPath returns <home>/.kube/config.
func DefaultPath() string {
	return filepath.Join(homedir.HomeDir(), ".kube", "config")
}

// ResolvePath turns a user-supplied kubeconfig path into an absolute one.
// An empty path means DefaultPath. A leading "~" is the home directory,
// $VAR and ${VAR} are expanded, and relative paths are taken from the
// working directory.
func ResolvePath(p string) (string, error) {
	if p == "" {
		return DefaultPath(), nil
	}

	p = os.ExpandEnv(p)

	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		p = filepath.Join(homedir.HomeDir(), p[1:])
	}

	return filepath.Abs(p)
}

// LoadFile reads and parses the kubeconfig at p. Read errors are returned
// as-is.
func LoadFile(p string, opts ...ParseOption) (*Config, error) {
	data, err := readFile(p)
	if err != nil {
		return nil, err
	}

	return Parse(data, opts...)
}

// LoadFileContext is LoadFile with the read performed on its own goroutine.
// If ctx is done before the read completes, ctx.Err() is returned.
func LoadFileContext(ctx context.Context, p string, opts ...ParseOption) (*Config, error) {
	data, err := ReadFileContext(ctx, p)
	if err != nil {
		return nil, err
	}

	return Parse(data, opts...)
}

// ReadFileContext returns the raw bytes of the kubeconfig at p, giving up
// with ctx.Err() if ctx is done first.
func ReadFileContext(ctx context.Context, p string) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := make(chan result, 1)

	go func() {
		data, err := readFile(p)
		ch <- result{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.data, r.err
	}
}

// LoadString parses in-memory kubeconfig text.
func LoadString(raw string, opts ...ParseOption) (*Config, error) {
	return ParseString(raw, opts...)
}

func readFile(p string) ([]byte, error) {
	resolved, err := ResolvePath(p)
	if err != nil {
		return nil, err
	}

	return os.ReadFile(resolved) //nolint:gosec // user-specified kubeconfig
}
