package kubeconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	utilexec "k8s.io/utils/exec"
)

// CommandResolver reports whether an exec plugin command can be run on this
// host. LookPath returns the resolved path or an error.
type CommandResolver interface {
	LookPath(command string) (string, error)
}

// CommandResolverFunc adapts a function to CommandResolver.
type CommandResolverFunc func(command string) (string, error)

// LookPath calls f(command).
func (f CommandResolverFunc) LookPath(command string) (string, error) {
	return f(command)
}

// compile-time interface conformance check.
var _ CommandResolver = (*HostResolver)(nil)

// HostResolver resolves commands against the local file system and PATH.
type HostResolver struct {
	exec utilexec.Interface
}

// NewHostResolver creates a HostResolver backed by the real process table.
func NewHostResolver() *HostResolver {
	return &HostResolver{exec: utilexec.New()}
}

// LookPath stats absolute commands, which must be regular files with an
// execute bit set, and searches PATH for everything else.
func (r *HostResolver) LookPath(command string) (string, error) {
	if command == "" {
		return "", errors.New("empty command")
	}

	if filepath.IsAbs(command) {
		info, err := os.Stat(command)
		if err != nil {
			return "", err
		}

		if info.IsDir() {
			return "", fmt.Errorf("%s is a directory", command)
		}

		if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
			return "", fmt.Errorf("%s is not executable", command)
		}

		return command, nil
	}

	return r.exec.LookPath(command)
}
