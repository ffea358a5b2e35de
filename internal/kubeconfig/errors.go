package kubeconfig

import (
	"fmt"
)

// SchemaError reports a document that does not have the kubeconfig shape.
// Callers should treat the file as unreadable.
type SchemaError struct {
	Message string
	Err     error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *SchemaError) Unwrap() error { return e.Err }

// RefKind identifies which reference of a context failed to resolve.
type RefKind string

// Reference kinds.
const (
	RefContext RefKind = "context"
	RefCluster RefKind = "cluster"
	RefUser    RefKind = "user"
)

// ReferenceError reports a name that did not resolve within the
// configuration being validated.
type ReferenceError struct {
	Kind    RefKind
	Context string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("no valid %s object provided in kubeconfig for context '%s'", e.Kind, e.Context)
}

// ExecPluginNotFoundError reports an exec credential command that cannot be
// found on this host. Absolute records whether Command was an absolute path,
// which distinguishes "file does not exist" from "not on PATH".
type ExecPluginNotFoundError struct {
	Command  string
	Absolute bool
}

func (e *ExecPluginNotFoundError) Error() string {
	if e.Absolute {
		return fmt.Sprintf("user exec command %q not found on host", e.Command)
	}

	return fmt.Sprintf("user exec command %q not found on host; make sure it is on PATH or use an absolute path in the kubeconfig", e.Command)
}
