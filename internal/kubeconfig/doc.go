// Package kubeconfig parses, splits, validates and serializes kubeconfig
// documents.
//
// The package is organized around five concerns:
//
//   - Loading (loader.go): resolve a path (default <home>/.kube/config) and
//     read it, blocking or cancellable.
//
//   - Parsing (parser.go): decode YAML into a generic tree, drop malformed
//     context entries, then map known fields onto [Config].
//
//   - Splitting (splitter.go): one isolated [Config] per context, each
//     validated, with failures reported per entry rather than aborting.
//
//   - Validation (validator.go, resolver.go): context, cluster, user and exec
//     plugin checks, first failure wins. Exec lookups go through a
//     [CommandResolver] so tests never touch the host.
//
//   - Serialization (serializer.go): the canonical kubeconfig v1 shape with
//     absent fields omitted.
package kubeconfig
