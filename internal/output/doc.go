// Package output writes serialized kubeconfig documents.
//
//   - Writers (writer.go): the [Writer] interface with [StdoutWriter] and
//     [FileWriter]; files default to 0600 because kubeconfigs hold
//     credentials.
//
//   - Formats (registry.go): named encoders (yaml, json) with their file
//     extensions.
//
//   - Split output (split.go): one file per context in a directory, or a
//     multi-document stream.
package output
