package output

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/hupe1980/kubesplit/internal/kubeconfig"
	"github.com/hupe1980/kubesplit/internal/yamlutil"
)

// unsafeFileChars matches characters not kept in generated file names.
// Context names such as EKS ARNs contain ':' and '/'.
var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName returns a file-system safe base name for a context.
func FileName(contextName string) string {
	name := unsafeFileChars.ReplaceAllString(contextName, "_")
	if name == "" || name == "." || name == ".." {
		name = "context"
	}

	return name
}

// WrittenFile records where one split entry was written.
type WrittenFile struct {
	Context string
	Path    string
}

// WriteSplitDir writes every entry to dir as <context><ext>, one file per
// context. A sanitized name already handed out gets the lowest free numeric
// suffix, so no two entries share a file. Entries with a validation error
// are written too.
func WriteSplitDir(entries []kubeconfig.SplitEntry, dir string, format Format, opts ...FileWriterOption) ([]WrittenFile, error) {
	used := sets.New[string]()
	written := make([]WrittenFile, 0, len(entries))

	for _, e := range entries {
		data, err := format.Encode(e.Config)
		if err != nil {
			return written, fmt.Errorf("encoding context %q: %w", e.ContextName(), err)
		}

		base := uniqueName(FileName(e.ContextName()), used)

		fw := NewFileWriter(filepath.Join(dir, base+format.Extension), opts...)
		if err := fw.Write(data); err != nil {
			return written, err
		}

		written = append(written, WrittenFile{Context: e.ContextName(), Path: fw.Path()})
	}

	return written, nil
}

// uniqueName returns base, or base-N with the smallest N >= 2 not in used,
// and records the result in used.
func uniqueName(base string, used sets.Set[string]) string {
	name := base
	for n := 2; used.Has(name); n++ {
		name = base + "-" + strconv.Itoa(n)
	}

	used.Insert(name)

	return name
}

// WriteSplitStream writes every entry to w as one multi-document YAML
// stream, or as one JSON document per line for non-YAML formats.
func WriteSplitStream(entries []kubeconfig.SplitEntry, w io.Writer, format Format) error {
	docs := make([][]byte, 0, len(entries))

	for _, e := range entries {
		data, err := format.Encode(e.Config)
		if err != nil {
			return fmt.Errorf("encoding context %q: %w", e.ContextName(), err)
		}

		docs = append(docs, data)
	}

	out := JoinEncoded(docs, format)

	slog.Debug("writing split stream", slog.Int("documents", len(docs)), slog.String("format", format.Name))

	return NewStdoutWriter(w).Write(out)
}

// JoinEncoded combines documents encoded with format into one stream: "---"
// separated for YAML, concatenated otherwise.
func JoinEncoded(docs [][]byte, format Format) []byte {
	if format.Extension == ".yaml" {
		return yamlutil.JoinDocuments(docs)
	}

	var out []byte
	for _, d := range docs {
		out = append(out, d...)
	}

	return out
}
