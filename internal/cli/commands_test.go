package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/hupe1980/kubesplit/internal/yamlutil"
)

// cliKubeconfig has a valid dev context and a prod context whose exec
// plugin does not exist.
const cliKubeconfig = `apiVersion: v1
kind: Config
current-context: dev
clusters:
- name: c-dev
  cluster:
    server: https://dev.example.com/
- name: c-prod
  cluster:
    server: https://prod.example.com
    certificate-authority-data: Q0EK
users:
- name: u-dev
  user:
    token: dev-token
- name: u-prod
  user:
    exec:
      apiVersion: client.authentication.k8s.io/v1beta1
      command: /nonexistent/kubesplit-test-plugin
      args: ["token"]
contexts:
- name: dev
  context:
    cluster: c-dev
    user: u-dev
    namespace: apps
- name: prod
  context:
    cluster: c-prod
    user: u-prod
`

const validKubeconfig = `apiVersion: v1
kind: Config
clusters:
- name: c1
  cluster:
    server: https://c1.example.com
users:
- name: u1
  user:
    token: t1
contexts:
- name: arn:aws:eks:eu-west-1:123:cluster/one
  context:
    cluster: c1
    user: u1
`

const duplicateKubeconfig = `apiVersion: v1
kind: Config
clusters:
- name: c1
  cluster:
    server: https://first.example.com
- name: c1
  cluster:
    server: https://second.example.com
users:
- name: u1
  user:
    token: t1
contexts:
- name: a
  context:
    cluster: c1
    user: u1
- name: broken
  context:
    cluster: c1
`

// ---------------------------------------------------------------------------
// split
// ---------------------------------------------------------------------------

func TestSplit_Stream(t *testing.T) {
	path := writeKubeconfig(t, validKubeconfig)

	stdout, stderr, err := executeCommand("split", path)
	require.NoError(t, err)

	docs := yamlutil.SplitDocuments([]byte(stdout))
	require.Len(t, docs, 1)

	cfg, err := clientcmd.Load(docs[0])
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:eks:eu-west-1:123:cluster/one", cfg.CurrentContext)

	assert.Contains(t, stderr, "CONTEXT")
	assert.Contains(t, stderr, "ok")
}

func TestSplit_StreamWithFailure(t *testing.T) {
	path := writeKubeconfig(t, cliKubeconfig)

	stdout, stderr, err := executeCommand("split", path)
	requireExitCode(t, err, exitValidation)
	assert.Contains(t, err.Error(), "1 of 2 context(s) failed validation")

	// Failed entries are still emitted.
	assert.Len(t, yamlutil.SplitDocuments([]byte(stdout)), 2)
	assert.Contains(t, stderr, "failed")
	assert.Contains(t, stderr, "/nonexistent/kubesplit-test-plugin")
}

func TestSplit_OutputDir(t *testing.T) {
	path := writeKubeconfig(t, cliKubeconfig)
	dir := filepath.Join(t.TempDir(), "out")

	stdout, stderr, err := executeCommand("split", path, "-o", dir)
	requireExitCode(t, err, exitValidation)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "FILE")

	for _, name := range []string{"dev", "prod"} {
		file := filepath.Join(dir, name+".yaml")

		info, err := os.Stat(file)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		cfg, err := clientcmd.LoadFromFile(file)
		require.NoError(t, err)
		assert.Equal(t, name, cfg.CurrentContext)
		assert.Len(t, cfg.Contexts, 1)
		assert.Len(t, cfg.Clusters, 1)
		assert.Len(t, cfg.AuthInfos, 1)
	}
}

func TestSplit_OutputDirSanitizesNames(t *testing.T) {
	path := writeKubeconfig(t, validKubeconfig)
	dir := t.TempDir()

	_, _, err := executeCommand("split", path, "--output-dir", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "arn_aws_eks_eu-west-1_123_cluster_one.yaml"))
	require.NoError(t, err)
}

func TestSplit_JSON(t *testing.T) {
	path := writeKubeconfig(t, validKubeconfig)

	stdout, _, err := executeCommand("split", path, "--format", "json")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "Config", doc["kind"])
}

func TestSplit_UnknownFormat(t *testing.T) {
	path := writeKubeconfig(t, validKubeconfig)

	_, _, err := executeCommand("split", path, "--format", "toml")
	requireExitCode(t, err, exitUsage)
}

func TestSplit_Quiet(t *testing.T) {
	path := writeKubeconfig(t, validKubeconfig)

	_, stderr, err := executeCommand("--quiet", "split", path)
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestSplit_TooManyArgs(t *testing.T) {
	_, _, err := executeCommand("split", "a", "b")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// validate
// ---------------------------------------------------------------------------

func TestValidate_Passes(t *testing.T) {
	path := writeKubeconfig(t, validKubeconfig)

	stdout, _, err := executeCommand("validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed")
}

func TestValidate_ExecPluginMissing(t *testing.T) {
	path := writeKubeconfig(t, cliKubeconfig)

	_, stderr, err := executeCommand("validate", path)
	requireExitCode(t, err, exitValidation)
	assert.Contains(t, stderr, "prod")
	assert.Contains(t, stderr, "/nonexistent/kubesplit-test-plugin")
}

func TestValidate_SkipExec(t *testing.T) {
	path := writeKubeconfig(t, cliKubeconfig)

	stdout, _, err := executeCommand("validate", path, "--skip-exec")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed")
}

func TestValidate_SingleContext(t *testing.T) {
	path := writeKubeconfig(t, cliKubeconfig)

	_, _, err := executeCommand("validate", path, "--context", "dev")
	require.NoError(t, err)
}

func TestValidate_UnknownContext(t *testing.T) {
	path := writeKubeconfig(t, cliKubeconfig)

	_, stderr, err := executeCommand("validate", path, "--context", "missing")
	requireExitCode(t, err, exitValidation)
	assert.Contains(t, stderr, "no valid context object provided in kubeconfig for context 'missing'")
}

func TestValidate_DuplicatesWarn(t *testing.T) {
	path := writeKubeconfig(t, duplicateKubeconfig)

	stdout, stderr, err := executeCommand("validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed")
	assert.Contains(t, stderr, `warning: cluster name "c1" is used by 2 entries`)
}

func TestValidate_StrictRejectsMalformedContext(t *testing.T) {
	path := writeKubeconfig(t, duplicateKubeconfig)

	_, _, err := executeCommand("validate", path, "--strict")
	requireExitCode(t, err, exitSchema)
	assert.Contains(t, err.Error(), "malformed context entries")
}

func TestValidate_StrictFailsOnDuplicates(t *testing.T) {
	content := strings.Replace(duplicateKubeconfig, "- name: broken\n  context:\n    cluster: c1\n", "", 1)
	path := writeKubeconfig(t, content)

	_, _, err := executeCommand("validate", path, "--strict")
	requireExitCode(t, err, exitValidation)
	assert.Contains(t, err.Error(), "duplicate name(s)")
}

// ---------------------------------------------------------------------------
// contexts
// ---------------------------------------------------------------------------

func TestContexts_Table(t *testing.T) {
	path := writeKubeconfig(t, cliKubeconfig)

	stdout, _, err := executeCommand("contexts", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "NAMESPACE")
	assert.Regexp(t, `^\*\s+dev\s+c-dev\s+u-dev\s+apps\s+ok$`, lines[1])
	assert.Contains(t, lines[2], "prod")
	assert.Contains(t, lines[2], "not found on host")
}

func TestContexts_Alias(t *testing.T) {
	path := writeKubeconfig(t, cliKubeconfig)

	stdout, _, err := executeCommand("ctx", "--names", path)
	require.NoError(t, err)
	assert.Equal(t, "dev\nprod\n", stdout)
}

// ---------------------------------------------------------------------------
// normalize
// ---------------------------------------------------------------------------

func TestNormalize_Stdout(t *testing.T) {
	path := writeKubeconfig(t, cliKubeconfig)

	stdout, _, err := executeCommand("normalize", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "apiVersion: v1\nkind: Config\npreferences: {}\ncurrent-context: dev\n"))
	assert.Contains(t, stdout, "server: https://dev.example.com\n")

	_, err = clientcmd.Load([]byte(stdout))
	require.NoError(t, err)
}

func TestNormalize_Idempotent(t *testing.T) {
	first, _, err := executeCommand("normalize", writeKubeconfig(t, cliKubeconfig))
	require.NoError(t, err)

	second, _, err := executeCommand("normalize", writeKubeconfig(t, first))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalize_OutputFile(t *testing.T) {
	path := writeKubeconfig(t, cliKubeconfig)
	out := filepath.Join(t.TempDir(), "normalized.yaml")

	stdout, _, err := executeCommand("normalize", path, "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out) //nolint:gosec // test
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: Config")
}

func TestNormalize_Diff(t *testing.T) {
	path := writeKubeconfig(t, cliKubeconfig)

	stdout, _, err := executeCommand("--no-color", "normalize", path, "--diff")
	require.NoError(t, err)
	assert.Contains(t, stdout, "--- original")
	assert.Contains(t, stdout, "+++ normalized")
	assert.Contains(t, stdout, "-    server: https://dev.example.com/")
	assert.NotContains(t, stdout, "\033[")
}

func TestNormalize_DiffNoChanges(t *testing.T) {
	normalized, _, err := executeCommand("normalize", writeKubeconfig(t, cliKubeconfig))
	require.NoError(t, err)

	stdout, _, err := executeCommand("normalize", writeKubeconfig(t, normalized), "--diff")
	require.NoError(t, err)
	assert.Equal(t, "No differences found.\n", stdout)
}

func TestNormalize_JSON(t *testing.T) {
	path := writeKubeconfig(t, cliKubeconfig)

	stdout, _, err := executeCommand("normalize", path, "--format", "json")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "dev", doc["current-context"])
}

func TestNormalize_MultiDocumentStream(t *testing.T) {
	stream, _, err := executeCommand("split", writeKubeconfig(t, cliKubeconfig))
	requireExitCode(t, err, exitValidation)

	stdout, _, err := executeCommand("normalize", writeKubeconfig(t, stream))
	require.NoError(t, err)

	docs := yamlutil.SplitDocuments([]byte(stdout))
	require.Len(t, docs, 2)

	for i, want := range []string{"dev", "prod"} {
		cfg, err := clientcmd.Load(docs[i])
		require.NoError(t, err)
		assert.Equal(t, want, cfg.CurrentContext)
	}

	diffOut, _, err := executeCommand("normalize", writeKubeconfig(t, stream), "--diff")
	require.NoError(t, err)
	assert.Equal(t, "No differences found.\n", diffOut)
}

func TestNormalize_MultiDocumentSchemaError(t *testing.T) {
	stream := validKubeconfig + "---\ncontexts: nope\n"

	_, _, err := executeCommand("normalize", writeKubeconfig(t, stream))
	requireExitCode(t, err, exitSchema)
	assert.Contains(t, err.Error(), "document 2")
}
