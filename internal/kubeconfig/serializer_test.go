package kubeconfig

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/tools/clientcmd"
)

func minimalConfig() *Config {
	return &Config{
		Clusters:       []*Cluster{{Name: "c1", Server: "https://x"}},
		Users:          []*User{{Name: "u1", Token: "t"}},
		Contexts:       []*Context{{Name: "a", Cluster: "c1", User: "u1"}},
		CurrentContext: "a",
	}
}

func TestDump_RoundTrip(t *testing.T) {
	original := minimalConfig()

	data, err := Dump(original)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestDump_RoundTripFullDocument(t *testing.T) {
	cfg, err := ParseString(multiContextYAML)
	require.NoError(t, err)

	data, err := Dump(cfg)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestDump_CanonicalShape(t *testing.T) {
	data, err := Dump(minimalConfig())
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "apiVersion: v1\nkind: Config\npreferences: {}\ncurrent-context: a\n"), out)

	clusters := strings.Index(out, "clusters:")
	contexts := strings.Index(out, "contexts:")
	users := strings.Index(out, "users:")
	assert.Less(t, clusters, contexts)
	assert.Less(t, contexts, users)
}

func TestDump_OmitsAbsentFields(t *testing.T) {
	cfg := minimalConfig()
	cfg.CurrentContext = ""

	data, err := Dump(cfg)
	require.NoError(t, err)

	out := string(data)
	assert.NotContains(t, out, "null")
	assert.NotContains(t, out, "current-context")
	assert.NotContains(t, out, "certificate-authority")
	assert.NotContains(t, out, "namespace")
	assert.NotContains(t, out, "exec")
	assert.NotContains(t, out, "password")
}

func TestDump_WritesInsecureFalse(t *testing.T) {
	data, err := Dump(minimalConfig())
	require.NoError(t, err)
	assert.Contains(t, string(data), "insecure-skip-tls-verify: false\n")

	api, err := clientcmd.Load(data)
	require.NoError(t, err)
	assert.False(t, api.Clusters["c1"].InsecureSkipTLSVerify)
}

func TestDump_LogsThroughDumpLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Dump(minimalConfig(), WithDumpLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "dumping kubeconfig")

	buf.Reset()

	_, err = DumpJSON(minimalConfig(), WithDumpLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "dumping kubeconfig")
}

const execExtraYAML = `apiVersion: v1
kind: Config
current-context: a
clusters:
  - name: c1
    cluster:
      server: https://x
users:
  - name: u1
    user:
      exec:
        apiVersion: client.authentication.k8s.io/v1beta1
        command: aws
        interactiveMode: Never
        customKey: keep-me
        nested:
          list: [one, two]
contexts:
  - name: a
    context:
      cluster: c1
      user: u1
`

func TestDump_KeepsUnknownExecKeys(t *testing.T) {
	cfg, err := ParseString(execExtraYAML)
	require.NoError(t, err)

	exec := cfg.Users[0].Exec
	require.NotNil(t, exec)
	assert.Equal(t, "Never", exec.InteractiveMode)
	assert.Equal(t, "keep-me", exec.Extra["customKey"])
	assert.NotContains(t, exec.Extra, "command")
	assert.NotContains(t, exec.Extra, "interactiveMode")

	data, err := Dump(cfg)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "customKey: keep-me")
	assert.Contains(t, out, "nested:")

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)

	_, err = clientcmd.Load(data)
	require.NoError(t, err)
}

func TestUser_DeepCopyExecExtra(t *testing.T) {
	cfg, err := ParseString(execExtraYAML)
	require.NoError(t, err)

	orig := cfg.Users[0]
	cp := orig.DeepCopy()

	cp.Exec.Extra["customKey"] = "changed"
	cp.Exec.Extra["nested"].(map[string]interface{})["list"].([]interface{})[0] = "changed"

	assert.Equal(t, "keep-me", orig.Exec.Extra["customKey"])
	assert.Equal(t, "one", orig.Exec.Extra["nested"].(map[string]interface{})["list"].([]interface{})[0])
}

func TestDump_KebabCaseFields(t *testing.T) {
	cfg, err := ParseString(multiContextYAML)
	require.NoError(t, err)

	data, err := Dump(cfg)
	require.NoError(t, err)

	out := string(data)
	for _, field := range []string{
		"certificate-authority-data:", "certificate-authority:", "insecure-skip-tls-verify: true",
		"client-certificate-data:", "client-key-data:", "auth-provider:", "exec:",
		"provideClusterInfo: true", "namespace: team-a",
	} {
		assert.Contains(t, out, field)
	}
}

func TestDump_EmptyConfig(t *testing.T) {
	data, err := Dump(&Config{})
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "clusters: []")
	assert.Contains(t, out, "contexts: []")
	assert.Contains(t, out, "users: []")
}

func TestDump_DoesNotMutate(t *testing.T) {
	cfg, err := ParseString(multiContextYAML)
	require.NoError(t, err)

	before := cfg.DeepCopy()

	_, err = Dump(cfg)
	require.NoError(t, err)
	assert.Equal(t, before, cfg)
}

func TestDumpJSON(t *testing.T) {
	data, err := DumpJSON(minimalConfig())
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "v1", doc["apiVersion"])
	assert.Equal(t, "Config", doc["kind"])
	assert.Equal(t, "a", doc["current-context"])
	assert.Len(t, doc["clusters"], 1)
}

func TestDump_LoadableByClientGo(t *testing.T) {
	cfg, err := ParseString(multiContextYAML)
	require.NoError(t, err)

	data, err := Dump(cfg)
	require.NoError(t, err)

	api, err := clientcmd.Load(data)
	require.NoError(t, err)

	assert.Equal(t, "dev", api.CurrentContext)
	require.Contains(t, api.Contexts, "dev")
	assert.Equal(t, "dev-cluster", api.Contexts["dev"].Cluster)
	assert.Equal(t, "team-a", api.Contexts["dev"].Namespace)

	require.Contains(t, api.Clusters, "prod-cluster")
	assert.True(t, api.Clusters["prod-cluster"].InsecureSkipTLSVerify)

	require.Contains(t, api.AuthInfos, "prod-user")
	require.NotNil(t, api.AuthInfos["prod-user"].Exec)
	assert.Equal(t, "aws", api.AuthInfos["prod-user"].Exec.Command)
}

func TestDump_SplitChildLoadableByClientGo(t *testing.T) {
	cfg, err := ParseString(singleContextYAML)
	require.NoError(t, err)

	entries := Split(cfg)
	require.Len(t, entries, 1)

	data, err := Dump(entries[0].Config)
	require.NoError(t, err)

	api, err := clientcmd.Load(data)
	require.NoError(t, err)
	assert.Equal(t, "a", api.CurrentContext)
	assert.Equal(t, "t", api.AuthInfos["u1"].Token)
}
