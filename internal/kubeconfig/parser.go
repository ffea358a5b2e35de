package kubeconfig

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/hupe1980/kubesplit/internal/maputil"
	"github.com/hupe1980/kubesplit/internal/yamlutil"
)

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

type parseOptions struct {
	strict bool
	logger *slog.Logger
}

// WithStrict makes Parse fail on context entries that would otherwise be
// dropped for missing a name, cluster or user.
func WithStrict() ParseOption {
	return func(o *parseOptions) {
		o.strict = true
	}
}

// WithLogger sets the logger used to trace dropped entries.
func WithLogger(logger *slog.Logger) ParseOption {
	return func(o *parseOptions) {
		o.logger = logger
	}
}

// ParseString is Parse for in-memory text.
func ParseString(raw string, opts ...ParseOption) (*Config, error) {
	return Parse([]byte(raw), opts...)
}

// ParseDocuments parses every document of a multi-document YAML stream, in
// order. Input without any non-blank document is handed to Parse as-is.
func ParseDocuments(data []byte, opts ...ParseOption) ([]*Config, error) {
	docs := yamlutil.SplitDocuments(data)
	if len(docs) <= 1 {
		cfg, err := Parse(data, opts...)
		if err != nil {
			return nil, err
		}

		return []*Config{cfg}, nil
	}

	configs := make([]*Config, 0, len(docs))

	for i, doc := range docs {
		cfg, err := Parse(doc, opts...)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}

		configs = append(configs, cfg)
	}

	return configs, nil
}

// Parse decodes a kubeconfig document into a fresh Config.
//
// The document is first decoded into a generic tree, then known fields are
// mapped onto typed entries. Context entries without a name, cluster or user
// are dropped (logged at debug level) unless WithStrict is given.
func Parse(data []byte, opts ...ParseOption) (*Config, error) {
	o := &parseOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	var tree interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, &SchemaError{Message: "decoding kubeconfig YAML", Err: err}
	}

	root, ok := tree.(map[string]interface{})
	if !ok {
		return nil, &SchemaError{Message: "kubeconfig root entry must be an object"}
	}

	rawClusters, err := section(root, "clusters")
	if err != nil {
		return nil, err
	}

	rawUsers, err := section(root, "users")
	if err != nil {
		return nil, err
	}

	contextItems, ok := maputil.Slice(root, "contexts")
	if !ok {
		return nil, &SchemaError{Message: "contexts must be a list"}
	}

	rawContexts, err := filterContexts(contextItems, o)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	for i, raw := range rawClusters {
		cl, err := newCluster(i, raw)
		if err != nil {
			return nil, err
		}

		cfg.Clusters = append(cfg.Clusters, cl)
	}

	for i, raw := range rawUsers {
		u, err := newUser(i, raw)
		if err != nil {
			return nil, err
		}

		cfg.Users = append(cfg.Users, u)
	}

	for _, raw := range rawContexts {
		cfg.Contexts = append(cfg.Contexts, newContext(raw))
	}

	cfg.CurrentContext, _ = maputil.String(root, "current-context")

	return cfg, nil
}

// section reads a top-level list. Absent or null lists are empty.
func section(root map[string]interface{}, key string) ([]map[string]interface{}, error) {
	items, ok := maputil.Slice(root, key)
	if !ok {
		return nil, &SchemaError{Message: fmt.Sprintf("%s must be a list", key)}
	}

	out := make([]map[string]interface{}, 0, len(items))

	for i, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, &SchemaError{Message: fmt.Sprintf("%s[%d] must be an object", key, i)}
		}

		out = append(out, m)
	}

	return out, nil
}

// filterContexts drops context entries that are not objects or lack name,
// context.cluster or context.user. In strict mode every such entry is
// reported instead.
func filterContexts(raw []interface{}, o *parseOptions) ([]map[string]interface{}, error) {
	kept := make([]map[string]interface{}, 0, len(raw))

	var errs []error

	for i, item := range raw {
		entry, isObject := item.(map[string]interface{})

		reason := "entry is not an object"
		if isObject {
			reason = checkRawContext(entry)
		}

		if reason == "" {
			kept = append(kept, entry)
			continue
		}

		name, _ := maputil.String(entry, "name")

		if o.strict {
			errs = append(errs, fmt.Errorf("contexts[%d] (%q): %s", i, name, reason))
			continue
		}

		o.logger.Debug("dropping malformed context entry",
			slog.Int("index", i),
			slog.String("name", name),
			slog.String("reason", reason),
		)
	}

	if agg := utilerrors.NewAggregate(errs); agg != nil {
		return nil, &SchemaError{Message: "malformed context entries", Err: agg}
	}

	return kept, nil
}

func checkRawContext(entry map[string]interface{}) string {
	if _, ok := maputil.NonEmptyString(entry, "name"); !ok {
		return "name is missing"
	}

	ctx, ok := maputil.Map(entry, "context")
	if !ok {
		return "context is missing"
	}

	if _, ok := maputil.NonEmptyString(ctx, "cluster"); !ok {
		return "context.cluster is missing"
	}

	if _, ok := maputil.NonEmptyString(ctx, "user"); !ok {
		return "context.user is missing"
	}

	return ""
}

func newCluster(i int, raw map[string]interface{}) (*Cluster, error) {
	name, ok := maputil.NonEmptyString(raw, "name")
	if !ok {
		return nil, entryError("clusters[%d].name is missing", i)
	}

	body, ok := maputil.Map(raw, "cluster")
	if !ok {
		return nil, entryError("clusters[%d].cluster is missing", i)
	}

	server, ok := maputil.NonEmptyString(body, "server")
	if !ok {
		return nil, entryError("clusters[%d].cluster.server is missing", i)
	}

	cl := &Cluster{
		Name:                  name,
		Server:                strings.TrimSuffix(server, "/"),
		InsecureSkipTLSVerify: maputil.Bool(body, "insecure-skip-tls-verify"),
	}
	cl.CertificateAuthorityData, _ = maputil.String(body, "certificate-authority-data")
	cl.CertificateAuthority, _ = maputil.String(body, "certificate-authority")

	return cl, nil
}

func newUser(i int, raw map[string]interface{}) (*User, error) {
	name, ok := maputil.NonEmptyString(raw, "name")
	if !ok {
		return nil, entryError("users[%d].name is missing", i)
	}

	u := &User{Name: name}

	body, ok := maputil.Map(raw, "user")
	if !ok {
		return u, nil
	}

	u.ClientCertificateData, _ = maputil.String(body, "client-certificate-data")
	u.ClientCertificate, _ = maputil.String(body, "client-certificate")
	u.ClientKeyData, _ = maputil.String(body, "client-key-data")
	u.ClientKey, _ = maputil.String(body, "client-key")
	u.Token, _ = maputil.String(body, "token")
	u.Username, _ = maputil.String(body, "username")
	u.Password, _ = maputil.String(body, "password")

	if ap, ok := maputil.Map(body, "auth-provider"); ok {
		u.AuthProvider = newAuthProvider(ap)
	}

	if exec, ok := maputil.Map(body, "exec"); ok {
		u.Exec = newExec(exec)
	}

	return u, nil
}

func newAuthProvider(raw map[string]interface{}) *AuthProviderConfig {
	ap := &AuthProviderConfig{}
	ap.Name, _ = maputil.String(raw, "name")

	if cfg, ok := maputil.Map(raw, "config"); ok {
		ap.Config = maputil.DeepCopyMap(cfg)
	}

	return ap
}

// execKeys are the exec fields mapped onto ExecConfig; any other key is kept
// in ExecConfig.Extra.
var execKeys = sets.New("apiVersion", "command", "args", "env", "installHint", "provideClusterInfo", "interactiveMode")

func newExec(raw map[string]interface{}) *ExecConfig {
	ec := &ExecConfig{
		Args:               maputil.StringSlice(raw, "args"),
		ProvideClusterInfo: maputil.Bool(raw, "provideClusterInfo"),
	}
	ec.APIVersion, _ = maputil.String(raw, "apiVersion")
	ec.Command, _ = maputil.String(raw, "command")
	ec.InstallHint, _ = maputil.String(raw, "installHint")
	ec.InteractiveMode, _ = maputil.String(raw, "interactiveMode")

	if env, ok := maputil.Slice(raw, "env"); ok {
		for _, item := range env {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}

			v := ExecEnvVar{}
			v.Name, _ = maputil.String(m, "name")
			v.Value, _ = maputil.String(m, "value")
			ec.Env = append(ec.Env, v)
		}
	}

	for k, v := range raw {
		if execKeys.Has(k) || v == nil {
			continue
		}

		if ec.Extra == nil {
			ec.Extra = make(map[string]interface{})
		}

		ec.Extra[k] = maputil.DeepCopyValue(v)
	}

	return ec
}

func newContext(raw map[string]interface{}) *Context {
	// Presence of name, cluster and user is guaranteed by filterContexts.
	body, _ := maputil.Map(raw, "context")

	ctx := &Context{}
	ctx.Name, _ = maputil.String(raw, "name")
	ctx.Cluster, _ = maputil.String(body, "cluster")
	ctx.User, _ = maputil.String(body, "user")
	ctx.Namespace, _ = maputil.String(body, "namespace")

	return ctx
}

func entryError(format string, args ...interface{}) error {
	return &SchemaError{Message: "invalid kubeconfig entry", Err: fmt.Errorf(format, args...)}
}
