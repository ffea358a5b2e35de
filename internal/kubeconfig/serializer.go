package kubeconfig

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

// The document types below mirror the on-disk schema. Field order is the
// emitted key order; omitempty drops absent values.

type document struct {
	APIVersion     string                 `yaml:"apiVersion"`
	Kind           string                 `yaml:"kind"`
	Preferences    map[string]interface{} `yaml:"preferences"`
	CurrentContext string                 `yaml:"current-context,omitempty"`
	Clusters       []namedCluster         `yaml:"clusters"`
	Contexts       []namedContext         `yaml:"contexts"`
	Users          []namedUser            `yaml:"users"`
}

type namedCluster struct {
	Name    string      `yaml:"name"`
	Cluster clusterBody `yaml:"cluster"`
}

type clusterBody struct {
	CertificateAuthorityData string `yaml:"certificate-authority-data,omitempty"`
	CertificateAuthority     string `yaml:"certificate-authority,omitempty"`
	Server                   string `yaml:"server,omitempty"`
	InsecureSkipTLSVerify    bool   `yaml:"insecure-skip-tls-verify"`
}

type namedContext struct {
	Name    string      `yaml:"name"`
	Context contextBody `yaml:"context"`
}

type contextBody struct {
	Cluster   string `yaml:"cluster,omitempty"`
	User      string `yaml:"user,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
}

type namedUser struct {
	Name string   `yaml:"name"`
	User userBody `yaml:"user"`
}

type userBody struct {
	ClientCertificateData string            `yaml:"client-certificate-data,omitempty"`
	ClientCertificate     string            `yaml:"client-certificate,omitempty"`
	ClientKeyData         string            `yaml:"client-key-data,omitempty"`
	ClientKey             string            `yaml:"client-key,omitempty"`
	AuthProvider          *authProviderBody `yaml:"auth-provider,omitempty"`
	Exec                  *execBody         `yaml:"exec,omitempty"`
	Token                 string            `yaml:"token,omitempty"`
	Username              string            `yaml:"username,omitempty"`
	Password              string            `yaml:"password,omitempty"`
}

type authProviderBody struct {
	Name   string                 `yaml:"name"`
	Config map[string]interface{} `yaml:"config,omitempty"`
}

type execBody struct {
	APIVersion         string       `yaml:"apiVersion,omitempty"`
	Command            string       `yaml:"command,omitempty"`
	Args               []string     `yaml:"args,omitempty"`
	Env                []ExecEnvVar `yaml:"env,omitempty"`
	InstallHint        string       `yaml:"installHint,omitempty"`
	ProvideClusterInfo bool         `yaml:"provideClusterInfo,omitempty"`
	InteractiveMode    string       `yaml:"interactiveMode,omitempty"`

	Extra map[string]interface{} `yaml:",inline"`
}

// DumpOption configures Dump and DumpJSON.
type DumpOption func(*dumpOptions)

type dumpOptions struct {
	logger *slog.Logger
}

// WithDumpLogger sets the logger that traces each dump.
func WithDumpLogger(logger *slog.Logger) DumpOption {
	return func(o *dumpOptions) {
		o.logger = logger
	}
}

// Dump renders cfg in the canonical kubeconfig v1 shape. It does not modify
// cfg.
func Dump(cfg *Config, opts ...DumpOption) ([]byte, error) {
	o := &dumpOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	doc := toDocument(cfg)

	o.logger.Debug("dumping kubeconfig",
		slog.String("currentContext", doc.CurrentContext),
		slog.Int("clusters", len(doc.Clusters)),
		slog.Int("contexts", len(doc.Contexts)),
		slog.Int("users", len(doc.Users)),
	)

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding kubeconfig: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding kubeconfig: %w", err)
	}

	return buf.Bytes(), nil
}

// DumpJSON renders cfg as JSON with the same field names as Dump.
func DumpJSON(cfg *Config, opts ...DumpOption) ([]byte, error) {
	y, err := Dump(cfg, opts...)
	if err != nil {
		return nil, err
	}

	j, err := sigsyaml.YAMLToJSON(y)
	if err != nil {
		return nil, fmt.Errorf("converting kubeconfig to JSON: %w", err)
	}

	return append(j, '\n'), nil
}

func toDocument(cfg *Config) document {
	return document{
		APIVersion:     "v1",
		Kind:           "Config",
		Preferences:    map[string]interface{}{},
		CurrentContext: cfg.CurrentContext,
		Clusters: lo.Map(cfg.Clusters, func(cl *Cluster, _ int) namedCluster {
			return namedCluster{
				Name: cl.Name,
				Cluster: clusterBody{
					CertificateAuthorityData: cl.CertificateAuthorityData,
					CertificateAuthority:     cl.CertificateAuthority,
					Server:                   cl.Server,
					InsecureSkipTLSVerify:    cl.InsecureSkipTLSVerify,
				},
			}
		}),
		Contexts: lo.Map(cfg.Contexts, func(ctx *Context, _ int) namedContext {
			return namedContext{
				Name: ctx.Name,
				Context: contextBody{
					Cluster:   ctx.Cluster,
					User:      ctx.User,
					Namespace: ctx.Namespace,
				},
			}
		}),
		Users: lo.Map(cfg.Users, func(u *User, _ int) namedUser {
			return namedUser{Name: u.Name, User: toUserBody(u)}
		}),
	}
}

func toUserBody(u *User) userBody {
	body := userBody{
		ClientCertificateData: u.ClientCertificateData,
		ClientCertificate:     u.ClientCertificate,
		ClientKeyData:         u.ClientKeyData,
		ClientKey:             u.ClientKey,
		Token:                 u.Token,
		Username:              u.Username,
		Password:              u.Password,
	}

	if u.AuthProvider != nil {
		body.AuthProvider = &authProviderBody{
			Name:   u.AuthProvider.Name,
			Config: u.AuthProvider.Config,
		}
	}

	if u.Exec != nil {
		body.Exec = &execBody{
			APIVersion:         u.Exec.APIVersion,
			Command:            u.Exec.Command,
			Args:               u.Exec.Args,
			Env:                u.Exec.Env,
			InstallHint:        u.Exec.InstallHint,
			ProvideClusterInfo: u.Exec.ProvideClusterInfo,
			InteractiveMode:    u.Exec.InteractiveMode,
			Extra:              u.Exec.Extra,
		}
	}

	return body
}
