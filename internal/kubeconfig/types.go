package kubeconfig

import (
	"github.com/samber/lo"

	"github.com/hupe1980/kubesplit/internal/maputil"
)

// Config is the in-memory form of a kubeconfig document.
//
// Names are not required to be unique. Cluster, User and Context return the
// first entry with a matching name.
type Config struct {
	Clusters       []*Cluster
	Users          []*User
	Contexts       []*Context
	CurrentContext string
}

// Cluster describes how to reach an API server.
type Cluster struct {
	Name                     string
	Server                   string
	CertificateAuthorityData string
	CertificateAuthority     string
	InsecureSkipTLSVerify    bool
}

// User holds credential material. The credential kinds are not mutually
// exclusive.
type User struct {
	Name                  string
	ClientCertificateData string
	ClientCertificate     string
	ClientKeyData         string
	ClientKey             string
	AuthProvider          *AuthProviderConfig
	Exec                  *ExecConfig
	Token                 string
	Username              string
	Password              string
}

// AuthProviderConfig names a legacy auth provider plugin and its settings.
type AuthProviderConfig struct {
	Name   string
	Config map[string]interface{}
}

// ExecConfig describes an exec credential plugin.
type ExecConfig struct {
	APIVersion         string
	Command            string
	Args               []string
	Env                []ExecEnvVar
	InstallHint        string
	ProvideClusterInfo bool
	InteractiveMode    string

	// Extra holds exec keys without a typed field so they survive a
	// round-trip.
	Extra map[string]interface{}
}

// ExecEnvVar is an environment variable passed to an exec plugin.
type ExecEnvVar struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Context binds a cluster, a user and an optional namespace under a name.
type Context struct {
	Name      string
	Cluster   string
	User      string
	Namespace string
}

// Cluster returns the first cluster named name.
func (c *Config) Cluster(name string) (*Cluster, bool) {
	return lo.Find(c.Clusters, func(cl *Cluster) bool { return cl.Name == name })
}

// User returns the first user named name.
func (c *Config) User(name string) (*User, bool) {
	return lo.Find(c.Users, func(u *User) bool { return u.Name == name })
}

// Context returns the first context named name.
func (c *Config) Context(name string) (*Context, bool) {
	return lo.Find(c.Contexts, func(ctx *Context) bool { return ctx.Name == name })
}

// ContextNames returns the context names in document order.
func (c *Config) ContextNames() []string {
	return lo.Map(c.Contexts, func(ctx *Context, _ int) string { return ctx.Name })
}

// DeepCopy returns a Config that shares no mutable state with c.
func (c *Config) DeepCopy() *Config {
	if c == nil {
		return nil
	}

	return &Config{
		Clusters:       lo.Map(c.Clusters, func(cl *Cluster, _ int) *Cluster { return cl.DeepCopy() }),
		Users:          lo.Map(c.Users, func(u *User, _ int) *User { return u.DeepCopy() }),
		Contexts:       lo.Map(c.Contexts, func(ctx *Context, _ int) *Context { return ctx.DeepCopy() }),
		CurrentContext: c.CurrentContext,
	}
}

// DeepCopy returns a copy of cl.
func (cl *Cluster) DeepCopy() *Cluster {
	if cl == nil {
		return nil
	}

	out := *cl

	return &out
}

// DeepCopy returns a copy of ctx.
func (ctx *Context) DeepCopy() *Context {
	if ctx == nil {
		return nil
	}

	out := *ctx

	return &out
}

// DeepCopy returns a copy of u including its auth-provider and exec blocks.
func (u *User) DeepCopy() *User {
	if u == nil {
		return nil
	}

	out := *u

	if u.AuthProvider != nil {
		out.AuthProvider = &AuthProviderConfig{
			Name:   u.AuthProvider.Name,
			Config: maputil.DeepCopyMap(u.AuthProvider.Config),
		}
	}

	if u.Exec != nil {
		exec := *u.Exec
		exec.Args = append([]string(nil), u.Exec.Args...)
		exec.Env = append([]ExecEnvVar(nil), u.Exec.Env...)
		exec.Extra = maputil.DeepCopyMap(u.Exec.Extra)
		out.Exec = &exec
	}

	return &out
}
