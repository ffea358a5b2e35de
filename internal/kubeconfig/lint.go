package kubeconfig

import (
	"github.com/samber/lo"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Duplicate is a name used by more than one entry of the same kind. Only the
// first of them is reachable through lookups.
type Duplicate struct {
	Kind  RefKind
	Name  string
	Count int
}

// Duplicates lists names shared by several clusters, contexts or users,
// grouped in that order and sorted by name within each kind.
func Duplicates(cfg *Config) []Duplicate {
	var out []Duplicate

	out = append(out, duplicates(RefCluster, lo.Map(cfg.Clusters, func(c *Cluster, _ int) string { return c.Name }))...)
	out = append(out, duplicates(RefContext, lo.Map(cfg.Contexts, func(c *Context, _ int) string { return c.Name }))...)
	out = append(out, duplicates(RefUser, lo.Map(cfg.Users, func(u *User, _ int) string { return u.Name }))...)

	return out
}

func duplicates(kind RefKind, all []string) []Duplicate {
	counts := make(map[string]int, len(all))
	for _, n := range all {
		counts[n]++
	}

	var out []Duplicate

	// sets.List returns sorted members.
	for _, n := range sets.List(sets.New(all...)) {
		if counts[n] > 1 {
			out = append(out, Duplicate{Kind: kind, Name: n, Count: counts[n]})
		}
	}

	return out
}
