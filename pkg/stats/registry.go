package stats

import (
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/agentstation/assetmap/pkg/errors"
)

// DefaultPolicyName is used when no policy is named.
const DefaultPolicyName = "default"

var (
	mu       sync.RWMutex
	policies = map[string]func() *Policy{
		"default": DefaultPolicy,
		"strict":  StrictPolicy,
	}
)

// Register adds p to the registry, replacing any policy of the same name.
func Register(p *Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c := p.clone()
	mu.Lock()
	defer mu.Unlock()
	policies[c.Name] = func() *Policy { return c.clone() }
	return nil
}

// Get returns a fresh copy of the named policy. An empty name selects the
// default policy.
func Get(name string) (*Policy, error) {
	if name == "" {
		name = DefaultPolicyName
	}
	mu.RLock()
	newPolicy, ok := policies[name]
	mu.RUnlock()
	if !ok {
		return nil, &errors.NotFoundError{Resource: "policy", ID: name}
	}
	return newPolicy(), nil
}

// Has checks if a policy is registered under name.
func Has(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := policies[name]
	return ok
}

// List returns every registered policy sorted by name.
func List() []*Policy {
	mu.RLock()
	out := make([]*Policy, 0, len(policies))
	for _, newPolicy := range policies {
		out = append(out, newPolicy())
	}
	mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve picks the policy for a run: a policy file wins over a name.
func Resolve(name, file string) (*Policy, error) {
	if file != "" {
		return LoadPolicy(file)
	}
	p, err := Get(name)
	if err != nil {
		return nil, fmt.Errorf("resolving policy: %w", err)
	}
	return p, nil
}

func (p *Policy) clone() *Policy {
	c := *p
	c.Requirements = maps.Clone(p.Requirements)
	return &c
}
