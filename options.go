package assetmap

import (
	"fmt"
	"time"

	"github.com/agentstation/assetmap/pkg/assets"
	"github.com/agentstation/assetmap/pkg/reconciler"
	"github.com/agentstation/assetmap/pkg/snapshots"
	"github.com/agentstation/assetmap/pkg/stats"
)

// defaultConcurrency bounds the number of files decoded at once.
const defaultConcurrency = 4

// config holds the settings of an Assetmap instance
type config struct {
	policy      *stats.Policy
	assets      *assets.Config
	reconciler  []reconciler.Option
	store       *snapshots.Store
	concurrency int
	now         func() time.Time
}

func defaultConfig() *config {
	return &config{
		policy:      stats.DefaultPolicy(),
		assets:      assets.DefaultConfig(),
		concurrency: defaultConcurrency,
		now:         time.Now,
	}
}

// Option is a function that configures an Assetmap instance
type Option func(*config) error

// WithPolicy sets the compliance policy used for aggregation
func WithPolicy(p *stats.Policy) Option {
	return func(c *config) error {
		if p == nil {
			return fmt.Errorf("policy cannot be nil")
		}
		if err := p.Validate(); err != nil {
			return err
		}
		c.policy = p
		return nil
	}
}

// WithPolicyName selects a registered policy by name
func WithPolicyName(name string) Option {
	return func(c *config) error {
		p, err := stats.Get(name)
		if err != nil {
			return err
		}
		c.policy = p
		return nil
	}
}

// WithAssetsConfig sets the exemption lists and inventory column rules
func WithAssetsConfig(cfg *assets.Config) Option {
	return func(c *config) error {
		if cfg == nil {
			return fmt.Errorf("assets config cannot be nil")
		}
		c.assets = cfg
		return nil
	}
}

// WithReconcilerOptions passes options through to the cross-source matcher
func WithReconcilerOptions(opts ...reconciler.Option) Option {
	return func(c *config) error {
		c.reconciler = append(c.reconciler, opts...)
		return nil
	}
}

// WithStore shares a snapshot store between instances
func WithStore(store *snapshots.Store) Option {
	return func(c *config) error {
		if store == nil {
			return fmt.Errorf("snapshot store cannot be nil")
		}
		c.store = store
		return nil
	}
}

// WithConcurrency bounds concurrent file decoding
func WithConcurrency(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("concurrency must be positive, got %d", n)
		}
		c.concurrency = n
		return nil
	}
}

// WithClock sets the time source for dates, ages and check-in days
func WithClock(now func() time.Time) Option {
	return func(c *config) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		c.now = now
		return nil
	}
}
