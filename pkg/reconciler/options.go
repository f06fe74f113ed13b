package reconciler

import (
	"time"

	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
)

// options configures a reconciler.
type options struct {
	strategies map[inventory.Source]Strategy
	columns    map[inventory.Source]Columns
	userMatch  bool
	now        func() time.Time
}

func defaultOptions() *options {
	columns := make(map[inventory.Source]Columns, 3)
	for _, s := range inventory.Sources() {
		columns[s] = DefaultColumns(s)
	}
	return &options{
		strategies: DefaultStrategies(),
		columns:    columns,
		userMatch:  true,
		now:        time.Now,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithStrategy replaces the match strategy of the strategy's source.
func WithStrategy(strategy Strategy) Option {
	return func(o *options) error {
		if err := strategy.Validate(); err != nil {
			return err
		}
		o.strategies[strategy.Source] = strategy
		return nil
	}
}

// WithColumns replaces the column synonyms used to index source.
func WithColumns(source inventory.Source, cols Columns) Option {
	return func(o *options) error {
		if !source.IsValid() {
			return &errors.ValidationError{Field: "source", Value: source, Message: "unknown source"}
		}
		if len(cols.Serial) == 0 && len(cols.Hostname) == 0 {
			return &errors.ValidationError{Field: "columns", Message: "serial or hostname columns are required"}
		}
		o.columns[source] = cols
		return nil
	}
}

// WithUserMatch enables or disables the Defender user-handle match for
// phones and tablets.
func WithUserMatch(enabled bool) Option {
	return func(o *options) error {
		o.userMatch = enabled
		return nil
	}
}

// WithClock sets the time source used for LastSync and check-in age.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{Field: "clock", Message: "cannot be nil"}
		}
		o.now = now
		return nil
	}
}
