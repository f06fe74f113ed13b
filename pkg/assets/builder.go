// Package assets converts inventory rows into canonical Asset records.
//
// Each row is resolved through the column synonyms of a Config, classified,
// and given a display asset tag by category-specific rules. Missing values
// never fail a row: placeholders (SN-{i}, Unknown-{i}, UNK-{i}) and today's
// date stand in for absent identifiers and purchase dates.
//
// Build returns the Assets together with the MatchedKeys of the inventory so
// orphan detection can run without rereading the rows.
package assets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/assetmap/internal/matcher"
	"github.com/agentstation/assetmap/pkg/classify"
	"github.com/agentstation/assetmap/pkg/fields"
	"github.com/agentstation/assetmap/pkg/identifier"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/logging"
	"github.com/agentstation/assetmap/pkg/tabular"
)

// Builder turns inventory rows into Assets. A Builder is safe for concurrent
// use; each Build call uses its own resolver.
type Builder struct {
	cfg *Config
	now func() time.Time

	exemptSerials  *matcher.Set
	exemptNames    *matcher.Set
	exemptUserIDs  *matcher.Set
	sharedPrefixes *matcher.Set
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the clock used for default dates and asset age.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder compiles the allow-lists of cfg. A nil cfg uses DefaultConfig.
func NewBuilder(cfg *Config, opts ...Option) (*Builder, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	b := &Builder{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}

	var err error
	if b.exemptSerials, err = matcher.NewSet(cfg.ExemptSerials, matcher.Auto, &matcher.Options{Fold: identifier.Normalize}); err != nil {
		return nil, fmt.Errorf("exempt serials: %w", err)
	}
	if b.exemptNames, err = matcher.NewSet(cfg.ExemptUsers, matcher.Contains, &matcher.Options{Fold: fields.Fold}); err != nil {
		return nil, fmt.Errorf("exempt users: %w", err)
	}
	if b.exemptUserIDs, err = matcher.NewSet(cfg.ExemptUsers, matcher.Exact, &matcher.Options{Fold: fields.Fold}); err != nil {
		return nil, fmt.Errorf("exempt users: %w", err)
	}
	if b.sharedPrefixes, err = matcher.NewSet(cfg.SharedUserPrefixes, matcher.Prefix, nil); err != nil {
		return nil, fmt.Errorf("shared user prefixes: %w", err)
	}
	return b, nil
}

// Config returns the builder's configuration.
func (b *Builder) Config() *Config { return b.cfg }

// Result is the output of Build.
type Result struct {
	Assets []inventory.Asset
	Keys   *MatchedKeys
}

// buildStats counts soft anomalies for the debug log.
type buildStats struct {
	serialPlaceholders   int
	hostnamePlaceholders int
	tagPlaceholders      int
	defaultDates         int
	unparsedDates        int
	stock                int
	department           int
	exempt               int
}

// Build converts every row. Row i yields the Asset with ID asset-{i}.
func (b *Builder) Build(ctx context.Context, rows []tabular.Row) Result {
	res := Result{
		Assets: make([]inventory.Asset, 0, len(rows)),
		Keys:   NewMatchedKeys(),
	}
	r := fields.NewResolver()
	var st buildStats
	for i, row := range rows {
		a := b.asset(r, row, i, &st)
		res.Keys.AddSerial(identifier.Normalize(a.SerialNumber))
		res.Keys.AddHostname(identifier.Hostname(a.Hostname))
		res.Assets = append(res.Assets, a)
	}

	logger := logging.FromContext(ctx)
	if logger.GetLevel() <= zerolog.DebugLevel {
		logger.Debug().
			Int("assets", len(res.Assets)).
			Int("serial_placeholders", st.serialPlaceholders).
			Int("hostname_placeholders", st.hostnamePlaceholders).
			Int("tag_placeholders", st.tagPlaceholders).
			Int("default_dates", st.defaultDates).
			Int("unparsed_dates", st.unparsedDates).
			Int("stock", st.stock).
			Int("department", st.department).
			Int("exempt", st.exempt).
			Msg("Built inventory assets")
	}
	return res
}

// Asset converts a single row.
func (b *Builder) Asset(row tabular.Row, index int) inventory.Asset {
	var st buildStats
	return b.asset(fields.NewResolver(), row, index, &st)
}

func (b *Builder) asset(r *fields.Resolver, row tabular.Row, index int, st *buildStats) inventory.Asset {
	cols := b.cfg.Columns

	tag := r.Resolve(row, cols.AssetTag...)
	status := r.Resolve(row, cols.Status...)
	brand := r.Resolve(row, cols.Brand...)
	model := r.Resolve(row, cols.Model...)
	rawSerial := r.Resolve(row, cols.Serial...)
	userName := r.Resolve(row, cols.UserName...)
	fullName := r.Resolve(row, cols.FullName...)
	rawCategory := r.Resolve(row, cols.Category...)
	usage := r.Resolve(row, cols.UsageType...)

	userName = b.restoreLeadingZero(userName)

	category := classify.Classify(brand, model, rawCategory, status)
	serial := identifier.CleanMobileSerial(identifier.StripLabel(rawSerial), category)
	tag = SynthesizeTag(category, tag, serial)

	hostname := r.Resolve(row, cols.Hostname...)
	if hostname == "" {
		hostname = tag
	}
	if hostname == "" {
		hostname = fmt.Sprintf("Unknown-%d", index)
		st.hostnamePlaceholders++
	}
	if tag == "" {
		tag = fmt.Sprintf("UNK-%d", index)
		st.tagPlaceholders++
	}
	if serial == "" {
		serial = fmt.Sprintf("SN-%d", index)
		st.serialPlaceholders++
	}

	now := b.now()
	purchase := r.Resolve(row, cols.PurchaseDate...)
	var age int
	switch t, ok := tabular.ParseDate(purchase); {
	case purchase == "":
		purchase = now.Format(tabular.DateLayout)
		st.defaultDates++
	case ok:
		purchase = t.Format(tabular.DateLayout)
		age = AgeDays(t, now)
	default:
		st.unparsedDates++
	}

	assigned := fullName
	if assigned == "" {
		assigned = userName
	}
	if assigned == "" {
		assigned = inventory.UnassignedUser
	}

	usageFolded := r.Fold(usage)
	statusFolded := r.Fold(status)
	isStock := containsAny(usageFolded, b.cfg.StockKeywords) || containsAny(statusFolded, b.cfg.StockKeywords)
	isShared := userName != "" && b.sharedPrefixes.Match(userName)
	isDepartment := containsAny(usageFolded, b.cfg.DepartmentKeywords) || isShared
	isExempt := b.exemptSerials.Match(serial) ||
		(fullName != "" && b.exemptNames.Match(fullName)) ||
		(userName != "" && b.exemptUserIDs.Match(userName))

	if isStock {
		st.stock++
	}
	if isDepartment {
		st.department++
	}
	if isExempt {
		st.exempt++
	}

	return inventory.Asset{
		ID:                fmt.Sprintf("asset-%d", index),
		AssetTag:          tag,
		SerialNumber:      serial,
		Hostname:          hostname,
		Brand:             brand,
		Model:             model,
		StatusDescription: status,
		Type:              category,
		PurchaseDate:      purchase,
		AssetAgeDays:      age,
		UserName:          userName,
		FullName:          fullName,
		AssignedUser:      assigned,
		IsStock:           isStock,
		IsDepartment:      isDepartment,
		IsSharedAccount:   isShared,
		IsExempt:          isExempt,
	}
}

func (b *Builder) restoreLeadingZero(userName string) string {
	for _, p := range b.cfg.LeadingZeroPrefixes {
		if p != "" && strings.HasPrefix(userName, p) {
			return "0" + userName
		}
	}
	return userName
}

func containsAny(folded string, keywords []string) bool {
	if folded == "" {
		return false
	}
	for _, k := range keywords {
		if k = fields.Fold(k); k != "" && strings.Contains(folded, k) {
			return true
		}
	}
	return false
}
