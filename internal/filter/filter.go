// Package filter provides query parameter parsing and filtering of asset lists
// for the CLI and the HTTP API.
package filter

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/stats"
)

// Dashboard selects the dashboard card an asset list is drilled into.
type Dashboard string

// Dashboard filters.
const (
	All             Dashboard = "ALL"
	Compliant       Dashboard = "COMPLIANT"
	MissingIntune   Dashboard = "MISSING_INTUNE"
	MissingJamf     Dashboard = "MISSING_JAMF"
	MissingDefender Dashboard = "MISSING_DEFENDER"
	Stock           Dashboard = "STOCK"
	OrphanIntune    Dashboard = "ORPHAN_INTUNE"
	OrphanJamf      Dashboard = "ORPHAN_JAMF"
	OrphanDefender  Dashboard = "ORPHAN_DEFENDER"
)

// Dashboards returns every dashboard filter.
func Dashboards() []Dashboard {
	return []Dashboard{All, Compliant, MissingIntune, MissingJamf, MissingDefender, Stock, OrphanIntune, OrphanJamf, OrphanDefender}
}

// ParseDashboard resolves a dashboard filter case-insensitively. An empty
// name is All.
func ParseDashboard(name string) (Dashboard, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return All, nil
	}
	for _, d := range Dashboards() {
		if string(d) == name {
			return d, nil
		}
	}
	return "", &errors.ValidationError{Field: "dashboard", Value: name, Message: "unknown dashboard filter"}
}

// OrphanSource returns the source whose orphans d selects.
func (d Dashboard) OrphanSource() (inventory.Source, bool) {
	switch d {
	case OrphanIntune:
		return inventory.SourceIntune, true
	case OrphanJamf:
		return inventory.SourceJamf, true
	case OrphanDefender:
		return inventory.SourceDefender, true
	}
	return "", false
}

// Column names accepted by Options.
const (
	ColumnStatus       = "status"
	ColumnBrand        = "brand"
	ColumnModel        = "model"
	ColumnAssignedUser = "assigned_user"
)

// Filter contains all possible filter criteria for assets.
type Filter struct {
	Dashboard Dashboard

	// Device is a category name; "iPhone" also selects iPads.
	Device string

	// Exact column filters
	Status       string
	Brand        string
	Model        string
	AssignedUser string

	// Search is a case-insensitive substring over identity and user fields.
	Search string

	// Pagination; Limit 0 returns everything after Offset.
	Limit  int
	Offset int

	// Policy judges the compliance dashboards. Nil means the default policy.
	Policy *stats.Policy
}

// ParseQuery builds a Filter from URL query parameters.
func ParseQuery(q url.Values) (Filter, error) {
	dashboard, err := ParseDashboard(q.Get("dashboard"))
	if err != nil {
		return Filter{}, err
	}
	device := strings.TrimSpace(q.Get("device"))
	if device != "" && !strings.EqualFold(device, "all") {
		if _, ok := inventory.ParseCategory(device); !ok {
			return Filter{}, &errors.ValidationError{Field: "device", Value: device, Message: "unknown device type"}
		}
	}
	return Filter{
		Dashboard:    dashboard,
		Device:       device,
		Status:       q.Get("status"),
		Brand:        q.Get("brand"),
		Model:        q.Get("model"),
		AssignedUser: q.Get("user"),
		Search:       q.Get("q"),
		Limit:        parseIntOrDefault(q.Get("limit"), 100),
		Offset:       parseIntOrDefault(q.Get("offset"), 0),
	}, nil
}

// Select picks the collection of snap that f applies to: orphan dashboards
// read the orphans, everything else the inventory.
func (f Filter) Select(snap *inventory.Snapshot) []inventory.Asset {
	if _, ok := f.Dashboard.OrphanSource(); ok {
		return snap.Orphans
	}
	return snap.Assets
}

// Apply returns the page of assets matching f as a new slice. The input and
// its compliance fields are never modified.
func Apply(assets []inventory.Asset, f Filter) []inventory.Asset {
	return f.page(f.match(assets))
}

// Total returns how many assets match f before pagination.
func Total(assets []inventory.Asset, f Filter) int {
	return len(f.match(assets))
}

func (f Filter) match(assets []inventory.Asset) []inventory.Asset {
	if f.Policy == nil {
		f.Policy = stats.DefaultPolicy()
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))

	results := make([]inventory.Asset, 0, len(assets))
	for i := range assets {
		a := &assets[i]
		if f.matchesDashboard(a) &&
			f.matchesDevice(a) &&
			f.matchesColumns(a) &&
			matchesSearch(a, term) {
			results = append(results, *a.Clone())
		}
	}
	return results
}

// matchesDashboard checks the dashboard card. Compliance cards only count
// assets in the policy's production universe, like the dashboard does.
func (f Filter) matchesDashboard(a *inventory.Asset) bool {
	if source, ok := f.Dashboard.OrphanSource(); ok {
		return a.IsOrphan && a.OrphanSource == source
	}
	switch f.Dashboard {
	case Stock:
		return a.IsStock
	case Compliant:
		return f.Policy.InProduction(a) && f.Policy.Compliant(a)
	case MissingIntune:
		return f.Policy.InProduction(a) && f.Policy.Missing(a, inventory.SourceIntune)
	case MissingJamf:
		return f.Policy.InProduction(a) && f.Policy.Missing(a, inventory.SourceJamf)
	case MissingDefender:
		return f.Policy.InProduction(a) && f.Policy.Missing(a, inventory.SourceDefender)
	}
	return true
}

// matchesDevice checks the device category filter.
func (f Filter) matchesDevice(a *inventory.Asset) bool {
	return matchesDevice(a, f.Device)
}

func matchesDevice(a *inventory.Asset, device string) bool {
	if device == "" || strings.EqualFold(device, "all") {
		return true
	}
	if strings.EqualFold(device, string(inventory.CategoryIPhone)) {
		return a.Type.IsMobile()
	}
	return strings.EqualFold(string(a.Type), device)
}

// matchesColumns checks the exact column filters.
func (f Filter) matchesColumns(a *inventory.Asset) bool {
	if f.Status != "" && a.StatusDescription != f.Status {
		return false
	}
	if f.Brand != "" && a.Brand != f.Brand {
		return false
	}
	if f.Model != "" && a.Model != f.Model {
		return false
	}
	if f.AssignedUser != "" && a.DisplayUser() != f.AssignedUser {
		return false
	}
	return true
}

// matchesSearch checks the free text search.
func matchesSearch(a *inventory.Asset, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{a.Hostname, a.AssetTag, a.SerialNumber, a.FullName, a.UserName, a.AssignedUser, a.Brand} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (f Filter) page(assets []inventory.Asset) []inventory.Asset {
	if f.Offset > 0 {
		if f.Offset >= len(assets) {
			return []inventory.Asset{}
		}
		assets = assets[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(assets) {
		assets = assets[:f.Limit]
	}
	return assets
}

// Options lists the distinct, sorted values of column among assets of the
// given device type, for building column filter menus.
func Options(assets []inventory.Asset, column, device string) ([]string, error) {
	var value func(*inventory.Asset) string
	switch column {
	case ColumnStatus:
		value = func(a *inventory.Asset) string { return a.StatusDescription }
	case ColumnBrand:
		value = func(a *inventory.Asset) string { return a.Brand }
	case ColumnModel:
		value = func(a *inventory.Asset) string { return a.Model }
	case ColumnAssignedUser:
		value = func(a *inventory.Asset) string { return a.DisplayUser() }
	default:
		return nil, &errors.ValidationError{Field: "column", Value: column, Message: "unknown filter column"}
	}

	seen := make(map[string]struct{})
	out := []string{}
	for i := range assets {
		a := &assets[i]
		if !matchesDevice(a, device) {
			continue
		}
		v := value(a)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out, nil
}

// parseIntOrDefault parses a non-negative integer or returns default.
func parseIntOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 {
		return i
	}
	return def
}
