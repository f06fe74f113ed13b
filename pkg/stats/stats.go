// Package stats derives DashboardStats from a reconciled Asset collection
// under a named compliance Policy.
package stats

import (
	"context"
	"math"

	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/logging"
	"github.com/agentstation/assetmap/pkg/orphans"
)

// Platform labels used for coverage.
const (
	PlatformWindows = "Windows"
	PlatformMobile  = inventory.MobileBucket
	PlatformMac     = "macOS"
)

// Input is everything the aggregate is computed from.
type Input struct {
	Assets      []inventory.Asset
	Orphans     []inventory.Asset
	CloudCounts map[inventory.Source]int
}

// Compute builds the DashboardStats of in under policy p. A nil policy
// selects DefaultPolicy.
func Compute(ctx context.Context, in Input, p *Policy) inventory.DashboardStats {
	if p == nil {
		p = DefaultPolicy()
	}

	s := inventory.DashboardStats{
		TotalAssets:              len(in.Assets),
		TotalIntuneReportCount:   in.CloudCounts[inventory.SourceIntune],
		TotalJamfReportCount:     in.CloudCounts[inventory.SourceJamf],
		TotalDefenderReportCount: in.CloudCounts[inventory.SourceDefender],
		OrphanCounts:             orphans.Counts(in.Orphans),
	}

	production := make([]*inventory.Asset, 0, len(in.Assets))
	for i := range in.Assets {
		a := &in.Assets[i]
		if a.IsStock {
			s.StockCount++
			if a.Compliance.InIntune || a.Compliance.InJamf {
				s.RiskyStockCount++
			}
		}
		if p.InProduction(a) {
			production = append(production, a)
		}
	}

	s.ProductionCount = len(production)
	for _, a := range production {
		if p.Compliant(a) {
			s.CompliantCount++
		}
		if p.Missing(a, inventory.SourceIntune) {
			s.MissingIntuneCount++
		}
		if p.Missing(a, inventory.SourceJamf) {
			s.MissingJamfCount++
		}
		if p.Missing(a, inventory.SourceDefender) {
			s.MissingDefenderCount++
		}
	}

	if s.ProductionCount > 0 {
		ratio := float64(s.MissingDefenderCount) / float64(s.ProductionCount) * 100
		s.MissingDefenderRatio = math.Round(ratio*100) / 100
	}
	s.DeviceTypeDistribution = Distribution(in.Assets)
	s.PlatformCoverage = platformCoverage(production)

	logging.FromContext(ctx).Debug().
		Str("policy", p.Name).
		Int("assets", s.TotalAssets).
		Int("production", s.ProductionCount).
		Int("compliant", s.CompliantCount).
		Int("missing_defender", s.MissingDefenderCount).
		Msg("Stats computed")

	return s
}

// Distribution counts assets per display bucket in order of first appearance.
// iPhone and iPad share one bucket.
func Distribution(assets []inventory.Asset) []inventory.NameValue {
	out := []inventory.NameValue{}
	pos := make(map[string]int)
	for i := range assets {
		bucket := assets[i].Type.DisplayBucket()
		if j, ok := pos[bucket]; ok {
			out[j].Value++
			continue
		}
		pos[bucket] = len(out)
		out = append(out, inventory.NameValue{Name: bucket, Value: 1})
	}
	return out
}

// platformCoverage reports, over the production universe, how many Windows
// and mobile Assets are in Intune and how many Macs are in Jamf.
func platformCoverage(production []*inventory.Asset) []inventory.Coverage {
	windows := inventory.Coverage{Platform: PlatformWindows, Source: inventory.SourceIntune}
	mobile := inventory.Coverage{Platform: PlatformMobile, Source: inventory.SourceIntune}
	mac := inventory.Coverage{Platform: PlatformMac, Source: inventory.SourceJamf}

	for _, a := range production {
		var c *inventory.Coverage
		switch {
		case a.Type.IsPC():
			c = &windows
		case a.Type.IsMobile():
			c = &mobile
		case a.Type == inventory.CategoryMacBook:
			c = &mac
		default:
			continue
		}
		c.Total++
		if a.Compliance.In(c.Source) {
			c.Covered++
		}
	}

	out := []inventory.Coverage{windows, mobile, mac}
	for i := range out {
		out[i].Ratio = percent(out[i].Covered, out[i].Total)
	}
	return out
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
