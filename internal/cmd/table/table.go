// Package table converts reconciliation results into rows for CLI tables.
package table

import (
	"strconv"

	"github.com/agentstation/assetmap/internal/cmd/emoji"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/stats"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data is a rendered table.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// AssetsToTableData converts assets to table format. Wide output adds the
// match method of every source and the Intune compliance state.
func AssetsToTableData(assets []inventory.Asset, wide bool) Data {
	headers := []string{"Hostname", "Serial", "Type", "Brand", "Model", "User", "Intune", "Jamf", "Defender"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignCenter, AlignCenter, AlignCenter}
	if wide {
		headers = append(headers, "Asset Tag", "Status", "Compliance", "Check-in (days)", "Matched By")
		align = append(align, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft)
	}

	rows := make([][]string, 0, len(assets))
	for i := range assets {
		a := &assets[i]
		row := []string{
			dash(a.Hostname),
			dash(a.SerialNumber),
			string(a.Type),
			dash(a.Brand),
			dash(a.Model),
			a.DisplayUser(),
			check(a.Compliance.InIntune),
			check(a.Compliance.InJamf),
			check(a.Compliance.InDefender),
		}
		if wide {
			row = append(row,
				dash(a.AssetTag),
				dash(a.StatusDescription),
				dash(a.Compliance.ComplianceState),
				checkInDays(a.Compliance.LastCheckInDays),
				methods(a.Compliance),
			)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// OrphansToTableData converts orphan records to table format.
func OrphansToTableData(orphans []inventory.Asset) Data {
	rows := make([][]string, 0, len(orphans))
	for i := range orphans {
		o := &orphans[i]
		rows = append(rows, []string{
			string(o.OrphanSource),
			dash(o.Hostname),
			dash(o.SerialNumber),
			string(o.Type),
			dash(o.Model),
			o.DisplayUser(),
		})
	}
	return Data{
		Headers: []string{"Source", "Hostname", "Serial", "Type", "Model", "User"},
		Rows:    rows,
	}
}

// StatsToTableData converts dashboard figures to a metric/value table.
func StatsToTableData(s inventory.DashboardStats) Data {
	rows := [][]string{
		{"Total assets", itoa(s.TotalAssets)},
		{"Intune records", itoa(s.TotalIntuneReportCount)},
		{"Jamf records", itoa(s.TotalJamfReportCount)},
		{"Defender records", itoa(s.TotalDefenderReportCount)},
		{"In production", itoa(s.ProductionCount)},
		{"Compliant", itoa(s.CompliantCount)},
		{"Missing Intune", itoa(s.MissingIntuneCount)},
		{"Missing Jamf", itoa(s.MissingJamfCount)},
		{"Missing Defender", itoa(s.MissingDefenderCount)},
		{"Missing Defender ratio", strconv.FormatFloat(s.MissingDefenderRatio, 'f', 2, 64) + "%"},
		{"Stock", itoa(s.StockCount)},
		{"Risky stock", itoa(s.RiskyStockCount)},
	}
	for _, source := range inventory.Sources() {
		rows = append(rows, []string{"Orphans (" + string(source) + ")", itoa(s.OrphanCounts[source])})
	}
	for _, c := range s.PlatformCoverage {
		rows = append(rows, []string{
			c.Platform + " in " + string(c.Source),
			itoa(c.Covered) + "/" + itoa(c.Total) + " (" + itoa(c.Ratio) + "%)",
		})
	}
	for _, d := range s.DeviceTypeDistribution {
		rows = append(rows, []string{"Type: " + d.Name, itoa(d.Value)})
	}

	return Data{
		Headers:         []string{"Metric", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// SummaryToTableData converts a snapshot header to a property/value table.
func SummaryToTableData(s inventory.Summary) Data {
	state := "permanent"
	if s.Draft {
		state = "draft"
	}
	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"Snapshot", s.ID},
			{"Period", dash(s.PeriodLabel)},
			{"Created", s.DateCreated.Format("2006-01-02 15:04:05")},
			{"State", state},
			{"Policy", s.Policy},
			{"Assets", itoa(s.TotalAssets)},
			{"Orphans", itoa(s.Orphans)},
			{"Compliant", itoa(s.Compliant)},
		},
	}
}

// PoliciesToTableData lists compliance policies, marking the active one.
func PoliciesToTableData(policies []*stats.Policy, active string) Data {
	rows := make([][]string, 0, len(policies))
	for _, p := range policies {
		marker := ""
		if p.Name == active {
			marker = emoji.Success
		}
		rows = append(rows, []string{marker, p.Name, dash(p.Description)})
	}
	return Data{
		Headers:         []string{"", "Name", "Description"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft},
	}
}

func check(ok bool) string {
	if ok {
		return emoji.Success
	}
	return emoji.Error
}

func methods(c inventory.Compliance) string {
	out := ""
	for _, source := range inventory.Sources() {
		m := c.Method(source)
		if m == inventory.MatchNone {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += string(source) + ":" + m.String()
	}
	return dash(out)
}

func checkInDays(days *int) string {
	if days == nil {
		return "-"
	}
	return itoa(*days)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
