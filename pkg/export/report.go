package export

import (
	"fmt"
	"io"
	"strconv"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
)

// WriteReport writes a markdown summary of snap: headline counts, the gaps
// per management source, device distribution, platform coverage and
// orphans.
func WriteReport(w io.Writer, snap *inventory.Snapshot) error {
	if snap == nil {
		return &errors.ValidationError{Field: "snapshot", Message: "cannot be nil"}
	}
	s := snap.Stats

	title := "Asset Compliance Report"
	if snap.PeriodLabel != "" {
		title += ": " + snap.PeriodLabel
	}

	doc := md.NewMarkdown(w).
		H1(title).
		PlainTextf("Snapshot %s, created %s, policy %s.",
			md.Code(snap.ID), snap.DateCreated.Format("2006-01-02 15:04 UTC"), md.Bold(policyName(snap.Policy))).
		LF()
	if snap.Draft {
		doc.Blockquote("Draft snapshot. Promote it to keep it as a period record.")
	}

	doc.H2("Summary").
		Table(md.TableSet{
			Header: []string{"Metric", "Value"},
			Rows: [][]string{
				{"Total assets", itoa(s.TotalAssets)},
				{"Production assets", itoa(s.ProductionCount)},
				{"Compliant", fmt.Sprintf("%d (%s)", s.CompliantCount, percent(s.CompliantCount, s.ProductionCount))},
				{"Stock", itoa(s.StockCount)},
				{"Risky stock", itoa(s.RiskyStockCount)},
			},
		})

	doc.H2("Management gaps").
		Table(md.TableSet{
			Header: []string{"Source", "Report records", "Missing assets", "Orphans"},
			Rows: [][]string{
				{"Intune", itoa(s.TotalIntuneReportCount), itoa(s.MissingIntuneCount), itoa(s.OrphanCounts[inventory.SourceIntune])},
				{"Jamf", itoa(s.TotalJamfReportCount), itoa(s.MissingJamfCount), itoa(s.OrphanCounts[inventory.SourceJamf])},
				{"Defender", itoa(s.TotalDefenderReportCount), itoa(s.MissingDefenderCount), itoa(s.OrphanCounts[inventory.SourceDefender])},
			},
		}).
		PlainTextf("Missing Defender ratio: %s", md.Bold(strconv.FormatFloat(s.MissingDefenderRatio, 'f', 2, 64)+"%")).
		LF()

	if len(s.PlatformCoverage) > 0 {
		rows := make([][]string, 0, len(s.PlatformCoverage))
		for _, c := range s.PlatformCoverage {
			rows = append(rows, []string{c.Platform, string(c.Source), fmt.Sprintf("%d / %d", c.Covered, c.Total), itoa(c.Ratio) + "%"})
		}
		doc.H2("Platform coverage").
			Table(md.TableSet{Header: []string{"Platform", "Source", "Covered", "Ratio"}, Rows: rows})
	}

	if len(s.DeviceTypeDistribution) > 0 {
		rows := make([][]string, 0, len(s.DeviceTypeDistribution))
		for _, nv := range s.DeviceTypeDistribution {
			rows = append(rows, []string{nv.Name, itoa(nv.Value)})
		}
		doc.H2("Device types").
			Table(md.TableSet{Header: []string{"Type", "Count"}, Rows: rows})
	}

	if err := doc.Build(); err != nil {
		return errors.WrapIO("write", "report", err)
	}
	return nil
}

func policyName(name string) string {
	if name == "" {
		return "default"
	}
	return name
}

func percent(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return strconv.FormatFloat(float64(n)/float64(total)*100, 'f', 1, 64) + "%"
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
