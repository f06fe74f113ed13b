package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/assetmap/internal/cmd/emoji"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/stats"
)

func testAssets() []inventory.Asset {
	days := 3
	return []inventory.Asset{
		{
			Hostname:     "MAC-01",
			SerialNumber: "ABC123",
			AssetTag:     "KSNABC123",
			Type:         inventory.CategoryMacBook,
			Brand:        "Apple",
			FullName:     "Ayşe Demir",
			Compliance: inventory.Compliance{
				InJamf:              true,
				JamfMatchMethod:     inventory.MatchSerial,
				InDefender:          true,
				DefenderMatchMethod: inventory.MatchHostname,
				LastCheckInDays:     &days,
			},
		},
		{
			SerialNumber: "DL001",
			Type:         inventory.CategoryNotebook,
		},
	}
}

func TestAssetsToTableData(t *testing.T) {
	data := AssetsToTableData(testAssets(), false)

	require.Len(t, data.Headers, 9)
	require.Len(t, data.Rows, 2)
	assert.Len(t, data.ColumnAlignment, len(data.Headers))

	mac := data.Rows[0]
	assert.Equal(t, "MAC-01", mac[0])
	assert.Equal(t, "Ayşe Demir", mac[5])
	assert.Equal(t, []string{emoji.Error, emoji.Success, emoji.Success}, mac[6:9])

	bare := data.Rows[1]
	assert.Equal(t, "-", bare[0])
	assert.Equal(t, inventory.UnassignedUser, bare[5])
}

func TestAssetsToTableDataWide(t *testing.T) {
	data := AssetsToTableData(testAssets(), true)

	require.Len(t, data.Headers, 14)
	assert.Len(t, data.ColumnAlignment, 14)

	mac := data.Rows[0]
	assert.Equal(t, "KSNABC123", mac[9])
	assert.Equal(t, "3", mac[12])
	assert.Equal(t, "Jamf:Serial, Defender:Hostname", mac[13])

	bare := data.Rows[1]
	assert.Equal(t, "-", bare[12])
	assert.Equal(t, "-", bare[13])
}

func TestOrphansToTableData(t *testing.T) {
	data := OrphansToTableData([]inventory.Asset{{
		Hostname:     "GHOST-01",
		SerialNumber: "GH001",
		IsOrphan:     true,
		OrphanSource: inventory.SourceIntune,
	}})

	require.Len(t, data.Rows, 1)
	assert.Equal(t, "Intune", data.Rows[0][0])
	assert.Equal(t, "GHOST-01", data.Rows[0][1])
}

func TestStatsToTableData(t *testing.T) {
	data := StatsToTableData(inventory.DashboardStats{
		TotalAssets:          10,
		MissingDefenderRatio: 12.5,
		OrphanCounts:         map[inventory.Source]int{inventory.SourceJamf: 2},
		PlatformCoverage: []inventory.Coverage{
			{Platform: "macOS", Source: inventory.SourceJamf, Covered: 3, Total: 4, Ratio: 75},
		},
		DeviceTypeDistribution: []inventory.NameValue{{Name: "iPhone & iPad", Value: 5}},
	})

	values := map[string]string{}
	for _, row := range data.Rows {
		values[row[0]] = row[1]
	}
	assert.Equal(t, "10", values["Total assets"])
	assert.Equal(t, "12.50%", values["Missing Defender ratio"])
	assert.Equal(t, "2", values["Orphans (Jamf)"])
	assert.Equal(t, "0", values["Orphans (Intune)"])
	assert.Equal(t, "3/4 (75%)", values["macOS in Jamf"])
	assert.Equal(t, "5", values["Type: iPhone & iPad"])
}

func TestSummaryToTableData(t *testing.T) {
	data := SummaryToTableData(inventory.Summary{ID: "snap-1", Draft: true, Policy: "default", TotalAssets: 4})

	values := map[string]string{}
	for _, row := range data.Rows {
		values[row[0]] = row[1]
	}
	assert.Equal(t, "snap-1", values["Snapshot"])
	assert.Equal(t, "-", values["Period"])
	assert.Equal(t, "draft", values["State"])
	assert.Equal(t, "4", values["Assets"])
}

func TestPoliciesToTableData(t *testing.T) {
	data := PoliciesToTableData([]*stats.Policy{
		{Name: "default", Description: "Standard requirements"},
		{Name: "strict"},
	}, "strict")

	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"", "default", "Standard requirements"}, data.Rows[0])
	assert.Equal(t, []string{emoji.Success, "strict", "-"}, data.Rows[1])
}
