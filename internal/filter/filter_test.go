package filter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/stats"
)

func fixture() []inventory.Asset {
	mac := inventory.Asset{ID: "mac", Hostname: "KSNC02", AssetTag: "KSNC02", SerialNumber: "C02", Type: inventory.CategoryMacBook, Brand: "Apple", FullName: "Ayşe Kaya", AssignedUser: "Ayşe Kaya"}
	mac.Compliance.Mark(inventory.SourceJamf, inventory.MatchSerial, nil)
	mac.Compliance.Mark(inventory.SourceDefender, inventory.MatchHostname, nil)

	pc := inventory.Asset{ID: "pc", Hostname: "PC-01", AssetTag: "KSN1001", SerialNumber: "PF01", Type: inventory.CategoryNotebook, Brand: "Lenovo", Model: "T14", StatusDescription: "Active", UserName: "0248777", AssignedUser: "0248777"}
	pc.Compliance.Mark(inventory.SourceIntune, inventory.MatchSerial, nil)

	phone := inventory.Asset{ID: "phone", Hostname: "F17", AssetTag: "F17", SerialNumber: "F17", Type: inventory.CategoryIPhone, Brand: "Apple", AssignedUser: inventory.UnassignedUser}
	tablet := inventory.Asset{ID: "tablet", Hostname: "DMP", AssetTag: "DMP", SerialNumber: "DMP", Type: inventory.CategoryIPad, Brand: "Apple", AssignedUser: inventory.UnassignedUser}
	tablet.Compliance.Mark(inventory.SourceIntune, inventory.MatchSerial, nil)

	stock := inventory.Asset{ID: "stock", Hostname: "PC-02", AssetTag: "KSN1002", SerialNumber: "PF02", Type: inventory.CategoryNotebook, Brand: "Dell", StatusDescription: "Depo", IsStock: true, AssignedUser: inventory.UnassignedUser}

	return []inventory.Asset{mac, pc, phone, tablet, stock}
}

func ids(assets []inventory.Asset) []string {
	out := make([]string, len(assets))
	for i := range assets {
		out[i] = assets[i].ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{"all", Filter{}, []string{"mac", "pc", "phone", "tablet", "stock"}},
		{"compliant", Filter{Dashboard: Compliant}, []string{"mac", "tablet"}},
		{"missing intune", Filter{Dashboard: MissingIntune}, []string{"phone"}},
		{"missing jamf", Filter{Dashboard: MissingJamf}, []string{}},
		{"missing defender", Filter{Dashboard: MissingDefender}, []string{"pc"}},
		{"missing defender strict", Filter{Dashboard: MissingDefender, Policy: stats.StrictPolicy()}, []string{"pc", "phone", "tablet"}},
		{"stock", Filter{Dashboard: Stock}, []string{"stock"}},
		{"iphone includes ipad", Filter{Device: "iPhone"}, []string{"phone", "tablet"}},
		{"ipad only", Filter{Device: "ipad"}, []string{"tablet"}},
		{"brand", Filter{Brand: "Apple", Device: "MacBook"}, []string{"mac"}},
		{"status", Filter{Status: "Depo"}, []string{"stock"}},
		{"assigned user uses display name", Filter{AssignedUser: "Ayşe Kaya"}, []string{"mac"}},
		{"search serial", Filter{Search: "pf0"}, []string{"pc", "stock"}},
		{"search user id", Filter{Search: "0248"}, []string{"pc"}},
		{"search brand", Filter{Search: "LENOVO"}, []string{"pc"}},
		{"limit", Filter{Limit: 2}, []string{"mac", "pc"}},
		{"offset", Filter{Offset: 3, Limit: 10}, []string{"tablet", "stock"}},
		{"offset past end", Filter{Offset: 9}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(Apply(fixture(), tt.filter)))
		})
	}
}

func TestApplyDoesNotMutate(t *testing.T) {
	assets := fixture()
	got := Apply(assets, Filter{Dashboard: Compliant})
	require.NotEmpty(t, got)

	got[0].Compliance.InJamf = false
	assert.True(t, assets[0].Compliance.InJamf)
	assert.Equal(t, 2, Total(assets, Filter{Dashboard: Compliant, Limit: 1}))
}

func TestSelectOrphans(t *testing.T) {
	snap := &inventory.Snapshot{
		Assets: fixture(),
		Orphans: []inventory.Asset{
			{ID: "orphan-intune-0", IsOrphan: true, OrphanSource: inventory.SourceIntune},
			{ID: "orphan-jamf-0", IsOrphan: true, OrphanSource: inventory.SourceJamf},
		},
	}
	f := Filter{Dashboard: OrphanJamf}
	assert.Equal(t, []string{"orphan-jamf-0"}, ids(Apply(f.Select(snap), f)))

	f = Filter{Dashboard: Stock}
	assert.Equal(t, []string{"stock"}, ids(Apply(f.Select(snap), f)))
}

func TestParseQuery(t *testing.T) {
	f, err := ParseQuery(url.Values{
		"dashboard": {"missing_defender"},
		"device":    {"iPhone"},
		"q":         {"kaya"},
		"user":      {"Ayşe Kaya"},
		"limit":     {"25"},
		"offset":    {"-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, Filter{
		Dashboard:    MissingDefender,
		Device:       "iPhone",
		Search:       "kaya",
		AssignedUser: "Ayşe Kaya",
		Limit:        25,
		Offset:       0,
	}, f)

	f, err = ParseQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, All, f.Dashboard)
	assert.Equal(t, 100, f.Limit)

	_, err = ParseQuery(url.Values{"dashboard": {"BROKEN"}})
	assert.True(t, errors.IsValidationError(err))

	_, err = ParseQuery(url.Values{"device": {"toaster"}})
	assert.True(t, errors.IsValidationError(err))
}

func TestOptions(t *testing.T) {
	got, err := Options(fixture(), ColumnBrand, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Dell", "Lenovo"}, got)

	got, err = Options(fixture(), ColumnAssignedUser, "iPhone")
	require.NoError(t, err)
	assert.Equal(t, []string{inventory.UnassignedUser}, got)

	_, err = Options(fixture(), "colour", "")
	assert.True(t, errors.IsValidationError(err))
}
