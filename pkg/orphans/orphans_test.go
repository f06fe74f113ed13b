package orphans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/assetmap/pkg/assets"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/reconciler"
	"github.com/agentstation/assetmap/pkg/tabular"
)

func build(source inventory.Source, records ...[]string) *reconciler.Index {
	return reconciler.BuildIndex(context.Background(), source, tabular.FromRecords(records), reconciler.DefaultColumns(source))
}

func testKeys() *assets.MatchedKeys {
	keys := assets.NewMatchedKeys()
	keys.AddSerial("abc123")
	keys.AddHostname("pc-01")
	return keys
}

func TestDetectIntuneOrphanDedupedOnce(t *testing.T) {
	intune := build(inventory.SourceIntune,
		[]string{"Device name", "Serial number", "Compliance"},
		[]string{"pc-01", "ABC123", "Compliant"},
		[]string{"ghost-01", "ZZZ999", "Noncompliant"},
		[]string{"ghost-01b", "zzz999", "Compliant"},
	)

	got := Detect(context.Background(), reconciler.Indexes{Intune: intune}, testKeys())
	require.Len(t, got, 1)

	o := got[0]
	assert.True(t, o.IsOrphan)
	assert.Equal(t, inventory.SourceIntune, o.OrphanSource)
	assert.Equal(t, "ZZZ999", o.SerialNumber)
	assert.Equal(t, "ghost-01b", o.Hostname)
	assert.Equal(t, "orphan-intune-0", o.ID)
	assert.Equal(t, StatusNotInInventory, o.StatusDescription)
	assert.True(t, o.Compliance.InIntune)
	assert.Equal(t, inventory.MatchSerial, o.Compliance.IntuneMatchMethod)
	assert.False(t, o.Compliance.InJamf)
	assert.False(t, o.Compliance.InDefender)
}

func TestDetectSoundness(t *testing.T) {
	keys := testKeys()
	idx := reconciler.Indexes{
		Intune: build(inventory.SourceIntune,
			[]string{"Device name", "Serial number"},
			[]string{"PC-01", "other"},     // hostname known
			[]string{"elsewhere", "abc123"}, // serial known
			[]string{"ghost", ""},
		),
		Jamf: build(inventory.SourceJamf,
			[]string{"Name", "Serial Number", "Model"},
			[]string{"mac-ghost", "C02GHOST", "MacBook Pro"},
		),
		Defender: build(inventory.SourceDefender,
			[]string{"DeviceName"},
			[]string{"ghost"},
			[]string{"GHOST"},
		),
	}

	got := Detect(context.Background(), idx, keys)
	require.Len(t, got, 3)

	for _, o := range got {
		assert.False(t, keys.HasSerial(o.SerialNumber), o.ID)
		assert.False(t, keys.HasHostname(o.Hostname), o.ID)
		assert.True(t, o.Compliance.In(o.OrphanSource), o.ID)
		assert.NotEmpty(t, o.SerialNumber)
		assert.NotEmpty(t, o.Hostname)
	}

	assert.Equal(t, inventory.MatchHostname, got[0].Compliance.IntuneMatchMethod)
	assert.Equal(t, "SN-intune-0", got[0].SerialNumber)
	assert.Equal(t, inventory.CategoryMacBook, got[1].Type)
	assert.Equal(t, inventory.SourceDefender, got[2].OrphanSource)

	assert.Equal(t, map[inventory.Source]int{
		inventory.SourceIntune:   1,
		inventory.SourceJamf:     1,
		inventory.SourceDefender: 1,
	}, Counts(got))
}

func TestDetectNoReports(t *testing.T) {
	assert.Empty(t, Detect(context.Background(), reconciler.Indexes{}, testKeys()))
	assert.Equal(t, 0, Counts(nil)[inventory.SourceJamf])
}
