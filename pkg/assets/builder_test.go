package assets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/tabular"
)

var fixedNow = time.Date(2025, time.November, 15, 12, 0, 0, 0, time.UTC)

func newTestBuilder(t *testing.T, cfg *Config) *Builder {
	t.Helper()
	b, err := NewBuilder(cfg, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return b
}

func inventoryRow(pairs ...string) tabular.Row {
	var headers []string
	var cells []tabular.Cell
	for i := 0; i+1 < len(pairs); i += 2 {
		headers = append(headers, pairs[i])
		cells = append(cells, tabular.StringCell(pairs[i+1]))
	}
	return tabular.NewRow(headers, cells)
}

func TestAssetMacBookRoundTrip(t *testing.T) {
	b := newTestBuilder(t, nil)
	a := b.Asset(inventoryRow(
		"Marka", "Apple",
		"Model", "MacBook Pro M1",
		"Seri Numarası", "ABC123",
		"Hostname", "MAC-01",
		"Referans Numarası", "998877",
	), 0)

	assert.Equal(t, "asset-0", a.ID)
	assert.Equal(t, inventory.CategoryMacBook, a.Type)
	assert.Equal(t, "KSNABC123", a.AssetTag)
	assert.Equal(t, "ABC123", a.SerialNumber)
	assert.Equal(t, "MAC-01", a.Hostname)
	assert.False(t, a.Compliance.InIntune)
	assert.False(t, a.Compliance.InJamf)
	assert.False(t, a.Compliance.InDefender)
}

func TestSynthesizeTag(t *testing.T) {
	tests := []struct {
		name     string
		category inventory.Category
		tag      string
		serial   string
		want     string
	}{
		{"macbook", inventory.CategoryMacBook, "123", "C02XYZ", "KSNC02XYZ"},
		{"macbook serial already prefixed", inventory.CategoryMacBook, "", "KSNC02XYZ", "KSNC02XYZ"},
		{"macbook lowercase prefix", inventory.CategoryMacBook, "", "ksnC02XYZ", "KSNC02XYZ"},
		{"macbook without serial", inventory.CategoryMacBook, "T-1", "", "T-1"},
		{"iphone without tag", inventory.CategoryIPhone, "", "V22P3H6YY3", "V22P3H6YY3"},
		{"iphone keeps resolved tag", inventory.CategoryIPhone, "PHN-7", "V22P3H6YY3", "PHN-7"},
		{"ipad without tag", inventory.CategoryIPad, "", "DMPX", "DMPX"},
		{"notebook missing tag", inventory.CategoryNotebook, "", "5CG123", "KSN5CG123"},
		{"notebook unk tag", inventory.CategoryNotebook, "unk-4", "5CG123", "KSN5CG123"},
		{"notebook numeric tag", inventory.CategoryNotebook, "44556", "5CG123", "KSN44556"},
		{"notebook numeric tag no serial", inventory.CategoryNotebook, "44556", "", "KSN44556"},
		{"desktop numeric tag", inventory.CategoryDesktop, " 12345 ", "X", "KSN12345"},
		{"desktop alpha tag", inventory.CategoryDesktop, "D-12", "X", "D-12"},
		{"desktop missing tag", inventory.CategoryDesktop, "", "X", ""},
		{"monitor numeric tag", inventory.CategoryMonitor, "12345", "X", "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SynthesizeTag(tt.category, tt.tag, tt.serial))
		})
	}
}

func TestSynthesizeTagSinglePrefix(t *testing.T) {
	for _, serial := range []string{"ABC", "KSNABC", "KSNKSNABC", "ksnKsnABC"} {
		got := SynthesizeTag(inventory.CategoryMacBook, "", serial)
		assert.Equal(t, "KSNABC", got, serial)
	}
}

func TestAssetMobileSerialCleanup(t *testing.T) {
	b := newTestBuilder(t, nil)
	a := b.Asset(inventoryRow("Marka", "Apple", "Model", "iPhone 14", "Seri Numarası", "SV22P3H6YY3"), 3)

	assert.Equal(t, inventory.CategoryIPhone, a.Type)
	assert.Equal(t, "V22P3H6YY3", a.SerialNumber)
	assert.Equal(t, "V22P3H6YY3", a.AssetTag)
	assert.Equal(t, "V22P3H6YY3", a.Hostname, "hostname falls back to the tag")
}

func TestAssetPlaceholders(t *testing.T) {
	b := newTestBuilder(t, nil)
	a := b.Asset(inventoryRow("Model", "P2422H Monitor"), 7)

	assert.Equal(t, inventory.CategoryMonitor, a.Type)
	assert.Equal(t, "UNK-7", a.AssetTag)
	assert.Equal(t, "Unknown-7", a.Hostname)
	assert.Equal(t, "SN-7", a.SerialNumber)
	assert.Equal(t, inventory.UnassignedUser, a.AssignedUser)
	assert.Equal(t, "2025-11-15", a.PurchaseDate)
	assert.Equal(t, 0, a.AssetAgeDays)
}

func TestBuildIdentitiesNeverEmpty(t *testing.T) {
	b := newTestBuilder(t, nil)
	rows := []tabular.Row{
		inventoryRow(),
		inventoryRow("Foo", "bar"),
		inventoryRow("Seri Numarası", "  ", "Hostname", " "),
		inventoryRow("Marka", "Apple"),
		inventoryRow("Model", "iPad"),
	}
	res := b.Build(context.Background(), rows)
	require.Len(t, res.Assets, len(rows))
	for _, a := range res.Assets {
		assert.NotEmpty(t, a.SerialNumber)
		assert.NotEmpty(t, a.Hostname)
		assert.NotEmpty(t, a.AssetTag)
		assert.True(t, a.Type.IsValid())
	}
}

func TestAssetUsers(t *testing.T) {
	b := newTestBuilder(t, nil)

	a := b.Asset(inventoryRow("Kullanıcı Adı", "248555", "Tam İsim", "Ayşe Kaya"), 0)
	assert.Equal(t, "0248555", a.UserName)
	assert.Equal(t, "Ayşe Kaya", a.AssignedUser)

	a = b.Asset(inventoryRow("Sicil No", "969001"), 1)
	assert.Equal(t, "0969001", a.UserName)
	assert.Equal(t, "0969001", a.AssignedUser)

	a = b.Asset(inventoryRow("Kullanıcı", "123"), 2)
	assert.Equal(t, "123", a.UserName)
}

func TestAssetFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExemptSerials = []string{"C02VIP", "TEST*", `^MXP\d+$`}
	cfg.ExemptUsers = []string{"ayşe kaya", "0248999"}
	b := newTestBuilder(t, cfg)

	tests := []struct {
		name                   string
		row                    tabular.Row
		stock, dept, shared, x bool
	}{
		{"plain", inventoryRow("Seri", "X1", "Durum", "Kullanımda"), false, false, false, false},
		{"stock usage", inventoryRow("Kullanım Tipi", "STOK"), true, false, false, false},
		{"stock status", inventoryRow("Durum Açıklama", "Depoda bekliyor"), true, false, false, false},
		{"department usage", inventoryRow("Kullanım Tipi", "Departman"), false, true, false, false},
		{"shared prefix user", inventoryRow("Kullanıcı Adı", "031777"), false, true, true, false},
		{"exempt serial", inventoryRow("Seri Numarası", "s/n: c02vip"), false, false, false, true},
		{"exempt serial glob", inventoryRow("Seri Numarası", "test-42"), false, false, false, true},
		{"exempt serial uppercase regex", inventoryRow("Seri Numarası", "MXP1234"), false, false, false, true},
		{"uppercase regex mismatch", inventoryRow("Seri Numarası", "MXPX"), false, false, false, false},
		{"exempt full name turkish casing", inventoryRow("Tam İsim", "AYŞE KAYA"), false, false, false, true},
		{"exempt user id", inventoryRow("Kullanıcı Adı", "248999"), false, false, false, true},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := b.Asset(tt.row, i)
			assert.Equal(t, tt.stock, a.IsStock, "stock")
			assert.Equal(t, tt.dept, a.IsDepartment, "department")
			assert.Equal(t, tt.shared, a.IsSharedAccount, "shared account")
			assert.Equal(t, tt.x, a.IsExempt, "exempt")
		})
	}
}

func TestAssetDates(t *testing.T) {
	b := newTestBuilder(t, nil)

	a := b.Asset(inventoryRow("Demirbaş Yaşı", "2025-11-10"), 0)
	assert.Equal(t, "2025-11-10", a.PurchaseDate)
	assert.Equal(t, 6, a.AssetAgeDays)

	a = b.Asset(inventoryRow("Tarih", "01.11.2025"), 1)
	assert.Equal(t, "2025-11-01", a.PurchaseDate)

	a = b.Asset(inventoryRow("Purchase Date", "someday"), 2)
	assert.Equal(t, "someday", a.PurchaseDate)
	assert.Equal(t, 0, a.AssetAgeDays)
}

func TestBuildKeys(t *testing.T) {
	b := newTestBuilder(t, nil)
	res := b.Build(context.Background(), []tabular.Row{
		inventoryRow("Seri Numarası", "S/N: ABC123", "Hostname", "WS-100"),
		inventoryRow("Marka", "Apple", "Model", "iPhone 14", "Seri Numarası", "SV22P3H6YY3"),
	})

	assert.True(t, res.Keys.HasSerial("abc123"))
	assert.True(t, res.Keys.HasHostname("ws-100"))
	assert.True(t, res.Keys.HasSerial("v22p3h6yy3"))
	assert.False(t, res.Keys.HasSerial("sv22p3h6yy3"))
	assert.False(t, res.Keys.HasSerial(""))
	assert.Equal(t, 2, res.Keys.Serials())
	assert.Equal(t, 2, res.Keys.Hostnames())
}

func TestNewBuilderInvalidPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExemptSerials = []string{"^(broken"}
	_, err := NewBuilder(cfg)
	assert.Error(t, err)
}

func TestAgeDays(t *testing.T) {
	purchase := time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 6, AgeDays(purchase, fixedNow))
	assert.Equal(t, 6, AgeDays(fixedNow, purchase))
	assert.Equal(t, 0, AgeDays(fixedNow, fixedNow))
}
