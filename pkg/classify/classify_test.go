package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/assetmap/pkg/inventory"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name                      string
		brand, model, typ, status string
		want                      inventory.Category
	}{
		{"ipad", "Apple", "iPad Air 5", "", "", inventory.CategoryIPad},
		{"turkish uppercase ipad", "APPLE", "IPAD PRO", "", "", inventory.CategoryIPad},
		{"tablet keyword", "Samsung", "Galaxy Tab", "Tablet", "", inventory.CategoryIPad},
		{"iphone", "Apple", "iPhone 14", "", "", inventory.CategoryIPhone},
		{"turkish uppercase iphone", "APPLE", "IPHONE 13", "", "", inventory.CategoryIPhone},
		{"phone in status", "Apple", "A2633", "", "Telefon - kullanımda", inventory.CategoryIPhone},
		{"ios before mac", "Apple", "", "iOS device", "", inventory.CategoryIPhone},
		{"macbook", "Apple", "MacBook Pro M1", "", "", inventory.CategoryMacBook},
		{"imac", "Apple", "iMac 24", "", "", inventory.CategoryMacBook},
		{"monitor", "Dell", "P2422H", "Monitor", "", inventory.CategoryMonitor},
		{"ekran", "LG", "27UK850", "Ekran", "", inventory.CategoryMonitor},
		{"display on latitude is notebook", "Dell", "Latitude 7420 display", "", "", inventory.CategoryNotebook},
		{"display on mac is not monitor", "Apple", "Studio Display mac", "", "", inventory.CategoryMacBook},
		{"thinkpad", "Lenovo", "ThinkPad T14", "", "", inventory.CategoryNotebook},
		{"dizüstü", "Casper", "Nirvana", "Dizüstü", "", inventory.CategoryNotebook},
		{"optiplex", "Dell", "OptiPlex 7090", "", "", inventory.CategoryDesktop},
		{"masaüstü", "Casper", "Nirvana", "Masaüstü", "", inventory.CategoryDesktop},
		{"apple model number is iphone", "Apple", "13 128GB", "", "", inventory.CategoryIPhone},
		{"apple se", "Apple", "SE", "", "", inventory.CategoryIPhone},
		{"apple 16e", "Apple", "16E", "", "", inventory.CategoryIPhone},
		{"apple mac hardware", "Apple", "Pro 512 SSD", "", "", inventory.CategoryMacBook},
		{"apple mac hardware with storage size", "Apple", "Pro M2 256GB", "", "", inventory.CategoryIPhone},
		{"apple unknown", "Apple", "A2141", "", "", inventory.CategoryMacBook},
		{"default", "Acme", "X-1000", "", "", inventory.CategoryNotebook},
		{"empty", "", "", "", "", inventory.CategoryNotebook},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.brand, tt.model, tt.typ, tt.status))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	inputs := []string{"", " ", "İ", "ı", "\x00", "çğşöü", "💻", "MONITOR THINKPAD", "apple apple"}
	for _, a := range inputs {
		for _, b := range inputs {
			assert.True(t, Classify(a, b, a, b).IsValid())
		}
	}
}

func TestRulesOrder(t *testing.T) {
	var names []string
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"tablet", "phone", "mac", "monitor", "notebook", "desktop", "apple"}, names)
}

func TestExplain(t *testing.T) {
	c, rule := Explain("Dell", "OptiPlex", "", "")
	assert.Equal(t, inventory.CategoryDesktop, c)
	assert.Equal(t, "desktop", rule)

	c, rule = Explain("", "", "", "")
	assert.Equal(t, Default, c)
	assert.Equal(t, "default", rule)
}
