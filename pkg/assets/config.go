package assets

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/assetmap/pkg/errors"
)

// Columns lists, per Asset field, the candidate column names tried in order.
type Columns struct {
	AssetTag     []string `yaml:"asset_tag,omitempty" json:"asset_tag,omitempty"`
	Status       []string `yaml:"status,omitempty" json:"status,omitempty"`
	Brand        []string `yaml:"brand,omitempty" json:"brand,omitempty"`
	Model        []string `yaml:"model,omitempty" json:"model,omitempty"`
	Serial       []string `yaml:"serial,omitempty" json:"serial,omitempty"`
	UserName     []string `yaml:"user_name,omitempty" json:"user_name,omitempty"`
	FullName     []string `yaml:"full_name,omitempty" json:"full_name,omitempty"`
	Category     []string `yaml:"category,omitempty" json:"category,omitempty"`
	PurchaseDate []string `yaml:"purchase_date,omitempty" json:"purchase_date,omitempty"`
	Hostname     []string `yaml:"hostname,omitempty" json:"hostname,omitempty"`
	UsageType    []string `yaml:"usage_type,omitempty" json:"usage_type,omitempty"`
}

// DefaultColumns returns the column synonyms of the standard inventory export.
func DefaultColumns() Columns {
	return Columns{
		AssetTag:     []string{"referans numarası", "referans", "asset tag", "demirbaş no"},
		Status:       []string{"durum açıklama", "durum açıklam", "durum"},
		Brand:        []string{"marka", "brand", "üretici"},
		Model:        []string{"model", "model adı", "ürün", "ürün adı"},
		Serial:       []string{"seri numarası", "seri", "serial number", "serial"},
		UserName:     []string{"kullanıcı adı", "kullanıcı", "username", "sicil", "sicil no"},
		FullName:     []string{"tam isim", "isim", "ad soyad", "adı soyadı", "personel adı", "fullname"},
		Category:     []string{"tip", "tür", "cins", "kategori", "category", "type", "device type"},
		PurchaseDate: []string{"demirbaş yaşı", "tarih", "purchase date"},
		Hostname:     []string{"hostname", "device name", "bilgisayar adı"},
		UsageType:    []string{"kullanım tipi", "kullanım türü", "kullanım", "usage type", "usage"},
	}
}

// Config holds the inventory interpretation rules: exemption allow-lists,
// stock and department markers, and column synonyms.
type Config struct {
	// ExemptSerials are serial patterns (exact, glob or regex) of manually
	// exempted devices, compared against normalized serials.
	ExemptSerials []string `yaml:"exempt_serials,omitempty" json:"exempt_serials,omitempty"`
	// ExemptUsers are name fragments; a device is exempt when its folded
	// full name contains one, or its user id equals one.
	ExemptUsers []string `yaml:"exempt_users,omitempty" json:"exempt_users,omitempty"`

	// SharedUserPrefixes mark shared-use department accounts.
	SharedUserPrefixes []string `yaml:"shared_user_prefixes,omitempty" json:"shared_user_prefixes,omitempty"`
	// DepartmentKeywords mark department devices in the usage type column.
	DepartmentKeywords []string `yaml:"department_keywords,omitempty" json:"department_keywords,omitempty"`
	// StockKeywords mark stored devices in the usage type or status columns.
	StockKeywords []string `yaml:"stock_keywords,omitempty" json:"stock_keywords,omitempty"`
	// LeadingZeroPrefixes are user id prefixes that lost their leading zero
	// in the export.
	LeadingZeroPrefixes []string `yaml:"leading_zero_prefixes,omitempty" json:"leading_zero_prefixes,omitempty"`

	Columns Columns `yaml:"columns,omitempty" json:"columns,omitempty"`
}

// DefaultConfig returns the built-in rules with empty exemption lists.
func DefaultConfig() *Config {
	return &Config{
		SharedUserPrefixes:  []string{"031"},
		DepartmentKeywords:  []string{"departman"},
		StockKeywords:       []string{"stok", "depo", "stock", "warehouse"},
		LeadingZeroPrefixes: []string{"248", "969"},
		Columns:             DefaultColumns(),
	}
}

// ParseConfig decodes YAML onto the defaults. Lists present in data replace
// the corresponding defaults; absent lists keep them.
func ParseConfig(data []byte) (*Config, error) {
	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, errors.WrapParse("yaml", "", fmt.Errorf("unmarshaling asset config: %w", err))
	}
	cfg := DefaultConfig()
	cfg.Merge(&override)
	return cfg, nil
}

// LoadConfig reads a YAML config file. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.NewConfigError("assets", "invalid config file "+path, err)
	}
	return cfg, nil
}

// Merge copies every non-empty list of o onto c.
func (c *Config) Merge(o *Config) {
	if o == nil {
		return
	}
	mergeList(&c.ExemptSerials, o.ExemptSerials)
	mergeList(&c.ExemptUsers, o.ExemptUsers)
	mergeList(&c.SharedUserPrefixes, o.SharedUserPrefixes)
	mergeList(&c.DepartmentKeywords, o.DepartmentKeywords)
	mergeList(&c.StockKeywords, o.StockKeywords)
	mergeList(&c.LeadingZeroPrefixes, o.LeadingZeroPrefixes)

	mergeList(&c.Columns.AssetTag, o.Columns.AssetTag)
	mergeList(&c.Columns.Status, o.Columns.Status)
	mergeList(&c.Columns.Brand, o.Columns.Brand)
	mergeList(&c.Columns.Model, o.Columns.Model)
	mergeList(&c.Columns.Serial, o.Columns.Serial)
	mergeList(&c.Columns.UserName, o.Columns.UserName)
	mergeList(&c.Columns.FullName, o.Columns.FullName)
	mergeList(&c.Columns.Category, o.Columns.Category)
	mergeList(&c.Columns.PurchaseDate, o.Columns.PurchaseDate)
	mergeList(&c.Columns.Hostname, o.Columns.Hostname)
	mergeList(&c.Columns.UsageType, o.Columns.UsageType)
}

func mergeList(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = append([]string(nil), src...)
	}
}
