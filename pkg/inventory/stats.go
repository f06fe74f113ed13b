package inventory

// NameValue is one bucket of a distribution.
type NameValue struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// Coverage is the share of a platform's production assets present in its
// management source.
type Coverage struct {
	Platform string `json:"platform" yaml:"platform"`
	Source   Source `json:"source" yaml:"source"`
	Covered  int    `json:"covered" yaml:"covered"`
	Total    int    `json:"total" yaml:"total"`
	Ratio    int    `json:"ratio" yaml:"ratio"` // integer percent
}

// DashboardStats is the aggregate derived from an Asset collection.
type DashboardStats struct {
	TotalAssets              int `json:"total_assets" yaml:"total_assets"`
	TotalIntuneReportCount   int `json:"total_intune_report_count" yaml:"total_intune_report_count"`
	TotalJamfReportCount     int `json:"total_jamf_report_count" yaml:"total_jamf_report_count"`
	TotalDefenderReportCount int `json:"total_defender_report_count" yaml:"total_defender_report_count"`

	ProductionCount      int `json:"production_count" yaml:"production_count"`
	CompliantCount       int `json:"compliant_count" yaml:"compliant_count"`
	MissingIntuneCount   int `json:"missing_intune_count" yaml:"missing_intune_count"`
	MissingJamfCount     int `json:"missing_jamf_count" yaml:"missing_jamf_count"`
	MissingDefenderCount int `json:"missing_defender_count" yaml:"missing_defender_count"`
	StockCount           int `json:"stock_count" yaml:"stock_count"`
	RiskyStockCount      int `json:"risky_stock_count" yaml:"risky_stock_count"`

	DeviceTypeDistribution []NameValue `json:"device_type_distribution" yaml:"device_type_distribution"`
	MissingDefenderRatio   float64     `json:"missing_defender_ratio" yaml:"missing_defender_ratio"`

	OrphanCounts     map[Source]int `json:"orphan_counts" yaml:"orphan_counts"`
	PlatformCoverage []Coverage     `json:"platform_coverage" yaml:"platform_coverage"`
}

// ReportCount returns the raw record count of source.
func (s *DashboardStats) ReportCount(source Source) int {
	switch source {
	case SourceIntune:
		return s.TotalIntuneReportCount
	case SourceJamf:
		return s.TotalJamfReportCount
	case SourceDefender:
		return s.TotalDefenderReportCount
	}
	return 0
}
