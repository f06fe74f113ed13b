package inventory

import (
	"maps"

	"github.com/agentstation/utc"
)

// Snapshot is the immutable result of one reconciliation run.
type Snapshot struct {
	ID          string   `json:"id" yaml:"id"`
	PeriodLabel string   `json:"period_label" yaml:"period_label"`
	DateCreated utc.Time `json:"date_created" yaml:"date_created"`
	Draft       bool     `json:"draft" yaml:"draft"`
	Policy      string   `json:"policy" yaml:"policy"`

	Assets      []Asset        `json:"assets" yaml:"assets"`
	Orphans     []Asset        `json:"orphans" yaml:"orphans"`
	CloudCounts map[Source]int `json:"cloud_counts" yaml:"cloud_counts"`
	Stats       DashboardStats `json:"stats" yaml:"stats"`
}

// Summary is a snapshot without its record collections.
type Summary struct {
	ID          string   `json:"id" yaml:"id"`
	PeriodLabel string   `json:"period_label" yaml:"period_label"`
	DateCreated utc.Time `json:"date_created" yaml:"date_created"`
	Draft       bool     `json:"draft" yaml:"draft"`
	Policy      string   `json:"policy" yaml:"policy"`
	TotalAssets int      `json:"total_assets" yaml:"total_assets"`
	Orphans     int      `json:"orphans" yaml:"orphans"`
	Compliant   int      `json:"compliant" yaml:"compliant"`
}

// Summary returns the header fields of s.
func (s *Snapshot) Summary() Summary {
	return Summary{
		ID:          s.ID,
		PeriodLabel: s.PeriodLabel,
		DateCreated: s.DateCreated,
		Draft:       s.Draft,
		Policy:      s.Policy,
		TotalAssets: len(s.Assets),
		Orphans:     len(s.Orphans),
		Compliant:   s.Stats.CompliantCount,
	}
}

// Copy returns a deep copy of s.
func (s *Snapshot) Copy() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Assets = cloneAssets(s.Assets)
	c.Orphans = cloneAssets(s.Orphans)
	c.CloudCounts = maps.Clone(s.CloudCounts)
	c.Stats.OrphanCounts = maps.Clone(s.Stats.OrphanCounts)
	c.Stats.DeviceTypeDistribution = append([]NameValue(nil), s.Stats.DeviceTypeDistribution...)
	c.Stats.PlatformCoverage = append([]Coverage(nil), s.Stats.PlatformCoverage...)
	return &c
}

func cloneAssets(in []Asset) []Asset {
	if in == nil {
		return nil
	}
	out := make([]Asset, len(in))
	for i := range in {
		out[i] = *in[i].Clone()
	}
	return out
}
