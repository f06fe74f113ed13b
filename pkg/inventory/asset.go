// Package inventory defines the records produced by a reconciliation run:
// inventory-sourced Assets with their compliance annotations, orphaned
// management records, aggregate DashboardStats and the immutable Snapshot
// that bundles them.
package inventory

import (
	"maps"

	"github.com/agentstation/utc"
)

// UnassignedUser is the display value for assets with no resolved user.
const UnassignedUser = "Unassigned"

// Record is a management report row kept for audit display,
// keyed by column header.
type Record map[string]string

// Asset is one inventory-sourced device record, or a synthetic orphan.
type Asset struct {
	// Identity
	ID           string `json:"id" yaml:"id"`
	AssetTag     string `json:"asset_tag" yaml:"asset_tag"`
	SerialNumber string `json:"serial_number" yaml:"serial_number"`
	Hostname     string `json:"hostname" yaml:"hostname"`

	// Descriptive
	Brand             string   `json:"brand,omitempty" yaml:"brand,omitempty"`
	Model             string   `json:"model,omitempty" yaml:"model,omitempty"`
	StatusDescription string   `json:"status_description,omitempty" yaml:"status_description,omitempty"`
	Type              Category `json:"type" yaml:"type"`
	PurchaseDate      string   `json:"purchase_date,omitempty" yaml:"purchase_date,omitempty"` // YYYY-MM-DD
	AssetAgeDays      int      `json:"asset_age_days" yaml:"asset_age_days"`

	// Assignment
	UserName     string `json:"user_name,omitempty" yaml:"user_name,omitempty"`
	FullName     string `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	AssignedUser string `json:"assigned_user" yaml:"assigned_user"`

	// Policy flags
	IsStock      bool   `json:"is_stock" yaml:"is_stock"`
	IsDepartment bool   `json:"is_department" yaml:"is_department"`
	IsExempt     bool   `json:"is_exempt" yaml:"is_exempt"`
	IsOrphan     bool   `json:"is_orphan,omitempty" yaml:"is_orphan,omitempty"`
	OrphanSource Source `json:"orphan_source,omitempty" yaml:"orphan_source,omitempty"`

	// IsSharedAccount marks a user id carrying a shared-account prefix.
	IsSharedAccount bool `json:"is_shared_account,omitempty" yaml:"is_shared_account,omitempty"`

	Compliance Compliance `json:"compliance" yaml:"compliance"`
}

// Compliance holds the per-source presence of an Asset.
type Compliance struct {
	InIntune   bool `json:"in_intune" yaml:"in_intune"`
	InJamf     bool `json:"in_jamf" yaml:"in_jamf"`
	InDefender bool `json:"in_defender" yaml:"in_defender"`

	IntuneMatchMethod   MatchMethod `json:"intune_match_method,omitempty" yaml:"intune_match_method,omitempty"`
	JamfMatchMethod     MatchMethod `json:"jamf_match_method,omitempty" yaml:"jamf_match_method,omitempty"`
	DefenderMatchMethod MatchMethod `json:"defender_match_method,omitempty" yaml:"defender_match_method,omitempty"`

	// Intune specific
	ComplianceState string `json:"compliance_state,omitempty" yaml:"compliance_state,omitempty"`
	LastCheckInDays *int   `json:"last_check_in_days,omitempty" yaml:"last_check_in_days,omitempty"`

	RawIntune   Record `json:"raw_intune,omitempty" yaml:"raw_intune,omitempty"`
	RawJamf     Record `json:"raw_jamf,omitempty" yaml:"raw_jamf,omitempty"`
	RawDefender Record `json:"raw_defender,omitempty" yaml:"raw_defender,omitempty"`

	LastSync utc.Time `json:"last_sync" yaml:"last_sync"`
}

// In reports whether the asset was found in source.
func (c Compliance) In(source Source) bool {
	switch source {
	case SourceIntune:
		return c.InIntune
	case SourceJamf:
		return c.InJamf
	case SourceDefender:
		return c.InDefender
	}
	return false
}

// Method returns the match method recorded for source.
func (c Compliance) Method(source Source) MatchMethod {
	switch source {
	case SourceIntune:
		return c.IntuneMatchMethod
	case SourceJamf:
		return c.JamfMatchMethod
	case SourceDefender:
		return c.DefenderMatchMethod
	}
	return MatchNone
}

// Raw returns the report row that matched source, if any.
func (c Compliance) Raw(source Source) Record {
	switch source {
	case SourceIntune:
		return c.RawIntune
	case SourceJamf:
		return c.RawJamf
	case SourceDefender:
		return c.RawDefender
	}
	return nil
}

// Mark flags source as present with the given method and raw row.
func (c *Compliance) Mark(source Source, method MatchMethod, raw Record) {
	switch source {
	case SourceIntune:
		c.InIntune, c.IntuneMatchMethod, c.RawIntune = true, method, raw
	case SourceJamf:
		c.InJamf, c.JamfMatchMethod, c.RawJamf = true, method, raw
	case SourceDefender:
		c.InDefender, c.DefenderMatchMethod, c.RawDefender = true, method, raw
	}
}

// Clear resets presence for source.
func (c *Compliance) Clear(source Source) {
	switch source {
	case SourceIntune:
		c.InIntune, c.IntuneMatchMethod, c.RawIntune = false, MatchNone, nil
		c.ComplianceState, c.LastCheckInDays = "", nil
	case SourceJamf:
		c.InJamf, c.JamfMatchMethod, c.RawJamf = false, MatchNone, nil
	case SourceDefender:
		c.InDefender, c.DefenderMatchMethod, c.RawDefender = false, MatchNone, nil
	}
}

// DisplayUser returns the value shown in user columns.
func (a *Asset) DisplayUser() string {
	switch {
	case a.FullName != "":
		return a.FullName
	case a.UserName != "":
		return a.UserName
	case a.AssignedUser != "":
		return a.AssignedUser
	}
	return UnassignedUser
}

// Clone returns a copy that shares no mutable state with a.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	c := *a
	c.Compliance.RawIntune = maps.Clone(a.Compliance.RawIntune)
	c.Compliance.RawJamf = maps.Clone(a.Compliance.RawJamf)
	c.Compliance.RawDefender = maps.Clone(a.Compliance.RawDefender)
	if a.Compliance.LastCheckInDays != nil {
		d := *a.Compliance.LastCheckInDays
		c.Compliance.LastCheckInDays = &d
	}
	return &c
}
