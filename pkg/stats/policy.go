package stats

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
)

// Requirement names the management sources a category must appear in to
// count as compliant.
type Requirement struct {
	Intune   bool `json:"intune" yaml:"intune"`
	Jamf     bool `json:"jamf" yaml:"jamf"`
	Defender bool `json:"defender" yaml:"defender"`
}

// Requires reports whether source is part of r.
func (r Requirement) Requires(source inventory.Source) bool {
	switch source {
	case inventory.SourceIntune:
		return r.Intune
	case inventory.SourceJamf:
		return r.Jamf
	case inventory.SourceDefender:
		return r.Defender
	}
	return false
}

// Policy decides which Assets are measured and what compliance means for
// each category.
type Policy struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Requirements per category. Categories without an entry require Intune.
	Requirements map[inventory.Category]Requirement `json:"requirements" yaml:"requirements"`
}

// fallback applies to categories a policy does not list.
var fallback = Requirement{Intune: true}

// DefaultPolicy is the standard rule set. Phones and tablets need Intune
// only, since Defender coverage of mobile devices is not enforced.
func DefaultPolicy() *Policy {
	return &Policy{
		Name:        "default",
		Description: "Macs need Jamf and Defender, PCs need Intune and Defender, everything else needs Intune",
		Requirements: map[inventory.Category]Requirement{
			inventory.CategoryMacBook:  {Jamf: true, Defender: true},
			inventory.CategoryDesktop:  {Intune: true, Defender: true},
			inventory.CategoryNotebook: {Intune: true, Defender: true},
			inventory.CategoryIPhone:   {Intune: true},
			inventory.CategoryIPad:     {Intune: true},
			inventory.CategoryMonitor:  {Intune: true},
			inventory.CategoryOther:    {Intune: true},
		},
	}
}

// StrictPolicy extends the default policy with Defender on phones and tablets.
func StrictPolicy() *Policy {
	p := DefaultPolicy()
	p.Name = "strict"
	p.Description = "Default policy plus Defender on iPhone and iPad"
	p.Requirements[inventory.CategoryIPhone] = Requirement{Intune: true, Defender: true}
	p.Requirements[inventory.CategoryIPad] = Requirement{Intune: true, Defender: true}
	return p
}

// Requirement returns the requirement of category.
func (p *Policy) Requirement(category inventory.Category) Requirement {
	if r, ok := p.Requirements[category]; ok {
		return r
	}
	return fallback
}

// Compliant reports whether a satisfies its category's requirement.
// Exempt Assets are always compliant.
func (p *Policy) Compliant(a *inventory.Asset) bool {
	if a.IsExempt {
		return true
	}
	r := p.Requirement(a.Type)
	c := a.Compliance
	return (!r.Intune || c.InIntune) &&
		(!r.Jamf || c.InJamf) &&
		(!r.Defender || c.InDefender)
}

// Missing reports whether a's category requires source and a was not found
// in it.
func (p *Policy) Missing(a *inventory.Asset, source inventory.Source) bool {
	return p.Requirement(a.Type).Requires(source) && !a.Compliance.In(source)
}

// InProduction reports whether a belongs to the measured universe. Stock,
// exempt and orphan Assets are left out, as are department Assets held by a
// shared account and department Macs.
func (p *Policy) InProduction(a *inventory.Asset) bool {
	switch {
	case a.IsOrphan, a.IsStock, a.IsExempt:
		return false
	case a.IsDepartment && a.Type == inventory.CategoryMacBook:
		return false
	case a.IsDepartment && a.IsSharedAccount:
		return false
	}
	return true
}

// Validate checks the policy is usable.
func (p *Policy) Validate() error {
	if p == nil {
		return &errors.ValidationError{Field: "policy", Message: "cannot be nil"}
	}
	if strings.TrimSpace(p.Name) == "" {
		return &errors.ValidationError{Field: "name", Message: "policy name is required"}
	}
	for category := range p.Requirements {
		if !category.IsValid() {
			return &errors.ValidationError{
				Field:   "requirements",
				Value:   category,
				Message: fmt.Sprintf("unknown category %q", category),
			}
		}
	}
	return nil
}

// ParsePolicy decodes a YAML policy. Categories the document leaves out keep
// the default policy's requirement.
func ParsePolicy(data []byte) (*Policy, error) {
	var doc Policy
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}

	p := DefaultPolicy()
	p.Name = doc.Name
	if doc.Description != "" {
		p.Description = doc.Description
	}
	for category, r := range doc.Requirements {
		p.Requirements[category] = r
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadPolicy reads and parses a YAML policy file.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	p, err := ParsePolicy(data)
	if err != nil {
		return nil, errors.NewConfigError("policy", path, err)
	}
	return p, nil
}
