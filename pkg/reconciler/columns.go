package reconciler

import "github.com/agentstation/assetmap/pkg/inventory"

// Columns lists the candidate column names read from a management report.
type Columns struct {
	Hostname        []string `yaml:"hostname,omitempty" json:"hostname,omitempty"`
	Serial          []string `yaml:"serial,omitempty" json:"serial,omitempty"`
	User            []string `yaml:"user,omitempty" json:"user,omitempty"`
	Model           []string `yaml:"model,omitempty" json:"model,omitempty"`
	OS              []string `yaml:"os,omitempty" json:"os,omitempty"`
	ComplianceState []string `yaml:"compliance_state,omitempty" json:"compliance_state,omitempty"`
	LastCheckIn     []string `yaml:"last_check_in,omitempty" json:"last_check_in,omitempty"`
}

// DefaultColumns returns the column synonyms of the standard export of source.
func DefaultColumns(source inventory.Source) Columns {
	switch source {
	case inventory.SourceIntune:
		return Columns{
			Hostname:        []string{"device name", "name", "hostname"},
			Serial:          []string{"serial", "serial number", "imei"},
			User:            []string{"primary user display name", "user display name", "primary user upn", "user"},
			Model:           []string{"model"},
			OS:              []string{"os", "operating system", "platform"},
			ComplianceState: []string{"compliance state", "compliance"},
			LastCheckIn:     []string{"last check-in", "last check in", "last sync", "last contact"},
		}
	case inventory.SourceJamf:
		return Columns{
			Hostname: []string{"device name", "name", "hostname", "bilgisayar adı"},
			Serial:   []string{"serial", "serial number", "seri numarası", "imei"},
			User:     []string{"username", "full name", "user"},
			Model:    []string{"model"},
			OS:       []string{"operating system", "os"},
		}
	case inventory.SourceDefender:
		return Columns{
			Hostname: []string{"device name", "devicename", "hostname", "bilgisayar adı"},
			Serial:   []string{"serial", "serial number", "seri numarası"},
			User:     []string{"isim_soyisim", "isim soyisim", "user", "username", "kullanıcı"},
			Model:    []string{"model"},
			OS:       []string{"os platform", "os", "platform"},
		}
	}
	return Columns{}
}
