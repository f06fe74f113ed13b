// Package export writes reconciled assets as CSV and snapshots as markdown
// reports.
package export

import (
	"encoding/csv"
	"io"

	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
)

// byteOrderMark lets spreadsheet applications detect UTF-8.
const byteOrderMark = "\ufeff"

// Header is the CSV column order.
var Header = []string{
	"Reference Number", "Serial Number", "Hostname", "Brand", "Model", "Type",
	"User", "Status", "Stock", "Intune", "Jamf", "Defender",
}

// WriteCSV writes assets as UTF-8 CSV with a byte order mark.
func WriteCSV(w io.Writer, assets []inventory.Asset) error {
	if _, err := io.WriteString(w, byteOrderMark); err != nil {
		return errors.WrapIO("write", "csv", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return errors.WrapIO("write", "csv", err)
	}
	for i := range assets {
		if err := cw.Write(Record(&assets[i])); err != nil {
			return errors.WrapIO("write", "csv", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.WrapIO("write", "csv", err)
	}
	return nil
}

// Record returns the CSV fields of a in Header order.
func Record(a *inventory.Asset) []string {
	return []string{
		a.AssetTag,
		a.SerialNumber,
		a.Hostname,
		a.Brand,
		a.Model,
		string(a.Type),
		a.DisplayUser(),
		a.StatusDescription,
		yesNo(a.IsStock),
		yesNo(a.Compliance.InIntune),
		yesNo(a.Compliance.InJamf),
		yesNo(a.Compliance.InDefender),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
