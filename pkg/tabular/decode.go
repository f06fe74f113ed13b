// Package tabular decodes spreadsheet and CSV exports into loosely typed rows.
//
// Only the first sheet of a workbook is read and the first non-blank row is
// taken as the header row. Cells keep their type (text, number, date) so that
// date cells can be rendered uniformly as YYYY-MM-DD.
package tabular

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/logging"
)

// Format is a supported input file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Extensions lists the file extensions DetectFormat accepts, without dots.
func Extensions() []string {
	return []string{"csv", "txt", "tsv", "xlsx", "xlsm", "xltx", "xltm"}
}

// DetectFormat picks a format from the file extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", ".tsv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	default:
		return "", &errors.ValidationError{
			Field:   "file",
			Value:   name,
			Message: "unsupported file format " + filepath.Ext(name),
			Err:     errors.ErrUnsupportedFormat,
		}
	}
}

// Decode reads the whole of r and decodes it according to the extension of name.
func Decode(ctx context.Context, name string, r io.Reader) ([]Row, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}
	return DecodeBytes(ctx, format, name, payload)
}

// DecodeFile opens and decodes the file at path.
func DecodeFile(ctx context.Context, path string) ([]Row, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return DecodeBytes(ctx, format, path, payload)
}

// DecodeBytes decodes payload as format. name is used in errors and logs.
func DecodeBytes(ctx context.Context, format Format, name string, payload []byte) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		rows []Row
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = decodeCSV(ctx, payload)
	case FormatXLSX:
		rows, err = decodeXLSX(ctx, bytes.NewReader(payload))
	default:
		return nil, errors.NewValidationError("format", format, "unsupported file format")
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.WrapParse(string(format), name, err)
	}

	logging.FromContext(ctx).Debug().
		Str("file", filepath.Base(name)).
		Str("format", string(format)).
		Int("rows", len(rows)).
		Msg("Decoded table")
	return rows, nil
}
