package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/assetmap/internal/cmd/table"
)

func sample() Data {
	return Data{
		Headers:         []string{"Metric", "Value"},
		Rows:            [][]string{{"Total assets", "3"}, {"Compliant", "2"}},
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignRight},
	}
}

func TestPrint(t *testing.T) {
	payload := map[string]int{"total_assets": 3}

	tests := []struct {
		format   Format
		contains []string
	}{
		{FormatTable, []string{"Total assets", "Compliant"}},
		{FormatWide, []string{"Total assets"}},
		{FormatJSON, []string{`"total_assets": 3`}},
		{FormatYAML, []string{"total_assets: 3"}},
		{FormatMarkdown, []string{"| Metric", "Total assets"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Print(&buf, tt.format, payload, sample()))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, []string{"a"}))
	assert.JSONEq(t, `["a"]`, buf.String())
}

func TestMarkdownNeedsTable(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewFormatter(FormatMarkdown).Format(&buf, 42))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", "", false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"wide", FormatWide, false},
		{"markdown", FormatMarkdown, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}
