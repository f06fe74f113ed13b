package cmdutil

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/assetmap/internal/filter"
	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/tabular"
)

func TestInputs(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	flags := AddInputFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"-i", "inventory.xlsx", "--jamf", "jamf.csv", "--label", "2025-11"}))

	in, err := flags.Inputs()
	require.NoError(t, err)
	require.NotNil(t, in.Inventory)
	assert.Equal(t, "inventory.xlsx", in.Inventory.Name)
	assert.Equal(t, "2025-11", in.Label)
	require.NotNil(t, in.Report(inventory.SourceJamf))
	assert.Equal(t, "jamf.csv", in.Report(inventory.SourceJamf).Name)
	assert.Nil(t, in.Report(inventory.SourceIntune))
	assert.Nil(t, in.Report(inventory.SourceDefender))
}

func TestInputFlagsCompleteDecodableFiles(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	AddInputFlags(cmd)

	for _, name := range InputFlagNames {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		exts := flag.Annotations[cobra.BashCompFilenameExt]
		require.NotEmpty(t, exts, name)
		assert.NotContains(t, exts, "xls", name)
		for _, ext := range exts {
			_, err := tabular.DetectFormat("report." + ext)
			assert.NoError(t, err, "%s: .%s", name, ext)
		}
	}
	assert.NotContains(t, cmd.Flags().Lookup("inventory").Usage, "xls,")
}

func TestInputsMissingInventory(t *testing.T) {
	flags := &InputFlags{Intune: "intune.csv"}

	_, err := flags.Inputs()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingInventory)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    filter.Filter
		wantErr bool
	}{
		{
			name: "defaults list everything",
			args: nil,
			want: filter.Filter{Dashboard: filter.All},
		},
		{
			name: "all flags",
			args: []string{"-d", "missing_defender", "--device", "Notebook", "--brand", "Dell", "--user", "12345", "-s", "pc-", "-l", "10", "--offset", "5"},
			want: filter.Filter{
				Dashboard:    filter.MissingDefender,
				Device:       "Notebook",
				Brand:        "Dell",
				AssignedUser: "12345",
				Search:       "pc-",
				Limit:        10,
				Offset:       5,
			},
		},
		{
			name:    "unknown dashboard",
			args:    []string{"-d", "bogus"},
			wantErr: true,
		},
		{
			name:    "unknown device",
			args:    []string{"--device", "toaster"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "test"}
			flags := AddFilterFlags(cmd)
			require.NoError(t, cmd.ParseFlags(tt.args))

			got, err := flags.Filter()
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
