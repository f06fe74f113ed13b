package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/assetmap/pkg/errors"
)

const (
	inventoryCSV = `Marka,Model,Seri Numarası,Hostname,Tam İsim,Kullanıcı Adı
Apple,MacBook Pro M1,ABC123,MAC-01,Ayşe Demir,12345
Dell,Latitude 5420,DL001,PC-01,Ali Veli,12346
`
	intuneCSV = `Device name,Serial number,Compliance,Last check-in
PC-01,DL001,Compliant,2025-11-10
GHOST-01,GH001,Noncompliant,2025-11-01
`
	jamfCSV = `Name,Serial Number
MAC-01,ABC123
`
)

func writeFixtures(t *testing.T) (inv, intune, jamf string) {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}
	return write("inventory.csv", inventoryCSV), write("intune.csv", intuneCSV), write("jamf.csv", jamfCSV)
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	cmd := app.createRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExecuteVersion(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "version", "-o", "json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.0.0", info["version"])
	assert.Equal(t, "abc123", info["commit"])
}

func TestExecuteReconcile(t *testing.T) {
	inv, intune, jamf := writeFixtures(t)
	app := newTestApp(t)

	out, err := run(t, app, "reconcile", "-o", "json",
		"-i", inv, "--intune", intune, "--jamf", jamf,
		"--label", "2025-11", "--promote")
	require.NoError(t, err)

	var result struct {
		Snapshot struct {
			Draft       bool `json:"draft"`
			TotalAssets int  `json:"total_assets"`
		} `json:"snapshot"`
		Promoted *struct {
			Draft       bool   `json:"draft"`
			PeriodLabel string `json:"period_label"`
		} `json:"promoted"`
		Stats struct {
			TotalIntuneReportCount int `json:"total_intune_report_count"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Snapshot.Draft)
	assert.Equal(t, 2, result.Snapshot.TotalAssets)
	require.NotNil(t, result.Promoted)
	assert.False(t, result.Promoted.Draft)
	assert.Equal(t, "2025-11", result.Promoted.PeriodLabel)
	assert.Equal(t, 2, result.Stats.TotalIntuneReportCount)

	am, err := app.Assetmap()
	require.NoError(t, err)
	assert.Equal(t, 2, am.Snapshots().Len())
}

func TestExecuteReconcileTable(t *testing.T) {
	inv, intune, _ := writeFixtures(t)
	app := newTestApp(t)

	out, err := run(t, app, "reconcile", "-o", "table", "-i", inv, "--intune", intune)
	require.NoError(t, err)
	assert.Contains(t, out, "Total assets")
	assert.Contains(t, out, "assetmap orphans")
}

func TestExecuteMissingInventory(t *testing.T) {
	app := newTestApp(t)

	_, err := run(t, app, "reconcile", "--intune", "intune.csv")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestExecuteAssets(t *testing.T) {
	inv, intune, jamf := writeFixtures(t)
	app := newTestApp(t)

	out, err := run(t, app, "assets", "-o", "json", "-i", inv, "--intune", intune, "--jamf", jamf, "--device", "MacBook")
	require.NoError(t, err)

	var list []struct {
		Hostname string `json:"hostname"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "MAC-01", list[0].Hostname)

	_, err = run(t, app, "assets", "-i", inv, "-d", "bogus")
	assert.True(t, errors.IsValidationError(err))
}

func TestExecuteOrphans(t *testing.T) {
	inv, intune, jamf := writeFixtures(t)
	app := newTestApp(t)

	out, err := run(t, app, "orphans", "-o", "json", "-i", inv, "--intune", intune, "--jamf", jamf, "--source", "intune")
	require.NoError(t, err)
	assert.Contains(t, out, "GHOST-01")

	out, err = run(t, app, "orphans", "-o", "table", "-i", inv, "--jamf", jamf, "--source", "jamf")
	require.NoError(t, err)
	assert.Contains(t, out, "No orphaned records")

	_, err = run(t, app, "orphans", "-i", inv, "--source", "sccm")
	assert.True(t, errors.IsValidationError(err))
}

func TestExecuteExport(t *testing.T) {
	inv, intune, jamf := writeFixtures(t)
	app := newTestApp(t)

	file := filepath.Join(t.TempDir(), "assets.csv")
	_, err := run(t, app, "export", "-i", inv, "--intune", intune, "--jamf", jamf, "-f", file)
	require.NoError(t, err)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "\ufeff"))

	out, err := run(t, app, "export", "-i", inv, "--intune", intune, "--kind", "report", "--label", "Kasım")
	require.NoError(t, err)
	assert.Contains(t, out, "# Asset Compliance Report: Kasım")

	_, err = run(t, app, "export", "-i", inv, "--kind", "pdf")
	assert.True(t, errors.IsValidationError(err))
}

func TestExecuteNarrative(t *testing.T) {
	inv, intune, _ := writeFixtures(t)

	app := newTestApp(t, WithNarrator(staticNarrator("## Yönetici Özeti")))
	out, err := run(t, app, "narrative", "-o", "table", "-i", inv, "--intune", intune)
	require.NoError(t, err)
	assert.Contains(t, out, "## Yönetici Özeti")

	app = newTestApp(t)
	_, err = run(t, app, "narrative", "-i", inv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNarrativeUnavailable))
}

func TestExecutePolicies(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "policies", "-o", "json", "--policy", "strict")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "default"`)
	assert.Contains(t, out, `"name": "strict"`)
}

func TestExecuteInvalidFormat(t *testing.T) {
	app := newTestApp(t)

	_, err := run(t, app, "version", "-o", "xml")
	assert.Error(t, err)
}

func TestExecuteCompletion(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "assetmap")

	_, err = run(t, app, "completion", "tcsh")
	assert.Error(t, err)
}

func TestExecuteMan(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "man")
	require.NoError(t, err)
	assert.Contains(t, out, "ASSETMAP")
}
