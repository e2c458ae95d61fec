package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sawpanic/scanreport/internal/config"
	"github.com/sawpanic/scanreport/internal/data/scanlog"
)

func scanRow(ts, pair, spread, opp, reason string) string {
	fields := make([]string, 29)
	fields[0] = ts
	fields[1] = "7"
	fields[2] = pair
	fields[3] = spread
	fields[4] = opp
	fields[5] = reason
	fields[27] = "2950.10"
	fields[28] = "0.42"
	return strings.Join(fields, ",")
}

func writeScanCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyzePositionalFile(t *testing.T) {
	path := writeScanCSV(t,
		"timestamp,scan,pair,spread,opp,reason",
		scanRow("2025-12-19T05:00:00Z", "WETH/USDT", "0.12", "0", ""),
		scanRow("2025-12-19T05:00:01Z", "WETH/DAI", "0.21", "0", "Not profitable after fees"),
	)

	stdout, _, err := execute(t, "analyze", path, "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, stdout, "📊 Scan Data Analysis Report")
	assert.Contains(t, stdout, "Total records: 2")
	assert.NotContains(t, stdout, "\x1b[")
}

func TestAnalyzeLegacyProfileFlagOverrides(t *testing.T) {
	path := writeScanCSV(t,
		scanRow("2025-12-19T05:00:00Z", "WETH/USDT", "0.12", "0", ""),
		scanRow("2025-12-19T05:00:01Z", "WETH/USDT", "0.21", "0", ""),
		scanRow("2025-12-19T05:00:02Z", "WETH/USDT", "0.33", "0", ""),
	)

	stdout, _, err := execute(t, "analyze", "--profile", "legacy", "--file", path, "--top-k", "2", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, stdout, "📊 Scan Data Final Analysis")
	assert.Contains(t, stdout, "Total records: 3")
	assert.Contains(t, stdout, "🔝 Top 2 spreads:")
}

func TestAnalyzeFailFastPolicyFlag(t *testing.T) {
	path := writeScanCSV(t,
		"timestamp,scan,pair,spread,opp,reason",
		scanRow("2025-12-19T05:00:00Z", "WETH/USDT", "0.12", "0", ""),
		scanRow("2025-12-19T05:00:01Z", "WETH/USDT", "n/a", "0", ""),
	)

	stdout, _, err := execute(t, "analyze", path, "--policy", "fail-fast")
	require.Error(t, err)
	assert.ErrorIs(t, err, scanlog.ErrInvalidField)
	assert.Empty(t, stdout)
}

func TestAnalyzeRejectsUnknownPolicy(t *testing.T) {
	_, _, err := execute(t, "analyze", "scan.csv", "--policy", "best-effort")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown failure policy")
}

func TestAnalyzeRequiresFile(t *testing.T) {
	_, _, err := execute(t, "analyze")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestAnalyzeJSONLogs(t *testing.T) {
	path := writeScanCSV(t,
		"timestamp,scan,pair,spread,opp,reason",
		scanRow("2025-12-19T05:00:00Z", "WETH/USDT", "0.12", "0", ""),
	)

	_, stderr, err := execute(t, "analyze", path, "--log-json", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"message":"Analysis completed"`)
	assert.Contains(t, stderr, `"run_id":"`)
}

func TestConfigPrintsEffectiveYAML(t *testing.T) {
	stdout, _, err := execute(t, "config", "--profile", "legacy", "--top-k", "5", "--threshold", "0.25", "scan.csv")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &cfg))
	assert.Equal(t, "legacy", cfg.Profile)
	assert.Equal(t, config.PolicyFailFast, cfg.FailurePolicy)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 0.25, cfg.OpportunityThreshold)
	assert.Equal(t, "scan.csv", cfg.File)
	assert.Len(t, cfg.Buckets, 6)
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("SCANREPORT_TOP_K", "42")

	stdout, _, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "top_k: 42")
	assert.Contains(t, stdout, "profile: current")
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, useColor("always", &buf))
	assert.False(t, useColor("never", &buf))
	assert.False(t, useColor("auto", &buf), "a buffer is never a terminal")
}
