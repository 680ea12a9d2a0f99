package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timingLine = regexp.MustCompile(`(?m)^\[(.+)\] took [0-9.e+-]+s$`)

func TestRecordCommandArgs(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()

	stdout, _, err := executeCommand(t, "", "--records-dir", dir, "record", "greet", "--", "echo", "hi")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "hi\n"), "block output comes first: %q", stdout)
	matches := timingLine.FindAllStringSubmatch(stdout, -1)
	require.Len(t, matches, 1)
	assert.Equal(t, "greet", matches[0][1])

	bts, err := os.ReadFile(filepath.Join(dir, "timing.greet.json"))
	require.NoError(t, err)
	var rec map[string]float64
	require.NoError(t, json.Unmarshal(bts, &rec))
	assert.Contains(t, rec, "greet")
	assert.GreaterOrEqual(t, rec["greet"], 0.0)
}

func TestRecordCommandStdin(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()

	stdout, _, err := executeCommand(t, "echo one\necho two\n", "--records-dir", dir, "record", "multi")
	require.NoError(t, err)

	assert.Contains(t, stdout, "one\ntwo\n")
	assert.Len(t, timingLine.FindAllString(stdout, -1), 1)
	assert.FileExists(t, filepath.Join(dir, "timing.multi.json"))
}

func TestRecordCommandFailingBlock(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()

	stdout, _, err := executeCommand(t, "", "--records-dir", dir, "record", "x", "--", "exit 4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 4")

	assert.Len(t, timingLine.FindAllString(stdout, -1), 1)
	_, statErr := os.Stat(filepath.Join(dir, "timing.x.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRecordCommandRequiresName(t *testing.T) {
	_, _, err := executeCommand(t, "", "record")
	require.Error(t, err)
}

func TestRecordCommandMetricsFile(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	metricsFile := filepath.Join(t.TempDir(), "run.prom")

	_, _, err := executeCommand(t, "", "--records-dir", dir, "record", "m", "--metrics-file", metricsFile, "--", "true")
	require.NoError(t, err)

	bts, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(bts), `celltime_recordings_total{status="ok"} 1`)
	assert.Contains(t, string(bts), `celltime_block_duration_seconds{name="m"}`)
}

func TestRecordCommandMetricsFileOnFailure(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	metricsFile := filepath.Join(t.TempDir(), "run.prom")

	_, _, err := executeCommand(t, "", "--records-dir", dir, "record", "x", "--metrics-file", metricsFile, "--", "false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 1")

	bts, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(bts), `celltime_recordings_total{status="error"} 1`)
	assert.NotContains(t, string(bts), `celltime_recordings_total{status="ok"}`)
}

func TestRecordCommandMetricsFileUnwritable(t *testing.T) {
	requireShell(t)
	metricsFile := filepath.Join(t.TempDir(), "missing", "run.prom")

	_, _, err := executeCommand(t, "", "--records-dir", t.TempDir(), "record", "x", "--metrics-file", metricsFile, "--", "exit 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 2")
	assert.Contains(t, err.Error(), "failed to write metrics textfile")
}

func TestReadBlock(t *testing.T) {
	block, err := readBlock(strings.NewReader("ignored"), []string{"make", "-j4", "all"})
	require.NoError(t, err)
	assert.Equal(t, "make -j4 all", block)

	block, err = readBlock(strings.NewReader("sleep 1\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "sleep 1\n", block)
}
