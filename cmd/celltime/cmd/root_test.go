package cmd

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/MeKo-Tech/celltime/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearCelltimeEnvVars unsets every CELLTIME_ variable for the duration of the test.
func clearCelltimeEnvVars(t *testing.T) {
	t.Helper()
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, config.EnvPrefix+"_") {
			continue
		}
		key, value, _ := strings.Cut(env, "=")
		_ = os.Unsetenv(key)
		t.Cleanup(func() { _ = os.Setenv(key, value) })
	}
}

// executeCommand runs a fresh command tree and captures stdout and stderr separately.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	clearCelltimeEnvVars(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := NewRootCommand()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("/bin/sh"); err != nil {
		t.Skipf("/bin/sh not available: %v", err)
	}
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "celltime", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHelp(t *testing.T) {
	output, _, err := executeCommand(t, "", "--help")
	require.NoError(t, err)

	assert.Contains(t, output, "wall-clock duration")
	assert.Contains(t, output, "Available Commands:")
	assert.Contains(t, output, "Usage:")
}

func TestRootCommandNoArgs(t *testing.T) {
	output, _, err := executeCommand(t, "")
	require.NoError(t, err)
	assert.Contains(t, output, "Usage:")
}

func TestRootCommandVersion(t *testing.T) {
	output, _, err := executeCommand(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, output, "dev")
	assert.Contains(t, output, "commit:")
}

func TestRootCommandSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	commandNames := make([]string, 0, len(cmd.Commands()))
	for _, subcmd := range cmd.Commands() {
		commandNames = append(commandNames, subcmd.Name())
	}

	for _, expected := range []string{"record", "load", "export", "commands"} {
		assert.Contains(t, commandNames, expected, "Expected subcommand '%s' not found", expected)
	}
}

func TestRootCommandInvalidFlag(t *testing.T) {
	_, stderr, err := executeCommand(t, "", "--invalid-flag")
	require.Error(t, err)
	assert.Contains(t, stderr, "unknown flag")
}

func TestRootCommandInvalidLogLevel(t *testing.T) {
	_, _, err := executeCommand(t, "", "--log-level", "loud", "commands")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRootCommandMissingConfigFile(t *testing.T) {
	_, _, err := executeCommand(t, "", "--config", "/nonexistent/celltime.yaml", "commands")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file does not exist")
}

func TestCommandsLists(t *testing.T) {
	output, _, err := executeCommand(t, "", "commands")
	require.NoError(t, err)
	assert.Equal(t, "record-time\n", output)
}

func TestAmbientEnvironmentIgnored(t *testing.T) {
	t.Setenv("CELLTIME_OUTPUT_FORMAT", "json")
	dir := t.TempDir()

	stdout, _, err := executeCommand(t, "", "--records-dir", dir, "load")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No timings recorded")
}

func TestVerboseLogsToStderr(t *testing.T) {
	stdout, stderr, err := executeCommand(t, "", "--verbose", "--records-dir", t.TempDir(), "load")
	require.NoError(t, err)

	assert.Contains(t, stdout, "No timings recorded")
	assert.Contains(t, stderr, `"level":"DEBUG"`)
	assert.NotContains(t, stdout, `"level"`)
}
