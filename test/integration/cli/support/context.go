package support

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/MeKo-Tech/celltime/cmd/celltime/cmd"
)

// TestContext holds the state for one scenario.
type TestContext struct {
	// Command execution state
	LastArgs   []string
	LastOutput string
	LastStderr string
	LastError  error

	// Test environment
	RecordsDir string
}

// NewTestContext creates a new test context with an empty records directory.
func NewTestContext() (*TestContext, error) {
	dir, err := os.MkdirTemp("", "celltime-records-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create records directory: %w", err)
	}
	return &TestContext{RecordsDir: dir}, nil
}

// Cleanup removes the scenario's records directory.
func (testCtx *TestContext) Cleanup() error {
	if testCtx.RecordsDir == "" {
		return nil
	}
	return os.RemoveAll(testCtx.RecordsDir)
}

// runCLI executes the command tree in-process against the scenario's records directory.
func (testCtx *TestContext) runCLI(commandLine, stdin string) {
	args := strings.Fields(commandLine)
	if len(args) > 0 && args[0] == "celltime" {
		args = args[1:]
	}
	args = append([]string{"--records-dir", testCtx.RecordsDir}, args...)

	root := cmd.NewRootCommand()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	testCtx.LastArgs = args
	testCtx.LastError = root.Execute()
	testCtx.LastOutput = stdout.String()
	testCtx.LastStderr = stderr.String()
}
