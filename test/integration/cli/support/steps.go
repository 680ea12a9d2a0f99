package support

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// RegisterSteps registers all step definitions.
func (testCtx *TestContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^an empty records directory$`, testCtx.anEmptyRecordsDirectory)
	sc.Step(`^a record file "([^"]*)" containing:$`, testCtx.aRecordFileContaining)
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRun)
	sc.Step(`^I run "([^"]*)" with stdin:$`, testCtx.iRunWithStdin)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the error should contain "([^"]*)"$`, testCtx.theErrorShouldContain)
	sc.Step(`^the output should contain exactly one timing line for "([^"]*)"$`, testCtx.exactlyOneTimingLine)
	sc.Step(`^a record for "([^"]*)" should exist$`, testCtx.aRecordShouldExist)
	sc.Step(`^no record for "([^"]*)" should exist$`, testCtx.noRecordShouldExist)
	sc.Step(`^the record for "([^"]*)" should be at least ([0-9.]+) seconds$`, testCtx.recordAtLeast)
	sc.Step(`^the JSON output should have exactly the keys "([^"]*)"$`, testCtx.jsonOutputKeys)
	sc.Step(`^the JSON output should map "([^"]*)" to one of "([^"]*)"$`, testCtx.jsonOutputOneOf)
}

func (testCtx *TestContext) anEmptyRecordsDirectory() error {
	entries, err := os.ReadDir(testCtx.RecordsDir)
	if err != nil {
		return err
	}
	if len(entries) != 0 {
		return fmt.Errorf("records directory %s is not empty", testCtx.RecordsDir)
	}
	return nil
}

func (testCtx *TestContext) aRecordFileContaining(file string, content *godog.DocString) error {
	return os.WriteFile(filepath.Join(testCtx.RecordsDir, file), []byte(content.Content), 0o644)
}

func (testCtx *TestContext) iRun(commandLine string) error {
	testCtx.runCLI(commandLine, "")
	return nil
}

func (testCtx *TestContext) iRunWithStdin(commandLine string, stdin *godog.DocString) error {
	testCtx.runCLI(commandLine, stdin.Content)
	return nil
}

func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastError != nil {
		return fmt.Errorf("command %v failed: %w\nstdout: %s\nstderr: %s",
			testCtx.LastArgs, testCtx.LastError, testCtx.LastOutput, testCtx.LastStderr)
	}
	return nil
}

func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastError == nil {
		return fmt.Errorf("command %v succeeded, expected failure\nstdout: %s", testCtx.LastArgs, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(testCtx.LastOutput, expected) {
		return fmt.Errorf("output does not contain %q:\n%s", expected, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theErrorShouldContain(expected string) error {
	if testCtx.LastError == nil {
		return fmt.Errorf("expected an error containing %q, got none", expected)
	}
	if !strings.Contains(testCtx.LastError.Error(), expected) {
		return fmt.Errorf("error %q does not contain %q", testCtx.LastError, expected)
	}
	return nil
}

func (testCtx *TestContext) exactlyOneTimingLine(name string) error {
	re := regexp.MustCompile(`(?m)^\[` + regexp.QuoteMeta(name) + `\] took [0-9.e+-]+s$`)
	if n := len(re.FindAllString(testCtx.LastOutput, -1)); n != 1 {
		return fmt.Errorf("expected one timing line for %q, found %d:\n%s", name, n, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) recordPath(name string) string {
	return filepath.Join(testCtx.RecordsDir, "timing."+name+".json")
}

func (testCtx *TestContext) aRecordShouldExist(name string) error {
	_, err := testCtx.readRecord(name)
	return err
}

func (testCtx *TestContext) noRecordShouldExist(name string) error {
	if _, err := os.Stat(testCtx.recordPath(name)); !os.IsNotExist(err) {
		return fmt.Errorf("record for %q exists (stat error: %v)", name, err)
	}
	return nil
}

func (testCtx *TestContext) recordAtLeast(name, minimum string) error {
	seconds, err := testCtx.readRecord(name)
	if err != nil {
		return err
	}
	lowest, err := strconv.ParseFloat(minimum, 64)
	if err != nil {
		return err
	}
	if seconds < lowest {
		return fmt.Errorf("record for %q is %v seconds, expected at least %v", name, seconds, lowest)
	}
	return nil
}

func (testCtx *TestContext) readRecord(name string) (float64, error) {
	bts, err := os.ReadFile(testCtx.recordPath(name))
	if err != nil {
		return 0, fmt.Errorf("failed to read record for %q: %w", name, err)
	}
	var rec map[string]float64
	if err := json.Unmarshal(bts, &rec); err != nil {
		return 0, fmt.Errorf("record for %q is not valid JSON: %w", name, err)
	}
	seconds, ok := rec[name]
	if !ok || len(rec) != 1 {
		return 0, fmt.Errorf("record for %q has unexpected content %s", name, bts)
	}
	return seconds, nil
}

func (testCtx *TestContext) jsonOutput() (map[string]float64, error) {
	var got map[string]float64
	if err := json.Unmarshal([]byte(testCtx.LastOutput), &got); err != nil {
		return nil, fmt.Errorf("output is not a JSON mapping: %w\n%s", err, testCtx.LastOutput)
	}
	return got, nil
}

func (testCtx *TestContext) jsonOutputKeys(keys string) error {
	got, err := testCtx.jsonOutput()
	if err != nil {
		return err
	}

	want := strings.Split(keys, ",")
	var have []string
	for k := range got {
		have = append(have, k)
	}
	slices.Sort(want)
	slices.Sort(have)
	if !slices.Equal(want, have) {
		return fmt.Errorf("expected keys %v, got %v", want, have)
	}
	return nil
}

func (testCtx *TestContext) jsonOutputOneOf(name, values string) error {
	got, err := testCtx.jsonOutput()
	if err != nil {
		return err
	}
	value, ok := got[name]
	if !ok {
		return fmt.Errorf("key %q missing from %v", name, got)
	}
	for _, v := range strings.Split(values, ",") {
		want, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		if value == want {
			return nil
		}
	}
	return fmt.Errorf("value %v for %q is not one of %s", value, name, values)
}
