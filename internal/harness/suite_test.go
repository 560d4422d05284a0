package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	dir := t.TempDir()
	a := writeScenario(t, dir, "a.yaml", "name: a\ndescription: d\ninputs: {Bore: 1}\n")

	paths, err := ResolvePaths(a)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, paths)

	paths, err = ResolvePaths(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, paths)

	_, err = ResolvePaths(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	_, err = ResolvePaths(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenario files found")
}

func TestRunFiles_Tally(t *testing.T) {
	dir := t.TempDir()
	pass := writeScenario(t, dir, "pass.yaml", `
name: pass
description: "Missing inputs are reported"
inputs: {D: 66}
expect: {valid: false, invalid_input: S}
`)
	fail := writeScenario(t, dir, "fail.yaml", `
name: fail
description: "Expects a valid gate that cannot pass"
inputs: {D: 66}
`)

	summary, err := RunFiles([]string{pass, fail})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalScenarios)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.False(t, summary.AllPassed())
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "fail", summary.Failures[0].Scenario)
	assert.Equal(t, fail, summary.Failures[0].Path)
	assert.NotEmpty(t, summary.Failures[0].Errors)
	assert.Equal(t, "2 scenarios: 1 passed, 1 failed", summary.String())
}

func TestRunFiles_BundledScenariosPass(t *testing.T) {
	paths, err := ResolvePaths(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	summary, err := RunFiles(paths)
	require.NoError(t, err)
	assert.True(t, summary.AllPassed(), "failures: %v", summary.Failures)
	assert.Equal(t, len(paths), summary.Passed)
}

func TestRunFiles_LoadErrorAborts(t *testing.T) {
	bad := writeScenario(t, t.TempDir(), "bad.yaml", "name: bad\n")

	_, err := RunFiles([]string{bad})
	assert.Error(t, err)
}
