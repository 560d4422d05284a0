package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesExampleInputs(t *testing.T) {
	dir := inWorkDir(t)

	out, _, err := executeCommand(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote example inputs to inputs/inputs.txt")

	data, err := os.ReadFile(filepath.Join(dir, "inputs", "inputs.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Drive Wheel Diameter: 66\nPiston Stroke: 26\nBore: 20.5\nLead: 0.858\nLap: 3.39\nValve Travel: 5.5\nPort Width: 18\n", string(data))
	assert.DirExists(t, filepath.Join(dir, "outputs"))
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := inWorkDir(t)
	path := filepath.Join(dir, "inputs", "inputs.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("Bore: 1\n"), 0644))

	_, _, err := executeCommand(t, "init")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--force")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Bore: 1\n", string(data))

	_, _, err = executeCommand(t, "init", "--force")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Bore: 20.5\n")
}

func TestInit_JSON(t *testing.T) {
	dir := inWorkDir(t)
	target := filepath.Join(dir, "loco", "in.txt")

	out, _, err := executeCommand(t, "init", "--inputs", target, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   InitResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, target, resp.Data.Path)
	require.Len(t, resp.Data.Inputs, 7)
	assert.Equal(t, "Bore", resp.Data.Inputs[2].Name)
	assert.Equal(t, Number(20.5), resp.Data.Inputs[2].Value)
}
