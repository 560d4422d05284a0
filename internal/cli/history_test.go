package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type historyResponse struct {
	Status string `json:"status"`
	Data   struct {
		Database string `json:"database"`
		Runs     []struct {
			ID         string      `json:"id"`
			Seq        int64       `json:"seq"`
			InputsHash string      `json:"inputs_hash"`
			Sane       bool        `json:"sane"`
			Inputs     []ValueView `json:"inputs"`
			Outputs    []ValueView `json:"outputs"`
		} `json:"runs"`
	} `json:"data"`
}

// recordRuns records one calc run per set of --set overrides.
func recordRuns(t *testing.T, db string, overrides ...string) {
	t.Helper()
	for _, o := range overrides {
		args := []string{"calc", "--db", db}
		if o != "" {
			args = append(args, "--set", o)
		}
		_, _, _ = executeCommand(t, args...)
	}
}

func readHistory(t *testing.T, args ...string) historyResponse {
	t.Helper()
	out, _, err := executeCommand(t, append([]string{"history", "--format", "json"}, args...)...)
	require.NoError(t, err)
	var resp historyResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp
}

func TestHistory_ListsRunsOldestFirst(t *testing.T) {
	dir := inWorkDir(t)
	writeInputs(t, dir, exampleInputsText)
	db := filepath.Join(dir, "history.db")
	recordRuns(t, db, "", "T=2", "Bore=21")

	resp := readHistory(t, "--db", db)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Runs, 3)
	for i, r := range resp.Data.Runs {
		assert.Equal(t, int64(i+1), r.Seq)
	}
	assert.True(t, resp.Data.Runs[0].Sane)
	assert.False(t, resp.Data.Runs[1].Sane)
	assert.Equal(t, Number(21), resp.Data.Runs[2].Inputs[2].Value)
}

func TestHistory_Limit(t *testing.T) {
	dir := inWorkDir(t)
	writeInputs(t, dir, exampleInputsText)
	db := filepath.Join(dir, "history.db")
	recordRuns(t, db, "", "Bore=21", "Bore=22")

	resp := readHistory(t, "--db", db, "--limit", "2")
	require.Len(t, resp.Data.Runs, 2)
	assert.Equal(t, int64(2), resp.Data.Runs[0].Seq)
	assert.Equal(t, int64(3), resp.Data.Runs[1].Seq)
}

func TestHistory_RunAndHash(t *testing.T) {
	dir := inWorkDir(t)
	writeInputs(t, dir, exampleInputsText)
	db := filepath.Join(dir, "history.db")
	recordRuns(t, db, "", "Bore=21", "")

	all := readHistory(t, "--db", db)
	require.Len(t, all.Data.Runs, 3)
	first := all.Data.Runs[0]

	one := readHistory(t, "--db", db, "--run", first.ID)
	require.Len(t, one.Data.Runs, 1)
	assert.Equal(t, first.ID, one.Data.Runs[0].ID)

	same := readHistory(t, "--db", db, "--hash", first.InputsHash)
	require.Len(t, same.Data.Runs, 2)
	assert.Equal(t, int64(1), same.Data.Runs[0].Seq)
	assert.Equal(t, int64(3), same.Data.Runs[1].Seq)

	text, _, err := executeCommand(t, "history", "--db", db, "--run", first.ID)
	require.NoError(t, err)
	assert.Contains(t, text, "Run "+first.ID+" (seq 1, valid)")
	assert.Contains(t, text, "Inputs hash: "+first.InputsHash)
}

func TestHistory_Text(t *testing.T) {
	dir := inWorkDir(t)
	writeInputs(t, dir, exampleInputsText)
	db := filepath.Join(dir, "history.db")
	recordRuns(t, db, "", "T=2")

	out, _, err := executeCommand(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "History (")
	assert.Contains(t, out, "348,339.7934")
	assert.Contains(t, out, "-2.2480")
	assert.Contains(t, out, "invalid")
}

func TestHistory_Errors(t *testing.T) {
	dir := inWorkDir(t)

	_, _, err := executeCommand(t, "history")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no database")

	missing := filepath.Join(dir, "missing.db")
	_, _, err = executeCommand(t, "history", "--db", missing)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.NoFileExists(t, missing)

	writeInputs(t, dir, exampleInputsText)
	db := filepath.Join(dir, "history.db")
	recordRuns(t, db, "")

	_, _, err = executeCommand(t, "history", "--db", db, "--run", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found: nope")
}

func TestHistory_Empty(t *testing.T) {
	dir := inWorkDir(t)
	writeInputs(t, dir, exampleInputsText)
	db := filepath.Join(dir, "history.db")
	recordRuns(t, db, "")

	resp := readHistory(t, "--db", db, "--hash", "0000")
	assert.Empty(t, resp.Data.Runs)

	out, _, err := executeCommand(t, "history", "--db", db, "--hash", "0000")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}
