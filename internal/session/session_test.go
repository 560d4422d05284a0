package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/valvegear/internal/codec"
	"github.com/roach88/valvegear/internal/param"
	"github.com/roach88/valvegear/internal/validate"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestSession creates a session whose files live under a temp dir.
func newTestSession(t *testing.T) *Session {
	t.Helper()
	dir := t.TempDir()
	s := New(Paths{
		Inputs:  filepath.Join(dir, "inputs", "inputs.txt"),
		Outputs: filepath.Join(dir, "outputs", "outputs.txt"),
	}, nil)
	require.NoError(t, s.EnsureDirs())
	return s
}

func TestDefaultPaths(t *testing.T) {
	p := DefaultPaths()
	assert.Equal(t, "inputs/inputs.txt", p.Inputs)
	assert.Equal(t, "outputs/outputs.txt", p.Outputs)
}

func TestEnsureDirs_Idempotent(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.EnsureDirs())

	info, err := os.Stat(filepath.Dir(s.Paths.Outputs))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCalculate_ExampleDefaults(t *testing.T) {
	s := newTestSession(t)
	s.Model.SetInputValues(param.ExampleInputs())

	res, err := s.Calculate()
	require.NoError(t, err)
	assert.True(t, res.Sane)
	assert.Nil(t, res.Problem)
	assert.InEpsilon(t, 348339.9, res.Outputs.Get(param.WheelSpeed), 0.005)
	assert.InEpsilon(t, 27.73, res.Outputs.Get(param.CombinationLeverLength), 0.005)

	// Outputs land on the model.
	assert.Equal(t, res.Outputs, s.Model.OutputValues())
}

func TestCalculate_InputGateBlocksComputation(t *testing.T) {
	for i := 1; i <= param.NumInputs; i++ {
		id := param.InputID(i)
		t.Run(id.Name(), func(t *testing.T) {
			s := newTestSession(t)
			s.Model.SetInputValues(param.ExampleInputs())
			require.NoError(t, s.SetInput(id, 0))

			res, err := s.Calculate()
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, validate.IsInputError(err))
			assert.Equal(t, param.Outputs{}, s.Model.OutputValues())
		})
	}
}

func TestCalculate_NegativeOutputKeepsValues(t *testing.T) {
	s := newTestSession(t)
	s.Model.SetInputValues(param.ExampleInputs())
	require.NoError(t, s.SetInputByKey("T", 2))

	res, err := s.Calculate()
	require.NoError(t, err)
	assert.False(t, res.Sane)
	require.NotNil(t, res.Problem)
	assert.Equal(t, int(param.TravelMargin), res.Problem.Index)

	out := s.Model.OutputValues()
	assert.InDelta(t, -2.248, out.Get(param.TravelMargin), 1e-12)
	assert.InEpsilon(t, 4.5305, out.Get(param.HalfTravel), 0.005)
	assert.InEpsilon(t, 27.73, out.Get(param.CombinationLeverLength), 0.005)
}

func TestSetInputByKey_Unknown(t *testing.T) {
	s := newTestSession(t)
	err := s.SetInputByKey("Cutoff", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cutoff")
}

func TestLoad_MissingFile(t *testing.T) {
	s := newTestSession(t)
	s.HasSave = true
	s.Model.SetInputValues(param.ExampleInputs())

	_, err := s.Load()
	require.ErrorIs(t, err, codec.ErrNotFound)
	assert.False(t, s.HasSave)
	assert.Equal(t, param.ExampleInputs(), s.Model.InputValues())
}

func TestLoad_SetsHasSave(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, os.WriteFile(s.Paths.Inputs, []byte("Bore: 20.5\nLead: junk\n"), 0644))

	report, err := s.Load()
	require.NoError(t, err)
	assert.True(t, s.HasSave)
	assert.Equal(t, codec.Matched, report.Resolution(param.Bore))
	assert.Equal(t, codec.Fallback, report.Resolution(param.Lead))
	assert.Equal(t, codec.Unmatched, report.Resolution(param.Lap))
}

func TestSave_RequiresCalculation(t *testing.T) {
	s := newTestSession(t)
	s.Model.SetInputValues(param.ExampleInputs())

	report, err := s.Save()
	assert.ErrorIs(t, err, ErrNothingToSave)
	assert.False(t, report.InputsSaved)
	assert.False(t, report.OutputsSaved)

	_, statErr := os.Stat(s.Paths.Inputs)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSave_WritesBothFiles(t *testing.T) {
	s := newTestSession(t)
	s.Model.SetInputValues(param.ExampleInputs())
	_, err := s.Calculate()
	require.NoError(t, err)

	report, err := s.Save()
	require.NoError(t, err)
	assert.True(t, report.InputsSaved)
	assert.True(t, report.OutputsSaved)

	inputs, err := os.ReadFile(s.Paths.Inputs)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(inputs), "Drive Wheel Diameter: 66\n"))

	outputs, err := os.ReadFile(s.Paths.Outputs)
	require.NoError(t, err)
	assert.Contains(t, string(outputs), "Piston Speed: 1456\n")
	assert.Equal(t, param.NumOutputs, strings.Count(string(outputs), "\n"))
}

func TestSave_PartialPersistence(t *testing.T) {
	s := newTestSession(t)
	s.Paths.Outputs = filepath.Join(t.TempDir(), "missing-dir", "outputs.txt")
	s.Model.SetInputValues(param.ExampleInputs())
	_, err := s.Calculate()
	require.NoError(t, err)

	report, err := s.Save()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error saving outputs file")
	assert.True(t, report.InputsSaved)
	assert.False(t, report.OutputsSaved)

	_, statErr := os.Stat(s.Paths.Inputs)
	assert.NoError(t, statErr)
}

func TestSaveThenLoad_RoundTrip(t *testing.T) {
	s := newTestSession(t)
	s.Model.SetInputValues(param.Inputs{60, 24, 19.25, 0.75, 3.125, 6, 16})
	_, err := s.Calculate()
	require.NoError(t, err)
	_, err = s.Save()
	require.NoError(t, err)

	fresh := New(s.Paths, nil)
	_, err = fresh.Load()
	require.NoError(t, err)
	assert.Equal(t, s.Model.InputValues(), fresh.Model.InputValues())
	assert.True(t, fresh.HasSave)
}

func TestWriteTemplate(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.WriteTemplate())

	_, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, param.ExampleInputs(), s.Model.InputValues())
}
