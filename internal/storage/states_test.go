package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gbsim/internal/lattice"
)

func sampleState() lattice.State {
	return lattice.State{
		Temperature: 0.75,
		Spins:       [][]float64{{0, 0, 1}, {0.6, 0, 0.8}},
		Locations:   [][]float64{{0, 0, 0}, {1.2, 0, 0.01}},
		Origins:     [][]float64{{0, 0, 0}, {1.2, 0, 0}},
	}
}

func TestStateRoundTrip(t *testing.T) {
	st := New(t.TempDir())

	require.NoError(t, st.SaveState("cooled_0.75", sampleState()))

	loaded, err := st.LoadState("cooled_0.75")
	require.NoError(t, err)
	assert.Equal(t, sampleState(), *loaded)

	names, err := st.States()
	require.NoError(t, err)
	assert.Equal(t, []string{"cooled_0.75"}, names)
}

func TestSaveStateReplaces(t *testing.T) {
	st := New(t.TempDir())
	first := sampleState()
	require.NoError(t, st.SaveState("s", first))

	second := sampleState()
	second.Temperature = 0.1
	require.NoError(t, st.SaveState("s", second))

	loaded, err := st.LoadState("s")
	require.NoError(t, err)
	assert.Equal(t, 0.1, loaded.Temperature)
}

func TestStateNames(t *testing.T) {
	st := New(t.TempDir())
	for _, name := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, st.SaveState(name, sampleState()), name)
	}

	_, err := st.LoadState("missing")
	assert.Error(t, err)

	names, err := st.States()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStatesDoNotShowAsRuns(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.SaveState("s", sampleState()))
	_, err := st.Save(RunMetadata{Potential: "gay_berne", Orientation: "cross"}, sampleProfile())
	require.NoError(t, err)

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.DirExists(t, filepath.Join(dir, statesDir))
}
