package session

import (
	"os"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStateHome(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)
}

func TestManagerRoundTrip(t *testing.T) {
	tempStateHome(t)

	mgr, err := NewManager("fleetsim-test")
	require.NoError(t, err)

	mgr.SetCurrentNode("gpu-node-02")
	mgr.SetRoot(true)
	mgr.SetActiveScenario("thermal-drill")
	mgr.SetLastCommand("nvidia-smi -q")
	require.NoError(t, mgr.Save())

	reloaded, err := NewManager("fleetsim-test")
	require.NoError(t, err)

	st := reloaded.State()
	assert.Equal(t, "gpu-node-02", st.CurrentNode)
	assert.True(t, st.IsRoot)
	assert.Equal(t, "thermal-drill", st.ActiveScenario)
	assert.Equal(t, "nvidia-smi -q", st.LastCommand)
	assert.False(t, st.LastCommandTime.IsZero())
}

func TestManagerMissingFileIsNotAnError(t *testing.T) {
	tempStateHome(t)

	mgr, err := NewManager("fleetsim-test")
	require.NoError(t, err)
	assert.Equal(t, State{}, mgr.State())
}

func TestManagerCorruptFile(t *testing.T) {
	tempStateHome(t)

	mgr, err := NewManager("fleetsim-test")
	require.NoError(t, err)
	require.NoError(t, mgr.Save())
	require.NoError(t, os.WriteFile(mgr.Path(), []byte("{{not yaml"), 0600))

	_, err = NewManager("fleetsim-test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestManagerReset(t *testing.T) {
	tempStateHome(t)

	mgr, err := NewManager("fleetsim-test")
	require.NoError(t, err)

	mgr.SetRoot(true)
	mgr.Reset()
	assert.False(t, mgr.State().IsRoot)
}

func TestHistoryRecordAndReload(t *testing.T) {
	tempStateHome(t)

	h, err := NewHistory("fleetsim-test", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxHistoryEntries, h.maxEntries)

	require.NoError(t, h.Record("nvidia-smi", 0, ""))
	require.NoError(t, h.Record("sinfo -R", 0, "thermal-drill"))
	require.NoError(t, h.Record("kubectl get pods", 127, ""))

	reloaded, err := NewHistory("fleetsim-test", 0)
	require.NoError(t, err)
	require.Equal(t, 3, reloaded.Count())

	entries := reloaded.Recent(0)
	assert.Equal(t, 1, entries[0].ID)
	assert.True(t, entries[0].Success)
	assert.Equal(t, "thermal-drill", entries[1].Scenario)
	assert.False(t, entries[2].Success)
	assert.Equal(t, 127, entries[2].ExitCode)
}

func TestHistoryTrimsAtMax(t *testing.T) {
	tempStateHome(t)

	h, err := NewHistory("fleetsim-test", 3)
	require.NoError(t, err)

	for _, line := range []string{"one", "two", "three", "four", "five"} {
		require.NoError(t, h.Record(line, 0, ""))
	}

	require.Equal(t, 3, h.Count())
	entries := h.Recent(0)
	assert.Equal(t, "three", entries[0].Command)
	assert.Equal(t, "five", entries[2].Command)
	// IDs stay sequential after trimming.
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestHistorySearchAndRecent(t *testing.T) {
	tempStateHome(t)

	h, err := NewHistory("fleetsim-test", 0)
	require.NoError(t, err)
	require.NoError(t, h.Record("nvidia-smi -q", 0, ""))
	require.NoError(t, h.Record("SINFO -N", 0, ""))
	require.NoError(t, h.Record("scontrol ping", 0, ""))

	matches := h.Search("sinfo")
	require.Len(t, matches, 1)
	assert.Equal(t, "SINFO -N", matches[0].Command)

	recent := h.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "SINFO -N", recent[0].Command)
	assert.Equal(t, "scontrol ping", recent[1].Command)

	h.Clear()
	assert.Zero(t, h.Count())
	assert.True(t, strings.HasSuffix(h.Path(), "history.json"))
}
