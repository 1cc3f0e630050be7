package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetsim/fleetsim/internal/tools"
	"github.com/fleetsim/fleetsim/pkg/cluster"
	"github.com/fleetsim/fleetsim/pkg/parser"
	"github.com/fleetsim/fleetsim/pkg/registry"
	"github.com/fleetsim/fleetsim/pkg/router"
	"github.com/fleetsim/fleetsim/pkg/scenario"
	"github.com/fleetsim/fleetsim/pkg/simulator"
)

func newInterp(t *testing.T) *Interpreter {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)

	rt := router.New()
	tools.RegisterAll(rt)
	return New(reg, rt)
}

func newCtx() *simulator.Context {
	return &simulator.Context{
		CurrentNode: "gpu-node-01",
		Store:       simulator.NewStore(cluster.Default()),
	}
}

func TestRunDispatches(t *testing.T) {
	in := newInterp(t)
	ctx := newCtx()

	res := in.Run("nvidia-smi -q -i 0", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Contains(t, res.Output, "Temperature")

	res = in.Run("sinfo", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Contains(t, res.Output, "batch*")
}

func TestRunEmptyLine(t *testing.T) {
	in := newInterp(t)

	res := in.Run("", newCtx())
	assert.Zero(t, res.ExitCode)
	assert.Empty(t, res.Output)

	res = in.Run("   ", newCtx())
	assert.Zero(t, res.ExitCode)
}

func TestRunUnknownCommand(t *testing.T) {
	in := newInterp(t)

	res := in.Run("kubectl get pods", newCtx())
	assert.Equal(t, 127, res.ExitCode)
	assert.Contains(t, res.Output, "command not found")
}

func TestRunTypoSuggestion(t *testing.T) {
	in := newInterp(t)
	ctx := newCtx()

	res := in.Run("nvidia-smi --power-limot 400 -i 0", ctx)
	assert.Equal(t, 2, res.ExitCode)
	assert.Contains(t, res.Output, "Did you mean --power-limit")

	res = in.Run("scontrol shwo node gpu-node-01", ctx)
	assert.Equal(t, 2, res.ExitCode)
	assert.Contains(t, res.Output, `"show"`)
}

func TestRunPrivilegeGate(t *testing.T) {
	in := newInterp(t)
	ctx := newCtx()

	res := in.Run("nvidia-smi -pl 400 -i 0", ctx)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Output, "requires root")

	// The gate does not apply to read-only invocations of the same tool.
	res = in.Run("nvidia-smi -q -i 0", ctx)
	assert.Zero(t, res.ExitCode)

	ctx.IsRoot = true
	res = in.Run("nvidia-smi -pl 400 -i 0", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Equal(t, 400, ctx.Store.Cluster().GPU("gpu-node-01", 0).PowerLimitW)
}

func TestRunSubcommandPrivilege(t *testing.T) {
	in := newInterp(t)
	ctx := newCtx()

	res := in.Run("scontrol update NodeName=gpu-node-01 State=drain Reason=maint", ctx)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Output, "requires root")

	res = in.Run("scontrol show node gpu-node-01", ctx)
	assert.Zero(t, res.ExitCode)

	ctx.IsRoot = true
	res = in.Run("scontrol update NodeName=gpu-node-01 State=drain Reason=maint", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Equal(t, cluster.SlurmDrain, ctx.Store.Cluster().Node("gpu-node-01").SlurmState)
}

func TestRunScenarioIsolation(t *testing.T) {
	in := newInterp(t)

	shared := simulator.NewStore(cluster.Default())
	scen := scenario.NewContext("thermal-lesson", cluster.Default())

	inScenario := &simulator.Context{
		IsRoot:      true,
		CurrentNode: "gpu-node-01",
		Store:       shared,
		Scenario:    scen,
	}
	outside := &simulator.Context{
		CurrentNode: "gpu-node-01",
		Store:       shared,
	}

	res := in.Run("nvidia-smi -pl 350 -i 0", inScenario)
	assert.Zero(t, res.ExitCode)

	// The scenario saw the write; the shared store did not.
	assert.Equal(t, 350, scen.GPU("gpu-node-01", 0).PowerLimitW)
	res = in.Run("nvidia-smi -q -i 0", outside)
	assert.Contains(t, res.Output, "700")
	assert.NotContains(t, res.Output, "350")
}

func TestRunUnregisteredToolSkipsChecks(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)

	rt := router.New()
	rt.Register("mystery", stubSim{})
	in := New(reg, rt)

	// Routed but not in the registry: no spelling or privilege checks.
	res := in.Run("mystery --whatever", newCtx())
	assert.Zero(t, res.ExitCode)
	assert.Equal(t, "ok\n", res.Output)
}

type stubSim struct{}

func (stubSim) Metadata() simulator.Metadata { return simulator.Metadata{Name: "mystery"} }

func (stubSim) Execute(_ *parser.Command, _ *simulator.Context) *simulator.Result {
	return simulator.Success("ok\n")
}
