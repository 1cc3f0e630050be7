package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetsim/fleetsim/pkg/cluster"
	"github.com/fleetsim/fleetsim/pkg/parser"
	"github.com/fleetsim/fleetsim/pkg/router"
	"github.com/fleetsim/fleetsim/pkg/scenario"
	"github.com/fleetsim/fleetsim/pkg/simulator"
)

func newCtx() *simulator.Context {
	return &simulator.Context{
		CurrentNode: "gpu-node-01",
		Store:       simulator.NewStore(cluster.Default()),
	}
}

func run(t *testing.T, sim simulator.Simulator, line string, ctx *simulator.Context) *simulator.Result {
	t.Helper()
	res := sim.Execute(parser.Parse(line), ctx)
	require.NotNil(t, res)
	return res
}

func TestRegisterAll(t *testing.T) {
	r := router.New()
	RegisterAll(r)

	for _, name := range []string{"nvidia-smi", "sinfo", "squeue", "scontrol", "dcgmi", "ipmitool", "ethtool"} {
		assert.True(t, r.Has(name), "missing route %q", name)
	}
	assert.False(t, r.Has("kubectl"))
}

func TestNvidiaSMISummaryAndQuery(t *testing.T) {
	sim := &NvidiaSMI{}
	ctx := newCtx()

	res := run(t, sim, "nvidia-smi", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Contains(t, res.Output, "H100-SXM5-80GB")
	assert.Contains(t, res.Output, "45C")

	res = run(t, sim, "nvidia-smi -q -i 0", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Contains(t, res.Output, "Temperature           : 45 C")
	assert.NotContains(t, res.Output, "GPU 1\n")

	res = run(t, sim, "nvidia-smi -L", ctx)
	assert.Contains(t, res.Output, "UUID: GPU-")
}

func TestNvidiaSMIMissingGPU(t *testing.T) {
	sim := &NvidiaSMI{}
	ctx := newCtx()

	res := run(t, sim, "nvidia-smi -q -i 7", ctx)
	assert.Equal(t, 6, res.ExitCode)
	assert.Contains(t, res.Output, "GPU 7: not found")

	res = run(t, sim, "nvidia-smi -i -1", ctx)
	assert.Equal(t, 2, res.ExitCode)
}

func TestNvidiaSMIPowerLimitWritesToResolvedSink(t *testing.T) {
	sim := &NvidiaSMI{}
	ctx := newCtx()
	scen := scenario.NewContext("lesson", cluster.Default())
	ctx.Scenario = scen

	res := run(t, sim, "nvidia-smi -pl 400 -i 0", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Contains(t, res.Output, "All done.")

	// The write landed in the scenario, not the shared store.
	assert.Equal(t, 400, scen.GPU("gpu-node-01", 0).PowerLimitW)
	assert.Equal(t, 700, ctx.Store.Cluster().GPU("gpu-node-01", 0).PowerLimitW)
	assert.Equal(t, 1, scen.MutationCount())
}

func TestNvidiaSMIMIGAndReset(t *testing.T) {
	sim := &NvidiaSMI{}
	ctx := newCtx()

	res := run(t, sim, "nvidia-smi -mig 1 -i 0", ctx)
	assert.Zero(t, res.ExitCode)
	assert.True(t, ctx.Store.Cluster().GPU("gpu-node-01", 0).MIG.Enabled)

	res = run(t, sim, "nvidia-smi -mig 9 -i 0", ctx)
	assert.Equal(t, 2, res.ExitCode)

	res = run(t, sim, "nvidia-smi --gpu-reset -i 0", ctx)
	assert.Zero(t, res.ExitCode)

	res = run(t, sim, "nvidia-smi --gpu-reset", ctx)
	assert.Equal(t, 2, res.ExitCode)
}

func TestNvidiaSMINvlink(t *testing.T) {
	sim := &NvidiaSMI{}
	res := run(t, sim, "nvidia-smi nvlink -s", newCtx())
	assert.Zero(t, res.ExitCode)
	assert.Contains(t, res.Output, "Link 0: Active")
}

func TestSinfo(t *testing.T) {
	sim := &Slurm{}
	ctx := newCtx()

	res := run(t, sim, "sinfo", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Contains(t, res.Output, "batch*")
	assert.Contains(t, res.Output, "debug")

	res = run(t, sim, "sinfo -N", ctx)
	assert.Contains(t, res.Output, "gpu-node-01")

	res = run(t, sim, "sinfo -p batch", ctx)
	assert.NotContains(t, res.Output, "debug")

	// Drained nodes appear under -R with their reason.
	require.NoError(t, ctx.Store.SetSlurmState("gpu-node-01", cluster.SlurmDrain, "thermal"))
	res = run(t, sim, "sinfo -R", ctx)
	assert.Contains(t, res.Output, "thermal")
	assert.Contains(t, res.Output, "gpu-node-01")
}

func TestScontrolShowAndUpdate(t *testing.T) {
	sim := &Slurm{}
	ctx := newCtx()

	res := run(t, sim, "scontrol show node gpu-node-01", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Contains(t, res.Output, "NodeName=gpu-node-01")

	res = run(t, sim, "scontrol show node ghost", ctx)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Output, "not found")

	res = run(t, sim, "scontrol update NodeName=gpu-node-01 State=drain Reason=maint", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Equal(t, cluster.SlurmDrain, ctx.Store.Cluster().Node("gpu-node-01").SlurmState)

	// Draining without a reason is a user error.
	res = run(t, sim, "scontrol update NodeName=gpu-node-02 State=drain", ctx)
	assert.Equal(t, 1, res.ExitCode)

	res = run(t, sim, "scontrol update NodeName=gpu-node-01 State=resume", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Equal(t, cluster.SlurmIdle, ctx.Store.Cluster().Node("gpu-node-01").SlurmState)

	res = run(t, sim, "scontrol ping", ctx)
	assert.Contains(t, res.Output, "is UP")
}

func TestDCGMI(t *testing.T) {
	sim := &DCGMI{}
	ctx := newCtx()

	res := run(t, sim, "dcgmi discovery -l", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Contains(t, res.Output, "3 GPUs found.")

	res = run(t, sim, "dcgmi health -c", ctx)
	assert.Contains(t, res.Output, "Overall Health: Healthy")

	res = run(t, sim, "dcgmi diag -r 1", ctx)
	assert.Zero(t, res.ExitCode)

	// A fault flips health and fails diagnostics with the documented code.
	require.NoError(t, ctx.Store.AddXIDError("gpu-node-01", 0, 79, "bus fault"))
	res = run(t, sim, "dcgmi health -c", ctx)
	assert.Contains(t, res.Output, "Overall Health: Failure")

	res = run(t, sim, "dcgmi diag -r 1", ctx)
	assert.Equal(t, 20, res.ExitCode)
	assert.Contains(t, res.Output, "gpu-node-01 GPU 0")
}

func TestIPMITool(t *testing.T) {
	sim := &IPMITool{}
	ctx := newCtx()

	res := run(t, sim, "ipmitool sensor list", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Contains(t, res.Output, "GPU0 Temp")

	res = run(t, sim, "ipmitool power status", ctx)
	assert.Contains(t, res.Output, "Chassis Power is on")

	res = run(t, sim, "ipmitool power off", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Equal(t, "off", ctx.Store.Cluster().Node("gpu-node-01").BMC.PowerState)

	res = run(t, sim, "ipmitool lan print", ctx)
	assert.Contains(t, res.Output, "10.0.10.1")

	res = run(t, sim, "ipmitool bogus", ctx)
	assert.Equal(t, 1, res.ExitCode)
}

func TestEthtool(t *testing.T) {
	sim := &Ethtool{}
	ctx := newCtx()

	res := run(t, sim, "ethtool eth0", ctx)
	assert.Zero(t, res.ExitCode)
	assert.Contains(t, res.Output, "Link detected: yes")
	assert.Contains(t, res.Output, "100Gb/s")

	res = run(t, sim, "ethtool -i eth0", ctx)
	assert.Contains(t, res.Output, "driver: mlx5_core")

	res = run(t, sim, "ethtool eth9", ctx)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Output, "not found")
}
