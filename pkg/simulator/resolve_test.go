package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetsim/fleetsim/pkg/cluster"
	"github.com/fleetsim/fleetsim/pkg/scenario"
)

func TestResolvePriorityChain(t *testing.T) {
	store := NewStore(cluster.Default())

	explicit := cluster.Default()
	explicit.Name = "explicit"
	scen := scenario.NewContext("lesson-1", cluster.Default())

	// Explicit override wins over scenario, which wins over the store.
	ctx := &Context{Cluster: explicit, Scenario: scen, Store: store}
	assert.Equal(t, SourceExplicit, ResolveSource(ctx))
	assert.Equal(t, "explicit", ResolveCluster(ctx).Name)

	ctx = &Context{Scenario: scen, Store: store}
	assert.Equal(t, SourceScenario, ResolveSource(ctx))
	assert.Same(t, scen.Cluster(), ResolveCluster(ctx))

	ctx = &Context{Store: store}
	assert.Equal(t, SourceGlobal, ResolveSource(ctx))
	assert.Same(t, store.Cluster(), ResolveCluster(ctx))

	assert.Nil(t, ResolveCluster(&Context{}))
}

func TestResolveNode(t *testing.T) {
	store := NewStore(cluster.Default())

	ctx := &Context{Store: store, CurrentNode: "gpu-node-02"}
	n := ResolveNode(ctx, "gpu-node-01")
	require.NotNil(t, n)
	assert.Equal(t, "gpu-node-01", n.ID)

	// Empty id falls back to the context's current node.
	n = ResolveNode(ctx, "")
	require.NotNil(t, n)
	assert.Equal(t, "gpu-node-02", n.ID)

	assert.Nil(t, ResolveNode(ctx, "ghost"))

	all := ResolveAllNodes(ctx)
	assert.Len(t, all, 2)
}

func TestResolveMutatorSingleSink(t *testing.T) {
	store := NewStore(cluster.Default())
	scen := scenario.NewContext("lesson-1", cluster.Default())

	// With a scenario attached, writes land there and never in the store.
	ctx := &Context{Scenario: scen, Store: store}
	mut := ResolveMutator(ctx)
	require.NoError(t, mut.UpdateGPU("gpu-node-01", 0, cluster.GPUUpdate{
		TemperatureC: cluster.Int(95),
	}))

	assert.Equal(t, 95, scen.GPU("gpu-node-01", 0).TemperatureC)
	assert.Equal(t, 45, store.Cluster().GPU("gpu-node-01", 0).TemperatureC)
	assert.Equal(t, 1, scen.MutationCount())

	// Without a scenario, mutations reach the shared store.
	ctx = &Context{Store: store}
	mut = ResolveMutator(ctx)
	require.NoError(t, mut.UpdateGPU("gpu-node-01", 0, cluster.GPUUpdate{
		TemperatureC: cluster.Int(60),
	}))
	assert.Equal(t, 60, store.Cluster().GPU("gpu-node-01", 0).TemperatureC)

	assert.Nil(t, ResolveMutator(&Context{}))
}

func TestStoreMutations(t *testing.T) {
	store := NewStore(cluster.Default())

	require.NoError(t, store.AddXIDError("gpu-node-01", 0, 79, "bus fault"))
	require.NoError(t, store.UpdateNodeHealth("gpu-node-01", cluster.HealthCritical))
	require.NoError(t, store.SetMIGMode("gpu-node-01", 0, true))
	require.NoError(t, store.SetSlurmState("gpu-node-01", cluster.SlurmDown, "hw failure"))
	require.NoError(t, store.SetNICLink("gpu-node-01", "eth0", false))
	require.NoError(t, store.SetBMCPower("gpu-node-01", "off"))

	n := store.Cluster().Node("gpu-node-01")
	assert.Equal(t, cluster.HealthCritical, n.Health)
	assert.Len(t, n.GPUs[0].XIDErrors, 1)
	assert.True(t, n.GPUs[0].MIG.Enabled)
	assert.Equal(t, cluster.SlurmDown, n.SlurmState)
	assert.False(t, n.NICs[0].LinkUp)
	assert.Equal(t, "off", n.BMC.PowerState)

	// Missing targets are errors for programmatic callers.
	assert.Error(t, store.UpdateGPU("ghost", 0, cluster.GPUUpdate{}))
	assert.Error(t, store.SetNICLink("gpu-node-01", "eth9", true))

	// Reset restores a fresh copy, independent of the argument.
	fresh := cluster.Default()
	store.Reset(fresh)
	fresh.Nodes[0].Health = cluster.HealthUnknown
	assert.Equal(t, cluster.HealthOK, store.Cluster().Node("gpu-node-01").Health)
}
