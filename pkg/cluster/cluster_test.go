package cluster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCluster(t *testing.T) {
	c := Default()
	require.NotNil(t, c)
	assert.Equal(t, "training-fleet", c.Name)
	require.NotEmpty(t, c.Nodes)

	n := c.Node("gpu-node-01")
	require.NotNil(t, n)
	assert.Equal(t, HealthOK, n.Health)
	require.Len(t, n.GPUs, 2)
	assert.Equal(t, 45, n.GPUs[0].TemperatureC)

	g := c.GPU("gpu-node-01", 1)
	require.NotNil(t, g)
	assert.Equal(t, "H100-SXM5-80GB", g.Model)

	assert.Nil(t, c.Node("no-such-node"))
	assert.Nil(t, c.GPU("gpu-node-01", 99))
}

func TestCloneIsDeep(t *testing.T) {
	base := Default()
	copied := base.Clone()

	// Mutate every level of the copy.
	copied.Nodes[0].Health = HealthCritical
	copied.Nodes[0].GPUs[0].TemperatureC = 95
	copied.Nodes[0].GPUs[0].XIDErrors = append(copied.Nodes[0].GPUs[0].XIDErrors, XIDError{
		Code:      79,
		Timestamp: time.Now(),
	})
	copied.Nodes[0].GPUs[0].NVLinks[0].State = NVLinkError
	copied.Nodes[0].NICs[0].LinkUp = false
	copied.Partitions[0].Nodes[0] = "other-node"
	copied.Manager.State = "failover"

	assert.Equal(t, HealthOK, base.Nodes[0].Health)
	assert.Equal(t, 45, base.Nodes[0].GPUs[0].TemperatureC)
	assert.Empty(t, base.Nodes[0].GPUs[0].XIDErrors)
	assert.Equal(t, NVLinkActive, base.Nodes[0].GPUs[0].NVLinks[0].State)
	assert.True(t, base.Nodes[0].NICs[0].LinkUp)
	assert.Equal(t, "gpu-node-01", base.Partitions[0].Nodes[0])
	assert.Equal(t, "healthy", base.Manager.State)
}

func TestCloneNil(t *testing.T) {
	var c *Config
	assert.Nil(t, c.Clone())
}

func TestGPUUpdateApply(t *testing.T) {
	g := GPU{TemperatureC: 40, PowerLimitW: 700, Health: HealthOK}

	GPUUpdate{TemperatureC: Int(92), Health: Health(HealthCritical)}.Apply(&g)

	assert.Equal(t, 92, g.TemperatureC)
	assert.Equal(t, HealthCritical, g.Health)
	// Untouched fields keep their values.
	assert.Equal(t, 700, g.PowerLimitW)
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := Parse([]byte("name: x\nnodes: []\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("nodes:\n  - id: a\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("{{not yaml"))
	assert.Error(t, err)
}
