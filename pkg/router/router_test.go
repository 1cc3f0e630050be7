package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleetsim/fleetsim/pkg/parser"
	"github.com/fleetsim/fleetsim/pkg/simulator"
)

type stubSim struct{ name string }

func (s *stubSim) Metadata() simulator.Metadata {
	return simulator.Metadata{Name: s.name}
}

func (s *stubSim) Execute(*parser.Command, *simulator.Context) *simulator.Result {
	return simulator.Success(s.name)
}

func TestRegisterAndResolve(t *testing.T) {
	r := New()
	nv := &stubSim{name: "nvidia-smi"}
	r.Register("nvidia-smi", nv)

	assert.True(t, r.Has("nvidia-smi"))
	assert.Same(t, nv, r.Resolve("nvidia-smi"))

	// Unknown names resolve to nil, no fallback.
	assert.False(t, r.Has("nvidia-sim"))
	assert.Nil(t, r.Resolve("nvidia-sim"))
}

func TestRegisterMany(t *testing.T) {
	r := New()
	slurm := &stubSim{name: "slurm"}
	r.RegisterMany([]string{"sinfo", "squeue", "scontrol"}, slurm)

	assert.Same(t, slurm, r.Resolve("sinfo"))
	assert.Same(t, slurm, r.Resolve("squeue"))
	assert.Same(t, slurm, r.Resolve("scontrol"))
	assert.Equal(t, []string{"scontrol", "sinfo", "squeue"}, r.Names())
}

func TestLastWriteWins(t *testing.T) {
	r := New()
	first := &stubSim{name: "v1"}
	second := &stubSim{name: "v2"}

	r.Register("dcgmi", first)
	r.Register("dcgmi", second)

	assert.Same(t, second, r.Resolve("dcgmi"))
}
