package tools

import "github.com/fleetsim/fleetsim/pkg/router"

// RegisterAll wires the whole catalogue into a router.
func RegisterAll(r *router.Router) {
	r.Register("nvidia-smi", &NvidiaSMI{})
	r.Register("dcgmi", &DCGMI{})
	r.Register("ipmitool", &IPMITool{})
	r.Register("ethtool", &Ethtool{})

	slurm := &Slurm{}
	r.RegisterMany(slurm.BaseCommands(), slurm)
}
