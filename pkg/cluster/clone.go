package cluster

// Clone returns a deep copy of the configuration. The copy shares no slices,
// maps, or struct pointers with the receiver, so mutating one never affects
// the other.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Nodes = make([]Node, len(c.Nodes))
	for i := range c.Nodes {
		out.Nodes[i] = c.Nodes[i].clone()
	}
	out.Partitions = make([]Partition, len(c.Partitions))
	for i, p := range c.Partitions {
		out.Partitions[i] = p
		out.Partitions[i].Nodes = append([]string(nil), p.Nodes...)
	}
	return &out
}

func (n Node) clone() Node {
	out := n
	out.GPUs = make([]GPU, len(n.GPUs))
	for i := range n.GPUs {
		out.GPUs[i] = n.GPUs[i].clone()
	}
	out.NICs = append([]NetworkAdapter(nil), n.NICs...)
	return out
}

func (g GPU) clone() GPU {
	out := g
	out.XIDErrors = append([]XIDError(nil), g.XIDErrors...)
	out.NVLinks = append([]NVLink(nil), g.NVLinks...)
	out.MIG.Instances = append([]MIGInstance(nil), g.MIG.Instances...)
	return out
}

// GPUUpdate is a partial update applied to a GPU. Nil fields are left
// untouched.
type GPUUpdate struct {
	TemperatureC   *int
	PowerDrawW     *int
	PowerLimitW    *int
	MemoryUsedMiB  *int
	UtilizationPct *int
	Health         *HealthStatus
	ECCSingleBit   *int
	ECCDoubleBit   *int
}

// Apply writes the non-nil fields of the update onto the GPU.
func (u GPUUpdate) Apply(g *GPU) {
	if u.TemperatureC != nil {
		g.TemperatureC = *u.TemperatureC
	}
	if u.PowerDrawW != nil {
		g.PowerDrawW = *u.PowerDrawW
	}
	if u.PowerLimitW != nil {
		g.PowerLimitW = *u.PowerLimitW
	}
	if u.MemoryUsedMiB != nil {
		g.MemoryUsedMiB = *u.MemoryUsedMiB
	}
	if u.UtilizationPct != nil {
		g.UtilizationPct = *u.UtilizationPct
	}
	if u.Health != nil {
		g.Health = *u.Health
	}
	if u.ECCSingleBit != nil {
		g.ECC.SingleBit = *u.ECCSingleBit
	}
	if u.ECCDoubleBit != nil {
		g.ECC.DoubleBit = *u.ECCDoubleBit
	}
}

// Int is a convenience for building GPUUpdate literals.
func Int(v int) *int { return &v }

// Health is a convenience for building GPUUpdate literals.
func Health(v HealthStatus) *HealthStatus { return &v }
