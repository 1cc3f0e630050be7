// Package cluster defines the simulated fleet model: nodes, GPUs, network
// adapters, BMC info, and scheduler state.
//
// The model is built from plain value types so a configuration can be deep
// copied without any structural sharing. Isolation between training
// scenarios depends on that property: after Clone, no slice, map, or struct
// in the copy is reachable from the original.
//
// Cluster documents are YAML and are typically loaded once at startup, then
// cloned into scenario contexts as needed.
package cluster

import "time"

// HealthStatus describes the condition of a GPU or node.
type HealthStatus string

const (
	HealthOK       HealthStatus = "OK"
	HealthWarning  HealthStatus = "Warning"
	HealthCritical HealthStatus = "Critical"
	HealthUnknown  HealthStatus = "Unknown"
)

// NVLink states.
const (
	NVLinkActive   = "Active"
	NVLinkInactive = "Inactive"
	NVLinkError    = "Error"
)

// Slurm node states used by the scheduler model.
const (
	SlurmIdle      = "idle"
	SlurmAllocated = "alloc"
	SlurmDrain     = "drain"
	SlurmDown      = "down"
)

// Config is the root of the simulated cluster model.
type Config struct {
	Name       string      `yaml:"name" json:"name"`
	Nodes      []Node      `yaml:"nodes" json:"nodes"`
	Manager    ManagerHA   `yaml:"manager" json:"manager"`
	Partitions []Partition `yaml:"partitions,omitempty" json:"partitions,omitempty"`
}

// ManagerHA models the cluster manager's high-availability pair.
type ManagerHA struct {
	ActiveNode  string `yaml:"active_node" json:"active_node"`
	StandbyNode string `yaml:"standby_node,omitempty" json:"standby_node,omitempty"`
	State       string `yaml:"state" json:"state"` // e.g. "healthy", "degraded", "failover"
}

// Partition is a scheduler partition grouping nodes.
type Partition struct {
	Name    string   `yaml:"name" json:"name"`
	Nodes   []string `yaml:"nodes" json:"nodes"`
	State   string   `yaml:"state" json:"state"` // "up" or "down"
	Default bool     `yaml:"default,omitempty" json:"default,omitempty"`
}

// Node is one compute node in the fleet.
type Node struct {
	ID          string           `yaml:"id" json:"id"`
	Hostname    string           `yaml:"hostname" json:"hostname"`
	Health      HealthStatus     `yaml:"health" json:"health"`
	GPUs        []GPU            `yaml:"gpus" json:"gpus"`
	NICs        []NetworkAdapter `yaml:"nics,omitempty" json:"nics,omitempty"`
	BMC         BMCInfo          `yaml:"bmc" json:"bmc"`
	SlurmState  string           `yaml:"slurm_state" json:"slurm_state"`
	SlurmReason string           `yaml:"slurm_reason,omitempty" json:"slurm_reason,omitempty"`
}

// GPU is one simulated accelerator.
type GPU struct {
	Index          int          `yaml:"index" json:"index"`
	UUID           string       `yaml:"uuid" json:"uuid"`
	Model          string       `yaml:"model" json:"model"`
	TemperatureC   int          `yaml:"temperature_c" json:"temperature_c"`
	PowerDrawW     int          `yaml:"power_draw_w" json:"power_draw_w"`
	PowerLimitW    int          `yaml:"power_limit_w" json:"power_limit_w"`
	MemoryUsedMiB  int          `yaml:"memory_used_mib" json:"memory_used_mib"`
	MemoryTotalMiB int          `yaml:"memory_total_mib" json:"memory_total_mib"`
	UtilizationPct int          `yaml:"utilization_pct" json:"utilization_pct"`
	Health         HealthStatus `yaml:"health" json:"health"`
	XIDErrors      []XIDError   `yaml:"xid_errors,omitempty" json:"xid_errors,omitempty"`
	ECC            ECCCounters  `yaml:"ecc" json:"ecc"`
	NVLinks        []NVLink     `yaml:"nvlinks,omitempty" json:"nvlinks,omitempty"`
	MIG            MIGConfig    `yaml:"mig" json:"mig"`
}

// XIDError is a simulated driver/hardware fault report.
type XIDError struct {
	Code      int       `yaml:"code" json:"code"`
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Message   string    `yaml:"message,omitempty" json:"message,omitempty"`
}

// ECCCounters holds simulated memory error counts.
type ECCCounters struct {
	SingleBit int `yaml:"single_bit" json:"single_bit"`
	DoubleBit int `yaml:"double_bit" json:"double_bit"`
}

// NVLink is one inter-GPU link with status and error counters.
type NVLink struct {
	ID             int    `yaml:"id" json:"id"`
	State          string `yaml:"state" json:"state"`
	ReplayErrors   int    `yaml:"replay_errors" json:"replay_errors"`
	RecoveryErrors int    `yaml:"recovery_errors" json:"recovery_errors"`
	CRCErrors      int    `yaml:"crc_errors" json:"crc_errors"`
}

// MIGConfig describes Multi-Instance GPU partitioning for one GPU.
type MIGConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Instances []MIGInstance `yaml:"instances,omitempty" json:"instances,omitempty"`
}

// MIGInstance is one MIG slice.
type MIGInstance struct {
	ID        int    `yaml:"id" json:"id"`
	Profile   string `yaml:"profile" json:"profile"` // e.g. "1g.10gb"
	MemoryGiB int    `yaml:"memory_gib" json:"memory_gib"`
}

// NetworkAdapter is one simulated NIC.
type NetworkAdapter struct {
	Name      string `yaml:"name" json:"name"`
	MAC       string `yaml:"mac" json:"mac"`
	IP        string `yaml:"ip" json:"ip"`
	SpeedGbps int    `yaml:"speed_gbps" json:"speed_gbps"`
	LinkUp    bool   `yaml:"link_up" json:"link_up"`
	Driver    string `yaml:"driver,omitempty" json:"driver,omitempty"`
}

// BMCInfo is the baseboard management controller view of a node.
type BMCInfo struct {
	IP         string `yaml:"ip" json:"ip"`
	MAC        string `yaml:"mac" json:"mac"`
	Firmware   string `yaml:"firmware" json:"firmware"`
	PowerState string `yaml:"power_state" json:"power_state"` // "on" or "off"
}

// Node returns the node with the given id, or nil.
// Lookup also matches hostname so tools can accept either form.
func (c *Config) Node(id string) *Node {
	for i := range c.Nodes {
		if c.Nodes[i].ID == id || c.Nodes[i].Hostname == id {
			return &c.Nodes[i]
		}
	}
	return nil
}

// GPU returns the GPU with the given index on the given node, or nil.
func (c *Config) GPU(nodeID string, index int) *GPU {
	n := c.Node(nodeID)
	if n == nil {
		return nil
	}
	for i := range n.GPUs {
		if n.GPUs[i].Index == index {
			return &n.GPUs[i]
		}
	}
	return nil
}

// Partition returns the named partition, or nil.
func (c *Config) Partition(name string) *Partition {
	for i := range c.Partitions {
		if c.Partitions[i].Name == name {
			return &c.Partitions[i]
		}
	}
	return nil
}
