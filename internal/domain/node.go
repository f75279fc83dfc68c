package domain

// GPU represents a single bookable GPU as declared in the topology
// configuration. GPU identifiers are unique across the whole registry,
// not just within their node.
type GPU struct {
	// ID is the unique identifier, e.g. "node-a-gpu0"
	ID string `json:"id"`

	// Kind is a free-form hardware label, e.g. "NVIDIA H100 80GB HBM3"
	Kind string `json:"kind"`

	// NodeID is a back-reference to the owning node
	NodeID string `json:"node_id"`
}

// Node is a host owning an ordered list of GPUs. Nodes are immutable once
// loaded; changes arrive only through a full topology reload.
type Node struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// GPUs in configuration order. The order is significant for display
	// and for deterministic selection tie-breaking, so it is never re-sorted.
	GPUs []GPU `json:"gpus"`
}

// GPUCount returns the number of GPUs the node owns.
func (n *Node) GPUCount() int {
	return len(n.GPUs)
}
