// Package topology holds the reloadable node/GPU inventory. The registry
// wraps an immutable snapshot behind an atomic pointer so a reload is never
// observable half-applied: a reader resolves all of its identifiers against
// one version or the other, never a mix.
package topology

import (
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/ulvgard/procplan/internal/domain"
)

// Snapshot is one immutable version of the inventory.
type Snapshot struct {
	version int64
	nodes   []domain.Node
	byGPU   map[string]domain.GPU
	byNode  map[string]int // index into nodes
}

// Version identifies the snapshot; it increases with every Load.
func (s *Snapshot) Version() int64 { return s.version }

// Registry is the process-wide topology inventory.
type Registry struct {
	current atomic.Pointer[Snapshot]
	loads   atomic.Int64
}

// NewRegistry creates a registry populated with the given nodes.
func NewRegistry(nodes []domain.Node) (*Registry, error) {
	r := &Registry{}
	if err := r.Load(nodes); err != nil {
		return nil, err
	}
	return r, nil
}

// Load replaces the entire inventory atomically. Existing bookings are not
// touched; only validation and display of future requests use the new
// snapshot.
func (r *Registry) Load(nodes []domain.Node) error {
	snap, err := buildSnapshot(nodes)
	if err != nil {
		return err
	}
	snap.version = r.loads.Add(1)
	r.current.Store(snap)
	return nil
}

func buildSnapshot(nodes []domain.Node) (*Snapshot, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: topology must include at least one node", domain.ErrInvalidInput)
	}

	snap := &Snapshot{
		nodes:  make([]domain.Node, len(nodes)),
		byGPU:  make(map[string]domain.GPU),
		byNode: make(map[string]int, len(nodes)),
	}

	for i, node := range nodes {
		if node.ID == "" {
			return nil, fmt.Errorf("%w: node at index %d has an empty id", domain.ErrInvalidInput, i)
		}
		if _, dup := snap.byNode[node.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", domain.ErrInvalidInput, node.ID)
		}
		if node.Name == "" {
			node.Name = node.ID
		}

		gpus := make([]domain.GPU, len(node.GPUs))
		for j, gpu := range node.GPUs {
			if gpu.ID == "" {
				return nil, fmt.Errorf("%w: node %q has a GPU with an empty id", domain.ErrInvalidInput, node.ID)
			}
			if _, dup := snap.byGPU[gpu.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate GPU id %q", domain.ErrInvalidInput, gpu.ID)
			}
			if gpu.Kind == "" {
				gpu.Kind = "unspecified"
			}
			gpu.NodeID = node.ID
			gpus[j] = gpu
			snap.byGPU[gpu.ID] = gpu
		}

		node.GPUs = gpus
		snap.nodes[i] = node
		snap.byNode[node.ID] = i
	}

	return snap, nil
}

// Snapshot returns the current inventory version. Callers that need several
// consistent lookups should take one snapshot and resolve against it.
func (r *Registry) Snapshot() *Snapshot {
	return r.current.Load()
}

// Resolve returns the GPU records for the given ids in request order, or an
// UnknownResource error listing every offending identifier.
func (r *Registry) Resolve(gpuIDs []string) ([]domain.GPU, error) {
	return r.Snapshot().Resolve(gpuIDs)
}

// Nodes yields the node records in configuration order.
func (r *Registry) Nodes() iter.Seq[domain.Node] {
	return r.Snapshot().Nodes()
}

// Node returns the node with the given id.
func (r *Registry) Node(nodeID string) (domain.Node, error) {
	return r.Snapshot().Node(nodeID)
}

// Count returns the total GPU count for a node, for capacity checks.
func (r *Registry) Count(nodeID string) (int, error) {
	node, err := r.Snapshot().Node(nodeID)
	if err != nil {
		return 0, err
	}
	return node.GPUCount(), nil
}

// Resolve looks up GPU records against this snapshot.
func (s *Snapshot) Resolve(gpuIDs []string) ([]domain.GPU, error) {
	gpus := make([]domain.GPU, 0, len(gpuIDs))
	var missing []string
	for _, id := range gpuIDs {
		gpu, ok := s.byGPU[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		gpus = append(gpus, gpu)
	}
	if len(missing) > 0 {
		return nil, &domain.UnknownResourceError{Kind: "gpu", IDs: missing}
	}
	return gpus, nil
}

// Nodes yields the snapshot's nodes in configuration order. The sequence is
// restartable.
func (s *Snapshot) Nodes() iter.Seq[domain.Node] {
	return func(yield func(domain.Node) bool) {
		for _, node := range s.nodes {
			if !yield(node) {
				return
			}
		}
	}
}

// Node returns the node with the given id.
func (s *Snapshot) Node(nodeID string) (domain.Node, error) {
	i, ok := s.byNode[nodeID]
	if !ok {
		return domain.Node{}, &domain.UnknownResourceError{Kind: "node", IDs: []string{nodeID}}
	}
	return s.nodes[i], nil
}

// GPUs returns the GPUs under scope in configuration order. An empty scope
// means every node.
func (s *Snapshot) GPUs(scope string) ([]domain.GPU, error) {
	if scope == "" {
		var all []domain.GPU
		for _, node := range s.nodes {
			all = append(all, node.GPUs...)
		}
		return all, nil
	}
	node, err := s.Node(scope)
	if err != nil {
		return nil, err
	}
	return node.GPUs, nil
}
