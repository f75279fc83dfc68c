package topology

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ulvgard/procplan/internal/domain"
)

// topologyFile is the on-disk schema:
//
//	nodes:
//	  - id: node-a
//	    name: Node A
//	    gpus:
//	      - id: node-a-gpu0
//	        kind: NVIDIA H100 80GB HBM3
type topologyFile struct {
	Nodes []nodeEntry `yaml:"nodes" json:"nodes"`
}

type nodeEntry struct {
	ID   string     `yaml:"id" json:"id"`
	Name string     `yaml:"name" json:"name"`
	GPUs []gpuEntry `yaml:"gpus" json:"gpus"`
}

type gpuEntry struct {
	ID   string `yaml:"id" json:"id"`
	Kind string `yaml:"kind" json:"kind"`
}

// LoadFile reads a topology configuration file. YAML is the default; files
// ending in .json are parsed as JSON for compatibility with older configs.
func LoadFile(path string) ([]domain.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topology file: %w", err)
	}

	var file topologyFile
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(raw, &file)
	} else {
		err = yaml.Unmarshal(raw, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse topology file %s: %w", path, err)
	}

	nodes := make([]domain.Node, len(file.Nodes))
	for i, entry := range file.Nodes {
		gpus := make([]domain.GPU, len(entry.GPUs))
		for j, g := range entry.GPUs {
			gpus[j] = domain.GPU{ID: g.ID, Kind: g.Kind, NodeID: entry.ID}
		}
		nodes[i] = domain.Node{ID: entry.ID, Name: entry.Name, GPUs: gpus}
	}
	return nodes, nil
}

// LoadRegistryFromFile builds a registry from a configuration file.
func LoadRegistryFromFile(path string) (*Registry, error) {
	nodes, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewRegistry(nodes)
}
