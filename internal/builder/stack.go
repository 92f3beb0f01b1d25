package builder

import (
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"

	"netsynth/internal/models"
)

// Stack is the resource graph produced by a build. Edges point from a
// dependency to the resource that needs it.
type Stack struct {
	graph     graph.Graph[string, *Resource]
	resources []*Resource
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{
		graph: graph.New(func(r *Resource) string { return r.Handle.LogicalID },
			graph.Directed(), graph.Acyclic(), graph.PreventCycles()),
	}
}

// add appends r to the stack. Every dependency must already be part of
// the stack, so forward references are rejected.
func (s *Stack) add(r *Resource) error {
	deps := r.Dependencies()
	for _, dep := range deps {
		if _, err := s.graph.Vertex(dep.LogicalID); errors.Is(err, graph.ErrVertexNotFound) {
			return models.NewDependencyError(dep.Key.Category, dep.Key.Name,
				fmt.Sprintf("referenced by %s before it was created", r.Handle))
		}
	}

	r.seq = len(s.resources)
	if err := s.graph.AddVertex(r); err != nil {
		return fmt.Errorf("adding %s to stack: %w", r.Handle, err)
	}
	for _, dep := range deps {
		err := s.graph.AddEdge(dep.LogicalID, r.Handle.LogicalID)
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return fmt.Errorf("linking %s to %s: %w", dep, r.Handle, err)
		}
	}

	s.resources = append(s.resources, r)
	return nil
}

// Resources returns the resources in creation order.
func (s *Stack) Resources() []*Resource {
	out := make([]*Resource, len(s.resources))
	copy(out, s.resources)
	return out
}

// Resource looks a resource up by logical id.
func (s *Stack) Resource(logicalID string) (*Resource, bool) {
	r, err := s.graph.Vertex(logicalID)
	if err != nil {
		return nil, false
	}
	return r, true
}

// Len returns the number of resources in the stack.
func (s *Stack) Len() int {
	return len(s.resources)
}

// Order returns the resources in a dependency-respecting order. It is
// stable across runs: ties are broken by creation order.
func (s *Stack) Order() ([]*Resource, error) {
	ids, err := graph.StableTopologicalSort(s.graph, func(a, b string) bool {
		return s.seqOf(a) < s.seqOf(b)
	})
	if err != nil {
		return nil, fmt.Errorf("sorting stack: %w", err)
	}

	ordered := make([]*Resource, 0, len(ids))
	for _, id := range ids {
		r, err := s.graph.Vertex(id)
		if err != nil {
			return nil, fmt.Errorf("sorting stack: %w", err)
		}
		ordered = append(ordered, r)
	}
	return ordered, nil
}

// Layers groups resources by dependency depth. Every resource in layer n
// depends only on resources in layers before n, so a layer can be
// applied concurrently once the previous ones are done.
func (s *Stack) Layers() ([][]*Resource, error) {
	ordered, err := s.Order()
	if err != nil {
		return nil, err
	}
	predecessors, err := s.graph.PredecessorMap()
	if err != nil {
		return nil, fmt.Errorf("computing layers: %w", err)
	}

	depth := make(map[string]int, len(ordered))
	var layers [][]*Resource
	for _, r := range ordered {
		id := r.Handle.LogicalID
		d := 0
		for pred := range predecessors[id] {
			if depth[pred]+1 > d {
				d = depth[pred] + 1
			}
		}
		depth[id] = d
		if d == len(layers) {
			layers = append(layers, nil)
		}
		layers[d] = append(layers[d], r)
	}
	return layers, nil
}

// Depth returns the layer index of every resource, keyed by logical id.
func (s *Stack) Depth() (map[string]int, error) {
	layers, err := s.Layers()
	if err != nil {
		return nil, err
	}
	depth := make(map[string]int, s.Len())
	for i, layer := range layers {
		for _, r := range layer {
			depth[r.Handle.LogicalID] = i
		}
	}
	return depth, nil
}

func (s *Stack) seqOf(logicalID string) int {
	r, err := s.graph.Vertex(logicalID)
	if err != nil {
		return len(s.resources)
	}
	return r.seq
}
