package resolvedependencies

import (
	"errors"
	"fmt"
	"sort"

	"meeting-workers/internal/models"
)

var (
	ErrInvalidGraph = errors.New("invalid dependency graph")
	ErrCycleFound   = errors.New("circular dependency")
)

// GraphError wraps a graph failure with the offending detail.
type GraphError struct {
	Kind error
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *GraphError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &GraphError{Kind: ErrInvalidGraph, Msg: fmt.Sprintf(format, args...)}
}

// CycleEdge is a back edge: From depends, directly or not, on To, and To
// leads back to From. Both are task indices.
type CycleEdge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (c CycleEdge) Err() error {
	return &GraphError{
		Kind: ErrCycleFound,
		Msg:  fmt.Sprintf("Task #%d -> Task #%d", c.From+1, c.To+1),
	}
}

// Graph holds dependent -> prerequisite edges over task indices
// [0, size). Duplicate edges are kept once.
type Graph struct {
	size    int
	roots   []int   // dependents in order of first appearance
	prereqs [][]int // by dependent, insertion order
}

func NewGraph(size int, deps []models.TaskDependency) (*Graph, error) {
	if size < 0 {
		return nil, invalidf("negative size %d", size)
	}
	g := &Graph{size: size, prereqs: make([][]int, size)}
	seen := make(map[[2]int]bool, len(deps))
	listed := make(map[int]bool)

	for _, d := range deps {
		if d.DependentIndex < 0 || d.DependentIndex >= size || d.PrerequisiteIndex < 0 || d.PrerequisiteIndex >= size {
			return nil, invalidf("edge %d -> %d outside %d tasks", d.DependentIndex, d.PrerequisiteIndex, size)
		}
		if d.DependentIndex == d.PrerequisiteIndex {
			return nil, invalidf("self-loop on task %d", d.DependentIndex)
		}
		key := [2]int{d.DependentIndex, d.PrerequisiteIndex}
		if seen[key] {
			continue
		}
		seen[key] = true
		if !listed[d.DependentIndex] {
			listed[d.DependentIndex] = true
			g.roots = append(g.roots, d.DependentIndex)
		}
		g.prereqs[d.DependentIndex] = append(g.prereqs[d.DependentIndex], d.PrerequisiteIndex)
	}
	return g, nil
}

// FirstBackEdge runs a depth-first search from each dependent in order of
// first appearance and stops at the first edge that closes a cycle. Only
// that edge is reported, not every edge of the cycle.
func (g *Graph) FirstBackEdge() (CycleEdge, bool) {
	visited := make([]bool, g.size)
	onStack := make([]bool, g.size)

	var visit func(node int) (CycleEdge, bool)
	visit = func(node int) (CycleEdge, bool) {
		visited[node] = true
		onStack[node] = true
		for _, next := range g.prereqs[node] {
			if !visited[next] {
				if edge, found := visit(next); found {
					return edge, true
				}
			} else if onStack[next] {
				return CycleEdge{From: node, To: next}, true
			}
		}
		onStack[node] = false
		return CycleEdge{}, false
	}

	for _, root := range g.roots {
		if visited[root] {
			continue
		}
		if edge, found := visit(root); found {
			return edge, true
		}
	}
	return CycleEdge{}, false
}

// TopologicalOrder returns task indices with every prerequisite before its
// dependents. Ready tasks are taken in index order. Tasks stuck on a cycle
// are appended in index order, so the result always covers every task.
func (g *Graph) TopologicalOrder() []int {
	dependents := make([][]int, g.size)
	indeg := make([]int, g.size)
	for dep := 0; dep < g.size; dep++ {
		for _, pre := range g.prereqs[dep] {
			dependents[pre] = append(dependents[pre], dep)
			indeg[dep]++
		}
	}
	for i := range dependents {
		sort.Ints(dependents[i])
	}

	queue := make([]int, 0, g.size)
	for i := 0; i < g.size; i++ {
		if indeg[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, g.size)
	placed := make([]bool, g.size)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		placed[node] = true
		for _, next := range dependents[node] {
			indeg[next]--
			if indeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	for i := 0; i < g.size; i++ {
		if !placed[i] {
			order = append(order, i)
		}
	}
	return order
}

// FirstPrerequisites maps each task index to the first prerequisite found
// for it, or -1. Later prerequisites of the same task are not kept.
func FirstPrerequisites(size int, deps []models.TaskDependency) []int {
	first := make([]int, size)
	for i := range first {
		first[i] = -1
	}
	for _, d := range deps {
		if d.DependentIndex < 0 || d.DependentIndex >= size {
			continue
		}
		if first[d.DependentIndex] == -1 {
			first[d.DependentIndex] = d.PrerequisiteIndex
		}
	}
	return first
}
