package resolvedependencies

import (
	"fmt"

	"meeting-workers/internal/models"
)

const CycleWarning = "Warning: Circular dependencies detected between tasks"

// Analysis is the dependency picture of one meeting.
type Analysis struct {
	Dependencies []models.TaskDependency
	// FirstPrerequisite holds, per task index, the index of its first
	// prerequisite or -1.
	FirstPrerequisite []int
	Order             []int
	Cycle             *CycleEdge
}

// Analyze resolves dependencies, looks for a cycle and orders the tasks.
// A cycle is reported, never returned as an error.
func (r *Resolver) Analyze(tasks []models.ExtractedTask) (*Analysis, error) {
	deps := r.Resolve(tasks)
	graph, err := NewGraph(len(tasks), deps)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Dependencies:      deps,
		FirstPrerequisite: FirstPrerequisites(len(tasks), deps),
		Order:             graph.TopologicalOrder(),
	}
	if edge, found := graph.FirstBackEdge(); found {
		a.Cycle = &edge
	}
	return a, nil
}

func (a *Analysis) HasCycle() bool {
	return a.Cycle != nil
}

// Warning is empty unless the dependencies contain a cycle.
func (a *Analysis) Warning() string {
	if a.Cycle == nil {
		return ""
	}
	return fmt.Sprintf("%s (Task #%d and Task #%d)", CycleWarning, a.Cycle.From+1, a.Cycle.To+1)
}
