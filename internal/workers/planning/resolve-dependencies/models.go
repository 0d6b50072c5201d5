package resolvedependencies

import "meeting-workers/internal/models"

type Input struct {
	Tasks []models.ExtractedTask `json:"tasks"`
}

type Output struct {
	Dependencies []models.TaskDependency `json:"dependencies"`
	// DependsOn holds the prerequisite task number of each task, 0 for none.
	DependsOn []int      `json:"dependsOn"`
	Order     []int      `json:"order"`
	HasCycle  bool       `json:"hasCycle"`
	Cycle     *CycleEdge `json:"cycle,omitempty"`
	Warning   string     `json:"warning,omitempty"`
}
