package notifyassignees

import (
	"fmt"
	"strings"
	"text/template"

	"meeting-workers/internal/models"
)

var emailBody = template.Must(template.New("email").Parse(
	`Hi {{.Name}},

The following {{if eq (len .Tasks) 1}}task was{{else}}tasks were{{end}} assigned to you in meeting run {{.RunID}}:
{{range .Tasks}}
  #{{.TaskNumber}} [{{.Priority}}] {{.Description}}{{if .DueDate}} (due {{.DueDate}}){{else if .Deadline}} (due {{.Deadline}}){{end}}{{if .DependsOn}}
      {{.DependencyText}}{{end}}{{end}}
`))

type assigneeGroup struct {
	assignee string
	tasks    []models.TaskRecord
}

func (g assigneeGroup) numbers() []int {
	out := make([]int, len(g.tasks))
	for i, t := range g.tasks {
		out[i] = t.TaskNumber
	}
	return out
}

// groupByAssignee collects assigned tasks per person, in order of each
// person's first task. Names compare case-insensitively.
func groupByAssignee(tasks []models.TaskRecord) []assigneeGroup {
	var groups []assigneeGroup
	index := make(map[string]int)
	for _, t := range tasks {
		name := strings.TrimSpace(t.AssignedTo)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, assigneeGroup{assignee: name})
		}
		groups[i].tasks = append(groups[i].tasks, t)
	}
	return groups
}

func renderEmail(name, runID string, tasks []models.TaskRecord) (subject, body string, err error) {
	subject = "1 new task assigned to you"
	if len(tasks) != 1 {
		subject = fmt.Sprintf("%d new tasks assigned to you", len(tasks))
	}

	var sb strings.Builder
	err = emailBody.Execute(&sb, struct {
		Name  string
		RunID string
		Tasks []models.TaskRecord
	}{name, runID, tasks})
	if err != nil {
		return "", "", fmt.Errorf("render email: %w", err)
	}
	return subject, sb.String(), nil
}

func smsMessage(task models.TaskRecord) string {
	msg := fmt.Sprintf("%s task #%d: %s", task.Priority, task.TaskNumber, task.Description)
	switch {
	case task.DueDate != "":
		msg += " (due " + task.DueDate + ")"
	case task.Deadline != "":
		msg += " (due " + task.Deadline + ")"
	}
	return msg
}
