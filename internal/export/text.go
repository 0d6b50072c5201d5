package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"meeting-workers/internal/models"
)

const maxDescriptionWidth = 60

// WriteText renders result as an aligned table followed by any warning.
func WriteText(w io.Writer, result *models.PipelineResult, showTranscript bool) error {
	var b strings.Builder

	if showTranscript && result.Transcript != "" {
		fmt.Fprintf(&b, "Transcript:\n%s\n\n", result.Transcript)
	}

	switch {
	case !result.Success:
		fmt.Fprintf(&b, "Error: %s\n", result.Message)
	case len(result.Tasks) == 0:
		msg := result.Message
		if msg == "" {
			msg = "No tasks found"
		}
		fmt.Fprintf(&b, "%s\n", msg)
	default:
		fmt.Fprintf(&b, "%d task(s)", len(result.Tasks))
		if result.ReferenceDate != "" {
			fmt.Fprintf(&b, " relative to %s", result.ReferenceDate)
		}
		b.WriteString("\n\n")

		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tDESCRIPTION\tASSIGNED TO\tDEADLINE\tPRIORITY\tDEPENDS ON")
		for _, t := range result.Tasks {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				t.TaskNumber,
				truncate(t.Description, maxDescriptionWidth),
				orDash(t.AssignedTo),
				orDash(deadlineText(t)),
				t.Priority,
				orDash(dependsOnText(t)),
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if len(result.ExecutionOrder) > 0 {
			order := make([]string, len(result.ExecutionOrder))
			for i, n := range result.ExecutionOrder {
				order[i] = fmt.Sprintf("#%d", n)
			}
			fmt.Fprintf(&b, "\nExecution order: %s\n", strings.Join(order, " -> "))
		}
	}

	if result.Warning != "" {
		fmt.Fprintf(&b, "\nWarning: %s\n", result.Warning)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func deadlineText(t models.TaskRecord) string {
	switch {
	case t.Deadline != "" && t.DueDate != "":
		return fmt.Sprintf("%s (%s)", t.DueDate, t.Deadline)
	case t.DueDate != "":
		return t.DueDate
	default:
		return t.Deadline
	}
}

func dependsOnText(t models.TaskRecord) string {
	if t.DependsOn <= 0 {
		return ""
	}
	return fmt.Sprintf("#%d", t.DependsOn)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
