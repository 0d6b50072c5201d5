package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"meeting-workers/internal/models"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{
	"Task Number",
	"Description",
	"Assigned To",
	"Deadline",
	"Priority",
	"Dependencies",
	"Reasoning",
}

// WriteCSV writes one row per task under CSVHeader. The Deadline column
// carries the spoken phrase; resolved dates are only kept in JSON.
func WriteCSV(w io.Writer, tasks []models.TaskRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		row := []string{
			strconv.Itoa(t.TaskNumber),
			t.Description,
			t.AssignedTo,
			t.Deadline,
			string(t.Priority),
			t.DependencyText(),
			t.Reasoning,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the output of WriteCSV. Columns are located by header
// name, so extra or reordered columns are tolerated. CSV carries the
// spoken deadline only, so DueDate is always empty on the returned records.
func ReadCSV(r io.Reader) ([]models.TaskRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing CSV header", ErrInvalidFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Task Number", "Description", "Priority"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%w: CSV header lacks %q", ErrInvalidFormat, required)
		}
	}

	var tasks []models.TaskRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}

		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		n, err := strconv.Atoi(strings.TrimSpace(field("Task Number")))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: task number %q", ErrInvalidFormat, line, field("Task Number"))
		}
		tasks = append(tasks, models.TaskRecord{
			TaskNumber:  n,
			Description: field("Description"),
			AssignedTo:  field("Assigned To"),
			Deadline:    field("Deadline"),
			Priority:    models.ParsePriority(field("Priority")),
			DependsOn:   models.ParseDependencyText(field("Dependencies")),
			Reasoning:   field("Reasoning"),
		})
	}
	return tasks, nil
}
