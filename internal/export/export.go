// Package export renders pipeline results as JSON, CSV or a text table and
// reads the JSON and CSV forms back.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"meeting-workers/internal/models"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

var ErrInvalidFormat = errors.New("invalid task document")

// ParseFormat accepts text, json or csv in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text, json or csv)", s)
	}
}

// Write renders result in the given format. JSON output is the whole
// result; CSV output is the task rows only.
func Write(w io.Writer, format Format, result *models.PipelineResult, showTranscript bool) error {
	switch format {
	case FormatJSON:
		data, err := MarshalResult(result)
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case FormatCSV:
		return WriteCSV(w, result.Tasks)
	case FormatText:
		return WriteText(w, result, showTranscript)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
