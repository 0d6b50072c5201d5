// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"meeting-workers/internal/common/validation"
	"meeting-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		help(stderr)
		return 1
	}

	var err error
	switch args[0] {
	case "add":
		err = runAdd(args[1:], stdout, stderr)
	case "update":
		err = runUpdate(args[1:], stdout, stderr)
	case "validate":
		err = runValidate(args[1:], stdout, stderr)
	case "check":
		err = runCheck(args[1:], stdout, stderr)
	case "list":
		err = runList(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		help(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		help(stderr)
		return 1
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	return fs, path
}

func runAdd(args []string, stdout, stderr io.Writer) error {
	fs, path := newFlagSet("add", stderr)
	id := fs.String("id", "", "Activity ID (e.g., parse-deadline)")
	displayName := fs.String("displayName", "", "Display Name (e.g., Parse Deadline)")
	description := fs.String("description", "", "Description")
	category := fs.String("category", "", "Category (e.g., scheduling)")
	taskType := fs.String("taskType", "", "Job type (defaults to the ID)")
	version := fs.String("version", "1.0.0", "Version")
	status := fs.String("status", registry.StatusPlanned, "Implementation Status (planned, in-progress, completed, verified)")
	timeout := fs.String("timeout", "30s", "Job timeout")
	retries := fs.Int("retries", 0, "Retries for retryable failures")
	tags := fs.String("tags", "", "Comma-separated tags")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *id == "" || *displayName == "" || *description == "" || *category == "" {
		return errors.New("id, displayName, description and category are required for add")
	}
	if *taskType == "" {
		*taskType = *id
	}

	reg, err := registry.LoadRegistry(*path)
	if errors.Is(err, os.ErrNotExist) {
		reg = registry.New()
	} else if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	activity := registry.Activity{
		ID:                   *id,
		DisplayName:          *displayName,
		Description:          *description,
		Category:             *category,
		Version:              *version,
		TaskType:             *taskType,
		ImplementationStatus: *status,
		InputSchema:          map[string]interface{}{},
		OutputSchema:         map[string]interface{}{},
		ErrorCodes:           []string{},
		Timeout:              *timeout,
		Retries:              *retries,
		Workflows:            []string{},
		Tags:                 splitList(*tags),
	}
	if err := reg.Add(activity); err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	if err := registry.SaveRegistry(reg, *path); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Added activity: %s\n", *id)
	return nil
}

func runUpdate(args []string, stdout, stderr io.Writer) error {
	fs, path := newFlagSet("update", stderr)
	id := fs.String("id", "", "Activity ID to update")
	field := fs.String("field", "", "Field to update (status, version, etc.)")
	value := fs.String("value", "", "New value for the field")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" || *field == "" || *value == "" {
		return errors.New("id, field and value are required for update")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	activity, ok := reg.Find(*id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", *id)
	}

	switch *field {
	case "status":
		activity.ImplementationStatus = *value
	case "version":
		activity.Version = *value
	case "displayName":
		activity.DisplayName = *value
	case "description":
		activity.Description = *value
	case "category":
		activity.Category = *value
	case "taskType":
		activity.TaskType = *value
	case "timeout":
		activity.Timeout = *value
	case "retries":
		n, err := strconv.Atoi(*value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = n
	case "errorCodes":
		activity.ErrorCodes = splitList(*value)
	case "tags":
		activity.Tags = splitList(*value)
	default:
		return fmt.Errorf("unknown field: %s", *field)
	}

	if err := reg.Validate(); err != nil {
		return err
	}
	reg.Touch()
	if err := registry.SaveRegistry(reg, *path); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Updated activity %s, field %s to %s\n", *id, *field, *value)
	return nil
}

func runValidate(args []string, stdout, stderr io.Writer) error {
	fs, path := newFlagSet("validate", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}
	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		if _, err := compileInputSchema(&a); err != nil {
			return fmt.Errorf("activity %s: %w", a.ID, err)
		}
	}

	fmt.Fprintf(stdout, "Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

// runCheck validates job variables against an activity's input schema.
func runCheck(args []string, stdout, stderr io.Writer) error {
	fs, path := newFlagSet("check", stderr)
	id := fs.String("id", "", "Activity ID")
	vars := fs.String("vars", "", "Job variables as JSON")
	varsFile := fs.String("file", "", "File holding the job variables")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" || (*vars == "" && *varsFile == "") {
		return errors.New("id and one of vars or file are required for check")
	}

	document := []byte(*vars)
	if *varsFile != "" {
		data, err := os.ReadFile(*varsFile)
		if err != nil {
			return fmt.Errorf("read variables: %w", err)
		}
		document = data
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	activity, ok := reg.Find(*id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", *id)
	}

	schema, err := compileInputSchema(activity)
	if err != nil {
		return err
	}
	result, err := schema.ValidateJSON(document)
	if err != nil {
		return fmt.Errorf("invalid variables: %w", err)
	}
	if !result.Valid {
		return fmt.Errorf("variables do not match %s input: %s", activity.ID, strings.Join(result.GetErrorMessages(), "; "))
	}

	fmt.Fprintf(stdout, "Variables match %s input schema.\n", activity.ID)
	return nil
}

func runList(args []string, stdout, stderr io.Writer) error {
	fs, path := newFlagSet("list", stderr)
	category := fs.String("category", "", "Only list this category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	for _, a := range reg.Activities {
		if *category != "" && a.Category != *category {
			continue
		}
		fmt.Fprintf(stdout, "%-22s %-12s %-10s %s\n", a.TaskType, a.Category, a.ImplementationStatus, a.Timeout)
	}
	return nil
}

func compileInputSchema(a *registry.Activity) (*validation.Schema, error) {
	raw, err := json.Marshal(a.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("encode input schema: %w", err)
	}
	schema, err := validation.CompileSchema(string(raw))
	if err != nil {
		return nil, fmt.Errorf("compile input schema: %w", err)
	}
	return schema, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func help(w io.Writer) {
	fmt.Fprint(w, `
Usage: registry-updater <command> [flags]

Commands:
  add       Add a new activity to the registry
  update    Update an existing activity's field
  validate  Validate the registry file
  check     Validate job variables against an activity's input schema
  list      List registered activities
  help      Show this help message

Examples:
  registry-updater add -id summarize-meeting -displayName "Summarize Meeting" -description "Summarizes a transcript" -category extraction
  registry-updater update -id summarize-meeting -field status -value completed
  registry-updater validate -path configs/activity-registry.json
  registry-updater check -id parse-deadline -vars '{"phrase":"by Friday","referenceDate":"2024-01-15"}'

Use 'registry-updater <command> -h' for more information about a command.
`)
}
