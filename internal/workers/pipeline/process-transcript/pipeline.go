package processtranscript

import (
	"context"
	"time"

	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/common/metrics"
	"meeting-workers/internal/common/observability"
	"meeting-workers/internal/models"
	"meeting-workers/internal/roster"
	assigntask "meeting-workers/internal/workers/assignment/assign-task"
	extracttasks "meeting-workers/internal/workers/extraction/extract-tasks"
	resolvedependencies "meeting-workers/internal/workers/planning/resolve-dependencies"
	classifypriority "meeting-workers/internal/workers/scheduling/classify-priority"
	parsedeadline "meeting-workers/internal/workers/scheduling/parse-deadline"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	audioFailurePrefix         = "Audio validation failed: "
	transcriptionFailurePrefix = "Transcription failed: "
	dependencyFailurePrefix    = "Dependency resolution failed: "
)

// Outcome labels for metrics.TranscriptsProcessed.
const (
	outcomeOK                  = "ok"
	outcomeEmpty               = "empty"
	outcomeInvalidRoster       = "invalid_roster"
	outcomeAudioRejected       = "audio_rejected"
	outcomeTranscriptionFailed = "transcription_failed"
	outcomeDependencyError     = "dependency_error"
)

type AudioValidator interface {
	Validate(path string) models.ValidationResult
}

type Transcriber interface {
	Transcribe(ctx context.Context, path string) models.TranscriptionResult
}

// Pipeline runs a transcript through extraction, scheduling, assignment and
// dependency resolution. A Pipeline keeps no per-run state and may be shared
// between concurrent jobs.
type Pipeline struct {
	parser     *parsedeadline.Parser
	classifier *classifypriority.Classifier
	engine     *assigntask.Engine
	resolver   *resolvedependencies.Resolver
	audio      AudioValidator
	stt        Transcriber
	obs        *observability.Observability
	logger     logger.Logger
}

// NewPipeline builds a pipeline. audio and stt may be nil when only text
// transcripts are processed.
func NewPipeline(audio AudioValidator, stt Transcriber, log logger.Logger) *Pipeline {
	return &Pipeline{
		parser:     parsedeadline.NewParser(),
		classifier: classifypriority.NewClassifier(),
		engine:     assigntask.NewEngine(),
		resolver:   resolvedependencies.NewResolver(),
		audio:      audio,
		stt:        stt,
		logger:     log,
	}
}

// WithObservability routes pipeline spans through obs instead of the
// global tracer.
func (p *Pipeline) WithObservability(obs *observability.Observability) *Pipeline {
	p.obs = obs
	return p
}

// ProcessAudio validates and transcribes the recording at path, then
// processes the transcript.
func (p *Pipeline) ProcessAudio(ctx context.Context, path string, team []models.TeamMember, ref time.Time) *models.PipelineResult {
	ctx, span := p.obs.StartSpan(ctx, "pipeline.process_audio", attribute.String("audio.path", path))
	defer span.End()

	if p.audio == nil {
		return p.fail(span, outcomeAudioRejected, audioFailurePrefix+"no audio validator configured")
	}
	validation := p.audio.Validate(path)
	if !validation.Valid {
		return p.fail(span, outcomeAudioRejected, audioFailurePrefix+validation.ErrorMessage)
	}

	if p.stt == nil {
		return p.fail(span, outcomeTranscriptionFailed, transcriptionFailurePrefix+"no transcription service configured")
	}
	transcription := p.stt.Transcribe(ctx, path)
	if !transcription.Success {
		return p.fail(span, outcomeTranscriptionFailed, transcriptionFailurePrefix+transcription.ErrorMessage)
	}

	p.logger.Info("audio transcribed", map[string]interface{}{
		"path":       path,
		"format":     validation.FileFormat,
		"characters": len(transcription.Transcript),
		"confidence": transcription.Confidence,
	})
	return p.Process(ctx, transcription.Transcript, team, ref)
}

// Process turns a transcript into task records. Input problems are
// reported through Success and Message, never as an error.
func (p *Pipeline) Process(ctx context.Context, transcript string, team []models.TeamMember, ref time.Time) *models.PipelineResult {
	runID := uuid.NewString()
	ctx, span := p.obs.StartSpan(ctx, "pipeline.process", attribute.String("run.id", runID))
	defer span.End()

	log := p.logger.WithFields(map[string]interface{}{"runId": runID})
	ref = models.Day(ref)
	result := &models.PipelineResult{
		RunID:         runID,
		Tasks:         []models.TaskRecord{},
		Transcript:    transcript,
		ReferenceDate: ref.Format(models.DateLayout),
	}

	store, err := roster.Build(team)
	if err != nil {
		log.Warn("roster rejected", map[string]interface{}{"error": err})
		failed := p.fail(span, outcomeInvalidRoster, err.Error())
		failed.RunID, failed.Transcript, failed.ReferenceDate = result.RunID, result.Transcript, result.ReferenceDate
		return failed
	}

	extracted := p.extract(ctx, transcript, store.Names())
	log.Info("tasks extracted", map[string]interface{}{
		"tasks":    len(extracted),
		"teamSize": store.Len(),
	})

	result.Success = true
	if len(extracted) == 0 {
		result.Message = extracttasks.NoTasksMessage
		metrics.TranscriptsProcessed.WithLabelValues(outcomeEmpty).Inc()
		return result
	}

	result.Tasks = p.schedule(ctx, extracted, store, ref)

	analysis, err := p.dependencies(ctx, extracted)
	if err != nil {
		log.Error("dependency resolution failed", map[string]interface{}{"error": err})
		failed := p.fail(span, outcomeDependencyError, dependencyFailurePrefix+err.Error())
		failed.RunID, failed.Transcript, failed.ReferenceDate = result.RunID, result.Transcript, result.ReferenceDate
		return failed
	}
	for i, pre := range analysis.FirstPrerequisite {
		if pre >= 0 {
			result.Tasks[i].DependsOn = pre + 1
		}
	}
	result.ExecutionOrder = make([]int, len(analysis.Order))
	for i, idx := range analysis.Order {
		result.ExecutionOrder[i] = idx + 1
	}
	if analysis.HasCycle() {
		result.Warning = analysis.Warning()
		metrics.DependencyCycles.Inc()
		log.Warn("circular dependency detected", map[string]interface{}{"error": analysis.Cycle.Err()})
	}

	metrics.TranscriptsProcessed.WithLabelValues(outcomeOK).Inc()
	log.Info("transcript processed", map[string]interface{}{
		"tasks":        len(result.Tasks),
		"dependencies": len(analysis.Dependencies),
		"hasCycle":     analysis.HasCycle(),
	})
	return result
}

func (p *Pipeline) extract(ctx context.Context, transcript string, names []string) []models.ExtractedTask {
	_, span := p.obs.StartSpan(ctx, "pipeline.extract")
	defer span.End()

	tasks := extracttasks.NewExtractor(names).Extract(transcript)
	metrics.TasksExtracted.Add(float64(len(tasks)))
	span.SetAttributes(attribute.Int("tasks.count", len(tasks)))
	return tasks
}

// schedule resolves the deadline, priority and assignee of every task.
func (p *Pipeline) schedule(ctx context.Context, tasks []models.ExtractedTask, store *roster.Store, ref time.Time) []models.TaskRecord {
	_, span := p.obs.StartSpan(ctx, "pipeline.schedule")
	defer span.End()

	records := make([]models.TaskRecord, len(tasks))
	for i, task := range tasks {
		record := models.TaskRecord{
			TaskNumber:  i + 1,
			Description: task.Description,
			Deadline:    task.DeadlinePhrase,
		}

		var due *time.Time
		if task.DeadlinePhrase != "" {
			if d, ok := p.parser.Parse(task.DeadlinePhrase, ref); ok {
				due = &d
				record.DueDate = d.Format(models.DateLayout)
			}
		}

		record.Priority = p.classifier.Classify(task, due, ref)
		metrics.TaskPriorities.WithLabelValues(string(record.Priority)).Inc()

		assignment := p.engine.Assign(task, store)
		metrics.TaskAssignments.WithLabelValues(assigntask.Method(assignment)).Inc()
		if assignment.Assigned() {
			record.AssignedTo = assignment.Member.Name
			record.Reasoning = assignment.Reasoning
		}

		records[i] = record
	}
	return records
}

func (p *Pipeline) dependencies(ctx context.Context, tasks []models.ExtractedTask) (*resolvedependencies.Analysis, error) {
	_, span := p.obs.StartSpan(ctx, "pipeline.dependencies")
	defer span.End()

	analysis, err := p.resolver.Analyze(tasks)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("dependencies.count", len(analysis.Dependencies)),
		attribute.Bool("dependencies.cycle", analysis.HasCycle()),
	)
	return analysis, nil
}

func (p *Pipeline) fail(span trace.Span, outcome, message string) *models.PipelineResult {
	span.SetStatus(codes.Error, message)
	metrics.TranscriptsProcessed.WithLabelValues(outcome).Inc()
	return &models.PipelineResult{
		Success: false,
		Tasks:   []models.TaskRecord{},
		Message: message,
	}
}
