// cmd/tools/meeting-tasks/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/export"
	"meeting-workers/internal/models"
	"meeting-workers/internal/roster"
	transcribeaudio "meeting-workers/internal/workers/ingestion/transcribe-audio"
	validateaudio "meeting-workers/internal/workers/ingestion/validate-audio"
	processtranscript "meeting-workers/internal/workers/pipeline/process-transcript"
)

const usage = `meeting-tasks turns a meeting transcript into assigned, prioritized tasks.

Usage:
  meeting-tasks -team team.json -transcript "Sakshi, fix the login bug by tomorrow"
  meeting-tasks -team team.json -file samples/meeting_transcript.txt -format json
  meeting-tasks -team team.json -audio standup.mp3 -output tasks.csv -format csv

Audio input needs ASSEMBLYAI_API_KEY in the environment or a .env file.

Flags:
`

// options are the parsed command line flags.
type options struct {
	transcript     string
	file           string
	audio          string
	team           string
	date           string
	format         string
	output         string
	showTranscript bool
	verbose        bool
	assemblyURL    string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("meeting-tasks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.StringVar(&opts.transcript, "transcript", "", "Transcript text to process")
	fs.StringVar(&opts.file, "file", "", "Path to a transcript text file")
	fs.StringVar(&opts.audio, "audio", "", "Path to a meeting recording (.wav, .mp3, .m4a)")
	fs.StringVar(&opts.team, "team", "", "Path to the team roster JSON file (required)")
	fs.StringVar(&opts.date, "date", "", "Reference date for deadlines, YYYY-MM-DD (default today)")
	fs.StringVar(&opts.format, "format", "text", "Output format: text, json or csv")
	fs.StringVar(&opts.output, "output", "", "Write output to this file instead of stdout")
	fs.BoolVar(&opts.showTranscript, "show-transcript", false, "Include the transcript in text output")
	fs.BoolVar(&opts.verbose, "verbose", false, "Log pipeline stages to stderr")
	fs.StringVar(&opts.assemblyURL, "assemblyai-url", "https://api.assemblyai.com/v2", "AssemblyAI API base URL")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	inputs := 0
	for _, s := range []string{opts.transcript, opts.file, opts.audio} {
		if s != "" {
			inputs++
		}
	}
	switch {
	case inputs == 0:
		return nil, errors.New("one of -transcript, -file or -audio is required")
	case inputs > 1:
		return nil, errors.New("-transcript, -file and -audio are mutually exclusive")
	case opts.team == "":
		return nil, errors.New("-team is required")
	}
	return opts, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	result, err := process(ctx, opts, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	format, err := export.ParseFormat(opts.format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	out := stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	if err := export.Write(out, format, result, opts.showTranscript); err != nil {
		fmt.Fprintf(stderr, "Error: write output: %v\n", err)
		return 1
	}
	if opts.output != "" {
		fmt.Fprintf(stderr, "Results written to: %s\n", opts.output)
	}

	if !result.Success {
		return 1
	}
	return 0
}

func process(ctx context.Context, opts *options, stderr io.Writer) (*models.PipelineResult, error) {
	team, err := roster.LoadFile(opts.team)
	if err != nil {
		return nil, fmt.Errorf("load team file: %w", err)
	}
	if len(team) == 0 {
		return nil, fmt.Errorf("no team members found in %s", opts.team)
	}

	ref, err := models.ParseDay(opts.date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD", opts.date)
	}

	log := logger.NewNoOpLogger()
	if opts.verbose {
		log = logger.NewStructured("debug", "console")
	}

	var stt processtranscript.Transcriber
	if opts.audio != "" {
		cfg := transcribeaudio.LoadConfig()
		cfg.BaseURL = opts.assemblyURL
		if cfg.APIKey == "" {
			return nil, errors.New("ASSEMBLYAI_API_KEY is not set; use -transcript or -file to skip transcription")
		}
		stt = transcribeaudio.NewClient(cfg, log)
		fmt.Fprintf(stderr, "Transcribing %s...\n", opts.audio)
	}

	pipeline := processtranscript.NewPipeline(validateaudio.NewValidator(), stt, log)

	switch {
	case opts.audio != "":
		return pipeline.ProcessAudio(ctx, opts.audio, team, ref), nil
	case opts.file != "":
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return nil, fmt.Errorf("read transcript: %w", err)
		}
		return pipeline.Process(ctx, strings.TrimSpace(string(data)), team, ref), nil
	default:
		return pipeline.Process(ctx, opts.transcript, team, ref), nil
	}
}
