// cmd/worker-manager/wiring.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	awsclient "meeting-workers/internal/common/aws"
	"meeting-workers/internal/common/config"
	"meeting-workers/internal/common/database"
	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/common/observability"
	"meeting-workers/internal/models"
	"meeting-workers/internal/roster"
	"meeting-workers/pkg/registry"

	assigntask "meeting-workers/internal/workers/assignment/assign-task"
	loadteam "meeting-workers/internal/workers/data-access/load-team"
	searchtasks "meeting-workers/internal/workers/data-access/search-tasks"
	indextasks "meeting-workers/internal/workers/delivery/index-tasks"
	notifyassignees "meeting-workers/internal/workers/delivery/notify-assignees"
	extracttasks "meeting-workers/internal/workers/extraction/extract-tasks"
	transcribeaudio "meeting-workers/internal/workers/ingestion/transcribe-audio"
	validateaudio "meeting-workers/internal/workers/ingestion/validate-audio"
	processtranscript "meeting-workers/internal/workers/pipeline/process-transcript"
	resolvedependencies "meeting-workers/internal/workers/planning/resolve-dependencies"
	classifypriority "meeting-workers/internal/workers/scheduling/classify-priority"
	parsedeadline "meeting-workers/internal/workers/scheduling/parse-deadline"
)

// services holds the backing clients shared by the workers. Any of them may
// be nil when the configuration does not need it.
type services struct {
	pg     *database.PostgresClient
	redis  *database.RedisClient
	es     *database.ElasticsearchClient
	ses    notifyassignees.SESService
	sns    notifyassignees.SNSService
	roster roster.Repository
}

func newServices(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, log logger.Logger) (*services, error) {
	svc := &services{}

	switch cfg.Pipeline.RosterSource {
	case config.RosterSourceFile:
		svc.roster = roster.NewFileRepository(cfg.Pipeline.RosterFile)
		zapLog.Info("roster source: file", zap.String("path", cfg.Pipeline.RosterFile))

	case config.RosterSourcePostgres:
		err := retryWithBackoff(func() error {
			var err error
			svc.pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return svc.pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, err
		}
		zapLog.Info("PostgreSQL connected successfully")
		svc.roster = roster.NewPostgresRepository(svc.pg.DB)

		if cfg.Database.Redis.Address != "" {
			err := retryWithBackoff(func() error {
				var err error
				svc.redis, err = database.NewRedis(cfg.Database.Redis)
				if err != nil {
					return err
				}
				return svc.redis.Ping(ctx)
			}, 10, 2*time.Second, zapLog, "Redis connection")
			if err != nil {
				return nil, err
			}
			zapLog.Info("Redis connected successfully")
			svc.roster = roster.NewCachedRepository(svc.roster, svc.redis.Client,
				config.GetDuration(cfg.Pipeline.RosterCacheTTL), log)
		}

	default:
		zapLog.Info("roster source: inline only")
	}

	if cfg.Indexing.Enabled && config.IsWorkerEnabled(cfg, indextasks.TaskType) {
		err := retryWithBackoff(func() error {
			var err error
			svc.es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return svc.es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			return nil, err
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	notify := cfg.Notifications
	if (notify.Email.Enabled || notify.SMS.Enabled) && config.IsWorkerEnabled(cfg, notifyassignees.TaskType) {
		awsCfg, err := awsclient.LoadConfig(ctx, notify.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		if notify.Email.Enabled {
			svc.ses = awsclient.NewSESClientFromConfig(awsCfg)
		}
		if notify.SMS.Enabled {
			svc.sns = awsclient.NewSNSClientFromConfig(awsCfg)
		}
		zapLog.Info("AWS notification clients initialized", zap.String("region", notify.AWS.Region))
	}

	return svc, nil
}

// Ping checks every connected backing store.
func (s *services) Ping(ctx context.Context) map[string]error {
	results := make(map[string]error)
	if s.pg != nil {
		results["postgres"] = s.pg.Ping(ctx)
	}
	if s.redis != nil {
		results["redis"] = s.redis.Ping(ctx)
	}
	if s.es != nil {
		results["elasticsearch"] = s.es.Ping(ctx)
	}
	return results
}

func (s *services) Close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.pg != nil {
		_ = s.pg.Close()
	}
}

type registration struct {
	taskType string
	handler  worker.JobHandler
}

// jobTimeout prefers the configured worker timeout over the package default.
func jobTimeout(cfg *config.Config, taskType string, fallback time.Duration) time.Duration {
	if w, ok := cfg.Workers[taskType]; ok && w.Timeout > 0 {
		return config.GetDuration(w.Timeout)
	}
	return fallback
}

func (s *services) registrations(cfg *config.Config, obs *observability.Observability, log logger.Logger) []registration {
	validateCfg := validateaudio.LoadConfig()
	validateCfg.Timeout = jobTimeout(cfg, validateaudio.TaskType, validateCfg.Timeout)
	validate := validateaudio.NewHandler(validateCfg, log)

	transcribeCfg := transcribeaudio.LoadConfig()
	assembly := cfg.Transcription.AssemblyAI
	transcribeCfg.BaseURL = assembly.BaseURL
	transcribeCfg.APIKey = assembly.APIKey
	transcribeCfg.PollInterval = config.GetDuration(assembly.PollInterval)
	transcribeCfg.PollTimeout = config.GetDuration(assembly.Timeout)
	transcribeCfg.Timeout = jobTimeout(cfg, transcribeaudio.TaskType, transcribeCfg.Timeout)
	transcribe := transcribeaudio.NewHandler(transcribeCfg, log)

	var stt processtranscript.Transcriber
	if assembly.APIKey != "" {
		stt = transcribe.Client()
	}
	pipeline := processtranscript.NewPipeline(validateaudio.NewValidator(), stt, log).WithObservability(obs)

	processCfg := processtranscript.LoadConfig()
	processCfg.Timeout = jobTimeout(cfg, processtranscript.TaskType, processCfg.Timeout)

	extractCfg := extracttasks.LoadConfig()
	extractCfg.Timeout = jobTimeout(cfg, extracttasks.TaskType, extractCfg.Timeout)

	deadlineCfg := parsedeadline.LoadConfig()
	deadlineCfg.Timeout = jobTimeout(cfg, parsedeadline.TaskType, deadlineCfg.Timeout)

	priorityCfg := classifypriority.LoadConfig()
	priorityCfg.Timeout = jobTimeout(cfg, classifypriority.TaskType, priorityCfg.Timeout)

	assignCfg := assigntask.LoadConfig()
	assignCfg.Timeout = jobTimeout(cfg, assigntask.TaskType, assignCfg.Timeout)

	resolveCfg := resolvedependencies.LoadConfig()
	resolveCfg.Timeout = jobTimeout(cfg, resolvedependencies.TaskType, resolveCfg.Timeout)

	regs := []registration{
		{processtranscript.TaskType, processtranscript.NewHandler(processCfg, pipeline, s.roster, log).Handle},
		{validateaudio.TaskType, validate.Handle},
		{transcribeaudio.TaskType, transcribe.Handle},
		{extracttasks.TaskType, extracttasks.NewHandler(extractCfg, log).Handle},
		{parsedeadline.TaskType, parsedeadline.NewHandler(deadlineCfg, log).Handle},
		{classifypriority.TaskType, classifypriority.NewHandler(priorityCfg, log).Handle},
		{assigntask.TaskType, assigntask.NewHandler(assignCfg, s.roster, log).Handle},
		{resolvedependencies.TaskType, resolvedependencies.NewHandler(resolveCfg, log).Handle},
	}

	if s.roster != nil {
		teamCfg := loadteam.LoadConfig()
		teamCfg.Timeout = jobTimeout(cfg, loadteam.TaskType, teamCfg.Timeout)
		regs = append(regs, registration{loadteam.TaskType, loadteam.NewHandler(teamCfg, s.roster, log).Handle})
	}

	if s.es != nil {
		searchCfg := searchtasks.LoadConfig()
		searchCfg.Index = cfg.Indexing.Index
		searchCfg.Timeout = jobTimeout(cfg, searchtasks.TaskType, searchCfg.Timeout)
		regs = append(regs, registration{searchtasks.TaskType, searchtasks.NewHandler(searchCfg, s.es.Client, log).Handle})

		indexCfg := indextasks.LoadConfig()
		indexCfg.Index = cfg.Indexing.Index
		indexCfg.Refresh = cfg.Indexing.Refresh
		indexCfg.Timeout = jobTimeout(cfg, indextasks.TaskType, indexCfg.Timeout)
		regs = append(regs, registration{indextasks.TaskType, indextasks.NewHandler(indexCfg, s.es.Client, log).Handle})
	}

	if s.ses != nil || s.sns != nil {
		notifyCfg := notifyassignees.LoadConfig()
		notifyCfg.EmailEnabled = cfg.Notifications.Email.Enabled
		notifyCfg.SMSEnabled = cfg.Notifications.SMS.Enabled
		notifyCfg.FromEmail = cfg.Notifications.Email.FromEmail
		notifyCfg.SMSPriorityThreshold = models.ParsePriority(cfg.Notifications.SMS.PriorityThreshold)
		notifyCfg.Timeout = jobTimeout(cfg, notifyassignees.TaskType, notifyCfg.Timeout)
		regs = append(regs, registration{notifyassignees.TaskType, notifyassignees.NewHandler(notifyCfg, s.ses, s.sns, s.roster, log).Handle})
	}

	return regs
}

// unregistered returns the job types in regs that the activity registry at
// path does not list. A missing registry file is reported as an error.
func unregistered(path string, regs []registration) ([]string, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	taskTypes := make([]string, len(regs))
	for i, r := range regs {
		taskTypes[i] = r.taskType
	}
	return reg.Missing(taskTypes), nil
}
