package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"manifest-analyzer/internal/config"
	"manifest-analyzer/internal/shared"
)

// Scheduler owns the periodic maintenance jobs: purging old failed
// manifests and rescuing pending ones whose analysis task was lost.
type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisAddress, redisPassword string, redisDB int, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddress,
			Password: redisPassword,
			DB:       redisDB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterJobs() error {
	if err := s.registerCleanupJob(); err != nil {
		return err
	}
	return s.registerRequeueStuckJob()
}

// registerCleanupJob purges failed manifests past retention, daily at 3 AM.
// Low-traffic time; the archive deletes can take a while on large backlogs.
func (s *Scheduler) registerCleanupJob() error {
	payload, err := json.Marshal(shared.ManifestCleanupPayload{
		RetentionDays: s.jobConfig.ManifestRetentionDays,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeManifestCleanup, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *",
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to register manifest cleanup job")
		return err
	}

	log.Info().
		Int("retention_days", s.jobConfig.ManifestRetentionDays).
		Msg("registered manifest cleanup: daily at 3 AM UTC")
	return nil
}

// registerRequeueStuckJob rescues manifests stuck in pending, every 15
// minutes. Frequent enough that a lost analysis task is retried quickly,
// cheap enough to run all day.
func (s *Scheduler) registerRequeueStuckJob() error {
	payload, err := json.Marshal(shared.ManifestRequeuePayload{
		StuckAfterMinutes: s.jobConfig.StuckManifestMinutes,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeManifestRequeue, payload)

	_, err = s.scheduler.Register(
		"*/15 * * * *",
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to register requeue stuck job")
		return err
	}

	log.Info().
		Int("stuck_after_minutes", s.jobConfig.StuckManifestMinutes).
		Msg("registered stuck manifest requeue: every 15 minutes")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
