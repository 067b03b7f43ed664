package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"payflow/config"
	sessionRepo "payflow/database/repository/session"

	"github.com/hibiken/asynq"
)

const TypeSessionSweep = "session:sweep"

// InitSessionSweeper runs the periodic expiry sweep in the background. Expired
// pending sessions are already classified lazily at verification time; the
// sweep only keeps stale rows from accumulating in storage.
func InitSessionSweeper(repo sessionRepo.OtpSessionRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSessionSweep, handleSweepTask(repo))

	interval := config.AppConfig.SweepIntervalSeconds
	if interval <= 0 {
		interval = 60
	}
	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register(
		fmt.Sprintf("@every %ds", interval),
		asynq.NewTask(TypeSessionSweep, nil),
	); err != nil {
		log.Printf("[SessionSweeper] Failed to register sweep schedule: %v", err)
		return
	}

	go func() {
		log.Println("[SessionSweeper] Starting sweep worker...")
		if err := srv.Run(mux); err != nil {
			log.Printf("[SessionSweeper] Worker stopped: %v", err)
		}
	}()
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[SessionSweeper] Scheduler stopped: %v", err)
		}
	}()
}

func handleSweepTask(repo sessionRepo.OtpSessionRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		swept, err := repo.SweepExpired(ctx, time.Now().UTC())
		if err != nil {
			log.Printf("[SessionSweeper] Sweep failed: %v", err)
			return err
		}
		if swept > 0 {
			log.Printf("[SessionSweeper] Marked %d stale pending sessions expired", swept)
		}
		return nil
	}
}
