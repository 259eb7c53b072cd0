// Package ranksyncqueue schedules sweep and seed jobs on River. Periodic
// sweeps fan out from a scan job; operators enqueue one-off sweeps through
// the ops API.
package ranksyncqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/open-ladder/ranksync/internal/attr"
	"github.com/open-ladder/ranksync/internal/eventbus"
	"github.com/open-ladder/ranksync/internal/observability"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"
)

const (
	queueName       = "ranksync"
	metricsService  = "river"
	sweepAttempts   = 5
	defaultInterval = 6 * time.Hour
	// scheduleBuffer rejects schedules so close they would race the insert.
	scheduleBuffer = 5 * time.Second
)

// QueueService schedules and runs the module's background jobs.
type QueueService interface {
	// EnqueueSweep queues an immediate sweep of one guild. The trigger is
	// echoed on the completion event.
	EnqueueSweep(ctx context.Context, guildID ranksyncdomain.GuildID, trigger string) error
	// ScheduleSweep queues a sweep of one guild at runAt.
	ScheduleSweep(ctx context.Context, guildID ranksyncdomain.GuildID, runAt time.Time) error
	// EnqueueSeed queues an achievement backfill of one guild.
	EnqueueSeed(ctx context.Context, guildID ranksyncdomain.GuildID) error
	// ScheduledSweeps lists the guild's pending sweep jobs.
	ScheduledSweeps(ctx context.Context, guildID ranksyncdomain.GuildID) ([]JobInfo, error)
	// HealthCheck verifies the queue's database connectivity.
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service runs the module's jobs on a River client backed by its own pgx
// pool; River does not ride on database/sql.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	db      *bun.DB
	logger  *slog.Logger
	metrics observability.ServiceMetrics
}

// NewService creates the River client, registers the module's workers, and
// wires the periodic sweep scan with the given interval.
func NewService(
	ctx context.Context,
	bunDB *bun.DB,
	dsn string,
	logger *slog.Logger,
	metrics observability.ServiceMetrics,
	bus eventbus.EventBus,
	service ranksyncservice.Service,
	settings ranksyncservice.SettingsProvider,
	sweepInterval time.Duration,
) (*Service, error) {
	if sweepInterval <= 0 {
		sweepInterval = defaultInterval
	}
	metrics.OperationAttempt(ctx, metricsService, "initialize")

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.OperationFailure(ctx, metricsService, "initialize")
		return nil, fmt.Errorf("parse queue DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		metrics.OperationFailure(ctx, metricsService, "initialize")
		return nil, fmt.Errorf("create queue pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		metrics.OperationFailure(ctx, metricsService, "initialize")
		return nil, fmt.Errorf("ping queue database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewSweepWorker(service, bus, logger))
	river.AddWorker(workers, NewSweepScanWorker(settings, logger))
	river.AddWorker(workers, NewSeedWorker(service, logger))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			queueName:          {MaxWorkers: 4},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(sweepInterval),
				func() (river.JobArgs, *river.InsertOpts) {
					return SweepScanJob{}, &river.InsertOpts{
						Queue:      queueName,
						UniqueOpts: river.UniqueOpts{ByArgs: true},
					}
				},
				&river.PeriodicJobOpts{RunOnStart: false},
			),
		},
	})
	if err != nil {
		pool.Close()
		metrics.OperationFailure(ctx, metricsService, "initialize")
		return nil, fmt.Errorf("create river client: %w", err)
	}

	metrics.OperationSuccess(ctx, metricsService, "initialize")
	logger.InfoContext(ctx, "Rank sync queue initialized",
		slog.Duration("sweep_interval", sweepInterval))

	return &Service{
		client:  client,
		pool:    pool,
		db:      bunDB,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Start starts job execution.
func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("start river client: %w", err)
	}
	s.logger.InfoContext(ctx, "Rank sync queue started")
	return nil
}

// Stop drains running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("stop river client: %w", err)
	}
	s.pool.Close()
	s.logger.InfoContext(ctx, "Rank sync queue stopped")
	return nil
}

// sweepInsertOpts builds the insert options of a sweep. The trigger rides in
// job metadata, not args; duplicate sweeps are harmless because the run
// guard serializes them and a second run is a no-op.
func sweepInsertOpts(trigger string) *river.InsertOpts {
	metadata, _ := json.Marshal(struct {
		Trigger string `json:"trigger"`
	}{Trigger: trigger})
	return &river.InsertOpts{
		Queue:       queueName,
		MaxAttempts: sweepAttempts,
		Metadata:    metadata,
	}
}

// EnqueueSweep queues an immediate sweep of one guild.
func (s *Service) EnqueueSweep(ctx context.Context, guildID ranksyncdomain.GuildID, trigger string) error {
	s.metrics.OperationAttempt(ctx, metricsService, "enqueue_sweep")
	result, err := s.client.Insert(ctx, SweepJob{GuildID: string(guildID)}, sweepInsertOpts(trigger))
	if err != nil {
		s.metrics.OperationFailure(ctx, metricsService, "enqueue_sweep")
		return fmt.Errorf("enqueue sweep: %w", err)
	}
	s.metrics.OperationSuccess(ctx, metricsService, "enqueue_sweep")
	s.logger.InfoContext(ctx, "Sweep enqueued",
		attr.GuildID(string(guildID)),
		slog.String("trigger", trigger),
		slog.Int64("job_id", result.Job.ID))
	return nil
}

// ScheduleSweep queues a sweep of one guild at runAt.
func (s *Service) ScheduleSweep(ctx context.Context, guildID ranksyncdomain.GuildID, runAt time.Time) error {
	s.metrics.OperationAttempt(ctx, metricsService, "schedule_sweep")
	if runAt.Before(time.Now().Add(scheduleBuffer)) {
		s.metrics.OperationFailure(ctx, metricsService, "schedule_sweep")
		return fmt.Errorf("sweep time must be at least %s in the future", scheduleBuffer)
	}

	opts := sweepInsertOpts(TriggerSchedule)
	opts.ScheduledAt = runAt
	result, err := s.client.Insert(ctx, SweepJob{GuildID: string(guildID)}, opts)
	if err != nil {
		s.metrics.OperationFailure(ctx, metricsService, "schedule_sweep")
		return fmt.Errorf("schedule sweep: %w", err)
	}

	s.metrics.OperationSuccess(ctx, metricsService, "schedule_sweep")
	s.logger.InfoContext(ctx, "Sweep scheduled",
		attr.GuildID(string(guildID)),
		slog.Time("run_at", runAt),
		slog.Int64("job_id", result.Job.ID))
	return nil
}

// EnqueueSeed queues an achievement backfill of one guild.
func (s *Service) EnqueueSeed(ctx context.Context, guildID ranksyncdomain.GuildID) error {
	s.metrics.OperationAttempt(ctx, metricsService, "enqueue_seed")
	result, err := s.client.Insert(ctx, SeedJob{GuildID: string(guildID)}, &river.InsertOpts{
		Queue:       queueName,
		MaxAttempts: sweepAttempts,
	})
	if err != nil {
		s.metrics.OperationFailure(ctx, metricsService, "enqueue_seed")
		return fmt.Errorf("enqueue seed: %w", err)
	}
	s.metrics.OperationSuccess(ctx, metricsService, "enqueue_seed")
	s.logger.InfoContext(ctx, "Seed enqueued",
		attr.GuildID(string(guildID)), slog.Int64("job_id", result.Job.ID))
	return nil
}

// ScheduledSweeps lists the guild's sweep jobs that have not run yet.
func (s *Service) ScheduledSweeps(ctx context.Context, guildID ranksyncdomain.GuildID) ([]JobInfo, error) {
	type riverJobRow struct {
		ID          int64      `bun:"id"`
		Kind        string     `bun:"kind"`
		State       string     `bun:"state"`
		ScheduledAt *time.Time `bun:"scheduled_at"`
		CreatedAt   time.Time  `bun:"created_at"`
		Attempt     int16      `bun:"attempt"`
		MaxAttempts int16      `bun:"max_attempts"`
	}

	var rows []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "scheduled_at", "created_at", "attempt", "max_attempts").
		Where("kind = ?", SweepJob{}.Kind()).
		Where("state IN (?, ?, ?)", "available", "scheduled", "running").
		Where("args->>'guild_id' = ?", string(guildID)).
		Order("scheduled_at ASC NULLS LAST", "created_at ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list scheduled sweeps: %w", err)
	}

	infos := make([]JobInfo, len(rows))
	for i, row := range rows {
		scheduledAt := ""
		if row.ScheduledAt != nil {
			scheduledAt = row.ScheduledAt.Format(time.RFC3339)
		}
		infos[i] = JobInfo{
			ID:          row.ID,
			Kind:        row.Kind,
			GuildID:     string(guildID),
			State:       row.State,
			ScheduledAt: scheduledAt,
			CreatedAt:   row.CreatedAt.Format(time.RFC3339),
			Attempt:     int(row.Attempt),
			MaxAttempts: int(row.MaxAttempts),
		}
	}
	return infos, nil
}

// HealthCheck verifies the queue's database connectivity.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue database unreachable: %w", err)
	}
	return nil
}
