package ranksyncqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5"
	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	ranksyncevents "github.com/open-ladder/ranksync/app/modules/ranksync/domain/events"
	"github.com/open-ladder/ranksync/internal/attr"
	"github.com/open-ladder/ranksync/internal/eventbus"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

const workerTimeout = 15 * time.Minute

// jobTrigger reads the sweep trigger from the job's metadata. Metadata stays
// out of the job args so it never influences argument-based uniqueness.
func jobTrigger(row *rivertype.JobRow) string {
	trigger := TriggerPeriodic
	if row != nil && len(row.Metadata) > 0 {
		var md struct {
			Trigger string `json:"trigger"`
		}
		if err := json.Unmarshal(row.Metadata, &md); err == nil && md.Trigger != "" {
			trigger = md.Trigger
		}
	}
	return trigger
}

// SweepWorker executes queued guild sweeps and reports each outcome on the
// sweep-completed subject. Transient failures are left to River's retry
// schedule; anything else is cancelled because retrying cannot fix missing
// links or a misconfigured directory.
type SweepWorker struct {
	river.WorkerDefaults[SweepJob]
	service   ranksyncservice.Service
	publisher message.Publisher
	logger    *slog.Logger
}

// NewSweepWorker creates a new sweep worker.
func NewSweepWorker(service ranksyncservice.Service, publisher message.Publisher, logger *slog.Logger) *SweepWorker {
	return &SweepWorker{service: service, publisher: publisher, logger: logger}
}

// Timeout allows a sweep to run past River's per-job default; large guilds
// reconcile hundreds of members under rate limits.
func (w *SweepWorker) Timeout(*river.Job[SweepJob]) time.Duration { return workerTimeout }

func (w *SweepWorker) Work(ctx context.Context, job *river.Job[SweepJob]) error {
	guildID := job.Args.GuildID
	trigger := jobTrigger(job.JobRow)

	summary, err := w.service.RunSweep(ctx, ranksyncdomain.GuildID(guildID))
	if err != nil {
		if ranksyncdomain.IsTransient(err) {
			return err
		}

		completed := ranksyncevents.SweepCompletedPayloadV1{
			GuildID: guildID,
			Trigger: trigger,
			Error:   err.Error(),
		}
		if pubErr := eventbus.PublishJSON(ctx, w.publisher, ranksyncevents.SweepCompletedV1, completed); pubErr != nil {
			return fmt.Errorf("publish sweep completion: %w", pubErr)
		}
		w.logger.WarnContext(ctx, "Sweep cancelled",
			attr.GuildID(guildID), attr.Error(err))
		return river.JobCancel(err)
	}

	completed := ranksyncevents.SweepCompletedPayloadV1{
		GuildID: guildID,
		Trigger: trigger,
		Summary: ranksyncevents.SummaryV1FromDomain(summary),
	}
	if err := eventbus.PublishJSON(ctx, w.publisher, ranksyncevents.SweepCompletedV1, completed); err != nil {
		return fmt.Errorf("publish sweep completion: %w", err)
	}

	w.logger.InfoContext(ctx, "Sweep completed",
		attr.GuildID(guildID),
		slog.String("trigger", trigger),
		slog.Int("updated", summary.Updated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", len(summary.Failures)))
	return nil
}

// SweepScanWorker enumerates the guilds with automatic sync enabled and
// enqueues one sweep per guild.
type SweepScanWorker struct {
	river.WorkerDefaults[SweepScanJob]
	settings ranksyncservice.SettingsProvider
	logger   *slog.Logger
}

// NewSweepScanWorker creates a new sweep scan worker.
func NewSweepScanWorker(settings ranksyncservice.SettingsProvider, logger *slog.Logger) *SweepScanWorker {
	return &SweepScanWorker{settings: settings, logger: logger}
}

func (w *SweepScanWorker) Work(ctx context.Context, _ *river.Job[SweepScanJob]) error {
	guildIDs, err := w.settings.AutoSyncGuildIDs(ctx)
	if err != nil {
		return fmt.Errorf("list auto sync guilds: %w", err)
	}

	client := river.ClientFromContext[pgx.Tx](ctx)
	for _, guildID := range guildIDs {
		_, err := client.Insert(ctx, SweepJob{GuildID: string(guildID)}, sweepInsertOpts(TriggerPeriodic))
		if err != nil {
			return fmt.Errorf("enqueue sweep for guild %s: %w", guildID, err)
		}
	}

	w.logger.InfoContext(ctx, "Sweep scan completed", slog.Int("guilds", len(guildIDs)))
	return nil
}

// SeedWorker executes queued achievement backfills.
type SeedWorker struct {
	river.WorkerDefaults[SeedJob]
	service ranksyncservice.Service
	logger  *slog.Logger
}

// NewSeedWorker creates a new seed worker.
func NewSeedWorker(service ranksyncservice.Service, logger *slog.Logger) *SeedWorker {
	return &SeedWorker{service: service, logger: logger}
}

// Timeout allows a backfill to fetch history for every linked member.
func (w *SeedWorker) Timeout(*river.Job[SeedJob]) time.Duration { return workerTimeout }

func (w *SeedWorker) Work(ctx context.Context, job *river.Job[SeedJob]) error {
	summary, err := w.service.SeedAchievements(ctx, ranksyncdomain.GuildID(job.Args.GuildID))
	if err != nil {
		if ranksyncdomain.IsTransient(err) {
			return err
		}
		w.logger.WarnContext(ctx, "Seed cancelled",
			attr.GuildID(job.Args.GuildID), attr.Error(err))
		return river.JobCancel(err)
	}

	w.logger.InfoContext(ctx, "Seed completed",
		attr.GuildID(job.Args.GuildID),
		slog.Int("updated", summary.Updated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", len(summary.Failures)))
	return nil
}
