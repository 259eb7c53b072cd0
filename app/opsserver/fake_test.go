package opsserver

import (
	"context"
	"time"

	guildconfigservice "github.com/open-ladder/ranksync/app/modules/guildconfig/application"
	guildconfigdomain "github.com/open-ladder/ranksync/app/modules/guildconfig/domain"
	handlelinkservice "github.com/open-ladder/ranksync/app/modules/handlelink/application"
	handlelinkdomain "github.com/open-ladder/ranksync/app/modules/handlelink/domain"
	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	ranksyncqueue "github.com/open-ladder/ranksync/app/modules/ranksync/infrastructure/queue"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) PingContext(context.Context) error { return f.err }

// fakeQueue provides a programmable stub for the queue service.
type fakeQueue struct {
	EnqueueSweepFunc    func(ctx context.Context, guildID ranksyncdomain.GuildID, trigger string) error
	ScheduleSweepFunc   func(ctx context.Context, guildID ranksyncdomain.GuildID, runAt time.Time) error
	EnqueueSeedFunc     func(ctx context.Context, guildID ranksyncdomain.GuildID) error
	ScheduledSweepsFunc func(ctx context.Context, guildID ranksyncdomain.GuildID) ([]ranksyncqueue.JobInfo, error)
	HealthCheckFunc     func(ctx context.Context) error
}

func (f *fakeQueue) EnqueueSweep(ctx context.Context, guildID ranksyncdomain.GuildID, trigger string) error {
	if f.EnqueueSweepFunc != nil {
		return f.EnqueueSweepFunc(ctx, guildID, trigger)
	}
	return nil
}

func (f *fakeQueue) ScheduleSweep(ctx context.Context, guildID ranksyncdomain.GuildID, runAt time.Time) error {
	if f.ScheduleSweepFunc != nil {
		return f.ScheduleSweepFunc(ctx, guildID, runAt)
	}
	return nil
}

func (f *fakeQueue) EnqueueSeed(ctx context.Context, guildID ranksyncdomain.GuildID) error {
	if f.EnqueueSeedFunc != nil {
		return f.EnqueueSeedFunc(ctx, guildID)
	}
	return nil
}

func (f *fakeQueue) ScheduledSweeps(ctx context.Context, guildID ranksyncdomain.GuildID) ([]ranksyncqueue.JobInfo, error) {
	if f.ScheduledSweepsFunc != nil {
		return f.ScheduledSweepsFunc(ctx, guildID)
	}
	return nil, nil
}

func (f *fakeQueue) HealthCheck(ctx context.Context) error {
	if f.HealthCheckFunc != nil {
		return f.HealthCheckFunc(ctx)
	}
	return nil
}

func (f *fakeQueue) Start(context.Context) error { return nil }
func (f *fakeQueue) Stop(context.Context) error  { return nil }

var _ ranksyncqueue.QueueService = (*fakeQueue)(nil)

// fakeSyncService provides a programmable stub for the sync service.
type fakeSyncService struct {
	GetAchievementFunc func(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (*ranksyncdomain.AchievementRecord, error)
}

func (f *fakeSyncService) RunSweep(context.Context, ranksyncdomain.GuildID) (ranksyncdomain.SyncSummary, error) {
	return ranksyncdomain.SyncSummary{}, nil
}

func (f *fakeSyncService) HandleRatingChangeBatch(context.Context, ranksyncdomain.RatingChangeBatch) (ranksyncservice.BatchOutcome, error) {
	return nil, nil
}

func (f *fakeSyncService) SeedAchievements(context.Context, ranksyncdomain.GuildID) (ranksyncdomain.SyncSummary, error) {
	return ranksyncdomain.SyncSummary{}, nil
}

func (f *fakeSyncService) GetAchievement(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (*ranksyncdomain.AchievementRecord, error) {
	if f.GetAchievementFunc != nil {
		return f.GetAchievementFunc(ctx, guildID, memberID)
	}
	return nil, ranksyncservice.ErrAchievementNotFound
}

func (f *fakeSyncService) StripRankRoles(context.Context, ranksyncdomain.GuildID, ranksyncdomain.MemberID) ([]string, error) {
	return nil, nil
}

var _ ranksyncservice.Service = (*fakeSyncService)(nil)

// fakeConfigService provides a programmable stub for the guild config service.
type fakeConfigService struct {
	GetConfigFunc    func(ctx context.Context, guildID string) (*guildconfigdomain.GuildConfig, error)
	UpsertConfigFunc func(ctx context.Context, config *guildconfigdomain.GuildConfig) (*guildconfigdomain.GuildConfig, error)
}

func (f *fakeConfigService) GetConfig(ctx context.Context, guildID string) (*guildconfigdomain.GuildConfig, error) {
	if f.GetConfigFunc != nil {
		return f.GetConfigFunc(ctx, guildID)
	}
	return guildconfigdomain.Defaults(guildID), nil
}

func (f *fakeConfigService) UpsertConfig(ctx context.Context, config *guildconfigdomain.GuildConfig) (*guildconfigdomain.GuildConfig, error) {
	if f.UpsertConfigFunc != nil {
		return f.UpsertConfigFunc(ctx, config)
	}
	return config, nil
}

func (f *fakeConfigService) ListAutoSyncGuilds(context.Context) ([]string, error) {
	return nil, nil
}

var _ guildconfigservice.Service = (*fakeConfigService)(nil)

// fakeLinkService provides a programmable stub for the handle link service.
type fakeLinkService struct {
	BulkImportFunc func(ctx context.Context, guildID string, rows []handlelinkdomain.ImportRow) (*handlelinkdomain.ImportReport, error)
}

func (f *fakeLinkService) SetLink(context.Context, string, string, string) (*handlelinkdomain.Link, error) {
	return nil, nil
}

func (f *fakeLinkService) GetLink(context.Context, string, string) (*handlelinkdomain.Link, error) {
	return nil, nil
}

func (f *fakeLinkService) RemoveLink(context.Context, string, string) (*handlelinkdomain.Link, error) {
	return nil, nil
}

func (f *fakeLinkService) ListGuildLinks(context.Context, string) ([]handlelinkdomain.Link, error) {
	return nil, nil
}

func (f *fakeLinkService) ResolveHandles(context.Context, string, []string) (map[string]string, error) {
	return nil, nil
}

func (f *fakeLinkService) GuildsWithHandles(context.Context, []string) ([]string, error) {
	return nil, nil
}

func (f *fakeLinkService) BulkImport(ctx context.Context, guildID string, rows []handlelinkdomain.ImportRow) (*handlelinkdomain.ImportReport, error) {
	if f.BulkImportFunc != nil {
		return f.BulkImportFunc(ctx, guildID, rows)
	}
	return &handlelinkdomain.ImportReport{Linked: len(rows)}, nil
}

var _ handlelinkservice.Service = (*fakeLinkService)(nil)
