package ranksynchandlers

import (
	"context"

	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
)

// FakeService provides a programmable stub for the ranksyncservice.Service
// interface.
type FakeService struct {
	RunSweepFunc                func(ctx context.Context, guildID ranksyncdomain.GuildID) (ranksyncdomain.SyncSummary, error)
	HandleRatingChangeBatchFunc func(ctx context.Context, batch ranksyncdomain.RatingChangeBatch) (ranksyncservice.BatchOutcome, error)
	SeedAchievementsFunc        func(ctx context.Context, guildID ranksyncdomain.GuildID) (ranksyncdomain.SyncSummary, error)
	GetAchievementFunc          func(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (*ranksyncdomain.AchievementRecord, error)
	StripRankRolesFunc          func(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) ([]string, error)
}

func (f *FakeService) RunSweep(ctx context.Context, guildID ranksyncdomain.GuildID) (ranksyncdomain.SyncSummary, error) {
	if f.RunSweepFunc != nil {
		return f.RunSweepFunc(ctx, guildID)
	}
	return ranksyncdomain.SyncSummary{}, nil
}

func (f *FakeService) HandleRatingChangeBatch(ctx context.Context, batch ranksyncdomain.RatingChangeBatch) (ranksyncservice.BatchOutcome, error) {
	if f.HandleRatingChangeBatchFunc != nil {
		return f.HandleRatingChangeBatchFunc(ctx, batch)
	}
	return ranksyncservice.BatchOutcome{}, nil
}

func (f *FakeService) SeedAchievements(ctx context.Context, guildID ranksyncdomain.GuildID) (ranksyncdomain.SyncSummary, error) {
	if f.SeedAchievementsFunc != nil {
		return f.SeedAchievementsFunc(ctx, guildID)
	}
	return ranksyncdomain.SyncSummary{}, nil
}

func (f *FakeService) GetAchievement(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (*ranksyncdomain.AchievementRecord, error) {
	if f.GetAchievementFunc != nil {
		return f.GetAchievementFunc(ctx, guildID, memberID)
	}
	return nil, nil
}

func (f *FakeService) StripRankRoles(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) ([]string, error) {
	if f.StripRankRolesFunc != nil {
		return f.StripRankRolesFunc(ctx, guildID, memberID)
	}
	return nil, nil
}

var _ ranksyncservice.Service = (*FakeService)(nil)
