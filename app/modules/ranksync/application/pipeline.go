package ranksyncservice

import (
	"context"
	"fmt"
	"log/slog"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/open-ladder/ranksync/internal/attr"
)

// runKind distinguishes what started a pipeline. Sweeps always reconcile
// roles; batch runs touch roles only in guilds with auto sync enabled, while
// the ledger and notices run either way.
type runKind int

const (
	kindSweep runKind = iota
	kindBatch
)

const mutationReason = "Rank synchronization"

// runInput describes one guild's reconciliation run.
type runInput struct {
	guildID ranksyncdomain.GuildID
	kind    runKind
	// collect gathers the linked members this run covers.
	collect func(ctx context.Context) ([]ranksyncdomain.Member, error)
	// observed carries the batch's new rating per normalized handle. It is
	// nil on sweeps, where the ledger observation is the snapshot's
	// effective rating instead.
	observed map[ranksyncdomain.Handle]int
}

// memberState carries one member through the pipeline phases.
type memberState struct {
	member      ranksyncdomain.Member
	snapshot    ranksyncdomain.RatingSnapshot
	hasSnapshot bool

	roleChanged   bool
	ledgerChanged bool
	failures      []string

	record    *ranksyncdomain.AchievementRecord
	obsRating *int
	obsTier   ranksyncdomain.RankTier
	isNewMax  bool
	isNewRank bool
}

func (st *memberState) failf(format string, args ...any) {
	st.failures = append(st.failures, fmt.Sprintf(format, args...))
}

// runPipeline drives one guild through COLLECT, RESOLVE, RECONCILE, PERSIST,
// NOTIFY and DONE while holding the guild's run-guard token. Per-member
// problems land in the summary and never stop siblings; a non-nil error means
// the whole run short-circuited.
func (s *RankSyncService) runPipeline(ctx context.Context, in runInput) (ranksyncdomain.SyncSummary, error) {
	var summary ranksyncdomain.SyncSummary

	release, err := s.guard.Acquire(ctx, in.guildID)
	if err != nil {
		return summary, fmt.Errorf("acquire run token: %w", err)
	}
	defer release()

	members, err := in.collect(ctx)
	if err != nil {
		return summary, fmt.Errorf("collect linked members: %w", err)
	}
	if len(members) == 0 {
		return summary, &ranksyncdomain.DataError{GuildID: in.guildID, Reason: "no linked members"}
	}

	settings, err := s.settings.GuildSettings(ctx, in.guildID)
	if err != nil {
		return summary, fmt.Errorf("load guild settings: %w", err)
	}
	reconcileRoles := in.kind == kindSweep || settings.AutoSyncEnabled

	handles := make([]ranksyncdomain.Handle, len(members))
	for i, m := range members {
		handles[i] = m.Handle
	}

	var snapshots map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot
	err = s.retry.Do(ctx, ranksyncdomain.IsTransient, func() error {
		var rerr error
		snapshots, rerr = s.ratings.GetCurrentRatings(ctx, handles)
		return rerr
	})
	if err != nil {
		return summary, fmt.Errorf("resolve current ratings: %w", err)
	}

	namespace := ranksyncdomain.RankNamespace()
	var guildRoles ranksyncdomain.RoleSet
	if reconcileRoles {
		err = s.retry.Do(ctx, ranksyncdomain.IsTransient, func() error {
			var rerr error
			guildRoles, rerr = s.roles.GuildRoleNames(ctx, in.guildID)
			return rerr
		})
		if err != nil {
			return summary, fmt.Errorf("list guild roles: %w", err)
		}
		if !hasAnyRankRole(guildRoles, namespace) {
			return summary, &ranksyncdomain.DataError{GuildID: in.guildID, Reason: "no rank roles in the role directory"}
		}
	}

	states := make([]*memberState, 0, len(members))
	for _, m := range members {
		st := &memberState{member: m}
		if snap, ok := snapshots[m.Handle]; ok {
			st.snapshot = snap
			st.hasSnapshot = true
		} else {
			st.failf("no rating data for handle %q", m.Handle)
		}
		states = append(states, st)
	}

	provisional := ranksyncdomain.NewRoleSet(settings.ProvisionalRoles...)

	if reconcileRoles {
		for _, st := range states {
			if err := ctx.Err(); err != nil {
				return foldSummary(states), err
			}
			if !st.hasSnapshot {
				continue
			}
			s.reconcileMember(ctx, in.guildID, st, settings, guildRoles, namespace, provisional)
		}
	}

	for _, st := range states {
		if err := ctx.Err(); err != nil {
			return foldSummary(states), err
		}
		s.persistMember(ctx, st, in.observed)
	}

	for _, st := range states {
		if err := ctx.Err(); err != nil {
			return foldSummary(states), err
		}
		s.notifyMember(ctx, st, settings)
	}

	summary = foldSummary(states)
	s.logger.InfoContext(ctx, "Reconciliation run finished",
		attr.CorrelationID(ctx),
		slog.String("guild_id", string(in.guildID)),
		slog.Int("updated", summary.Updated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failures", len(summary.Failures)),
	)
	return summary, nil
}

// reconcileMember brings one member's rank roles in line with the tier of
// their effective rating. A missing desired role fails the member before any
// mutation; removals go out before additions so two rank roles are never
// visible at once.
func (s *RankSyncService) reconcileMember(
	ctx context.Context,
	guildID ranksyncdomain.GuildID,
	st *memberState,
	settings GuildSettings,
	guildRoles, namespace, provisional ranksyncdomain.RoleSet,
) {
	desired := ranksyncdomain.TierForRating(st.snapshot.EffectiveRating())
	if desired.IsRated() && !guildRoles.Has(desired.Title) {
		cfgErr := &ranksyncdomain.ConfigurationError{GuildID: guildID, RoleName: desired.Title}
		s.logger.WarnContext(ctx, "Desired rank role missing from directory",
			attr.CorrelationID(ctx),
			slog.String("guild_id", string(guildID)),
			slog.String("member_id", string(st.member.MemberID)),
			slog.String("role", desired.Title),
		)
		st.failf("%v", cfgErr)
		return
	}

	var current ranksyncdomain.RoleSet
	err := s.retry.Do(ctx, ranksyncdomain.IsTransient, func() error {
		var rerr error
		current, rerr = s.roles.MemberRoles(ctx, guildID, st.member.MemberID)
		return rerr
	})
	if err != nil {
		st.failf("read member roles: %v", err)
		return
	}

	diff := ranksyncdomain.ComputeRoleDiff(current, desired, namespace, provisional)

	if len(diff.ToRemove) > 0 {
		err = s.retry.Do(ctx, ranksyncdomain.IsTransient, func() error {
			return s.roles.RemoveRoles(ctx, guildID, st.member.MemberID, diff.ToRemove, mutationReason)
		})
		if err != nil {
			st.failf("remove rank roles: %v", err)
			return
		}
		st.roleChanged = true
	}

	if len(diff.ToAdd) > 0 {
		err = s.retry.Do(ctx, ranksyncdomain.IsTransient, func() error {
			return s.roles.AddRoles(ctx, guildID, st.member.MemberID, diff.ToAdd, mutationReason)
		})
		if err != nil {
			st.failf("add rank role: %v", err)
			return
		}
		st.roleChanged = true
	}

	if diff.FirstPromotion {
		s.checkEligibility(ctx, st.member, settings, current, guildRoles)
	}
}

// persistMember folds the run's rating observation into the member's ledger.
// Batch runs observe the batch's new rating; sweeps observe the effective
// rating, converging the ledger toward best-known state. A member with no
// observation keeps their record untouched.
func (s *RankSyncService) persistMember(ctx context.Context, st *memberState, observed map[ranksyncdomain.Handle]int) {
	if observed != nil {
		if rating, ok := observed[ranksyncdomain.NormalizeHandle(st.member.Handle)]; ok {
			st.obsRating = &rating
		}
	} else if st.hasSnapshot {
		st.obsRating = st.snapshot.EffectiveRating()
	}
	if st.obsRating == nil {
		return
	}
	st.obsTier = ranksyncdomain.TierForRating(st.obsRating)

	record, err := s.store.Get(ctx, st.member.GuildID, st.member.MemberID)
	if err != nil {
		st.failf("read achievement record: %v", err)
		return
	}
	st.record = record

	updated, isNewMax, isNewRank := ranksyncdomain.ApplyObservation(record, *st.obsRating, st.obsTier)
	if !isNewMax && !isNewRank {
		return
	}
	if err := s.store.Upsert(ctx, st.member, updated); err != nil {
		st.failf("persist achievement record: %v", err)
		return
	}
	st.isNewMax = isNewMax
	st.isNewRank = isNewRank
	st.ledgerChanged = true
}

// notifyMember announces a persisted achievement when the guild has a notify
// channel and the observation clears the visibility floor. Delivery is best
// effort; a failure is logged and never retried.
func (s *RankSyncService) notifyMember(ctx context.Context, st *memberState, settings GuildSettings) {
	if !st.isNewMax && !st.isNewRank {
		return
	}
	if settings.NotifyChannelID == "" || *st.obsRating < settings.MinNotifyRating {
		return
	}

	notice := RankUpNotice{
		Member:    st.member,
		ChannelID: settings.NotifyChannelID,
		Rating:    *st.obsRating,
		Tier:      st.obsTier,
		Previous:  st.record,
		IsNewMax:  st.isNewMax,
		IsNewRank: st.isNewRank,
	}
	if err := s.notifier.NotifyRankUp(ctx, notice); err != nil {
		s.logger.WarnContext(ctx, "Achievement notice delivery failed",
			attr.CorrelationID(ctx),
			slog.String("guild_id", string(st.member.GuildID)),
			slog.String("member_id", string(st.member.MemberID)),
			attr.Error(err),
		)
	}
}

func hasAnyRankRole(guildRoles, namespace ranksyncdomain.RoleSet) bool {
	for name := range namespace {
		if guildRoles.Has(name) {
			return true
		}
	}
	return false
}

func foldSummary(states []*memberState) ranksyncdomain.SyncSummary {
	var summary ranksyncdomain.SyncSummary
	for _, st := range states {
		for _, reason := range st.failures {
			summary.Failures = append(summary.Failures, ranksyncdomain.MemberFailure{MemberID: st.member.MemberID, Reason: reason})
		}
		switch {
		case len(st.failures) > 0:
		case st.roleChanged || st.ledgerChanged:
			summary.Updated++
		default:
			summary.Skipped++
		}
	}
	return summary
}
