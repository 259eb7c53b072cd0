package ranksyncservice

import (
	"context"
	"errors"
	"strings"
	"testing"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
)

func TestGetAchievementReturnsRecord(t *testing.T) {
	h := newTestHarness()
	h.store.Records["g1/alice"] = ranksyncdomain.AchievementRecord{
		MaxRatingSeen:   intPtr(1520),
		HighestRankSeen: strPtr("Specialist"),
	}

	record, err := h.svc.GetAchievement(context.Background(), "g1", "alice")
	if err != nil {
		t.Fatalf("GetAchievement: unexpected error: %v", err)
	}
	if *record.MaxRatingSeen != 1520 || *record.HighestRankSeen != "Specialist" {
		t.Errorf("record = %+v, want (1520, Specialist)", record)
	}
}

func TestGetAchievementNotFound(t *testing.T) {
	h := newTestHarness()

	_, err := h.svc.GetAchievement(context.Background(), "g1", "ghost")
	if !errors.Is(err, ErrAchievementNotFound) {
		t.Errorf("error = %v, want ErrAchievementNotFound", err)
	}
}

func TestGetAchievementValidation(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	if _, err := h.svc.GetAchievement(ctx, "", "alice"); !errors.Is(err, ErrMissingGuildID) {
		t.Errorf("error = %v, want ErrMissingGuildID", err)
	}
	if _, err := h.svc.GetAchievement(ctx, "g1", ""); !errors.Is(err, ErrMissingMemberID) {
		t.Errorf("error = %v, want ErrMissingMemberID", err)
	}
}

func TestGetAchievementStoreErrorSurfaces(t *testing.T) {
	h := newTestHarness()
	h.store.GetFunc = func(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (*ranksyncdomain.AchievementRecord, error) {
		return nil, errors.New("db down")
	}

	_, err := h.svc.GetAchievement(context.Background(), "g1", "alice")
	if err == nil || !strings.Contains(err.Error(), "failed to get achievement record") {
		t.Errorf("error = %v, want the store failure wrapped", err)
	}
}
