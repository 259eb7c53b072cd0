package ranksyncservice

import (
	"context"
	"errors"
	"testing"
	"time"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
)

func ratingPoint(rating int, day string) ranksyncdomain.RatingPoint {
	at, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return ranksyncdomain.RatingPoint{Rating: rating, At: at}
}

func TestSeedAchievementsUsesHistoryPeak(t *testing.T) {
	h := newTestHarness()
	seedGuildRoles(h, "g1")
	h.links.Link("g1", "alice", "alice")
	h.roles.SetMember("g1", "alice", "Pupil")
	h.ratings.Snapshots["alice"] = ranksyncdomain.RatingSnapshot{Handle: "alice", CurrentRating: intPtr(1380)}
	h.ratings.Histories["alice"] = []ranksyncdomain.RatingPoint{
		ratingPoint(1450, "2025-01-10"),
		ratingPoint(1520, "2025-03-02"),
		ratingPoint(1380, "2025-05-20"),
	}

	summary, err := h.svc.SeedAchievements(context.Background(), "g1")
	if err != nil {
		t.Fatalf("SeedAchievements: unexpected error: %v", err)
	}
	if summary.Updated != 1 || summary.Skipped != 0 || len(summary.Failures) != 0 {
		t.Errorf("summary = %+v, want one seeded member", summary)
	}

	record := h.store.Stored("g1", "alice")
	if record == nil || *record.MaxRatingSeen != 1520 || *record.HighestRankSeen != "Specialist" {
		t.Errorf("ledger = %+v, want the history peak (1520, Specialist)", record)
	}

	if got := h.roles.Trace(); len(got) != 0 {
		t.Errorf("role directory calls %v, seeding must never touch roles", got)
	}
	if got := h.notifier.Delivered(); len(got) != 0 {
		t.Errorf("notices %v delivered, seeding must stay silent", got)
	}
}

func TestSeedAchievementsFallsBackToSnapshot(t *testing.T) {
	h := newTestHarness()
	h.links.Link("g1", "alice", "alice")
	h.links.Link("g1", "fred", "fred")

	h.ratings.Snapshots["alice"] = ranksyncdomain.RatingSnapshot{
		Handle:         "alice",
		CurrentRating:  intPtr(1700),
		BestRatingEver: intPtr(1900),
	}
	h.ratings.Snapshots["fred"] = ranksyncdomain.RatingSnapshot{Handle: "fred", CurrentRating: intPtr(1300)}

	// alice's history endpoint is down; fred simply has no history yet.
	h.ratings.GetRatingHistoryFunc = func(ctx context.Context, handle ranksyncdomain.Handle) ([]ranksyncdomain.RatingPoint, error) {
		if handle == "alice" {
			return nil, errors.New("history endpoint down")
		}
		return nil, nil
	}

	summary, err := h.svc.SeedAchievements(context.Background(), "g1")
	if err != nil {
		t.Fatalf("SeedAchievements: unexpected error: %v", err)
	}
	if summary.Updated != 2 || len(summary.Failures) != 0 {
		t.Errorf("summary = %+v, want both members seeded from their snapshots", summary)
	}

	if record := h.store.Stored("g1", "alice"); record == nil || *record.MaxRatingSeen != 1900 || *record.HighestRankSeen != "Candidate Master" {
		t.Errorf("alice ledger = %+v, want the snapshot's best rating (1900, Candidate Master)", record)
	}
	if record := h.store.Stored("g1", "fred"); record == nil || *record.MaxRatingSeen != 1300 || *record.HighestRankSeen != "Pupil" {
		t.Errorf("fred ledger = %+v, want (1300, Pupil)", record)
	}
}

func TestSeedAchievementsSkipsMemberWithoutData(t *testing.T) {
	h := newTestHarness()
	h.links.Link("g1", "ghost", "ghost")

	summary, err := h.svc.SeedAchievements(context.Background(), "g1")
	if err != nil {
		t.Fatalf("SeedAchievements: unexpected error: %v", err)
	}
	if summary.Skipped != 1 || summary.Updated != 0 || len(summary.Failures) != 0 {
		t.Errorf("summary = %+v, want the dataless member skipped", summary)
	}
	if h.store.Stored("g1", "ghost") != nil {
		t.Error("a member without any rating data must not get a ledger record")
	}
}

func TestSeedAchievementsNeverLowers(t *testing.T) {
	h := newTestHarness()
	h.links.Link("g1", "alice", "alice")
	h.ratings.Histories["alice"] = []ranksyncdomain.RatingPoint{
		ratingPoint(1800, "2025-02-01"),
	}
	h.store.Records["g1/alice"] = ranksyncdomain.AchievementRecord{
		MaxRatingSeen:   intPtr(2000),
		HighestRankSeen: strPtr("Candidate Master"),
	}

	summary, err := h.svc.SeedAchievements(context.Background(), "g1")
	if err != nil {
		t.Fatalf("SeedAchievements: unexpected error: %v", err)
	}
	if summary.Skipped != 1 || summary.Updated != 0 {
		t.Errorf("summary = %+v, want the lower seed skipped", summary)
	}
	if h.store.UpsertCalls() != 0 {
		t.Error("a lower seed observation must not rewrite the ledger")
	}
	record := h.store.Stored("g1", "alice")
	if *record.MaxRatingSeen != 2000 || *record.HighestRankSeen != "Candidate Master" {
		t.Errorf("ledger = %+v, want untouched (2000, Candidate Master)", record)
	}
}

func TestSeedAchievementsShortCircuits(t *testing.T) {
	t.Run("missing guild id", func(t *testing.T) {
		h := newTestHarness()
		if _, err := h.svc.SeedAchievements(context.Background(), ""); !errors.Is(err, ErrMissingGuildID) {
			t.Errorf("error = %v, want ErrMissingGuildID", err)
		}
	})

	t.Run("no linked members", func(t *testing.T) {
		h := newTestHarness()
		_, err := h.svc.SeedAchievements(context.Background(), "g1")
		if !ranksyncdomain.IsData(err) {
			t.Errorf("error = %v, want a data error", err)
		}
	})
}
