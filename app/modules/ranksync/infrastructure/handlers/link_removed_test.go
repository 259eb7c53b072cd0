package ranksynchandlers

import (
	"context"
	"testing"

	handlelinkevents "github.com/open-ladder/ranksync/app/modules/handlelink/domain/events"
	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/open-ladder/ranksync/internal/observability"
)

func TestHandleLinkRemoved(t *testing.T) {
	ctx := context.Background()

	t.Run("strips the member's rank roles", func(t *testing.T) {
		var gotGuild ranksyncdomain.GuildID
		var gotMember ranksyncdomain.MemberID
		svc := &FakeService{
			StripRankRolesFunc: func(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) ([]string, error) {
				gotGuild, gotMember = guildID, memberID
				return []string{"Expert"}, nil
			},
		}
		h := NewRankSyncHandlers(svc, observability.NoOpLogger)

		results, err := h.HandleLinkRemoved(ctx, &handlelinkevents.LinkRemovedPayloadV1{
			GuildID:  "g1",
			MemberID: "alice",
			Handle:   "al",
		}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("results = %+v, want none", results)
		}
		if gotGuild != "g1" || gotMember != "alice" {
			t.Errorf("stripped %s/%s, want g1/alice", gotGuild, gotMember)
		}
	})

	t.Run("permanent failure is swallowed for the next sweep", func(t *testing.T) {
		svc := &FakeService{
			StripRankRolesFunc: func(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) ([]string, error) {
				return nil, &ranksyncdomain.PermissionError{GuildID: guildID, MemberID: memberID}
			},
		}
		h := NewRankSyncHandlers(svc, observability.NoOpLogger)

		if _, err := h.HandleLinkRemoved(ctx, &handlelinkevents.LinkRemovedPayloadV1{GuildID: "g1", MemberID: "alice"}, nil); err != nil {
			t.Fatalf("permanent failures must not error: %v", err)
		}
	})

	t.Run("transient failure propagates for redelivery", func(t *testing.T) {
		svc := &FakeService{
			StripRankRolesFunc: func(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) ([]string, error) {
				return nil, &ranksyncdomain.TransientError{Op: "remove roles", Err: context.DeadlineExceeded}
			},
		}
		h := NewRankSyncHandlers(svc, observability.NoOpLogger)

		if _, err := h.HandleLinkRemoved(ctx, &handlelinkevents.LinkRemovedPayloadV1{GuildID: "g1", MemberID: "alice"}, nil); err == nil {
			t.Fatal("expected transient error to propagate")
		}
	})
}
