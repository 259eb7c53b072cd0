// Package ranksyncevents defines the subjects and payloads the sync module
// consumes and emits.
package ranksyncevents

import ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"

// Stream names.
const (
	RatingStream       = "rating"
	RankSyncStream     = "ranksync"
	NotificationStream = "notification"
)

// Subjects.
const (
	// RatingChangesV1 carries one competition's rating movements, delivered
	// at least once by the external rating feed.
	RatingChangesV1 = "rating.changes.v1"

	// SweepRequestedV1 asks for a full reconciliation of one guild.
	SweepRequestedV1 = "ranksync.sweep.requested.v1"

	// SweepCompletedV1 reports the summary of one finished guild sweep.
	SweepCompletedV1 = "ranksync.sweep.completed.v1"

	// BatchProcessedV1 reports the per-guild summaries of one processed
	// rating-change batch.
	BatchProcessedV1 = "ranksync.batch.processed.v1"

	// RankUpNoticeV1 announces a new achievement to the chat gateway.
	RankUpNoticeV1 = "notification.rankup.v1"
)

// RatingChangeEntryV1 is one handle's movement in a competition.
type RatingChangeEntryV1 struct {
	Handle    string `json:"handle"`
	OldRating *int   `json:"old_rating,omitempty"`
	NewRating int    `json:"new_rating"`
}

// RatingChangeBatchPayloadV1 announces the rating movements of one
// competition.
type RatingChangeBatchPayloadV1 struct {
	CompetitionID int64                 `json:"competition_id"`
	Entries       []RatingChangeEntryV1 `json:"entries"`
}

// SweepRequestedPayloadV1 asks for a full reconciliation of one guild.
type SweepRequestedPayloadV1 struct {
	GuildID     string `json:"guild_id"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// MemberFailureV1 records why one member could not be reconciled.
type MemberFailureV1 struct {
	MemberID string `json:"member_id"`
	Reason   string `json:"reason"`
}

// SyncSummaryV1 is the outcome of one reconciliation run for one guild.
type SyncSummaryV1 struct {
	Updated  int               `json:"updated"`
	Skipped  int               `json:"skipped"`
	Failures []MemberFailureV1 `json:"failures,omitempty"`
}

// SummaryV1FromDomain converts a run summary to its wire form.
func SummaryV1FromDomain(s ranksyncdomain.SyncSummary) SyncSummaryV1 {
	out := SyncSummaryV1{Updated: s.Updated, Skipped: s.Skipped}
	if len(s.Failures) > 0 {
		out.Failures = make([]MemberFailureV1, len(s.Failures))
		for i, f := range s.Failures {
			out.Failures[i] = MemberFailureV1{MemberID: string(f.MemberID), Reason: f.Reason}
		}
	}
	return out
}

// SweepCompletedPayloadV1 reports one finished guild sweep.
type SweepCompletedPayloadV1 struct {
	GuildID string        `json:"guild_id"`
	Trigger string        `json:"trigger"`
	Summary SyncSummaryV1 `json:"summary"`
	Error   string        `json:"error,omitempty"`
}

// BatchProcessedPayloadV1 reports one processed rating-change batch. Guilds
// whose whole run short-circuited appear in Errors instead of Summaries.
type BatchProcessedPayloadV1 struct {
	CompetitionID int64                    `json:"competition_id"`
	Summaries     map[string]SyncSummaryV1 `json:"summaries"`
	Errors        map[string]string        `json:"errors,omitempty"`
}

// RankUpNoticePayloadV1 announces a member's new achievement. The gateway
// renders it into the guild's configured channel.
type RankUpNoticePayloadV1 struct {
	GuildID      string  `json:"guild_id"`
	MemberID     string  `json:"member_id"`
	Handle       string  `json:"handle"`
	ChannelID    string  `json:"channel_id"`
	Rating       int     `json:"rating"`
	RankTitle    string  `json:"rank_title"`
	PreviousMax  *int    `json:"previous_max,omitempty"`
	PreviousRank *string `json:"previous_rank,omitempty"`
	IsNewMax     bool    `json:"is_new_max"`
	IsNewRank    bool    `json:"is_new_rank"`
}
