package ranksyncdomain

import (
	"strings"
	"time"
)

// GuildID identifies one community whose roles are reconciled together.
type GuildID string

// MemberID identifies a member within a guild.
type MemberID string

// Handle identifies a member in the external rating service.
type Handle string

// NormalizeHandle folds a handle to its canonical lookup form; the rating
// service treats handles case-insensitively.
func NormalizeHandle(h Handle) Handle {
	return Handle(strings.ToLower(strings.TrimSpace(string(h))))
}

// Member is a guild member linked to a rating-service handle.
type Member struct {
	GuildID  GuildID
	MemberID MemberID
	Handle   Handle
}

// RatingSnapshot is the rating service's current view of one handle. Nil
// fields mean the service has never rated the handle.
type RatingSnapshot struct {
	Handle         Handle
	CurrentRating  *int
	BestRatingEver *int
}

// EffectiveRating picks the rating a member's rank role is derived from: the
// best rating ever when known, the current rating otherwise.
func (s RatingSnapshot) EffectiveRating() *int {
	if s.BestRatingEver != nil {
		return s.BestRatingEver
	}
	return s.CurrentRating
}

// RatingPoint is one entry of a handle's rating history.
type RatingPoint struct {
	Rating int
	At     time.Time
}

// RatingChange is one handle's movement in a single competition.
type RatingChange struct {
	Handle    Handle
	OldRating *int
	NewRating int
}

// RatingChangeBatch announces the rating movements of one competition.
type RatingChangeBatch struct {
	CompetitionID int64
	Entries       []RatingChange
}

// MemberFailure records why one member could not be reconciled.
type MemberFailure struct {
	MemberID MemberID
	Reason   string
}

// SyncSummary is the outcome of one reconciliation run for one guild.
// Updated counts members with an applied role mutation or a ledger change,
// Skipped counts members that needed nothing.
type SyncSummary struct {
	Updated  int
	Skipped  int
	Failures []MemberFailure
}

// RoleSet is a set of role names.
type RoleSet map[string]struct{}

// NewRoleSet builds a RoleSet from names.
func NewRoleSet(names ...string) RoleSet {
	s := make(RoleSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s RoleSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts name into the set.
func (s RoleSet) Add(name string) {
	s[name] = struct{}{}
}
