package handlelinkdomain

import (
	"errors"
	"strings"
	"time"
)

// Link associates one guild member with one rating-service handle.
type Link struct {
	GuildID  string
	MemberID string
	Handle   string
	LinkedAt time.Time
}

var (
	ErrMissingGuildID  = errors.New("guild id is required")
	ErrMissingMemberID = errors.New("member id is required")
	ErrMissingHandle   = errors.New("handle is required")
	ErrHandleTaken     = errors.New("handle is already linked to another member")
)

// NormalizeHandle folds a handle to its canonical comparison form. The
// rating service treats handles case-insensitively.
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}

// Validate checks the invariants a link must satisfy before it is stored.
func (l *Link) Validate() error {
	if l.GuildID == "" {
		return ErrMissingGuildID
	}
	if l.MemberID == "" {
		return ErrMissingMemberID
	}
	if strings.TrimSpace(l.Handle) == "" {
		return ErrMissingHandle
	}
	return nil
}

// ImportRow is one parsed row of a bulk link import.
type ImportRow struct {
	MemberID string
	Handle   string
}

// ImportFailure records why one import row was rejected.
type ImportFailure struct {
	MemberID string
	Handle   string
	Reason   string
}

// ImportReport summarizes a bulk link import.
type ImportReport struct {
	Linked   int
	Failures []ImportFailure
}
