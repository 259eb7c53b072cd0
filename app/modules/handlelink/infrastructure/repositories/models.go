package handlelinkdb

import (
	"time"

	handlelinkdomain "github.com/open-ladder/ranksync/app/modules/handlelink/domain"
	"github.com/uptrace/bun"
)

// HandleLink is the persistence model for member-to-handle links.
type HandleLink struct {
	bun.BaseModel `bun:"table:handle_links,alias:hl"`

	ID       int64     `bun:"id,pk,autoincrement" json:"id"`
	GuildID  string    `bun:"guild_id,notnull" json:"guild_id"`
	MemberID string    `bun:"member_id,notnull" json:"member_id"`
	Handle   string    `bun:"handle,notnull" json:"handle"`
	LinkedAt time.Time `bun:"linked_at,notnull,default:current_timestamp" json:"linked_at"`
}

func toDomain(m *HandleLink) *handlelinkdomain.Link {
	if m == nil {
		return nil
	}
	return &handlelinkdomain.Link{
		GuildID:  m.GuildID,
		MemberID: m.MemberID,
		Handle:   m.Handle,
		LinkedAt: m.LinkedAt,
	}
}

func toModel(l *handlelinkdomain.Link) *HandleLink {
	if l == nil {
		return nil
	}
	return &HandleLink{
		GuildID:  l.GuildID,
		MemberID: l.MemberID,
		Handle:   l.Handle,
		LinkedAt: l.LinkedAt,
	}
}
