package handlelinkevents

import "time"

// Stream name for handle link events.
const HandleLinkStream = "handlelink"

// Handle link event subjects.
const (
	LinkRequestedV1   = "handlelink.link.requested.v1"
	LinkCreatedV1     = "handlelink.link.created.v1"
	LinkFailedV1      = "handlelink.link.failed.v1"
	UnlinkRequestedV1 = "handlelink.unlink.requested.v1"
	LinkRemovedV1     = "handlelink.link.removed.v1"
	UnlinkFailedV1    = "handlelink.unlink.failed.v1"
)

// LinkRequestedPayloadV1 asks for a member to be linked to a handle.
type LinkRequestedPayloadV1 struct {
	GuildID  string `json:"guild_id"`
	MemberID string `json:"member_id"`
	Handle   string `json:"handle"`
}

// LinkCreatedPayloadV1 reports a stored link.
type LinkCreatedPayloadV1 struct {
	GuildID  string    `json:"guild_id"`
	MemberID string    `json:"member_id"`
	Handle   string    `json:"handle"`
	LinkedAt time.Time `json:"linked_at"`
}

// LinkFailedPayloadV1 reports why a link request was rejected.
type LinkFailedPayloadV1 struct {
	GuildID  string `json:"guild_id"`
	MemberID string `json:"member_id"`
	Handle   string `json:"handle"`
	Reason   string `json:"reason"`
}

// UnlinkRequestedPayloadV1 asks for a member's link to be removed.
type UnlinkRequestedPayloadV1 struct {
	GuildID  string `json:"guild_id"`
	MemberID string `json:"member_id"`
}

// LinkRemovedPayloadV1 reports a removed link. Rank role cleanup for the
// member is driven off this event.
type LinkRemovedPayloadV1 struct {
	GuildID  string `json:"guild_id"`
	MemberID string `json:"member_id"`
	Handle   string `json:"handle"`
}

// UnlinkFailedPayloadV1 reports why an unlink request was rejected.
type UnlinkFailedPayloadV1 struct {
	GuildID  string `json:"guild_id"`
	MemberID string `json:"member_id"`
	Reason   string `json:"reason"`
}
