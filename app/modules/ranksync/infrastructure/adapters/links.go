package ranksyncadapters

import (
	"context"
	"fmt"
	"sort"

	handlelinkservice "github.com/open-ladder/ranksync/app/modules/handlelink/application"
	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
)

// LinkSource adapts the handle link service to the sync service's member
// source port.
type LinkSource struct {
	links handlelinkservice.Service
}

// NewLinkSource creates a new LinkSource.
func NewLinkSource(links handlelinkservice.Service) *LinkSource {
	return &LinkSource{links: links}
}

func (s *LinkSource) GuildMembers(ctx context.Context, guildID ranksyncdomain.GuildID) ([]ranksyncdomain.Member, error) {
	links, err := s.links.ListGuildLinks(ctx, string(guildID))
	if err != nil {
		return nil, fmt.Errorf("list guild links: %w", err)
	}
	members := make([]ranksyncdomain.Member, len(links))
	for i, link := range links {
		members[i] = ranksyncdomain.Member{
			GuildID:  guildID,
			MemberID: ranksyncdomain.MemberID(link.MemberID),
			Handle:   ranksyncdomain.NormalizeHandle(ranksyncdomain.Handle(link.Handle)),
		}
	}
	return members, nil
}

func (s *LinkSource) MembersByHandles(ctx context.Context, guildID ranksyncdomain.GuildID, handles []ranksyncdomain.Handle) ([]ranksyncdomain.Member, error) {
	raw := make([]string, len(handles))
	for i, h := range handles {
		raw[i] = string(h)
	}
	resolved, err := s.links.ResolveHandles(ctx, string(guildID), raw)
	if err != nil {
		return nil, fmt.Errorf("resolve handles: %w", err)
	}

	members := make([]ranksyncdomain.Member, 0, len(resolved))
	for handle, memberID := range resolved {
		members = append(members, ranksyncdomain.Member{
			GuildID:  guildID,
			MemberID: ranksyncdomain.MemberID(memberID),
			Handle:   ranksyncdomain.Handle(handle),
		})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].MemberID < members[j].MemberID })
	return members, nil
}

func (s *LinkSource) GuildsWithHandles(ctx context.Context, handles []ranksyncdomain.Handle) ([]ranksyncdomain.GuildID, error) {
	raw := make([]string, len(handles))
	for i, h := range handles {
		raw[i] = string(h)
	}
	ids, err := s.links.GuildsWithHandles(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("find guilds with handles: %w", err)
	}
	guildIDs := make([]ranksyncdomain.GuildID, len(ids))
	for i, id := range ids {
		guildIDs[i] = ranksyncdomain.GuildID(id)
	}
	return guildIDs, nil
}

var _ ranksyncservice.LinkSource = (*LinkSource)(nil)
