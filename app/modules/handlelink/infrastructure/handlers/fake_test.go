package handlelinkhandlers

import (
	"context"

	handlelinkservice "github.com/open-ladder/ranksync/app/modules/handlelink/application"
	handlelinkdomain "github.com/open-ladder/ranksync/app/modules/handlelink/domain"
)

// FakeService provides a programmable stub for the handlelinkservice.Service interface.
type FakeService struct {
	SetLinkFunc           func(ctx context.Context, guildID, memberID, handle string) (*handlelinkdomain.Link, error)
	GetLinkFunc           func(ctx context.Context, guildID, memberID string) (*handlelinkdomain.Link, error)
	RemoveLinkFunc        func(ctx context.Context, guildID, memberID string) (*handlelinkdomain.Link, error)
	ListGuildLinksFunc    func(ctx context.Context, guildID string) ([]handlelinkdomain.Link, error)
	ResolveHandlesFunc    func(ctx context.Context, guildID string, handles []string) (map[string]string, error)
	GuildsWithHandlesFunc func(ctx context.Context, handles []string) ([]string, error)
	BulkImportFunc        func(ctx context.Context, guildID string, rows []handlelinkdomain.ImportRow) (*handlelinkdomain.ImportReport, error)
}

func (f *FakeService) SetLink(ctx context.Context, guildID, memberID, handle string) (*handlelinkdomain.Link, error) {
	if f.SetLinkFunc != nil {
		return f.SetLinkFunc(ctx, guildID, memberID, handle)
	}
	return &handlelinkdomain.Link{GuildID: guildID, MemberID: memberID, Handle: handle}, nil
}

func (f *FakeService) GetLink(ctx context.Context, guildID, memberID string) (*handlelinkdomain.Link, error) {
	if f.GetLinkFunc != nil {
		return f.GetLinkFunc(ctx, guildID, memberID)
	}
	return nil, handlelinkservice.ErrLinkNotFound
}

func (f *FakeService) RemoveLink(ctx context.Context, guildID, memberID string) (*handlelinkdomain.Link, error) {
	if f.RemoveLinkFunc != nil {
		return f.RemoveLinkFunc(ctx, guildID, memberID)
	}
	return nil, handlelinkservice.ErrLinkNotFound
}

func (f *FakeService) ListGuildLinks(ctx context.Context, guildID string) ([]handlelinkdomain.Link, error) {
	if f.ListGuildLinksFunc != nil {
		return f.ListGuildLinksFunc(ctx, guildID)
	}
	return nil, nil
}

func (f *FakeService) ResolveHandles(ctx context.Context, guildID string, handles []string) (map[string]string, error) {
	if f.ResolveHandlesFunc != nil {
		return f.ResolveHandlesFunc(ctx, guildID, handles)
	}
	return map[string]string{}, nil
}

func (f *FakeService) GuildsWithHandles(ctx context.Context, handles []string) ([]string, error) {
	if f.GuildsWithHandlesFunc != nil {
		return f.GuildsWithHandlesFunc(ctx, handles)
	}
	return nil, nil
}

func (f *FakeService) BulkImport(ctx context.Context, guildID string, rows []handlelinkdomain.ImportRow) (*handlelinkdomain.ImportReport, error) {
	if f.BulkImportFunc != nil {
		return f.BulkImportFunc(ctx, guildID, rows)
	}
	return &handlelinkdomain.ImportReport{}, nil
}

var _ handlelinkservice.Service = (*FakeService)(nil)
