package handlelinkservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	handlelinkdomain "github.com/open-ladder/ranksync/app/modules/handlelink/domain"
	handlelinkdb "github.com/open-ladder/ranksync/app/modules/handlelink/infrastructure/repositories"
	"github.com/open-ladder/ranksync/internal/results"
	"github.com/uptrace/bun"
)

// SetLink links a member to a handle, replacing the member's previous link.
func (s *HandleLinkService) SetLink(ctx context.Context, guildID, memberID, handle string) (*handlelinkdomain.Link, error) {
	setTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*handlelinkdomain.Link, error], error) {
		return s.setLinkLogic(ctx, db, guildID, memberID, handle)
	}

	result, err := withTelemetry(s, ctx, "SetLink", guildID+"/"+memberID, func(ctx context.Context) (results.OperationResult[*handlelinkdomain.Link, error], error) {
		return runInTx(s, ctx, setTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// setLinkLogic contains the core logic. The handle uniqueness check and the
// write run in one transaction so two members cannot claim the same handle.
func (s *HandleLinkService) setLinkLogic(ctx context.Context, db bun.IDB, guildID, memberID, handle string) (results.OperationResult[*handlelinkdomain.Link, error], error) {
	link := &handlelinkdomain.Link{
		GuildID:  guildID,
		MemberID: memberID,
		Handle:   strings.TrimSpace(handle),
	}
	if err := link.Validate(); err != nil {
		return results.FailureResult[*handlelinkdomain.Link, error](err), nil
	}

	holder, err := s.repo.GetByHandle(ctx, db, guildID, link.Handle)
	if err != nil && !errors.Is(err, handlelinkdb.ErrNotFound) {
		return results.OperationResult[*handlelinkdomain.Link, error]{}, fmt.Errorf("failed to check handle holder: %w", err)
	}
	if holder != nil && holder.MemberID != memberID {
		return results.FailureResult[*handlelinkdomain.Link, error](handlelinkdomain.ErrHandleTaken), nil
	}

	if err := s.repo.Upsert(ctx, db, link); err != nil {
		return results.OperationResult[*handlelinkdomain.Link, error]{}, fmt.Errorf("failed to store link: %w", err)
	}

	return results.SuccessResult[*handlelinkdomain.Link, error](link), nil
}
