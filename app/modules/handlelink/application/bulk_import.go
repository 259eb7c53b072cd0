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

// BulkImport links many members at once. Each row goes through the same
// uniqueness check as SetLink; bad rows are reported, not fatal. The whole
// import runs in one transaction so a later infrastructure failure does not
// leave a half-applied sheet.
func (s *HandleLinkService) BulkImport(ctx context.Context, guildID string, rows []handlelinkdomain.ImportRow) (*handlelinkdomain.ImportReport, error) {
	importTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*handlelinkdomain.ImportReport, error], error) {
		return s.bulkImportLogic(ctx, db, guildID, rows)
	}

	result, err := withTelemetry(s, ctx, "BulkImport", guildID, func(ctx context.Context) (results.OperationResult[*handlelinkdomain.ImportReport, error], error) {
		return runInTx(s, ctx, importTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// bulkImportLogic contains the core logic.
func (s *HandleLinkService) bulkImportLogic(ctx context.Context, db bun.IDB, guildID string, rows []handlelinkdomain.ImportRow) (results.OperationResult[*handlelinkdomain.ImportReport, error], error) {
	if guildID == "" {
		return results.FailureResult[*handlelinkdomain.ImportReport, error](handlelinkdomain.ErrMissingGuildID), nil
	}

	report := &handlelinkdomain.ImportReport{}
	seenHandles := make(map[string]string, len(rows))

	for _, row := range rows {
		link := &handlelinkdomain.Link{
			GuildID:  guildID,
			MemberID: row.MemberID,
			Handle:   strings.TrimSpace(row.Handle),
		}
		if err := link.Validate(); err != nil {
			report.Failures = append(report.Failures, handlelinkdomain.ImportFailure{
				MemberID: row.MemberID,
				Handle:   row.Handle,
				Reason:   err.Error(),
			})
			continue
		}

		normalized := handlelinkdomain.NormalizeHandle(link.Handle)
		if owner, ok := seenHandles[normalized]; ok && owner != row.MemberID {
			report.Failures = append(report.Failures, handlelinkdomain.ImportFailure{
				MemberID: row.MemberID,
				Handle:   row.Handle,
				Reason:   handlelinkdomain.ErrHandleTaken.Error(),
			})
			continue
		}

		holder, err := s.repo.GetByHandle(ctx, db, guildID, link.Handle)
		if err != nil && !errors.Is(err, handlelinkdb.ErrNotFound) {
			return results.OperationResult[*handlelinkdomain.ImportReport, error]{}, fmt.Errorf("failed to check handle holder: %w", err)
		}
		if holder != nil && holder.MemberID != row.MemberID {
			report.Failures = append(report.Failures, handlelinkdomain.ImportFailure{
				MemberID: row.MemberID,
				Handle:   row.Handle,
				Reason:   handlelinkdomain.ErrHandleTaken.Error(),
			})
			continue
		}

		if err := s.repo.Upsert(ctx, db, link); err != nil {
			return results.OperationResult[*handlelinkdomain.ImportReport, error]{}, fmt.Errorf("failed to store link for %s: %w", row.MemberID, err)
		}

		seenHandles[normalized] = row.MemberID
		report.Linked++
	}

	return results.SuccessResult[*handlelinkdomain.ImportReport, error](report), nil
}
