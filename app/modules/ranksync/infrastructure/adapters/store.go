// Package ranksyncadapters binds the sync service's ports to the sibling
// modules and the ledger repository.
package ranksyncadapters

import (
	"context"
	"errors"

	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	ranksyncdb "github.com/open-ladder/ranksync/app/modules/ranksync/infrastructure/repositories"
)

// AchievementStore adapts the ledger repository to the service port, turning
// the repository's not-found sentinel into the port's nil record.
type AchievementStore struct {
	repo ranksyncdb.Repository
}

// NewAchievementStore creates a new AchievementStore.
func NewAchievementStore(repo ranksyncdb.Repository) *AchievementStore {
	return &AchievementStore{repo: repo}
}

func (s *AchievementStore) Get(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (*ranksyncdomain.AchievementRecord, error) {
	record, err := s.repo.Get(ctx, nil, string(guildID), string(memberID))
	if err != nil {
		if errors.Is(err, ranksyncdb.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (s *AchievementStore) Upsert(ctx context.Context, member ranksyncdomain.Member, record ranksyncdomain.AchievementRecord) error {
	return s.repo.Upsert(ctx, nil, member, record)
}

var _ ranksyncservice.AchievementStore = (*AchievementStore)(nil)
