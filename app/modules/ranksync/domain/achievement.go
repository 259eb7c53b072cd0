package ranksyncdomain

// AchievementRecord is the monotonic per-member ledger: the best rating and
// the highest tier ever observed. Nil fields mean nothing was observed yet.
type AchievementRecord struct {
	MaxRatingSeen   *int
	HighestRankSeen *string
}

// highestRankOrdinal resolves the stored title to its ordinal. A nil or
// unknown title counts as no rank at all.
func (r *AchievementRecord) highestRankOrdinal() (int, bool) {
	if r == nil || r.HighestRankSeen == nil {
		return 0, false
	}
	tier, ok := TierByTitle(*r.HighestRankSeen)
	if !ok {
		return 0, false
	}
	return tier.Ordinal, true
}

// ApplyObservation folds one rating observation into the ledger and reports
// whether it set a new best rating or a new highest rank. Stored values never
// decrease, and re-applying the same observation changes nothing and raises
// no flags. An Unrated tier never counts as a rank.
func ApplyObservation(record *AchievementRecord, rating int, tier RankTier) (updated AchievementRecord, isNewMax bool, isNewRank bool) {
	if record != nil {
		updated = AchievementRecord{
			MaxRatingSeen:   record.MaxRatingSeen,
			HighestRankSeen: record.HighestRankSeen,
		}
	}

	if updated.MaxRatingSeen == nil || rating > *updated.MaxRatingSeen {
		isNewMax = true
		r := rating
		updated.MaxRatingSeen = &r
	}

	if tier.IsRated() {
		storedOrdinal, hasStored := record.highestRankOrdinal()
		if !hasStored || tier.Ordinal > storedOrdinal {
			isNewRank = true
			title := tier.Title
			updated.HighestRankSeen = &title
		}
	}

	return updated, isNewMax, isNewRank
}
