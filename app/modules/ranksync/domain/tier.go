package ranksyncdomain

// RankTier is one bucket of the ordered rating scale. Ordinal is the bucket's
// explicit position; comparing ordinals is the only sanctioned way to order
// tiers.
type RankTier struct {
	Ordinal    int
	LowerBound int
	Title      string
}

// IsRated reports whether the tier represents an actual rating bucket.
func (t RankTier) IsRated() bool {
	return t.Title != unratedTitle
}

const unratedTitle = "Unrated"

// Unrated covers members with no rating or a rating below the lowest bound.
// It holds no ordinal meaning; IsRated distinguishes it, never the ordinal.
var Unrated = RankTier{Ordinal: -1, LowerBound: 0, Title: unratedTitle}

// ratedTiers is the fixed rating scale, ascending. The Newbie floor mirrors
// the rating service, which can report small negative ratings.
var ratedTiers = []RankTier{
	{Ordinal: 0, LowerBound: -1_000_000_000, Title: "Newbie"},
	{Ordinal: 1, LowerBound: 1200, Title: "Pupil"},
	{Ordinal: 2, LowerBound: 1400, Title: "Specialist"},
	{Ordinal: 3, LowerBound: 1600, Title: "Expert"},
	{Ordinal: 4, LowerBound: 1900, Title: "Candidate Master"},
	{Ordinal: 5, LowerBound: 2100, Title: "Master"},
	{Ordinal: 6, LowerBound: 2300, Title: "International Master"},
	{Ordinal: 7, LowerBound: 2400, Title: "Grandmaster"},
	{Ordinal: 8, LowerBound: 2600, Title: "International Grandmaster"},
	{Ordinal: 9, LowerBound: 3000, Title: "Legendary Grandmaster"},
}

// TierForRating returns the highest tier whose lower bound the rating
// reaches, or Unrated for a nil rating or one below every bound. Total and
// deterministic.
func TierForRating(rating *int) RankTier {
	if rating == nil {
		return Unrated
	}
	for i := len(ratedTiers) - 1; i >= 0; i-- {
		if *rating >= ratedTiers[i].LowerBound {
			return ratedTiers[i]
		}
	}
	return Unrated
}

// TierByTitle looks a tier up by its role title. The second return
// distinguishes "unknown title" from any real tier.
func TierByTitle(title string) (RankTier, bool) {
	for _, t := range ratedTiers {
		if t.Title == title {
			return t, true
		}
	}
	return RankTier{}, false
}

// Tiers returns the rated tier table in ascending order.
func Tiers() []RankTier {
	out := make([]RankTier, len(ratedTiers))
	copy(out, ratedTiers)
	return out
}

// RankNamespace is the mutually-exclusive set of role names representing
// tiers.
func RankNamespace() RoleSet {
	s := make(RoleSet, len(ratedTiers))
	for _, t := range ratedTiers {
		s.Add(t.Title)
	}
	return s
}
