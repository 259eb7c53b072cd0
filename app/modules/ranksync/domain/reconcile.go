package ranksyncdomain

import "sort"

// RoleDiff is the minimal mutation bringing a member's rank roles in line
// with the desired tier. FirstPromotion is the one-shot signal that the
// member is gaining a rank role while previously holding nothing beyond the
// provisional gating set; it fires at most once per promotion and never on a
// repeat run at the same tier.
type RoleDiff struct {
	ToRemove       []string
	ToAdd          []string
	FirstPromotion bool
}

// IsNoop reports whether applying the diff would change nothing.
func (d RoleDiff) IsNoop() bool {
	return len(d.ToRemove) == 0 && len(d.ToAdd) == 0
}

// ComputeRoleDiff compares the roles a member currently holds against the
// desired tier. Every rank-namespace role other than the desired title is
// removed; the desired title is added unless already held; an Unrated desired
// tier strips all rank-namespace roles. Roles outside the namespace are never
// touched.
func ComputeRoleDiff(current RoleSet, desired RankTier, rankNamespace RoleSet, provisional RoleSet) RoleDiff {
	var diff RoleDiff

	for name := range current {
		if !rankNamespace.Has(name) {
			continue
		}
		if desired.IsRated() && name == desired.Title {
			continue
		}
		diff.ToRemove = append(diff.ToRemove, name)
	}
	sort.Strings(diff.ToRemove)

	if desired.IsRated() && !current.Has(desired.Title) {
		diff.ToAdd = []string{desired.Title}
	}

	if len(diff.ToAdd) > 0 {
		diff.FirstPromotion = true
		for name := range current {
			if !provisional.Has(name) {
				diff.FirstPromotion = false
				break
			}
		}
	}

	return diff
}
