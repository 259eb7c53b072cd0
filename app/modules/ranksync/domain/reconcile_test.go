package ranksyncdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeRoleDiff(t *testing.T) {
	ns := RankNamespace()
	provisional := NewRoleSet("Provisional")

	tests := []struct {
		name          string
		current       RoleSet
		desired       RankTier
		wantRemove    []string
		wantAdd       []string
		wantPromotion bool
	}{
		{
			name:          "no roles gains desired tier",
			current:       NewRoleSet(),
			desired:       mustTier(t, "Pupil"),
			wantRemove:    nil,
			wantAdd:       []string{"Pupil"},
			wantPromotion: true,
		},
		{
			name:          "provisional member promotes",
			current:       NewRoleSet("Provisional"),
			desired:       mustTier(t, "Specialist"),
			wantRemove:    nil,
			wantAdd:       []string{"Specialist"},
			wantPromotion: true,
		},
		{
			name:          "tier change swaps roles without promotion signal",
			current:       NewRoleSet("Pupil"),
			desired:       mustTier(t, "Specialist"),
			wantRemove:    []string{"Pupil"},
			wantAdd:       []string{"Specialist"},
			wantPromotion: false,
		},
		{
			name:          "already converged is a noop",
			current:       NewRoleSet("Expert", "Moderator"),
			desired:       mustTier(t, "Expert"),
			wantRemove:    nil,
			wantAdd:       nil,
			wantPromotion: false,
		},
		{
			name:          "unrated strips every rank role",
			current:       NewRoleSet("Pupil", "Specialist", "Moderator"),
			desired:       Unrated,
			wantRemove:    []string{"Pupil", "Specialist"},
			wantAdd:       nil,
			wantPromotion: false,
		},
		{
			name:          "duplicate rank roles collapse to the desired one",
			current:       NewRoleSet("Newbie", "Pupil", "Expert"),
			desired:       mustTier(t, "Expert"),
			wantRemove:    []string{"Newbie", "Pupil"},
			wantAdd:       nil,
			wantPromotion: false,
		},
		{
			name:          "non-namespace roles never touched",
			current:       NewRoleSet("Moderator", "Event Organizer"),
			desired:       mustTier(t, "Newbie"),
			wantRemove:    nil,
			wantAdd:       []string{"Newbie"},
			wantPromotion: false,
		},
		{
			name:          "unrated with no rank roles is a noop",
			current:       NewRoleSet("Moderator"),
			desired:       Unrated,
			wantRemove:    nil,
			wantAdd:       nil,
			wantPromotion: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := ComputeRoleDiff(tt.current, tt.desired, ns, provisional)
			assert.Equal(t, tt.wantRemove, diff.ToRemove)
			assert.Equal(t, tt.wantAdd, diff.ToAdd)
			assert.Equal(t, tt.wantPromotion, diff.FirstPromotion)
		})
	}
}

func TestComputeRoleDiff_PromotionSignalFiresOncePerPromotion(t *testing.T) {
	ns := RankNamespace()
	provisional := NewRoleSet("Provisional")
	desired := mustTier(t, "Candidate Master")

	current := NewRoleSet("Provisional")
	first := ComputeRoleDiff(current, desired, ns, provisional)
	assert.True(t, first.FirstPromotion)

	// Apply the diff: the member now holds the rank role.
	for _, name := range first.ToAdd {
		current.Add(name)
	}
	repeat := ComputeRoleDiff(current, desired, ns, provisional)
	assert.True(t, repeat.IsNoop())
	assert.False(t, repeat.FirstPromotion, "repeat run at the same tier must not re-fire")

	// A later promotion does not re-fire either: the member now holds a role
	// outside the provisional set.
	higher := mustTier(t, "Master")
	next := ComputeRoleDiff(current, higher, ns, provisional)
	assert.Equal(t, []string{"Candidate Master"}, next.ToRemove)
	assert.Equal(t, []string{"Master"}, next.ToAdd)
	assert.False(t, next.FirstPromotion)
}

func TestComputeRoleDiff_ConvergenceProperty(t *testing.T) {
	ns := RankNamespace()
	provisional := NewRoleSet()

	// Whatever the starting state, applying the diff leaves exactly the
	// desired rank role (or none for Unrated).
	startingStates := []RoleSet{
		NewRoleSet(),
		NewRoleSet("Newbie"),
		NewRoleSet("Pupil", "Specialist", "Expert"),
		NewRoleSet("Legendary Grandmaster", "Moderator"),
	}
	desired := mustTier(t, "Master")

	for _, current := range startingStates {
		diff := ComputeRoleDiff(current, desired, ns, provisional)
		after := applyDiff(current, diff)

		held := 0
		for name := range after {
			if ns.Has(name) {
				held++
				assert.Equal(t, "Master", name)
			}
		}
		assert.Equal(t, 1, held)
	}
}

func mustTier(t *testing.T, title string) RankTier {
	t.Helper()
	tier, ok := TierByTitle(title)
	if !ok {
		t.Fatalf("unknown tier title %q", title)
	}
	return tier
}

func applyDiff(current RoleSet, diff RoleDiff) RoleSet {
	after := make(RoleSet, len(current))
	for name := range current {
		after[name] = struct{}{}
	}
	for _, name := range diff.ToRemove {
		delete(after, name)
	}
	for _, name := range diff.ToAdd {
		after.Add(name)
	}
	return after
}
