package ranksyncservice

import (
	"context"
	"sync"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
)

// RunGuard serializes reconciliation runs per guild. A run holds its guild's
// token for the full pipeline; a second trigger for the same guild queues
// behind it instead of interleaving, while runs for different guilds proceed
// in parallel. Interleaved runs would diff against a mid-mutation role state
// and lose updates.
type RunGuard struct {
	mu     sync.Mutex
	tokens map[ranksyncdomain.GuildID]chan struct{}
}

// NewRunGuard creates an empty guard.
func NewRunGuard() *RunGuard {
	return &RunGuard{tokens: make(map[ranksyncdomain.GuildID]chan struct{})}
}

// Acquire blocks until the guild's token is free or ctx is done. The returned
// release must be called on every exit path once acquired.
func (g *RunGuard) Acquire(ctx context.Context, guildID ranksyncdomain.GuildID) (release func(), err error) {
	g.mu.Lock()
	token, ok := g.tokens[guildID]
	if !ok {
		token = make(chan struct{}, 1)
		g.tokens[guildID] = token
	}
	g.mu.Unlock()

	select {
	case token <- struct{}{}:
		return func() { <-token }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
