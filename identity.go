package groupkit

import (
	"context"
	"sync"
)

// IdentityProvider supplies the identity facts the rule engine needs for a
// user ID. Registration, sessions and tier changes live outside GroupKit;
// this is the boundary they are consumed through.
//
// Implementations must return facts from a consistent snapshot: a single
// decision must not observe a torn tier/administrator update.
type IdentityProvider interface {
	// Tier returns the user's subscription tier. Unknown users report
	// TierNone.
	Tier(ctx context.Context, userID string) (Tier, error)

	// IsAdministrator reports whether the user holds the administrator flag.
	IsAdministrator(ctx context.Context, userID string) (bool, error)
}

// StaticIdentityProvider is an in-memory IdentityProvider backed by a map.
// Useful for tests, CLIs and applications that resolve identity facts up
// front (e.g. from a session token).
type StaticIdentityProvider struct {
	mu     sync.RWMutex
	actors map[string]Actor
}

// NewStaticIdentityProvider creates a provider seeded with the given actors.
func NewStaticIdentityProvider(actors ...Actor) *StaticIdentityProvider {
	p := &StaticIdentityProvider{
		actors: make(map[string]Actor, len(actors)),
	}
	for _, a := range actors {
		p.actors[a.ID] = a
	}
	return p
}

// Set adds or replaces an actor's identity facts.
func (p *StaticIdentityProvider) Set(actor Actor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actors[actor.ID] = actor
}

// Remove forgets a user. Subsequent lookups see TierNone / not administrator.
func (p *StaticIdentityProvider) Remove(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.actors, userID)
}

// Tier implements IdentityProvider.
func (p *StaticIdentityProvider) Tier(_ context.Context, userID string) (Tier, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if a, ok := p.actors[userID]; ok {
		return a.Tier, nil
	}
	return TierNone, nil
}

// IsAdministrator implements IdentityProvider.
func (p *StaticIdentityProvider) IsAdministrator(_ context.Context, userID string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if a, ok := p.actors[userID]; ok {
		return a.Administrator, nil
	}
	return false, nil
}
