package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Factory constructs the agent and tool client for a new session.
type Factory func(ctx context.Context) (Agent, ToolClient, error)

// SessionStore owns the process-wide mapping from session identifier to
// Session. Entries live until explicitly deleted; there is no expiry.
type SessionStore struct {
	cache   *cache.Cache
	factory Factory
}

func NewSessionStore(factory Factory) *SessionStore {
	// NoExpiration with no janitor: sessions are only removed by Delete.
	c := cache.New(cache.NoExpiration, 0)
	return &SessionStore{
		cache:   c,
		factory: factory,
	}
}

// GetOrCreate returns the existing session for sessionID if present.
// Otherwise it builds a new session via the factory, keyed by sessionID (or a
// fresh uuid when empty), inserts it and returns it. A factory failure is
// wrapped in SessionInitError and no entry is inserted.
func (r *SessionStore) GetOrCreate(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID != "" {
		if x, found := r.cache.Get(sessionID); found {
			return x.(*Session), nil
		}
	}

	id := sessionID
	if id == "" {
		id = uuid.NewString()
	}

	agent, client, err := r.factory(ctx)
	if err != nil {
		return nil, &SessionInitError{Err: err}
	}

	session := &Session{
		ID:     id,
		Agent:  agent,
		Client: client,
	}
	r.cache.Set(id, session, cache.DefaultExpiration)

	return session, nil
}

// Get is a pure lookup.
func (r *SessionStore) Get(sessionID string) (*Session, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*Session), nil
	}
	return nil, ErrSessionNotFound
}

// Delete closes the session's tool connections and removes the entry. A close
// failure is reported as ReleaseError but the entry is removed regardless:
// leaking client-side connections beats a permanently stuck session.
func (r *SessionStore) Delete(sessionID string) error {
	session, err := r.Get(sessionID)
	if err != nil {
		return err
	}

	var releaseErr error
	if session.Client != nil {
		if err := session.Client.Close(); err != nil {
			releaseErr = &ReleaseError{Err: err}
		}
	}

	r.cache.Delete(sessionID)
	return releaseErr
}

// Clear resets the session's transcript and the agent's remembered context.
func (r *SessionStore) Clear(sessionID string) error {
	session, err := r.Get(sessionID)
	if err != nil {
		return err
	}
	session.Reset()
	return nil
}
