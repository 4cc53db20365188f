package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/talenthive/hrbot-backend/internal/kvstore"
	"github.com/talenthive/hrbot-backend/internal/models"
)

const sessionKeyPrefix = "session:"

// SessionManager persists the conversation context per visitor id with
// an idle TTL, and hands out per-visitor locks so concurrent webhook
// calls from the same visitor cannot race on read-modify-write of the
// context.
type SessionManager struct {
	store      kvstore.Store
	sessionTTL time.Duration

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// NewSessionManager creates a session manager over the given keyed
// store. Sessions idle longer than 30 minutes expire.
func NewSessionManager(store kvstore.Store) *SessionManager {
	return &SessionManager{
		store:      store,
		sessionTTL: 30 * time.Minute,
		locks:      make(map[string]*sync.Mutex),
	}
}

// Lock serializes processing for one visitor. The returned func
// releases the lock.
func (sm *SessionManager) Lock(visitorID string) func() {
	sm.lockMu.Lock()
	mu, exists := sm.locks[visitorID]
	if !exists {
		mu = &sync.Mutex{}
		sm.locks[visitorID] = mu
	}
	sm.lockMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// Get returns the visitor's saved context, or nil when there is none.
func (sm *SessionManager) Get(ctx context.Context, visitorID string) *models.BotContext {
	raw, exists, err := sm.store.Get(ctx, sessionKeyPrefix+visitorID)
	if err != nil {
		log.Printf("Session lookup failed for %s: %v", visitorID, err)
		return nil
	}
	if !exists {
		return nil
	}

	var botCtx models.BotContext
	if err := json.Unmarshal([]byte(raw), &botCtx); err != nil {
		log.Printf("Corrupt session for %s, discarding: %v", visitorID, err)
		sm.Clear(ctx, visitorID)
		return nil
	}
	return &botCtx
}

// Set saves the visitor's context, refreshing the idle TTL.
func (sm *SessionManager) Set(ctx context.Context, visitorID string, botCtx *models.BotContext) error {
	raw, err := json.Marshal(botCtx)
	if err != nil {
		return err
	}
	return sm.store.Set(ctx, sessionKeyPrefix+visitorID, string(raw), sm.sessionTTL)
}

// Clear deletes the visitor's context.
func (sm *SessionManager) Clear(ctx context.Context, visitorID string) {
	if err := sm.store.Delete(ctx, sessionKeyPrefix+visitorID); err != nil {
		log.Printf("Session delete failed for %s: %v", visitorID, err)
	}
}
