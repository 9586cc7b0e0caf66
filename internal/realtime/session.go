package realtime

import (
	"sync"
	"time"
)

// Session tracks what one connection is currently looking at: its owning
// user and, when a chat screen is open, the conversation partner. The
// partner decides whether an incoming message counts as unread.
type Session struct {
	ID           string
	UserID       string
	JoinedAt     time.Time
	partnerID    string
	lastActiveAt time.Time
	mu           sync.RWMutex
}

// NewSession creates a session for a freshly upgraded connection.
func NewSession(id, userID string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		UserID:       userID,
		JoinedAt:     now,
		lastActiveAt: now,
	}
}

// OpenConversation records that the viewer navigated into the chat screen
// with partnerID.
func (s *Session) OpenConversation(partnerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partnerID = partnerID
	s.lastActiveAt = time.Now()
}

// CloseConversation records that the viewer left the chat screen.
func (s *Session) CloseConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partnerID = ""
	s.lastActiveAt = time.Now()
}

// CurrentPartner returns the partner of the currently open conversation, or
// empty when no chat screen is open.
func (s *Session) CurrentPartner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partnerID
}

// HasOpen reports whether the conversation with partnerID is open.
func (s *Session) HasOpen(partnerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partnerID != "" && s.partnerID == partnerID
}

// Touch updates the last-activity timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActiveAt = time.Now()
}

// LastActiveAt returns the last-activity timestamp.
func (s *Session) LastActiveAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActiveAt
}
