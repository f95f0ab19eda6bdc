// Package session keeps per-chat conversation state for the bot.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/ytget/yt-grabber/internal/formats"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/progress"
)

var (
	// ErrNotFound is returned when the chat has no session
	ErrNotFound = errors.New("session not found")

	// ErrBusy is returned when an extraction or download is in flight for the chat
	ErrBusy = errors.New("session is busy")

	// ErrPending is returned when the chat already has an unanswered question
	ErrPending = errors.New("session has a pending question")

	// ErrStateMismatch is returned when a transition starts from the wrong state
	ErrStateMismatch = errors.New("session state mismatch")
)

// Session is the conversation state of one chat
type Session struct {
	ChatID    int64
	URL       string
	State     model.SessionState
	Title     string
	Duration  float64
	RequestID string

	// Catalog is only set while awaiting a format selection
	Catalog *formats.Catalog

	// Relay is the progress state of the running download
	Relay *progress.Relay

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store holds sessions keyed by chat id. Idle chats have no entry.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		now:      time.Now,
	}
}

// Get returns a copy of the chat's session
func (s *Store) Get(chatID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		return Session{ChatID: chatID, State: model.SessionStateIdle}, false
	}
	return *sess, true
}

// State returns the chat's current state, idle when there is no session
func (s *Store) State(chatID int64) model.SessionState {
	sess, _ := s.Get(chatID)
	return sess.State
}

// Begin opens a busy session for a newly accepted URL.
// It fails when the chat already has a session of any kind.
func (s *Store) Begin(chatID int64, url, requestID string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[chatID]; ok {
		if existing.State.IsBusy() {
			return *existing, ErrBusy
		}
		return *existing, ErrPending
	}

	now := s.now()
	sess := &Session{
		ChatID:    chatID,
		URL:       url,
		State:     model.SessionStateBusy,
		RequestID: requestID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[chatID] = sess
	return *sess, nil
}

// Transition moves the chat's session from one state to another, applying
// update to the stored session under the lock. The session is unchanged
// when its state is not from.
func (s *Store) Transition(chatID int64, from, to model.SessionState, update func(*Session)) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return Session{ChatID: chatID, State: model.SessionStateIdle}, ErrNotFound
	}
	if sess.State != from {
		return *sess, ErrStateMismatch
	}

	if update != nil {
		update(sess)
	}
	sess.State = to
	sess.UpdatedAt = s.now()
	return *sess, nil
}

// Remove deletes the chat's session, returning the chat to idle.
// It reports whether a session existed.
func (s *Store) Remove(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[chatID]
	delete(s.sessions, chatID)
	return ok
}

// RemovePending deletes the chat's session unless a call is in flight for it
func (s *Store) RemovePending(chatID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		return false, nil
	}
	if sess.State.IsBusy() {
		return false, ErrBusy
	}
	delete(s.sessions, chatID)
	return true, nil
}

// Len returns the number of non-idle chats
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
