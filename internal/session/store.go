// Package session tracks generation sessions: the raw model text streamed
// during the current round, plus the file list committed across rounds.
// The parser itself is stateless; this store is the caller that retains the
// previous file list and feeds it back through the merge on every round.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ingenio_ai_server/internal/parser"
	"ingenio_ai_server/internal/types"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one generation conversation. Files holds the result of all
// completed rounds; buffer accumulates the raw text of the round in flight.
type Session struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Files  []types.GeneratedFile `json:"files"`
	buffer strings.Builder
}

// Snapshot is the session state as the UI should render it: committed files
// overlaid with whatever the current round has produced so far, plus the
// file still being streamed, if any.
type Snapshot struct {
	SessionID   string                `json:"sessionId"`
	Files       []types.GeneratedFile `json:"files"`
	CurrentFile *types.GeneratedFile  `json:"currentFile"`
}

// Store is an in-memory session registry. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session and returns its ID.
func (s *Store) Create(prompt string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	sess := &Session{
		ID:        uuid.New().String(),
		Prompt:    prompt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[sess.ID] = sess
	return sess
}

// AppendChunk adds newly received model text to the session's current round
// and returns the refreshed snapshot. The full accumulated round text is
// re-parsed on every call; the parser sorts out which blocks are complete.
func (s *Store) AppendChunk(id, chunk string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	sess.buffer.WriteString(chunk)
	sess.UpdatedAt = time.Now()
	return s.snapshotLocked(sess), nil
}

// Snapshot returns the current view of a session without modifying it.
func (s *Store) Snapshot(id string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	return s.snapshotLocked(sess), nil
}

// CompleteRound commits the current round: everything parsed from the round
// buffer is merged into the session's file list (untouched files survive,
// re-emitted files are replaced) and the buffer is reset for the next round.
func (s *Store) CompleteRound(id string) ([]types.GeneratedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	result := parser.ParseFilesFromResponse(sess.buffer.String())
	sess.Files = parser.MergeGeneratedFiles(sess.Files, result.Files)
	sess.buffer.Reset()
	sess.UpdatedAt = time.Now()
	return sess.Files, nil
}

// Get returns the session record itself.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes a session. Deleting an unknown ID is not an error.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) snapshotLocked(sess *Session) Snapshot {
	result := parser.ParseFilesFromResponse(sess.buffer.String())
	return Snapshot{
		SessionID:   sess.ID,
		Files:       parser.MergeGeneratedFiles(sess.Files, result.Files),
		CurrentFile: result.CurrentFile,
	}
}
