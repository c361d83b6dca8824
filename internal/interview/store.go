package interview

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bfortuner/prompt-playground/internal/models"
)

// ErrSessionNotFound is returned when a session id is unknown or expired
var ErrSessionNotFound = errors.New("session not found")

const greeting = "Hi, how are you doing today?"

// Store keeps interview sessions in memory. Sessions idle longer than
// the TTL are removed by the janitor. Reads return copies, so callers
// never share transcript slices with the store.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	ttl      time.Duration
	logger   *zerolog.Logger
}

func NewStore(ttl time.Duration, logger *zerolog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*models.Session),
		ttl:      ttl,
		logger:   logger,
	}
}

// Create starts a new session. The transcript opens with the
// interviewer's greeting.
func (s *Store) Create(resume, question string, params models.ModelParams) models.Session {
	now := time.Now()
	session := &models.Session{
		ID:       newSessionID(),
		Resume:   resume,
		Question: question,
		Params:   params,
		Transcript: []models.Turn{
			{Role: models.RoleInterviewer, Text: greeting},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Info().Str("sessionID", session.ID).Msg("session created")
	return copySession(session)
}

func (s *Store) Get(id string) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}
	return copySession(session), nil
}

// AppendTurn adds a turn to the session transcript and returns the
// updated session.
func (s *Store) AppendTurn(id string, turn models.Turn) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}

	session.Transcript = append(session.Transcript, turn)
	session.UpdatedAt = time.Now()
	return copySession(session), nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle past the TTL and reports how many were
// dropped.
func (s *Store) Sweep() int {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.logger.Info().Int("removed", removed).Msg("expired sessions swept")
			}
		}
	}
}

func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

func copySession(session *models.Session) models.Session {
	out := *session
	out.Transcript = make([]models.Turn, len(session.Transcript))
	copy(out.Transcript, session.Transcript)
	return out
}
