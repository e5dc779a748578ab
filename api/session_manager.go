package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/arrowslasharrow/tasm/compiler"
	"github.com/arrowslasharrow/tasm/config"
	"github.com/arrowslasharrow/tasm/diag"
	"github.com/arrowslasharrow/tasm/lexer"
	"github.com/arrowslasharrow/tasm/namespace"
	"github.com/arrowslasharrow/tasm/object"
	"github.com/arrowslasharrow/tasm/sim"
)

var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
)

// Session pairs a running simulator with the bookkeeping the API needs
// to address it over HTTP and broadcast its ticks.
type Session struct {
	ID        string
	Sim       *sim.Simulator
	CreatedAt time.Time

	mu sync.Mutex
}

// SessionManager owns every live session, keyed by a random id.
type SessionManager struct {
	sessions    map[string]*Session
	broadcaster *Broadcaster
	mu          sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
	}
}

// CreateSession lexes and compiles the given source, then builds a
// simulator over the resulting namespace. Lex or compile diagnostics are
// returned only when that stage fails, with a nil session and an error;
// on success the diagnostics slice is nil.
func (sm *SessionManager) CreateSession(req SessionCreateRequest, cfg config.Config) (*Session, []string, error) {
	ns, lexDiags := lexer.Lex(req.Source, cfg)
	if lexDiags.HasErrors() {
		return nil, diagStrings(lexDiags), errors.New("lex failed")
	}

	compileDiags := compiler.NewDriver(cfg).Compile(ns, &object.SliceSink{})
	if compileDiags.HasErrors() {
		return nil, diagStrings(compileDiags), errors.New("compile failed")
	}

	wire := namespace.FromCompiled(ns)
	machine, err := sim.NewSimulator(wire, cfg)
	if err != nil {
		return nil, nil, err
	}

	sessionID, err := generateSessionID()
	if err != nil {
		return nil, nil, err
	}

	session := &Session{
		ID:        sessionID,
		Sim:       machine,
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[sessionID] = session

	return session, nil, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}
	delete(sm.sessions, sessionID)
	return nil
}

// ListSessions returns every live session id.
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func diagStrings(d diag.Diagnostics) []string {
	out := make([]string, 0, len(d.Items))
	for _, item := range d.Items {
		out = append(out, item.Error())
	}
	return out
}

func generateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
