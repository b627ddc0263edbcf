package wizard

import "sync"

// Manager tracks open sessions keyed by upload id. Opening the same upload
// again refreshes the existing session in place; a different upload always
// starts fresh at the columns step.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

// Open returns the session for an upload, creating it when absent. An
// existing session keeps its step and filters its selection to the
// intersection with the given columns.
func (m *Manager) Open(uploadID, fileName string, columns []string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[uploadID]; ok {
		session.refresh(fileName, columns)
		return session
	}

	session := newSession(uploadID, fileName, columns)
	m.sessions[uploadID] = session
	return session
}

// Get returns the open session for an upload.
func (m *Manager) Get(uploadID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[uploadID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Close discards the session for an upload.
func (m *Manager) Close(uploadID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, uploadID)
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
