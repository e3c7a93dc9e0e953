package metrics

import "sync"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered uint64
	LoginSuccesses  uint64
	LoginFailures   uint64
	AuthRequired    uint64
	EntitiesCreated map[string]uint64
	EntitiesUpdated map[string]uint64
	EntitiesDeleted map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu              sync.Mutex
	usersRegistered uint64
	loginSuccesses  uint64
	loginFailures   uint64
	authRequired    uint64
	entitiesCreated map[string]uint64
	entitiesUpdated map[string]uint64
	entitiesDeleted map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		entitiesCreated: make(map[string]uint64),
		entitiesUpdated: make(map[string]uint64),
		entitiesDeleted: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		UsersRegistered: m.usersRegistered,
		LoginSuccesses:  m.loginSuccesses,
		LoginFailures:   m.loginFailures,
		AuthRequired:    m.authRequired,
		EntitiesCreated: copyCounts(m.entitiesCreated),
		EntitiesUpdated: copyCounts(m.entitiesUpdated),
		EntitiesDeleted: copyCounts(m.entitiesDeleted),
	}
}

func (m *InMemoryRecorder) IncUserRegistered() {
	m.mu.Lock()
	m.usersRegistered++
	m.mu.Unlock()
}

func (m *InMemoryRecorder) IncLoginSuccess() {
	m.mu.Lock()
	m.loginSuccesses++
	m.mu.Unlock()
}

func (m *InMemoryRecorder) IncLoginFailure() {
	m.mu.Lock()
	m.loginFailures++
	m.mu.Unlock()
}

func (m *InMemoryRecorder) IncAuthRequired() {
	m.mu.Lock()
	m.authRequired++
	m.mu.Unlock()
}

func (m *InMemoryRecorder) IncEntityCreated(entity string) {
	m.mu.Lock()
	m.entitiesCreated[entity]++
	m.mu.Unlock()
}

func (m *InMemoryRecorder) IncEntityUpdated(entity string) {
	m.mu.Lock()
	m.entitiesUpdated[entity]++
	m.mu.Unlock()
}

func (m *InMemoryRecorder) IncEntityDeleted(entity string) {
	m.mu.Lock()
	m.entitiesDeleted[entity]++
	m.mu.Unlock()
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
