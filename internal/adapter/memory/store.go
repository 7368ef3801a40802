package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domainagent "github.com/charlietlamb/openai-hack/internal/domain/agent"
	portstate "github.com/charlietlamb/openai-hack/internal/port/state"
)

var _ portstate.Store = (*Store)(nil)

// Store is an in-process state store. Each call holds the lock for its own
// duration only, matching the per-call atomicity of the networked stores.
type Store struct {
	mu       sync.RWMutex
	states   map[int]domainagent.State
	question string
}

func NewStore() *Store {
	return &Store{
		states: make(map[int]domainagent.State),
	}
}

func (s *Store) Initialize(_ context.Context, id int) error {
	s.mu.Lock()
	s.states[id] = domainagent.DefaultState(id)
	s.mu.Unlock()
	return nil
}

func (s *Store) Get(_ context.Context, id int) (domainagent.State, error) {
	s.mu.RLock()
	st, ok := s.states[id]
	s.mu.RUnlock()

	if !ok {
		return domainagent.State{}, fmt.Errorf("agent %d: %w", id, portstate.ErrNotFound)
	}
	return st, nil
}

func (s *Store) SetConversation(_ context.Context, id int, text string) error {
	s.update(id, func(st *domainagent.State) { st.Transcript = text })
	return nil
}

func (s *Store) SetVerdict(_ context.Context, id int, verdict bool) error {
	s.update(id, func(st *domainagent.State) { st.Verdict = verdict })
	return nil
}

func (s *Store) SetIntensity(_ context.Context, id int, intensity float64) error {
	s.update(id, func(st *domainagent.State) { st.Intensity = intensity })
	return nil
}

// update creates the record on first write, like HSET on a missing key.
func (s *Store) update(id int, fn func(*domainagent.State)) {
	s.mu.Lock()
	st, ok := s.states[id]
	if !ok {
		st = domainagent.DefaultState(id)
	}
	fn(&st)
	s.states[id] = st
	s.mu.Unlock()
}

func (s *Store) GetAll(_ context.Context) ([]domainagent.State, error) {
	s.mu.RLock()
	out := make([]domainagent.State, 0, len(s.states))
	for _, st := range s.states {
		out = append(out, st)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ClearAll(_ context.Context) error {
	s.mu.Lock()
	s.states = make(map[int]domainagent.State)
	s.mu.Unlock()
	return nil
}

func (s *Store) SetQuestion(_ context.Context, question string) error {
	s.mu.Lock()
	s.question = question
	s.mu.Unlock()
	return nil
}

func (s *Store) GetQuestion(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.question, nil
}
