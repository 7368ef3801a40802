package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	domainagent "github.com/charlietlamb/openai-hack/internal/domain/agent"
	"github.com/charlietlamb/openai-hack/internal/domain/event"
	portbus "github.com/charlietlamb/openai-hack/internal/port/eventbus"
	portlocker "github.com/charlietlamb/openai-hack/internal/port/locker"
	portregistry "github.com/charlietlamb/openai-hack/internal/port/registry"
	portstate "github.com/charlietlamb/openai-hack/internal/port/state"
)

// Service exposes agent profiles and their persisted state.
// [SRP] Read and reset only. Polls write state through the orchestrator.
type Service struct {
	registry portregistry.Registry
	store    portstate.Store
	bus      portbus.EventBus
	locker   portlocker.AdvisoryLocker
}

func NewService(registry portregistry.Registry, store portstate.Store, bus portbus.EventBus, locker portlocker.AdvisoryLocker) *Service {
	return &Service{registry: registry, store: store, bus: bus, locker: locker}
}

// GetState returns the stored state of one agent. A missing record wraps state.ErrNotFound.
func (s *Service) GetState(ctx context.Context, id int) (domainagent.State, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return domainagent.State{}, fmt.Errorf("get agent state: %w", err)
	}
	return st, nil
}

func (s *Service) ListStates(ctx context.Context) ([]domainagent.State, error) {
	states, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agent states: %w", err)
	}
	return states, nil
}

// ResetAll wipes every record, re-creates defaults for the whole registry and
// clears the question. It waits for a running poll to finish first.
func (s *Service) ResetAll(ctx context.Context) error {
	err := s.locker.WithLock(ctx, portlocker.PollKey, func(ctx context.Context) error {
		if err := s.store.ClearAll(ctx); err != nil {
			return err
		}
		for _, a := range s.registry.List() {
			if err := s.store.Initialize(ctx, a.ID); err != nil {
				return err
			}
		}
		return s.store.SetQuestion(ctx, "")
	})
	if err != nil {
		return fmt.Errorf("reset agents: %w", err)
	}

	slog.InfoContext(ctx, "agents reset", "count", s.registry.Size())
	if err := s.bus.Publish(ctx, event.New(event.TypeAgentsReset, uuid.Nil)); err != nil {
		slog.ErrorContext(ctx, "failed to publish AgentsReset event", "error", err)
	}
	return nil
}

func (s *Service) Profiles() []domainagent.Agent {
	return s.registry.List()
}

func (s *Service) Profile(id int) (domainagent.Agent, error) {
	a, err := s.registry.Get(id)
	if err != nil {
		return domainagent.Agent{}, fmt.Errorf("get profile: %w", err)
	}
	return a, nil
}

// Question returns the question of the last poll, or "" after a reset.
func (s *Service) Question(ctx context.Context) (string, error) {
	q, err := s.store.GetQuestion(ctx)
	if err != nil {
		return "", fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

// Population is the number of agents in the registry.
func (s *Service) Population() int {
	return s.registry.Size()
}
