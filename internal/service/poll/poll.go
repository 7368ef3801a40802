package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/charlietlamb/openai-hack/internal/adapter/tracer"
	"github.com/charlietlamb/openai-hack/internal/domain/event"
	"github.com/charlietlamb/openai-hack/internal/domain/poll"
	portbus "github.com/charlietlamb/openai-hack/internal/port/eventbus"
	portinference "github.com/charlietlamb/openai-hack/internal/port/inference"
	portlocker "github.com/charlietlamb/openai-hack/internal/port/locker"
	portregistry "github.com/charlietlamb/openai-hack/internal/port/registry"
	portstate "github.com/charlietlamb/openai-hack/internal/port/state"
)

// Task outcome labels reported to the Recorder.
const (
	OutcomeAnswered     = "answered"
	OutcomeUnknownAgent = "unknown_agent"
	OutcomeInference    = "inference_failed"
	OutcomeStoreWrite   = "store_failed"
)

// Recorder receives poll and task counters. *metrics.Metrics satisfies it.
type Recorder interface {
	PollSettled(d time.Duration)
	PollRejected()
	TaskStarted()
	TaskFinished(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) PollSettled(time.Duration) {}
func (nopRecorder) PollRejected()             {}
func (nopRecorder) TaskStarted()              {}
func (nopRecorder) TaskFinished(string)       {}

type Config struct {
	// MaxConcurrency bounds agent tasks in flight. <= 0 means poll.DefaultMaxConcurrency.
	MaxConcurrency int
	// Introduction is the fixed scene-setting text sent with every persona.
	Introduction string
}

// Service is the poll orchestrator: it fans one question out to every agent,
// persists each answer as it lands and tallies once all tasks have settled.
// [DIP] Depends on ports only; the provider, store and bus are injected.
type Service struct {
	registry portregistry.Registry
	store    portstate.Store
	client   portinference.Client
	bus      portbus.EventBus
	locker   portlocker.AdvisoryLocker
	cfg      Config
	rec      Recorder
}

func NewService(
	registry portregistry.Registry,
	store portstate.Store,
	client portinference.Client,
	bus portbus.EventBus,
	locker portlocker.AdvisoryLocker,
	cfg Config,
	rec Recorder,
) *Service {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = poll.DefaultMaxConcurrency
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{
		registry: registry,
		store:    store,
		client:   client,
		bus:      bus,
		locker:   locker,
		cfg:      cfg,
		rec:      rec,
	}
}

// RunPoll asks agents 1..population the question and returns the tally.
//
// Individual task failures never fail the poll: they are logged, published and
// counted as "no". The batch runs detached from ctx cancellation, so a caller
// that goes away does not abort tasks already dispatched. Polls are serialised
// through the advisory locker.
func (s *Service) RunPoll(ctx context.Context, question string, population int) (poll.Summary, error) {
	if population < 1 {
		s.rec.PollRejected()
		return poll.Summary{}, fmt.Errorf("run poll with population %d: %w", population, poll.ErrInvalidPopulation)
	}

	ctx = context.WithoutCancel(ctx)
	var summary poll.Summary
	err := s.locker.WithLock(ctx, portlocker.PollKey, func(ctx context.Context) error {
		var err error
		summary, err = s.run(ctx, question, population)
		return err
	})
	if err != nil {
		return poll.Summary{}, fmt.Errorf("run poll: %w", err)
	}
	return summary, nil
}

func (s *Service) run(ctx context.Context, question string, population int) (_ poll.Summary, err error) {
	pollID := uuid.New()
	start := time.Now()

	ctx, span := tracer.StartSpan(ctx, "poll.run",
		attribute.String("poll_id", pollID.String()),
		attribute.Int("population", population),
		attribute.Int("max_concurrency", s.cfg.MaxConcurrency),
	)
	defer func() { tracer.End(span, err) }()

	logPhase(ctx, pollID, poll.PhaseNotStarted)
	if err := s.store.SetQuestion(ctx, question); err != nil {
		return poll.Summary{}, fmt.Errorf("%w: set question: %w", poll.ErrStoreWrite, err)
	}
	s.publish(ctx, event.New(event.TypePollStarted, pollID))

	// Each task owns exactly one slot; nothing reads the slice until Wait returns.
	outcomes := make([]poll.Outcome, population)

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrency)

	logPhase(ctx, pollID, poll.PhaseDispatching)
	for id := 1; id <= population; id++ {
		g.Go(func() error {
			outcomes[id-1] = s.runTask(ctx, pollID, id, question)
			return nil
		})
	}

	logPhase(ctx, pollID, poll.PhaseCollecting)
	_ = g.Wait()

	yes, no, avg := poll.Tally(outcomes, population)
	summary := poll.Summary{
		PollID:           pollID,
		Question:         question,
		YesCount:         yes,
		NoCount:          no,
		Total:            population,
		AverageIntensity: avg,
	}

	logPhase(ctx, pollID, poll.PhaseSettled)
	slog.InfoContext(ctx, "poll settled",
		"poll_id", pollID,
		"yes", yes,
		"no", no,
		"total", population,
		"average_intensity", avg,
		"duration", time.Since(start),
	)
	s.rec.PollSettled(time.Since(start))
	s.publish(ctx, event.New(event.TypePollSettled, pollID))

	return summary, nil
}

func (s *Service) runTask(ctx context.Context, pollID uuid.UUID, id int, question string) poll.Outcome {
	s.rec.TaskStarted()

	ctx, span := tracer.StartSpan(ctx, "poll.agent",
		attribute.String("poll_id", pollID.String()),
		attribute.Int("agent_id", id),
	)
	v, err := s.ask(ctx, id, question)
	tracer.End(span, err)

	label := outcomeLabel(err)
	s.rec.TaskFinished(label)

	switch label {
	case OutcomeAnswered:
		slog.InfoContext(ctx, "agent answered", "poll_id", pollID, "agent_id", id, "verdict", v.Verdict, "intensity", v.Intensity)
		s.publish(ctx, event.ForAgent(event.TypeAgentAnswered, pollID, id))
	case OutcomeStoreWrite:
		slog.ErrorContext(ctx, "store write failed", "poll_id", pollID, "agent_id", id, "error", err)
		s.publish(ctx, event.ForAgent(event.TypeAgentFailed, pollID, id))
	default:
		slog.WarnContext(ctx, "agent task failed", "poll_id", pollID, "agent_id", id, "outcome", label, "error", err)
		s.publish(ctx, event.ForAgent(event.TypeAgentFailed, pollID, id))
	}

	return poll.Outcome{AgentID: id, Verdict: v, Err: err}
}

// ask runs one agent end to end: lookup, conversation, then the three state
// writes in order. Nothing is written unless the conversation succeeded.
func (s *Service) ask(ctx context.Context, id int, question string) (poll.Verdict, error) {
	a, err := s.registry.Get(id)
	if err != nil {
		return poll.Verdict{}, err
	}

	v, err := s.client.Converse(ctx, a.PersonaText(), s.cfg.Introduction, question)
	if err != nil {
		return poll.Verdict{}, fmt.Errorf("agent %d: %w", id, err)
	}

	if err := s.persist(ctx, id, v); err != nil {
		return poll.Verdict{}, fmt.Errorf("%w: agent %d: %w", poll.ErrStoreWrite, id, err)
	}
	return v, nil
}

func (s *Service) persist(ctx context.Context, id int, v poll.Verdict) error {
	if err := s.store.SetConversation(ctx, id, v.Response); err != nil {
		return fmt.Errorf("set transcript: %w", err)
	}
	if err := s.store.SetVerdict(ctx, id, v.Verdict); err != nil {
		return fmt.Errorf("set verdict: %w", err)
	}
	if err := s.store.SetIntensity(ctx, id, v.Intensity); err != nil {
		return fmt.Errorf("set intensity: %w", err)
	}
	return nil
}

// Converse asks a single agent directly. The answer is persisted like a poll
// answer, but errors go back to the caller. It shares the poll lock, so it
// waits for a running poll or reset to finish.
func (s *Service) Converse(ctx context.Context, id int, message string) (poll.Reply, error) {
	ctx, span := tracer.StartSpan(ctx, "poll.converse", attribute.Int("agent_id", id))
	var v poll.Verdict
	err := s.locker.WithLock(ctx, portlocker.PollKey, func(ctx context.Context) error {
		var err error
		v, err = s.ask(ctx, id, message)
		return err
	})
	tracer.End(span, err)
	if err != nil {
		return poll.Reply{}, fmt.Errorf("converse: %w", err)
	}
	return poll.Reply{AgentID: id, Message: message, Verdict: v}, nil
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.bus.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", "type", e.Type, "poll_id", e.PollID, "error", err)
	}
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return OutcomeAnswered
	case errors.Is(err, poll.ErrStoreWrite):
		return OutcomeStoreWrite
	case errors.Is(err, poll.ErrUnknownAgent):
		return OutcomeUnknownAgent
	default:
		return OutcomeInference
	}
}

func logPhase(ctx context.Context, pollID uuid.UUID, phase poll.Phase) {
	slog.DebugContext(ctx, "poll phase", "poll_id", pollID, "phase", phase)
}
