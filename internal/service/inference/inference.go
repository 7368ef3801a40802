package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel/attribute"

	"github.com/charlietlamb/openai-hack/internal/adapter/tracer"
	"github.com/charlietlamb/openai-hack/internal/domain/poll"
	"github.com/charlietlamb/openai-hack/internal/domain/prompt"
	portinference "github.com/charlietlamb/openai-hack/internal/port/inference"
)

// Strategy selects how the second-stage answer is turned into a verdict.
type Strategy string

const (
	// StrategyStructured asks for schema-constrained JSON.
	StrategyStructured Strategy = "structured"
	// StrategyLegacy asks for free text and looks for "yes" near its end.
	StrategyLegacy Strategy = "legacy"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case "", StrategyStructured:
		return StrategyStructured, nil
	case StrategyLegacy:
		return StrategyLegacy, nil
	default:
		return "", fmt.Errorf("unknown inference strategy %q", s)
	}
}

const (
	DefaultTimeout = 60 * time.Second

	maxTokens = 150
	// structuredMaxTokens leaves room for the JSON envelope around a full reply;
	// a truncated object fails validation.
	structuredMaxTokens = 400
	temperature         = 0.8
	// legacyTail is how many trailing characters of a free-text answer are searched.
	legacyTail = 60

	StageReply   = "reply"
	StageVerdict = "verdict"
)

// Observer receives the duration of every provider call.
type Observer interface {
	InferenceObserved(stage string, d time.Duration)
}

type Config struct {
	Strategy Strategy
	// Timeout bounds each provider call separately.
	Timeout   time.Duration
	Templates prompt.Templates
	Observer  Observer
}

var _ portinference.Client = (*Service)(nil)

// Service implements the two-stage conversation on top of a single-call provider.
type Service struct {
	provider portinference.Provider
	cfg      Config
	schema   *gojsonschema.Schema
}

// VerdictSchema is the structured answer requested in the second stage.
func VerdictSchema() *portinference.Schema {
	return &portinference.Schema{
		Name:        "character_verdict",
		Description: "The character's in-voice answer and its yes/no decision with how strongly they feel about it.",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"response": map[string]any{
					"type":        "string",
					"description": "The character's answer, in their own voice.",
				},
				"verdict": map[string]any{
					"type":        "boolean",
					"description": "True for yes, false for no.",
				},
				"intensity": map[string]any{
					"type":        "number",
					"description": "How strongly the character holds the verdict, from 0 to 1.",
				},
			},
			"required":             []any{"response", "verdict", "intensity"},
			"additionalProperties": false,
		},
	}
}

func NewService(provider portinference.Provider, cfg Config) (*Service, error) {
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyStructured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(VerdictSchema().Definition))
	if err != nil {
		return nil, fmt.Errorf("compiling verdict schema: %w", err)
	}
	return &Service{provider: provider, cfg: cfg, schema: schema}, nil
}

func (s *Service) Converse(ctx context.Context, persona, introduction, question string) (poll.Verdict, error) {
	opening := prompt.Opening(persona, introduction)
	reply, err := s.complete(ctx, StageReply, portinference.Request{
		Prompt:      opening,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return poll.Verdict{}, fmt.Errorf("%w: opening exchange: %w", poll.ErrInference, err)
	}

	req := portinference.Request{
		Prompt:      s.cfg.Templates.Question(persona, introduction, reply, question),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	if s.cfg.Strategy == StrategyStructured {
		req.Schema = VerdictSchema()
		req.MaxTokens = structuredMaxTokens
	}
	answer, err := s.complete(ctx, StageVerdict, req)
	if err != nil {
		return poll.Verdict{}, fmt.Errorf("%w: asking question: %w", poll.ErrInference, err)
	}

	if s.cfg.Strategy == StrategyLegacy {
		return legacyVerdict(answer), nil
	}
	v, err := s.decode(answer)
	if err != nil {
		return poll.Verdict{}, fmt.Errorf("%w: %w", poll.ErrInference, err)
	}
	return v, nil
}

func (s *Service) complete(ctx context.Context, stage string, req portinference.Request) (out string, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	ctx, span := tracer.StartSpan(ctx, "inference."+stage,
		attribute.String("provider", s.provider.Name()),
		attribute.Bool("structured", req.Schema != nil),
	)
	defer func() { tracer.End(span, err) }()

	start := time.Now()
	out, err = s.provider.Complete(ctx, req)
	if s.cfg.Observer != nil {
		s.cfg.Observer.InferenceObserved(stage, time.Since(start))
	}
	return out, err
}

func (s *Service) decode(raw string) (poll.Verdict, error) {
	body := stripFence(raw)
	result, err := s.schema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return poll.Verdict{}, fmt.Errorf("malformed structured output: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return poll.Verdict{}, fmt.Errorf("non-conforming structured output: %s", strings.Join(msgs, "; "))
	}

	var v poll.Verdict
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return poll.Verdict{}, fmt.Errorf("decoding structured output: %w", err)
	}
	if v.Intensity < 0 || v.Intensity > 1 {
		return poll.Verdict{}, fmt.Errorf("intensity %v outside [0,1]", v.Intensity)
	}
	return v, nil
}

// stripFence removes a ```json fence some providers put around JSON.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func legacyVerdict(answer string) poll.Verdict {
	tail := []rune(answer)
	if len(tail) > legacyTail {
		tail = tail[len(tail)-legacyTail:]
	}
	t := string(tail)
	return poll.Verdict{
		Response: answer,
		Verdict:  strings.Contains(t, "yes") || strings.Contains(t, "Yes"),
	}
}
