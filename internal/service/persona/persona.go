// Package persona fills in names and personas for the character file offline.
package persona

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/sync/errgroup"

	portinference "github.com/charlietlamb/openai-hack/internal/port/inference"
	"github.com/charlietlamb/openai-hack/internal/retry"
)

const (
	DefaultAttempts    = 3
	DefaultConcurrency = 8

	instruction = "\n\nCreate a brief character profile with a name and a 2-3 sentence persona based on the description above."
	maxTokens   = 300
)

type Profile struct {
	Name    string `json:"name"`
	Persona string `json:"persona"`
}

// Fallback is stored for a character whose every attempt failed.
var Fallback = Profile{Name: "Unknown", Persona: "Character generation failed."}

// Source is the character file being completed.
type Source interface {
	Description(id int) (string, error)
	SetProfile(id int, name, persona string)
}

type Config struct {
	Attempts    int
	Concurrency int
	Temperature float64
}

type Service struct {
	provider portinference.Provider
	cfg      Config
	schema   *gojsonschema.Schema
}

// ProfileSchema is the wire schema sent to the provider. Strict structured
// outputs reject length keywords, so non-empty fields are enforced locally
// against profileDefinition.
func ProfileSchema() *portinference.Schema {
	return &portinference.Schema{
		Name:        "character_response",
		Description: "A character name and a short persona.",
		Definition:  profileObject(map[string]any{"type": "string"}),
	}
}

func profileDefinition() map[string]any {
	return profileObject(map[string]any{"type": "string", "minLength": 1})
}

func profileObject(field map[string]any) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":    field,
			"persona": field,
		},
		"required":             []any{"name", "persona"},
		"additionalProperties": false,
	}
}

func NewService(provider portinference.Provider, cfg Config) (*Service, error) {
	if cfg.Attempts < 1 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = DefaultConcurrency
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(profileDefinition()))
	if err != nil {
		return nil, fmt.Errorf("compiling profile schema: %w", err)
	}
	return &Service{provider: provider, cfg: cfg, schema: schema}, nil
}

// Generate asks for one profile, retrying malformed or failed answers and
// returning Fallback once attempts run out.
func (s *Service) Generate(ctx context.Context, description string) Profile {
	return retry.WithFallback(ctx, s.cfg.Attempts, Fallback, func(ctx context.Context) (Profile, error) {
		return s.attempt(ctx, description)
	})
}

func (s *Service) attempt(ctx context.Context, description string) (Profile, error) {
	out, err := s.provider.Complete(ctx, portinference.Request{
		Prompt:      description + instruction,
		Schema:      ProfileSchema(),
		MaxTokens:   maxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Profile{}, fmt.Errorf("generate profile: %w", err)
	}

	out = strings.TrimSpace(out)
	result, err := s.schema.Validate(gojsonschema.NewStringLoader(out))
	if err != nil {
		return Profile{}, fmt.Errorf("malformed profile: %w", err)
	}
	if !result.Valid() {
		return Profile{}, fmt.Errorf("non-conforming profile: %v", result.Errors())
	}

	var p Profile
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		return Profile{}, fmt.Errorf("decoding profile: %w", err)
	}
	return p, nil
}

// GenerateAll completes characters 1..count of src and reports how many fell
// back. src is only written after every profile is known.
func (s *Service) GenerateAll(ctx context.Context, src Source, count int) (fallbacks int, err error) {
	descriptions := make([]string, count)
	for id := 1; id <= count; id++ {
		d, err := src.Description(id)
		if err != nil {
			return 0, fmt.Errorf("read description: %w", err)
		}
		descriptions[id-1] = d
	}

	profiles := make([]Profile, count)
	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for id := 1; id <= count; id++ {
		g.Go(func() error {
			p := s.Generate(ctx, descriptions[id-1])
			profiles[id-1] = p
			slog.InfoContext(ctx, "profile generated", "agent_id", id, "name", p.Name)
			return nil
		})
	}
	_ = g.Wait()

	for i, p := range profiles {
		if p == Fallback {
			fallbacks++
		}
		src.SetProfile(i+1, p.Name, p.Persona)
	}
	return fallbacks, nil
}
