// Package registry loads the fixed agent population from the character file.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	domainagent "github.com/charlietlamb/openai-hack/internal/domain/agent"
	"github.com/charlietlamb/openai-hack/internal/domain/poll"
	portregistry "github.com/charlietlamb/openai-hack/internal/port/registry"
)

var _ portregistry.Registry = (*Registry)(nil)

// Registry is an immutable, id-indexed set of profiles.
type Registry struct {
	agents []domainagent.Agent
}

// New builds a registry from profiles whose ids are exactly 1..len(agents).
func New(agents []domainagent.Agent) (*Registry, error) {
	byID := make([]domainagent.Agent, len(agents))
	for _, a := range agents {
		if a.ID < 1 || a.ID > len(agents) {
			return nil, fmt.Errorf("%w: id %d outside 1..%d", poll.ErrRegistryLoad, a.ID, len(agents))
		}
		if byID[a.ID-1].ID != 0 {
			return nil, fmt.Errorf("%w: duplicate id %d", poll.ErrRegistryLoad, a.ID)
		}
		byID[a.ID-1] = a
	}
	return &Registry{agents: byID}, nil
}

// Load reads path and keeps the first size characters. Every one of them must
// exist and carry persona text, otherwise the error wraps poll.ErrRegistryLoad.
func Load(path string, size int) (*Registry, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	agents, err := f.Agents(size)
	if err != nil {
		return nil, err
	}
	return New(agents)
}

func (r *Registry) Get(id int) (domainagent.Agent, error) {
	if id < 1 || id > len(r.agents) {
		return domainagent.Agent{}, fmt.Errorf("agent %d: %w", id, poll.ErrUnknownAgent)
	}
	return r.agents[id-1], nil
}

func (r *Registry) List() []domainagent.Agent {
	out := make([]domainagent.Agent, len(r.agents))
	copy(out, r.agents)
	return out
}

func (r *Registry) Size() int { return len(r.agents) }

// ── Character file ───────────────────────────────────────────────────────────

// File mirrors all-characters.json. Entries are kept as raw maps so that fields
// this service does not use (sprites, attributes) survive a rewrite.
type File struct {
	Version         any                       `json:"version" yaml:"version"`
	TotalCharacters int                       `json:"totalCharacters" yaml:"totalCharacters"`
	GeneratedAt     string                    `json:"generatedAt" yaml:"generatedAt"`
	Characters      map[string]map[string]any `json:"characters" yaml:"characters"`
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ReadFile decodes a character file, as YAML when the extension says so and as
// JSON otherwise.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", poll.ErrRegistryLoad, path, err)
	}
	f := &File{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, f)
	} else {
		err = json.Unmarshal(data, f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", poll.ErrRegistryLoad, path, err)
	}
	return f, nil
}

// Agents extracts profiles 1..size.
func (f *File) Agents(size int) ([]domainagent.Agent, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: size %d", poll.ErrRegistryLoad, size)
	}
	agents := make([]domainagent.Agent, 0, size)
	for id := 1; id <= size; id++ {
		key := domainagent.Key(id)
		entry, ok := f.Characters[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s missing", poll.ErrRegistryLoad, key)
		}
		a := domainagent.Agent{
			ID:          id,
			Name:        str(entry, "name"),
			Persona:     str(entry, "persona"),
			Description: str(entry, "description"),
			Gender:      str(entry, "gender"),
		}
		if strings.TrimSpace(a.PersonaText()) == "" {
			return nil, fmt.Errorf("%w: %s has no persona or description", poll.ErrRegistryLoad, key)
		}
		agents = append(agents, a)
	}
	return agents, nil
}

// SetProfile overwrites name and persona of one character.
func (f *File) SetProfile(id int, name, persona string) {
	if f.Characters == nil {
		f.Characters = make(map[string]map[string]any)
	}
	key := domainagent.Key(id)
	entry := f.Characters[key]
	if entry == nil {
		entry = map[string]any{}
		f.Characters[key] = entry
	}
	entry["name"] = name
	entry["persona"] = persona
}

// Description returns the raw description of one character.
func (f *File) Description(id int) (string, error) {
	entry, ok := f.Characters[domainagent.Key(id)]
	if !ok {
		return "", fmt.Errorf("agent %d: %w", id, poll.ErrUnknownAgent)
	}
	return str(entry, "description"), nil
}

// WriteFile encodes f to path, as YAML or JSON by extension.
func WriteFile(path string, f *File) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(f)
	} else {
		data, err = json.MarshalIndent(f, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding character file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing character file: %w", err)
	}
	return nil
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
