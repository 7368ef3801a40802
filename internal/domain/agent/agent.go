package agent

import "fmt"

// Agent is the static profile of one polled character. Profiles are loaded once
// from the registry and never change at runtime.
type Agent struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Persona     string `json:"persona" yaml:"persona"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Gender      string `json:"gender,omitempty" yaml:"gender,omitempty"`
}

// PersonaText is the character text fed to the inference provider. Generated
// personas win over the raw description they were derived from.
func (a Agent) PersonaText() string {
	if a.Persona != "" {
		return a.Persona
	}
	return a.Description
}

// Key is the registry key for an agent id, e.g. "character_0007".
func Key(id int) string {
	return fmt.Sprintf("character_%04d", id)
}

// State is the mutable per-poll state of an agent as persisted in the store.
type State struct {
	ID         int     `json:"id"`
	Transcript string  `json:"transcript"`
	Verdict    bool    `json:"verdict"`
	Intensity  float64 `json:"intensity"`
}

// DefaultState is the state every agent is reset to.
func DefaultState(id int) State {
	return State{ID: id}
}

func (s State) IsDefault() bool {
	return s.Transcript == "" && !s.Verdict && s.Intensity == 0
}
