package registry

import (
	domainagent "github.com/charlietlamb/openai-hack/internal/domain/agent"
)

//go:generate mockgen -destination=../../mocks/mock_registry.go -package=mocks -mock_names=Registry=MockRegistry . Registry

// Registry is the fixed, read-only set of agent profiles.
// Ids are dense: 1..Size().
type Registry interface {
	// Get returns the profile for id, or an error wrapping poll.ErrUnknownAgent.
	Get(id int) (domainagent.Agent, error)
	// List returns every profile ordered by id.
	List() []domainagent.Agent
	Size() int
}
