package specialist

import (
	"context"
	"fmt"

	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/types"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
)

// Specialist turns one sub-question into a best-effort answer from its
// backing source. Implementations never treat an empty result as an error;
// the answer says so and carries empty fields.
type Specialist interface {
	ID() types.SpecialistID
	Answer(ctx context.Context, subQuestion string, rec *usage.Record) (*types.SpecialistAnswer, error)
}

// Registry is the specialist lookup keyed by identifier
type Registry struct {
	byID map[types.SpecialistID]Specialist
}

// NewRegistry registers the given specialists
func NewRegistry(specialists ...Specialist) *Registry {
	r := &Registry{byID: make(map[types.SpecialistID]Specialist, len(specialists))}
	for _, s := range specialists {
		r.byID[s.ID()] = s
	}
	return r
}

// Get returns the specialist for id
func (r *Registry) Get(id types.SpecialistID) (Specialist, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("no specialist registered for %q", id)
	}
	return s, nil
}
