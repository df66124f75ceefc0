package router

import (
	"context"

	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/types"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
)

// Strategy decides where a question goes. A nil decision with a nil error
// means the strategy defers to the next one in the chain.
type Strategy interface {
	Name() string
	Route(ctx context.Context, question types.Question, rec *usage.Record) (*types.RoutingDecision, error)
}
