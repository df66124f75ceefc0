package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/client"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/config"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/logger"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/types"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
	"go.uber.org/zap"
)

// Router classifies a question into exactly one specialist or the terminal
// ask-separately state. Strategies run in order; the first non-nil decision
// wins and the chain ends in a strategy that never defers.
type Router struct {
	strategies []Strategy
}

// NewRouter assembles the default two-tier chain: keyword match first, model
// classification as the terminal fallback
func NewRouter(cfg config.RoutingConfig, completion client.CompletionInterface, datasets []config.DatasetConfig) *Router {
	return &Router{
		strategies: []Strategy{
			NewKeywordStrategy(cfg),
			NewModelStrategy(completion, datasets),
		},
	}
}

// NewRouterWithStrategies builds a router over an explicit chain
func NewRouterWithStrategies(strategies ...Strategy) *Router {
	return &Router{strategies: strategies}
}

// Route decides where the question goes. A precomputed hint short-circuits
// the chain entirely.
func (r *Router) Route(ctx context.Context, question types.Question, rec *usage.Record) (*types.RoutingDecision, error) {
	if strings.TrimSpace(question.Text) == "" {
		return nil, fmt.Errorf("question text cannot be empty")
	}

	if question.Hint != types.HintNone && question.Hint != "" {
		return &types.RoutingDecision{
			Specialist: types.SpecialistID(question.Hint),
			Strategy:   "hint",
		}, nil
	}

	for _, s := range r.strategies {
		decision, err := s.Route(ctx, question, rec)
		if err != nil {
			return nil, err
		}
		if decision != nil {
			logger.Info("question routed",
				zap.String("strategy", decision.Strategy),
				zap.String("specialist", string(decision.Specialist)),
				zap.Bool("ask_separately", decision.AskSeparately))
			return decision, nil
		}
	}
	return nil, fmt.Errorf("no routing strategy produced a decision")
}
