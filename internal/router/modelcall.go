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

const routeSystemPrompt = `You are a routing classifier for a question answering service.
Given the capability summary below and a user question, answer with exactly one word:
"document" if the question is about the uploaded document,
"salesforce" if it is about Salesforce account or opportunity data,
"domo" if it is about Domo pod or health metrics,
"separate" if it needs more than one of these sources.
Answer with only that single word.

%s`

// ModelStrategy is the terminal classifier. It asks the hosted model to pick
// a specialist using a capability summary built from the configured dataset
// schemas. It never defers; an unrecognized reply means the question spans
// sources and must be asked separately.
type ModelStrategy struct {
	completion client.CompletionInterface
	summary    string
}

// NewModelStrategy builds the terminal strategy over the completion client
func NewModelStrategy(completion client.CompletionInterface, datasets []config.DatasetConfig) *ModelStrategy {
	return &ModelStrategy{
		completion: completion,
		summary:    BuildCapabilitySummary(datasets),
	}
}

// BuildCapabilitySummary renders a short routing-focused description of each
// backing dataset so the classifier can recognize in-scope questions
func BuildCapabilitySummary(datasets []config.DatasetConfig) string {
	var b strings.Builder
	b.WriteString("Available data sources:\n")
	b.WriteString("- document: the uploaded document corpus (implementation report, budget, lessons learned)\n")
	for _, d := range datasets {
		fmt.Fprintf(&b, "- %s.%s: %s\n", d.Dataset, d.Table, d.SchemaSummary)
	}
	return b.String()
}

func (s *ModelStrategy) Name() string {
	return "model"
}

// Route classifies via one model call. A transport failure surfaces as
// RouterUnavailableError rather than a silent default; wrong routing is
// worse than a visible failure.
func (s *ModelStrategy) Route(ctx context.Context, question types.Question, rec *usage.Record) (*types.RoutingDecision, error) {
	system := fmt.Sprintf(routeSystemPrompt, s.summary)
	reply, err := s.completion.Complete(ctx, "route.classify", system, question.Text, rec)
	if err != nil {
		return nil, &types.RouterUnavailableError{Err: err}
	}

	verdict := strings.ToLower(strings.TrimSpace(reply))
	verdict = strings.Trim(verdict, `."'`)

	switch verdict {
	case string(types.SpecialistDocument), string(types.SpecialistSalesforce), string(types.SpecialistDomo):
		return &types.RoutingDecision{
			Specialist: types.SpecialistID(verdict),
			Strategy:   s.Name(),
		}, nil
	case "separate":
		return &types.RoutingDecision{AskSeparately: true, Strategy: s.Name()}, nil
	default:
		logger.Warn("classifier returned unrecognized verdict", zap.String("verdict", verdict))
		return &types.RoutingDecision{AskSeparately: true, Strategy: s.Name()}, nil
	}
}
