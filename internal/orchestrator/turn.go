package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/compose"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/logger"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/metrics"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/router"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/specialist"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/types"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
	"go.uber.org/zap"
)

// TurnResult is everything one question turn produces
type TurnResult struct {
	TurnID   string               `json:"turnId"`
	Decision *types.RoutingDecision `json:"decision"`
	Answer   string               `json:"answer"`
	Summary  usage.PricedSummary  `json:"summary"`
}

// TurnLogic drives one question through route, answer, join, and pricing.
// The whole flow is sequential; the only ordered dependency is the join's
// secondary lookup needing the primary's output.
type TurnLogic struct {
	router   *router.Router
	registry *specialist.Registry
	composer *compose.Engine
	rates    usage.RateTable
	metrics  *metrics.Service
}

// NewTurnLogic wires the per-turn pipeline
func NewTurnLogic(
	r *router.Router,
	registry *specialist.Registry,
	composer *compose.Engine,
	rates usage.RateTable,
	m *metrics.Service,
) *TurnLogic {
	return &TurnLogic{
		router:   r,
		registry: registry,
		composer: composer,
		rates:    rates,
		metrics:  m,
	}
}

// Process answers one question end to end
func (l *TurnLogic) Process(ctx context.Context, question types.Question) (*TurnResult, error) {
	start := time.Now()
	turnID := uuid.NewString()
	rec := usage.NewRecord()

	decision, err := l.router.Route(ctx, question, rec)
	if err != nil {
		l.metrics.RecordError("router_unavailable")
		return nil, err
	}

	result := &TurnResult{TurnID: turnID, Decision: decision}

	if decision.AskSeparately {
		result.Answer = types.AskSeparatelyReply
		result.Summary = usage.Summarize(rec, l.rates)
		l.metrics.RecordTurn("ask_separately", rec, time.Since(start))
		l.logTurn(turnID, question, decision, rec, start)
		return result, nil
	}

	sp, err := l.registry.Get(decision.Specialist)
	if err != nil {
		l.metrics.RecordError("unknown_specialist")
		return nil, err
	}

	answer, err := sp.Answer(ctx, question.Text, rec)
	if err != nil {
		l.metrics.RecordError(string(types.SpecialistErrKind(err)))
		return nil, err
	}

	if l.composer.ShouldCompose(answer) {
		composite, err := l.composer.Compose(ctx, answer, rec)
		if err != nil {
			l.metrics.RecordError("compose_failed")
			return nil, err
		}
		result.Answer = composite.FinalText
	} else {
		result.Answer = answer.Narrative
	}

	result.Summary = usage.Summarize(rec, l.rates)
	l.metrics.RecordTurn(string(decision.Specialist), rec, time.Since(start))
	l.logTurn(turnID, question, decision, rec, start)
	return result, nil
}

func (l *TurnLogic) logTurn(turnID string, question types.Question, decision *types.RoutingDecision, rec *usage.Record, start time.Time) {
	logger.Info("turn completed",
		zap.String("turn_id", turnID),
		zap.Int("question_chars", len(question.Text)),
		zap.String("strategy", decision.Strategy),
		zap.String("specialist", string(decision.Specialist)),
		zap.Bool("ask_separately", decision.AskSeparately),
		zap.Int("external_calls", rec.Len()),
		zap.Duration("elapsed", time.Since(start)))
}
