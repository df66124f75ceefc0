package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/compose"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/config"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/router"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/specialist"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/types"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
)

type stubSpecialist struct {
	id     types.SpecialistID
	answer *types.SpecialistAnswer
	calls  int
}

func (s *stubSpecialist) ID() types.SpecialistID { return s.id }

func (s *stubSpecialist) Answer(_ context.Context, _ string, rec *usage.Record) (*types.SpecialistAnswer, error) {
	s.calls++
	rec.AddWarehouse("warehouse.query", 1024)
	return s.answer, nil
}

func testRates() usage.RateTable {
	return usage.RateTable{
		ModelInputPer1MTokens:  1.25,
		ModelOutputPer1MTokens: 5.0,
		EmbeddingPer1KChars:    0.0002,
		RetrievalPerQuery:      0.0001,
		WarehousePerTB:         6.25,
	}
}

func newLogic(specialists ...specialist.Specialist) *TurnLogic {
	registry := specialist.NewRegistry(specialists...)
	r := router.NewRouterWithStrategies(router.NewKeywordStrategy(config.RoutingConfig{}))
	return NewTurnLogic(r, registry, compose.NewEngine(registry), testRates(), nil)
}

func TestProcess_SingleSpecialistTurn(t *testing.T) {
	sf := &stubSpecialist{id: types.SpecialistSalesforce, answer: &types.SpecialistAnswer{
		Specialist: types.SpecialistSalesforce,
		Narrative:  "Total ARR is $450,000.",
		Fields:     map[string]string{"total_arr": "450000"},
	}}
	logic := newLogic(sf)

	result, err := logic.Process(context.Background(),
		types.Question{Text: "What's the total ARR for ABC Capital?"})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.TurnID)
	assert.Equal(t, "Total ARR is $450,000.", result.Answer)
	assert.Equal(t, types.SpecialistSalesforce, result.Decision.Specialist)
	assert.Equal(t, 1, sf.calls)
	assert.Len(t, result.Summary.Lines, 1)
	assert.Greater(t, result.Summary.Total, 0.0)
}

func TestProcess_JoinTriggeredByPodID(t *testing.T) {
	sf := &stubSpecialist{id: types.SpecialistSalesforce, answer: &types.SpecialistAnswer{
		Specialist: types.SpecialistSalesforce,
		Narrative:  "ABC Capital snapshot.",
		Fields: map[string]string{
			"task_count":     "5",
			types.FieldPodID: "POD45",
		},
	}}
	domo := &stubSpecialist{id: types.SpecialistDomo, answer: &types.SpecialistAnswer{
		Specialist: types.SpecialistDomo,
		Narrative:  "Pod metrics.",
		Fields:     map[string]string{"health_score": "82.5", "risk_ratio": "0.18"},
	}}
	logic := newLogic(sf, domo)

	result, err := logic.Process(context.Background(),
		types.Question{Text: "Give me the commercial snapshot for ABC Capital"})

	assert.NoError(t, err)
	assert.Equal(t, 1, sf.calls)
	assert.Equal(t, 1, domo.calls)
	assert.Contains(t, result.Answer, "Health Score")
	// two specialist invocations, each one warehouse call
	assert.Len(t, result.Summary.Lines, 2)
}

func TestProcess_AskSeparatelyTerminates(t *testing.T) {
	sf := &stubSpecialist{id: types.SpecialistSalesforce}
	domo := &stubSpecialist{id: types.SpecialistDomo}
	logic := newLogic(sf, domo)

	result, err := logic.Process(context.Background(),
		types.Question{Text: "Compare the ARR with the pod health score"})

	assert.NoError(t, err)
	assert.Equal(t, types.AskSeparatelyReply, result.Answer)
	assert.Equal(t, 0, sf.calls)
	assert.Equal(t, 0, domo.calls)
	assert.Empty(t, result.Summary.Lines)
}

func TestProcess_HintedQuestionSkipsClassification(t *testing.T) {
	doc := &stubSpecialist{id: types.SpecialistDocument, answer: &types.SpecialistAnswer{
		Specialist: types.SpecialistDocument,
		Narrative:  "From the document.",
		Fields:     map[string]string{},
	}}
	logic := newLogic(doc)

	result, err := logic.Process(context.Background(),
		types.Question{Text: "summarize it", Hint: types.HintDocument})

	assert.NoError(t, err)
	assert.Equal(t, "hint", result.Decision.Strategy)
	assert.Equal(t, 1, doc.calls)
}
