package specialist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/client"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/config"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/types"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/warehouse"
)

// fakeCompletion scripts replies keyed by call label and records each call
// like the real client does, so usage accounting stays one entry per call
type fakeCompletion struct {
	replies map[string]string
	err     error
	calls   int
}

func (f *fakeCompletion) Complete(_ context.Context, label, _, _ string, rec *usage.Record) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls++
	rec.AddModelCall(label, 100, 20)
	if reply, ok := f.replies[label]; ok {
		return reply, nil
	}
	return "generated narrative", nil
}

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string, rec *usage.Record) ([]float64, error) {
	f.calls++
	rec.AddEmbedding("embed", len(text))
	return []float64{0.1, 0.2, 0.3}, nil
}

// fakeVector returns scripted neighbor lists per filter tag
type fakeVector struct {
	byFilter map[string][]client.Neighbor
	calls    int
}

func (f *fakeVector) Search(_ context.Context, req client.VectorSearchRequest, rec *usage.Record) ([]client.Neighbor, error) {
	f.calls++
	rec.AddRetrieval("vector.search")
	return f.byFilter[req.FilterTag], nil
}

type fakeStore struct {
	chunks map[string]string
}

func (f *fakeStore) Get(_ context.Context, id string) (string, bool, error) {
	text, ok := f.chunks[id]
	return text, ok, nil
}

// fakeEngine scripts one result and counts executions; it rejects unsafe
// text the same way the real engine does
type fakeEngine struct {
	results []*warehouse.QueryResult
	queries []string
	err     error
}

func (f *fakeEngine) ExecuteReadOnly(_ context.Context, query string, rec *usage.Record) (*warehouse.QueryResult, error) {
	if err := warehouse.EnsureReadOnly(query); err != nil {
		return nil, err
	}
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	var result *warehouse.QueryResult
	if len(f.results) > 0 {
		result = f.results[0]
		if len(f.results) > 1 {
			f.results = f.results[1:]
		}
	} else {
		result = &warehouse.QueryResult{}
	}
	rec.AddWarehouse("warehouse.query", result.BytesScanned)
	return result, nil
}

func newDocumentUnderTest(vec *fakeVector, st *fakeStore, comp *fakeCompletion) (*DocumentSpecialist, *fakeEmbedder) {
	emb := &fakeEmbedder{}
	cfg := config.VectorConfig{SourceFilter: "implementation-report", TopK: 50, MaxContextChars: 80_000}
	return NewDocumentSpecialist(cfg, emb, vec, st, comp), emb
}

func TestDocument_AnswerFromRetrievedChunks(t *testing.T) {
	vec := &fakeVector{byFilter: map[string][]client.Neighbor{
		"implementation-report": {{ID: "c1", Score: 0.93}, {ID: "c2", Score: 0.88}},
	}}
	st := &fakeStore{chunks: map[string]string{"c1": "budget was $2.4M", "c2": "phase 2 ran late"}}
	comp := &fakeCompletion{replies: map[string]string{"document.synthesize": "The budget was $2.4M."}}
	doc, emb := newDocumentUnderTest(vec, st, comp)
	rec := usage.NewRecord()

	ans, err := doc.Answer(context.Background(), "What was the budget?", rec)

	assert.NoError(t, err)
	assert.Equal(t, types.SpecialistDocument, ans.Specialist)
	assert.Equal(t, "The budget was $2.4M.", ans.Narrative)
	assert.Empty(t, ans.Fields)
	// one embed, one search, one synthesis: three external calls
	assert.Equal(t, 3, rec.Len())
	assert.Equal(t, 1, emb.calls)
	assert.Equal(t, 1, vec.calls)
}

func TestDocument_RetriesWithoutFilterOnce(t *testing.T) {
	vec := &fakeVector{byFilter: map[string][]client.Neighbor{
		// filtered search finds nothing, unfiltered does
		"": {{ID: "c1", Score: 0.7}},
	}}
	st := &fakeStore{chunks: map[string]string{"c1": "lessons learned: start earlier"}}
	comp := &fakeCompletion{}
	doc, _ := newDocumentUnderTest(vec, st, comp)
	rec := usage.NewRecord()

	ans, err := doc.Answer(context.Background(), "What were the lessons learned?", rec)

	assert.NoError(t, err)
	assert.Equal(t, 2, vec.calls)
	assert.NotEqual(t, documentNoDataReply, ans.Narrative)
	// embed + two searches + synthesis
	assert.Equal(t, 4, rec.Len())
}

func TestDocument_EmptyCorpusIsNotAnError(t *testing.T) {
	vec := &fakeVector{byFilter: map[string][]client.Neighbor{}}
	st := &fakeStore{chunks: map[string]string{}}
	comp := &fakeCompletion{}
	doc, _ := newDocumentUnderTest(vec, st, comp)

	ans, err := doc.Answer(context.Background(), "What about unicorns?", usage.NewRecord())

	assert.NoError(t, err)
	assert.Equal(t, documentNoDataReply, ans.Narrative)
	assert.Empty(t, ans.Fields)
	assert.Equal(t, 0, comp.calls)
}

func TestDocument_ContextBudgetCapsExcerpts(t *testing.T) {
	vec := &fakeVector{byFilter: map[string][]client.Neighbor{
		"implementation-report": {{ID: "c1", Score: 0.9}, {ID: "c2", Score: 0.8}},
	}}
	big := strings.Repeat("x", 60_000)
	st := &fakeStore{chunks: map[string]string{"c1": big, "c2": big}}
	comp := &fakeCompletion{}
	emb := &fakeEmbedder{}
	cfg := config.VectorConfig{SourceFilter: "implementation-report", TopK: 50, MaxContextChars: 80_000}
	doc := NewDocumentSpecialist(cfg, emb, vec, st, comp)

	excerpts, err := doc.collectExcerpts(context.Background(),
		[]client.Neighbor{{ID: "c1"}, {ID: "c2"}})

	assert.NoError(t, err)
	assert.Len(t, excerpts, 1)
}

func salesforceRow() map[string]any {
	return map[string]any{
		"Customer_Name":      "ABC Capital",
		"Total_ARR":          450000,
		"Renewal_Date":       "2026-11-01",
		"Account_Owner":      "Dana Reyes",
		"POD_Internal_Id__c": "POD45",
		"Task_Count":         int64(5),
	}
}

func TestSalesforce_ExtractsJoinFields(t *testing.T) {
	comp := &fakeCompletion{replies: map[string]string{
		"salesforce.sqlgen": "```sql\nSELECT * FROM `proj.nexus_data.sf_account` WHERE LOWER(TRIM(Customer_Name)) LIKE '%abc capital%'\n```",
	}}
	eng := &fakeEngine{results: []*warehouse.QueryResult{{Rows: []map[string]any{salesforceRow()}, BytesScanned: 2048}}}
	sf := NewSalesforceSpecialist(
		config.ProjectConfig{ID: "proj"},
		config.DatasetConfig{Dataset: "nexus_data", Table: "sf_account", SchemaSummary: "sf_account: Customer_Name, Total_ARR"},
		comp, eng)
	rec := usage.NewRecord()

	ans, err := sf.Answer(context.Background(), "What's the ARR for ABC Capital?", rec)

	assert.NoError(t, err)
	assert.Equal(t, "POD45", ans.Fields[types.FieldPodID])
	assert.Equal(t, "ABC Capital", ans.Fields["account_name"])
	assert.Equal(t, "450000", ans.Fields["total_arr"])
	// sqlgen + warehouse + synthesize
	assert.Equal(t, 3, rec.Len())
}

func TestSalesforce_FieldsAreIdempotent(t *testing.T) {
	newUnit := func() *SalesforceSpecialist {
		comp := &fakeCompletion{replies: map[string]string{
			"salesforce.sqlgen": "SELECT * FROM `proj.nexus_data.sf_account`",
		}}
		eng := &fakeEngine{results: []*warehouse.QueryResult{{Rows: []map[string]any{salesforceRow()}}}}
		return NewSalesforceSpecialist(
			config.ProjectConfig{ID: "proj"},
			config.DatasetConfig{Dataset: "nexus_data", Table: "sf_account"},
			comp, eng)
	}

	first, err := newUnit().Answer(context.Background(), "ARR for ABC Capital?", usage.NewRecord())
	assert.NoError(t, err)
	second, err := newUnit().Answer(context.Background(), "ARR for ABC Capital?", usage.NewRecord())
	assert.NoError(t, err)

	assert.Equal(t, first.Fields, second.Fields)
}

func TestSalesforce_UnsafeQueryRejectedBeforeDispatch(t *testing.T) {
	comp := &fakeCompletion{replies: map[string]string{
		"salesforce.sqlgen": "DELETE FROM `proj.nexus_data.sf_account`",
	}}
	eng := &fakeEngine{}
	sf := NewSalesforceSpecialist(
		config.ProjectConfig{ID: "proj"},
		config.DatasetConfig{Dataset: "nexus_data", Table: "sf_account"},
		comp, eng)

	_, err := sf.Answer(context.Background(), "clean up the accounts table", usage.NewRecord())

	assert.Error(t, err)
	assert.Equal(t, types.ErrKindUnsafeQuery, types.SpecialistErrKind(err))
	assert.Empty(t, eng.queries)
}

func TestSalesforce_FallbackLookupOnEmptyResult(t *testing.T) {
	comp := &fakeCompletion{replies: map[string]string{
		"salesforce.sqlgen": "SELECT * FROM `proj.nexus_data.sf_account` WHERE Customer_Name = 'nope'",
	}}
	eng := &fakeEngine{results: []*warehouse.QueryResult{
		{}, // generated query matches nothing
		{Rows: []map[string]any{salesforceRow()}},
	}}
	sf := NewSalesforceSpecialist(
		config.ProjectConfig{ID: "proj"},
		config.DatasetConfig{Dataset: "nexus_data", Table: "sf_account"},
		comp, eng)

	ans, err := sf.Answer(context.Background(), "What is the renewal date for ABC Capital?", usage.NewRecord())

	assert.NoError(t, err)
	assert.Len(t, eng.queries, 2)
	assert.Contains(t, eng.queries[1], "LIKE")
	assert.Equal(t, "2026-11-01", ans.Fields["renewal_date"])
}

func TestSalesforce_EmptyEverywhereYieldsNoDataAnswer(t *testing.T) {
	comp := &fakeCompletion{replies: map[string]string{
		"salesforce.sqlgen": "SELECT * FROM `proj.nexus_data.sf_account` WHERE 1=0",
	}}
	eng := &fakeEngine{}
	sf := NewSalesforceSpecialist(
		config.ProjectConfig{ID: "proj"},
		config.DatasetConfig{Dataset: "nexus_data", Table: "sf_account"},
		comp, eng)

	ans, err := sf.Answer(context.Background(), "ARR for Nonexistent Corp?", usage.NewRecord())

	assert.NoError(t, err)
	assert.Equal(t, salesforceNoDataReply, ans.Narrative)
	assert.Empty(t, ans.Fields)
}

func domoRow() map[string]any {
	return map[string]any{
		"pod_id":                      int64(45),
		"pretty_name":                 "ABC Capital",
		"health_score":                82.5,
		"meau":                        int64(1340),
		"risk_ratio_for_next_renewal": 0.18,
		"provisioned_users":           int64(95),
		"contracted_licenses":         int64(100),
	}
}

func TestDomo_DirectPodLookupSkipsSQLGeneration(t *testing.T) {
	comp := &fakeCompletion{}
	eng := &fakeEngine{results: []*warehouse.QueryResult{{Rows: []map[string]any{domoRow()}}}}
	domo := NewDomoSpecialist(
		config.ProjectConfig{ID: "proj"},
		config.DatasetConfig{Dataset: "domo_test_dataset", Table: "test_pod"},
		comp, eng)
	rec := usage.NewRecord()

	ans, err := domo.Answer(context.Background(), "pod POD45", rec)

	assert.NoError(t, err)
	assert.Len(t, eng.queries, 1)
	assert.Contains(t, eng.queries[0], "'POD45'")
	assert.Contains(t, eng.queries[0], "'45'")
	assert.Equal(t, "82.5", ans.Fields["health_score"])
	assert.Equal(t, "45", ans.Fields[types.FieldPodID])
	// warehouse + synthesize only: no sqlgen call
	assert.Equal(t, 2, rec.Len())
	assert.Equal(t, 1, comp.calls)
}

func TestDomo_GeneratedSQLWithPrettyNameFallback(t *testing.T) {
	comp := &fakeCompletion{replies: map[string]string{
		"domo.sqlgen": "SELECT * FROM `proj.domo_test_dataset.test_pod` WHERE LOWER(pretty_name) LIKE '%nobody%'",
	}}
	eng := &fakeEngine{results: []*warehouse.QueryResult{
		{},
		{Rows: []map[string]any{domoRow()}},
	}}
	domo := NewDomoSpecialist(
		config.ProjectConfig{ID: "proj"},
		config.DatasetConfig{Dataset: "domo_test_dataset", Table: "test_pod"},
		comp, eng)

	ans, err := domo.Answer(context.Background(), "What is the health score for ABC Capital?", usage.NewRecord())

	assert.NoError(t, err)
	assert.Len(t, eng.queries, 2)
	assert.Contains(t, eng.queries[1], "pretty_name")
	assert.Equal(t, "0.18", ans.Fields["risk_ratio"])
}

func TestDomo_UpstreamFailureSurfaces(t *testing.T) {
	comp := &fakeCompletion{err: errors.New("model endpoint down")}
	eng := &fakeEngine{}
	domo := NewDomoSpecialist(
		config.ProjectConfig{ID: "proj"},
		config.DatasetConfig{Dataset: "domo_test_dataset", Table: "test_pod"},
		comp, eng)

	_, err := domo.Answer(context.Background(), "health score for ABC Capital", usage.NewRecord())

	assert.Error(t, err)
	assert.Equal(t, types.ErrKindUpstreamUnavailable, types.SpecialistErrKind(err))
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, "SELECT 1", stripCodeFences("```sql\nSELECT 1\n```"))
	assert.Equal(t, "SELECT 1", stripCodeFences("```\nSELECT 1\n```"))
	assert.Equal(t, "SELECT 1", stripCodeFences("  SELECT 1  "))
}

func TestExtractPodID(t *testing.T) {
	assert.Equal(t, "POD45", extractPodID("pod POD45"))
	assert.Equal(t, "45", extractPodID("what about pod_45"))
	assert.Equal(t, "45", extractPodID("POD-45 metrics"))
	assert.Equal(t, "", extractPodID("pod health overall"))
	assert.Equal(t, "", extractPodID("nothing relevant"))
}
