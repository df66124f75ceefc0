package specialist

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/client"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/config"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/logger"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/types"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/warehouse"
	"go.uber.org/zap"
)

const domoSQLPrompt = `You translate questions about Domo pod metrics into a single read-only SQL query.
Rules:
- Emit exactly one SELECT statement, nothing else.
- Use fully qualified table names from the schema below.
- Match account names with LOWER(pretty_name) LIKE patterns.

Schema:
%s`

const domoSynthesisPrompt = `You answer questions about Domo pod metrics using only the result rows provided.
State figures exactly as returned. If the rows are empty, say no matching data was found.`

const domoNoDataReply = "No matching Domo pod records were found for this question."

// podIDPattern matches an explicit pod reference like "pod 45", "POD_45",
// or "pod-45" for the direct lookup path
var podIDPattern = regexp.MustCompile(`(?i)\bpod[\s_-]?([A-Za-z0-9]+)\b`)

// domoJoinColumns maps pod-table columns to structured field names
var domoJoinColumns = map[string]string{
	"pod_id":                      types.FieldPodID,
	"pretty_name":                 "pretty_name",
	"health_score":                "health_score",
	"meau":                        "meau",
	"risk_ratio_for_next_renewal": "risk_ratio",
	"provisioned_users":           "provisioned_users",
	"contracted_licenses":         "contracted_licenses",
}

// DomoSpecialist answers from the Domo pod-metrics dataset. An explicit pod
// identifier in the sub-question bypasses SQL generation with a direct
// lookup; otherwise it follows the same generate, validate, execute path as
// the Salesforce source, with a pretty_name fallback.
type DomoSpecialist struct {
	completion client.CompletionInterface
	engine     warehouse.QueryEngine
	dataset    config.DatasetConfig
	projectID  string
}

// NewDomoSpecialist wires the SQL-backed Domo source
func NewDomoSpecialist(
	project config.ProjectConfig,
	dataset config.DatasetConfig,
	completion client.CompletionInterface,
	engine warehouse.QueryEngine,
) *DomoSpecialist {
	return &DomoSpecialist{
		completion: completion,
		engine:     engine,
		dataset:    dataset,
		projectID:  project.ID,
	}
}

func (s *DomoSpecialist) ID() types.SpecialistID {
	return types.SpecialistDomo
}

// Answer resolves the sub-question against the pod table
func (s *DomoSpecialist) Answer(ctx context.Context, subQuestion string, rec *usage.Record) (*types.SpecialistAnswer, error) {
	var result *warehouse.QueryResult
	var err error

	if podID := extractPodID(subQuestion); podID != "" {
		result, err = s.lookupByPodID(ctx, podID, rec)
		if err != nil {
			return nil, types.NewUpstreamUnavailableError(s.ID(), err)
		}
	} else {
		result, err = s.generateAndExecute(ctx, subQuestion, rec)
		if err != nil {
			return nil, err
		}
	}

	if len(result.Rows) == 0 {
		return &types.SpecialistAnswer{
			Specialist: s.ID(),
			Narrative:  domoNoDataReply,
			Fields:     map[string]string{},
		}, nil
	}

	user := fmt.Sprintf("Question: %s\n\nResult rows:\n%s", subQuestion, renderRows(result.Rows, 25))
	narrative, err := s.completion.Complete(ctx, "domo.synthesize", domoSynthesisPrompt, user, rec)
	if err != nil {
		return nil, types.NewUpstreamUnavailableError(s.ID(), err)
	}

	return &types.SpecialistAnswer{
		Specialist: s.ID(),
		Narrative:  narrative,
		Fields:     rowFields(result.Rows[0], domoJoinColumns),
	}, nil
}

func (s *DomoSpecialist) generateAndExecute(ctx context.Context, subQuestion string, rec *usage.Record) (*warehouse.QueryResult, error) {
	system := fmt.Sprintf(domoSQLPrompt, s.dataset.SchemaSummary)
	generated, err := s.completion.Complete(ctx, "domo.sqlgen", system, subQuestion, rec)
	if err != nil {
		return nil, types.NewUpstreamUnavailableError(s.ID(), err)
	}

	query := stripCodeFences(generated)
	if err := warehouse.EnsureReadOnly(query); err != nil {
		return nil, types.NewUnsafeQueryError(s.ID(), err)
	}

	result, err := s.engine.ExecuteReadOnly(ctx, query, rec)
	if err != nil || len(result.Rows) == 0 {
		if err != nil {
			logger.Warn("generated domo query failed, using fallback lookup", zap.Error(err))
		}
		result, err = s.fallbackLookup(ctx, subQuestion, rec)
		if err != nil {
			return nil, types.NewUpstreamUnavailableError(s.ID(), err)
		}
	}
	return result, nil
}

// lookupByPodID is the direct path for sub-questions naming a pod outright.
// Stored identifiers may be bare numbers while questions say "POD45", so the
// digit suffix is matched alongside the raw token.
func (s *DomoSpecialist) lookupByPodID(ctx context.Context, podID string, rec *usage.Record) (*warehouse.QueryResult, error) {
	digits := digitsOnly(podID)
	query := fmt.Sprintf(
		"SELECT * FROM `%s.%s.%s` WHERE UPPER(CAST(pod_id AS STRING)) IN ('%s', '%s')",
		s.projectID, s.dataset.Dataset, s.dataset.Table,
		escapeLike(strings.ToUpper(podID)), escapeLike(digits))
	return s.engine.ExecuteReadOnly(ctx, query, rec)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fallbackLookup matches the pod by account pretty name
func (s *DomoSpecialist) fallbackLookup(ctx context.Context, subQuestion string, rec *usage.Record) (*warehouse.QueryResult, error) {
	name := extractAccountName(subQuestion)
	if name == "" {
		return &warehouse.QueryResult{}, nil
	}
	query := fmt.Sprintf(
		"SELECT * FROM `%s.%s.%s` WHERE LOWER(pretty_name) LIKE LOWER('%%%s%%')",
		s.projectID, s.dataset.Dataset, s.dataset.Table, escapeLike(name))
	return s.engine.ExecuteReadOnly(ctx, query, rec)
}

// extractPodID returns the pod identifier named in the question, or "".
// The token must carry a digit so phrases like "pod health" do not trigger
// the direct lookup.
func extractPodID(question string) string {
	m := podIDPattern.FindStringSubmatch(question)
	if len(m) < 2 {
		return ""
	}
	for _, r := range m[1] {
		if r >= '0' && r <= '9' {
			return m[1]
		}
	}
	return ""
}
