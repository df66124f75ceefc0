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

const salesforceSQLPrompt = `You translate questions about Salesforce account and opportunity data into a single read-only SQL query.
Rules:
- Emit exactly one SELECT statement, nothing else.
- Use fully qualified table names from the schema below.
- Match account names with LOWER(TRIM(Customer_Name)) LIKE patterns.

Schema:
%s`

const salesforceSynthesisPrompt = `You answer questions about Salesforce account data using only the result rows provided.
State figures exactly as returned. If the rows are empty, say no matching data was found.`

const salesforceNoDataReply = "No matching Salesforce records were found for this question."

// accountNamePattern pulls a quoted or capitalized candidate account name
// from the sub-question for the fallback lookup
var accountNamePattern = regexp.MustCompile(`(?:for|about|of)\s+([A-Z][A-Za-z0-9&]*(?:\s+[A-Z][A-Za-z0-9&]*)*)`)

// salesforceJoinColumns maps result columns to the structured field names
// the compose engine consumes
var salesforceJoinColumns = map[string]string{
	"Customer_Name":      "account_name",
	"Total_ARR":          "total_arr",
	"Renewal_Date":       "renewal_date",
	"Account_Owner":      "account_owner",
	"POD_Internal_Id__c": types.FieldPodID,
	"Task_Count":         "task_count",
}

// SalesforceSpecialist answers from the Salesforce warehouse dataset. It
// generates SQL with the model, validates it locally, executes it, and
// synthesizes a narrative from the rows. A failed or empty generated query
// falls back to one direct account-name lookup.
type SalesforceSpecialist struct {
	completion client.CompletionInterface
	engine     warehouse.QueryEngine
	dataset    config.DatasetConfig
	projectID  string
}

// NewSalesforceSpecialist wires the SQL-backed Salesforce source
func NewSalesforceSpecialist(
	project config.ProjectConfig,
	dataset config.DatasetConfig,
	completion client.CompletionInterface,
	engine warehouse.QueryEngine,
) *SalesforceSpecialist {
	return &SalesforceSpecialist{
		completion: completion,
		engine:     engine,
		dataset:    dataset,
		projectID:  project.ID,
	}
}

func (s *SalesforceSpecialist) ID() types.SpecialistID {
	return types.SpecialistSalesforce
}

// Answer generates, validates, and executes one query, then narrates the rows
func (s *SalesforceSpecialist) Answer(ctx context.Context, subQuestion string, rec *usage.Record) (*types.SpecialistAnswer, error) {
	system := fmt.Sprintf(salesforceSQLPrompt, s.dataset.SchemaSummary)
	generated, err := s.completion.Complete(ctx, "salesforce.sqlgen", system, subQuestion, rec)
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
			logger.Warn("generated salesforce query failed, using fallback lookup",
				zap.Error(err))
		}
		result, err = s.fallbackLookup(ctx, subQuestion, rec)
		if err != nil {
			return nil, types.NewUpstreamUnavailableError(s.ID(), err)
		}
	}

	if len(result.Rows) == 0 {
		return &types.SpecialistAnswer{
			Specialist: s.ID(),
			Narrative:  salesforceNoDataReply,
			Fields:     map[string]string{},
		}, nil
	}

	user := fmt.Sprintf("Question: %s\n\nResult rows:\n%s", subQuestion, renderRows(result.Rows, 25))
	narrative, err := s.completion.Complete(ctx, "salesforce.synthesize", salesforceSynthesisPrompt, user, rec)
	if err != nil {
		return nil, types.NewUpstreamUnavailableError(s.ID(), err)
	}

	return &types.SpecialistAnswer{
		Specialist: s.ID(),
		Narrative:  narrative,
		Fields:     rowFields(result.Rows[0], salesforceJoinColumns),
	}, nil
}

// fallbackLookup is the declared fallback: one LIKE match on the account
// table by candidate account name. No candidate name means an empty result,
// not an error.
func (s *SalesforceSpecialist) fallbackLookup(ctx context.Context, subQuestion string, rec *usage.Record) (*warehouse.QueryResult, error) {
	name := extractAccountName(subQuestion)
	if name == "" {
		return &warehouse.QueryResult{}, nil
	}

	query := fmt.Sprintf(
		"SELECT Customer_Name, Total_ARR, Renewal_Date, Account_Owner, POD_Internal_Id__c, Task_Count "+
			"FROM `%s.%s.%s` "+
			"WHERE LOWER(TRIM(Customer_Name)) LIKE LOWER(TRIM('%%%s%%'))",
		s.projectID, s.dataset.Dataset, s.dataset.Table, escapeLike(name))
	return s.engine.ExecuteReadOnly(ctx, query, rec)
}

// extractAccountName guesses the account name the question refers to
func extractAccountName(question string) string {
	if m := accountNamePattern.FindStringSubmatch(question); len(m) > 1 {
		return strings.TrimSpace(strings.TrimSuffix(m[1], "?"))
	}
	return ""
}
