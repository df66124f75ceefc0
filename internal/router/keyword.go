package router

import (
	"context"
	"strings"

	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/config"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/logger"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/types"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
	"go.uber.org/zap"
)

// KeywordSet binds a specialist to the phrases that indicate it
type KeywordSet struct {
	Specialist types.SpecialistID
	Terms      []string
}

// KeywordStrategy routes by case-insensitive substring match against ordered
// keyword sets. Exactly one matching set routes to its specialist; two or
// more distinct matches mean the question spans sources and must be split.
type KeywordStrategy struct {
	sets []KeywordSet
}

// NewKeywordStrategy builds a strategy from configured sets, falling back to
// the built-in dictionary when none are configured
func NewKeywordStrategy(cfg config.RoutingConfig) *KeywordStrategy {
	if len(cfg.Keywords) == 0 {
		return &KeywordStrategy{sets: DefaultKeywordSets()}
	}
	sets := make([]KeywordSet, 0, len(cfg.Keywords))
	for _, ks := range cfg.Keywords {
		sets = append(sets, KeywordSet{
			Specialist: types.SpecialistID(ks.Specialist),
			Terms:      ks.Terms,
		})
	}
	return &KeywordStrategy{sets: sets}
}

// DefaultKeywordSets returns the built-in routing dictionary. Document terms
// come first; Domo terms are checked before Salesforce so that aggregate
// phrasing like "accounts owned by" does not get caught by "accounts".
// "account owner" is deliberately absent from the Domo set: a single-account
// ownership lookup belongs to Salesforce.
func DefaultKeywordSets() []KeywordSet {
	return []KeywordSet{
		{
			Specialist: types.SpecialistDocument,
			Terms: []string{
				"document", "pdf", "report", "case study", "implementation cost",
				"total implementation", "change management", "budget",
				"post-implementation", "lessons learned", "executive summary",
				"milestone", "phase 3", "phase 2", "technology stack",
				"financial benefits", "readmission", "telehealth",
				"resolution strategy", "risk", "mitigate",
				"recommendation from the document",
			},
		},
		{
			Specialist: types.SpecialistDomo,
			Terms: []string{
				"domo", "domo_test_dataset", "domo_test", "domo data", "domo dataset",
				"health score", "health_score", "num_total_accounts",
				"total accounts", "accounts owned", "owned by",
				"how many total accounts", "how many accounts",
			},
		},
		{
			Specialist: types.SpecialistSalesforce,
			Terms: []string{
				"arr", "pipeline", "opportunity", "opportunities", "customer",
				"customers", "account", "accounts", "salesforce", "nexus_data",
				"total_arr", "customer_name", "contract", "renewal", "license",
				"licenses", "stage", "closed won", "close date", "owner",
				"contracted", "snapshot", "all accounts", "commercial snapshot",
				"account overview",
			},
		},
	}
}

func (s *KeywordStrategy) Name() string {
	return "keyword"
}

// Route matches the question against every set and decides, or defers when
// nothing matches
func (s *KeywordStrategy) Route(ctx context.Context, question types.Question, _ *usage.Record) (*types.RoutingDecision, error) {
	lower := strings.ToLower(strings.TrimSpace(question.Text))

	var matched []types.SpecialistID
	for _, set := range s.sets {
		for _, term := range set.Terms {
			if strings.Contains(lower, term) {
				matched = append(matched, set.Specialist)
				break
			}
		}
	}

	switch len(matched) {
	case 0:
		return nil, nil
	case 1:
		logger.Debug("keyword route",
			zap.String("specialist", string(matched[0])))
		return &types.RoutingDecision{
			Specialist: matched[0],
			Strategy:   s.Name(),
		}, nil
	default:
		logger.Debug("keyword route spans multiple sources",
			zap.Int("matches", len(matched)))
		return &types.RoutingDecision{
			AskSeparately: true,
			Strategy:      s.Name(),
		}, nil
	}
}
