package compose

import (
	"fmt"
	"strconv"
	"strings"
)

// DerivePolicy computes derived fields from the merged primary and secondary
// field sets. The formulas are policy, not fixed behavior, so alternative
// scoring schemes plug in here.
type DerivePolicy interface {
	Derive(primary, secondary map[string]string) map[string]string
}

// SnapshotPolicy is the default account-snapshot policy: engagement sentiment
// from task activity, an expansion signal from license utilization, churn
// risk from the renewal risk ratio, and the ORBIT score taken from the pod
// health score.
type SnapshotPolicy struct{}

// Derive computes the snapshot fields. Inputs that are missing or
// unparseable simply omit their derived field.
func (SnapshotPolicy) Derive(primary, secondary map[string]string) map[string]string {
	derived := make(map[string]string)

	if taskCount, ok := parseFloat(primary["task_count"]); ok {
		derived["engagement"] = engagementSentiment(int(taskCount))
	}

	provisioned, okP := parseFloat(secondary["provisioned_users"])
	contracted, okC := parseFloat(secondary["contracted_licenses"])
	if okP && okC {
		derived["expansion_signal"] = expansionSignal(provisioned, contracted)
	}

	if risk, ok := parseFloat(secondary["risk_ratio"]); ok {
		if risk >= 0 && risk <= 1 {
			derived["churn_risk"] = fmt.Sprintf("%.1f%%", risk*100)
		} else {
			derived["churn_risk"] = secondary["risk_ratio"]
		}
	}

	if orbit, ok := secondary["health_score"]; ok && orbit != "" {
		derived["orbit_score"] = orbit
	}

	return derived
}

// engagementSentiment maps task activity to a sentiment label
func engagementSentiment(taskCount int) string {
	switch {
	case taskCount >= 4:
		return "Sentiment: Positive."
	case taskCount == 0:
		return "Sentiment: Negative."
	default:
		return "Sentiment: Neutral."
	}
}

// expansionSignal flags accounts using more than 90% of contracted licenses
func expansionSignal(provisioned, contracted float64) string {
	switch {
	case contracted > 0 && provisioned > 0.9*contracted:
		return "Positive (provisioned users exceed 90% of contracted licenses)"
	case contracted == 0 && provisioned > 0:
		return "Positive (users provisioned with no contracted licenses)"
	default:
		return "None"
	}
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
