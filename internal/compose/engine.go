package compose

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/logger"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/specialist"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/types"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
	"go.uber.org/zap"
)

// Engine merges a primary specialist answer with a secondary lookup keyed by
// a cross-reference field. The secondary lookup is plain sequential
// composition: it needs the primary's output, nothing runs concurrently.
type Engine struct {
	registry     *specialist.Registry
	secondary    types.SpecialistID
	triggerField string
	policy       DerivePolicy
}

// NewEngine builds the default pod-join engine: a pod_id field on the
// primary answer triggers a Domo lookup
func NewEngine(registry *specialist.Registry) *Engine {
	return &Engine{
		registry:     registry,
		secondary:    types.SpecialistDomo,
		triggerField: types.FieldPodID,
		policy:       SnapshotPolicy{},
	}
}

// NewEngineWithPolicy overrides the derive policy
func NewEngineWithPolicy(registry *specialist.Registry, policy DerivePolicy) *Engine {
	e := NewEngine(registry)
	e.policy = policy
	return e
}

// ShouldCompose reports whether the primary answer carries the join key
func (e *Engine) ShouldCompose(primary *types.SpecialistAnswer) bool {
	if primary == nil || primary.Specialist == e.secondary {
		return false
	}
	v, ok := primary.Fields[e.triggerField]
	if !ok {
		return false
	}
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, "null") && !strings.EqualFold(v, "none")
}

// Compose runs the secondary lookup and merges both answers. A failed or
// empty secondary degrades to a composite built from the primary alone; the
// primary answer is never thrown away because the join half failed.
func (e *Engine) Compose(ctx context.Context, primary *types.SpecialistAnswer, rec *usage.Record) (*types.CompositeAnswer, error) {
	key := strings.TrimSpace(primary.Fields[e.triggerField])

	sec, err := e.registry.Get(e.secondary)
	if err != nil {
		return nil, err
	}

	// the key appears verbatim in the secondary sub-question
	subQuestion := fmt.Sprintf("pod %s", key)
	secondary, err := sec.Answer(ctx, subQuestion, rec)
	if err != nil {
		logger.Warn("secondary lookup failed, composing degraded answer",
			zap.String("pod_id", key), zap.Error(err))
		return e.degraded(primary, key), nil
	}
	if len(secondary.Fields) == 0 {
		return e.degraded(primary, key), nil
	}

	derived := e.policy.Derive(primary.Fields, secondary.Fields)
	composite := &types.CompositeAnswer{
		Primary:   primary,
		Secondary: secondary,
		Derived:   derived,
	}
	composite.FinalText = renderSnapshot(primary, secondary, derived)
	return composite, nil
}

func (e *Engine) degraded(primary *types.SpecialistAnswer, key string) *types.CompositeAnswer {
	return &types.CompositeAnswer{
		Primary: primary,
		Derived: map[string]string{},
		FinalText: fmt.Sprintf("%s\n\nPod metrics for pod %s were not available, so the snapshot below covers account data only.",
			primary.Narrative, key),
	}
}

// renderSnapshot formats the merged answer as the account snapshot bullets
func renderSnapshot(primary, secondary *types.SpecialistAnswer, derived map[string]string) string {
	var b strings.Builder
	b.WriteString(primary.Narrative)
	b.WriteString("\n\nPod metrics:\n")

	for _, line := range []struct{ label, value string }{
		{"Health Score", secondary.Fields["health_score"]},
		{"MEAU", secondary.Fields["meau"]},
		{"Provisioned Users", secondary.Fields["provisioned_users"]},
		{"Contracted Licenses", secondary.Fields["contracted_licenses"]},
	} {
		if line.value != "" {
			fmt.Fprintf(&b, "• %s: %s\n", line.label, line.value)
		}
	}

	if len(derived) > 0 {
		b.WriteString("\nSummary & Insights:\n")
		keys := make([]string, 0, len(derived))
		for k := range derived {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "○ %s: %s\n", insightLabel(k), derived[k])
		}
	}
	return b.String()
}

func insightLabel(field string) string {
	switch field {
	case "engagement":
		return "Engagement"
	case "expansion_signal":
		return "Expansion Signal"
	case "churn_risk":
		return "Churn Risk"
	case "orbit_score":
		return "ORBIT Score"
	default:
		return field
	}
}
