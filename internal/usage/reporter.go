package usage

import (
	"fmt"
	"strings"
)

// RateTable holds the fixed public per-unit prices applied to a Record.
// Values are read from config at startup and constant thereafter.
type RateTable struct {
	ModelInputPer1MTokens  float64
	ModelOutputPer1MTokens float64
	EmbeddingPer1KChars    float64
	RetrievalPerQuery      float64
	WarehousePerTB         float64
}

// CostLine is one priced entry in the breakdown
type CostLine struct {
	Label  string  `json:"label"`
	Detail string  `json:"detail"`
	Cost   float64 `json:"cost"`
}

// PricedSummary is the per-question cost breakdown plus total
type PricedSummary struct {
	Lines []CostLine `json:"lines"`
	Total float64    `json:"total"`
}

// Summarize applies the rate table to a usage record. Pure: no external
// calls, and the input record is not mutated.
func Summarize(rec *Record, rates RateTable) PricedSummary {
	var summary PricedSummary
	for _, e := range rec.Entries() {
		var line CostLine
		switch e.Kind {
		case KindModel:
			cost := float64(e.InputUnits)/1e6*rates.ModelInputPer1MTokens +
				float64(e.OutputUnits)/1e6*rates.ModelOutputPer1MTokens
			line = CostLine{
				Label:  fmt.Sprintf("%s (Model)", e.Label),
				Detail: fmt.Sprintf("%d in / %d out tokens", e.InputUnits, e.OutputUnits),
				Cost:   cost,
			}
		case KindEmbedding:
			line = CostLine{
				Label:  fmt.Sprintf("%s (Embedding)", e.Label),
				Detail: fmt.Sprintf("%d chars", e.Chars),
				Cost:   float64(e.Chars) / 1000 * rates.EmbeddingPer1KChars,
			}
		case KindRetrieval:
			line = CostLine{
				Label:  fmt.Sprintf("%s (Retrieval)", e.Label),
				Detail: "1 query",
				Cost:   rates.RetrievalPerQuery,
			}
		case KindWarehouse:
			line = CostLine{
				Label:  fmt.Sprintf("%s (Warehouse)", e.Label),
				Detail: fmt.Sprintf("%s processed", formatBytes(e.Bytes)),
				Cost:   float64(e.Bytes) / 1e12 * rates.WarehousePerTB,
			}
		default:
			continue
		}
		summary.Lines = append(summary.Lines, line)
		summary.Total += line.Cost
	}
	return summary
}

// Render formats the breakdown for the interactive loop
func (s PricedSummary) Render() string {
	if len(s.Lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("--- Cost for this question ---\n")
	for _, line := range s.Lines {
		fmt.Fprintf(&b, "  %-36s : %-28s → $%.6f\n", line.Label, line.Detail, line.Cost)
	}
	b.WriteString("  " + strings.Repeat("-", 58) + "\n")
	fmt.Fprintf(&b, "  %-36s : %-28s → $%.6f\n", "Total", "", s.Total)
	return b.String()
}

func formatBytes(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
