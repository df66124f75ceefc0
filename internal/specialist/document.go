package specialist

import (
	"context"
	"fmt"
	"strings"

	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/client"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/config"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/logger"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/store"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/types"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
	"go.uber.org/zap"
)

const documentSynthesisPrompt = `You answer questions strictly from the provided document excerpts.
Quote figures exactly as they appear. If the excerpts do not contain the answer, say so plainly.`

const documentNoDataReply = "The requested information is not available in the documents."

// DocumentSpecialist answers from the indexed document corpus: embed the
// sub-question, search the vector index, resolve hits to chunk text, then
// synthesize a grounded narrative.
type DocumentSpecialist struct {
	embedder   client.EmbeddingInterface
	vector     client.VectorInterface
	records    store.RecordStore
	completion client.CompletionInterface

	sourceFilter    string
	topK            int
	maxContextChars int
}

// NewDocumentSpecialist wires the retrieval pipeline for the document source
func NewDocumentSpecialist(
	cfg config.VectorConfig,
	embedder client.EmbeddingInterface,
	vector client.VectorInterface,
	records store.RecordStore,
	completion client.CompletionInterface,
) *DocumentSpecialist {
	return &DocumentSpecialist{
		embedder:        embedder,
		vector:          vector,
		records:         records,
		completion:      completion,
		sourceFilter:    cfg.SourceFilter,
		topK:            cfg.TopK,
		maxContextChars: cfg.MaxContextChars,
	}
}

func (s *DocumentSpecialist) ID() types.SpecialistID {
	return types.SpecialistDocument
}

// Answer runs retrieval and synthesis. An upstream failure surfaces as
// SpecialistError{UpstreamUnavailable}; an empty corpus match is a normal
// answer stating no data was found.
func (s *DocumentSpecialist) Answer(ctx context.Context, subQuestion string, rec *usage.Record) (*types.SpecialistAnswer, error) {
	vec, err := s.embedder.Embed(ctx, subQuestion, rec)
	if err != nil {
		return nil, types.NewUpstreamUnavailableError(s.ID(), err)
	}

	neighbors, err := s.search(ctx, vec, rec)
	if err != nil {
		return nil, types.NewUpstreamUnavailableError(s.ID(), err)
	}

	excerpts, err := s.collectExcerpts(ctx, neighbors)
	if err != nil {
		return nil, types.NewUpstreamUnavailableError(s.ID(), err)
	}

	if len(excerpts) == 0 {
		return &types.SpecialistAnswer{
			Specialist: s.ID(),
			Narrative:  documentNoDataReply,
			Fields:     map[string]string{},
		}, nil
	}

	user := fmt.Sprintf("Question: %s\n\nDocument excerpts:\n%s",
		subQuestion, strings.Join(excerpts, "\n---\n"))
	narrative, err := s.completion.Complete(ctx, "document.synthesize", documentSynthesisPrompt, user, rec)
	if err != nil {
		return nil, types.NewUpstreamUnavailableError(s.ID(), err)
	}

	return &types.SpecialistAnswer{
		Specialist: s.ID(),
		Narrative:  narrative,
		Fields:     map[string]string{},
	}, nil
}

// search queries the index with the source filter, retrying once without it
// when the filtered search finds nothing. The unfiltered retry is the only
// fallback; a second empty result stands.
func (s *DocumentSpecialist) search(ctx context.Context, vec []float64, rec *usage.Record) ([]client.Neighbor, error) {
	req := client.VectorSearchRequest{
		Vector:    vec,
		FilterTag: s.sourceFilter,
		TopK:      s.topK,
	}
	neighbors, err := s.vector.Search(ctx, req, rec)
	if err != nil {
		return nil, err
	}
	if len(neighbors) > 0 || s.sourceFilter == "" {
		return neighbors, nil
	}

	logger.Debug("filtered search empty, retrying without filter",
		zap.String("filter", s.sourceFilter))
	req.FilterTag = ""
	return s.vector.Search(ctx, req, rec)
}

// collectExcerpts resolves neighbor ids to chunk text, in score order,
// stopping at the context budget
func (s *DocumentSpecialist) collectExcerpts(ctx context.Context, neighbors []client.Neighbor) ([]string, error) {
	var excerpts []string
	total := 0
	for _, n := range neighbors {
		text, ok, err := s.records.Get(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		if !ok || text == "" {
			continue
		}
		if total+len(text) > s.maxContextChars {
			break
		}
		excerpts = append(excerpts, text)
		total += len(text)
	}
	return excerpts, nil
}
