package bootstrap

import (
	"fmt"

	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/cache"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/client"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/compose"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/config"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/logger"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/metrics"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/orchestrator"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/router"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/specialist"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/store"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/tokenizer"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/warehouse"
	"go.uber.org/zap"
)

// ServiceContext holds every constructed dependency for the service
// lifetime. Configuration is read once here and everything downstream gets
// immutable references.
type ServiceContext struct {
	Config *config.Config

	Turn    *orchestrator.TurnLogic
	Metrics *metrics.Service

	engine *warehouse.SQLEngine
}

// NewServiceContext constructs the full pipeline from validated config
func NewServiceContext(cfg *config.Config) (*ServiceContext, error) {
	// a nil counter degrades to word-count estimation, not a startup failure
	counter, err := tokenizer.NewTokenCounter()
	if err != nil {
		logger.Warn("token encoder unavailable, falling back to estimation", zap.Error(err))
		counter = nil
	}

	completion, err := client.NewCompletionClient(cfg.Model, counter)
	if err != nil {
		return nil, fmt.Errorf("completion client: %w", err)
	}

	embedder := cache.NewCachedEmbedder(
		client.NewEmbeddingClient(cfg.Model),
		cache.NewRedisVectorCache(cfg.Redis),
	)
	vector := client.NewVectorClient(cfg.Vector)

	records, err := store.NewChunkStore(cfg.ChunkStore)
	if err != nil {
		return nil, fmt.Errorf("chunk store: %w", err)
	}

	engine, err := warehouse.NewSQLEngine(cfg.Warehouse)
	if err != nil {
		return nil, fmt.Errorf("warehouse engine: %w", err)
	}

	registry := specialist.NewRegistry(
		specialist.NewDocumentSpecialist(cfg.Vector, embedder, vector, records, completion),
		specialist.NewSalesforceSpecialist(cfg.Project, cfg.Salesforce, completion, engine),
		specialist.NewDomoSpecialist(cfg.Project, cfg.Domo, completion, engine),
	)

	r := router.NewRouter(cfg.Routing, completion,
		[]config.DatasetConfig{cfg.Salesforce, cfg.Domo})

	m := metrics.NewService()

	turn := orchestrator.NewTurnLogic(
		r,
		registry,
		compose.NewEngine(registry),
		rateTable(cfg.Pricing),
		m,
	)

	return &ServiceContext{
		Config:  cfg,
		Turn:    turn,
		Metrics: m,
		engine:  engine,
	}, nil
}

// Close releases held connections
func (s *ServiceContext) Close() error {
	if s.engine != nil {
		return s.engine.Close()
	}
	return nil
}

func rateTable(p config.PricingConfig) usage.RateTable {
	return usage.RateTable{
		ModelInputPer1MTokens:  p.ModelInputPer1MTokens,
		ModelOutputPer1MTokens: p.ModelOutputPer1MTokens,
		EmbeddingPer1KChars:    p.EmbeddingPer1KChars,
		RetrievalPerQuery:      p.RetrievalPerQuery,
		WarehousePerTB:         p.WarehousePerTB,
	}
}
