package config

import "fmt"

// ProjectConfig identifies the hosting project and region
type ProjectConfig struct {
	ID     string
	Region string
}

// ModelConfig holds the hosted model endpoints and identifiers
type ModelConfig struct {
	CompletionEndpoint string
	CompletionModel    string
	EmbeddingEndpoint  string
	EmbeddingModel     string
}

// VectorConfig holds the vector-search service configuration
type VectorConfig struct {
	SearchEndpoint  string
	DeployedIndexID string
	SourceFilter    string
	TopK            int
	MaxContextChars int
}

// ChunkStoreConfig holds the object-store location of the chunk records
type ChunkStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Object    string
}

// WarehouseConfig holds the tabular query engine connection
type WarehouseConfig struct {
	Driver  string
	DSN     string
	MaxRows int
}

// RedisConfig holds the embedding-cache configuration. An empty Addr
// disables the cache.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
}

// KeywordSetConfig binds one specialist to its routing keyword terms
type KeywordSetConfig struct {
	Specialist string
	Terms      []string
}

// RoutingConfig holds the keyword-tier routing policy. Empty Keywords falls
// back to the built-in default sets.
type RoutingConfig struct {
	Keywords []KeywordSetConfig
}

// DatasetConfig describes one SQL-backed specialist's pre-declared schema
type DatasetConfig struct {
	Dataset string
	// Table is the primary lookup table (accounts / pods)
	Table string
	// SchemaSummary is the human-readable schema text given to the model
	// for SQL generation and routing
	SchemaSummary string
}

// PricingConfig is the fixed public rate table
type PricingConfig struct {
	ModelInputPer1MTokens  float64
	ModelOutputPer1MTokens float64
	EmbeddingPer1KChars    float64
	RetrievalPerQuery      float64
	WarehousePerTB         float64
}

// Config holds all service configuration. It is read once at startup and
// never mutated afterwards.
type Config struct {
	// Server configuration
	Host string
	Port int

	Project    ProjectConfig
	Model      ModelConfig
	Vector     VectorConfig
	ChunkStore ChunkStoreConfig
	Warehouse  WarehouseConfig
	Redis      RedisConfig
	Routing    RoutingConfig
	Salesforce DatasetConfig
	Domo       DatasetConfig
	Pricing    PricingConfig
}

const (
	defaultTopK            = 50
	defaultMaxContextChars = 80_000
	defaultMaxRows         = 1000
)

// ApplyDefaults fills optional numeric settings with their defaults
func (c *Config) ApplyDefaults() {
	if c.Vector.TopK <= 0 {
		c.Vector.TopK = defaultTopK
	}
	if c.Vector.MaxContextChars <= 0 {
		c.Vector.MaxContextChars = defaultMaxContextChars
	}
	if c.Warehouse.MaxRows <= 0 {
		c.Warehouse.MaxRows = defaultMaxRows
	}
}

// Validate checks every identifier the core needs at startup. A missing or
// empty identifier is a startup-time fatal error, never a runtime one.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"project.id", c.Project.ID},
		{"project.region", c.Project.Region},
		{"model.completionendpoint", c.Model.CompletionEndpoint},
		{"model.completionmodel", c.Model.CompletionModel},
		{"model.embeddingendpoint", c.Model.EmbeddingEndpoint},
		{"vector.searchendpoint", c.Vector.SearchEndpoint},
		{"vector.deployedindexid", c.Vector.DeployedIndexID},
		{"chunkstore.endpoint", c.ChunkStore.Endpoint},
		{"chunkstore.bucket", c.ChunkStore.Bucket},
		{"chunkstore.object", c.ChunkStore.Object},
		{"warehouse.driver", c.Warehouse.Driver},
		{"warehouse.dsn", c.Warehouse.DSN},
		{"salesforce.dataset", c.Salesforce.Dataset},
		{"salesforce.table", c.Salesforce.Table},
		{"domo.dataset", c.Domo.Dataset},
		{"domo.table", c.Domo.Table},
	}

	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing required config value: %s", r.name)
		}
	}
	return nil
}
