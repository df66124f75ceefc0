package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Project: ProjectConfig{ID: "proj", Region: "us-central1"},
		Model: ModelConfig{
			CompletionEndpoint: "https://llm.example.com/v1/chat/completions",
			CompletionModel:    "gemini-2.0-flash",
			EmbeddingEndpoint:  "https://llm.example.com/v1/embeddings",
			EmbeddingModel:     "text-embedding-005",
		},
		Vector: VectorConfig{
			SearchEndpoint:  "https://vector.example.com/search",
			DeployedIndexID: "nexus_chunks_deployed",
		},
		ChunkStore: ChunkStoreConfig{
			Endpoint: "store.example.com:9000",
			Bucket:   "nexus-corpus",
			Object:   "chunks.jsonl",
		},
		Warehouse:  WarehouseConfig{Driver: "bigquery", DSN: "bigquery://proj/us/nexus_data"},
		Salesforce: DatasetConfig{Dataset: "nexus_data", Table: "sf_account"},
		Domo:       DatasetConfig{Dataset: "domo_test_dataset", Table: "test_pod"},
	}
}

func TestValidate_CompleteConfig(t *testing.T) {
	c := validConfig()
	assert.NoError(t, c.Validate())
}

func TestValidate_MissingIdentifierIsFatal(t *testing.T) {
	c := validConfig()
	c.Project.ID = ""
	err := c.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "project.id")

	c = validConfig()
	c.Vector.DeployedIndexID = ""
	err = c.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "vector.deployedindexid")

	c = validConfig()
	c.Domo.Table = ""
	assert.Error(t, c.Validate())
}

func TestApplyDefaults(t *testing.T) {
	c := Config{}
	c.ApplyDefaults()

	assert.Equal(t, 50, c.Vector.TopK)
	assert.Equal(t, 80_000, c.Vector.MaxContextChars)
	assert.Equal(t, 1000, c.Warehouse.MaxRows)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	c := Config{}
	c.Vector.TopK = 10
	c.ApplyDefaults()
	assert.Equal(t, 10, c.Vector.TopK)
}
