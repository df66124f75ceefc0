package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/config"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/logger"
	"go.uber.org/zap"
)

// RecordStore resolves retrieval hit identifiers to chunk text
type RecordStore interface {
	// Get returns the text for id; ok is false when the id is unknown
	Get(ctx context.Context, id string) (text string, ok bool, err error)
}

// chunkLine is one line of the chunk corpus object, JSON per line
type chunkLine struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ChunkStore is an object-storage backed RecordStore. The corpus object is
// loaded once on first use and held in memory; chunk corpora are small
// relative to the service footprint.
type ChunkStore struct {
	client *minio.Client
	bucket string
	object string

	once   sync.Once
	mu     sync.RWMutex
	chunks map[string]string
	err    error
}

// NewChunkStore creates a store over the configured bucket and object
func NewChunkStore(cfg config.ChunkStoreConfig) (*ChunkStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chunk store client: %w", err)
	}
	return &ChunkStore{
		client: client,
		bucket: cfg.Bucket,
		object: cfg.Object,
	}, nil
}

// Get returns the chunk text for one retrieval hit id
func (s *ChunkStore) Get(ctx context.Context, id string) (string, bool, error) {
	s.once.Do(func() { s.err = s.load(ctx) })
	if s.err != nil {
		return "", false, s.err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.chunks[id]
	return text, ok, nil
}

func (s *ChunkStore) load(ctx context.Context) error {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to open chunk corpus %s/%s: %w", s.bucket, s.object, err)
	}
	defer obj.Close()

	chunks, err := ParseChunkLines(obj)
	if err != nil {
		return fmt.Errorf("failed to parse chunk corpus %s/%s: %w", s.bucket, s.object, err)
	}

	s.mu.Lock()
	s.chunks = chunks
	s.mu.Unlock()

	logger.Info("chunk corpus loaded",
		zap.String("bucket", s.bucket),
		zap.String("object", s.object),
		zap.Int("chunks", len(chunks)))
	return nil
}

// ParseChunkLines reads a line-delimited JSON corpus into an id to text map.
// Blank lines are skipped; a malformed line fails the whole load.
func ParseChunkLines(r io.Reader) (map[string]string, error) {
	chunks := make(map[string]string)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var c chunkLine
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if c.ID == "" {
			return nil, fmt.Errorf("line %d: missing chunk id", lineNo)
		}
		chunks[c.ID] = c.Text
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return chunks, nil
}
