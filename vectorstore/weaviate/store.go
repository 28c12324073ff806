// Package weaviate stores chunks as objects of a Weaviate class.
//
// Weaviate object ids must be UUIDs, so every chunk id is mapped to a
// name-based UUID and kept verbatim in the chunk_id property.
package weaviate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/poiesic/docingest/vectorstore"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate/entities/models"
)

const (
	propChunkID  = "chunk_id"
	propDocument = "document"
	propMetadata = "metadata"
)

// objectNamespace seeds the name-based UUIDs derived from chunk ids.
var objectNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("docingest/chunk"))

// Config holds the connection settings for a Weaviate store.
type Config struct {
	// Host is the Weaviate endpoint, with or without scheme.
	// Example: "localhost:8080", "https://cluster.weaviate.network"
	Host string

	// APIKey is optional.
	APIKey string

	// Class is the object class chunks are written to.
	Class string

	// Logger receives store diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	c.Host = strings.TrimSuffix(strings.TrimSpace(c.Host), "/")
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Class = strings.TrimSpace(c.Class)
	if c.Host == "" {
		return errors.New("weaviate config: Host is required")
	}
	if c.Class == "" {
		return errors.New("weaviate config: Class is required")
	}
	return nil
}

// clientConfig splits Host into scheme and host for the client.
func (c Config) clientConfig() weaviate.Config {
	scheme := "http"
	host := c.Host
	if strings.HasPrefix(host, "https://") {
		scheme = "https"
	}
	host = strings.TrimPrefix(host, scheme+"://")

	cfg := weaviate.Config{Host: host, Scheme: scheme}
	if c.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{Value: c.APIKey}
	}
	return cfg
}

// Store is a vectorstore.Store backed by Weaviate.
type Store struct {
	client *weaviate.Client
	class  string
	logger *slog.Logger

	schemaOnce sync.Once
	schemaErr  error
}

var _ vectorstore.Store = (*Store)(nil)

// New creates a Weaviate client. The class is created on the first upsert.
func New(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := weaviate.NewClient(cfg.clientConfig())
	if err != nil {
		return nil, fmt.Errorf("creating weaviate client: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		class:  cfg.Class,
		logger: logger.With("component", "weaviate", "class", cfg.Class),
	}, nil
}

func (s *Store) ensureClass(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		exists, err := s.client.Schema().ClassExistenceChecker().WithClassName(s.class).Do(ctx)
		if err != nil {
			s.schemaErr = fmt.Errorf("checking class %s: %w", s.class, err)
			return
		}
		if exists {
			return
		}
		if err := s.client.Schema().ClassCreator().WithClass(classDefinition(s.class)).Do(ctx); err != nil {
			s.schemaErr = fmt.Errorf("creating class %s: %w", s.class, err)
			return
		}
		s.logger.Info("created weaviate class")
	})
	return s.schemaErr
}

func classDefinition(name string) *models.Class {
	return &models.Class{
		Class:       name,
		Description: "document chunks",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{Name: propChunkID, DataType: []string{"text"}},
			{Name: propDocument, DataType: []string{"text"}},
			{Name: propMetadata, DataType: []string{"text"}},
		},
		VectorIndexType: "hnsw",
	}
}

// ObjectID returns the Weaviate object id for a chunk id.
func ObjectID(chunkID string) strfmt.UUID {
	return strfmt.UUID(uuid.NewSHA1(objectNamespace, []byte(chunkID)).String())
}

// Upsert writes records through the objects batcher. Objects the server
// rejects individually are left out of the returned ids.
func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if err := s.ensureClass(ctx); err != nil {
		return nil, err
	}

	objects, byObject, err := toObjects(s.class, records)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate batch: %w", err)
	}

	ids := acknowledged(resp, byObject, func(id string, msg string) {
		s.logger.Warn("object rejected", "chunk_id", id, "err", msg)
	})
	return ids, nil
}

// toObjects converts records into Weaviate objects and returns the mapping
// from object id back to chunk id.
func toObjects(class string, records []vectorstore.Record) ([]*models.Object, map[strfmt.UUID]string, error) {
	objects := make([]*models.Object, 0, len(records))
	byObject := make(map[strfmt.UUID]string, len(records))
	for _, r := range records {
		meta := r.Metadata
		if meta == nil {
			meta = map[string]string{}
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding metadata for %s: %w", r.ID, err)
		}
		oid := ObjectID(r.ID)
		byObject[oid] = r.ID
		objects = append(objects, &models.Object{
			Class: class,
			ID:    oid,
			Properties: map[string]interface{}{
				propChunkID:  r.ID,
				propDocument: r.Document,
				propMetadata: string(metaJSON),
			},
			Vector: r.Vector,
		})
	}
	return objects, byObject, nil
}

// acknowledged returns the chunk ids of the objects the batch accepted, in
// response order.
func acknowledged(resp []models.ObjectsGetResponse, byObject map[strfmt.UUID]string, onReject func(id, msg string)) []string {
	ids := make([]string, 0, len(resp))
	for _, obj := range resp {
		id, ok := byObject[obj.ID]
		if !ok {
			continue
		}
		if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
			if onReject != nil {
				onReject(id, obj.Result.Errors.Error[0].Message)
			}
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Close is a no-op; the client holds no persistent connection.
func (s *Store) Close() error {
	return nil
}
