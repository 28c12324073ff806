// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package milvus stores chunks in a Milvus collection.
package milvus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"github.com/poiesic/docingest/vectorstore"
)

const (
	// DefaultDim is the vector dimension used when Config.Dim is zero.
	DefaultDim = 1024

	fieldID       = "id"
	fieldVector   = "vector"
	fieldMetadata = "metadata"
	fieldDocument = "document"

	maxVarCharLength = 65535
	shardNum         = 1
)

// Config holds the connection settings for a Milvus store.
type Config struct {
	// URI is the Milvus endpoint.
	// Example: "localhost:19530", "https://in03-xxx.serverless.gcp.zillizcloud.com"
	URI string

	// Token is the optional access token.
	Token string

	// Collection is the collection name.
	Collection string

	// Dim is the vector dimension used when the collection is created.
	// Default: 1024
	Dim int

	// Logger receives store diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

// Validate checks that required settings are present and fills defaults.
func (c *Config) Validate() error {
	c.URI = strings.TrimSpace(c.URI)
	c.Token = strings.TrimSpace(c.Token)
	c.Collection = strings.TrimSpace(c.Collection)
	if c.URI == "" {
		return errors.New("milvus config: URI is required")
	}
	if c.Collection == "" {
		return errors.New("milvus config: Collection is required")
	}
	if c.Dim < 0 {
		return errors.New("milvus config: Dim cannot be negative")
	}
	if c.Dim == 0 {
		c.Dim = DefaultDim
	}
	return nil
}

// milvusClient is the subset of client.Client the store uses.
type milvusClient interface {
	HasCollection(ctx context.Context, collName string) (bool, error)
	CreateCollection(ctx context.Context, schema *entity.Schema, shardsNum int32, opts ...client.CreateCollectionOption) error
	CreateIndex(ctx context.Context, collName string, fieldName string, idx entity.Index, async bool, opts ...client.IndexOption) error
	LoadCollection(ctx context.Context, collName string, async bool, opts ...client.LoadCollectionOption) error
	Upsert(ctx context.Context, collName string, partitionName string, columns ...entity.Column) (entity.Column, error)
	Close() error
}

// Store is a vectorstore.Store backed by Milvus.
type Store struct {
	client     milvusClient
	collection string
	dim        int
	logger     *slog.Logger
}

var _ vectorstore.Store = (*Store)(nil)

// New connects to Milvus and creates the collection if it does not exist.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := client.NewClient(ctx, client.Config{
		Address: cfg.URI,
		APIKey:  cfg.Token,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to milvus: %w", err)
	}
	return newStore(ctx, c, cfg), nil
}

func newStore(ctx context.Context, c milvusClient, cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		client:     c,
		collection: cfg.Collection,
		dim:        cfg.Dim,
		logger:     logger.With("component", "milvus", "collection", cfg.Collection),
	}
	// A collection that cannot be created here surfaces again on the first upsert.
	if err := s.ensureCollection(ctx); err != nil {
		s.logger.Error("failed to prepare milvus collection", "err", err)
	}
	return s
}

func (s *Store) ensureCollection(ctx context.Context) error {
	exists, err := s.client.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("checking collection: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.client.CreateCollection(ctx, collectionSchema(s.collection, s.dim), shardNum); err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	idx, err := entity.NewIndexAUTOINDEX(entity.COSINE)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}
	if err := s.client.CreateIndex(ctx, s.collection, fieldVector, idx, false); err != nil {
		return fmt.Errorf("creating index: %w", err)
	}
	if err := s.client.LoadCollection(ctx, s.collection, false); err != nil {
		return fmt.Errorf("loading collection: %w", err)
	}
	s.logger.Info("created milvus collection", "dim", s.dim)
	return nil
}

func collectionSchema(name string, dim int) *entity.Schema {
	return entity.NewSchema().
		WithName(name).
		WithDescription("document chunks").
		WithField(entity.NewField().
			WithName(fieldID).
			WithDataType(entity.FieldTypeVarChar).
			WithIsPrimaryKey(true).
			WithIsAutoID(false).
			WithMaxLength(maxVarCharLength)).
		WithField(entity.NewField().
			WithName(fieldVector).
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(dim))).
		WithField(entity.NewField().
			WithName(fieldMetadata).
			WithDataType(entity.FieldTypeJSON)).
		WithField(entity.NewField().
			WithName(fieldDocument).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(maxVarCharLength))
}

// Upsert writes records as one columnar upsert.
func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	ids := make([]string, len(records))
	vectors := make([][]float32, len(records))
	metadata := make([][]byte, len(records))
	documents := make([]string, len(records))
	for i, r := range records {
		if len(r.Vector) != s.dim {
			return nil, fmt.Errorf("milvus: record %s has dimension %d, collection expects %d", r.ID, len(r.Vector), s.dim)
		}
		meta, err := json.Marshal(metadataOrEmpty(r.Metadata))
		if err != nil {
			return nil, fmt.Errorf("encoding metadata for %s: %w", r.ID, err)
		}
		ids[i] = r.ID
		vectors[i] = r.Vector
		metadata[i] = meta
		documents[i] = r.Document
	}

	result, err := s.client.Upsert(ctx, s.collection, "",
		entity.NewColumnVarChar(fieldID, ids),
		entity.NewColumnFloatVector(fieldVector, s.dim, vectors),
		entity.NewColumnJSONBytes(fieldMetadata, metadata),
		entity.NewColumnVarChar(fieldDocument, documents),
	)
	if err != nil {
		return nil, fmt.Errorf("milvus upsert: %w", err)
	}

	if col, ok := result.(*entity.ColumnVarChar); ok {
		s.logger.Debug("upserted records", "count", col.Len())
		return col.Data(), nil
	}
	return ids, nil
}

func metadataOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

// Close closes the client connection.
func (s *Store) Close() error {
	return s.client.Close()
}
