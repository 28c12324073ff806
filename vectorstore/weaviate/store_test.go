package weaviate

import (
	"encoding/json"
	"testing"

	"github.com/go-openapi/strfmt"
	"github.com/poiesic/docingest/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/weaviate/entities/models"
)

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Host: " http://localhost:8080/ ", Class: " Chunk "}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8080", cfg.Host)
	assert.Equal(t, "Chunk", cfg.Class)

	cfg = Config{Class: "Chunk"}
	assert.ErrorContains(t, cfg.Validate(), "Host is required")

	cfg = Config{Host: "localhost:8080"}
	assert.ErrorContains(t, cfg.Validate(), "Class is required")
}

func TestConfig_ClientConfig(t *testing.T) {
	tests := []struct {
		host       string
		wantScheme string
		wantHost   string
	}{
		{"localhost:8080", "http", "localhost:8080"},
		{"http://localhost:8080", "http", "localhost:8080"},
		{"https://cluster.weaviate.network", "https", "cluster.weaviate.network"},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			cfg := Config{Host: tt.host, Class: "Chunk"}.clientConfig()
			assert.Equal(t, tt.wantScheme, cfg.Scheme)
			assert.Equal(t, tt.wantHost, cfg.Host)
			assert.Nil(t, cfg.AuthConfig)
		})
	}

	withKey := Config{Host: "localhost:8080", Class: "Chunk", APIKey: "secret"}.clientConfig()
	assert.NotNil(t, withKey.AuthConfig)
}

func TestObjectID_Deterministic(t *testing.T) {
	a := ObjectID("abc")
	assert.Equal(t, a, ObjectID("abc"))
	assert.NotEqual(t, a, ObjectID("abd"))
	assert.True(t, strfmt.IsUUID(a.String()))
}

func TestToObjects(t *testing.T) {
	records := []vectorstore.Record{
		{ID: "a", Vector: []float32{1, 2}, Document: "first", Metadata: map[string]string{"page_no": "1"}},
		{ID: "b", Document: "second"},
	}

	objects, byObject, err := toObjects("Chunk", records)
	require.NoError(t, err)
	require.Len(t, objects, 2)

	first := objects[0]
	assert.Equal(t, "Chunk", first.Class)
	assert.Equal(t, ObjectID("a"), first.ID)
	assert.Equal(t, models.C11yVector{1, 2}, first.Vector)

	props := first.Properties.(map[string]interface{})
	assert.Equal(t, "a", props[propChunkID])
	assert.Equal(t, "first", props[propDocument])
	var meta map[string]string
	require.NoError(t, json.Unmarshal([]byte(props[propMetadata].(string)), &meta))
	assert.Equal(t, "1", meta["page_no"])

	assert.Equal(t, "{}", objects[1].Properties.(map[string]interface{})[propMetadata])
	assert.Equal(t, "b", byObject[ObjectID("b")])
}

func TestAcknowledged_DropsRejectedObjects(t *testing.T) {
	byObject := map[strfmt.UUID]string{
		ObjectID("a"): "a",
		ObjectID("b"): "b",
		ObjectID("c"): "c",
	}
	resp := []models.ObjectsGetResponse{
		{Object: models.Object{ID: ObjectID("a")}},
		{
			Object: models.Object{ID: ObjectID("b")},
			Result: &models.ObjectsGetResponseAO2Result{
				Errors: &models.ErrorResponse{Error: []*models.ErrorResponseErrorItems0{{Message: "vector length mismatch"}}},
			},
		},
		{Object: models.Object{ID: ObjectID("c")}, Result: &models.ObjectsGetResponseAO2Result{}},
		{Object: models.Object{ID: ObjectID("unknown")}},
	}

	var rejected []string
	ids := acknowledged(resp, byObject, func(id, msg string) {
		rejected = append(rejected, id+": "+msg)
	})

	assert.Equal(t, []string{"a", "c"}, ids)
	assert.Equal(t, []string{"b: vector length mismatch"}, rejected)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{Host: "localhost:8080"})
	assert.ErrorContains(t, err, "Class is required")
}
