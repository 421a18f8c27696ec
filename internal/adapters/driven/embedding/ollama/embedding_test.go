package ollama

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	s := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultModel, s.ModelName())
	assert.Equal(t, DefaultDimensions, s.Dimensions())
	assert.Equal(t, DefaultBaseURL, s.baseURL)
}

func TestEmbed_Success(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-minilm", req.Model)
		assert.Equal(t, "hello", req.Prompt)

		json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{3, 4}})
	})

	s := NewEmbeddingService(Config{BaseURL: server.URL, Dimensions: 2})
	vec, err := s.Embed(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, vec, 2)

	// Raw (3,4) has magnitude 5; the result must be unit length.
	assert.InDelta(t, 0.6, float64(vec[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(vec[1]), 1e-6)
}

func TestEmbed_ServerError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	s := NewEmbeddingService(Config{BaseURL: server.URL})
	_, err := s.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestEmbed_EmptyEmbedding(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{})
	})

	s := NewEmbeddingService(Config{BaseURL: server.URL})
	_, err := s.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty embedding")
}

func TestEmbedBatch_OrderMatchesInput(t *testing.T) {
	calls := 0
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		calls++
		// Encode the call order into the vector.
		json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{float64(calls), 0}})
	})

	s := NewEmbeddingService(Config{BaseURL: server.URL, RequestsPerSecond: 1000})
	vecs, err := s.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, 3, calls)
	for _, v := range vecs {
		assert.InDelta(t, 1.0, float64(v[0]), 1e-6)
	}
}

func TestEmbedBatch_PropagatesError(t *testing.T) {
	calls := 0
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{1, 0}})
	})

	s := NewEmbeddingService(Config{BaseURL: server.URL, RequestsPerSecond: 1000})
	_, err := s.EmbedBatch(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed text 1")
}

func TestPing(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	s := NewEmbeddingService(Config{BaseURL: server.URL})
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}

func TestPing_Unreachable(t *testing.T) {
	s := NewEmbeddingService(Config{BaseURL: "http://127.0.0.1:1"})
	assert.Error(t, s.Ping(context.Background()))
}

func TestNormalize(t *testing.T) {
	vec := Normalize([]float64{3, 4})
	assert.InDelta(t, 1.0, math.Hypot(float64(vec[0]), float64(vec[1])), 1e-6)

	zero := Normalize([]float64{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}
