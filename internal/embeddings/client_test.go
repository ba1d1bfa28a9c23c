package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty base URL",
			config:  Config{BaseURL: "", Model: "test-model"},
			wantErr: true,
		},
		{
			name:    "empty model",
			config:  Config{BaseURL: "http://localhost:8080/v1", Model: ""},
			wantErr: true,
		},
		{
			name:    "valid config",
			config:  Config{BaseURL: "http://localhost:8080/v1", Model: "test-model"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func embedServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{BaseURL: srv.URL, Model: "test-model"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestEmbed_Success(t *testing.T) {
	client := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Errorf("got %d inputs, want 2", len(req.Input))
		}

		// Respond out of order to exercise index-based placement.
		resp := embeddingResponse{}
		resp.Data = []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}{
			{Index: 1, Embedding: []float32{0.4, 0.5}},
			{Index: 0, Embedding: []float32{0.1, 0.2}},
		}
		json.NewEncoder(w).Encode(resp)
	})

	vectors, err := client.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	if vectors[0][0] != 0.1 || vectors[1][0] != 0.4 {
		t.Errorf("vectors not placed by index: %v", vectors)
	}
}

func TestEmbed_RetriesOnce(t *testing.T) {
	attempts := 0
	client := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		resp := embeddingResponse{}
		resp.Data = []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}{
			{Index: 0, Embedding: []float32{0.1}},
		}
		json.NewEncoder(w).Encode(resp)
	})

	vectors, err := client.Embed(context.Background(), []string{"text"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if len(vectors) != 1 {
		t.Errorf("got %d vectors, want 1", len(vectors))
	}
}

func TestEmbed_FailsAfterRetry(t *testing.T) {
	attempts := 0
	client := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.Embed(context.Background(), []string{"text"})
	if err == nil {
		t.Fatal("Embed() should fail when the provider keeps erroring")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2 (single retry)", attempts)
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Errorf("error should be *ProviderError, got %T", err)
	}
}

func TestEmbed_CountMismatch(t *testing.T) {
	client := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		resp := embeddingResponse{}
		resp.Data = []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}{
			{Index: 0, Embedding: []float32{0.1}},
		}
		json.NewEncoder(w).Encode(resp)
	})

	_, err := client.Embed(context.Background(), []string{"one", "two"})
	if err == nil {
		t.Fatal("Embed() should fail when the provider returns fewer vectors than inputs")
	}
}

func TestEmbed_EmptyInput(t *testing.T) {
	client := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called for empty input")
	})

	_, err := client.Embed(context.Background(), nil)
	if err == nil {
		t.Fatal("Embed() should reject empty input")
	}
}

func TestEmbed_ContextCancelled(t *testing.T) {
	client := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusServiceUnavailable)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Embed(ctx, []string{"text"})
	if err == nil {
		t.Fatal("Embed() should fail with cancelled context")
	}
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Errorf("error should be *ProviderError, got %T", err)
	}
}
