package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

// newFakeService returns a deterministic embedding service: the vector
// for a text is [len(text), first byte] so distinct inputs give
// distinct, stable vectors.
func newFakeService(t *testing.T, calls *int64) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/embed", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)

		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		vector := []float32{float32(len(req.Text)), float32(req.Text[0])}
		json.NewEncoder(w).Encode(embedResponse{Embedding: vector, Dims: 2})
	})

	return httptest.NewServer(mux)
}

func TestEmbedBatchEmptyInputSkipsService(t *testing.T) {
	var calls int64
	srv := newFakeService(t, &calls)
	defer srv.Close()

	client := New(srv.URL+"/embed", srv.URL+"/health", zerolog.Nop())

	out, err := client.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %v", out)
	}
	if n := atomic.LoadInt64(&calls); n != 0 {
		t.Errorf("empty input must not invoke the service, got %d calls", n)
	}
}

func TestEmbedBatchIndexAlignment(t *testing.T) {
	var calls int64
	srv := newFakeService(t, &calls)
	defer srv.Close()

	client := New(srv.URL+"/embed", srv.URL+"/health", zerolog.Nop())
	texts := []string{"alpha", "zz"}

	first, err := client.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(first))
	}
	if reflect.DeepEqual(first[0], first[1]) {
		t.Error("distinct texts must produce distinct vectors")
	}
	if first[0][0] != float32(len("alpha")) {
		t.Errorf("vector 0 does not correspond to texts[0]: %v", first[0])
	}
	if first[1][0] != float32(len("zz")) {
		t.Errorf("vector 1 does not correspond to texts[1]: %v", first[1])
	}

	// stable across repeated calls with the same input
	second, err := client.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("embeddings not stable: %v vs %v", first, second)
	}
}

func TestEmbedBatchHealthFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(srv.URL+"/embed", srv.URL+"/health", zerolog.Nop())

	if _, err := client.EmbedBatch(context.Background(), []string{"text"}); err == nil {
		t.Fatal("expected error when the service health probe fails")
	}

	// failure is cached, every later call surfaces the same condition
	if _, err := client.EmbedBatch(context.Background(), []string{"text"}); err == nil {
		t.Fatal("expected the cached initialization failure on repeat call")
	}
}

func TestEmbedBatchEmptyTextRejected(t *testing.T) {
	var calls int64
	srv := newFakeService(t, &calls)
	defer srv.Close()

	client := New(srv.URL+"/embed", srv.URL+"/health", zerolog.Nop())

	if _, err := client.EmbedBatch(context.Background(), []string{""}); err == nil {
		t.Fatal("expected error for empty text item")
	}
}

func TestEmbedBatchServiceError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/embed", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL+"/embed", srv.URL+"/health", zerolog.Nop())

	if _, err := client.EmbedBatch(context.Background(), []string{"text"}); err == nil {
		t.Fatal("expected error when the embed endpoint fails")
	}
}
