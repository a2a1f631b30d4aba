package brightdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := New(context.Background(), zap.NewNop(), "test-token")
	client.APIURL = srv.URL
	client.HTTPClient = srv.Client()
	client.PollInterval = time.Millisecond

	return client
}

func TestTriggerReturnsSnapshotID(t *testing.T) {
	var gotAuth string
	var gotQuery map[string]string
	var gotPayload []map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/datasets/v3/trigger" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{
			"dataset_id":      r.URL.Query().Get("dataset_id"),
			"type":            r.URL.Query().Get("type"),
			"discover_by":     r.URL.Query().Get("discover_by"),
			"limit_per_input": r.URL.Query().Get("limit_per_input"),
		}

		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"snapshot_id": "s_abc123"})
	})

	id, err := client.Trigger(&SearchParams{Location: "Berlin", Keyword: "golang"}, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if id != "s_abc123" {
		t.Fatalf("expected snapshot id s_abc123, got %q", id)
	}

	if gotAuth != "Bearer test-token" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}

	if gotQuery["type"] != "discover_new" || gotQuery["discover_by"] != "keyword" {
		t.Fatalf("unexpected trigger query: %v", gotQuery)
	}

	if gotQuery["limit_per_input"] != "20" {
		t.Fatalf("expected limit_per_input 20, got %q", gotQuery["limit_per_input"])
	}

	if len(gotPayload) != 1 || gotPayload[0]["location"] != "Berlin" {
		t.Fatalf("unexpected trigger payload: %v", gotPayload)
	}
}

func TestTriggerMissingSnapshotID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	if _, err := client.Trigger(&SearchParams{Location: "Berlin"}, 0); err == nil {
		t.Fatal("expected error when snapshot_id is missing")
	}
}

func TestTriggerBadStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid dataset", http.StatusBadRequest)
	})

	if _, err := client.Trigger(&SearchParams{Location: "Berlin"}, 0); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestWaitForSnapshotRetriesUntilReady(t *testing.T) {
	attempts := 0

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/datasets/v3/snapshot/s_abc123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("expected format=json query, got %q", r.URL.Query().Get("format"))
		}

		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusAccepted)
			return
		}

		json.NewEncoder(w).Encode([]map[string]any{
			{"job_posting_id": "1", "job_title": "Go Developer"},
			{"job_posting_id": "2", "job_title": "SRE"},
		})
	})

	listings, err := client.WaitForSnapshot(context.Background(), "s_abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}

	if listings.Len() != 2 {
		t.Fatalf("expected 2 listings, got %d", listings.Len())
	}

	if listings.Items[0].ID() != "1" {
		t.Fatalf("unexpected first listing id: %q", listings.Items[0].ID())
	}
}

func TestWaitForSnapshotFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "snapshot gone", http.StatusNotFound)
	})

	if _, err := client.WaitForSnapshot(context.Background(), "s_missing"); err == nil {
		t.Fatal("expected error on non-200/202 status")
	}
}

func TestWaitForSnapshotCancelsInFlightRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Hold the response until the caller gives up.
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.WaitForSnapshot(ctx, "s_abc123")
	if err == nil {
		t.Fatal("expected error when context is canceled mid-request")
	}

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("expected cancellation to abort the request promptly, took %s", elapsed)
	}
}

func TestWaitForSnapshotContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	client.PollInterval = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := client.WaitForSnapshot(ctx, "s_abc123"); err == nil {
		t.Fatal("expected error when context deadline passes")
	}
}
