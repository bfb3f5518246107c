package business

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tavolohq/tavolo/internal/domain"
)

func samplePayload() PublishPayload {
	return PublishPayload{
		Hours: domain.WeeklySchedule{
			"monday": {Day: "Monday", IsOpen: true, Periods: []domain.Period{{Open: "09:00", Close: "18:00"}}},
		},
	}
}

func TestPublishHoursSendsPayloadAndAuth(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload PublishPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"accepted","updated_at":"2024-06-10T10:00:00Z"}`))
	}))
	defer server.Close()

	client := NewClient(WithEndpoints(Endpoints{Publish: server.URL}))
	result, err := client.PublishHours(context.Background(), "loc-123", samplePayload(), AuthContext{Token: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != "accepted" || result.UpdatedAt != "2024-06-10T10:00:00Z" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if gotPath != "/loc-123:updateHours" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if !gotPayload.Hours["monday"].IsOpen {
		t.Fatalf("payload lost in transit: %+v", gotPayload)
	}
}

func TestPublishHoursUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"permission denied"}`))
	}))
	defer server.Close()

	client := NewClient(WithEndpoints(Endpoints{Publish: server.URL}))
	_, err := client.PublishHours(context.Background(), "loc-123", samplePayload(), AuthContext{Token: "secret"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	var upstreamErr *UpstreamRequestError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamRequestError, got %T", err)
	}
	if upstreamErr.StatusCode != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", upstreamErr.StatusCode)
	}
}

func TestPublishHoursRequiresCredentials(t *testing.T) {
	client := NewClient()
	_, err := client.PublishHours(context.Background(), "loc-123", samplePayload(), AuthContext{})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestPublishHoursRequiresLocation(t *testing.T) {
	client := NewClient()
	_, err := client.PublishHours(context.Background(), "  ", samplePayload(), AuthContext{Token: "secret"})
	if err == nil {
		t.Fatal("expected error for missing location id")
	}
}
