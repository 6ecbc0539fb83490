package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/resolve" {
			t.Errorf("Expected /resolve path, got %s", r.URL.Path)
		}

		var req resolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Assertion != "test-assertion" {
			t.Errorf("Expected test-assertion, got %s", req.Assertion)
		}

		json.NewEncoder(w).Encode(Identity{
			DID:         "did:plc:abc123",
			Handle:      "alice.bsky.social",
			DisplayName: "Alice",
		})
	}))
	defer server.Close()

	os.Setenv("IDENTITY_RESOLVER_URL", server.URL)
	defer os.Unsetenv("IDENTITY_RESOLVER_URL")

	p := NewATProtoProvider()
	ident, err := p.Resolve(context.Background(), "test-assertion")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ident.DID != "did:plc:abc123" {
		t.Errorf("unexpected DID: %s", ident.DID)
	}
	if ident.Handle != "alice.bsky.social" {
		t.Errorf("unexpected handle: %s", ident.Handle)
	}
}

func TestResolveRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	os.Setenv("IDENTITY_RESOLVER_URL", server.URL)
	defer os.Unsetenv("IDENTITY_RESOLVER_URL")

	p := NewATProtoProvider()
	if _, err := p.Resolve(context.Background(), "bad-assertion"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestResolveMissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Identity{DID: "did:plc:abc123"})
	}))
	defer server.Close()

	os.Setenv("IDENTITY_RESOLVER_URL", server.URL)
	defer os.Unsetenv("IDENTITY_RESOLVER_URL")

	p := NewATProtoProvider()
	if _, err := p.Resolve(context.Background(), "test-assertion"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestResolveServerDown(t *testing.T) {
	os.Setenv("IDENTITY_RESOLVER_URL", "http://127.0.0.1:1")
	defer os.Unsetenv("IDENTITY_RESOLVER_URL")

	p := NewATProtoProvider()
	if _, err := p.Resolve(context.Background(), "test-assertion"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
