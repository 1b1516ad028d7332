package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alfredjeanlab/gatehouse/internal/protocol"
)

func TestEntryAccess_Granted(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/entry-access" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := c.EntryAccess(context.Background(), "A1", "G1", protocol.DirectionIn)
	if err != nil {
		t.Fatalf("expected grant, got %v", err)
	}

	want := map[string]string{"rfid": "A1", "gateIdentifier": "G1", "direction": "in"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("request field %s = %q, want %q", k, got[k], v)
		}
	}
}

func TestEntryAccess_GrantedIgnoresBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	if err := c.EntryAccess(context.Background(), "A1", "G1", protocol.DirectionIn); err != nil {
		t.Fatalf("expected grant, got %v", err)
	}
}

func TestEntryAccess_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "USER_BANNED", "message": "user is banned"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := c.EntryAccess(context.Background(), "A1", "G1", protocol.DirectionOut)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Code != CodeUserBanned || apiErr.Message != "user is banned" || apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("got %+v", apiErr)
	}
}

func TestEntryAccess_MalformedErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := c.EntryAccess(context.Background(), "A1", "G1", protocol.DirectionIn)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Code != "UNKNOWN" {
		t.Errorf("got code %q, want UNKNOWN fallback", apiErr.Code)
	}
}

func TestEntryAccess_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, time.Second)
	err := c.EntryAccess(context.Background(), "A1", "G1", protocol.DirectionIn)
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not be an *APIError: %v", err)
	}
}

func TestEntryAccess_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := New(srv.URL, 50*time.Millisecond)
	err := c.EntryAccess(context.Background(), "A1", "G1", protocol.DirectionIn)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("timeout must not be an *APIError: %v", err)
	}
}
