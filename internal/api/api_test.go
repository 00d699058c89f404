package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tickcast/tickcast/internal/api"
	"github.com/tickcast/tickcast/internal/status"
)

func newServer(t *testing.T, st *status.Store) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(api.New(st))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string) map[string]interface{} {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var m map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return m
}

func TestHealth(t *testing.T) {
	st := status.New()
	st.SetState("running")
	st.SetConnections(2)
	srv := newServer(t, st)

	m := getJSON(t, srv.URL+"/api/v1/health")
	if m["state"] != "running" {
		t.Errorf("state: got %v, want running", m["state"])
	}
	if m["connections"] != float64(2) {
		t.Errorf("connections: got %v, want 2", m["connections"])
	}
}

func TestStatus(t *testing.T) {
	st := status.New()
	st.SetState("running")
	st.RecordBroadcast()
	st.RecordFrameSent()
	st.RecordFrameSent()
	srv := newServer(t, st)

	m := getJSON(t, srv.URL+"/api/v1/status")
	if m["broadcasts"] != float64(1) {
		t.Errorf("broadcasts: got %v, want 1", m["broadcasts"])
	}
	if m["frames_sent"] != float64(2) {
		t.Errorf("frames_sent: got %v, want 2", m["frames_sent"])
	}
	if _, ok := m["uptime_seconds"]; !ok {
		t.Error("uptime_seconds: missing")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newServer(t, status.New())

	resp, err := http.Post(srv.URL+"/api/v1/health", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", resp.StatusCode)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := newServer(t, status.New())

	resp, err := http.Get(srv.URL + "/api/v1/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}
