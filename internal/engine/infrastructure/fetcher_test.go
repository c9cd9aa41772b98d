package infrastructure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSourceClient_FetchAll(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[{"modified_gml_id":"BLDG_1"}]`))
	}))
	defer server.Close()

	tokenSource := func(ctx context.Context) (string, error) { return "secret-token", nil }
	client := NewSourceClient(server.URL, "", 5*time.Second, tokenSource)

	body, err := client.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if string(body) != `[{"modified_gml_id":"BLDG_1"}]` {
		t.Errorf("unexpected body: %s", body)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("authorization header = %q, want bearer token", gotAuth)
	}
}

func TestSourceClient_FetchAllErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewSourceClient(server.URL, "", 5*time.Second, nil)
	if _, err := client.FetchAll(context.Background()); err == nil {
		t.Fatalf("expected error for 502 response")
	}
}

func TestSourceClient_FetchAttributes(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	tests := []struct {
		name     string
		urlSpec  string
		wantPath string
	}{
		{name: "path segment append", urlSpec: server.URL + "/attributes", wantPath: "/attributes/BLDGL1"},
		{name: "placeholder substitution", urlSpec: server.URL + "/buildings/%s/detail", wantPath: "/buildings/BLDGL1/detail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewSourceClient("", tt.urlSpec, 5*time.Second, nil)
			if _, err := client.FetchAttributes(context.Background(), "BLDGL1"); err != nil {
				t.Fatalf("FetchAttributes: %v", err)
			}
			if gotPath != tt.wantPath {
				t.Errorf("request path = %q, want %q", gotPath, tt.wantPath)
			}
		})
	}
}

func TestSourceClient_FetchAttributesUnconfigured(t *testing.T) {
	client := NewSourceClient("http://example.invalid", "", time.Second, nil)
	if _, err := client.FetchAttributes(context.Background(), "BLDGL1"); err == nil {
		t.Fatalf("expected error when no attributes endpoint is configured")
	}
}
