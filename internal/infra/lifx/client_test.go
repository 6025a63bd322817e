package lifx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lifx-skill/internal/domain"
	"lifx-skill/internal/infra/lifx"
)

func TestClient_ListLights(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet || r.URL.Path != "/lights/all" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "d1", "label": "Lamp", "connected": true, "power": "on", "group": map[string]any{"id": "g1", "name": "Office"}},
			{"id": "d2", "label": "Desk", "connected": false, "power": "off", "group": map[string]any{}},
		})
	}))
	defer server.Close()

	client := lifx.NewClientWithURL("test-token\n", server.URL, 0, 0)

	lights, err := client.ListLights(context.Background())
	if err != nil {
		t.Fatalf("ListLights error: %v", err)
	}

	if len(lights) != 2 {
		t.Fatalf("lights count: got %d, want 2", len(lights))
	}

	if lights[0].Label != "Lamp" || lights[0].Group != "Office" {
		t.Errorf("first light: got %+v", lights[0])
	}

	if lights[1].Group != "" {
		t.Errorf("second light group: got %q, want empty", lights[1].Group)
	}

	if lights[0].Power != domain.PowerOn {
		t.Errorf("power: got %s, want on", lights[0].Power)
	}
}

func TestClient_SetState(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.WriteHeader(http.StatusMultiStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"id": "d1", "label": "Lamp", "status": "ok"},
				{"id": "d3", "label": "Shelf", "status": "ok"},
			},
		})
	}))
	defer server.Close()

	client := lifx.NewClientWithURL("test-token", server.URL, 0, 0)

	results, err := client.SetState(context.Background(), domain.GroupSelector("Living Room"), domain.StateChange{
		Brightness: domain.Float(0.5),
	})
	if err != nil {
		t.Fatalf("SetState error: %v", err)
	}

	if gotPath != "/lights/group:Living Room/state" {
		t.Errorf("path: got %s", gotPath)
	}

	if gotBody["brightness"] != 0.5 {
		t.Errorf("brightness: got %v, want 0.5", gotBody["brightness"])
	}

	if _, ok := gotBody["power"]; ok {
		t.Error("power should be omitted when unset")
	}

	if len(gotBody) != 1 {
		t.Errorf("body: got %v, want brightness only", gotBody)
	}

	if len(results) != 2 {
		t.Errorf("results count: got %d, want 2", len(results))
	}
}

func TestClient_TogglePower(t *testing.T) {
	toggled := false

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/lights/label:Lamp/toggle" {
			toggled = true
			w.WriteHeader(http.StatusMultiStatus)
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{{"id": "d1", "label": "Lamp", "status": "ok"}},
			})
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := lifx.NewClientWithURL("test-token", server.URL, 0, 10)

	results, err := client.TogglePower(context.Background(), domain.LabelSelector("Lamp"))
	if err != nil {
		t.Fatalf("TogglePower error: %v", err)
	}

	if !toggled {
		t.Error("toggle was not sent to server")
	}

	if len(results) != 1 || results[0].Label != "Lamp" {
		t.Errorf("results: got %+v", results)
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid token"}`))
	}))
	defer server.Close()

	client := lifx.NewClientWithURL("bad", server.URL, 0, 0)

	_, err := client.ListLights(context.Background())

	var apiErr *lifx.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error: got %v, want APIError", err)
	}

	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", apiErr.StatusCode)
	}

	if apiErr.Message != "Invalid token" {
		t.Errorf("message: got %q", apiErr.Message)
	}
}

func TestClient_NoRetry(t *testing.T) {
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := lifx.NewClientWithURL("test-token", server.URL, 0, 0)

	if _, err := client.TogglePower(context.Background(), domain.SelectorAll); err == nil {
		t.Fatal("expected error")
	}

	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestClient_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := lifx.NewClientWithURL("test-token", server.URL, 0, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.ListLights(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error: got %v, want context.Canceled", err)
	}
}
