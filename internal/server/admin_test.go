package server

import (
	"net/http"
	"strconv"
	"testing"

	"pig-parade/internal/config"
)

func TestAdminTokenCarriers(t *testing.T) {
	newRequest := func(configure func(r *http.Request)) *http.Request {
		r, err := http.NewRequest(http.MethodDelete, "http://example.test/api/pigs/1", nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		configure(r)
		return r
	}

	cases := []struct {
		name string
		req  *http.Request
		want string
	}{
		{"custom header", newRequest(func(r *http.Request) {
			r.Header.Set("X-Admin-Token", "alpha")
		}), "alpha"},
		{"bearer auth", newRequest(func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer beta")
		}), "beta"},
		{"query parameter", newRequest(func(r *http.Request) {
			q := r.URL.Query()
			q.Set("token", "gamma")
			r.URL.RawQuery = q.Encode()
		}), "gamma"},
		{"cookie", newRequest(func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "admin_token", Value: "delta"})
		}), "delta"},
		{"header wins over cookie", newRequest(func(r *http.Request) {
			r.Header.Set("X-Admin-Token", "alpha")
			r.AddCookie(&http.Cookie{Name: "admin_token", Value: "delta"})
		}), "alpha"},
		{"absent", newRequest(func(r *http.Request) {}), ""},
	}
	for _, tc := range cases {
		if got := adminToken(tc.req); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestDeleteRequiresAdmin(t *testing.T) {
	cfg := config.Default()
	cfg.AdminToken = "swordfish"
	ts, _ := newTestServer(t, cfg)

	id := submitPig(t, ts, "Guarded", "203.0.113.160")
	path := "/api/pigs/" + strconv.Itoa(id)

	resp := doRequest(t, ts, http.MethodDelete, path, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
	resp = doRequestHeaders(t, ts, http.MethodDelete, path, nil, map[string]string{
		"X-Admin-Token": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong token: expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}

	// The pig survived both attempts.
	resp = doRequest(t, ts, http.MethodGet, path, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp = doRequestHeaders(t, ts, http.MethodDelete, path, nil, map[string]string{
		"Authorization": "Bearer swordfish",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid token: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	resp = doRequest(t, ts, http.MethodGet, path, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d after delete, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestDeleteUnconfiguredAdmin(t *testing.T) {
	ts, _ := newTestServer(t, config.Default())

	id := submitPig(t, ts, "Untouchable", "203.0.113.170")
	resp := doRequestHeaders(t, ts, http.MethodDelete, "/api/pigs/"+strconv.Itoa(id), nil, map[string]string{
		"X-Admin-Token": "anything",
	})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, resp.StatusCode)
	}
}

func TestDeleteMissingPig(t *testing.T) {
	cfg := config.Default()
	cfg.AdminToken = "swordfish"
	ts, _ := newTestServer(t, cfg)

	resp := doRequestHeaders(t, ts, http.MethodDelete, "/api/pigs/9999", nil, map[string]string{
		"X-Admin-Token": "swordfish",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestEventsEndpoint(t *testing.T) {
	cfg := config.Default()
	cfg.AdminToken = "swordfish"
	ts, _ := newTestServer(t, cfg)

	resp := doRequest(t, ts, http.MethodGet, "/api/events", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}

	id := submitPig(t, ts, "Audited", "203.0.113.180")
	resp = doRequestHeaders(t, ts, http.MethodGet, "/api/events?token=swordfish", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	events := body["events"].([]any)
	if len(events) == 0 {
		t.Fatalf("expected at least one event")
	}
	first := events[0].(map[string]any)
	if first["type"] != "pig_submitted" {
		t.Fatalf("expected pig_submitted event, got %v", first["type"])
	}
	if int(first["pig_id"].(float64)) != id {
		t.Fatalf("expected event for pig %d, got %v", id, first["pig_id"])
	}
}
