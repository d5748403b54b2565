package httpapi

import (
	"net/http"
	"testing"

	"ideadrop.org/internal/config"
)

func bearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestCreateIdeaRequiresAuth(t *testing.T) {
	api := newTestAPI(t, config.CookiePolicy{})

	resp := api.post("/api/ideas", map[string]any{
		"title":       "t",
		"summary":     "s",
		"description": "d",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if resp.Header.Get("WWW-Authenticate") == "" {
		t.Fatal("expected WWW-Authenticate header")
	}
}

func TestIdeaCRUDFlow(t *testing.T) {
	api := newTestAPI(t, config.CookiePolicy{})
	sess, _ := api.register("Ada", "ada@example.com", "hunter2")
	authz := bearerHeader(sess.AccessToken)

	// Create.
	resp := api.post("/api/ideas", map[string]any{
		"title":       "Solar kettle",
		"summary":     "Boil water with sunlight",
		"description": "A parabolic mirror focused on a kettle.",
		"tags":        []string{"energy"},
	}, authz)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	created := decode[ideaPayload](t, resp)
	if created.ID == "" || created.UserID != sess.User.ID {
		t.Fatalf("unexpected idea: %+v", created)
	}

	// Public read.
	resp = api.do(http.MethodGet, "/api/ideas/"+created.ID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
	got := decode[ideaPayload](t, resp)
	if got.Title != "Solar kettle" {
		t.Fatalf("unexpected title: %s", got.Title)
	}

	// Public list.
	resp = api.do(http.MethodGet, "/api/ideas", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	list := decode[[]ideaPayload](t, resp)
	if len(list) != 1 {
		t.Fatalf("expected 1 idea, got %d", len(list))
	}

	// Update by owner.
	resp = api.do(http.MethodPut, "/api/ideas/"+created.ID, map[string]any{
		"title":       "Solar kettle v2",
		"summary":     "Boil water with sunlight",
		"description": "Now with better mirrors.",
	}, authz)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	updated := decode[ideaPayload](t, resp)
	if updated.Title != "Solar kettle v2" {
		t.Fatalf("unexpected title: %s", updated.Title)
	}

	// Delete by owner.
	resp = api.do(http.MethodDelete, "/api/ideas/"+created.ID, nil, authz)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = api.do(http.MethodGet, "/api/ideas/"+created.ID, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestIdeaMutationsEnforceOwnership(t *testing.T) {
	api := newTestAPI(t, config.CookiePolicy{})
	owner, _ := api.register("Ada", "ada@example.com", "hunter2")
	intruder, _ := api.register("Eve", "eve@example.com", "hunter2")

	resp := api.post("/api/ideas", map[string]any{
		"title":       "t",
		"summary":     "s",
		"description": "d",
	}, bearerHeader(owner.AccessToken))
	created := decode[ideaPayload](t, resp)

	resp = api.do(http.MethodPut, "/api/ideas/"+created.ID, map[string]any{
		"title":       "stolen",
		"summary":     "s",
		"description": "d",
	}, bearerHeader(intruder.AccessToken))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("update: expected 403, got %d", resp.StatusCode)
	}
	if body := decode[map[string]any](t, resp); body["error"] != "Not authorized" {
		t.Fatalf("unexpected error: %v", body["error"])
	}

	resp = api.do(http.MethodDelete, "/api/ideas/"+created.ID, nil, bearerHeader(intruder.AccessToken))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("delete: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestListIdeasLimit(t *testing.T) {
	api := newTestAPI(t, config.CookiePolicy{})
	sess, _ := api.register("Ada", "ada@example.com", "hunter2")
	authz := bearerHeader(sess.AccessToken)

	for _, title := range []string{"one", "two", "three"} {
		resp := api.post("/api/ideas", map[string]any{
			"title":       title,
			"summary":     "s",
			"description": "d",
		}, authz)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create %s: %d", title, resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp := api.do(http.MethodGet, "/api/ideas?_limit=2", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	list := decode[[]ideaPayload](t, resp)
	if len(list) != 2 || list[0].Title != "three" {
		t.Fatalf("expected newest 2 ideas, got %+v", list)
	}

	resp = api.do(http.MethodGet, "/api/ideas?_limit=nope", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCreateIdeaValidation(t *testing.T) {
	api := newTestAPI(t, config.CookiePolicy{})
	sess, _ := api.register("Ada", "ada@example.com", "hunter2")

	resp := api.post("/api/ideas", map[string]any{"title": "only a title"}, bearerHeader(sess.AccessToken))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decode[map[string]any](t, resp); body["error"] != "Title, summary and description are required" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
}
