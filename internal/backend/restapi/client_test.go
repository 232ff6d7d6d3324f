package restapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"golang.org/x/oauth2"

	"taskdeck/internal/backend/restapi"
	"taskdeck/internal/service"
	"taskdeck/internal/testutil"
)

// noTokenSource simulates a signed-out session.
type noTokenSource struct{}

func (noTokenSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("no stored token")
}

func staticToken(tok string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"})
}

func newClient(t *testing.T, handler http.Handler, tokens oauth2.TokenSource, navigator *testutil.FakeNavigator) (*restapi.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	if navigator == nil {
		navigator = &testutil.FakeNavigator{}
	}
	c := restapi.New(srv.URL, tokens, navigator)
	c.SetHTTPClient(srv.Client())
	return c, srv
}

func TestList_NoToken_NoNetworkCall(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	c, _ := newClient(t, handler, noTokenSource{}, nil)

	_, err := c.List(context.Background(), "u1", "", "")
	if !errors.Is(err, service.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if err.Error() != "Not authenticated" {
		t.Errorf("expected message %q, got %q", "Not authenticated", err.Error())
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("expected no network calls, got %d", n)
	}
}

func TestList_DefaultsAndHeaders(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotContentType string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
	c, _ := newClient(t, handler, staticToken("tok-123"), nil)

	tasks, err := c.List(context.Background(), "u1", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty list, got %v", tasks)
	}
	if gotPath != "/api/u1/tasks" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotQuery != "sort=created&status=all" {
		t.Errorf("expected default filter/sort in query, got %q", gotQuery)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("unexpected Authorization header: %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("unexpected Content-Type: %q", gotContentType)
	}
}

func TestList_ExplicitFilterAndSort(t *testing.T) {
	var gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})
	c, _ := newClient(t, handler, staticToken("tok"), nil)

	if _, err := c.List(context.Background(), "u1", service.StatusPending, service.SortTitle); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "sort=title&status=pending" {
		t.Errorf("unexpected query: %q", gotQuery)
	}
}

func TestUnauthorized_RedirectsOnceAndFails(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	navigator := &testutil.FakeNavigator{}
	c, _ := newClient(t, handler, staticToken("expired"), navigator)

	_, err := c.Get(context.Background(), "u1", 7)
	if !errors.Is(err, service.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if err.Error() != "Authentication expired" {
		t.Errorf("expected message %q, got %q", "Authentication expired", err.Error())
	}

	redirects := navigator.Redirects()
	if len(redirects) != 1 || redirects[0] != "/login" {
		t.Errorf("expected exactly one redirect to /login, got %v", redirects)
	}
}

func TestDelete_NoContent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		// 204 carries no body; the client must not attempt a parse.
		w.WriteHeader(http.StatusNoContent)
	})
	c, _ := newClient(t, handler, staticToken("tok"), nil)

	if err := c.Delete(context.Background(), "u1", 3); err != nil {
		t.Fatalf("expected nil error on 204, got %v", err)
	}
}

func TestError_DetailSurfacedVerbatim(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Task not found"}`))
	})
	c, _ := newClient(t, handler, staticToken("tok"), nil)

	_, err := c.Get(context.Background(), "u1", 99)
	if err == nil || err.Error() != "Task not found" {
		t.Fatalf("expected detail message, got %v", err)
	}
}

func TestError_GenericWithoutDetail(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`oops`))
	})
	c, _ := newClient(t, handler, staticToken("tok"), nil)

	_, err := c.Get(context.Background(), "u1", 1)
	if err == nil || err.Error() != "API error: 500" {
		t.Fatalf("expected synthesized message, got %v", err)
	}
}

func TestCreate_SendsBodyAndDecodesTask(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1,"user_id":"u1","title":"Buy milk","description":null,"completed":false,"created_at":"2026-08-30T10:00:00Z","updated_at":"2026-08-30T10:00:00Z"}`))
	})
	c, _ := newClient(t, handler, staticToken("tok"), nil)

	task, err := c.Create(context.Background(), "u1", service.CreateInput{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != 1 || task.Title != "Buy milk" || task.Completed {
		t.Errorf("unexpected task: %+v", task)
	}
	if task.Description != nil {
		t.Errorf("expected absent description, got %q", *task.Description)
	}
}

func TestToggle_UsesPatchCompletePath(t *testing.T) {
	var gotMethod, gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"id":4,"user_id":"u1","title":"x","completed":true}`))
	})
	c, _ := newClient(t, handler, staticToken("tok"), nil)

	task, err := c.ToggleComplete(context.Background(), "u1", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/api/u1/tasks/4/complete" {
		t.Errorf("unexpected request: %s %s", gotMethod, gotPath)
	}
	if !task.Completed {
		t.Errorf("expected completed flipped true, got %+v", task)
	}
}
