package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
)

func testCreds() usecase.Credentials {
	return usecase.Credentials{
		SessionID: "sess-1",
		TokenPair: usecase.TokenPair{Access: "old-access", Refresh: "refresh-1"},
	}
}

func TestClientAttachesBearerAndIdempotencyKey(t *testing.T) {
	var gotAuth, gotIdem string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotIdem = r.Header.Get("X-Idempotency-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	var out map[string]bool
	err := c.do(context.Background(), testCreds(), call{
		method:  http.MethodPost,
		path:    "/orders/orders/",
		body:    map[string]int{"x": 1},
		idemKey: "key-123",
	}, &out)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotAuth != "Bearer old-access" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotIdem != "key-123" {
		t.Errorf("X-Idempotency-Key = %q", gotIdem)
	}
}

func TestClientRefreshesOnceOn401(t *testing.T) {
	var calls atomic.Int32
	var savedSession, savedAccess string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token/refresh/":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["refresh"] != "refresh-1" {
				t.Errorf("refresh body = %v", body)
			}
			_, _ = w.Write([]byte(`{"access":"new-access"}`))
		default:
			calls.Add(1)
			if r.Header.Get("Authorization") == "Bearer new-access" {
				_, _ = w.Write([]byte(`{"ok":true}`))
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"token expired"}`))
		}
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, WithAccessSaver(func(ctx context.Context, sessionID, access string) error {
		savedSession, savedAccess = sessionID, access
		return nil
	}))

	var out map[string]bool
	if err := c.do(context.Background(), testCreds(), call{method: http.MethodGet, path: "/core/users/me/"}, &out); err != nil {
		t.Fatalf("do: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("resource calls = %d, want original + retry", got)
	}
	if savedSession != "sess-1" || savedAccess != "new-access" {
		t.Errorf("refresh hook got (%q, %q)", savedSession, savedAccess)
	}
}

func TestClientSecond401IsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token/refresh/" {
			_, _ = w.Write([]byte(`{"access":"still-bad"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"nope"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	err := c.do(context.Background(), testCreds(), call{method: http.MethodGet, path: "/core/users/me/"}, nil)

	var ue *usecase.UpstreamError
	if !errors.As(err, &ue) || ue.Status != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 UpstreamError", err)
	}
	if ue.Message != "nope" {
		t.Errorf("message = %q, want backend detail", ue.Message)
	}
}

func TestClientErrorMessageExtraction(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"error":"boom"}`, "boom"},
		{`{"detail":"not found"}`, "not found"},
		{`{"message":"try later"}`, "try later"},
		{`<html>gateway timeout</html>`, "request failed"},
		{``, "request failed"},
	}
	for _, c := range cases {
		if got := errorMessage([]byte(c.body)); got != c.want {
			t.Errorf("errorMessage(%q) = %q, want %q", c.body, got, c.want)
		}
	}
}

func TestClientNoRefreshWithoutRefreshToken(t *testing.T) {
	var refreshCalled bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token/refresh/" {
			refreshCalled = true
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"expired"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	cr := usecase.Credentials{SessionID: "s", TokenPair: usecase.TokenPair{Access: "a"}}
	err := c.do(context.Background(), cr, call{method: http.MethodGet, path: "/core/users/me/"}, nil)

	var ue *usecase.UpstreamError
	if !errors.As(err, &ue) || ue.Status != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
	if refreshCalled {
		t.Error("refresh attempted without a refresh token")
	}
}
