package twitchapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestTokenSource_Get(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %s, want client_credentials", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "app-token",
			"expires_in":   3600,
			"token_type":   "bearer",
		})
	}))
	defer server.Close()

	ts := &TokenSource{
		ClientID:     "id",
		ClientSecret: "secret",
		HTTPClient: &http.Client{
			Transport: &rewriteTransport{Transport: http.DefaultTransport, host: server.URL},
		},
	}

	tok, err := ts.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if tok != "app-token" {
		t.Errorf("token = %s, want app-token", tok)
	}

	// Second call must be served from cache.
	if _, err := ts.Get(context.Background()); err != nil {
		t.Fatalf("Get cached: %v", err)
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("token endpoint requests = %d, want 1", n)
	}
}

func TestTokenSource_GetRefreshesStaleToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "fresh-token",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	ts := &TokenSource{
		ClientID:     "id",
		ClientSecret: "secret",
		HTTPClient: &http.Client{
			Transport: &rewriteTransport{Transport: http.DefaultTransport, host: server.URL},
		},
	}
	ts.token = "stale-token"
	ts.expiresAt = time.Now().Add(10 * time.Second) // inside the refresh buffer

	tok, err := ts.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if tok != "fresh-token" {
		t.Errorf("token = %s, want fresh-token", tok)
	}
}

func TestTokenSource_GetMissingCredentials(t *testing.T) {
	ts := &TokenSource{}
	_, err := ts.Get(context.Background())
	if err == nil || !strings.Contains(err.Error(), "missing client id/secret") {
		t.Errorf("Get() error = %v, want missing credentials error", err)
	}
}

func TestStaticChatToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "bare token gains prefix", token: "abc123", want: "oauth:abc123"},
		{name: "prefixed token not doubled", token: "oauth:abc123", want: "oauth:abc123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StaticChatToken(tt.token).IRCToken()
			if err != nil {
				t.Fatalf("IRCToken: %v", err)
			}
			if got != tt.want {
				t.Errorf("IRCToken() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStaticChatTokenEmpty(t *testing.T) {
	if _, err := StaticChatToken("").IRCToken(); err == nil {
		t.Error("IRCToken() on empty token = nil error, want error")
	}
}
