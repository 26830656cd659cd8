package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"golang.org/x/oauth2"
)

func staticToken() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
}

func TestSend_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/projects/test-project/messages:send" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Fatalf("missing bearer token")
		}
		var payload sendRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.Message.Token != "device-1" {
			t.Fatalf("unexpected device token %q", payload.Message.Token)
		}
		if payload.Message.Notification.Title != "title" || payload.Message.Notification.Body != "body" {
			t.Fatalf("notification not forwarded: %+v", payload.Message.Notification)
		}
		if payload.Message.Data["type"] != "report" {
			t.Fatalf("data payload not forwarded")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewFCMClientWithTokenSource("test-project", ts.URL, staticToken())
	err := client.Send(context.Background(), "device-1", "title", "body", map[string]string{"type": "report"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
}

func TestSend_RetriesTransientFailure(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewFCMClientWithTokenSource("test-project", ts.URL, staticToken())
	if err := client.Send(context.Background(), "device-1", "t", "b", nil); err != nil {
		t.Fatalf("send failed after retry: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestSend_UnregisteredTokenNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewFCMClientWithTokenSource("test-project", ts.URL, staticToken())
	if err := client.Send(context.Background(), "gone-device", "t", "b", nil); err == nil {
		t.Fatal("expected error on 404")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected no retries on 404, got %d calls", calls)
	}
}
