package sse

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(time.Minute)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishClipEvents(t *testing.T) {
	b := NewBroker(time.Minute)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	cases := []struct {
		kind string
		want string
	}{
		{"added", "clip.added"},
		{"removed", "clip.removed"},
		{"missing", "clip.missing"},
	}
	for _, tc := range cases {
		b.PublishClipEvent(tc.kind, "p1", "c1")
		select {
		case msg := <-ch:
			s := string(msg)
			if !strings.Contains(s, "event: "+tc.want) {
				t.Errorf("missing event type %q in %q", tc.want, s)
			}
			if !strings.Contains(s, `"photoId":"p1"`) || !strings.Contains(s, `"clipId":"c1"`) {
				t.Errorf("missing data in %q", s)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %s", tc.kind)
		}
	}
}

func TestHeartbeat(t *testing.T) {
	b := NewBroker(20 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	select {
	case msg := <-ch:
		if !strings.HasPrefix(string(msg), ": heartbeat") {
			t.Errorf("unexpected message %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for heartbeat")
	}
}

func TestCloseIdempotent(t *testing.T) {
	b := NewBroker(time.Minute)
	ch := b.Subscribe()
	b.Close()
	b.Close()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after broker Close")
	}
	if b.ClientCount() != 0 {
		t.Error("closed broker should report 0 clients")
	}
}

func TestSSEHandlerHeaders(t *testing.T) {
	b := NewBroker(time.Minute)
	defer b.Close()

	srv := httptest.NewServer(http.HandlerFunc(b.ServeHTTP))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content-type = %q", ct)
	}
}
