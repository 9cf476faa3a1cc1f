package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
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

func TestPublishDelivery(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "tree.imported", Data: map[string]string{"tree": "demo"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: tree.imported") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"tree":"demo"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishRecordEvent(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishRecordEvent("imported", "demo", "I1")

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: record.imported") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"xref":"I1"`) {
			t.Errorf("missing xref in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestSlowClientDoesNotBlock(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	// This client never reads; its buffer will fill up.
	slow := b.Subscribe()
	defer b.Unsubscribe(slow)
	fast := b.Subscribe()
	defer b.Unsubscribe(fast)

	for i := 0; i < 200; i++ {
		b.PublishRecordEvent("updated", "demo", "I1")
	}

	// The fast client should still receive messages.
	select {
	case <-fast:
	case <-time.After(2 * time.Second):
		t.Fatal("fast client starved by slow client")
	}
}

func TestServeHTTPStreamsEvents(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(rec, req)
		close(done)
	}()

	// Wait for the handler to subscribe, then publish.
	deadline := time.Now().Add(2 * time.Second)
	for b.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("handler never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	b.PublishRecordEvent("deleted", "demo", "F1")
	time.Sleep(50 * time.Millisecond)

	// Disconnect before touching the recorder.
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event: record.deleted") {
		t.Errorf("handler output missing event: %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
}

func TestCloseIdempotent(t *testing.T) {
	b := NewBroker()
	b.Close()
	b.Close()

	// Operations after close must not block or panic.
	ch := b.Subscribe()
	if _, ok := <-ch; ok {
		t.Error("channel from closed broker should be closed")
	}
	b.Publish(Event{Type: "x"})
	b.PublishRecordEvent("imported", "t", "x")
	if n := b.ClientCount(); n != 0 {
		t.Errorf("count = %d", n)
	}
}
