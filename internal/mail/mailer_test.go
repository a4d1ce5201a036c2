package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeDispatcher struct {
	fail map[string]bool
	sent []Message
}

func (f *fakeDispatcher) Send(_ context.Context, msg Message) error {
	if f.fail[msg.To] {
		return errors.New("provider rejected")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestSendAllPartialFailure(t *testing.T) {
	d := &fakeDispatcher{fail: map[string]bool{"b@test": true}}
	report := SendAll(context.Background(), d, Message{Subject: "s", HTML: "<p>x</p>"}, []string{"a@test", "b@test", "c@test"})
	if report.Sent != 2 || report.Failed != 1 {
		t.Fatalf("expected 2 sent / 1 failed, got %d/%d", report.Sent, report.Failed)
	}
	if len(report.Results) != 3 {
		t.Fatalf("expected per-recipient results, got %d", len(report.Results))
	}
	if report.Results[1].OK || report.Results[1].Err == "" {
		t.Fatalf("failed recipient must carry error: %+v", report.Results[1])
	}
	if len(d.sent) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(d.sent))
	}
}

func TestHTTPDispatcherSend(t *testing.T) {
	var received Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key123" {
			t.Errorf("missing auth header")
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewHTTPDispatcher(srv.URL, "key123", "noreply@test", 5*time.Second)
	err := d.Send(context.Background(), Message{To: "a@test", Subject: "Hello", HTML: "<p>hi</p>"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if received.To != "a@test" || received.From != "noreply@test" {
		t.Fatalf("unexpected payload: %+v", received)
	}
}

func TestHTTPDispatcherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewHTTPDispatcher(srv.URL, "", "noreply@test", 5*time.Second)
	if err := d.Send(context.Background(), Message{To: "a@test"}); err == nil {
		t.Fatalf("expected error on 502")
	}

	disabled := NewHTTPDispatcher("", "", "", time.Second)
	if err := disabled.Send(context.Background(), Message{To: "a@test"}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}
