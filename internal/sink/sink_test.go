package sink_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fakeyudi/devpulse/internal/bundle"
	"github.com/fakeyudi/devpulse/internal/sink"
)

func testBundle() *bundle.ContextBundle {
	return &bundle.ContextBundle{Version: bundle.Version, Timestamp: "2026-01-01T00:00:00Z"}
}

func TestDeliverSuccess(t *testing.T) {
	var gotContentType, gotDeliveryID string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotDeliveryID = r.Header.Get("X-Delivery-Id")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := &sink.HTTPSink{URL: srv.URL}
	if err := s.Deliver(context.Background(), testBundle()); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotDeliveryID == "" {
		t.Error("missing X-Delivery-Id header")
	}
	if _, err := bundle.Decode(gotBody); err != nil {
		t.Errorf("posted body is not a valid bundle: %v", err)
	}
}

func TestDeliverNon2xxIsDeliveryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream unavailable")
	}))
	defer srv.Close()

	s := &sink.HTTPSink{URL: srv.URL}
	err := s.Deliver(context.Background(), testBundle())
	if err == nil {
		t.Fatal("expected delivery error, got nil")
	}
	var dErr *sink.DeliveryError
	if !errors.As(err, &dErr) {
		t.Fatalf("expected *DeliveryError, got %T: %v", err, err)
	}
	if dErr.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", dErr.Status)
	}
	if dErr.Body != "upstream unavailable" {
		t.Errorf("Body = %q", dErr.Body)
	}
}

func TestDeliverTransportErrorIsNotDeliveryError(t *testing.T) {
	s := &sink.HTTPSink{URL: "http://127.0.0.1:1"} // nothing listens here
	err := s.Deliver(context.Background(), testBundle())
	if err == nil {
		t.Fatal("expected transport error, got nil")
	}
	var dErr *sink.DeliveryError
	if errors.As(err, &dErr) {
		t.Fatalf("transport failure misreported as DeliveryError: %v", err)
	}
}
