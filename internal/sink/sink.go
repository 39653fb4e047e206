// Package sink delivers rendered output: locally onto the clipboard (or a
// fallback writer) and optionally out of band as JSON over HTTP.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"

	"github.com/google/uuid"

	"github.com/fakeyudi/devpulse/internal/bundle"
)

// clipboardCommands are tried in order; the first binary present wins.
var clipboardCommands = [][]string{
	{"pbcopy"},
	{"xclip", "-selection", "clipboard"},
	{"wl-copy"},
}

// PlaceText puts text on the system clipboard. When no clipboard tool is
// available it writes to fallback instead, so the rendered summary is never
// lost. Returns true when the clipboard was used.
func PlaceText(text string, fallback io.Writer) (bool, error) {
	for _, argv := range clipboardCommands {
		if _, err := exec.LookPath(argv[0]); err != nil {
			continue
		}
		cmd := exec.Command(argv[0], argv[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err != nil {
			continue
		}
		return true, nil
	}
	_, err := io.WriteString(fallback, text)
	return false, err
}

// DeliveryError reports a non-2xx response from the delivery endpoint.
type DeliveryError struct {
	Status int
	Body   string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("bundle delivery failed: status %d: %s", e.Status, e.Body)
}

// maxErrorBody bounds how much of a failure response is retained.
const maxErrorBody = 8 * 1024

// HTTPSink posts bundles as JSON to a fixed endpoint.
type HTTPSink struct {
	URL    string
	Client *http.Client // nil uses http.DefaultClient
}

// Deliver posts b to the endpoint. Any non-2xx response is returned as a
// *DeliveryError carrying the status code and response body; transport
// errors are wrapped. A delivery failure says nothing about the bundle
// itself, which was already produced locally.
func (s *HTTPSink) Deliver(ctx context.Context, b *bundle.ContextBundle) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", uuid.New().String())

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver bundle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &DeliveryError{Status: resp.StatusCode, Body: string(body)}
	}
	return nil
}
