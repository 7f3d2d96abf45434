// v2
// http.go
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sensity-app/SensityDashboard/internal/breaker"
)

// HTTPSender posts JSON payloads to the collector's ingest API, guarded by a
// circuit breaker so a dead collector is skipped cheaply instead of eating a
// full timeout on every cadence.
type HTTPSender struct {
	baseURL  string
	deviceID string
	apiKey   string
	client   *breaker.HTTPClient
	log      *slog.Logger
}

// NewHTTPSender builds the default uplink.
func NewHTTPSender(baseURL, deviceID, apiKey string, log *slog.Logger) *HTTPSender {
	base := strings.TrimRight(baseURL, "/")
	client := breaker.NewHTTPClient("collector", breaker.Config{}, log,
		base+"/api/heartbeat", &http.Client{Timeout: sendTimeout})
	return &HTTPSender{
		baseURL:  base,
		deviceID: deviceID,
		apiKey:   apiKey,
		client:   client,
		log:      log,
	}
}

// Send posts payload to {base}/api/{endpoint}. Non-2xx statuses are errors.
func (s *HTTPSender) Send(ctx context.Context, endpoint Endpoint, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", endpoint, err)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	url := s.baseURL + "/api/" + string(endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-ID", s.deviceID)
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	_, _ = io.CopyN(io.Discard, resp.Body, 512)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post %s: unexpected status %d", endpoint, resp.StatusCode)
	}
	s.log.Debug("payload sent", "endpoint", endpoint, "status", resp.StatusCode)
	return nil
}

// BreakerState exposes the uplink breaker position for the status surface.
func (s *HTTPSender) BreakerState() breaker.State { return s.client.State() }

func (s *HTTPSender) Close() error { return nil }
