// v0
// router.go
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Info is the static identity block shown on /status.
type Info struct {
	DeviceID        string `json:"deviceId"`
	DeviceName      string `json:"deviceName"`
	DeviceLocation  string `json:"deviceLocation,omitempty"`
	FirmwareVersion string `json:"firmwareVersion"`
	Armed           bool   `json:"armed"`
	Uplink          string `json:"uplink"`
}

type statusResponse struct {
	Info
	Sensors     []string `json:"sensors"`
	SensorCount int      `json:"sensorCount"`
	StartedAt   string   `json:"startedAt"`
}

// NewHandler builds the node's local HTTP surface: health, status, and
// Prometheus metrics, with access logging to the node's log writer.
func NewHandler(info Info, sensorNames func() []string, metricsHandler http.Handler, logWriter io.Writer) http.Handler {
	startedAt := time.Now().UTC().Format(time.RFC3339)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		names := sensorNames()
		resp := statusResponse{
			Info:        info,
			Sensors:     names,
			SensorCount: len(names),
			StartedAt:   startedAt,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}).Methods(http.MethodGet)

	r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)

	return handlers.LoggingHandler(logWriter, r)
}
