package commands

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"szenesync/lib/serviceutil"
	"szenesync/lib/telemetry"
	"szenesync/services/eventsync"

	"github.com/spf13/cobra"
)

var servePort *int

func init() {
	servePort = serveCmd.Flags().Int("port", 8080, "The port to listen on.")
	rootCmd.AddCommand(serveCmd)
}

// scrapeHandler triggers syncs over http. Runs are serialized, a request
// arriving while a sync is in flight is rejected instead of queued.
type scrapeHandler struct {
	service *eventsync.Service
	mu      sync.Mutex
}

func (h *scrapeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.mu.TryLock() {
		http.Error(w, "a sync is already running", http.StatusConflict)
		return
	}
	defer h.mu.Unlock()

	report, err := h.service.RunSync(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "sync over http failed", "err", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--port <port>]",
	Short: "Serves the sync trigger and health endpoints over http.",
	Run: func(cmd *cobra.Command, args []string) {
		service := buildService()

		ctx := serviceutil.SignalContext()
		telemetry.InstrumentPerfStats(ctx)

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte("szenesync is running\n"))
		})
		mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		mux.Handle("/api/scrape", &scrapeHandler{service: service})

		serviceutil.StartHttpServer(*servePort, mux)
	},
}
