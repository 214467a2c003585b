package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	affine "github.com/njchilds90/goaffine"
)

const maxBodyBytes = 1 << 20 // 1 MiB

var (
	// toolCalls counts tool calls by tool and result
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "affine_tool_calls_total",
		Help: "Total tool calls by tool and result",
	}, []string{"tool", "result"})

	toolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "affine_tool_duration_seconds",
		Help:    "Tool call duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
	}, []string{"tool"})
)

// knownTools bounds the tool label of the metrics.
var knownTools = map[string]bool{
	"enclose": true, "multiply": true, "compact": true, "sweep": true, "tool_spec": true,
}

func toolLabel(name string) string {
	if knownTools[name] {
		return name
	}
	return "unknown"
}

var port int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tools over HTTP",
	Long: `Exposes the tools as an HTTP endpoint for agent frameworks.

  POST /tool    execute a tool call
  GET  /schema  tool schema for agent registration
  GET  /health  health check
  GET  /metrics prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := fmt.Sprintf(":%d", port)
		srv := &http.Server{
			Addr:              addr,
			Handler:           newMux(cfg, logger),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		logger.Info("affine tool server listening", zap.String("addr", addr),
			zap.String("policy", cfg.Policy), zap.String("mode", cfg.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newMux(cfg *affine.Config, log *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// POST /tool
	mux.HandleFunc("/tool", func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic in /tool", zap.Any("panic", rec), zap.ByteString("stack", debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req affine.ToolRequest
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if dec.More() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
			return
		}

		start := time.Now()
		resp := affine.HandleToolCall(cfg, req)
		label := toolLabel(req.Tool)
		toolDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		result := "ok"
		if resp.Error != "" {
			result = "error"
			log.Debug("tool call failed", zap.String("tool", req.Tool), zap.String("error", resp.Error))
		}
		toolCalls.WithLabelValues(label, result).Inc()
		writeJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, affine.ToolSpec())
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
