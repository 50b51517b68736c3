package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	td "github.com/ipqa-research/thermodiff"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the tool interface over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(os.Stderr, nil))

			mux := http.NewServeMux()

			// POST /tool — handle a tool call
			mux.HandleFunc("/tool", func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if rec := recover(); rec != nil {
						log.Error("panic in /tool", "panic", rec, "stack", string(debug.Stack()))
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

				var req td.ToolRequest
				if err := dec.Decode(&req); err != nil {
					writeJSONError(w, http.StatusBadRequest, err.Error())
					return
				}
				// Ensure there's no trailing junk.
				if dec.More() {
					writeJSONError(w, http.StatusBadRequest, "invalid JSON: trailing data")
					return
				}

				start := time.Now()
				resp := td.HandleToolCall(req)
				log.Info("tool call", "tool", req.Tool, "ok", resp.Error == "", "dur", time.Since(start))

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			})

			// GET /schema — return the tool schema
			mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, td.ToolSpec())
			})

			// GET /health — liveness check
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"status": "ok",
					"time":   time.Now().UTC().Format(time.RFC3339),
				})
			})

			addr := fmt.Sprintf(":%d", port)
			log.Info("thermodiff server listening", "addr", addr)

			srv := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      15 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	return cmd
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
