package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adapta-br/consulta-cnpj/internal/lookup"
	"github.com/adapta-br/consulta-cnpj/internal/metrics"
	"github.com/adapta-br/consulta-cnpj/pkg/provider"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the consolidated profile as a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc := newService()

		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet},
		}))

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
		r.Get("/api/v1/cnpj/{id}", handleLookup(svc))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("serving", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve: listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

// lookupResponse is the consumer-boundary shape: plain resolved data, no
// rendering concerns.
type lookupResponse struct {
	Identifier               string        `json:"cnpj"`
	Profile                  any           `json:"profile"`
	Status                   statusPayload `json:"status"`
	Regime                   string        `json:"regime"`
	RegimeSource             string        `json:"regime_source"`
	Registrations            any           `json:"registrations"`
	RegistrationsUnavailable bool          `json:"registrations_unavailable"`
	QueriedAt                time.Time     `json:"queried_at"`
}

type statusPayload struct {
	Class    string `json:"class"`
	Label    string `json:"label"`
	Severity string `json:"severity"`
}

func handleLookup(svc *lookup.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Lookup(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeLookupError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, lookupResponse{
			Identifier:               res.Identifier,
			Profile:                  res.Profile,
			Status:                   statusPayload{Class: res.Status.Class.String(), Label: res.Status.Label, Severity: string(res.Status.Severity)},
			Regime:                   res.Regime,
			RegimeSource:             res.RegimeSource,
			Registrations:            res.Registrations,
			RegistrationsUnavailable: res.RegistrationsUnavailable,
			QueriedAt:                res.QueriedAt,
		})
	}
}

func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case eris.Is(err, lookup.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_input"})
	case eris.Is(err, provider.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
	case eris.Is(err, provider.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "unavailable"})
	default:
		zap.L().Error("lookup failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
