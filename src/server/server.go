package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"tradejournal/src/analysis"
	"tradejournal/src/auth"
	"tradejournal/src/handler"
)

// NewRouter wires the journal routes around the analysis service. All
// trade and analysis routes require an authenticated identity.
func NewRouter(svc *analysis.Service) *chi.Mux {
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("\"/healthcheck\" error")
		}
	})

	createTrade, updateTrade, listTrades, getTrade, deleteTrade := handler.DefaultTradeHandlers()
	analyzeTrade, listAnalyses, latestAnalysis := handler.DefaultAnalysisHandlers(svc)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Route("/trades", func(r chi.Router) {
			r.Post("/", createTrade)
			r.Get("/", listTrades)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", getTrade)
				r.Put("/", updateTrade)
				r.Delete("/", deleteTrade)

				r.Post("/analyze", analyzeTrade)
				r.Get("/analyses", listAnalyses)
				r.Get("/analyses/latest", latestAnalysis)
			})
		})
	})

	return r
}

// StartServer runs the HTTP server until SIGINT/SIGTERM, then shuts
// down gracefully.
func StartServer(port string, svc *analysis.Service) {
	r := NewRouter(svc)

	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
