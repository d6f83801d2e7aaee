package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feepay/docs" //this is required to generate swagger docs
	"feepay/internal/auth"
	"feepay/internal/config"
	"feepay/internal/ledger"
	"feepay/internal/metric"
	"feepay/internal/orchestrator"
	"feepay/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config.Config
	logger        *zap.SugaredLogger
	payments      *orchestrator.Service
	authenticator auth.Authenticator // nil when receipt links are disabled
	rateLimiter   ratelimiter.Limiter
	metrics       metric.Factory
	adminPassHash []byte
	storage       string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.MetricsMiddleware)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// Gateway calls and notifications are bounded on their own; this caps the whole request.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.Addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)
		r.With(app.BasicAuthMiddleware()).Get("/metrics", app.metrics.Handler().ServeHTTP)

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", app.createPaymentHandler)
			r.Post("/verify", app.verifyPaymentHandler)
			r.Get("/bank-details", app.bankDetailsHandler)
			r.Get("/payer/{payerID}", app.listPayerPaymentsHandler)
			r.With(app.BasicAuthMiddleware()).Get("/", app.listPaymentsHandler)

			r.Route("/{paymentID}", func(r chi.Router) {
				r.Get("/", app.getPaymentHandler)
				r.With(app.BasicAuthMiddleware()).Post("/complete", app.completePaymentHandler)
				r.With(app.BasicAuthMiddleware()).Get("/events", app.paymentEventsHandler)
				r.Get("/receipt", app.receiptPDFHandler)
				r.Get("/receipt/html", app.receiptHTMLHandler)
			})
		})

		r.Get("/receipts/shared/{token}", app.sharedReceiptHandler)
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.APIURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.Addr,
		Handler:      mux,
		WriteTimeout: time.Second * 90,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.Addr, "env", app.config.Env, "storage", app.storage)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.Addr, "env", app.config.Env)

	return nil
}

// receiptURL is the link handed to payers for a payment's receipt: a signed
// public link when tokens are configured, the direct download otherwise.
func (app *application) receiptURL(p *ledger.Payment) string {
	return receiptLink(app.config.APIURL, app.authenticator, app.logger)(p)
}
