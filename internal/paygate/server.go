package paygate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-vnpay/internal/paygate/handlers"
	"go-vnpay/internal/paygate/middleware"
	"go-vnpay/pkg/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
}

type Services struct {
	Notifications handlers.IPNService
	Receipts      handlers.ReturnService
	Payments      handlers.PaymentInitiationService
	Reviews       handlers.ReviewFlagsService
}

type Server struct {
	logger     *logging.ZapLogger
	httpServer *http.Server
	cfg        Config
}

func NewServer(
	cfg Config,
	tokenAuth *jwtauth.JWTAuth,
	services Services,
	logger *logging.ZapLogger,
) *Server {
	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           NewRouter(tokenAuth, services, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
	}
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server ListenAndServe failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func NewRouter(
	tokenAuth *jwtauth.JWTAuth,
	services Services,
	logger *logging.ZapLogger,
) *chi.Mux {
	ipnHandler := handlers.NewIPNHandler(services.Notifications, logger)
	returnHandler := handlers.NewReturnHandler(services.Receipts, logger)
	paymentInitiationHandler := handlers.NewPaymentInitiationHandler(services.Payments, logger)
	reviewFlagsHandler := handlers.NewReviewFlagsHandler(services.Reviews, logger)

	router := chi.NewRouter()
	router.Use(middleware.NewLoggerContext().CreateHandler)
	router.Use(middleware.NewPanicRecover(logger).CreateHandler)

	router.Route("/payment/vnpay", func(router chi.Router) {
		router.Get("/ipn/", ipnHandler.ServeHTTP)
		router.Get("/return/", returnHandler.ServeHTTP)
		router.Get("/checkout/{basketID}", paymentInitiationHandler.ServeHTTP)
	})

	router.Route("/api/admin", func(router chi.Router) {
		router.Use(jwtauth.Verifier(tokenAuth))
		router.Use(jwtauth.Authenticator(tokenAuth))
		router.Use(middleware.NewAdminRole(logger).CreateHandler)

		router.Get("/review-flags", reviewFlagsHandler.ServeHTTP)
	})

	return router
}
