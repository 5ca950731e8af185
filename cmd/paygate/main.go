package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"go-vnpay/cmd/paygate/config"
	"go-vnpay/internal/paygate"
	"go-vnpay/internal/paygate/data/database"
	"go-vnpay/internal/paygate/data/dbrepository"
	"go-vnpay/internal/paygate/fulfillment"
	"go-vnpay/internal/paygate/placementmonitor"
	"go-vnpay/internal/paygate/service"
	"go-vnpay/internal/paygate/vnpay"
	"go-vnpay/pkg/logging"
	"go-vnpay/pkg/ordernumber"
	"go-vnpay/pkg/pgxstorage"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewZapLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	dbFactory := database.NewPgxDatabaseFactory(cfg.DB)
	storage, err := pgxstorage.New(dbFactory)
	if err != nil {
		log.Fatal(err)
	}
	repository := dbrepository.New(storage, logger)
	transactionManager := pgxstorage.NewTransactionsManager(storage)

	signer := vnpay.NewSigner(cfg.HashSecret)
	orderNumbers := ordernumber.New(cfg.OrderNumbers.Prefix, cfg.OrderNumbers.Offset)

	checkout := service.NewCheckout(repository, orderNumbers, logger)
	hooks := make([]service.PlacementHook, 0, 1)
	if cfg.Fulfillment.ServerAddress != "" {
		hooks = append(hooks, fulfillment.New(cfg.Fulfillment, logger))
	}
	placement := service.NewPlacement(repository, logger, hooks...)
	notifications := service.NewNotifications(
		checkout,
		repository,
		repository,
		transactionManager,
		signer,
		placement,
		logger,
	)
	receipts := service.NewReceipts(checkout, cfg.Receipts, logger)
	payments := service.NewPayments(checkout, signer, cfg.Payments)
	reviews := service.NewReviews(repository)

	monitor := placementmonitor.New(cfg.PlacementMonitor, repository, placement, logger)

	tokenAuth := jwtauth.New(cfg.JWTConfig.Algorithm, []byte(cfg.JWTConfig.Secret), nil)
	server := paygate.NewServer(
		cfg.Server,
		tokenAuth,
		paygate.Services{
			Notifications: notifications,
			Receipts:      receipts,
			Payments:      payments,
			Reviews:       reviews,
		},
		logger,
	)

	rootCtx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGABRT,
	)
	defer cancelCtx()

	if err := run(rootCtx, cfg, server, monitor, logger); err != nil {
		logger.ErrorCtx(rootCtx, "Server shutdown with error", zap.Error(err))
	} else {
		logger.InfoCtx(rootCtx, "Server shutdown gracefully")
	}
	storage.Close()
}

func run(
	rootCtx context.Context,
	cfg *config.Config,
	server *paygate.Server,
	monitor *placementmonitor.PlacementMonitor,
	logger *logging.ZapLogger,
) error {
	g, ctx := errgroup.WithContext(rootCtx)

	context.AfterFunc(ctx, func() {
		ctx, cancelCtx := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancelCtx()

		<-ctx.Done()
		log.Fatal("failed to gracefully shutdown the server")
	})

	g.Go(func() error {
		if err := server.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		monitor.Run()
		return nil
	})

	g.Go(func() error {
		defer logger.InfoCtx(ctx, "Shutting down server")
		<-ctx.Done()
		monitor.Stop()
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("goroutine error occured: %w", err)
	}

	return nil
}
