package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/estaidesoriginal/biblioteca-G/external/midtrans"
	"github.com/estaidesoriginal/biblioteca-G/internal/config"
	"github.com/estaidesoriginal/biblioteca-G/internal/db"
	"github.com/estaidesoriginal/biblioteca-G/internal/middleware"
	"github.com/estaidesoriginal/biblioteca-G/internal/repository"
	"github.com/estaidesoriginal/biblioteca-G/internal/services"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		logrus.Fatal(err)
	}
	log := config.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal(err)
	}

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	gameRepo := repository.NewGameRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool, productRepo)
	paymentRepo := repository.NewPaymentRepository(pool)
	snapClient := midtrans.NewSnapClient(cfg.MidtransServerKey, cfg.MidtransProd)

	// ======================
	// SERVICES
	// ======================
	jwt := middleware.NewJWT(cfg.JWTSecret, cfg.TokenTTL)
	metrics := middleware.NewMetrics()

	authSvc := services.NewAuthService(userRepo, jwt, log)
	if err := authSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}

	a := &api{
		auth:     authSvc,
		users:    services.NewUserService(userRepo, log),
		games:    services.NewGameService(gameRepo, log),
		products: services.NewProductService(productRepo, log),
		orders: services.NewOrderService(orderRepo, func(outcome string) {
			metrics.Checkout.WithLabelValues(outcome).Inc()
		}, log),
		payments: services.NewPaymentService(paymentRepo, orderRepo, services.NewSettler(paymentRepo, orderRepo), snapClient, cfg.MidtransServerKey, log),
		jwt:      jwt,
		limiter:  middleware.NewLoginLimiter(cfg.LoginRatePerMin),
		metrics:  metrics,
		log:      log,
	}

	// ======================
	// SERVER
	// ======================
	e := a.echo()
	for _, r := range e.Routes() {
		log.WithFields(logrus.Fields{"method": r.Method, "path": r.Path}).Debug("route")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
