package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"alxtravel/cmd/fx/account_fx"
	"alxtravel/cmd/fx/config_fx"
	"alxtravel/cmd/fx/controllers_fx"
	"alxtravel/cmd/fx/db_fx"
	"alxtravel/cmd/fx/events_fx"
	"alxtravel/cmd/fx/logger_fx"
	"alxtravel/cmd/fx/mail_fx"
	"alxtravel/cmd/fx/payment_service_fx"
	"alxtravel/cmd/fx/queue_fx"
	"alxtravel/internal/api/controllers"
	"alxtravel/internal/config"
	"alxtravel/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		db_fx.Module,
		mail_fx.Module,
		events_fx.Module,
		account_fx.Module,
		payment_service_fx.Module,
		queue_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	logger *zap.Logger,
	paymentController *controllers.PaymentController,
	accountController *controllers.AccountController) (*gin.Engine, error) {

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// ClientIP feeds the callback rate limiter; forwarded headers from
	// anyone but a configured proxy are ignored.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterRoutes(r, cfg, paymentController, accountController)

	return r, nil
}

func RegisterRoutes(r *gin.Engine,
	cfg *config.Config,
	paymentController *controllers.PaymentController,
	accountController *controllers.AccountController) {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.JWTAuthMiddleware([]byte(cfg.JWTSecret))
	callbackLimiter := middleware.NewRateLimiter(cfg.CallbackRatePerMinute, cfg.CallbackRateBurst)

	api := r.Group("/api")

	accountsGroup := api.Group("/accounts")
	accountsGroup.POST("/register", accountController.Register)
	accountsGroup.POST("/login", accountController.Login)

	paymentsGroup := api.Group("/payments")
	paymentsGroup.POST("/callback", callbackLimiter.Middleware(), paymentController.PaymentCallback)
	paymentsGroup.POST("/initiate", auth, paymentController.InitiatePayment)
	paymentsGroup.GET("/verify/:transaction_id", auth, paymentController.VerifyPayment)
	paymentsGroup.GET("/status/:payment_id", auth, paymentController.PaymentStatus)
}
