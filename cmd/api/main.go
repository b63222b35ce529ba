package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	httpadp "loantrack/internal/adapter/http"
	"loantrack/internal/adapter/middleware"
	"loantrack/internal/config"
	"loantrack/internal/infrastructure/cache"
	"loantrack/internal/infrastructure/db"
	"loantrack/internal/remote"
	"loantrack/internal/store"
	"loantrack/internal/usecase/acceptance"
	"loantrack/internal/usecase/create"
	"loantrack/internal/usecase/lists"
	"loantrack/internal/usecase/otp"
	"loantrack/internal/usecase/payment"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	var gdb *gorm.DB
	switch cfg.CacheDriver {
	case "mysql":
		gdb, err = db.OpenMySQL(cfg.MySQLDSN())
	default:
		gdb, err = db.OpenSQLite(cfg.SQLitePath)
	}
	if err != nil {
		log.Fatalf("cache db: %v", err)
	}

	persister, err := store.NewGormPersister(gdb)
	if err != nil {
		log.Fatalf("cache migrate: %v", err)
	}
	st := store.New(persister)
	if err := st.Load(context.Background()); err != nil {
		log.Printf("cache load: %v (starting empty)", err)
	}

	api, err := remote.NewClient(
		cfg.UpstreamBaseURL,
		time.Duration(cfg.UpstreamTimeoutSecs)*time.Second,
		func() string { return os.Getenv("UPSTREAM_TOKEN") },
	)
	if err != nil {
		log.Fatalf("remote: %v", err)
	}

	fraudCache := create.NewFraudCache(rdb, time.Duration(cfg.FraudCacheTTLSecs)*time.Second)
	createUC := create.NewUsecase(api, st, fraudCache)
	otpUC := otp.NewUsecase(api, st, rdb, time.Duration(cfg.OTPCooldownSecs)*time.Second)
	acceptUC := acceptance.NewUsecase(api, st)
	payUC := payment.NewUsecase(api, st)
	listsUC := lists.NewUsecase(api, st)

	h := httpadp.NewHandler()
	loanH := httpadp.NewLoanHandler(createUC, listsUC)
	otpH := httpadp.NewOTPHandler(otpUC)
	acceptH := httpadp.NewAcceptanceHandler(acceptUC)
	payH := httpadp.NewPaymentHandler(payUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)

	v1 := e.Group("/v1")
	v1.Use(middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	v1.GET("/fraud/:national_id", loanH.FraudPrecheck)
	v1.POST("/loans", loanH.CreateLoan)
	v1.GET("/loans/:view", loanH.ListLoans)
	v1.POST("/loans/:loan_id/payment/verify", loanH.VerifyPayment)

	v1.POST("/loans/:loan_id/otp/verify", otpH.Verify)
	v1.POST("/loans/:loan_id/otp/resend", otpH.Resend)
	v1.POST("/loans/:loan_id/otp/skip", otpH.Skip)

	v1.PATCH("/loans/:loan_id/acceptance", acceptH.Update)
	v1.POST("/loans/:loan_id/mark-paid", payH.MarkPaid)

	v1.POST("/loans/:loan_id/payments", payH.Submit)
	v1.GET("/payments/pending", payH.Pending)
	v1.POST("/loans/:loan_id/payments/:payment_id/confirm", payH.Confirm)
	v1.POST("/loans/:loan_id/payments/:payment_id/reject", payH.Reject)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
