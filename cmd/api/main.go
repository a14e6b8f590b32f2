package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petadoption/internal/config"
	"petadoption/internal/jwtsigner"
	"petadoption/internal/notify"
	"petadoption/internal/observability/logging"
	"petadoption/internal/observability/metrics"
	impl "petadoption/internal/service/impl"
	"petadoption/internal/storage"
	"petadoption/internal/store"
	httpx "petadoption/internal/transport/http"
)

var version = "dev"

func main() {
	config.LoadDotEnv()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "petadoption",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})

	slog.SetDefault(logger)

	logger.Info("starting service", "version", version)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1) DB
	gdb, err := store.Open(store.Config{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("db open", "error", err, "driver", cfg.DBDriver)
		os.Exit(1)
	}
	if err := store.Migrate(ctx, gdb, cfg.DBDriver); err != nil {
		logger.Error("db migrate", "error", err)
		os.Exit(1)
	}
	st := store.New(gdb)
	if n, err := st.Users().Count(ctx); err == nil {
		logger.Info("store ready", "driver", cfg.DBDriver, "users", n)
	}

	// 2) Uploads and mail
	files, err := newFileStorage(ctx, cfg)
	if err != nil {
		logger.Error("file storage", "error", err)
		os.Exit(1)
	}
	mail := newNotifier(cfg, logger)

	// 3) Services
	signer, err := jwtsigner.NewHS256(cfg.SecretKey, cfg.TokenIssuer)
	if err != nil {
		logger.Error("token signer", "error", err)
		os.Exit(1)
	}
	pw := impl.NewPasswordServiceBcrypt(cfg.BcryptCost)
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		LoginTTL:    cfg.LoginTokenTTL,
		RecoveryTTL: cfg.RecoveryTokenTTL,
	}, signer)

	as := impl.NewAuthServiceImpl(st, pw, ts, cfg.MinRegistrationAge)
	rs := impl.NewRecoveryServiceImpl(st, pw, ts, mail, cfg.ResetURLBase)
	ps := impl.NewPetServiceImpl(st, files)

	metrics.MustRegister(nil, "petadoption")

	// 4) HTTP router
	handler := httpx.NewRouter(httpx.RouterConfig{
		Auth:           as,
		Recovery:       rs,
		Pets:           ps,
		Tokens:         ts,
		Files:          files,
		Ready:          st.Ping,
		CORSOrigins:    cfg.CORSOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Version:        version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	slog.Info("petadoption listening", "addr", srv.Addr, "db_driver", cfg.DBDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func newFileStorage(ctx context.Context, cfg config.Config) (storage.FileStorage, error) {
	if cfg.S3.Bucket != "" {
		return storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	}
	return storage.NewDiskStorage(cfg.UploadDir)
}

func newNotifier(cfg config.Config, logger *slog.Logger) notify.Channel {
	if cfg.SMTP.Host == "" {
		logger.Warn("SMTP_HOST not set; password reset mail will not be delivered")
		return notify.LogChannel{Logger: logger}
	}
	return notify.NewSMTPChannel(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.MailFrom,
	})
}
