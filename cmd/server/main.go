// Command server runs the study event enrollment API.
//
// @title Study Enrollment API
// @version 1.0
// @description Enrollment admission for study events: first-come and confirmative events, waiting lists and promotion.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyenrollment/config"
	_ "studyenrollment/docs"
	"studyenrollment/internal/adapters/auth"
	"studyenrollment/internal/adapters/email"
	deliveryhttp "studyenrollment/internal/delivery/http"
	"studyenrollment/internal/delivery/http/controllers"
	"studyenrollment/internal/domain"
	"studyenrollment/internal/repository/memory"
	"studyenrollment/internal/repository/postgres"
	"studyenrollment/internal/services"
)

const devTokenExpiry = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}

// stores groups the ports backed by the configured driver.
type stores struct {
	accounts    domain.AccountRepository
	events      domain.EventRepository
	enrollments domain.EnrollmentRepository
	uow         domain.EventUnitOfWork
	close       func() error
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.Error("close store", "err", err)
		}
	}()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("email templates: %w", err)
	}
	emailService := services.NewEmailService(mailer, renderer, logger)
	notifier := services.NewAsyncNotifier(
		services.NewEmailNotifier(st.accounts, st.events, emailService),
		logger,
		cfg.Notify.QueueSize,
	)

	eventService := services.NewEventService(st.events, st.uow, notifier, logger)
	enrollmentService := services.NewEnrollmentService(st.accounts, st.events, st.enrollments, st.uow, notifier, logger)

	handler := deliveryhttp.NewRouter(
		deliveryhttp.RouterConfig{
			Verifier:       auth.NewJWTVerifier(cfg.Auth.JWTSecret),
			Logger:         logger,
			AllowedOrigins: cfg.CORSAllowedOrigins,
		},
		controllers.NewEventController(logger, eventService),
		controllers.NewEnrollmentController(logger, enrollmentService),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := notifier.Close(shutdownCtx); err != nil {
		logger.Warn("pending notifications dropped", "err", err)
	}
	logger.Info("server stopped")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore(cfg.Store.LockTimeout)
		if err := seedDevAccounts(cfg, store, logger); err != nil {
			return nil, err
		}
		logger.Warn("using in-memory store, data is lost on restart")
		return &stores{
			accounts:    store.Accounts(),
			events:      store.Events(),
			enrollments: store.Enrollments(),
			uow:         store,
			close:       func() error { return nil },
		}, nil
	default:
		db, err := postgres.Open(ctx, cfg.Store.DatabaseURL, cfg.Store.MaxOpenConns)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("connected to PostgreSQL")
		return &stores{
			accounts:    postgres.NewAccountRepository(db),
			events:      postgres.NewEventRepository(db),
			enrollments: postgres.NewEnrollmentRepository(db),
			uow:         postgres.NewUnitOfWork(db, cfg.Store.LockTimeout, logger),
			close:       db.Close,
		}, nil
	}
}

// seedDevAccounts loads DEV_ACCOUNTS into the memory store and, outside production,
// logs a bearer token for each so the API can be tried locally.
func seedDevAccounts(cfg *config.Config, store *memory.Store, logger *slog.Logger) error {
	accounts, err := cfg.Store.ParseDevAccounts()
	if err != nil {
		return err
	}
	issuer := auth.NewJWTIssuer(cfg.Auth.JWTSecret)
	for _, a := range accounts {
		store.PutAccount(domain.NewAccount(a.ID, a.Email, a.ID, time.Now()))
		if cfg.IsProduction() {
			continue
		}
		token, err := issuer.Issue(a.ID, a.Email, devTokenExpiry)
		if err != nil {
			return fmt.Errorf("issue dev token: %w", err)
		}
		logger.Info("dev account", "account_id", a.ID, "token", token)
	}
	return nil
}
