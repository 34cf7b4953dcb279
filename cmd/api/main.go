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

	"github.com/getsentry/sentry-go"

	"github.com/northpeak-digital/agency-api/internal/config"
	"github.com/northpeak-digital/agency-api/internal/entity"
	"github.com/northpeak-digital/agency-api/internal/infra/auth"
	"github.com/northpeak-digital/agency-api/internal/infra/database"
	"github.com/northpeak-digital/agency-api/internal/infra/http/handlers"
	"github.com/northpeak-digital/agency-api/internal/infra/http/middleware"
	"github.com/northpeak-digital/agency-api/internal/infra/integration/keywordplanner"
	"github.com/northpeak-digital/agency-api/internal/infra/integration/stripebilling"
	"github.com/northpeak-digital/agency-api/internal/infra/integration/telegram"
	"github.com/northpeak-digital/agency-api/internal/infra/mail"
	"github.com/northpeak-digital/agency-api/internal/infra/queue"
	"github.com/northpeak-digital/agency-api/internal/infra/storage"
	"github.com/northpeak-digital/agency-api/internal/infra/worker"
	"github.com/northpeak-digital/agency-api/internal/logger"
	"github.com/northpeak-digital/agency-api/internal/notify"
	"github.com/northpeak-digital/agency-api/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Release:     "agency-api@" + version,
		}); err != nil {
			log.Warn("sentry disabled", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// 1. Infra
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL, cfg.RetryDelay)
	if err != nil {
		return err
	}
	defer rabbitMQ.Close()

	var revocations auth.RevocationList = auth.NewMemoryRevocationList()
	var redisHealth handlers.Pinger
	if cfg.RedisURL != "" {
		client, err := auth.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		redisList := auth.NewRedisRevocationList(client)
		revocations, redisHealth = redisList, redisList
	} else {
		log.Warn("REDIS_URL not set, session revocations are kept in memory")
	}

	sessions, err := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, revocations)
	if err != nil {
		return err
	}
	admins := auth.NewStaticAllowList(cfg.AdminEmails)
	if admins.Len() == 0 {
		log.Warn("ADMIN_EMAILS is empty, nobody can sign in")
	}

	// 2. Repositories
	leadRepo := database.NewLeadRepository(db)
	proposalRepo := database.NewProposalRepository(db)
	templateRepo := database.NewTemplateRepository(db)
	addonRepo := database.NewAddonRepository(db)
	signedRepo := database.NewSignedProposalRepository(db)
	codeRepo := database.NewAdminCodeRepository(db)
	outboxRepo := database.NewOutboxRepository(db)

	// 3. Gateways
	prices, err := priceTable(cfg)
	if err != nil {
		return err
	}
	billing := stripebilling.NewClient(cfg.StripeSecretKey, prices, log)
	keywordClient := keywordplanner.NewClient(cfg.KeywordAPIURL, cfg.KeywordAPILogin, cfg.KeywordAPIPassword, cfg.KeywordLocation)
	bot := telegram.NewClient(cfg.TelegramBaseURL, cfg.TelegramBotToken, cfg.TelegramChatID)
	mailer := mail.NewSender(mail.Config{
		From:         cfg.MailFrom,
		FromName:     cfg.MailFromName,
		SendGridKey:  cfg.SendGridKey,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUser:     cfg.SMTPUser,
		SMTPPassword: cfg.SMTPPassword,
	}, log)
	dispatcher := notify.NewDispatcher(mailer, bot, notify.Config{
		SiteURL:  cfg.SiteURL,
		ReplyTo:  cfg.MailReplyTo,
		TeamName: cfg.MailFromName,
	}, log)

	var archive usecase.SignatureArchive
	if cfg.S3Bucket != "" {
		a, err := storage.NewSignatureArchive(ctx, storage.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.AWSRegion,
			Prefix:          cfg.S3Prefix,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			return err
		}
		archive = a
	}

	// 4. Use cases
	research := usecase.NewResearchKeywordsUseCase(leadRepo, proposalRepo, keywordClient, log, cfg.DefaultCity)
	createLead := usecase.NewCreateLeadUseCase(leadRepo, log)
	adminAuth := usecase.NewAdminAuthUseCase(codeRepo, admins, sessions, dispatcher, log)
	generate := usecase.NewGenerateProposalUseCase(
		leadRepo, proposalRepo, templateRepo, research, log,
		cfg.SiteURL, cfg.ProposalTTL, entity.Industry(cfg.FallbackIndustry),
	)
	lifecycle := usecase.NewProposalLifecycleUseCase(leadRepo, proposalRepo, log)
	checkout := usecase.NewCheckoutUseCase(leadRepo, proposalRepo, addonRepo, signedRepo, billing, archive, log)
	settings := usecase.NewAdminSettingsUseCase(addonRepo, templateRepo, log)

	// 5. Background workers
	producer := queue.NewProducer(rabbitMQ.Ch)
	relay := worker.NewOutboxRelay(outboxRepo, producer, log, cfg.RelayInterval)
	go relay.Start(ctx)

	consumer := queue.NewWorker(rabbitMQ.Ch, dispatcher, cfg.NotifyMaxTry, log)
	go func() {
		if err := consumer.Start(ctx, queue.QueueName); err != nil {
			log.Error("notification worker stopped", "error", err)
		}
	}()

	scheduler := worker.NewScheduler(log)
	if err := scheduler.ScheduleExpiry(ctx, cfg.ExpirySchedule, lifecycle); err != nil {
		return err
	}
	scheduler.Start()

	limiter := middleware.NewRateLimiter(cfg.LeadRateLimitPerMinute, cfg.LeadRateLimitBurst)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Cleanup()
			}
		}
	}()

	// 6. HTTP
	router := newRouter(cfg, log, routes{
		Health:    handlers.NewHealthHandler(db, rabbitMQ, redisHealth, version),
		Leads:     handlers.NewLeadHandler(createLead, log),
		Auth:      handlers.NewAuthHandler(adminAuth, cfg.SecureCookies, log),
		Proposals: handlers.NewProposalHandler(generate, lifecycle, log),
		Checkout:  handlers.NewCheckoutHandler(checkout, log),
		Settings:  handlers.NewSettingsHandler(settings, log),
		AdminLead: handlers.NewAdminLeadHandler(lifecycle, log),
		Keywords:  handlers.NewKeywordHandler(research, log),
		Telegram:  handlers.NewTelegramHandler(bot, generate, lifecycle, cfg.TelegramWebhookSecret, log),
		Sessions:  sessions,
		Limiter:   limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "port", cfg.Port, "env", cfg.Environment, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	scheduler.Stop(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}

func priceTable(cfg *config.Config) (stripebilling.PriceTable, error) {
	var prices stripebilling.PriceTable
	var err error
	if cfg.StripeBasePrice != "" {
		if prices.Base, err = stripebilling.ParsePrice(cfg.StripeBasePrice); err != nil {
			return prices, err
		}
	}
	if cfg.StripeSetupPrice != "" {
		if prices.Setup, err = stripebilling.ParsePrice(cfg.StripeSetupPrice); err != nil {
			return prices, err
		}
	}
	prices.Addons, err = stripebilling.ParseAddonPrices(cfg.StripeAddonPrices)
	return prices, err
}
