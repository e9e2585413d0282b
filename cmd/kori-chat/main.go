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

	charmlog "charm.land/log/v2"
	"github.com/SWYP-foreigner/Kori-chatting/auth"
	"github.com/SWYP-foreigner/Kori-chatting/badger"
	"github.com/SWYP-foreigner/Kori-chatting/chat"
	"github.com/SWYP-foreigner/Kori-chatting/cockroach"
	"github.com/SWYP-foreigner/Kori-chatting/cockroach/migrator"
	"github.com/SWYP-foreigner/Kori-chatting/config"
	"github.com/SWYP-foreigner/Kori-chatting/directory"
	"github.com/SWYP-foreigner/Kori-chatting/metrics"
	chatminio "github.com/SWYP-foreigner/Kori-chatting/minio"
	"github.com/SWYP-foreigner/Kori-chatting/nats"
	"github.com/SWYP-foreigner/Kori-chatting/service"
	"github.com/SWYP-foreigner/Kori-chatting/translation"
	chathttp "github.com/SWYP-foreigner/Kori-chatting/transport/http"
	"github.com/SWYP-foreigner/Kori-chatting/webpush"
	badgerdb "github.com/dgraph-io/badger/v4"
	kitlog "github.com/go-kit/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type store interface {
	chat.Store
	service.SubscriptionStore
	webpush.SubscriptionStore
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
	}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, ping, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	defer closeStore()

	natsLogger := kitlog.With(kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr)),
		"ts", kitlog.DefaultTimestampUTC,
		"component", "nats",
	)
	pubsub, err := nats.Connect(cfg.NATSURL, "kori-chat", natsLogger)
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}

	defer pubsub.Close()

	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return fmt.Errorf("create minio client: %w", err)
	}

	roomImages := chatminio.New(minioClient, cfg.MinioBucket, cfg.MinioPublicURL)
	if err := roomImages.CreateReadOnlyBucket(ctx); err != nil {
		return fmt.Errorf("create minio bucket: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var notifier chat.Notifier
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		notifier = &webpush.Notifier{
			Store:           st,
			Subscriber:      cfg.VAPIDSubscriber,
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
		}
	} else {
		logger.Warn("web push disabled: no VAPID keys configured")
	}

	engine := chat.New(chat.Config{
		Tx:           st,
		Rooms:        st,
		Participants: st,
		Messages:     st,

		Users: directory.NewCached(
			directory.NewClient(cfg.DirectoryURL, cfg.DirectoryToken, nil),
			cfg.ProfileCacheSize,
			cfg.ProfileCacheTTL,
		),
		Images:      roomImages,
		Translator:  translation.NewClient(cfg.TranslationURL, cfg.TranslationKey, nil),
		Notifier:    notifier,
		Broadcaster: pubsub,

		Logger:              logger,
		Metrics:             metrics.New(reg),
		CollaboratorTimeout: cfg.CollaboratorTimeout,
	})

	svc := service.New(&service.Config{
		Engine:            engine,
		PubSub:            pubsub,
		RoomImages:        roomImages,
		Subscriptions:     st,
		Logger:            logger,
		BaseCtx:           context.Background(),
		BackgroundTimeout: cfg.BackgroundTimeout,
	})

	go func() {
		for err := range svc.Errs() {
			logger.Error("service error", "error", err)
		}
	}()

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: chathttp.New(chathttp.Config{
			Service:  svc,
			Tokens:   auth.Tokens{Key: cfg.TokenKey},
			Logger:   logger,
			Gatherer: reg,
			Ready: func(ctx context.Context) error {
				return errors.Join(ping(ctx), pubsub.Ping())
			},
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown server", "error", err)
		}
	}()

	logger.Info("starting kori chat server", "url", fmt.Sprintf("http://localhost:%d", cfg.Port), "store", cfg.Store)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start kori chat server: %w", err)
	}

	return svc.Close()
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store, func(context.Context) error, func(), error) {
	if cfg.Store == config.StoreBadger {
		db, err := badgerdb.Open(badgerdb.DefaultOptions(cfg.BadgerDir).WithLoggingLevel(badgerdb.WARNING))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open badger: %w", err)
		}

		ping := func(context.Context) error {
			if db.IsClosed() {
				return errors.New("badger closed")
			}
			return nil
		}
		return badger.New(db), ping, func() { _ = db.Close() }, nil
	}

	dbPool, err := pgxpool.New(ctx, cfg.CockroachURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open cockroach connection pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, nil, nil, fmt.Errorf("ping cockroach: %w", err)
	}

	migrationStart := time.Now()
	logger.Info("starting cockroach migrations")

	if err := migrator.Migrate(ctx, dbPool, cockroach.MigrationsFS); err != nil {
		dbPool.Close()
		return nil, nil, nil, fmt.Errorf("migrate cockroach schema: %w", err)
	}

	logger.Info("finished cockroach migrations", "took", time.Since(migrationStart))

	return cockroach.New(dbPool), dbPool.Ping, dbPool.Close, nil
}
