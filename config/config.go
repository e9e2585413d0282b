package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

const (
	StoreCockroach = "cockroach"
	StoreBadger    = "badger"
)

type Config struct {
	Port                uint32        `ff:"long: port, short: p, default: 4444, usage: Port for the HTTP server"`
	Store               string        `ff:"long: store, default: cockroach, usage: Storage backend: cockroach or badger"`
	CockroachURL        string        `ff:"long: cockroach-url, default: postgresql://root@127.0.0.1:26257/defaultdb?sslmode=disable, usage: URL for the CockroachDB database"`
	BadgerDir           string        `ff:"long: badger-dir, default: data/badger, usage: Directory for the embedded Badger store"`
	NATSURL             string        `ff:"long: nats-url, default: nats://127.0.0.1:4222, usage: URL for the NATS server"`
	MinioEndpoint       string        `ff:"long: minio-endpoint, default: localhost:9000, usage: MinIO endpoint"`
	MinioAccessKey      string        `ff:"long: minio-access-key, default: minioadmin, usage: MinIO access key"`
	MinioSecretKey      string        `ff:"long: minio-secret-key, default: minioadmin, usage: MinIO secret key"`
	MinioSecure         bool          `ff:"long: minio-secure, default: false, usage: Use secure connection to MinIO"`
	MinioBucket         string        `ff:"long: minio-bucket, default: room-images, usage: MinIO bucket for room images"`
	MinioPublicURL      string        `ff:"long: minio-public-url, default: http://localhost:9000, usage: Public base URL of MinIO objects"`
	DirectoryURL        string        `ff:"long: directory-url, default: http://localhost:8080/api/internal, usage: Base URL of the user directory service"`
	DirectoryToken      string        `ff:"long: directory-token, usage: Bearer token for the user directory service"`
	ProfileCacheSize    int           `ff:"long: profile-cache-size, default: 10000, usage: Max cached user profiles"`
	ProfileCacheTTL     time.Duration `ff:"long: profile-cache-ttl, default: 1m, usage: How long user profiles stay cached"`
	TranslationURL      string        `ff:"long: translation-url, default: http://localhost:5000, usage: Base URL of the LibreTranslate compatible API"`
	TranslationKey      string        `ff:"long: translation-key, usage: API key for the translation service"`
	VAPIDPublicKey      string        `ff:"long: vapid-public-key, usage: VAPID public key for web push"`
	VAPIDPrivateKey     string        `ff:"long: vapid-private-key, usage: VAPID private key for web push"`
	VAPIDSubscriber     string        `ff:"long: vapid-subscriber, default: mailto:admin@localhost, usage: VAPID subscriber contact"`
	TokenKey            string        `ff:"long: token-key, default: supersecretkeyyoushouldnotcommit, usage: 32 bytes key to verify auth tokens"`
	CollaboratorTimeout time.Duration `ff:"long: collaborator-timeout, default: 3s, usage: Timeout for each call to an external collaborator"`
	BackgroundTimeout   time.Duration `ff:"long: background-timeout, default: 15s, usage: Timeout for background cleanup operations"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	fs := ff.NewFlagSetFrom("kori-chat", &cfg)
	err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("KORI"))
	if errors.Is(err, ff.ErrHelp) {
		fmt.Println(ffhelp.Flags(fs))
		os.Exit(0)
	}

	if err == nil && cfg.Store != StoreCockroach && cfg.Store != StoreBadger {
		err = fmt.Errorf("unknown store %q", cfg.Store)
	}

	return cfg, err
}
