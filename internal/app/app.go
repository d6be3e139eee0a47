// Package app wires configuration, storage, services, and the HTTP server
// into a runnable application.
package app

import (
	"context"
	"fmt"

	"github.com/LordSri/bragadeesh-portfolio/internal/cache"
	"github.com/LordSri/bragadeesh-portfolio/internal/cdn"
	"github.com/LordSri/bragadeesh-portfolio/internal/config"
	"github.com/LordSri/bragadeesh-portfolio/internal/database"
	"github.com/LordSri/bragadeesh-portfolio/internal/gallery"
	"github.com/LordSri/bragadeesh-portfolio/internal/httpapi"
	"github.com/LordSri/bragadeesh-portfolio/internal/logging"
	"github.com/LordSri/bragadeesh-portfolio/internal/rater"
	"github.com/LordSri/bragadeesh-portfolio/internal/rating"
	"github.com/LordSri/bragadeesh-portfolio/internal/storage"
)

// App holds all application dependencies
type App struct {
	Config      *config.Config
	Logger      *logging.Logger
	Cache       cache.Cache
	GallerySvc  *gallery.Service
	RatingSvc   *rating.Service
	RaterIssuer *rater.Issuer
	HTTPServer  *httpapi.Server
	db          *database.DB
	storageSvc  *storage.Client
	cdnUploader cdn.Uploader
}

// New creates and initializes a new App instance. The metadata database is
// required; storage and CDN backends are optional and degrade gracefully.
func New(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	// Initialize logger
	app.Logger = app.initLogger()

	// Initialize cache
	app.Cache = app.initCache()

	// Initialize database. The gallery cannot run without its metadata.
	db, err := database.New(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	app.db = db
	app.Logger.Info("Connected to PostgreSQL")

	// Initialize file backends
	app.initStorage()
	app.initCDN()

	// Initialize services
	mediaStore := database.NewMediaStore(db)
	ratingStore := database.NewRatingStore(db)

	var objStorage gallery.ObjectStorage
	if app.storageSvc != nil {
		objStorage = app.storageSvc
	}
	app.GallerySvc = gallery.NewService(mediaStore, objStorage, app.cdnUploader, app.Cache, app.Logger)
	app.RatingSvc = rating.NewService(ratingStore, app.Cache, cfg.Server.RatingInterval, app.Logger)

	issuer, err := rater.NewIssuer(cfg.Rater.TokenSecret, cfg.Rater.TokenIssuer, cfg.Rater.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rater issuer: %w", err)
	}
	app.RaterIssuer = issuer

	// Initialize HTTP server
	app.HTTPServer = httpapi.New(app.GallerySvc, app.RatingSvc, app.RaterIssuer, app.cdnUploader, app.Logger)

	return app, nil
}

// Run starts the HTTP server
func (a *App) Run(ctx context.Context) error {
	return a.HTTPServer.Start(a.Config.Server.HTTPAddr)
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error("HTTP server shutdown error", logging.WithField("error", err.Error()))
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Error("Database close error", logging.WithField("error", err.Error()))
		}
	}

	return nil
}

func (a *App) initLogger() *logging.Logger {
	level := logging.LevelInfo
	switch a.Config.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	return logging.New(level)
}

func (a *App) initCache() cache.Cache {
	switch a.Config.Cache.Backend {
	case "redis":
		a.Logger.Info("Using Redis cache backend", logging.WithField("addr", a.Config.Cache.RedisAddr))
		redisCache, err := cache.NewRedis(cache.RedisConfig{
			Addr:   a.Config.Cache.RedisAddr,
			Prefix: "portfolio:",
		}, a.Config.Cache.TTL)
		if err != nil {
			a.Logger.Error("Failed to connect to Redis, falling back to memory cache", logging.WithField("error", err.Error()))
			return cache.NewMemory(a.Config.Cache.TTL)
		}
		return redisCache
	default:
		a.Logger.Info("Using in-memory cache backend")
		return cache.NewMemory(a.Config.Cache.TTL)
	}
}

// initStorage connects the legacy bucket client when one is configured.
// Items without a CDN linkage are unreachable without it.
func (a *App) initStorage() {
	if a.Config.Storage.Bucket == "" {
		a.Logger.Info("No storage bucket configured, legacy storage disabled")
		return
	}

	client, err := storage.New(context.Background(), storage.Config{
		Region:        a.Config.Storage.Region,
		Bucket:        a.Config.Storage.Bucket,
		PublicBaseURL: a.Config.Storage.PublicBaseURL,
	})
	if err != nil {
		a.Logger.Warn("Failed to initialize storage client, legacy storage disabled",
			logging.WithField("error", err.Error()))
		return
	}

	a.storageSvc = client
	a.Logger.Info("Storage client initialized", logging.WithField("bucket", a.Config.Storage.Bucket))
}

// initCDN picks the CDN client: direct credentials first, then the proxy
// endpoints. With neither, uploads fall back to legacy storage.
func (a *App) initCDN() {
	cfg := a.Config.CDN

	if cfg.CloudName != "" && cfg.APIKey != "" && cfg.APISecret != "" {
		client, err := cdn.NewCloudinary(cfg.CloudName, cfg.APIKey, cfg.APISecret, cfg.Folder)
		if err != nil {
			a.Logger.Warn("Failed to initialize CDN client", logging.WithField("error", err.Error()))
			return
		}
		a.cdnUploader = client
		a.Logger.Info("CDN client initialized", logging.WithField("cloud", cfg.CloudName))
		return
	}

	if cfg.UploadEndpoint != "" && cfg.DeleteEndpoint != "" {
		client, err := cdn.NewProxyClient(cfg.UploadEndpoint, cfg.DeleteEndpoint)
		if err != nil {
			a.Logger.Warn("Failed to initialize CDN proxy client", logging.WithField("error", err.Error()))
			return
		}
		a.cdnUploader = client
		a.Logger.Info("CDN proxy client initialized")
		return
	}

	a.Logger.Info("No CDN configured, uploads use legacy storage")
}
