// Command migrate re-hosts media files from the legacy storage bucket onto
// the image CDN. It walks items that still lack a CDN linkage, asks the CDN
// to fetch each file by its public storage URL, and records the new linkage.
// Files stay in the bucket; rows keep both identifiers.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/LordSri/bragadeesh-portfolio/internal/cdn"
	"github.com/LordSri/bragadeesh-portfolio/internal/config"
	"github.com/LordSri/bragadeesh-portfolio/internal/database"
	"github.com/LordSri/bragadeesh-portfolio/internal/logging"
	"github.com/LordSri/bragadeesh-portfolio/internal/models"
	"github.com/LordSri/bragadeesh-portfolio/internal/storage"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "List items that would migrate without uploading")
	limit := flag.Int("limit", 0, "Maximum number of items to migrate (0 = all)")
	cfg := config.Load()

	level := logging.LevelInfo
	if cfg.Logging.Level == "debug" {
		level = logging.LevelDebug
	}
	logger := logging.New(level)

	if cfg.Storage.Bucket == "" {
		logger.Error("STORAGE_BUCKET is required to resolve legacy file URLs")
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := storage.New(ctx, storage.Config{
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		logger.Error("Failed to initialize storage client", logging.WithField("error", err.Error()))
		os.Exit(1)
	}

	uploader, err := newUploader(cfg)
	if err != nil {
		logger.Error("Failed to initialize CDN client", logging.WithField("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.New(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("Failed to connect to database", logging.WithField("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	mediaStore := database.NewMediaStore(db)

	items, err := mediaStore.ListUnmigrated(ctx, *limit)
	if err != nil {
		logger.Error("Failed to list unmigrated items", logging.WithField("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Found unmigrated media items", logging.WithField("count", len(items)))

	migrated, failed := 0, 0
	for _, item := range items {
		srcURL := store.PublicURL(item.StorageID)

		if *dryRun {
			logger.Info("Would migrate", logging.WithFields(map[string]interface{}{
				"id":  item.ID,
				"src": srcURL,
			}))
			continue
		}

		if err := migrateItem(ctx, uploader, mediaStore, item, srcURL); err != nil {
			logger.Warn("Migration failed, skipping item", logging.WithFields(map[string]interface{}{
				"id":    item.ID,
				"error": err.Error(),
			}))
			failed++
			continue
		}

		logger.Info("Migrated media item", logging.WithField("id", item.ID))
		migrated++
	}

	logger.Info("Migration complete", logging.WithFields(map[string]interface{}{
		"migrated": migrated,
		"failed":   failed,
		"total":    len(items),
	}))
	if failed > 0 {
		os.Exit(1)
	}
}

func newUploader(cfg *config.Config) (cdn.Uploader, error) {
	if cfg.CDN.CloudName != "" && cfg.CDN.APIKey != "" && cfg.CDN.APISecret != "" {
		return cdn.NewCloudinary(cfg.CDN.CloudName, cfg.CDN.APIKey, cfg.CDN.APISecret, cfg.CDN.Folder)
	}
	return cdn.NewProxyClient(cfg.CDN.UploadEndpoint, cfg.CDN.DeleteEndpoint)
}

func migrateItem(ctx context.Context, uploader cdn.Uploader, store *database.MediaStore, item models.MediaItem, srcURL string) error {
	fileName := item.FileName
	if fileName == "" {
		fileName = item.StorageID
	}

	result, err := uploader.UploadFromURL(ctx, srcURL, fileName)
	if err != nil {
		return err
	}

	if _, err := store.SetCDNLinkage(ctx, item.ID, result.PublicID, result.SecureURL); err != nil {
		return err
	}
	return nil
}
