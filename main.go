package main

import (
	"context"
	"fmt"
	"log"

	"nirvana-heritage/internal/config"
	"nirvana-heritage/internal/database"
	"nirvana-heritage/internal/filestore"
	"nirvana-heritage/internal/notify"
	"nirvana-heritage/internal/router"
	"nirvana-heritage/internal/store"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	deps, err := buildDeps(ctx, cfg)
	if err != nil {
		log.Fatalf("init backends: %v", err)
	}

	// setup router
	r := router.SetupRouter(cfg, deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("Nirvana Heritage listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

// buildDeps selects the user directory, file store and notifier backends
// from configuration.
func buildDeps(ctx context.Context, cfg *config.Config) (router.Deps, error) {
	var deps router.Deps

	switch cfg.Database.Driver {
	case "dynamo":
		client, err := store.NewDynamoClient(ctx, cfg.Database.Region)
		if err != nil {
			return deps, fmt.Errorf("dynamo client: %w", err)
		}
		deps.Users = store.NewDynamoUserDirectory(client, cfg.Database.UsersTable)
		deps.Logs = store.NewDynamoAdminLog(client, cfg.Database.LogsTable)
	default: // sqlite
		db, err := database.Init(cfg.Database)
		if err != nil {
			return deps, fmt.Errorf("init database: %w", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			return deps, fmt.Errorf("migrate database: %w", err)
		}
		deps.Users = store.NewGormUserDirectory(db)
		deps.Logs = store.NewGormAdminLog(db)
	}

	switch cfg.Storage.Driver {
	case "s3":
		objStore, err := filestore.NewObjectStore(ctx, filestore.ObjectStoreOptions{
			Endpoint:        cfg.Storage.Endpoint,
			AccessKey:       cfg.Storage.AccessKey,
			SecretKey:       cfg.Storage.SecretKey,
			UseSSL:          cfg.Storage.UseSSL,
			UploadBucket:    cfg.Storage.UploadBucket,
			ProcessedBucket: cfg.Storage.ProcessedBucket,
		})
		if err != nil {
			return deps, fmt.Errorf("object store: %w", err)
		}
		deps.Files = objStore
	default: // local
		local, err := filestore.NewLocal(cfg.Storage.UploadDir, cfg.Storage.ProcessedDir)
		if err != nil {
			return deps, fmt.Errorf("local store: %w", err)
		}
		deps.Files = local
	}

	switch cfg.Notify.Driver {
	case "smtp":
		smtp := notify.NewSMTP(cfg.Mail)
		deps.Notifier = smtp
		deps.Mailer = smtp
	case "sns":
		snsNotifier, err := notify.NewSNS(ctx, cfg.Notify.Region, cfg.Notify.TopicARN)
		if err != nil {
			return deps, fmt.Errorf("sns notifier: %w", err)
		}
		deps.Notifier = snsNotifier
	default:
		deps.Notifier = notify.Noop{}
	}

	// reset links still need mail when notifications go elsewhere
	if deps.Mailer == nil && cfg.Mail.Host != "" {
		deps.Mailer = notify.NewSMTP(cfg.Mail)
	}

	return deps, nil
}
