package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/huangang/quill/internal/config"
	"github.com/huangang/quill/internal/models"
	"github.com/huangang/quill/internal/services"
	"github.com/huangang/quill/internal/store"
	"gorm.io/gorm/logger"
)

// Deletes expired refresh tokens once, outside the server's cron schedule.
// Useful after long downtime or when the refresh store was switched to redis
// and the old table should be emptied.
func main() {
	dryRun := flag.Bool("dry-run", false, "only count expired tokens")
	flag.Parse()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := models.Open(&cfg.Database, logger.Warn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	fmt.Println("Connected to database successfully!")

	now := time.Now()
	var total, expired int64
	if err := db.Model(&models.RefreshToken{}).Count(&total).Error; err != nil {
		log.Fatalf("Failed to count refresh tokens: %v", err)
	}
	if err := db.Model(&models.RefreshToken{}).Where("expires_at < ?", now).Count(&expired).Error; err != nil {
		log.Fatalf("Failed to count expired tokens: %v", err)
	}
	fmt.Printf("Refresh tokens: %d total, %d expired\n", total, expired)

	if *dryRun || expired == 0 {
		fmt.Println("Nothing deleted.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cleanup := services.NewTokenCleanupService(store.NewGormRefreshTokenStore(db), "@hourly", nil)
	deleted, err := cleanup.RunOnce(ctx)
	if err != nil {
		log.Fatalf("Failed to delete expired tokens: %v", err)
	}

	fmt.Printf("Deleted %d expired refresh tokens.\n", deleted)
}
