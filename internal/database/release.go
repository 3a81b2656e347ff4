package database

import (
	"context"
	"os"
	"time"

	"cicd-demo/backend/internal/buildinfo"
	"cicd-demo/backend/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultReleaseLimit = 20
	MaxReleaseLimit     = 100
)

func RecordRelease(ctx context.Context, db *gorm.DB, info buildinfo.Info, environment string) (models.Release, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	release := models.Release{
		Version:     info.Version,
		CommitHash:  info.CommitHash,
		Environment: environment,
		Hostname:    hostname,
		StartedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&release).Error; err != nil {
		return models.Release{}, err
	}
	return release, nil
}

// RecentReleases returns up to limit rows, newest first. limit is clamped to
// [1, MaxReleaseLimit].
func RecentReleases(ctx context.Context, db *gorm.DB, limit int) ([]models.Release, error) {
	if limit <= 0 {
		limit = DefaultReleaseLimit
	}
	if limit > MaxReleaseLimit {
		limit = MaxReleaseLimit
	}

	releases := make([]models.Release, 0, limit)
	err := db.WithContext(ctx).
		Order("started_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&releases).Error
	if err != nil {
		return nil, err
	}
	return releases, nil
}

// Ping reports whether the ledger is reachable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
