package database

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cicd-demo/backend/internal/buildinfo"
	"cicd-demo/backend/internal/config"
	"cicd-demo/backend/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(config.Settings{
		DatabaseType: "sqlite",
		SQLiteDBPath: filepath.Join(t.TempDir(), "ledger.db"),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestOpen_Disabled(t *testing.T) {
	db, err := Open(config.Settings{DatabaseType: "none"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if db != nil {
		t.Fatal("expected nil db when ledger is disabled")
	}
	if err := Close(db); err != nil {
		t.Errorf("Close(nil) = %v, want nil", err)
	}
}

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open(config.Settings{DatabaseType: "postgres"}); err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}

func TestRecordAndListReleases(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, version := range []string{"1.0.0", "1.0.1", "1.1.0"} {
		info := buildinfo.Info{Service: "cicd-demo", Version: version, CommitHash: "abc123"}
		if _, err := RecordRelease(ctx, db, info, "staging"); err != nil {
			t.Fatalf("RecordRelease(%s): %v", version, err)
		}
	}

	releases, err := RecentReleases(ctx, db, 2)
	if err != nil {
		t.Fatalf("RecentReleases: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("len(releases) = %d, want 2", len(releases))
	}
	if releases[0].Version != "1.1.0" || releases[1].Version != "1.0.1" {
		t.Errorf("order = [%s %s], want newest first", releases[0].Version, releases[1].Version)
	}
	if releases[0].Environment != "staging" || releases[0].Hostname == "" {
		t.Errorf("unexpected release row: %+v", releases[0])
	}

	all, err := RecentReleases(ctx, db, 0)
	if err != nil {
		t.Fatalf("RecentReleases(0): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}

	if err := Ping(ctx, db); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func seedReleases(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	rows := make([]models.Release, 0, n)
	start := time.Now().UTC().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		rows = append(rows, models.Release{
			Version:     fmt.Sprintf("1.0.%d", i),
			Environment: "staging",
			Hostname:    "ci-runner",
			StartedAt:   start.Add(time.Duration(i) * time.Minute),
		})
	}
	if err := db.CreateInBatches(rows, 50).Error; err != nil {
		t.Fatalf("seed releases: %v", err)
	}
}

func TestRecentReleases_ClampsLimit(t *testing.T) {
	db := openTestDB(t)
	seedReleases(t, db, MaxReleaseLimit+5)

	releases, err := RecentReleases(context.Background(), db, 500)
	if err != nil {
		t.Fatalf("RecentReleases: %v", err)
	}
	if len(releases) != MaxReleaseLimit {
		t.Fatalf("len(releases) = %d, want %d", len(releases), MaxReleaseLimit)
	}
	if want := fmt.Sprintf("1.0.%d", MaxReleaseLimit+4); releases[0].Version != want {
		t.Errorf("newest = %s, want %s", releases[0].Version, want)
	}
}

func TestOpen_ClosesPoolOnMigrateFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-db.db")
	if err := os.WriteFile(path, bytes.Repeat([]byte("garbage!"), 512), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	db, err := Open(config.Settings{DatabaseType: "sqlite", SQLiteDBPath: path})
	if err == nil {
		_ = Close(db)
		t.Fatal("expected error for a file that is not a sqlite database")
	}
	if db != nil {
		t.Error("expected nil db on failure")
	}
}
