package database_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chrissnell/climatequery/internal/database"
	"github.com/chrissnell/climatequery/internal/database/dbtest"
	"github.com/chrissnell/climatequery/pkg/config"
)

func TestOpenReadOnlyFile(t *testing.T) {
	path := dbtest.CreateFile(t)

	db, err := database.Open(config.DatabaseData{
		Driver:       config.DriverSQLite,
		Path:         path,
		ReadOnly:     true,
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	}, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close(db)

	ids, err := database.NewStore(db).StationIDs(context.Background())
	if err != nil {
		t.Fatalf("StationIDs: %v", err)
	}
	if len(ids) != 4 {
		t.Errorf("got %d stations, expected 4", len(ids))
	}

	if err := db.Exec("DELETE FROM measurement").Error; err == nil {
		t.Error("write succeeded on a read-only dataset")
	}
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.sqlite")

	_, err := database.Open(config.DatabaseData{
		Driver:   config.DriverSQLite,
		Path:     path,
		ReadOnly: true,
	}, false)
	if err == nil {
		t.Fatal("Open succeeded for a missing read-only dataset")
	}
}

// TestOpenCGODriver checks that the mattn driver reads the same file. Builds
// without cgo register a stub driver that refuses to open, so the test skips.
func TestOpenCGODriver(t *testing.T) {
	path := dbtest.CreateFile(t)

	db, err := database.Open(config.DatabaseData{
		Driver:   config.DriverSQLiteCGO,
		Path:     path,
		ReadOnly: true,
	}, false)
	if err != nil {
		if strings.Contains(err.Error(), "CGO_ENABLED=0") {
			t.Skip("mattn/go-sqlite3 requires cgo")
		}
		t.Fatalf("Open: %v", err)
	}
	defer database.Close(db)

	summary, err := database.NewStore(db).TemperatureSummary(context.Background(), database.DateRange{Start: "2016-08-23"})
	if err != nil {
		t.Fatalf("TemperatureSummary: %v", err)
	}
	if summary.Min == nil || *summary.Min != 74 || summary.Max == nil || *summary.Max != 82 {
		t.Errorf("summary = %v, expected min 74 and max 82", format(summary))
	}
}

func TestClose(t *testing.T) {
	if err := database.Close(nil); err != nil {
		t.Errorf("Close(nil) = %v", err)
	}
}
