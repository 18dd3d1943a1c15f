// Package dbtest builds small climate datasets for tests. The schema matches
// the measurement and station tables of the Hawaii dataset file.
package dbtest

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/chrissnell/climatequery/internal/database"
	"github.com/chrissnell/climatequery/pkg/config"
)

var schema = []string{`
CREATE TABLE station (
  id        INTEGER NOT NULL,
  station   TEXT,
  name      TEXT,
  latitude  FLOAT,
  longitude FLOAT,
  elevation FLOAT,
  PRIMARY KEY (id)
)`, `
CREATE TABLE measurement (
  id      INTEGER NOT NULL,
  station TEXT,
  date    TEXT,
  prcp    FLOAT,
  tobs    FLOAT,
  PRIMARY KEY (id)
)`,
}

// Open returns an empty in-memory dataset. The pool holds a single
// connection so that every query sees the same in-memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseData{
		Driver:       config.DriverSQLite,
		DSN:          ":memory:",
		MaxOpenConns: 1,
	}, false)
	if err != nil {
		t.Fatalf("open dataset: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Errorf("close dataset: %v", err)
		}
	})

	createSchema(t, db)
	return db
}

// OpenSeeded returns an in-memory dataset loaded with Stations and Measurements
func OpenSeeded(t testing.TB) *gorm.DB {
	t.Helper()
	db := Open(t)
	Seed(t, db, Stations(), Measurements())
	return db
}

// CreateFile writes the seeded dataset to a SQLite file under t.TempDir and
// returns its path.
func CreateFile(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hawaii.sqlite")
	db, err := database.Open(config.DatabaseData{
		Driver: config.DriverSQLite,
		Path:   path,
	}, false)
	if err != nil {
		t.Fatalf("create dataset file: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			t.Errorf("close dataset file: %v", err)
		}
	}()

	createSchema(t, db)
	Seed(t, db, Stations(), Measurements())
	return path
}

func createSchema(t testing.TB, db *gorm.DB) {
	t.Helper()
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
}

// Seed inserts stations and measurements in the given order
func Seed(t testing.TB, db *gorm.DB, stations []database.Station, measurements []database.Measurement) {
	t.Helper()

	if len(stations) > 0 {
		if err := db.Create(&stations).Error; err != nil {
			t.Fatalf("insert stations: %v", err)
		}
	}
	if len(measurements) > 0 {
		if err := db.Create(&measurements).Error; err != nil {
			t.Fatalf("insert measurements: %v", err)
		}
	}
}

// Stations returns the fixture stations
func Stations() []database.Station {
	return []database.Station{
		{Station: "USC00519397", Name: "WAIKIKI 717.2, HI US", Latitude: 21.2716, Longitude: -157.8168, Elevation: 3.0},
		{Station: "USC00513117", Name: "KANEOHE 838.1, HI US", Latitude: 21.4234, Longitude: -157.8015, Elevation: 14.6},
		{Station: "USC00519281", Name: "WAIHEE 837.5, HI US", Latitude: 21.45167, Longitude: -157.84889, Elevation: 32.9},
		{Station: "USC00516128", Name: "MANOA LYON ARBO 785.2, HI US", Latitude: 21.3331, Longitude: -157.8025, Elevation: 152.4},
	}
}

// Measurements returns the fixture observations. They are deliberately not
// in date order so that ordering has to come from the query.
func Measurements() []database.Measurement {
	return []database.Measurement{
		{Station: "USC00513117", Date: "2010-01-01", Prcp: ptr(0.08), Tobs: 65},
		{Station: "USC00519397", Date: "2016-08-21", Prcp: ptr(0.0), Tobs: 79},
		{Station: "USC00519397", Date: "2016-08-22", Prcp: ptr(0.4), Tobs: 80},
		{Station: "USC00519281", Date: "2016-08-22", Prcp: ptr(0.02), Tobs: 75},
		{Station: "USC00516128", Date: "2017-08-23", Prcp: ptr(0.45), Tobs: 82},
		{Station: "USC00519397", Date: "2016-08-23", Prcp: ptr(0.0), Tobs: 81},
		{Station: "USC00513117", Date: "2016-08-23", Prcp: ptr(0.15), Tobs: 76},
		{Station: "USC00519281", Date: "2016-08-23", Prcp: ptr(1.79), Tobs: 77},
		{Station: "USC00516128", Date: "2016-08-23", Prcp: nil, Tobs: 74},
		{Station: "USC00519281", Date: "2016-08-24", Prcp: ptr(2.15), Tobs: 80},
		{Station: "USC00519397", Date: "2016-08-24", Prcp: ptr(0.08), Tobs: 79},
		{Station: "USC00519281", Date: "2017-05-31", Prcp: ptr(0.0), Tobs: 78},
	}
}

func ptr(f float64) *float64 {
	return &f
}
