package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// TobsStation is the station whose observations /api/v1.0/tobs serves
const TobsStation = "USC00519281"

var (
	// PrecipitationAfter is the exclusive lower bound of /api/v1.0/precipitation
	PrecipitationAfter = time.Date(2016, time.August, 22, 0, 0, 0, 0, time.UTC)

	// TobsSince is the inclusive lower bound of /api/v1.0/tobs
	TobsSince = time.Date(2016, time.August, 23, 0, 0, 0, 0, time.UTC)
)

// Store runs the climate queries against the measurement and station tables.
// Every call takes its own connection from the pool and returns it before
// the call returns.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store backed by db
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) postgres() bool {
	return s.db.Dialector.Name() == "postgres"
}

// dateText is the SQL expression that renders measurement.date as YYYY-MM-DD text
func (s *Store) dateText() string {
	if s.postgres() {
		return "to_char(CAST(date AS date), 'YYYY-MM-DD')"
	}
	return "strftime('%Y-%m-%d', date)"
}

// dateColumn selects measurement.date so that it scans into a string
func (s *Store) dateColumn() string {
	if s.postgres() {
		return s.dateText() + " AS date"
	}
	return "date"
}

// Precipitation returns every measurement dated after PrecipitationAfter,
// ascending by date. Rows sharing a date are all kept.
func (s *Store) Precipitation(ctx context.Context) ([]PrecipitationReading, error) {
	readings := []PrecipitationReading{}

	err := s.db.WithContext(ctx).
		Model(&Measurement{}).
		Select(s.dateColumn()+", prcp").
		Where("date > ?", PrecipitationAfter.Format(time.DateOnly)).
		Order("date").
		Scan(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("error querying precipitation: %w", err)
	}

	if readings == nil {
		readings = []PrecipitationReading{}
	}
	return readings, nil
}

// StationIDs returns the distinct station identifiers from the station table
func (s *Store) StationIDs(ctx context.Context) ([]string, error) {
	ids := []string{}

	err := s.db.WithContext(ctx).
		Model(&Station{}).
		Distinct().
		Pluck("station", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("error querying stations: %w", err)
	}

	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// TemperatureObservations returns TobsStation's observations from TobsSince
// onward. No ORDER BY is applied; rows come back in storage scan order.
func (s *Store) TemperatureObservations(ctx context.Context) ([]TemperatureObservation, error) {
	observations := []TemperatureObservation{}

	err := s.db.WithContext(ctx).
		Model(&Measurement{}).
		Select(s.dateColumn()+", tobs").
		Where("date >= ?", TobsSince.Format(time.DateOnly)).
		Where("station = ?", TobsStation).
		Scan(&observations).Error
	if err != nil {
		return nil, fmt.Errorf("error querying temperature observations: %w", err)
	}

	if observations == nil {
		observations = []TemperatureObservation{}
	}
	return observations, nil
}

// TemperatureSummary aggregates tobs over r, comparing the normalized date
// text of each measurement with the bounds lexicographically. Any bound that
// is not shaped like NNNN-NN-NN date text (a bare year such as "2016", an
// unpadded "2016-8-23", a comma form such as "2016,2,23") yields an empty
// summary without querying, even where a raw text comparison would match
// rows. Shape-valid but impossible dates are still compared as text.
func (s *Store) TemperatureSummary(ctx context.Context, r DateRange) (TemperatureSummary, error) {
	var summary TemperatureSummary

	if !IsDateText(r.Start) || (r.End != "" && !IsDateText(r.End)) {
		return summary, nil
	}

	q := s.db.WithContext(ctx).
		Model(&Measurement{}).
		Select("MIN(tobs) AS tmin, MAX(tobs) AS tmax, AVG(tobs) AS tavg").
		Where(s.dateText()+" >= ?", r.Start)
	if r.End != "" {
		q = q.Where(s.dateText()+" <= ?", r.End)
	}

	if err := q.Scan(&summary).Error; err != nil {
		return TemperatureSummary{}, fmt.Errorf("error querying temperature summary: %w", err)
	}

	return summary, nil
}
