package database

// PrecipitationReading is the projection served by /api/v1.0/precipitation
type PrecipitationReading struct {
	Date          string   `gorm:"column:date" json:"Date"`
	Precipitation *float64 `gorm:"column:prcp" json:"Precipitation"`
}

// TemperatureObservation is the projection served by /api/v1.0/tobs
type TemperatureObservation struct {
	Date        string  `gorm:"column:date" json:"Date"`
	Temperature float64 `gorm:"column:tobs" json:"Temperature"`
}

// TemperatureSummary holds the aggregate of tobs over a date range.
// Each field is nil when no measurement fell inside the range.
type TemperatureSummary struct {
	Min *float64 `gorm:"column:tmin"`
	Max *float64 `gorm:"column:tmax"`
	Avg *float64 `gorm:"column:tavg"`
}

// Values returns the summary in its wire order: min, max, avg
func (s TemperatureSummary) Values() []*float64 {
	return []*float64{s.Min, s.Max, s.Avg}
}

// DateRange bounds an aggregate query. Both bounds are inclusive and compared
// as YYYY-MM-DD text; an empty End leaves the range open.
type DateRange struct {
	Start string
	End   string
}

// IsDateText reports whether s has the NNNN-NN-NN shape of normalized date
// text. It does not check that s is a real calendar date.
func IsDateText(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i == 4 || i == 7 {
			if c != '-' {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
