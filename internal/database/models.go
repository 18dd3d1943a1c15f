package database

// Measurement is one daily observation from the measurement table
type Measurement struct {
	ID      int64    `gorm:"primaryKey;column:id"`
	Station string   `gorm:"column:station"`
	Date    string   `gorm:"column:date"`
	Prcp    *float64 `gorm:"column:prcp"`
	Tobs    float64  `gorm:"column:tobs"`
}

// TableName specifies the table name for Measurement
func (Measurement) TableName() string {
	return "measurement"
}

// Station represents a weather-reporting site in the station table
type Station struct {
	ID        int64   `gorm:"primaryKey;column:id"`
	Station   string  `gorm:"column:station"`
	Name      string  `gorm:"column:name"`
	Latitude  float64 `gorm:"column:latitude"`
	Longitude float64 `gorm:"column:longitude"`
	Elevation float64 `gorm:"column:elevation"`
}

// TableName specifies the table name for Station
func (Station) TableName() string {
	return "station"
}
