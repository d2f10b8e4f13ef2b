package models

import "time"

// TripCity is one stop on a trip's route. Cities are ordered by OrderIndex,
// which defaults to the end of the list on insert and is rewritten by the
// bulk reorder endpoint.
type TripCity struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	TripID uint `json:"tripID" gorm:"not null;index"`
	Trip   Trip `json:"-" gorm:"foreignKey:TripID"`

	CityName   string `json:"cityName" gorm:"size:120;not null"`
	Country    string `json:"country" gorm:"size:120"`
	OrderIndex int    `json:"orderIndex" gorm:"default:0"`

	ArrivalDate   string `json:"arrivalDate" gorm:"size:10"`   // YYYY-MM-DD
	DepartureDate string `json:"departureDate" gorm:"size:10"` // YYYY-MM-DD
	Notes         string `json:"notes" gorm:"size:1000"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
