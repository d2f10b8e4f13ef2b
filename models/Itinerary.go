package models

import "time"

// ItineraryItem belongs to one day of a trip. The stored date is derived
// from the trip start date plus (day - 1) and is recomputed whenever the
// day changes.
type ItineraryItem struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	TripID uint `json:"tripID" gorm:"not null;index"`
	Trip   Trip `json:"-" gorm:"foreignKey:TripID"`

	Day        int    `json:"day" gorm:"not null"`
	Date       string `json:"date" gorm:"size:10"` // YYYY-MM-DD
	Time       string `json:"time" gorm:"size:5"`  // HH:MM, 24-hour
	OrderIndex int    `json:"orderIndex" gorm:"default:0"`

	Title       string `json:"title" gorm:"size:160;not null"`
	Description string `json:"description" gorm:"size:2000"`
	Location    string `json:"location" gorm:"size:200"`

	DurationMinutes *int   `json:"durationMinutes"`
	CostEstimate    string `json:"costEstimate" gorm:"size:80"`
	BookingURL      string `json:"bookingURL" gorm:"size:512"`
	Notes           string `json:"notes" gorm:"size:1000"`

	CommentCount int `json:"commentCount" gorm:"default:0"`

	CreatedBy uint `json:"createdBy" gorm:"not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItineraryComment is member discussion attached to a single item.
type ItineraryComment struct {
	ID     uint          `json:"id" gorm:"primaryKey"`
	ItemID uint          `json:"itemID" gorm:"not null;index"`
	Item   ItineraryItem `json:"-" gorm:"foreignKey:ItemID"`

	UserID uint `json:"userID" gorm:"not null;index"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	Content string `json:"content" gorm:"size:1000;not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
