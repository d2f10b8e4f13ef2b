package models

import "time"

// Review of a completed trip by a member. One review per (trip, user).
type Review struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	TripID uint `json:"tripID" gorm:"not null;uniqueIndex:idx_review_trip_user"`
	Trip   Trip `json:"-" gorm:"foreignKey:TripID"`

	UserID uint `json:"userID" gorm:"not null;uniqueIndex:idx_review_trip_user"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	Rating     int    `json:"rating" gorm:"not null"` // 1..5
	ReviewText string `json:"reviewText" gorm:"size:2000"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
