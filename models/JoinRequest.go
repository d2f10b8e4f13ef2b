package models

import "time"

// JoinRequest is a moderated request for membership.
// status: pending, approved, rejected. Terminal states are immutable
// history; at most one pending row per (trip, user).
type JoinRequest struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	TripID uint `json:"tripID" gorm:"not null;index"`
	Trip   Trip `json:"-" gorm:"foreignKey:TripID"`

	UserID uint `json:"userID" gorm:"not null;index"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	Message string `json:"message" gorm:"size:500"`
	Status  string `json:"status" gorm:"size:16;index"`

	ReviewedBy    *uint      `json:"reviewedBy"`
	ReviewedAt    *time.Time `json:"reviewedAt"`
	ReviewMessage string     `json:"reviewMessage" gorm:"size:500"`

	RequestedAt time.Time `json:"requestedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
