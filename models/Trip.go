package models

import (
	"time"

	"gorm.io/datatypes"
)

// Trip visibility: public (discoverable, self-joinable), private (members
// only, no invite links), link (reachable only through an invite code).
// Trip status: planning, active, completed, cancelled.
type Trip struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:120;not null"`
	Description string `json:"description" gorm:"size:2000"`
	Location    string `json:"location" gorm:"size:160;index"`
	StartDate   string `json:"startDate" gorm:"size:10"` // YYYY-MM-DD
	EndDate     string `json:"endDate" gorm:"size:10"`
	Budget      float64 `json:"budget"`

	MaxMembers     int `json:"maxMembers" gorm:"default:10"`
	CurrentMembers int `json:"currentMembers" gorm:"default:0"`

	Visibility string `json:"visibility" gorm:"size:16;default:public;index"`
	Status     string `json:"status" gorm:"size:16;default:planning;index"`

	CreatedBy uint `json:"createdBy" gorm:"not null;index"`
	Creator   User `json:"creator" gorm:"foreignKey:CreatedBy"`

	AutoApproveRequests bool `json:"autoApproveRequests"`
	IsLocked            bool `json:"isLocked"`
	LockDaysBefore      int  `json:"lockDaysBefore"`

	Tags          datatypes.JSON `json:"tags"`
	CoverImageURL string         `json:"coverImageURL" gorm:"size:512"`

	Members []TripMember `json:"members" gorm:"foreignKey:TripID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TripMember links a user to a trip. One row per (trip, user).
// role: Admin, Manager, Traveller. status: active, removed.
type TripMember struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	TripID uint `json:"tripID" gorm:"not null;uniqueIndex:idx_trip_user"`
	Trip   Trip `json:"-" gorm:"foreignKey:TripID"`

	UserID uint `json:"userID" gorm:"not null;uniqueIndex:idx_trip_user"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	Role   string `json:"role" gorm:"size:16;index"`
	Status string `json:"status" gorm:"size:16;index"`

	JoinedAt  *time.Time `json:"joinedAt"`
	RemovedAt *time.Time `json:"removedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
