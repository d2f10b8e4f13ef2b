package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification rows are owned by the target user and created best-effort as
// side effects of join-request and review events.
type Notification struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userID" gorm:"not null;index"`
	User   User `json:"-" gorm:"foreignKey:UserID"`

	TripID *uint `json:"tripID" gorm:"index"`

	Type    string `json:"type" gorm:"size:32;index"` // join_request, join_approved, join_rejected, ...
	Title   string `json:"title" gorm:"size:100"`
	Message string `json:"message" gorm:"size:500"`

	Data datatypes.JSON `json:"data"`

	IsRead    bool       `json:"isRead" gorm:"default:false;index"`
	ReadAt    *time.Time `json:"readAt"`
	CreatedAt time.Time  `json:"createdAt"`
}
