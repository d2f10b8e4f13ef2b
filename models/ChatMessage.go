package models

import "time"

// ChatMessage is trip-scoped chat. File fields carry upload metadata when
// the message is a shared attachment; ReplyTo threads onto an earlier row.
type ChatMessage struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	TripID uint `json:"tripID" gorm:"not null;index"`
	Trip   Trip `json:"-" gorm:"foreignKey:TripID"`

	UserID uint `json:"userID" gorm:"not null;index"`
	Sender User `json:"sender" gorm:"foreignKey:UserID"`

	Message     string `json:"message" gorm:"size:2000"`
	MessageType string `json:"messageType" gorm:"size:16;default:text"` // text, file, image

	FileURL      string `json:"fileURL" gorm:"size:512"`
	FileName     string `json:"fileName" gorm:"size:255"`
	FileSize     int64  `json:"fileSize"`
	FileMimeType string `json:"fileMimeType" gorm:"size:80"`

	ReplyTo *uint `json:"replyTo"`

	CreatedAt time.Time `json:"createdAt"`
}
