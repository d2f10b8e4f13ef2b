package models

import "time"

// TripInvite is a shareable self-enrollment code. The password, when set, is
// stored as a bcrypt hash. A trip with private visibility must never carry an
// active invite; the trip settings route deactivates them on the transition.
type TripInvite struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	TripID uint `json:"tripID" gorm:"not null;index"`
	Trip   Trip `json:"-" gorm:"foreignKey:TripID"`

	CreatedBy uint `json:"createdBy" gorm:"not null"`
	Creator   User `json:"-" gorm:"foreignKey:CreatedBy"`

	InviteCode string `json:"inviteCode" gorm:"uniqueIndex;size:64;not null"`

	HasPassword  bool   `json:"hasPassword"`
	PasswordHash string `json:"-" gorm:"size:80"`

	HasExpiry bool       `json:"hasExpiry"`
	ExpiresAt *time.Time `json:"expiresAt"`

	MaxUses     *int `json:"maxUses"`
	CurrentUses int  `json:"currentUses" gorm:"default:0"`

	IsActive bool `json:"isActive" gorm:"default:true;index"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
