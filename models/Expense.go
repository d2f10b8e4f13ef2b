package models

import "time"

// Expense is a shared cost within a trip, divided into per-member splits at
// creation time (equal, custom or percentage policy).
type Expense struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	TripID uint `json:"tripID" gorm:"not null;index"`
	Trip   Trip `json:"-" gorm:"foreignKey:TripID"`

	Description string  `json:"description" gorm:"size:300;not null"`
	Amount      float64 `json:"amount" gorm:"not null"`
	Category    string  `json:"category" gorm:"size:40;index"`

	PaidBy    uint `json:"paidBy" gorm:"not null"`
	Payer     User `json:"payer" gorm:"foreignKey:PaidBy"`
	CreatedBy uint `json:"createdBy" gorm:"not null"`

	Splits []ExpenseSplit `json:"splits" gorm:"foreignKey:ExpenseID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ExpenseSplit struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	ExpenseID uint    `json:"expenseID" gorm:"not null;index"`
	UserID    uint    `json:"userID" gorm:"not null;index"`
	User      User    `json:"user" gorm:"foreignKey:UserID"`
	Amount    float64 `json:"amount"`
	Percentage float64 `json:"percentage"`

	CreatedAt time.Time `json:"createdAt"`
}
