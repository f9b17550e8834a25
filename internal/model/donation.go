package model

import "time"

type Donation struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	CommunityID string `gorm:"size:36;not null;index"`
	DonorName   string `gorm:"size:128;not null"`
	DonorEmail  string `gorm:"size:128;index"`
	AmountCents int64  `gorm:"not null"`
	Currency    string `gorm:"size:8;not null;default:INR"`
	Method      string `gorm:"size:32"` // upi / card / cash / cheque
	Note        string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Donation) TableName() string { return "donations" }
