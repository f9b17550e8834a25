package model

import "time"

// ActivityOutbox 社区动态事件表，由投递器异步交给 kafka
type ActivityOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:32;not null"` // application_approved / application_rejected / member_removed / donation_recorded / broadcast_sent
	CommunityID string `gorm:"size:36;not null;index"`
	ActorID     string `gorm:"size:36"`
	Payload     string `gorm:"type:json;not null"`
	Status      int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ActivityOutbox) TableName() string { return "activity_outbox" }
