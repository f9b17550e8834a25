package model

import "time"

const (
	EventScheduled = "scheduled"
	EventCancelled = "cancelled"
	EventDone      = "done"
)

type Event struct {
	ID            uint64 `gorm:"primaryKey"`
	CommunityID   string `gorm:"size:36;not null;index"`
	Title         string `gorm:"size:200;not null"`
	Description   string `gorm:"type:text"`
	Location      string `gorm:"size:255"`
	StartsAt      time.Time
	EndsAt        time.Time
	Capacity      int    `gorm:"not null;default:0"` // 0 表示不限
	AttendeeCount int64  `gorm:"not null;default:0"`
	Status        string `gorm:"size:16;not null;default:scheduled"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Event) TableName() string { return "community_events" }

// EventRegistration 活动报名关系，(event_id, user_id) 唯一
type EventRegistration struct {
	ID        uint64 `gorm:"primaryKey"`
	EventID   uint64 `gorm:"not null;index;uniqueIndex:uk_event_user"`
	UserID    string `gorm:"size:36;not null;index;uniqueIndex:uk_event_user"`
	Status    int8   `gorm:"not null;default:1;comment:'1=registered,0=cancelled'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EventRegistration) TableName() string { return "event_registrations" }
