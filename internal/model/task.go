package model

import "time"

const (
	TaskOpen       = 0
	TaskInProgress = 1
	TaskDone       = 2
	TaskDeleted    = 3
)

type Task struct {
	ID          uint64 `gorm:"primaryKey;index:idx_comm_time_id,priority:3,sort:desc"`
	CommunityID string `gorm:"size:36;not null;index:idx_comm_time_id,priority:1"`
	CreatorID   string `gorm:"size:36;not null;index"`
	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"type:text"`
	Status      int    `gorm:"not null;default:0"` // 0=open 1=in_progress 2=done 3=deleted
	Priority    int    `gorm:"not null;default:1"` // 0=low 1=normal 2=high
	DueAt       *time.Time
	CreatedAt   time.Time `gorm:"index:idx_comm_time_id,priority:2,sort:desc"`
	UpdatedAt   time.Time
}

func (Task) TableName() string { return "community_tasks" }
