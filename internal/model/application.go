package model

import "time"

const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// Application 社区加入申请。申请人身份字段为冗余拷贝，
// 审批产生的 Member 记录不依赖申请人账号是否存在
type Application struct {
	ID          string `gorm:"primaryKey;size:36"`
	CommunityID string `gorm:"size:36;not null;index"`
	UserID      string `gorm:"size:36;index"` // 可为空：允许非注册用户申请
	Name        string `gorm:"size:128;not null"`
	Email       string `gorm:"size:128;not null;index"`
	Phone       string `gorm:"size:32"`
	Message     string `gorm:"type:text"`
	Status      string `gorm:"size:16;not null;default:pending"`
	AppliedAt   time.Time
	ReviewedAt  *time.Time
	ReviewedBy  string `gorm:"size:36"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a *Application) TableName() string { return "community_applications" }

func (a *Application) RecordID() string   { return a.ID }
func (a *Application) NaturalKey() string { return "" } // 申请无自然键，仅按 id 索引

func (a *Application) Clone() *Application {
	cp := *a
	if a.ReviewedAt != nil {
		t := *a.ReviewedAt
		cp.ReviewedAt = &t
	}
	return &cp
}

func (a *Application) Touch(now time.Time) { a.UpdatedAt = now }

func (a *Application) Field(name string) (any, bool) {
	switch name {
	case "id":
		return a.ID, true
	case "community_id":
		return a.CommunityID, true
	case "user_id":
		return a.UserID, true
	case "name":
		return a.Name, true
	case "email":
		return a.Email, true
	case "status":
		return a.Status, true
	case "applied_at":
		return a.AppliedAt, true
	case "reviewed_by":
		return a.ReviewedBy, true
	case "created_at":
		return a.CreatedAt, true
	}
	return nil, false
}
