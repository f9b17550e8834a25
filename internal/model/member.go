package model

import "time"

const (
	MemberRoleMember = "member"
	MemberRoleLead   = "lead"
	MemberRoleOwner  = "owner"
)

type Member struct {
	ID          string `gorm:"primaryKey;size:36"`
	CommunityID string `gorm:"size:36;not null;index;uniqueIndex:uk_community_email"`
	UserID      string `gorm:"size:36;index"`
	Email       string `gorm:"size:128;not null;uniqueIndex:uk_community_email"`
	FullName    string `gorm:"size:128;not null"`
	Phone       string `gorm:"size:32"`
	Role        string `gorm:"size:32;not null;default:member"`
	Status      string `gorm:"size:16;not null;default:active"`
	IsLead      bool   `gorm:"not null;default:false"`
	JoinedAt    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (m *Member) TableName() string { return "community_members" }

func (m *Member) RecordID() string { return m.ID }

// NaturalKey 社区内按邮箱唯一
func (m *Member) NaturalKey() string { return MemberKey(m.CommunityID, m.Email) }

func MemberKey(communityID, email string) string { return communityID + "/" + email }

func (m *Member) Clone() *Member {
	cp := *m
	return &cp
}

func (m *Member) Touch(now time.Time) { m.UpdatedAt = now }

func (m *Member) Field(name string) (any, bool) {
	switch name {
	case "id":
		return m.ID, true
	case "community_id":
		return m.CommunityID, true
	case "user_id":
		return m.UserID, true
	case "email":
		return m.Email, true
	case "full_name":
		return m.FullName, true
	case "role":
		return m.Role, true
	case "status":
		return m.Status, true
	case "joined_at":
		return m.JoinedAt, true
	case "created_at":
		return m.CreatedAt, true
	}
	return nil, false
}
