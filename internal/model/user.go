package model

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleChairman = "chairman"
	RoleBoard    = "board"
)

type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	FullName     string `gorm:"size:128;not null"`
	Phone        string `gorm:"size:32"`
	AvatarURL    string `gorm:"size:255"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:32;not null;default:user"`
	Status       string `gorm:"size:16;not null;default:active"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) RecordID() string   { return u.ID }
func (u *User) NaturalKey() string { return u.Email }

func (u *User) Clone() *User {
	cp := *u
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		cp.LastLoginAt = &t
	}
	return &cp
}

func (u *User) Touch(now time.Time) { u.UpdatedAt = now }

func (u *User) Field(name string) (any, bool) {
	switch name {
	case "id":
		return u.ID, true
	case "email":
		return u.Email, true
	case "full_name":
		return u.FullName, true
	case "phone":
		return u.Phone, true
	case "role":
		return u.Role, true
	case "status":
		return u.Status, true
	case "created_at":
		return u.CreatedAt, true
	case "updated_at":
		return u.UpdatedAt, true
	}
	return nil, false
}

// UserPatch 部分更新，nil 表示不修改
type UserPatch struct {
	FullName  *string
	Phone     *string
	AvatarURL *string
	Role      *string
	Status    *string
}

func (p UserPatch) Apply(u *User) {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
}
