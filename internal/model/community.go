package model

import "time"

type Community struct {
	ID            string `gorm:"primaryKey;size:36"`
	Slug          string `gorm:"uniqueIndex;size:96;not null"`
	Name          string `gorm:"size:128;not null"`
	Description   string `gorm:"type:text"`
	OwnerID       string `gorm:"size:36;not null;index"`
	LogoURL       string `gorm:"size:255"`
	CoverImageURL string `gorm:"size:255"`
	Status        string `gorm:"size:16;not null;default:active"`
	MemberCount   int64  `gorm:"not null;default:0"`
	DonationTotal int64  `gorm:"not null;default:0"` // 单位：分
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (c *Community) RecordID() string   { return c.ID }
func (c *Community) NaturalKey() string { return c.Slug }

func (c *Community) Clone() *Community {
	cp := *c
	return &cp
}

func (c *Community) Touch(now time.Time) { c.UpdatedAt = now }

func (c *Community) Field(name string) (any, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "slug":
		return c.Slug, true
	case "name":
		return c.Name, true
	case "description":
		return c.Description, true
	case "owner_id":
		return c.OwnerID, true
	case "status":
		return c.Status, true
	case "member_count":
		return c.MemberCount, true
	case "donation_total":
		return c.DonationTotal, true
	case "created_at":
		return c.CreatedAt, true
	case "updated_at":
		return c.UpdatedAt, true
	}
	return nil, false
}

// CommunityPatch 部分更新，nil 表示不修改
type CommunityPatch struct {
	Name          *string
	Description   *string
	LogoURL       *string
	CoverImageURL *string
	Status        *string
}

func (p CommunityPatch) Apply(c *Community) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.LogoURL != nil {
		c.LogoURL = *p.LogoURL
	}
	if p.CoverImageURL != nil {
		c.CoverImageURL = *p.CoverImageURL
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
}
