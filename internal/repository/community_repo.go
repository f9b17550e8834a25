package repository

import (
	"errors"
	"time"

	"Seva_Community/internal/model"

	"github.com/rs/zerolog"
)

const (
	colMemberCount   = "member_count"
	colDonationTotal = "donation_total"
)

// CommunityPrimary 在通用主存储接口之外提供原子计数调整
type CommunityPrimary interface {
	Primary[*model.Community]
	AdjustCounter(id, column string, delta int64) error
}

type CommunityRepository struct {
	*Facade[*model.Community]
	cprimary CommunityPrimary
}

func NewCommunityRepository(primary CommunityPrimary, log zerolog.Logger) *CommunityRepository {
	return &CommunityRepository{
		Facade:   NewFacade("community", primary, log),
		cprimary: primary,
	}
}

// GetBySlug slug 是社区的自然键
func (r *CommunityRepository) GetBySlug(slug string) (*model.Community, bool) {
	return r.GetByKey(slug)
}

// AdjustMemberCount 成员数 +delta（下限 0），返回调整后的值
func (r *CommunityRepository) AdjustMemberCount(id string, delta int64) (int64, bool) {
	return r.adjust(id, colMemberCount, delta)
}

// AdjustDonationTotal 捐赠总额 +delta（单位分，下限 0）
func (r *CommunityRepository) AdjustDonationTotal(id string, delta int64) (int64, bool) {
	return r.adjust(id, colDonationTotal, delta)
}

// adjust 两侧都是原子操作：兜底副本在存储锁内合并，主存储用
// GREATEST(col + ?, 0) 表达式，避免读-改-写竞态
func (r *CommunityRepository) adjust(id, column string, delta int64) (int64, bool) {
	local, localOK := r.local.Update(id, func(c *model.Community) {
		switch column {
		case colMemberCount:
			c.MemberCount = floorZero(c.MemberCount + delta)
		case colDonationTotal:
			c.DonationTotal = floorZero(c.DonationTotal + delta)
		}
		c.Touch(time.Now())
	})

	if err := r.cprimary.AdjustCounter(id, column, delta); err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.warn("adjust "+column, id, err)
		}
		if localOK {
			return counterOf(local, column), true
		}
		return 0, false
	}

	// 主存储成功后读回权威值并同步兜底副本
	if canonical, err := r.cprimary.GetByID(id); err == nil {
		r.local.Put(canonical)
		return counterOf(canonical, column), true
	}
	if localOK {
		return counterOf(local, column), true
	}
	return 0, true
}

func counterOf(c *model.Community, column string) int64 {
	if column == colDonationTotal {
		return c.DonationTotal
	}
	return c.MemberCount
}

func floorZero(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
