package repository

import (
	"sync"
	"testing"
	"time"

	"Seva_Community/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCommunityPrimary 在通用 fake 之上补原子计数
type fakeCommunityPrimary struct {
	*fakePrimary[*model.Community]
}

func newFakeCommunityPrimary() *fakeCommunityPrimary {
	return &fakeCommunityPrimary{fakePrimary: newFakePrimary[*model.Community]()}
}

func (p *fakeCommunityPrimary) AdjustCounter(id, column string, delta int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.down {
		return ErrUnavailable
	}
	c, ok := p.rows[id]
	if !ok {
		return ErrNotFound
	}
	switch column {
	case "member_count":
		c.MemberCount += delta
		if c.MemberCount < 0 {
			c.MemberCount = 0
		}
	case "donation_total":
		c.DonationTotal += delta
		if c.DonationTotal < 0 {
			c.DonationTotal = 0
		}
	}
	return nil
}

func testCommunity(id, slug string) *model.Community {
	return &model.Community{
		ID:        id,
		Slug:      slug,
		Name:      slug,
		OwnerID:   "owner",
		Status:    model.StatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestCommunityAdjustMemberCount(t *testing.T) {
	p := newFakeCommunityPrimary()
	r := NewCommunityRepository(p, zerolog.Nop())

	_, err := r.Create(testCommunity("c1", "seva"))
	require.NoError(t, err)

	n, ok := r.AdjustMemberCount("c1", +1)
	require.True(t, ok)
	assert.Equal(t, int64(1), n)

	n, ok = r.AdjustMemberCount("c1", +2)
	require.True(t, ok)
	assert.Equal(t, int64(3), n)

	// 计数下限为 0
	n, ok = r.AdjustMemberCount("c1", -10)
	require.True(t, ok)
	assert.Equal(t, int64(0), n)
}

func TestCommunityAdjustWithPrimaryDown(t *testing.T) {
	p := newFakeCommunityPrimary()
	r := NewCommunityRepository(p, zerolog.Nop())

	_, err := r.Create(testCommunity("c1", "seva"))
	require.NoError(t, err)

	p.setDown(true)
	n, ok := r.AdjustMemberCount("c1", +1)
	require.True(t, ok)
	assert.Equal(t, int64(1), n)

	// 兜底副本里的计数保持可读
	got, found := r.GetBySlug("seva")
	require.True(t, found)
	assert.Equal(t, int64(1), got.MemberCount)
}

// 并发调整不丢更新
func TestCommunityAdjustConcurrent(t *testing.T) {
	p := newFakeCommunityPrimary()
	r := NewCommunityRepository(p, zerolog.Nop())

	_, err := r.Create(testCommunity("c1", "seva"))
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			r.AdjustMemberCount("c1", +1)
		}()
	}
	wg.Wait()

	got, ok := r.GetByID("c1")
	require.True(t, ok)
	assert.Equal(t, int64(n), got.MemberCount)
}

func TestCommunityAdjustDonationTotal(t *testing.T) {
	p := newFakeCommunityPrimary()
	r := NewCommunityRepository(p, zerolog.Nop())

	_, err := r.Create(testCommunity("c1", "seva"))
	require.NoError(t, err)

	n, ok := r.AdjustDonationTotal("c1", 12500)
	require.True(t, ok)
	assert.Equal(t, int64(12500), n)

	n, ok = r.AdjustDonationTotal("c1", 500)
	require.True(t, ok)
	assert.Equal(t, int64(13000), n)
}

func TestCommunityAdjustMissing(t *testing.T) {
	p := newFakeCommunityPrimary()
	r := NewCommunityRepository(p, zerolog.Nop())

	_, ok := r.AdjustMemberCount("missing", +1)
	assert.False(t, ok)
}
