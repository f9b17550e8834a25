package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"Seva_Community/internal/model"
	"Seva_Community/internal/query"
	"Seva_Community/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec[T any] interface {
	RecordID() string
	NaturalKey() string
	Clone() T
	query.Record
}

// memPrimary 测试用内存主存储
type memPrimary[T rec[T]] struct {
	mu    sync.Mutex
	rows  map[string]T
	down  bool
	calls int
}

func newMemPrimary[T rec[T]]() *memPrimary[T] {
	return &memPrimary[T]{rows: make(map[string]T)}
}

func (p *memPrimary[T]) Upsert(r T) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	var zero T
	if p.down {
		return zero, repository.ErrUnavailable
	}
	if key := r.NaturalKey(); key != "" {
		for id, other := range p.rows {
			if id != r.RecordID() && other.NaturalKey() == key {
				return zero, repository.ErrConflict
			}
		}
	}
	p.rows[r.RecordID()] = r.Clone()
	return r.Clone(), nil
}

func (p *memPrimary[T]) GetByID(id string) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	var zero T
	if p.down {
		return zero, repository.ErrUnavailable
	}
	r, ok := p.rows[id]
	if !ok {
		return zero, repository.ErrNotFound
	}
	return r.Clone(), nil
}

func (p *memPrimary[T]) GetByKey(key string) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	var zero T
	if p.down {
		return zero, repository.ErrUnavailable
	}
	for _, r := range p.rows {
		if r.NaturalKey() == key {
			return r.Clone(), nil
		}
	}
	return zero, repository.ErrNotFound
}

func (p *memPrimary[T]) List(f query.Filter) ([]T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.down {
		return nil, repository.ErrUnavailable
	}
	out := make([]T, 0)
	for _, r := range p.rows {
		if f.Match(r) {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (p *memPrimary[T]) Delete(id string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.down {
		return false, repository.ErrUnavailable
	}
	_, ok := p.rows[id]
	delete(p.rows, id)
	return ok, nil
}

func (p *memPrimary[T]) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type memCommunityPrimary struct {
	*memPrimary[*model.Community]
}

func (p *memCommunityPrimary) AdjustCounter(id, column string, delta int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.down {
		return repository.ErrUnavailable
	}
	c, ok := p.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if column == "member_count" {
		c.MemberCount += delta
		if c.MemberCount < 0 {
			c.MemberCount = 0
		}
	} else {
		c.DonationTotal += delta
		if c.DonationTotal < 0 {
			c.DonationTotal = 0
		}
	}
	return nil
}

type memOutbox struct {
	mu   sync.Mutex
	rows []*model.ActivityOutbox
}

func (o *memOutbox) Insert(_ context.Context, ob *model.ActivityOutbox) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rows = append(o.rows, ob)
	return nil
}

func (o *memOutbox) events() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.rows))
	for _, r := range o.rows {
		out = append(out, r.EventType)
	}
	return out
}

type membershipFixture struct {
	svc     *MembershipService
	apps    *memPrimary[*model.Application]
	members *memPrimary[*model.Member]
	comms   *memCommunityPrimary
	commsR  *repository.CommunityRepository
	outbox  *memOutbox
}

func newMembershipFixture(t *testing.T) *membershipFixture {
	t.Helper()
	log := zerolog.Nop()

	appsP := newMemPrimary[*model.Application]()
	membersP := newMemPrimary[*model.Member]()
	commsP := &memCommunityPrimary{memPrimary: newMemPrimary[*model.Community]()}
	outbox := &memOutbox{}

	commsR := repository.NewCommunityRepository(commsP, log)
	f := &membershipFixture{
		apps:    appsP,
		members: membersP,
		comms:   commsP,
		commsR:  commsR,
		outbox:  outbox,
	}
	f.svc = NewMembershipService(
		repository.NewApplicationRepository(appsP, log),
		repository.NewMemberRepository(membersP, log),
		commsR,
		outbox,
		log,
	)

	_, err := commsR.Create(&model.Community{
		ID: "c1", Slug: "seva", Name: "Seva", OwnerID: "owner",
		Status: model.StatusActive, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	require.NoError(t, err)
	return f
}

func (f *membershipFixture) memberCount(t *testing.T) int64 {
	t.Helper()
	c, ok := f.commsR.GetByID("c1")
	require.True(t, ok)
	return c.MemberCount
}

func TestSubmitApplication(t *testing.T) {
	f := newMembershipFixture(t)

	app, err := f.svc.SubmitApplication("c1", "u1", "Asha Patel", "asha@example.org", "", "please")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationPending, app.Status)
	assert.NotEmpty(t, app.ID)

	// 同社区同邮箱在途申请查重
	_, err = f.svc.SubmitApplication("c1", "u1", "Asha Patel", "asha@example.org", "", "again")
	assert.ErrorIs(t, err, ErrDuplicateApplication)
}

func TestSubmitApplicationUnknownCommunity(t *testing.T) {
	f := newMembershipFixture(t)

	_, err := f.svc.SubmitApplication("nope", "u1", "Asha", "asha@example.org", "", "")
	assert.ErrorIs(t, err, ErrCommunityNotFound)
}

func TestApprove(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	app, err := f.svc.SubmitApplication("c1", "u1", "Asha Patel", "asha@example.org", "", "")
	require.NoError(t, err)

	approved, err := f.svc.Approve(ctx, app.ID, "reviewer")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationApproved, approved.Status)
	assert.Equal(t, "reviewer", approved.ReviewedBy)
	require.NotNil(t, approved.ReviewedAt)

	// 成员落库、计数 +1
	members, err := f.svc.ListMembers("c1", "", "", "")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "asha@example.org", members[0].Email)
	assert.Equal(t, int64(1), f.memberCount(t))

	assert.Contains(t, f.outbox.events(), "application_approved")
}

// 重复审批同一已通过申请是幂等空操作，计数不重复累加
func TestApproveIdempotent(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	app, err := f.svc.SubmitApplication("c1", "u1", "Asha", "asha@example.org", "", "")
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, app.ID, "reviewer")
	require.NoError(t, err)
	again, err := f.svc.Approve(ctx, app.ID, "reviewer")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationApproved, again.Status)

	members, err := f.svc.ListMembers("c1", "", "", "")
	require.NoError(t, err)
	assert.Len(t, members, 1)
	assert.Equal(t, int64(1), f.memberCount(t))
}

func TestApproveRejectedApplication(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	app, err := f.svc.SubmitApplication("c1", "u1", "Asha", "asha@example.org", "", "")
	require.NoError(t, err)
	_, err = f.svc.Reject(ctx, app.ID, "reviewer")
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, app.ID, "reviewer")
	assert.ErrorIs(t, err, ErrApplicationRejected)
	assert.Equal(t, int64(0), f.memberCount(t))
}

// 非法 id 在触达任何存储前被拦下
func TestApproveInvalidID(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	for _, id := range []string{"", "   ", "undefined", "null"} {
		before := f.apps.callCount()
		_, err := f.svc.Approve(ctx, id, "reviewer")
		assert.ErrorIs(t, err, ErrInvalidApplicationID, "id=%q", id)
		assert.Equal(t, before, f.apps.callCount(), "id=%q must not reach the store", id)
	}
}

func TestRejectPending(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	app, err := f.svc.SubmitApplication("c1", "u1", "Asha", "asha@example.org", "", "")
	require.NoError(t, err)

	rejected, err := f.svc.Reject(ctx, app.ID, "reviewer")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationRejected, rejected.Status)
	assert.Equal(t, int64(0), f.memberCount(t))
	assert.Contains(t, f.outbox.events(), "application_rejected")
}

// 驳回已通过的申请要撤销成员资格并回减计数
func TestRejectApprovedRevokesMembership(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	app, err := f.svc.SubmitApplication("c1", "u1", "Asha", "asha@example.org", "", "")
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, app.ID, "reviewer")
	require.NoError(t, err)
	require.Equal(t, int64(1), f.memberCount(t))

	rejected, err := f.svc.Reject(ctx, app.ID, "reviewer")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationRejected, rejected.Status)

	members, err := f.svc.ListMembers("c1", "", "", "")
	require.NoError(t, err)
	assert.Empty(t, members)
	assert.Equal(t, int64(0), f.memberCount(t))
	assert.Contains(t, f.outbox.events(), "member_removed")
}

func TestApproveNotFound(t *testing.T) {
	f := newMembershipFixture(t)

	_, err := f.svc.Approve(context.Background(), "no-such-id", "reviewer")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

// 申请仓储主存储宕机时审批流程仍可走完
func TestApproveWithApplicationPrimaryDown(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	app, err := f.svc.SubmitApplication("c1", "u1", "Asha", "asha@example.org", "", "")
	require.NoError(t, err)

	f.apps.mu.Lock()
	f.apps.down = true
	f.apps.mu.Unlock()

	approved, err := f.svc.Approve(ctx, app.ID, "reviewer")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationApproved, approved.Status)
	assert.Equal(t, int64(1), f.memberCount(t))
}

func TestRemoveMember(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	app, err := f.svc.SubmitApplication("c1", "u1", "Asha", "asha@example.org", "", "")
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, app.ID, "reviewer")
	require.NoError(t, err)

	members, err := f.svc.ListMembers("c1", "", "", "")
	require.NoError(t, err)
	require.Len(t, members, 1)

	err = f.svc.RemoveMember(ctx, "c1", members[0].ID, "operator")
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.memberCount(t))

	err = f.svc.RemoveMember(ctx, "c1", members[0].ID, "operator")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestListApplicationsByStatus(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	a1, err := f.svc.SubmitApplication("c1", "u1", "A", "a@example.org", "", "")
	require.NoError(t, err)
	_, err = f.svc.SubmitApplication("c1", "u2", "B", "b@example.org", "", "")
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, a1.ID, "reviewer")
	require.NoError(t, err)

	pending, err := f.svc.ListApplications("c1", model.ApplicationPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b@example.org", pending[0].Email)

	all, err := f.svc.ListApplications("c1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
