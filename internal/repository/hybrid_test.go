package repository

import (
	"sync"
	"testing"
	"time"

	"Seva_Community/internal/model"
	"Seva_Community/internal/query"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePrimary 内存版主存储，down=true 时全部操作返回 ErrUnavailable
type fakePrimary[T record[T]] struct {
	mu   sync.Mutex
	rows map[string]T
	down bool
}

func newFakePrimary[T record[T]]() *fakePrimary[T] {
	return &fakePrimary[T]{rows: make(map[string]T)}
}

func (p *fakePrimary[T]) setDown(down bool) {
	p.mu.Lock()
	p.down = down
	p.mu.Unlock()
}

func (p *fakePrimary[T]) Upsert(rec T) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var zero T
	if p.down {
		return zero, ErrUnavailable
	}
	if key := rec.NaturalKey(); key != "" {
		for id, other := range p.rows {
			if id != rec.RecordID() && other.NaturalKey() == key {
				return zero, ErrConflict
			}
		}
	}
	p.rows[rec.RecordID()] = rec.Clone()
	return rec.Clone(), nil
}

func (p *fakePrimary[T]) GetByID(id string) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var zero T
	if p.down {
		return zero, ErrUnavailable
	}
	rec, ok := p.rows[id]
	if !ok {
		return zero, ErrNotFound
	}
	return rec.Clone(), nil
}

func (p *fakePrimary[T]) GetByKey(key string) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var zero T
	if p.down {
		return zero, ErrUnavailable
	}
	for _, rec := range p.rows {
		if rec.NaturalKey() == key {
			return rec.Clone(), nil
		}
	}
	return zero, ErrNotFound
}

func (p *fakePrimary[T]) List(f query.Filter) ([]T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.down {
		return nil, ErrUnavailable
	}
	out := make([]T, 0)
	for _, rec := range p.rows {
		if f.Match(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (p *fakePrimary[T]) Delete(id string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.down {
		return false, ErrUnavailable
	}
	_, ok := p.rows[id]
	delete(p.rows, id)
	return ok, nil
}

func testUser(id, email string) *model.User {
	return &model.User{
		ID:        id,
		Email:     email,
		FullName:  "Test User",
		Status:    model.StatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestFacadeCreateHealthyPrimary(t *testing.T) {
	p := newFakePrimary[*model.User]()
	f := NewFacade[*model.User]("user", p, zerolog.Nop())

	created, err := f.Create(testUser("u1", "a@example.org"))
	require.NoError(t, err)
	assert.Equal(t, "u1", created.ID)

	got, ok := f.GetByID("u1")
	require.True(t, ok)
	assert.Equal(t, "a@example.org", got.Email)
}

func TestFacadeCreateConflict(t *testing.T) {
	p := newFakePrimary[*model.User]()
	f := NewFacade[*model.User]("user", p, zerolog.Nop())

	_, err := f.Create(testUser("u1", "a@example.org"))
	require.NoError(t, err)

	_, err = f.Create(testUser("u2", "a@example.org"))
	assert.ErrorIs(t, err, ErrConflict)

	// 冲突的新记录不能留在兜底副本里
	_, ok := f.GetByID("u2")
	assert.False(t, ok)
	assert.Equal(t, 1, f.LocalLen())
}

// 主存储不可达时写入仍然成功，且随后可读（read-your-writes）
func TestFacadeCreateWithPrimaryDown(t *testing.T) {
	p := newFakePrimary[*model.User]()
	f := NewFacade[*model.User]("user", p, zerolog.Nop())
	p.setDown(true)

	created, err := f.Create(testUser("u1", "a@example.org"))
	require.NoError(t, err)
	assert.Equal(t, "u1", created.ID)

	got, ok := f.GetByID("u1")
	require.True(t, ok)
	assert.Equal(t, "a@example.org", got.Email)

	byKey, ok := f.GetByKey("a@example.org")
	require.True(t, ok)
	assert.Equal(t, "u1", byKey.ID)
}

// 主存储不可达期间自然键查重走兜底副本
func TestFacadeCreateDuplicateWithPrimaryDown(t *testing.T) {
	p := newFakePrimary[*model.User]()
	f := NewFacade[*model.User]("user", p, zerolog.Nop())
	p.setDown(true)

	_, err := f.Create(testUser("u1", "a@example.org"))
	require.NoError(t, err)

	_, err = f.Create(testUser("u2", "a@example.org"))
	assert.ErrorIs(t, err, ErrConflict)
}

// 主存储明确「不存在」是权威结论，不回退兜底副本
func TestFacadeGetNotFoundIsAuthoritative(t *testing.T) {
	p := newFakePrimary[*model.User]()
	f := NewFacade[*model.User]("user", p, zerolog.Nop())

	// 只进兜底副本、不进主存储的记录
	p.setDown(true)
	_, err := f.Create(testUser("u1", "a@example.org"))
	require.NoError(t, err)
	p.setDown(false)

	_, ok := f.GetByID("u1")
	assert.False(t, ok)
}

func TestFacadeUpdate(t *testing.T) {
	p := newFakePrimary[*model.User]()
	f := NewFacade[*model.User]("user", p, zerolog.Nop())

	_, err := f.Create(testUser("u1", "a@example.org"))
	require.NoError(t, err)

	got, ok, err := f.Update("u1", func(u *model.User) { u.FullName = "Renamed" })
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.FullName)

	// 两侧都要落
	fromPrimary, err := p.GetByID("u1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fromPrimary.FullName)
}

// 同一补丁重复应用，结果不变
func TestFacadeUpdateIdempotent(t *testing.T) {
	p := newFakePrimary[*model.User]()
	f := NewFacade[*model.User]("user", p, zerolog.Nop())

	_, err := f.Create(testUser("u1", "a@example.org"))
	require.NoError(t, err)

	rename := func(u *model.User) { u.FullName = "Renamed" }

	first, ok, err := f.Update("u1", rename)
	require.NoError(t, err)
	require.True(t, ok)

	second, ok, err := f.Update("u1", rename)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.FullName, second.FullName)
	assert.Equal(t, first.Email, second.Email)
	assert.Equal(t, 1, f.LocalLen())
}

// 主存储全程不可达时，增改查删整条链路都由兜底副本承接
func TestFacadeLifecycleWithPrimaryDown(t *testing.T) {
	p := newFakePrimary[*model.User]()
	f := NewFacade[*model.User]("user", p, zerolog.Nop())
	p.setDown(true)

	_, err := f.Create(testUser("u1", "a@example.org"))
	require.NoError(t, err)

	updated, ok, err := f.Update("u1", func(u *model.User) { u.FullName = "Renamed" })
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Renamed", updated.FullName)

	got, ok := f.GetByID("u1")
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.FullName)

	_, ok = f.Delete("u1")
	assert.True(t, ok)

	_, ok = f.GetByID("u1")
	assert.False(t, ok)
}

func TestFacadeUpdateMissing(t *testing.T) {
	p := newFakePrimary[*model.User]()
	f := NewFacade[*model.User]("user", p, zerolog.Nop())

	_, ok, err := f.Update("missing", func(u *model.User) { u.FullName = "x" })
	require.NoError(t, err)
	assert.False(t, ok)
}

// 兜底副本没有但主存储有的记录，Update 先取底版再合并
func TestFacadeUpdateSeedsFromPrimary(t *testing.T) {
	p := newFakePrimary[*model.User]()
	f := NewFacade[*model.User]("user", p, zerolog.Nop())
	_, err := p.Upsert(testUser("u1", "a@example.org"))
	require.NoError(t, err)

	got, ok, err := f.Update("u1", func(u *model.User) { u.FullName = "Seeded" })
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Seeded", got.FullName)
}

// 主存储恢复后，针对本地记录的下一次更新把它带回主存储
func TestFacadeUpdatePropagatesLocalRecordAfterRecovery(t *testing.T) {
	p := newFakePrimary[*model.User]()
	f := NewFacade[*model.User]("user", p, zerolog.Nop())

	p.setDown(true)
	_, err := f.Create(testUser("u1", "a@example.org"))
	require.NoError(t, err)
	p.setDown(false)

	_, ok, err := f.Update("u1", func(u *model.User) { u.FullName = "Recovered" })
	require.NoError(t, err)
	require.True(t, ok)

	fromPrimary, err := p.GetByID("u1")
	require.NoError(t, err)
	assert.Equal(t, "Recovered", fromPrimary.FullName)
}

func TestFacadeDelete(t *testing.T) {
	p := newFakePrimary[*model.User]()
	f := NewFacade[*model.User]("user", p, zerolog.Nop())

	_, err := f.Create(testUser("u1", "a@example.org"))
	require.NoError(t, err)

	_, ok := f.Delete("u1")
	assert.True(t, ok)
	_, ok = f.GetByID("u1")
	assert.False(t, ok)

	_, ok = f.Delete("u1")
	assert.False(t, ok)
}

func TestFacadeListFallsBack(t *testing.T) {
	p := newFakePrimary[*model.User]()
	f := NewFacade[*model.User]("user", p, zerolog.Nop())

	_, err := f.Create(testUser("u1", "a@example.org"))
	require.NoError(t, err)
	_, err = f.Create(testUser("u2", "b@example.org"))
	require.NoError(t, err)

	p.setDown(true)
	list := f.List(query.NewFilter().Eq("status", model.StatusActive))
	assert.Len(t, list, 2)
}
