package memory

import (
	"sync"
	"testing"
	"time"

	"Seva_Community/internal/model"
	"Seva_Community/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func user(id, email, name string) *model.User {
	return &model.User{
		ID:        id,
		Email:     email,
		FullName:  name,
		Status:    model.StatusActive,
		CreatedAt: time.Now(),
	}
}

func TestStorePutGet(t *testing.T) {
	s := NewStore[*model.User]()
	s.Put(user("u1", "a@example.org", "Asha"))

	got, ok := s.GetByID("u1")
	require.True(t, ok)
	assert.Equal(t, "a@example.org", got.Email)

	got, ok = s.GetByKey("a@example.org")
	require.True(t, ok)
	assert.Equal(t, "u1", got.ID)

	_, ok = s.GetByID("missing")
	assert.False(t, ok)
}

// Store 进出均为副本，外部修改不能穿透到存储态
func TestStoreCloneIsolation(t *testing.T) {
	s := NewStore[*model.User]()
	u := user("u1", "a@example.org", "Asha")
	s.Put(u)

	u.FullName = "mutated after put"
	got, _ := s.GetByID("u1")
	assert.Equal(t, "Asha", got.FullName)

	got.FullName = "mutated after get"
	again, _ := s.GetByID("u1")
	assert.Equal(t, "Asha", again.FullName)
}

func TestStoreNaturalKeyReindex(t *testing.T) {
	s := NewStore[*model.User]()
	s.Put(user("u1", "old@example.org", "Asha"))

	// 同 id 换自然键，旧键应失效
	s.Put(user("u1", "new@example.org", "Asha"))

	_, ok := s.GetByKey("old@example.org")
	assert.False(t, ok)
	got, ok := s.GetByKey("new@example.org")
	require.True(t, ok)
	assert.Equal(t, "u1", got.ID)
}

func TestStoreUpdate(t *testing.T) {
	s := NewStore[*model.User]()
	s.Put(user("u1", "a@example.org", "Asha"))

	got, ok := s.Update("u1", func(u *model.User) { u.FullName = "Asha Patel" })
	require.True(t, ok)
	assert.Equal(t, "Asha Patel", got.FullName)

	stored, _ := s.GetByID("u1")
	assert.Equal(t, "Asha Patel", stored.FullName)

	_, ok = s.Update("missing", func(u *model.User) { t.Fatal("fn must not run for missing id") })
	assert.False(t, ok)
}

// 并发自增不丢更新
func TestStoreUpdateConcurrent(t *testing.T) {
	s := NewStore[*model.Community]()
	s.Put(&model.Community{ID: "c1", Slug: "seva", Name: "Seva"})

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			s.Update("c1", func(c *model.Community) { c.MemberCount++ })
		}()
	}
	wg.Wait()

	got, _ := s.GetByID("c1")
	assert.Equal(t, int64(n), got.MemberCount)
}

func TestStoreDelete(t *testing.T) {
	s := NewStore[*model.User]()
	s.Put(user("u1", "a@example.org", "Asha"))

	_, ok := s.Delete("u1")
	require.True(t, ok)
	_, ok = s.GetByID("u1")
	assert.False(t, ok)
	_, ok = s.GetByKey("a@example.org")
	assert.False(t, ok)

	_, ok = s.Delete("u1")
	assert.False(t, ok)
}

func TestStoreList(t *testing.T) {
	s := NewStore[*model.User]()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, email := range []string{"a@x.org", "b@x.org", "c@x.org"} {
		u := user(email, email, email)
		u.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if email == "b@x.org" {
			u.Status = model.StatusInactive
		}
		s.Put(u)
	}

	active := s.List(query.NewFilter().Eq("status", model.StatusActive))
	assert.Len(t, active, 2)

	// 按时间倒序
	ordered := s.List(query.NewFilter().Order("created_at", true))
	require.Len(t, ordered, 3)
	assert.Equal(t, "c@x.org", ordered[0].Email)
	assert.Equal(t, "a@x.org", ordered[2].Email)

	// 分页
	page := s.List(query.NewFilter().Order("created_at", false).Page(1, 1))
	require.Len(t, page, 1)
	assert.Equal(t, "b@x.org", page[0].Email)

	// offset 超界
	assert.Empty(t, s.List(query.NewFilter().Page(10, 5)))
}
