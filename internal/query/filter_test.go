package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type row struct {
	ID      string
	Kind    string
	Name    string
	Email   string
	Amount  int64
	Created time.Time
}

func (r *row) Field(name string) (any, bool) {
	switch name {
	case "id":
		return r.ID, true
	case "kind":
		return r.Kind, true
	case "name":
		return r.Name, true
	case "email":
		return r.Email, true
	case "amount":
		return r.Amount, true
	case "created_at":
		return r.Created, true
	}
	return nil, false
}

func TestFilterEq(t *testing.T) {
	r := &row{ID: "a", Kind: "member"}

	assert.True(t, NewFilter().Eq("kind", "member").Match(r))
	assert.False(t, NewFilter().Eq("kind", "owner").Match(r))
	// 未知字段永远不匹配
	assert.False(t, NewFilter().Eq("missing", "x").Match(r))
}

func TestFilterIn(t *testing.T) {
	r := &row{Kind: "lead"}

	assert.True(t, NewFilter().In("kind", "member", "lead").Match(r))
	assert.False(t, NewFilter().In("kind", "member", "owner").Match(r))
}

func TestFilterRange(t *testing.T) {
	r := &row{Amount: 500}

	assert.True(t, NewFilter().Range("amount", int64(100), int64(1000)).Match(r))
	assert.True(t, NewFilter().Range("amount", int64(500), int64(500)).Match(r))
	assert.False(t, NewFilter().Range("amount", int64(501), int64(1000)).Match(r))

	// 只设下界
	assert.True(t, NewFilter().Range("amount", int64(100), nil).Match(r))
	assert.False(t, NewFilter().Range("amount", int64(600), nil).Match(r))
}

func TestFilterContainsAnyField(t *testing.T) {
	r := &row{Name: "Asha Patel", Email: "asha@example.org"}

	// 任一字段命中即可，不区分大小写
	assert.True(t, NewFilter().Contains("asha", "name", "email").Match(r))
	assert.True(t, NewFilter().Contains("PATEL", "name", "email").Match(r))
	assert.False(t, NewFilter().Contains("kumar", "name", "email").Match(r))
}

func TestFilterConjunction(t *testing.T) {
	r := &row{Kind: "member", Amount: 50}

	assert.True(t, NewFilter().Eq("kind", "member").Range("amount", int64(10), int64(100)).Match(r))
	assert.False(t, NewFilter().Eq("kind", "member").Range("amount", int64(60), int64(100)).Match(r))
}

func TestLess(t *testing.T) {
	assert.True(t, Less(int64(1), int64(2)))
	assert.False(t, Less(int64(2), int64(1)))
	assert.True(t, Less("a", "b"))

	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)
	assert.True(t, Less(early, late))
	assert.False(t, Less(late, early))
}
