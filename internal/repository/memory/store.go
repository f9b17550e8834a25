// Package memory 进程内兜底存储：主存储不可达时照常读写，进程重启后数据不保留
package memory

import (
	"sort"
	"sync"

	"Seva_Community/internal/query"
)

// Record 可入库的记录。Clone 必须深拷贝，Store 进出均为副本
type Record[T any] interface {
	RecordID() string
	NaturalKey() string
	Clone() T
	query.Record
}

type Store[T Record[T]] struct {
	mu    sync.RWMutex
	byID  map[string]T
	byKey map[string]string // natural key -> id
}

func NewStore[T Record[T]]() *Store[T] {
	return &Store[T]{
		byID:  make(map[string]T),
		byKey: make(map[string]string),
	}
}

// Put 覆盖写入，同步维护自然键索引
func (s *Store[T]) Put(rec T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(rec.Clone())
}

func (s *Store[T]) put(rec T) {
	id := rec.RecordID()
	if old, ok := s.byID[id]; ok {
		if k := old.NaturalKey(); k != "" && k != rec.NaturalKey() {
			delete(s.byKey, k)
		}
	}
	s.byID[id] = rec
	if k := rec.NaturalKey(); k != "" {
		s.byKey[k] = id
	}
}

func (s *Store[T]) GetByID(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return rec.Clone(), true
}

func (s *Store[T]) GetByKey(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero T
	id, ok := s.byKey[key]
	if !ok {
		return zero, false
	}
	rec, ok := s.byID[id]
	if !ok {
		return zero, false
	}
	return rec.Clone(), true
}

// Update 锁内读-改-写，避免并发更新互相覆盖。记录不存在时返回 false 且不调用 fn
func (s *Store[T]) Update(id string, fn func(T)) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	cur, ok := s.byID[id]
	if !ok {
		return zero, false
	}
	next := cur.Clone()
	fn(next)
	s.put(next)
	return next.Clone(), true
}

func (s *Store[T]) Delete(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	rec, ok := s.byID[id]
	if !ok {
		return zero, false
	}
	delete(s.byID, id)
	if k := rec.NaturalKey(); k != "" {
		delete(s.byKey, k)
	}
	return rec, true
}

// List 本地求值过滤、排序、分页，与主存储的查询语义对齐
func (s *Store[T]) List(f query.Filter) []T {
	s.mu.RLock()
	out := make([]T, 0)
	for _, rec := range s.byID {
		if f.Match(rec) {
			out = append(out, rec.Clone())
		}
	}
	s.mu.RUnlock()

	if f.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, okA := out[i].Field(f.OrderBy)
			b, okB := out[j].Field(f.OrderBy)
			if !okA || !okB {
				return false
			}
			if f.Desc {
				return query.Less(b, a)
			}
			return query.Less(a, b)
		})
	}

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
