// Package repository 双后端仓储：主存储（MySQL）可达时以其为权威，
// 不可达时回退到进程内兜底副本，保证实体始终可读可写
package repository

import (
	"errors"
	"time"

	"Seva_Community/internal/query"
	"Seva_Community/internal/repository/memory"
	"Seva_Community/internal/repository/mysql"

	"github.com/rs/zerolog"
)

// 仓储对外的错误口径与主存储适配层一致
var (
	ErrNotFound    = mysql.ErrNotFound
	ErrConflict    = mysql.ErrConflict
	ErrUnavailable = mysql.ErrUnavailable
)

// Primary 主存储适配层。可达性问题以 ErrUnavailable 返回、由 Facade 兜底；
// ErrConflict 属业务违规，不吞
type Primary[T any] interface {
	Upsert(T) (T, error)
	GetByID(string) (T, error)
	GetByKey(string) (T, error)
	List(query.Filter) ([]T, error)
	Delete(string) (bool, error)
}

type record[T any] interface {
	memory.Record[T]
	Touch(time.Time)
}

type Facade[T record[T]] struct {
	name    string
	primary Primary[T]
	local   *memory.Store[T]
	log     zerolog.Logger
}

func NewFacade[T record[T]](name string, primary Primary[T], log zerolog.Logger) *Facade[T] {
	return &Facade[T]{
		name:    name,
		primary: primary,
		local:   memory.NewStore[T](),
		log:     log.With().Str("repo", name).Logger(),
	}
}

// Create 先查重、再写兜底、最后写主存储。
// 主存储返回冲突时撤销兜底写入并上抛；仅不可达时才降级为本地成功
func (f *Facade[T]) Create(rec T) (T, error) {
	var zero T

	if key := rec.NaturalKey(); key != "" {
		_, err := f.primary.GetByKey(key)
		switch {
		case err == nil:
			return zero, ErrConflict
		case errors.Is(err, ErrNotFound):
			// 不存在，可建
		default:
			f.warn("create", rec.RecordID(), err)
			if _, ok := f.local.GetByKey(key); ok {
				return zero, ErrConflict
			}
		}
	}

	f.local.Put(rec)

	canonical, err := f.primary.Upsert(rec)
	switch {
	case err == nil:
		// 主存储可达时其返回的记录为权威（含服务端默认值）
		f.local.Put(canonical)
		return canonical, nil
	case errors.Is(err, ErrConflict):
		f.local.Delete(rec.RecordID())
		return zero, err
	default:
		f.warn("create", rec.RecordID(), err)
		return rec, nil
	}
}

// GetByID 主存储优先。主存储明确「不存在」即为权威结论，不再查兜底副本；
// 只有不可达时才回退
func (f *Facade[T]) GetByID(id string) (T, bool) {
	rec, err := f.primary.GetByID(id)
	if err == nil {
		return rec, true
	}
	var zero T
	if errors.Is(err, ErrNotFound) {
		return zero, false
	}
	f.warn("get_by_id", id, err)
	return f.local.GetByID(id)
}

// GetByKey 按自然键查，语义同 GetByID
func (f *Facade[T]) GetByKey(key string) (T, bool) {
	rec, err := f.primary.GetByKey(key)
	if err == nil {
		return rec, true
	}
	var zero T
	if errors.Is(err, ErrNotFound) {
		return zero, false
	}
	f.warn("get_by_key", key, err)
	return f.local.GetByKey(key)
}

// List 主存储可达时由其在服务端过滤，否则对兜底副本做本地求值
func (f *Facade[T]) List(fl query.Filter) []T {
	list, err := f.primary.List(fl)
	if err == nil {
		return list
	}
	f.warn("list", "", err)
	return f.local.List(fl)
}

// Update 部分更新。先在兜底副本上锁内合并（必要时先从主存储取底版），
// 再把合并结果 upsert 到主存储；主存储成功则以其返回为准
func (f *Facade[T]) Update(id string, mutate func(T)) (T, bool, error) {
	var zero T
	now := time.Now()
	apply := func(rec T) {
		mutate(rec)
		rec.Touch(now)
	}

	merged, ok := f.local.Update(id, apply)
	if !ok {
		base, err := f.primary.GetByID(id)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				f.warn("update", id, err)
			}
			return zero, false, nil
		}
		f.local.Put(base)
		if merged, ok = f.local.Update(id, apply); !ok {
			return zero, false, nil
		}
	}

	canonical, err := f.primary.Upsert(merged)
	switch {
	case err == nil:
		f.local.Put(canonical)
		return canonical, true, nil
	case errors.Is(err, ErrConflict):
		return zero, false, err
	default:
		f.warn("update", id, err)
		return merged, true, nil
	}
}

// Delete 两边都删；任一侧存在即视为删除成功
func (f *Facade[T]) Delete(id string) (T, bool) {
	localRec, localHad := f.local.Delete(id)
	primaryHad, err := f.primary.Delete(id)
	if err != nil {
		f.warn("delete", id, err)
		primaryHad = false
	}
	if localHad {
		return localRec, true
	}
	var zero T
	return zero, primaryHad
}

// LocalLen 兜底副本条数，仅观测用
func (f *Facade[T]) LocalLen() int { return f.local.Len() }

func (f *Facade[T]) warn(op, id string, err error) {
	f.log.Warn().Str("op", op).Str("id", id).Err(err).Msg("primary store unreachable, using fallback")
}
