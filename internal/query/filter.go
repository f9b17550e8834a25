package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Op 过滤条件类型
type Op int

const (
	OpEq Op = iota
	OpIn
	OpRange
	OpContains
)

// Cond 单个过滤条件。OpContains 支持多字段（任一字段包含即命中）
type Cond struct {
	Op     Op
	Field  string
	Fields []string // 仅 OpContains 使用
	Value  any
	Set    []any
	Lo, Hi any // OpRange，nil 表示该侧不限
}

// Filter 由本地求值器和远端翻译器共用的查询描述
type Filter struct {
	Conds   []Cond
	OrderBy string
	Desc    bool
	Offset  int
	Limit   int
}

func NewFilter() Filter { return Filter{} }

func (f Filter) Eq(field string, v any) Filter {
	f.Conds = append(f.Conds, Cond{Op: OpEq, Field: field, Value: v})
	return f
}

func (f Filter) In(field string, vs ...any) Filter {
	f.Conds = append(f.Conds, Cond{Op: OpIn, Field: field, Set: vs})
	return f
}

func (f Filter) Range(field string, lo, hi any) Filter {
	f.Conds = append(f.Conds, Cond{Op: OpRange, Field: field, Lo: lo, Hi: hi})
	return f
}

// Contains 子串匹配（不区分大小写），多个字段为 OR 关系
func (f Filter) Contains(sub string, fields ...string) Filter {
	f.Conds = append(f.Conds, Cond{Op: OpContains, Fields: fields, Value: sub})
	return f
}

func (f Filter) Order(field string, desc bool) Filter {
	f.OrderBy = field
	f.Desc = desc
	return f
}

func (f Filter) Page(offset, limit int) Filter {
	f.Offset = offset
	f.Limit = limit
	return f
}

// Record 可按字段名取值的记录，本地求值时使用
type Record interface {
	Field(name string) (any, bool)
}

// Match 本地求值：所有条件同时成立
func (f Filter) Match(r Record) bool {
	for _, c := range f.Conds {
		if !c.match(r) {
			return false
		}
	}
	return true
}

func (c Cond) match(r Record) bool {
	switch c.Op {
	case OpEq:
		v, ok := r.Field(c.Field)
		return ok && equal(v, c.Value)
	case OpIn:
		v, ok := r.Field(c.Field)
		if !ok {
			return false
		}
		for _, want := range c.Set {
			if equal(v, want) {
				return true
			}
		}
		return false
	case OpRange:
		v, ok := r.Field(c.Field)
		if !ok {
			return false
		}
		if c.Lo != nil && Less(v, c.Lo) {
			return false
		}
		if c.Hi != nil && Less(c.Hi, v) {
			return false
		}
		return true
	case OpContains:
		sub := strings.ToLower(toString(c.Value))
		for _, field := range c.Fields {
			v, ok := r.Field(field)
			if ok && strings.Contains(strings.ToLower(toString(v)), sub) {
				return true
			}
		}
		return false
	}
	return false
}

func equal(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
	}
	if na, ok := toFloat(a); ok {
		if nb, ok := toFloat(b); ok {
			return na == nb
		}
	}
	return toString(a) == toString(b)
}

// Less 通用比较，内存排序和区间过滤共用
func Less(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Before(tb)
		}
	}
	if na, ok := toFloat(a); ok {
		if nb, ok := toFloat(b); ok {
			return na < nb
		}
	}
	return toString(a) < toString(b)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case nil:
		return ""
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
