package mysql

import (
	"fmt"
	"strings"

	"Seva_Community/internal/query"

	"gorm.io/gorm"
)

// apply 把查询描述翻译成 gorm 子句。字段名均来自代码内常量，不接收外部输入
func apply(db *gorm.DB, f query.Filter) *gorm.DB {
	for _, c := range f.Conds {
		switch c.Op {
		case query.OpEq:
			db = db.Where(c.Field+" = ?", c.Value)
		case query.OpIn:
			db = db.Where(c.Field+" IN ?", c.Set)
		case query.OpRange:
			if c.Lo != nil {
				db = db.Where(c.Field+" >= ?", c.Lo)
			}
			if c.Hi != nil {
				db = db.Where(c.Field+" <= ?", c.Hi)
			}
		case query.OpContains:
			pattern := "%" + fmt.Sprint(c.Value) + "%"
			clauses := make([]string, 0, len(c.Fields))
			args := make([]any, 0, len(c.Fields))
			for _, field := range c.Fields {
				clauses = append(clauses, field+" LIKE ?")
				args = append(args, pattern)
			}
			db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
		}
	}

	if f.OrderBy != "" {
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		db = db.Order(f.OrderBy + " " + dir)
	}
	if f.Offset > 0 {
		db = db.Offset(f.Offset)
	}
	if f.Limit > 0 {
		db = db.Limit(f.Limit)
	}
	return db
}
