package mysql

import (
	"errors"
	"fmt"

	driver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// 错误分三档：ErrConflict 是唯一键冲突等业务违规，必须上抛；
// ErrUnavailable 是网络/超时等可达性问题，上层仓储回退内存副本处理；
// ErrNotFound 表示记录确定不存在
var (
	ErrNotFound    = errors.New("record not found")
	ErrConflict    = errors.New("duplicate record")
	ErrUnavailable = errors.New("primary store unavailable")
)

const mysqlDupEntry = 1062

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	var me *driver.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDupEntry {
		return ErrConflict
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
