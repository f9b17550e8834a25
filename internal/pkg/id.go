package pkg

import "github.com/google/uuid"

// NewID 生成全局唯一的实体标识，无顺序保证
func NewID() string {
	return uuid.NewString()
}
