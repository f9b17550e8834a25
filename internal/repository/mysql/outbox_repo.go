package mysql

import (
	"context"

	"Seva_Community/internal/model"

	"gorm.io/gorm"
)

// MaxDeliveryAttempts 投递重试上限，超过后事件停留在失败态等人工处理
const MaxDeliveryAttempts = 5

type OutboxRepository struct {
	DB *gorm.DB
}

func (r *OutboxRepository) Insert(ctx context.Context, ob *model.ActivityOutbox) error {
	return r.DB.WithContext(ctx).Create(ob).Error
}

// List 按批次取待投递事件；失败行在重试上限内继续参与下一批
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.ActivityOutbox, error) {
	var list []model.ActivityOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0 OR (status = 2 AND retry < ?)", MaxDeliveryAttempts).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败，记失败并累加重试次数
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ActivityOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate 投递成功
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ActivityOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
