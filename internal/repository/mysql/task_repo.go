package mysql

import (
	"Seva_Community/internal/model"

	"gorm.io/gorm"
)

type TaskRepository struct {
	DB *gorm.DB
}

func (r *TaskRepository) Create(task *model.Task) error {
	return r.DB.Create(task).Error
}

func (r *TaskRepository) FindByID(id uint64) (*model.Task, error) {
	var task model.Task
	err := r.DB.First(&task, "id = ? AND status <> ?", id, model.TaskDeleted).Error
	return &task, err
}

// ListByCommunity 基础分页查询，可按状态过滤（status<0 表示不过滤）
func (r *TaskRepository) ListByCommunity(communityID string, status int, offset, limit int) ([]model.Task, error) {
	var list []model.Task
	q := r.DB.Where("community_id = ? AND status <> ?", communityID, model.TaskDeleted)
	if status >= 0 {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

// ListByCommunityCursor 时间游标查询：索引 (community_id, created_at DESC, id DESC)
// lastCreatedAt=零值表示第一页；否则用 (created_at, id) 作为严格游标
func (r *TaskRepository) ListByCommunityCursor(communityID string, lastID uint64, lastCreatedAt int64, limit int) ([]model.Task, error) {
	var list []model.Task
	q := r.DB.Where("community_id = ? AND status <> ?", communityID, model.TaskDeleted)
	if lastCreatedAt > 0 {
		// 先比时间，再在同一时间点用 id 打破并列
		q = q.Where("(created_at < FROM_UNIXTIME(?) OR (created_at = FROM_UNIXTIME(?) AND id < ?))", lastCreatedAt, lastCreatedAt, lastID)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *TaskRepository) UpdateStatus(id uint64, status int) (int64, error) {
	tx := r.DB.Model(&model.Task{}).
		Where("id = ? AND status <> ?", id, model.TaskDeleted).
		Update("status", status)
	return tx.RowsAffected, tx.Error
}

// DeleteWithPermission 带权限的一步软删除：创建者或社区 owner/lead 方可删除；幂等
func (r *TaskRepository) DeleteWithPermission(taskID uint64, operatorID string) (affected int64, err error) {
	tx := r.DB.Exec(`
		UPDATE community_tasks t
		JOIN (SELECT id, community_id, creator_id, status FROM community_tasks WHERE id = ?) x ON x.id = t.id
		SET t.status = ?
		WHERE t.id = ? AND t.status <> ?
		  AND (x.creator_id = ? OR EXISTS (
		       SELECT 1 FROM community_members m
		       WHERE m.community_id = x.community_id AND m.user_id = ? AND (m.role IN ('owner','lead') OR m.is_lead)
		  ))`,
		taskID, model.TaskDeleted, taskID, model.TaskDeleted, operatorID, operatorID,
	)
	return tx.RowsAffected, tx.Error
}
