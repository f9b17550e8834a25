package mysql

import (
	"context"
	"errors"

	"Seva_Community/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository struct {
	DB *gorm.DB
}

type EventRegistrationRepository struct {
	DB *gorm.DB
}

func (r *EventRepository) Create(e *model.Event) error {
	return r.DB.Create(e).Error
}

func (r *EventRepository) FindByID(id uint64) (*model.Event, error) {
	var e model.Event
	err := r.DB.First(&e, id).Error
	return &e, err
}

func (r *EventRepository) ListByCommunity(communityID string, offset, limit int) ([]model.Event, error) {
	var list []model.Event
	err := r.DB.Where("community_id = ?", communityID).
		Order("starts_at DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *EventRepository) UpdateStatus(id uint64, status string) error {
	return r.DB.Model(&model.Event{}).Where("id = ?", id).Update("status", status).Error
}

// Register 幂等报名。从未报名或已取消切换为已报名时返回 changed=true；
// 有容量限制时在同一事务内校验，满员返回错误
var ErrEventFull = errors.New("event is full")

func (r *EventRegistrationRepository) Register(ctx context.Context, eventID uint64, userID string) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev model.Event
		// select for update 避免并发报名超卖
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ev, eventID).Error; err != nil {
			return err
		}
		if ev.Capacity > 0 && ev.AttendeeCount >= int64(ev.Capacity) {
			return ErrEventFull
		}

		var rel model.EventRegistration
		if err := tx.Where("event_id = ? AND user_id = ?", eventID, userID).First(&rel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				rel = model.EventRegistration{EventID: eventID, UserID: userID, Status: 1}
				if err = tx.Create(&rel).Error; err != nil {
					return err
				}
				changed = true
				return r.adjustCount(tx, eventID, +1)
			}
			return err
		}
		// 重复请求，幂等
		if rel.Status == 1 {
			changed = false
			return nil
		}
		if err := tx.Model(&model.EventRegistration{}).
			Where("id = ? AND status = 0", rel.ID).
			Update("status", 1).Error; err != nil {
			return err
		}
		changed = true
		return r.adjustCount(tx, eventID, +1)
	})
	return changed, err
}

// Unregister 幂等取消报名
func (r *EventRegistrationRepository) Unregister(ctx context.Context, eventID uint64, userID string) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rel model.EventRegistration
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_id = ? AND user_id = ?", eventID, userID).First(&rel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				changed = false
				return nil
			}
			return err
		}
		if rel.Status == 0 {
			changed = false
			return nil
		}
		if err := tx.Model(&model.EventRegistration{}).
			Where("id = ? AND status = 1", rel.ID).
			Update("status", 0).Error; err != nil {
			return err
		}
		changed = true
		return r.adjustCount(tx, eventID, -1)
	})
	return changed, err
}

func (r *EventRegistrationRepository) IsRegistered(ctx context.Context, eventID uint64, userID string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.EventRegistration{}).
		Where("event_id = ? AND user_id = ? AND status = 1", eventID, userID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByEvent 游标分页报名列表
func (r *EventRegistrationRepository) ListByEvent(ctx context.Context, eventID uint64, cursor uint64, limit int) ([]model.EventRegistration, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.EventRegistration{}).
		Where("event_id = ? AND status = 1", eventID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.EventRegistration
	// limit+1 以便判断是否还有下一页
	if err := q.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

func (r *EventRegistrationRepository) adjustCount(tx *gorm.DB, eventID uint64, delta int64) error {
	return tx.Model(&model.Event{}).
		Where("id = ?", eventID).
		UpdateColumn("attendee_count", gorm.Expr("GREATEST(0, attendee_count + ?)", delta)).Error
}
