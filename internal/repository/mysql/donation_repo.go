package mysql

import (
	"context"

	"Seva_Community/internal/model"

	"gorm.io/gorm"
)

type DonationRepository struct {
	DB *gorm.DB
}

func (r *DonationRepository) Create(ctx context.Context, d *model.Donation) error {
	return r.DB.WithContext(ctx).Create(d).Error
}

// ListByCommunity 游标分页捐赠记录
func (r *DonationRepository) ListByCommunity(ctx context.Context, communityID string, cursor uint64, limit int) ([]model.Donation, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.Donation{}).
		Where("community_id = ?", communityID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Donation
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

// SumByCommunity 对账用：按捐赠明细重算总额
func (r *DonationRepository) SumByCommunity(ctx context.Context, communityID string) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&model.Donation{}).
		Where("community_id = ?", communityID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}
