package mysql

import (
	"Seva_Community/internal/model"
	"Seva_Community/internal/query"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityRepository struct {
	DB *gorm.DB
}

func (r *CommunityRepository) Upsert(c *model.Community) (*model.Community, error) {
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(c).Error
	if err != nil {
		return nil, classify(err)
	}

	var saved model.Community
	if err := r.DB.First(&saved, "id = ?", c.ID).Error; err != nil {
		return c, nil
	}
	return &saved, nil
}

func (r *CommunityRepository) GetByID(id string) (*model.Community, error) {
	var c model.Community
	if err := r.DB.First(&c, "id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

// GetByKey 自然键为 slug
func (r *CommunityRepository) GetByKey(slug string) (*model.Community, error) {
	var c model.Community
	if err := r.DB.Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

func (r *CommunityRepository) List(f query.Filter) ([]*model.Community, error) {
	var list []*model.Community
	if err := apply(r.DB.Model(&model.Community{}), f).Find(&list).Error; err != nil {
		return nil, classify(err)
	}
	return list, nil
}

func (r *CommunityRepository) Delete(id string) (bool, error) {
	tx := r.DB.Delete(&model.Community{}, "id = ?", id)
	if tx.Error != nil {
		return false, classify(tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

// AdjustCounter 原子调整聚合计数列，下限为 0，避免读-改-写竞态
func (r *CommunityRepository) AdjustCounter(id, column string, delta int64) error {
	tx := r.DB.Model(&model.Community{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr("GREATEST("+column+" + ?, 0)", delta))
	if tx.Error != nil {
		return classify(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
