package mysql

import (
	"strings"

	"Seva_Community/internal/model"
	"Seva_Community/internal/query"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository struct {
	DB *gorm.DB
}

func (r *MemberRepository) Upsert(m *model.Member) (*model.Member, error) {
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(m).Error
	if err != nil {
		return nil, classify(err)
	}

	var saved model.Member
	if err := r.DB.First(&saved, "id = ?", m.ID).Error; err != nil {
		return m, nil
	}
	return &saved, nil
}

func (r *MemberRepository) GetByID(id string) (*model.Member, error) {
	var m model.Member
	if err := r.DB.First(&m, "id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	return &m, nil
}

// GetByKey 自然键为 "社区id/邮箱"，见 model.MemberKey
func (r *MemberRepository) GetByKey(key string) (*model.Member, error) {
	communityID, email, ok := strings.Cut(key, "/")
	if !ok {
		return nil, ErrNotFound
	}
	var m model.Member
	if err := r.DB.Where("community_id = ? AND email = ?", communityID, email).First(&m).Error; err != nil {
		return nil, classify(err)
	}
	return &m, nil
}

func (r *MemberRepository) List(f query.Filter) ([]*model.Member, error) {
	var list []*model.Member
	if err := apply(r.DB.Model(&model.Member{}), f).Find(&list).Error; err != nil {
		return nil, classify(err)
	}
	return list, nil
}

func (r *MemberRepository) Delete(id string) (bool, error) {
	tx := r.DB.Delete(&model.Member{}, "id = ?", id)
	if tx.Error != nil {
		return false, classify(tx.Error)
	}
	return tx.RowsAffected > 0, nil
}
