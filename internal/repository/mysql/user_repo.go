package mysql

import (
	"Seva_Community/internal/model"
	"Seva_Community/internal/query"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

// Upsert 按 id 的 insert-or-update。本地先行创建的记录
// 在主存储恢复后由后续写入经此补齐
func (r *UserRepository) Upsert(u *model.User) (*model.User, error) {
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(u).Error
	if err != nil {
		return nil, classify(err)
	}

	// 读回权威记录（服务端默认值等）
	var saved model.User
	if err := r.DB.First(&saved, "id = ?", u.ID).Error; err != nil {
		return u, nil
	}
	return &saved, nil
}

func (r *UserRepository) GetByID(id string) (*model.User, error) {
	var u model.User
	if err := r.DB.First(&u, "id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

// GetByKey 自然键为邮箱
func (r *UserRepository) GetByKey(email string) (*model.User, error) {
	var u model.User
	if err := r.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

func (r *UserRepository) List(f query.Filter) ([]*model.User, error) {
	var list []*model.User
	if err := apply(r.DB.Model(&model.User{}), f).Find(&list).Error; err != nil {
		return nil, classify(err)
	}
	return list, nil
}

func (r *UserRepository) Delete(id string) (bool, error) {
	tx := r.DB.Delete(&model.User{}, "id = ?", id)
	if tx.Error != nil {
		return false, classify(tx.Error)
	}
	return tx.RowsAffected > 0, nil
}
