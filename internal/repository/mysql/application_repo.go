package mysql

import (
	"Seva_Community/internal/model"
	"Seva_Community/internal/query"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository struct {
	DB *gorm.DB
}

func (r *ApplicationRepository) Upsert(a *model.Application) (*model.Application, error) {
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(a).Error
	if err != nil {
		return nil, classify(err)
	}

	var saved model.Application
	if err := r.DB.First(&saved, "id = ?", a.ID).Error; err != nil {
		return a, nil
	}
	return &saved, nil
}

func (r *ApplicationRepository) GetByID(id string) (*model.Application, error) {
	var a model.Application
	if err := r.DB.First(&a, "id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	return &a, nil
}

// GetByKey 申请没有自然键
func (r *ApplicationRepository) GetByKey(string) (*model.Application, error) {
	return nil, ErrNotFound
}

func (r *ApplicationRepository) List(f query.Filter) ([]*model.Application, error) {
	var list []*model.Application
	if err := apply(r.DB.Model(&model.Application{}), f).Find(&list).Error; err != nil {
		return nil, classify(err)
	}
	return list, nil
}

func (r *ApplicationRepository) Delete(id string) (bool, error) {
	tx := r.DB.Delete(&model.Application{}, "id = ?", id)
	if tx.Error != nil {
		return false, classify(tx.Error)
	}
	return tx.RowsAffected > 0, nil
}
