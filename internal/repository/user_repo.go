package repository

import (
	"Seva_Community/internal/model"

	"github.com/rs/zerolog"
)

type UserRepository struct {
	*Facade[*model.User]
}

func NewUserRepository(primary Primary[*model.User], log zerolog.Logger) *UserRepository {
	return &UserRepository{NewFacade("user", primary, log)}
}

// GetByEmail 邮箱是用户的自然键
func (r *UserRepository) GetByEmail(email string) (*model.User, bool) {
	return r.GetByKey(email)
}
