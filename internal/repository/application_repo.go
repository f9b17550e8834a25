package repository

import (
	"Seva_Community/internal/model"
	"Seva_Community/internal/query"

	"github.com/rs/zerolog"
)

type ApplicationRepository struct {
	*Facade[*model.Application]
}

func NewApplicationRepository(primary Primary[*model.Application], log zerolog.Logger) *ApplicationRepository {
	return &ApplicationRepository{NewFacade("application", primary, log)}
}

// ListByCommunity status 为空表示全部
func (r *ApplicationRepository) ListByCommunity(communityID, status string) []*model.Application {
	f := query.NewFilter().
		Eq("community_id", communityID).
		Order("applied_at", true)
	if status != "" {
		f = f.Eq("status", status)
	}
	return r.List(f)
}

// FindLive 查同一社区同一邮箱的在途申请（pending/approved），用于查重
func (r *ApplicationRepository) FindLive(communityID, email string) *model.Application {
	list := r.List(query.NewFilter().
		Eq("community_id", communityID).
		Eq("email", email).
		In("status", model.ApplicationPending, model.ApplicationApproved))
	if len(list) == 0 {
		return nil
	}
	return list[0]
}
