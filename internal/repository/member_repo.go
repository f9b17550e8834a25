package repository

import (
	"Seva_Community/internal/model"
	"Seva_Community/internal/query"

	"github.com/rs/zerolog"
)

type MemberRepository struct {
	*Facade[*model.Member]
}

func NewMemberRepository(primary Primary[*model.Member], log zerolog.Logger) *MemberRepository {
	return &MemberRepository{NewFacade("member", primary, log)}
}

// FindByIdentity 按社区+邮箱定位成员。撤销审批时 Member 不带申请外键，
// 只能按身份匹配
func (r *MemberRepository) FindByIdentity(communityID, email string) (*model.Member, bool) {
	return r.GetByKey(model.MemberKey(communityID, email))
}

// ListByCommunity role/status 为空表示不过滤，search 匹配姓名或邮箱
func (r *MemberRepository) ListByCommunity(communityID, role, status, search string) []*model.Member {
	f := query.NewFilter().
		Eq("community_id", communityID).
		Order("joined_at", true)
	if role != "" {
		f = f.Eq("role", role)
	}
	if status != "" {
		f = f.Eq("status", status)
	}
	if search != "" {
		f = f.Contains(search, "full_name", "email")
	}
	return r.List(f)
}
