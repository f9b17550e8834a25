package service

import (
	"errors"
	"time"

	"Seva_Community/internal/model"
	"Seva_Community/internal/pkg"
	"Seva_Community/internal/query"
	"Seva_Community/internal/repository"
)

var (
	ErrCommunityNotFound = errors.New("community not found")
	ErrSlugTaken         = errors.New("community slug already in use")
)

type CommunityService struct {
	repo       *repository.CommunityRepository
	memberRepo *repository.MemberRepository
}

func NewCommunityService(repo *repository.CommunityRepository, memberRepo *repository.MemberRepository) *CommunityService {
	return &CommunityService{repo: repo, memberRepo: memberRepo}
}

// CreateCommunity 创建社区并把创建人落为 owner 成员
func (s *CommunityService) CreateCommunity(owner *model.User, name, desc, logoURL string) (*model.Community, error) {
	if name == "" {
		return nil, errors.New("community name required")
	}

	now := time.Now()
	community := &model.Community{
		ID:          pkg.NewID(),
		Slug:        pkg.Slugify(name),
		Name:        name,
		Description: desc,
		OwnerID:     owner.ID,
		LogoURL:     logoURL,
		Status:      model.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(community)
	if errors.Is(err, repository.ErrConflict) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, err
	}

	// 创建人自动入会；成员写入失败不回滚社区，后续可补
	member := &model.Member{
		ID:          pkg.NewID(),
		CommunityID: created.ID,
		UserID:      owner.ID,
		Email:       owner.Email,
		FullName:    owner.FullName,
		Phone:       owner.Phone,
		Role:        model.MemberRoleOwner,
		Status:      model.StatusActive,
		IsLead:      true,
		JoinedAt:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err = s.memberRepo.Create(member); err == nil {
		s.repo.AdjustMemberCount(created.ID, +1)
	}

	return created, nil
}

func (s *CommunityService) GetCommunity(id string) (*model.Community, error) {
	c, ok := s.repo.GetByID(id)
	if !ok {
		return nil, ErrCommunityNotFound
	}
	return c, nil
}

func (s *CommunityService) GetBySlug(slug string) (*model.Community, error) {
	c, ok := s.repo.GetBySlug(slug)
	if !ok {
		return nil, ErrCommunityNotFound
	}
	return c, nil
}

// ListCommunities status/ownerID 为空表示不过滤，search 匹配名称或 slug
func (s *CommunityService) ListCommunities(status, ownerID, search string, page, size int) []*model.Community {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	f := query.NewFilter().Order("created_at", true).Page((page-1)*size, size)
	if status != "" {
		f = f.Eq("status", status)
	}
	if ownerID != "" {
		f = f.Eq("owner_id", ownerID)
	}
	if search != "" {
		f = f.Contains(search, "name", "slug")
	}
	return s.repo.List(f)
}

// UpdateCommunity 部分更新
func (s *CommunityService) UpdateCommunity(id string, patch model.CommunityPatch) (*model.Community, error) {
	c, ok, err := s.repo.Update(id, func(c *model.Community) { patch.Apply(c) })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCommunityNotFound
	}
	return c, nil
}

// ArchiveCommunity 归档不删数据，成员与捐赠记录保留
func (s *CommunityService) ArchiveCommunity(id string) error {
	_, ok, err := s.repo.Update(id, func(c *model.Community) {
		c.Status = model.StatusArchived
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrCommunityNotFound
	}
	return nil
}

func (s *CommunityService) DeleteCommunity(id string) error {
	if _, ok := s.repo.Delete(id); !ok {
		return ErrCommunityNotFound
	}
	return nil
}
