package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"Seva_Community/internal/model"
	"Seva_Community/internal/pkg"
	"Seva_Community/internal/repository"

	"github.com/rs/zerolog"
)

// ActivityStore 动态事件落库接口，由 mysql.OutboxRepository 实现
type ActivityStore interface {
	Insert(ctx context.Context, ob *model.ActivityOutbox) error
}

var (
	ErrInvalidApplicationID = errors.New("invalid application id")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrApplicationRejected  = errors.New("application already rejected")
	ErrDuplicateApplication = errors.New("application already exists for this email")
	ErrMemberNotFound       = errors.New("member not found")
)

const (
	memberInsertAttempts = 3
	memberInsertBackoff  = 200 * time.Millisecond
)

type MembershipService struct {
	apps    *repository.ApplicationRepository
	members *repository.MemberRepository
	comms   *repository.CommunityRepository
	outbox  ActivityStore
	log     zerolog.Logger
}

func NewMembershipService(
	apps *repository.ApplicationRepository,
	members *repository.MemberRepository,
	comms *repository.CommunityRepository,
	outbox ActivityStore,
	log zerolog.Logger,
) *MembershipService {
	return &MembershipService{
		apps:    apps,
		members: members,
		comms:   comms,
		outbox:  outbox,
		log:     log.With().Str("service", "membership").Logger(),
	}
}

// checkID 前端路由参数可能把字面量 "undefined"/"null" 带进来，
// 一律在触达仓储前拦下
func checkID(id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" || trimmed == "undefined" || trimmed == "null" {
		return ErrInvalidApplicationID
	}
	return nil
}

// SubmitApplication 提交入会申请。同一社区同一邮箱存在在途申请
// （pending/approved）时拒绝重复提交
func (s *MembershipService) SubmitApplication(communityID, userID, name, email, phone, message string) (*model.Application, error) {
	if err := checkID(communityID); err != nil {
		return nil, err
	}
	if name == "" || email == "" {
		return nil, errors.New("name and email required")
	}

	if _, ok := s.comms.GetByID(communityID); !ok {
		return nil, ErrCommunityNotFound
	}

	if live := s.apps.FindLive(communityID, email); live != nil {
		return nil, ErrDuplicateApplication
	}

	now := time.Now()
	app := &model.Application{
		ID:          pkg.NewID(),
		CommunityID: communityID,
		UserID:      userID,
		Name:        name,
		Email:       email,
		Phone:       phone,
		Message:     message,
		Status:      model.ApplicationPending,
		AppliedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.apps.Create(app)
}

// Approve 审批通过：落成员记录、累加成员数、更新申请状态。
// 已通过的申请重复审批是幂等空操作；已驳回的申请不可再通过
func (s *MembershipService) Approve(ctx context.Context, applicationID, reviewerID string) (*model.Application, error) {
	if err := checkID(applicationID); err != nil {
		return nil, err
	}

	app, ok := s.apps.GetByID(applicationID)
	if !ok {
		return nil, ErrApplicationNotFound
	}

	switch app.Status {
	case model.ApplicationApproved:
		return app, nil
	case model.ApplicationRejected:
		return nil, ErrApplicationRejected
	}

	now := time.Now()
	member := &model.Member{
		ID:          pkg.NewID(),
		CommunityID: app.CommunityID,
		UserID:      app.UserID,
		Email:       app.Email,
		FullName:    app.Name,
		Phone:       app.Phone,
		Role:        model.MemberRoleMember,
		Status:      model.StatusActive,
		JoinedAt:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 成员写入带重试兜底；ErrConflict 表示此身份已是成员，视为幂等命中
	alreadyMember := false
	_, err := pkg.Retry(ctx, memberInsertAttempts, memberInsertBackoff, s.log, "member_insert",
		func() (*model.Member, error) {
			m, cerr := s.members.Create(member)
			if errors.Is(cerr, repository.ErrConflict) {
				alreadyMember = true
				return nil, nil
			}
			return m, cerr
		})
	if err != nil {
		// 成员最终没写进去也不阻塞审批结论，留给人工或对账补偿
		s.log.Error().Str("application_id", app.ID).Err(err).
			Msg("member insert failed after retries, application approved without member row")
	}

	if err == nil && !alreadyMember {
		s.comms.AdjustMemberCount(app.CommunityID, +1)
	}

	updated, found, uerr := s.apps.Update(app.ID, func(a *model.Application) {
		a.Status = model.ApplicationApproved
		a.ReviewedAt = &now
		a.ReviewedBy = reviewerID
	})
	if uerr != nil {
		return nil, uerr
	}
	if !found {
		return nil, ErrApplicationNotFound
	}

	s.emitActivity(ctx, "application_approved", app.CommunityID, reviewerID, map[string]any{
		"application_id": app.ID,
		"email":          app.Email,
	})
	return updated, nil
}

// Reject 驳回申请。此前已通过的申请被驳回时撤销成员资格并回减成员数
func (s *MembershipService) Reject(ctx context.Context, applicationID, reviewerID string) (*model.Application, error) {
	if err := checkID(applicationID); err != nil {
		return nil, err
	}

	app, ok := s.apps.GetByID(applicationID)
	if !ok {
		return nil, ErrApplicationNotFound
	}

	wasApproved := app.Status == model.ApplicationApproved
	if wasApproved {
		// Member 不带申请外键，按社区+邮箱定位后移除
		if m, found := s.members.FindByIdentity(app.CommunityID, app.Email); found {
			if _, removed := s.members.Delete(m.ID); removed {
				s.comms.AdjustMemberCount(app.CommunityID, -1)
			}
		}
	}

	now := time.Now()
	updated, found, err := s.apps.Update(app.ID, func(a *model.Application) {
		a.Status = model.ApplicationRejected
		a.ReviewedAt = &now
		a.ReviewedBy = reviewerID
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrApplicationNotFound
	}

	event := "application_rejected"
	if wasApproved {
		event = "member_removed"
	}
	s.emitActivity(ctx, event, app.CommunityID, reviewerID, map[string]any{
		"application_id": app.ID,
		"email":          app.Email,
	})
	return updated, nil
}

func (s *MembershipService) GetApplication(applicationID string) (*model.Application, error) {
	if err := checkID(applicationID); err != nil {
		return nil, err
	}
	app, ok := s.apps.GetByID(applicationID)
	if !ok {
		return nil, ErrApplicationNotFound
	}
	return app, nil
}

// ListApplications status 为空表示全部
func (s *MembershipService) ListApplications(communityID, status string) ([]*model.Application, error) {
	if err := checkID(communityID); err != nil {
		return nil, err
	}
	return s.apps.ListByCommunity(communityID, status), nil
}

// ListMembers role/status 为空表示不过滤，search 匹配姓名或邮箱
func (s *MembershipService) ListMembers(communityID, role, status, search string) ([]*model.Member, error) {
	if err := checkID(communityID); err != nil {
		return nil, err
	}
	return s.members.ListByCommunity(communityID, role, status, search), nil
}

// RemoveMember 管理员直接移除成员（不经申请）
func (s *MembershipService) RemoveMember(ctx context.Context, communityID, memberID, operatorID string) error {
	if err := checkID(memberID); err != nil {
		return err
	}
	m, ok := s.members.GetByID(memberID)
	if !ok || m.CommunityID != communityID {
		return ErrMemberNotFound
	}
	if _, removed := s.members.Delete(memberID); !removed {
		return ErrMemberNotFound
	}
	s.comms.AdjustMemberCount(communityID, -1)
	s.emitActivity(ctx, "member_removed", communityID, operatorID, map[string]any{
		"member_id": memberID,
		"email":     m.Email,
	})
	return nil
}

// emitActivity 只记事件不阻塞主流程，失败打日志
func (s *MembershipService) emitActivity(ctx context.Context, eventType, communityID, actorID string, payload map[string]any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	ob := &model.ActivityOutbox{
		EventType:   eventType,
		CommunityID: communityID,
		ActorID:     actorID,
		Payload:     string(raw),
	}
	if err = s.outbox.Insert(ctx, ob); err != nil {
		s.log.Warn().Str("event", eventType).Err(err).Msg("outbox insert failed")
	}
}
