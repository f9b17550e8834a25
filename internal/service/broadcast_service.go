package service

import (
	"context"
	"encoding/json"
	"errors"

	"Seva_Community/internal/model"
	"Seva_Community/internal/pkg"
	"Seva_Community/internal/repository"

	"github.com/rs/zerolog"
)

// BroadcastService 社区群发邮件，收件人为全部 active 成员
type BroadcastService struct {
	members  *repository.MemberRepository
	comms    *repository.CommunityRepository
	outbox   ActivityStore
	emailCfg pkg.SMTPConfig
	log      zerolog.Logger
}

func NewBroadcastService(
	members *repository.MemberRepository,
	comms *repository.CommunityRepository,
	outbox ActivityStore,
	emailCfg pkg.SMTPConfig,
	log zerolog.Logger,
) *BroadcastService {
	return &BroadcastService{
		members:  members,
		comms:    comms,
		outbox:   outbox,
		emailCfg: emailCfg,
		log:      log.With().Str("service", "broadcast").Logger(),
	}
}

// Send 逐个投递，单个收件人失败不中断；返回成功/失败计数
func (s *BroadcastService) Send(ctx context.Context, communityID, actorID, subject, body string) (sent, failed int, err error) {
	if subject == "" || body == "" {
		return 0, 0, errors.New("subject and body required")
	}

	community, ok := s.comms.GetByID(communityID)
	if !ok {
		return 0, 0, ErrCommunityNotFound
	}

	members := s.members.ListByCommunity(communityID, "", model.StatusActive, "")
	html := pkg.BroadcastHTML(community.Name, body)

	for _, m := range members {
		if m.Email == "" {
			continue
		}
		if serr := pkg.SendEmail(s.emailCfg, m.Email, subject, html); serr != nil {
			failed++
			s.log.Warn().Str("email", m.Email).Err(serr).Msg("broadcast send failed")
			continue
		}
		sent++
	}

	payload, _ := json.Marshal(map[string]any{
		"subject": subject,
		"sent":    sent,
		"failed":  failed,
	})
	ob := &model.ActivityOutbox{
		EventType:   "broadcast_sent",
		CommunityID: communityID,
		ActorID:     actorID,
		Payload:     string(payload),
	}
	if oerr := s.outbox.Insert(ctx, ob); oerr != nil {
		s.log.Warn().Str("community_id", communityID).Err(oerr).Msg("outbox insert failed")
	}
	return sent, failed, nil
}
