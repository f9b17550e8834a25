package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Seva_Community/internal/model"
	"Seva_Community/internal/repository"
	"Seva_Community/internal/repository/mysql"
	"Seva_Community/internal/repository/redis"

	"github.com/rs/zerolog"
)

// 延迟二删间隔，覆盖并发读回填的窗口期
const donationCacheDeleteDelay = 500 * time.Millisecond

type DonationService struct {
	repo   *mysql.DonationRepository
	cache  *redis.DonationCacheRepository
	comms  *repository.CommunityRepository
	outbox ActivityStore
	log    zerolog.Logger
}

func NewDonationService(
	repo *mysql.DonationRepository,
	comms *repository.CommunityRepository,
	outbox ActivityStore,
	log zerolog.Logger,
) *DonationService {
	return &DonationService{
		repo:   repo,
		cache:  redis.NewDonationCacheRepository(),
		comms:  comms,
		outbox: outbox,
		log:    log.With().Str("service", "donation").Logger(),
	}
}

// Record 记账并累加社区捐赠总额；写库成功后延迟双删缓存，
// 读侧下次回源重建
func (s *DonationService) Record(ctx context.Context, communityID, donorName, donorEmail string, amountCents int64, method, note string) (*model.Donation, error) {
	if amountCents <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if donorName == "" {
		return nil, errors.New("donor name required")
	}
	if _, ok := s.comms.GetByID(communityID); !ok {
		return nil, ErrCommunityNotFound
	}

	d := &model.Donation{
		CommunityID: communityID,
		DonorName:   donorName,
		DonorEmail:  donorEmail,
		AmountCents: amountCents,
		Method:      method,
		Note:        note,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.comms.AdjustDonationTotal(communityID, amountCents)
	_ = s.cache.DeleteTotal(ctx, communityID, donationCacheDeleteDelay)

	payload, _ := json.Marshal(map[string]any{
		"donation_id":  d.ID,
		"amount_cents": amountCents,
		"donor":        donorName,
	})
	ob := &model.ActivityOutbox{
		EventType:   "donation_recorded",
		CommunityID: communityID,
		Payload:     string(payload),
	}
	if err := s.outbox.Insert(ctx, ob); err != nil {
		s.log.Warn().Uint64("donation_id", d.ID).Err(err).Msg("outbox insert failed")
	}
	return d, nil
}

// TotalFor 读穿缓存：命中直接返回，miss 则按明细重算后回填
func (s *DonationService) TotalFor(ctx context.Context, communityID string) (int64, error) {
	if v, ok, err := s.cache.GetTotalCached(ctx, communityID); err == nil && ok {
		return v, nil
	}

	total, err := s.repo.SumByCommunity(ctx, communityID)
	if err != nil {
		// MySQL 不可达时退回社区记录上的计数字段
		if c, ok := s.comms.GetByID(communityID); ok {
			return c.DonationTotal, nil
		}
		return 0, err
	}

	_ = s.cache.SetTotal(ctx, communityID, total)
	return total, nil
}

// ListByCommunity 游标分页捐赠明细
func (s *DonationService) ListByCommunity(ctx context.Context, communityID string, cursor uint64, limit int) ([]model.Donation, uint64, error) {
	return s.repo.ListByCommunity(ctx, communityID, cursor, limit)
}
