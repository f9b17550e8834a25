package service

import (
	"context"
	"time"

	"Seva_Community/internal/model"
	"Seva_Community/internal/pkg"

	"github.com/rs/zerolog"
)

type Sender func(ctx context.Context, ob *model.ActivityOutbox) error

// OutboxQueue 投递器依赖的最小读写集合，由 mysql.OutboxRepository 实现
type OutboxQueue interface {
	List(ctx context.Context, batchSize int) ([]model.ActivityOutbox, error)
	RetryUpdate(ctx context.Context, id uint64) error
	SuccessUpdate(ctx context.Context, id uint64) error
}

// OutboxRelayer 周期性把待投递事件交给 sender，失败记失败等下轮重试
type OutboxRelayer struct {
	repo      OutboxQueue
	batchSize int
	interval  time.Duration
	sender    Sender
	log       zerolog.Logger
}

func NewOutboxRelayer(repo OutboxQueue, sender Sender, log zerolog.Logger) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
		log:       log.With().Str("service", "outbox_relayer").Logger(),
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce 从数据库读取一批事件，逐条交给 sender 投递
func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		r.log.Error().Err(err).Msg("outbox query failed")
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			r.log.Warn().Uint64("id", ob.ID).Str("event", ob.EventType).Err(err).Msg("outbox send failed")
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// KafkaSender 把事件发往 kafka，key 取社区 id 保证同社区分区内有序
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.ActivityOutbox) error {
		return producer.Send(ctx, ob.CommunityID, []byte(ob.Payload))
	}
}

// LogSender 无 kafka 环境下的降级 sender，只打日志
func LogSender(log zerolog.Logger) Sender {
	return func(_ context.Context, ob *model.ActivityOutbox) error {
		log.Info().Str("event", ob.EventType).Str("community_id", ob.CommunityID).RawJSON("payload", []byte(ob.Payload)).Msg("outbox event")
		return nil
	}
}
