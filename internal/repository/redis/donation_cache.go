package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DonationTotalTTL       = 10 * time.Minute
	DonationTotalKeyPrefix = "donation:total:community" // 缓存社区捐赠总额（分）
)

// DonationCacheRepository 捐赠总额读穿缓存，权威值在社区记录上
type DonationCacheRepository struct {
	totalTTL time.Duration
}

func NewDonationCacheRepository() *DonationCacheRepository {
	return &DonationCacheRepository{totalTTL: DonationTotalTTL}
}

func (r *DonationCacheRepository) totalKey(communityID string) string {
	return fmt.Sprintf("%s:%s", DonationTotalKeyPrefix, communityID)
}

// GetTotalCached 读缓存，第二个返回值表示是否命中
func (r *DonationCacheRepository) GetTotalCached(ctx context.Context, communityID string) (int64, bool, error) {
	val, err := Client.Get(ctx, r.totalKey(communityID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

// SetTotal 回填总额
func (r *DonationCacheRepository) SetTotal(ctx context.Context, communityID string, total int64) error {
	return Client.Set(ctx, r.totalKey(communityID), total, r.totalTTL).Err()
}

// DeleteTotal 失效缓存，支持可选延迟二删，抵消并发回填窗口的脏数据
func (r *DonationCacheRepository) DeleteTotal(ctx context.Context, communityID string, delay ...time.Duration) error {
	key := r.totalKey(communityID)
	if err := Client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(delay) > 0 && delay[0] > 0 {
		d := delay[0]
		go func() {
			t := time.NewTimer(d)
			defer t.Stop()
			<-t.C
			_ = Client.Del(context.Background(), key).Err()
		}()
	}
	return nil
}
