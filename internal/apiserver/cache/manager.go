package cache

import (
	"context"

	"github.com/amoylab/hireloop/internal/common/config"
	"github.com/amoylab/hireloop/internal/tenancy"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// MembershipCache caches resolved principals, memberships included, so the
// tenant scope middleware does not hit the database on every request.
type MembershipCache struct {
	logger *zap.Logger
	layers *MultiLayer[tenancy.Principal]
}

// NewMembershipCache creates a cache on top of rdb. rdb may be nil, in which
// case only the in-process layer is used.
func NewMembershipCache(rdb redis.Cmdable, cfg config.RedisConfig, logger *zap.Logger) *MembershipCache {
	return &MembershipCache{
		logger: logger.Named("cache.membership"),
		layers: NewMultiLayer[tenancy.Principal](MultiLayerConfig{
			RedisClient: rdb,
			KeyPrefix:   cfg.Prefix + "principal:",
			L1TTL:       cfg.LocalTTL,
			L2TTL:       cfg.TTL,
		}, logger),
	}
}

// NewRedisClient opens the client described by cfg and checks it answers.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Get returns the cached principal for userID
func (m *MembershipCache) Get(ctx context.Context, userID string) (*tenancy.Principal, bool) {
	p, layer, ok := m.layers.Get(ctx, userID)
	if !ok {
		return nil, false
	}
	m.logger.Debug("principal served from cache",
		zap.String("user_id", userID),
		zap.String("layer", string(layer)))
	return &p, true
}

// Set caches p under its id
func (m *MembershipCache) Set(ctx context.Context, p tenancy.Principal) error {
	return m.layers.Set(ctx, p.ID, p)
}

// Invalidate drops the cached principal. Call it whenever the user's
// memberships or status change.
func (m *MembershipCache) Invalidate(ctx context.Context, userID string) error {
	return m.layers.Delete(ctx, userID)
}

// Stats returns cache statistics
func (m *MembershipCache) Stats() Stats {
	return m.layers.Stats()
}
