package components

import (
	"log/slog"
	"time"

	"shop-checkout/internal/infra/cache"
	"shop-checkout/internal/infra/memstore"
	"shop-checkout/internal/infra/readstore"
	"shop-checkout/internal/infra/uow"
	"shop-checkout/internal/pkg/config"
	"shop-checkout/internal/usecase/queries"
	"shop-checkout/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewPersistence,
		NewIdempotencyStore,
	),
)

// Persistence binds the storage driver to the usecase ports.
type Persistence struct {
	fx.Out

	UnitOfWork     shared.UnitOfWork
	OrderReadStore queries.OrderReadStore
}

// NewPersistence uses Postgres when a pool is available and the in-memory
// driver otherwise.
func NewPersistence(pool *pgxpool.Pool) Persistence {
	if pool == nil {
		store := memstore.New()
		return Persistence{
			UnitOfWork:     store,
			OrderReadStore: memstore.NewOrderReadStore(store),
		}
	}
	return Persistence{
		UnitOfWork:     uow.NewPostgresUoW(pool),
		OrderReadStore: readstore.NewOrderReadStore(pool),
	}
}

func NewIdempotencyStore(cfg config.Config, rdb *redis.Client) shared.IdempotencyStore {
	ttl := cfg.Redis.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if rdb == nil {
		slog.Warn("idempotency keys are process local; run a single instance or configure REDIS_ADDR")
		return memstore.NewIdempotencyStore(ttl)
	}
	return cache.NewRedisIdempotencyStore(rdb, ttl)
}
