package cached

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-resource-service/internal/adapter/cache"
	domain "user-resource-service/internal/domain/user"
	"user-resource-service/internal/usecase/user"
)

// UserRepository decorates a persistent user.Repository with a read-through
// cache for by-id lookups. Writes go to the database first and then evict
// the cached entry, so the database stays the source of truth. An eviction
// also voids fills that loaded the row before it.
type UserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewUserRepository creates a cached repository around dbRepo.
func NewUserRepository(dbRepo user.Repository, c cache.UserCache, log *zap.Logger) *UserRepository {
	return &UserRepository{
		dbRepo: dbRepo,
		cache:  c,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (uuid.UUID, error) {
	return r.dbRepo.Create(ctx, u)
}

// List delegates to the DB repository.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.List(ctx)
}

// GetByID retrieves a user by ID using the cache-aside pattern.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	cachedUser, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warn("cache get error, falling back to database", zap.Stringer("id", id), zap.Error(err))
	} else if cachedUser != nil {
		return cachedUser, nil
	}

	// Concurrent misses for the same id share a single database query,
	// detached from the cancellation of whichever caller started it.
	result, err, shared := r.group.Do(cache.CacheKey(id), func() (any, error) {
		ctx := context.WithoutCancel(ctx)

		// an eviction between this read and the fill below voids the fill
		gen, genErr := r.cache.Generation(ctx, id)
		if genErr != nil {
			r.log.Warn("cache generation error, skipping fill", zap.Stringer("id", id), zap.Error(genErr))
		}

		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if genErr == nil {
			if _, err := r.cache.Set(ctx, u, gen); err != nil {
				r.log.Warn("failed to cache user", zap.Stringer("id", id), zap.Error(err))
			}
		}

		return u, nil
	})
	if err != nil {
		return nil, err
	}

	u := result.(*domain.User)
	if shared {
		// callers must not alias each other's copy
		clone := *u
		return &clone, nil
	}
	return u, nil
}

// Update updates the user in DB and evicts the cached entry.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, patch domain.Patch) (*domain.User, error) {
	updated, err := r.dbRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	r.evict(ctx, id)
	return updated, nil
}

// Delete deletes the user from DB and evicts the cached entry.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.dbRepo.Delete(ctx, id); err != nil {
		return err
	}

	r.evict(ctx, id)
	return nil
}

func (r *UserRepository) evict(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache", zap.Stringer("id", id), zap.Error(err))
	}
}
