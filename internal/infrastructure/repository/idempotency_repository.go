package repository

import (
	"context"
	"sync"
	"time"

	"github.com/sangkips/invoice-desk/internal/domain/entity"
	domainRepo "github.com/sangkips/invoice-desk/internal/domain/repository"
)

type idempotencyRepository struct {
	mu   sync.Mutex
	keys map[string]entity.IdempotencyKey
	now  func() time.Time
}

// NewIdempotencyRepository creates an in-memory idempotency repository
func NewIdempotencyRepository() domainRepo.IdempotencyRepository {
	return &idempotencyRepository{
		keys: make(map[string]entity.IdempotencyKey),
		now:  time.Now,
	}
}

func idempotencyMapKey(key, endpoint string) string {
	return endpoint + "\x00" + key
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, endpoint string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ikey, ok := r.keys[idempotencyMapKey(key, endpoint)]
	if !ok {
		return nil, nil
	}
	if ikey.IsExpired(r.now()) {
		delete(r.keys, idempotencyMapKey(key, endpoint))
		return nil, nil
	}
	ikey.ResponseBody = append([]byte(nil), ikey.ResponseBody...)
	return &ikey, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *ikey
	stored.ResponseBody = append([]byte(nil), ikey.ResponseBody...)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now()
	}
	r.keys[idempotencyMapKey(ikey.Key, ikey.Endpoint)] = stored
	return nil
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, ikey := range r.keys {
		if ikey.IsExpired(now) {
			delete(r.keys, k)
		}
	}
	return nil
}
