package app

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"storefront/internal/domain"
)

// ItemService serves catalogue reads, optionally through a cache.
type ItemService struct {
	repo  domain.ItemRepository
	cache domain.ItemCache
	sfg   singleflight.Group
	log   *zap.Logger
}

// NewItemService creates an ItemService. cache may be nil.
func NewItemService(repo domain.ItemRepository, cache domain.ItemCache, log *zap.Logger) *ItemService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ItemService{repo: repo, cache: cache, log: log}
}

// sharedReadTimeout bounds a deduplicated item read once no single caller owns it.
const sharedReadTimeout = 10 * time.Second

// GetItem returns the item or domain.ErrItemNotFound. Concurrent misses for
// the same id share one repository read. The shared read is detached from
// the caller's cancellation; each caller stops waiting on its own ctx.
func (s *ItemService) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.sfg.DoChan(strconv.FormatInt(id, 10), func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(shared, sharedReadTimeout)
		defer cancel()
		if s.cache != nil {
			item, err := s.cache.GetItem(ctx, id)
			if err == nil {
				return item, nil
			}
			if !errors.Is(err, domain.ErrCacheMiss) {
				s.log.Warn("item cache get failed", zap.Int64("item_id", id), zap.Error(err))
			}
		}

		item, err := s.repo.GetItem(ctx, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrItemNotFound
		}

		if s.cache != nil {
			if err := s.cache.SetItem(ctx, item); err != nil {
				s.log.Warn("item cache set failed", zap.Int64("item_id", id), zap.Error(err))
			}
		}
		return item, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		item := *res.Val.(*domain.Item)
		return &item, nil
	}
}

// ListItems returns the whole catalogue.
func (s *ItemService) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

// FindByName returns the items with the given name, or domain.ErrItemNotFound
// when there are none.
func (s *ItemService) FindByName(ctx context.Context, name string) ([]domain.Item, error) {
	items, err := s.repo.FindItemsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrItemNotFound
	}
	return items, nil
}
