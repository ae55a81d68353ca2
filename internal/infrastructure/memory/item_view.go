package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/textutil"
)

var _ repository.ItemRepository = (*itemView)(nil)

// itemView implementación sin bloqueo sobre un estado.
type itemView struct {
	s *state
}

func (v *itemView) Create(ctx context.Context, item *entity.Item, actor string) error {
	for _, existing := range v.s.items {
		if existing.Name == item.Name {
			return domain.Validationf("name", "an item with this name already exists")
		}
	}
	if _, ok := v.s.units[item.UnitID]; !ok {
		return fmt.Errorf("unit %s: %w", item.UnitID, domain.ErrNotFound)
	}
	v.s.items[item.ID] = *item
	v.appendHistory(item, actor)
	return nil
}

func (v *itemView) appendHistory(item *entity.Item, actor string) {
	hist := v.s.itemHist[item.ID]
	h := entity.ItemSnapshot(item, actor)
	h.HistoryID = int64(len(hist)) + 1
	v.s.itemHist[item.ID] = append(hist, *h)
}

func (v *itemView) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	item, ok := v.s.items[id]
	if !ok {
		return nil, nil
	}
	item.UnitName = v.s.units[item.UnitID].Name
	return &item, nil
}

func (v *itemView) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	var list []*entity.Item
	for _, item := range v.s.items {
		if item.DeletedAt != nil {
			continue
		}
		if f.Search != "" && !strings.Contains(textutil.Fold(item.Name), textutil.Fold(f.Search)) {
			continue
		}
		if !beforeCursor(item.CreatedAt, item.ID, f.Cursor) {
			continue
		}
		item.UnitName = v.s.units[item.UnitID].Name
		copied := item
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	if f.Limit > 0 && len(list) > f.Limit {
		list = list[:f.Limit]
	}
	return list, nil
}

func (v *itemView) Count(ctx context.Context, f repository.ItemFilter) (int64, error) {
	var count int64
	for _, item := range v.s.items {
		if item.DeletedAt != nil {
			continue
		}
		if f.Search != "" && !strings.Contains(textutil.Fold(item.Name), textutil.Fold(f.Search)) {
			continue
		}
		count++
	}
	return count, nil
}

func (v *itemView) ResolveCursor(ctx context.Context, id string) (*repository.Cursor, error) {
	item, ok := v.s.items[id]
	if !ok {
		return nil, fmt.Errorf("cursor %s: %w", id, domain.ErrNotFound)
	}
	return &repository.Cursor{CreatedAt: item.CreatedAt, ID: item.ID}, nil
}

func (v *itemView) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	item, ok := v.s.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (v *itemView) Touch(ctx context.Context, id string, at time.Time) error {
	item, ok := v.s.items[id]
	if !ok {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	item.UpdatedAt = at
	v.s.items[id] = item
	return nil
}

func (v *itemView) UpdateStock(ctx context.Context, item *entity.Item, at time.Time, actor string) error {
	stored, ok := v.s.items[item.ID]
	if !ok {
		return fmt.Errorf("item %s: %w", item.ID, domain.ErrNotFound)
	}
	stored.Stock = item.Stock
	stored.UpdatedAt = at
	v.s.items[item.ID] = stored
	v.appendHistory(&stored, actor)
	return nil
}

type lockedItems struct{ st *Store }

func (l lockedItems) Create(ctx context.Context, item *entity.Item, actor string) error {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&itemView{s: l.st.s}).Create(ctx, item, actor)
}

func (l lockedItems) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&itemView{s: l.st.s}).GetByID(ctx, id)
}

func (l lockedItems) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&itemView{s: l.st.s}).List(ctx, f)
}

func (l lockedItems) Count(ctx context.Context, f repository.ItemFilter) (int64, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&itemView{s: l.st.s}).Count(ctx, f)
}

func (l lockedItems) ResolveCursor(ctx context.Context, id string) (*repository.Cursor, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&itemView{s: l.st.s}).ResolveCursor(ctx, id)
}

func (l lockedItems) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&itemView{s: l.st.s}).GetForUpdate(ctx, id)
}

func (l lockedItems) Touch(ctx context.Context, id string, at time.Time) error {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&itemView{s: l.st.s}).Touch(ctx, id, at)
}

func (l lockedItems) UpdateStock(ctx context.Context, item *entity.Item, at time.Time, actor string) error {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&itemView{s: l.st.s}).UpdateStock(ctx, item, at, actor)
}
