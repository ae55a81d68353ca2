package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.UnitRepository = (lockedUnits{})
var _ repository.HistoryRepository = (lockedHistories{})

type lockedUnits struct{ st *Store }

func (l lockedUnits) List(ctx context.Context) ([]*entity.Unit, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	units := make([]*entity.Unit, 0, len(l.st.s.units))
	for _, u := range l.st.s.units {
		copied := u
		units = append(units, &copied)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Name < units[j].Name })
	return units, nil
}

func (l lockedUnits) GetByID(ctx context.Context, id string) (*entity.Unit, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	u, ok := l.st.s.units[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// lockedHistories lectura del historial. Las filas se guardan en orden
// de inserción (history_id ascendente); las páginas salen descendentes.
type lockedHistories struct{ st *Store }

func (l lockedHistories) ListTransactionHistory(ctx context.Context, d entity.Direction, id string, f repository.HistoryFilter) ([]*entity.TransactionHistory, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	hist := l.st.s.txHist[d][id]
	var list []*entity.TransactionHistory
	for i := len(hist) - 1; i >= 0; i-- {
		h := hist[i]
		if f.Cursor != nil && h.HistoryID >= *f.Cursor {
			continue
		}
		copied := h
		list = append(list, &copied)
		if f.Limit > 0 && len(list) == f.Limit {
			break
		}
	}
	return list, nil
}

func (l lockedHistories) CountTransactionHistory(ctx context.Context, d entity.Direction, id string) (int64, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return int64(len(l.st.s.txHist[d][id])), nil
}

func (l lockedHistories) ResolveTransactionCursor(ctx context.Context, d entity.Direction, id string, historyID int64) error {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	for _, h := range l.st.s.txHist[d][id] {
		if h.HistoryID == historyID {
			return nil
		}
	}
	return fmt.Errorf("history cursor %d: %w", historyID, domain.ErrNotFound)
}

func (l lockedHistories) ListItemHistory(ctx context.Context, id string, f repository.HistoryFilter) ([]*entity.ItemHistory, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	hist := l.st.s.itemHist[id]
	var list []*entity.ItemHistory
	for i := len(hist) - 1; i >= 0; i-- {
		h := hist[i]
		if f.Cursor != nil && h.HistoryID >= *f.Cursor {
			continue
		}
		copied := h
		list = append(list, &copied)
		if f.Limit > 0 && len(list) == f.Limit {
			break
		}
	}
	return list, nil
}

func (l lockedHistories) CountItemHistory(ctx context.Context, id string) (int64, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return int64(len(l.st.s.itemHist[id])), nil
}

func (l lockedHistories) ResolveItemCursor(ctx context.Context, id string, historyID int64) error {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	for _, h := range l.st.s.itemHist[id] {
		if h.HistoryID == historyID {
			return nil
		}
	}
	return fmt.Errorf("history cursor %d: %w", historyID, domain.ErrNotFound)
}
