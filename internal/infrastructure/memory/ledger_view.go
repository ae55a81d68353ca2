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

var _ repository.LedgerRepository = (*ledgerView)(nil)

// ledgerView implementación sin bloqueo sobre un estado; el caller (Run
// o el wrapper con mutex) garantiza la exclusión.
type ledgerView struct {
	s *state
}

func (v *ledgerView) CreateTransaction(ctx context.Context, tx *entity.LedgerTransaction, actor string) error {
	header := *tx
	header.Transfers = nil
	v.s.txs[tx.Direction][tx.ID] = header
	v.appendHistory(&header, actor)
	return nil
}

func (v *ledgerView) appendHistory(tx *entity.LedgerTransaction, actor string) {
	hist := v.s.txHist[tx.Direction][tx.ID]
	h := entity.TransactionSnapshot(tx, actor)
	h.HistoryID = int64(len(hist)) + 1
	v.s.txHist[tx.Direction][tx.ID] = append(hist, *h)
}

func (v *ledgerView) CreateTransferLine(ctx context.Context, d entity.Direction, line *entity.TransferLine) error {
	if _, ok := v.s.items[line.ItemID]; !ok {
		return fmt.Errorf("item %s: %w", line.ItemID, domain.ErrNotFound)
	}
	v.s.lines[d][line.TransactionID] = append(v.s.lines[d][line.TransactionID], *line)
	return nil
}

func (v *ledgerView) GetForUpdate(ctx context.Context, d entity.Direction, id string) (*entity.LedgerTransaction, error) {
	header, ok := v.s.txs[d][id]
	if !ok {
		return nil, nil
	}
	tx := header
	tx.Transfers = append([]entity.TransferLine(nil), v.s.lines[d][id]...)
	sortBySeq(tx.Transfers)
	return &tx, nil
}

func (v *ledgerView) UpdateHeader(ctx context.Context, tx *entity.LedgerTransaction, actor string) error {
	if _, ok := v.s.txs[tx.Direction][tx.ID]; !ok {
		return fmt.Errorf("transaction %s: %w", tx.ID, domain.ErrNotFound)
	}
	header := *tx
	header.Transfers = nil
	v.s.txs[tx.Direction][tx.ID] = header
	v.appendHistory(&header, actor)
	return nil
}

func (v *ledgerView) TouchLine(ctx context.Context, d entity.Direction, lineID string, at time.Time) error {
	for txID, lines := range v.s.lines[d] {
		for i := range lines {
			if lines[i].ID == lineID {
				lines[i].UpdatedAt = at
				v.s.lines[d][txID] = lines
				return nil
			}
		}
	}
	return fmt.Errorf("transfer %s: %w", lineID, domain.ErrNotFound)
}

func (v *ledgerView) GetByID(ctx context.Context, d entity.Direction, id string) (*entity.LedgerTransaction, error) {
	header, ok := v.s.txs[d][id]
	if !ok {
		return nil, nil
	}
	tx := header
	tx.Transfers = v.enrich(d, id)
	return &tx, nil
}

// enrich copia las líneas con nombre de artículo y unidad al momento de
// la consulta, ordenadas por seq.
func (v *ledgerView) enrich(d entity.Direction, txID string) []entity.TransferLine {
	src := v.s.lines[d][txID]
	lines := make([]entity.TransferLine, len(src))
	for i, line := range src {
		if item, ok := v.s.items[line.ItemID]; ok {
			line.ItemName = item.Name
			line.UnitName = v.s.units[item.UnitID].Name
		}
		lines[i] = line
	}
	sortBySeq(lines)
	return lines
}

func sortBySeq(lines []entity.TransferLine) {
	sort.Slice(lines, func(i, j int) bool { return lines[i].Seq < lines[j].Seq })
}

func (v *ledgerView) matches(tx entity.LedgerTransaction, f repository.LedgerFilter) bool {
	if tx.Direction == entity.DirectionIn && tx.DeletedAt != nil {
		return false
	}
	if f.Search != "" && !strings.Contains(textutil.Fold(tx.Counterparty), textutil.Fold(f.Search)) {
		return false
	}
	if f.Date != nil {
		if tx.CreatedAt.Before(*f.Date) || !tx.CreatedAt.Before(f.Date.Add(24*time.Hour)) {
			return false
		}
	}
	return true
}

func beforeCursor(createdAt time.Time, id string, c *repository.Cursor) bool {
	if c == nil {
		return true
	}
	if !createdAt.Equal(c.CreatedAt) {
		return createdAt.Before(c.CreatedAt)
	}
	return id < c.ID
}

func (v *ledgerView) List(ctx context.Context, d entity.Direction, f repository.LedgerFilter) ([]*entity.LedgerTransaction, error) {
	var list []*entity.LedgerTransaction
	for id, header := range v.s.txs[d] {
		if !v.matches(header, f) || !beforeCursor(header.CreatedAt, header.ID, f.Cursor) {
			continue
		}
		tx := header
		tx.Transfers = v.enrich(d, id)
		list = append(list, &tx)
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

func (v *ledgerView) Count(ctx context.Context, d entity.Direction, f repository.LedgerFilter) (int64, error) {
	var count int64
	for _, header := range v.s.txs[d] {
		if v.matches(header, f) {
			count++
		}
	}
	return count, nil
}

func (v *ledgerView) ResolveCursor(ctx context.Context, d entity.Direction, id string) (*repository.Cursor, error) {
	header, ok := v.s.txs[d][id]
	if !ok {
		return nil, fmt.Errorf("cursor %s: %w", id, domain.ErrNotFound)
	}
	return &repository.Cursor{CreatedAt: header.CreatedAt, ID: header.ID}, nil
}

type lockedLedger struct{ st *Store }

func (l lockedLedger) CreateTransaction(ctx context.Context, tx *entity.LedgerTransaction, actor string) error {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&ledgerView{s: l.st.s}).CreateTransaction(ctx, tx, actor)
}

func (l lockedLedger) CreateTransferLine(ctx context.Context, d entity.Direction, line *entity.TransferLine) error {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&ledgerView{s: l.st.s}).CreateTransferLine(ctx, d, line)
}

func (l lockedLedger) GetForUpdate(ctx context.Context, d entity.Direction, id string) (*entity.LedgerTransaction, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&ledgerView{s: l.st.s}).GetForUpdate(ctx, d, id)
}

func (l lockedLedger) UpdateHeader(ctx context.Context, tx *entity.LedgerTransaction, actor string) error {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&ledgerView{s: l.st.s}).UpdateHeader(ctx, tx, actor)
}

func (l lockedLedger) TouchLine(ctx context.Context, d entity.Direction, lineID string, at time.Time) error {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&ledgerView{s: l.st.s}).TouchLine(ctx, d, lineID, at)
}

func (l lockedLedger) GetByID(ctx context.Context, d entity.Direction, id string) (*entity.LedgerTransaction, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&ledgerView{s: l.st.s}).GetByID(ctx, d, id)
}

func (l lockedLedger) List(ctx context.Context, d entity.Direction, f repository.LedgerFilter) ([]*entity.LedgerTransaction, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&ledgerView{s: l.st.s}).List(ctx, d, f)
}

func (l lockedLedger) Count(ctx context.Context, d entity.Direction, f repository.LedgerFilter) (int64, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&ledgerView{s: l.st.s}).Count(ctx, d, f)
}

func (l lockedLedger) ResolveCursor(ctx context.Context, d entity.Direction, id string) (*repository.Cursor, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return (&ledgerView{s: l.st.s}).ResolveCursor(ctx, d, id)
}
