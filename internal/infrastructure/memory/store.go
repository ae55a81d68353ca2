// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con la misma semántica observable que la capa PostgreSQL.
// Lo usan los tests y sirve para correr la API sin base de datos.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// state el contenido completo del almacén. Las entidades se guardan por
// valor; los punteros internos (*string, *time.Time) se tratan como
// inmutables, así que clonar los mapas basta como snapshot.
type state struct {
	units    map[string]entity.Unit
	items    map[string]entity.Item
	itemHist map[string][]entity.ItemHistory
	txs      map[entity.Direction]map[string]entity.LedgerTransaction
	lines    map[entity.Direction]map[string][]entity.TransferLine // orden de inserción
	txHist   map[entity.Direction]map[string][]entity.TransactionHistory
}

func newState() *state {
	return &state{
		units:    make(map[string]entity.Unit),
		items:    make(map[string]entity.Item),
		itemHist: make(map[string][]entity.ItemHistory),
		txs: map[entity.Direction]map[string]entity.LedgerTransaction{
			entity.DirectionIn:  {},
			entity.DirectionOut: {},
		},
		lines: map[entity.Direction]map[string][]entity.TransferLine{
			entity.DirectionIn:  {},
			entity.DirectionOut: {},
		},
		txHist: map[entity.Direction]map[string][]entity.TransactionHistory{
			entity.DirectionIn:  {},
			entity.DirectionOut: {},
		},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.units {
		c.units[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.itemHist {
		c.itemHist[k] = append([]entity.ItemHistory(nil), v...)
	}
	for d := range s.txs {
		for k, v := range s.txs[d] {
			c.txs[d][k] = v
		}
		for k, v := range s.lines[d] {
			c.lines[d][k] = append([]entity.TransferLine(nil), v...)
		}
		for k, v := range s.txHist[d] {
			c.txHist[d][k] = append([]entity.TransactionHistory(nil), v...)
		}
	}
	return c
}

// Store almacén en memoria. Un solo mutex serializa todo: Run lo retiene
// durante la transacción completa, así que las unidades de trabajo nunca
// se entrelazan y no existen errores transitorios que reintentar.
type Store struct {
	mu sync.Mutex
	s  *state
}

var _ ledger.TxRunner = (*Store)(nil)

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{s: newState()}
}

// AddUnit da de alta una unidad de medida y devuelve su id.
func (st *Store) AddUnit(name string) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	id := uuid.New().String()
	st.s.units[id] = entity.Unit{ID: id, Name: name}
	return id
}

// Run ejecuta fn con vistas atadas al estado vivo, bajo el mutex. Si fn
// falla se restaura el snapshot previo: todo-o-nada, como el Rollback
// de la capa PostgreSQL.
func (st *Store) Run(ctx context.Context, fn func(
	ledgerRepo repository.LedgerRepository,
	itemRepo repository.ItemRepository,
) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	snap := st.s.clone()
	if err := fn(&ledgerView{s: st.s}, &itemView{s: st.s}); err != nil {
		st.s = snap
		return err
	}
	return nil
}

// Ledger devuelve el repositorio del libro con bloqueo por llamada.
func (st *Store) Ledger() repository.LedgerRepository { return lockedLedger{st} }

// Items devuelve el repositorio de artículos con bloqueo por llamada.
func (st *Store) Items() repository.ItemRepository { return lockedItems{st} }

// Units devuelve el repositorio de unidades con bloqueo por llamada.
func (st *Store) Units() repository.UnitRepository { return lockedUnits{st} }

// Histories devuelve el repositorio de historial con bloqueo por llamada.
func (st *Store) Histories() repository.HistoryRepository { return lockedHistories{st} }
