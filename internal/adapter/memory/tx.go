package memory

import (
	"context"
	"sync"
)

type journalKey struct{}

// journal collects undo steps of one transaction.
type journal struct {
	mu    sync.Mutex
	undos []func()
}

func (j *journal) add(undo func()) {
	j.mu.Lock()
	j.undos = append(j.undos, undo)
	j.mu.Unlock()
}

func (j *journal) rollback() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := len(j.undos) - 1; i >= 0; i-- {
		j.undos[i]()
	}
	j.undos = nil
}

// TxManager gives all-or-nothing semantics to in-memory writes: every write made
// inside Do records an undo step that is replayed if fn fails or panics.
// Isolation between concurrent transactions on one rescue is provided by the
// per-rescue lock held by the services.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(journalKey{}).(*journal); ok {
		return fn(ctx)
	}

	j := &journal{}
	ctx = context.WithValue(ctx, journalKey{}, j)

	defer func() {
		if p := recover(); p != nil {
			m.undo(j)
			panic(p)
		}
		if err != nil {
			m.undo(j)
		}
	}()

	err = fn(ctx)
	return err
}

func (m *TxManager) undo(j *journal) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	j.rollback()
}

// record registers undo with the transaction in ctx. Called with store.mu held.
func record(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok {
		j.add(undo)
	}
}
