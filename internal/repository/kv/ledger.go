package kv

import (
	"context"
	"errors"
	"strings"

	"github.com/sakif/breakout-edge/internal/model"
	"github.com/sakif/breakout-edge/internal/repository"
	"github.com/sakif/breakout-edge/internal/store"
)

var _ repository.LedgerRepository = (*Ledgers)(nil)

// Ledgers stores one pick ledger per identity under "ledger:<username>".
type Ledgers struct {
	store store.Store
}

func NewLedgers(s store.Store) *Ledgers {
	return &Ledgers{store: s}
}

// Get returns the identity's ledger, or the lazy default (free tier, zero
// picks) when none has been written yet. The default is not persisted until
// the first mutation — a visit alone writes nothing.
func (l *Ledgers) Get(ctx context.Context, username string) (model.Ledger, error) {
	var ledger model.Ledger
	if err := getJSON(ctx, l.store, ledgerPrefix+username, &ledger); err != nil {
		if errors.Is(err, store.ErrNoValue) {
			return model.DefaultLedger(), nil
		}
		return model.Ledger{}, err
	}
	if ledger.PickedIDs == nil {
		ledger.PickedIDs = []string{}
	}
	return ledger, nil
}

func (l *Ledgers) Save(ctx context.Context, username string, ledger model.Ledger) error {
	return setJSON(ctx, l.store, ledgerPrefix+username, ledger)
}

// Usernames returns every identity with a persisted ledger.
func (l *Ledgers) Usernames(ctx context.Context) ([]string, error) {
	keys, err := l.store.List(ctx, ledgerPrefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, ledgerPrefix))
	}
	return names, nil
}
