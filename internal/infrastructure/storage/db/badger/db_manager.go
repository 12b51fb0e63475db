package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
	"github.com/tdex-network/tdex-fixedrate/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const txKey = "tx"

type repoManager struct {
	store *badgerhold.Store
	stop  chan struct{}

	exchangeRepository domain.ExchangeRepository
	eventRepository    domain.EventRepository
	tokenRepository    domain.TokenRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// The store is kept in memory if baseDbDir is empty.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "exchanges")
	}

	stop := make(chan struct{})
	store, err := createDb(dbDir, logger, stop)
	if err != nil {
		return nil, fmt.Errorf("opening exchanges db: %w", err)
	}

	return &repoManager{
		store:              store,
		stop:               stop,
		exchangeRepository: NewExchangeRepositoryImpl(store),
		eventRepository:    NewEventRepositoryImpl(store),
		tokenRepository:    NewTokenRepositoryImpl(store),
	}, nil
}

func (d *repoManager) ExchangeRepository() domain.ExchangeRepository {
	return d.exchangeRepository
}

func (d *repoManager) EventRepository() domain.EventRepository {
	return d.eventRepository
}

func (d *repoManager) TokenRepository() domain.TokenRepository {
	return d.tokenRepository
}

// RunTransaction binds a badger transaction to the context passed to the
// handler. The transaction is committed only if the handler succeeds.
func (d *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tx := d.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, txKey, tx))
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (d *repoManager) Close() {
	close(d.stop)
	if err := d.store.Close(); err != nil {
		log.WithError(err).Warn("failed to close exchanges db")
	}
}

func txFromContext(ctx context.Context) *badger.Txn {
	if tx, ok := ctx.Value(txKey).(*badger.Txn); ok {
		return tx
	}
	return nil
}

func createDb(
	dbDir string, logger badger.Logger, stop chan struct{},
) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			defer ticker.Stop()
			for {
				select {
				case <-stop:
					return
				case <-ticker.C:
					if err := db.Badger().RunValueLogGC(0.5); err != nil &&
						err != badger.ErrNoRewrite {
						log.Error(err)
					}
				}
			}
		}()
	}

	return db, nil
}
