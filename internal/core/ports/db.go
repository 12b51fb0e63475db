package ports

import (
	"context"

	"github.com/tdex-network/tdex-fixedrate/internal/core/domain"
)

// RepoManager interface defines the methods for exchange, event and token
// repositories.
type RepoManager interface {
	ExchangeRepository() domain.ExchangeRepository
	EventRepository() domain.EventRepository
	TokenRepository() domain.TokenRepository

	// RunTransaction executes the handler within a db transaction. Every
	// repository call made with the context passed to the handler is part of
	// the transaction, which is committed if the handler succeeds and rolled
	// back otherwise.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
