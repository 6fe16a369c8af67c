package storage

import (
	"context"

	"github.com/mcoot/skylandly/internal/model"
)

// Storage defines the interface for ledger persistence
type Storage interface {
	// Update runs fn inside a transaction scoped to one (player, date) key.
	// Writes made through tx are committed only if fn returns nil.
	// Returns model.ErrStoreConflict when a concurrent writer invalidated the transaction.
	Update(ctx context.Context, key model.ResultKey, fn func(tx Tx) error) error

	// Read operations
	GetPlayer(ctx context.Context, browserID string) (*model.Player, error)
	// ListResults returns up to limit results ordered by date descending, guesses in index order
	ListResults(ctx context.Context, browserID string, limit int) ([]*model.DailyResult, error)
	ResultStats(ctx context.Context, browserID string) (model.ResultStats, error)

	// DeletePlayer removes the player with all of its results and guesses
	DeletePlayer(ctx context.Context, browserID string) error

	Close() error
}

// Tx is the view of a single (player, date) key inside Update
type Tx interface {
	// Player returns model.ErrPlayerNotFound if the browser id is new
	Player(ctx context.Context) (*model.Player, error)
	// SavePlayer inserts when ID is zero (assigning it) and updates otherwise
	SavePlayer(ctx context.Context, player *model.Player) error

	// Result returns model.ErrResultNotFound if the player has no result for the date
	Result(ctx context.Context) (*model.DailyResult, error)
	// SaveResult inserts when ID is zero (assigning it) and updates otherwise.
	// Guesses on the result are ignored; use ReplaceGuesses.
	// An insert that collides with an existing (player, date) returns model.ErrStoreConflict.
	SaveResult(ctx context.Context, result *model.DailyResult) error
	// ReplaceGuesses deletes every stored guess of the result and inserts guesses
	ReplaceGuesses(ctx context.Context, result *model.DailyResult, guesses []model.Guess) error
}
