package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/skylandly/internal/model"
	"github.com/mcoot/skylandly/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Update holds the write lock for the whole transaction, so conflicts never occur.
type Storage struct {
	mu sync.RWMutex

	players      map[string]*model.Player
	results      map[resultKey]*model.DailyResult
	nextPlayerID model.PlayerID
	nextResultID model.ResultID
}

type resultKey struct {
	playerID model.PlayerID
	date     model.Date
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players: make(map[string]*model.Player),
		results: make(map[resultKey]*model.DailyResult),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Update(ctx context.Context, key model.ResultKey, fn func(tx storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{
		s:            s,
		key:          key,
		nextPlayerID: s.nextPlayerID,
		nextResultID: s.nextResultID,
	}
	if err := fn(t); err != nil {
		return err
	}
	t.commit()
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, browserID string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[browserID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) ListResults(ctx context.Context, browserID string, limit int) ([]*model.DailyResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, ok := s.players[browserID]
	if !ok {
		return []*model.DailyResult{}, nil
	}

	results := s.resultsFor(player.ID)
	sort.Slice(results, func(i, j int) bool {
		return results[j].Date.Before(results[i].Date)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	for i, r := range results {
		results[i] = r.Clone()
	}
	return results, nil
}

func (s *Storage) ResultStats(ctx context.Context, browserID string) (model.ResultStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats model.ResultStats
	player, ok := s.players[browserID]
	if !ok {
		return stats, nil
	}
	for _, r := range s.resultsFor(player.ID) {
		stats.Games++
		stats.TotalGuesses += r.GuessCount
	}
	return stats, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, browserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[browserID]
	if !ok {
		return model.ErrPlayerNotFound
	}
	for k := range s.results {
		if k.playerID == player.ID {
			delete(s.results, k)
		}
	}
	delete(s.players, browserID)
	return nil
}

func (s *Storage) Close() error {
	return nil
}

// resultsFor must be called with the lock held
func (s *Storage) resultsFor(playerID model.PlayerID) []*model.DailyResult {
	out := []*model.DailyResult{}
	for k, r := range s.results {
		if k.playerID == playerID {
			out = append(out, r)
		}
	}
	return out
}

// tx stages writes until Update commits them
type tx struct {
	s   *Storage
	key model.ResultKey

	player       *model.Player
	result       *model.DailyResult
	nextPlayerID model.PlayerID
	nextResultID model.ResultID
}

func (t *tx) Player(ctx context.Context) (*model.Player, error) {
	if t.player != nil {
		return t.player.Clone(), nil
	}
	p, ok := t.s.players[t.key.BrowserID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return p.Clone(), nil
}

func (t *tx) SavePlayer(ctx context.Context, player *model.Player) error {
	if player.ID == 0 {
		if _, ok := t.s.players[t.key.BrowserID]; ok || t.player != nil {
			return model.ErrStoreConflict
		}
		t.nextPlayerID++
		player.ID = t.nextPlayerID
	}
	t.player = player.Clone()
	return nil
}

func (t *tx) Result(ctx context.Context) (*model.DailyResult, error) {
	if t.result != nil {
		return t.result.Clone(), nil
	}
	p, err := t.Player(ctx)
	if err != nil {
		return nil, model.ErrResultNotFound
	}
	r, ok := t.s.results[resultKey{playerID: p.ID, date: t.key.Date}]
	if !ok {
		return nil, model.ErrResultNotFound
	}
	return r.Clone(), nil
}

func (t *tx) SaveResult(ctx context.Context, result *model.DailyResult) error {
	k := resultKey{playerID: result.PlayerID, date: result.Date}
	existing, stored := t.s.results[k]

	var guesses []model.Guess
	switch {
	case t.result != nil:
		guesses = t.result.Guesses
	case stored:
		guesses = existing.Guesses
	}

	if result.ID == 0 {
		if stored || t.result != nil {
			return model.ErrStoreConflict
		}
		t.nextResultID++
		result.ID = t.nextResultID
	}

	staged := result.Clone()
	staged.Guesses = guesses
	t.result = staged
	return nil
}

func (t *tx) ReplaceGuesses(ctx context.Context, result *model.DailyResult, guesses []model.Guess) error {
	if t.result == nil || t.result.ID != result.ID {
		current, err := t.Result(ctx)
		if err != nil {
			return err
		}
		t.result = current
	}
	replaced := make([]model.Guess, len(guesses))
	copy(replaced, guesses)
	model.SortGuesses(replaced)
	t.result.Guesses = replaced
	return nil
}

func (t *tx) commit() {
	if t.player != nil {
		t.s.players[t.key.BrowserID] = t.player
	}
	if t.result != nil {
		t.s.results[resultKey{playerID: t.result.PlayerID, date: t.result.Date}] = t.result
	}
	t.s.nextPlayerID = t.nextPlayerID
	t.s.nextResultID = t.nextResultID
}
