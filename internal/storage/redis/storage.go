package redis

import (
	"context"
	"errors"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/mcoot/skylandly/internal/model"
	"github.com/mcoot/skylandly/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Update uses WATCH on the player and result keys with a MULTI/EXEC commit.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Update(ctx context.Context, key model.ResultKey, fn func(tx storage.Tx) error) error {
	err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
		t := &tx{rtx: rtx, key: key}
		if err := fn(t); err != nil {
			return err
		}
		if t.player == nil && t.result == nil {
			return nil
		}
		_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return t.flush(ctx, pipe)
		})
		return err
	}, playerKey(key.BrowserID), resultKey(key.BrowserID, key.Date))

	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrStoreConflict
	}
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, browserID string) (*model.Player, error) {
	return getPlayer(ctx, s.client, browserID)
}

func (s *Storage) ListResults(ctx context.Context, browserID string, limit int) ([]*model.DailyResult, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	dates, err := s.client.ZRevRange(ctx, resultsIndexKey(browserID), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	return s.loadResults(ctx, browserID, dates)
}

func (s *Storage) ResultStats(ctx context.Context, browserID string) (model.ResultStats, error) {
	var stats model.ResultStats

	dates, err := s.client.ZRange(ctx, resultsIndexKey(browserID), 0, -1).Result()
	if err != nil {
		return stats, err
	}
	results, err := s.loadResults(ctx, browserID, dates)
	if err != nil {
		return stats, err
	}
	for _, r := range results {
		stats.Games++
		stats.TotalGuesses += r.GuessCount
	}
	return stats, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, browserID string) error {
	pk := playerKey(browserID)
	idx := resultsIndexKey(browserID)

	err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
		n, err := rtx.Exists(ctx, pk).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return model.ErrPlayerNotFound
		}

		dates, err := rtx.ZRange(ctx, idx, 0, -1).Result()
		if err != nil {
			return err
		}
		keys := []string{pk, idx}
		for _, d := range dates {
			keys = append(keys, resultKeyFromString(browserID, d))
		}

		_, err = rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, keys...)
			return nil
		})
		return err
	}, pk, idx)

	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrStoreConflict
	}
	return err
}

func (s *Storage) loadResults(ctx context.Context, browserID string, dates []string) ([]*model.DailyResult, error) {
	results := []*model.DailyResult{}
	if len(dates) == 0 {
		return results, nil
	}

	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = resultKeyFromString(browserID, d)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		data, ok := v.(string)
		if !ok {
			// Index entry without a record
			continue
		}
		var r model.DailyResult
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, err
		}
		results = append(results, &r)
	}
	return results, nil
}

func resultKeyFromString(browserID, date string) string {
	return keyPrefix + ":result:" + browserID + ":" + date
}

// getter is satisfied by both *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getPlayer(ctx context.Context, c getter, browserID string) (*model.Player, error) {
	data, err := c.Get(ctx, playerKey(browserID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

// tx reads through the watched connection and buffers writes for EXEC
type tx struct {
	rtx *redis.Tx
	key model.ResultKey

	player *model.Player
	result *model.DailyResult
}

func (t *tx) Player(ctx context.Context) (*model.Player, error) {
	if t.player != nil {
		return t.player.Clone(), nil
	}
	return getPlayer(ctx, t.rtx, t.key.BrowserID)
}

func (t *tx) SavePlayer(ctx context.Context, player *model.Player) error {
	if player.ID == 0 {
		if t.player != nil {
			return model.ErrStoreConflict
		}
		n, err := t.rtx.Exists(ctx, playerKey(t.key.BrowserID)).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return model.ErrStoreConflict
		}
		id, err := t.rtx.Incr(ctx, playerSeqKey()).Result()
		if err != nil {
			return err
		}
		player.ID = model.PlayerID(id)
	}
	t.player = player.Clone()
	return nil
}

func (t *tx) Result(ctx context.Context) (*model.DailyResult, error) {
	if t.result != nil {
		return t.result.Clone(), nil
	}
	return t.storedResult(ctx)
}

func (t *tx) storedResult(ctx context.Context) (*model.DailyResult, error) {
	data, err := t.rtx.Get(ctx, resultKey(t.key.BrowserID, t.key.Date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrResultNotFound
		}
		return nil, err
	}

	var r model.DailyResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (t *tx) SaveResult(ctx context.Context, result *model.DailyResult) error {
	var guesses []model.Guess
	if t.result != nil {
		guesses = t.result.Guesses
	} else {
		stored, err := t.storedResult(ctx)
		switch {
		case err == nil:
			if result.ID == 0 {
				return model.ErrStoreConflict
			}
			guesses = stored.Guesses
		case !errors.Is(err, model.ErrResultNotFound):
			return err
		}
	}

	if result.ID == 0 {
		if t.result != nil {
			return model.ErrStoreConflict
		}
		id, err := t.rtx.Incr(ctx, resultSeqKey()).Result()
		if err != nil {
			return err
		}
		result.ID = model.ResultID(id)
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

func (t *tx) flush(ctx context.Context, pipe redis.Pipeliner) error {
	if t.player != nil {
		data, err := json.Marshal(t.player)
		if err != nil {
			return err
		}
		pipe.Set(ctx, playerKey(t.key.BrowserID), data, 0)
	}
	if t.result != nil {
		data, err := json.Marshal(t.result)
		if err != nil {
			return err
		}
		pipe.Set(ctx, resultKey(t.key.BrowserID, t.result.Date), data, 0)
		pipe.ZAdd(ctx, resultsIndexKey(t.key.BrowserID), redis.Z{
			Score:  dayScore(t.result.Date),
			Member: t.result.Date.String(),
		})
	}
	return nil
}
