package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mcoot/skylandly/internal/model"
	"github.com/mcoot/skylandly/internal/storage"
)

// Config selects and locates the SQL database
type Config struct {
	// Type is sqlite, postgres or mysql
	Type string
	// Path is the SQLite database file
	Path string
	// URL is the PostgreSQL/MySQL DSN
	URL string
}

// Storage is a SQL implementation of the storage interface.
// Uniqueness of (player, date) and browser id is enforced by the schema.
type Storage struct {
	db *DB
}

// Open connects, migrates and returns a Storage
func Open(ctx context.Context, cfg Config) (*Storage, error) {
	if strings.TrimSpace(cfg.Path) == "" && strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("database path or url is required")
	}
	dialect, err := DialectFor(cfg.Type)
	if err != nil {
		return nil, err
	}

	db, err := OpenDB(ctx, dialect, DialectConfig{Path: cfg.Path, URL: cfg.URL})
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return New(db), nil
}

// New wraps an already migrated DB
func New(db *DB) *Storage {
	return &Storage{db: db}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Close() error {
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// conflict maps driver-level write races onto model.ErrStoreConflict
func (s *Storage) conflict(err error) error {
	if err != nil && s.db.Dialect.IsConflict(err) {
		return fmt.Errorf("%w: %s", model.ErrStoreConflict, err.Error())
	}
	return err
}

func (s *Storage) Update(ctx context.Context, key model.ResultKey, fn func(tx storage.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.conflict(err)
	}

	t := &tx{q: queryer{conn: sqlTx, dialect: s.db.Dialect}, key: key}
	if err := fn(t); err != nil {
		_ = sqlTx.Rollback()
		return s.conflict(err)
	}
	return s.conflict(sqlTx.Commit())
}

const playerColumns = `id, browser_id, current_streak, highest_streak, total_games_played, total_wins,
	last_played_date, created_at, last_seen`

const resultColumns = `r.id, r.player_id, r.date, r.won, r.guess_count, r.skylander_name, r.finished_at`

func scanPlayer(row *sql.Row) (*model.Player, error) {
	var (
		p                   model.Player
		lastPlayed          sql.NullString
		createdAt, lastSeen int64
	)
	err := row.Scan(&p.ID, &p.BrowserID, &p.CurrentStreak, &p.HighestStreak, &p.TotalGamesPlayed, &p.TotalWins,
		&lastPlayed, &createdAt, &lastSeen)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	if lastPlayed.Valid {
		d, err := model.ParseDate(lastPlayed.String)
		if err != nil {
			return nil, err
		}
		p.LastPlayedDate = &d
	}
	p.CreatedAt = fromMillis(createdAt)
	p.LastSeen = fromMillis(lastSeen)
	return &p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*model.DailyResult, error) {
	var (
		r          model.DailyResult
		date       string
		name       sql.NullString
		finishedAt int64
	)
	if err := row.Scan(&r.ID, &r.PlayerID, &date, &r.Won, &r.GuessCount, &name, &finishedAt); err != nil {
		return nil, err
	}
	d, err := model.ParseDate(date)
	if err != nil {
		return nil, err
	}
	r.Date = d
	if name.Valid {
		r.SkylanderName = &name.String
	}
	r.FinishedAt = fromMillis(finishedAt)
	return &r, nil
}

func getPlayer(ctx context.Context, q queryer, browserID string) (*model.Player, error) {
	return scanPlayer(q.queryRow(ctx, "SELECT "+playerColumns+" FROM players WHERE browser_id = ?", browserID))
}

// loadGuesses fills in guesses for results in one query
func loadGuesses(ctx context.Context, q queryer, results []*model.DailyResult) error {
	if len(results) == 0 {
		return nil
	}

	byID := make(map[model.ResultID]*model.DailyResult, len(results))
	placeholders := make([]string, len(results))
	args := make([]any, len(results))
	for i, r := range results {
		byID[r.ID] = r
		r.Guesses = []model.Guess{}
		placeholders[i] = "?"
		args[i] = int64(r.ID)
	}

	rows, err := q.query(ctx,
		"SELECT daily_result_id, guess_index, guess_name, created_at FROM guesses WHERE daily_result_id IN ("+
			strings.Join(placeholders, ", ")+") ORDER BY daily_result_id, guess_index",
		args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resultID  int64
			g         model.Guess
			createdAt int64
		)
		if err := rows.Scan(&resultID, &g.Index, &g.Name, &createdAt); err != nil {
			return err
		}
		g.CreatedAt = fromMillis(createdAt)
		if r, ok := byID[model.ResultID(resultID)]; ok {
			r.Guesses = append(r.Guesses, g)
		}
	}
	return rows.Err()
}

func (s *Storage) q() queryer {
	return queryer{conn: s.db.DB, dialect: s.db.Dialect}
}

func (s *Storage) GetPlayer(ctx context.Context, browserID string) (*model.Player, error) {
	return getPlayer(ctx, s.q(), browserID)
}

func (s *Storage) ListResults(ctx context.Context, browserID string, limit int) ([]*model.DailyResult, error) {
	query := "SELECT " + resultColumns + ` FROM daily_results r
		JOIN players p ON p.id = r.player_id
		WHERE p.browser_id = ?
		ORDER BY r.date DESC`
	args := []any{browserID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.q().query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*model.DailyResult{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := loadGuesses(ctx, s.q(), results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Storage) ResultStats(ctx context.Context, browserID string) (model.ResultStats, error) {
	var games, total int64
	err := s.q().queryRow(ctx, `SELECT COUNT(r.id), COALESCE(SUM(r.guess_count), 0)
		FROM daily_results r
		JOIN players p ON p.id = r.player_id
		WHERE p.browser_id = ?`, browserID).Scan(&games, &total)
	if err != nil {
		return model.ResultStats{}, err
	}
	return model.ResultStats{Games: int(games), TotalGuesses: int(total)}, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, browserID string) error {
	res, err := s.q().exec(ctx, "DELETE FROM players WHERE browser_id = ?", browserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

// tx runs every call inside the surrounding database transaction
type tx struct {
	q   queryer
	key model.ResultKey
}

func (t *tx) Player(ctx context.Context) (*model.Player, error) {
	return getPlayer(ctx, t.q, t.key.BrowserID)
}

func nullableDate(d *model.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func (t *tx) SavePlayer(ctx context.Context, p *model.Player) error {
	if p.ID == 0 {
		id, err := t.q.execReturningID(ctx, `INSERT INTO players
			(browser_id, current_streak, highest_streak, total_games_played, total_wins, last_played_date, created_at, last_seen)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.key.BrowserID, p.CurrentStreak, p.HighestStreak, p.TotalGamesPlayed, p.TotalWins,
			nullableDate(p.LastPlayedDate), toMillis(p.CreatedAt), toMillis(p.LastSeen))
		if err != nil {
			return err
		}
		p.ID = model.PlayerID(id)
		return nil
	}

	_, err := t.q.exec(ctx, `UPDATE players SET
		current_streak = ?, highest_streak = ?, total_games_played = ?, total_wins = ?,
		last_played_date = ?, last_seen = ?
		WHERE id = ?`,
		p.CurrentStreak, p.HighestStreak, p.TotalGamesPlayed, p.TotalWins,
		nullableDate(p.LastPlayedDate), toMillis(p.LastSeen), int64(p.ID))
	return err
}

func (t *tx) Result(ctx context.Context) (*model.DailyResult, error) {
	row := t.q.queryRow(ctx, "SELECT "+resultColumns+` FROM daily_results r
		JOIN players p ON p.id = r.player_id
		WHERE p.browser_id = ? AND r.date = ?`, t.key.BrowserID, t.key.Date.String())

	r, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrResultNotFound
		}
		return nil, err
	}
	if err := loadGuesses(ctx, t.q, []*model.DailyResult{r}); err != nil {
		return nil, err
	}
	return r, nil
}

func (t *tx) SaveResult(ctx context.Context, r *model.DailyResult) error {
	if r.ID == 0 {
		id, err := t.q.execReturningID(ctx, `INSERT INTO daily_results
			(player_id, date, won, guess_count, skylander_name, finished_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			int64(r.PlayerID), r.Date.String(), r.Won, r.GuessCount, nullableString(r.SkylanderName), toMillis(r.FinishedAt))
		if err != nil {
			return err
		}
		r.ID = model.ResultID(id)
		return nil
	}

	_, err := t.q.exec(ctx, `UPDATE daily_results SET
		won = ?, guess_count = ?, skylander_name = ?, finished_at = ?
		WHERE id = ?`,
		r.Won, r.GuessCount, nullableString(r.SkylanderName), toMillis(r.FinishedAt), int64(r.ID))
	return err
}

func (t *tx) ReplaceGuesses(ctx context.Context, r *model.DailyResult, guesses []model.Guess) error {
	if _, err := t.q.exec(ctx, "DELETE FROM guesses WHERE daily_result_id = ?", int64(r.ID)); err != nil {
		return err
	}
	for _, g := range guesses {
		_, err := t.q.exec(ctx, `INSERT INTO guesses (daily_result_id, guess_index, guess_name, created_at)
			VALUES (?, ?, ?, ?)`, int64(r.ID), g.Index, g.Name, toMillis(g.CreatedAt))
		if err != nil {
			return err
		}
	}
	return nil
}
