package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/skylandly/internal/config"
	"github.com/mcoot/skylandly/internal/dependencies/mocks"
	"github.com/mcoot/skylandly/internal/model"
	redisstorage "github.com/mcoot/skylandly/internal/storage/redis"
	"github.com/mcoot/skylandly/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp(testutil.Catalog(s.T(), testutil.Spyro, testutil.GillGrunt))
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.Require().NoError(s.app.Close())
}

// Test: a full day from daily answer to history queries
func (s *IntegrationSuite) TestCompleteDailyFlow() {
	// Step 1: the answer for 2024-01-01 is Spyro
	answer, err := s.app.GameController.Daily("2024-01-01")
	s.Require().NoError(err)
	s.Equal("Spyro", answer.Name)

	// Step 2: a wrong guess reports shared attributes
	miss, err := s.app.GameController.Guess("gill grunt", "2024-01-01")
	s.Require().NoError(err)
	s.False(miss.Correct)
	s.False(miss.Comparison.Name.IsCorrect)
	s.False(miss.Comparison.Element.IsCorrect)
	s.True(miss.Comparison.Gender.IsCorrect)
	s.True(miss.Comparison.Game.IsCorrect)
	s.False(miss.Comparison.Species.IsCorrect)

	// Step 3: the right guess wins
	hit, err := s.app.GameController.Guess("SPYRO", "2024-01-01")
	s.Require().NoError(err)
	s.True(hit.Correct)

	// Step 4: the client records the result with its streaks
	result, err := s.app.Ledger.UpsertResult(s.ctx, model.ResultUpsert{
		BrowserID:     "browser-1",
		Date:          "2024-01-01",
		Won:           true,
		GuessCount:    2,
		SkylanderName: testutil.Ptr(answer.Name),
		Guesses:       []string{"Gill Grunt", "Spyro"},
		Streak: model.StreakFields{
			CurrentStreak:    testutil.Ptr(1),
			HighestStreak:    testutil.Ptr(1),
			TotalGamesPlayed: testutil.Ptr(1),
			TotalWins:        testutil.Ptr(1),
			LastPlayedDate:   testutil.Ptr("2024-01-01"),
		},
	})
	s.Require().NoError(err)
	s.Equal([]string{"Gill Grunt", "Spyro"}, result.GuessNames())

	// Step 5: history reflects it
	summary, err := s.app.History.Summary(s.ctx, "browser-1")
	s.Require().NoError(err)
	s.Equal(model.Summary{CurrentStreak: 1, HighestStreak: 1, TotalGamesPlayed: 1, TotalWins: 1}, summary)

	games, err := s.app.History.Games(s.ctx, "browser-1", 0)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal("Spyro", *games[0].SkylanderName)

	avg, err := s.app.History.AverageGuesses(s.ctx, "browser-1")
	s.Require().NoError(err)
	s.Equal(model.AverageGuesses{Average: 2, TotalGames: 1}, avg)

	// Step 6: forgetting the player wipes history
	s.Require().NoError(s.app.Ledger.ForgetPlayer(s.ctx, "browser-1"))
	summary, err = s.app.History.Summary(s.ctx, "browser-1")
	s.Require().NoError(err)
	s.Equal(model.Summary{}, summary)
}

func (s *IntegrationSuite) TestDailyDefaultsToClockDay() {
	s.app.MockClock.Set(testutil.Date(s.T(), "2024-01-03").Time().Add(23 * time.Hour))

	answer, err := s.app.GameController.Daily("")
	s.Require().NoError(err)
	s.Equal("Gill Grunt", answer.Name)
}

func (s *IntegrationSuite) TestUpsertDefaultsToClockDay() {
	s.Require().NoError(s.app.MockClock.SetDay("2024-01-02"))

	result, err := s.app.Ledger.UpsertResult(s.ctx, model.ResultUpsert{
		BrowserID:  "clock-day",
		Won:        true,
		GuessCount: 2,
	})
	s.Require().NoError(err)
	s.Equal("2024-01-02", result.Date.String())
}

func (s *IntegrationSuite) TestUnknownGuessIsRejected() {
	_, err := s.app.GameController.Guess("Kaos", "2024-01-01")
	s.ErrorIs(err, model.ErrUnknownEntity)
}

func TestNewTestAppWithSeeder(t *testing.T) {
	seeder := mocks.NewMockSeeder()
	seeder.Random.QueueIntn(1)
	app := NewTestAppWithSeeder(testutil.StarterCatalog(t), seeder)
	defer app.Close()

	answer, err := app.GameController.Daily("2030-05-05")
	require.NoError(t, err)
	assert.Equal(t, "Gill Grunt", answer.Name)
	assert.Equal(t, []string{"2030-05-05"}, seeder.Seeds)
}

func TestNewLoadsBundledCatalog(t *testing.T) {
	app, err := New(context.Background(), Config{CatalogPath: "../../data/skylanders.json"})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, 24, app.Catalog.Len())
	answer, err := app.GameController.Daily("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "Stealth Elf", answer.Name)
}

func TestNewWithSQLite(t *testing.T) {
	app, err := New(context.Background(), Config{
		Catalog:     testutil.StarterCatalog(t),
		StorageType: config.StorageSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "skylandly.db"),
	})
	require.NoError(t, err)
	defer app.Close()

	_, err = app.Ledger.UpsertResult(context.Background(), model.ResultUpsert{BrowserID: "b", GuessCount: 3})
	require.NoError(t, err)

	avg, err := app.History.AverageGuesses(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, model.AverageGuesses{Average: 3, TotalGames: 1}, avg)
}

func TestNewWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mr.Addr()

	app, err := New(context.Background(), Config{
		Catalog:     testutil.StarterCatalog(t),
		StorageType: config.StorageRedis,
		RedisConfig: &redisCfg,
	})
	require.NoError(t, err)
	defer app.Close()

	_, err = app.Ledger.UpsertResult(context.Background(), model.ResultUpsert{BrowserID: "b", GuessCount: 4})
	require.NoError(t, err)

	games, err := app.History.Games(context.Background(), "b", 1)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestNewRejectsBadConfig(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, Config{})
	assert.Error(t, err, "no catalog")

	_, err = New(ctx, Config{CatalogPath: filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err, "missing catalog file")

	_, err = New(ctx, Config{Catalog: testutil.StarterCatalog(t), StorageType: "cassandra"})
	assert.Error(t, err, "unknown storage")

	_, err = New(ctx, Config{Catalog: testutil.StarterCatalog(t), StorageType: config.StorageRedis})
	assert.Error(t, err, "redis without config")
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{
		Catalog: config.CatalogConfig{Path: "data/skylanders.json"},
		Storage: config.StorageConfig{Type: config.StorageRedis, RedisURL: "redis://cache:6379"},
		Metrics: config.MetricsConfig{Enabled: true},
		Cache:   config.CacheConfig{SizeMB: 2},
	}

	out := FromConfig(cfg, nil)
	assert.Equal(t, "data/skylanders.json", out.CatalogPath)
	assert.True(t, out.MetricsEnabled)
	assert.Equal(t, 2, out.CacheSizeMB)
	require.NotNil(t, out.RedisConfig)
	assert.Equal(t, "redis://cache:6379", out.RedisConfig.URL)
}
