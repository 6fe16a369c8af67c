package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/skylandly/internal/api"
	"github.com/mcoot/skylandly/internal/config"
	"github.com/mcoot/skylandly/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	idFile     string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "skyl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/skyl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		idFile:     filepath.Join(t.TempDir(), "browser_id"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--browser-id-file", r.idFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Create application over the bundled catalog and a throwaway SQLite file
	projectRoot := findProjectRoot(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(context.Background(), factory.Config{
		CatalogPath: filepath.Join(projectRoot, "data/skylanders.json"),
		Logger:      logger,
		StorageType: config.StorageSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "e2e.db"),
		CacheSizeMB: 1,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		Ledger:         app.Ledger,
		History:        app.History,
	})

	// Port 0 lets the kernel pick a free port
	server := api.NewServer(router, config.ServerConfig{
		Host:            "127.0.0.1",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}, logger)
	require.NoError(t, server.Listen())

	go func() {
		if err := server.Serve(); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + server.Addr()
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			_ = server.Shutdown(context.Background())
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type dailyResponse struct {
	SkylanderName string `json:"skylander_name"`
}

type guessResponse struct {
	Correct    bool `json:"correct"`
	Comparison map[string]struct {
		Value     string `json:"value"`
		IsCorrect bool   `json:"is_correct"`
	} `json:"comparison"`
}

type gamesResponse struct {
	Games []struct {
		Date       string   `json:"date"`
		Won        bool     `json:"won"`
		GuessCount int      `json:"guess_count"`
		Guesses    []string `json:"guesses"`
	} `json:"games"`
}

type summaryResponse struct {
	CurrentStreak    int `json:"current_streak"`
	HighestStreak    int `json:"highest_streak"`
	TotalGamesPlayed int `json:"total_games_played"`
	TotalWins        int `json:"total_wins"`
}

type averageResponse struct {
	AverageGuesses float64 `json:"average_guesses"`
	TotalGames     int     `json:"total_games"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_DailyAndGuess(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("daily", "--date", "2024-01-01")
	require.NoError(t, err, "output: %s", output)

	var daily dailyResponse
	require.NoError(t, json.Unmarshal([]byte(output), &daily))
	assert.Equal(t, "Stealth Elf", daily.SkylanderName)

	output, err = cli.run("guess", "stealth elf", "--date", "2024-01-01")
	require.NoError(t, err, "output: %s", output)

	var guess guessResponse
	require.NoError(t, json.Unmarshal([]byte(output), &guess))
	assert.True(t, guess.Correct)
	for _, attr := range []string{"name", "element", "gender", "game", "species"} {
		assert.True(t, guess.Comparison[attr].IsCorrect, attr)
	}

	output, err = cli.run("guess", "Kaos", "--date", "2024-01-01")
	require.Error(t, err)
	assert.Contains(t, output, "UNKNOWN_SKYLANDER")
}

func TestCLI_HistoryFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	submissions := [][]string{
		{"--date", "2024-01-01", "--won", "--guess-count", "3", "--guesses", "Spyro,Eruptor,Stealth Elf", "--answer", "Stealth Elf"},
		{"--date", "2024-01-02", "--won", "--guess-count", "4"},
		{"--date", "2024-01-03", "--guess-count", "4", "--current-streak", "0", "--highest-streak", "2", "--games-played", "3", "--wins", "2", "--last-played", "2024-01-03"},
	}
	for _, args := range submissions {
		output, err := cli.run(append([]string{"history", "submit"}, args...)...)
		require.NoError(t, err, "output: %s", output)
	}

	// A browser id was generated and persisted on first use
	id, err := os.ReadFile(cli.idFile)
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(string(id)))

	output, err := cli.run("history", "summary")
	require.NoError(t, err, "output: %s", output)
	var summary summaryResponse
	require.NoError(t, json.Unmarshal([]byte(output), &summary))
	assert.Equal(t, summaryResponse{CurrentStreak: 0, HighestStreak: 2, TotalGamesPlayed: 3, TotalWins: 2}, summary)

	output, err = cli.run("history", "games", "--limit", "2")
	require.NoError(t, err, "output: %s", output)
	var games gamesResponse
	require.NoError(t, json.Unmarshal([]byte(output), &games))
	require.Len(t, games.Games, 2)
	assert.Equal(t, "2024-01-03", games.Games[0].Date)

	output, err = cli.run("history", "average")
	require.NoError(t, err, "output: %s", output)
	var avg averageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &avg))
	assert.Equal(t, averageResponse{AverageGuesses: 3.67, TotalGames: 3}, avg)

	output, err = cli.run("history", "forget")
	require.NoError(t, err, "output: %s", output)
	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Equal(t, "History deleted", msg.Message)

	output, err = cli.run("history", "games")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &games))
	assert.Empty(t, games.Games)
}
