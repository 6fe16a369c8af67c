package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Config holds CLI configuration
type Config struct {
	ServerURL     string
	BrowserID     string
	BrowserIDFile string
	Output        string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:     getEnvOrDefault("SKYL_SERVER", "http://localhost:8080"),
		BrowserID:     os.Getenv("SKYL_BROWSER_ID"),
		BrowserIDFile: getEnvOrDefault("SKYL_BROWSER_ID_FILE", defaultBrowserIDFile()),
		Output:        "text",
	}
}

// EnsureBrowserID returns the configured browser id, reading it from the
// browser id file or generating and saving a new one on first use
func (c *Config) EnsureBrowserID() (string, error) {
	if c.BrowserID != "" {
		return c.BrowserID, nil
	}

	data, err := os.ReadFile(c.BrowserIDFile)
	switch {
	case err == nil:
		if id := strings.TrimSpace(string(data)); id != "" {
			c.BrowserID = id
			return id, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("failed to read browser id: %w", err)
	}

	id := uuid.NewString()
	if err := c.SaveBrowserID(id); err != nil {
		return "", fmt.Errorf("failed to save browser id: %w", err)
	}
	return id, nil
}

// SaveBrowserID saves the browser id to the browser id file
func (c *Config) SaveBrowserID(id string) error {
	c.BrowserID = id

	dir := filepath.Dir(c.BrowserIDFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.BrowserIDFile, []byte(id+"\n"), 0600)
}

func defaultBrowserIDFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skyl/browser_id"
	}
	return filepath.Join(home, ".skyl", "browser_id")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
