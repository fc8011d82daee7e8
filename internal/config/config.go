package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// The original deployment keeps these names in an untracked .env next to the
// binary, so they are read as-is, dashes included.
const (
	EnvTrelloAPIKey = "TRELLO-API-KEY"
	EnvTrelloToken  = "TRELLO-TOKEN"
	EnvSSHHost      = "IONOS_SSH"
	EnvSSHPassword  = "IONOS_SSH_PW"
	EnvRemotePath   = "IONOS_PATH"
)

type Config struct {
	Trello TrelloConfig
	Lists  ListsConfig
	Upload UploadConfig
	Output OutputConfig
}

type TrelloConfig struct {
	APIKey string
	Token  string
	Board  string
}

// ListsConfig names the board lists the reports read from.
type ListsConfig struct {
	Recording string
	Review    string
	Done      string
}

// UploadConfig carries the SFTP connection parameters. All three fields are
// required for an upload to run; anything less is a configured skip.
type UploadConfig struct {
	HostSpec   string // user@host or user@host:port, ssh:// prefix accepted
	Password   string
	RemotePath string
}

type OutputConfig struct {
	Directory    string
	SnapshotFile string
	LogFile      string
}

// Load reads configuration from a .env file (if present) and the process
// environment. A missing .env file is not an error on its own; Validate
// decides whether the resulting config is usable.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := loadEnvFile(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		_ = loadEnvFile(".env")
	}

	cfg := &Config{
		Trello: TrelloConfig{
			APIKey: os.Getenv(EnvTrelloAPIKey),
			Token:  os.Getenv(EnvTrelloToken),
			Board:  getEnvOrDefault("TRELLO_BOARD", "True Crime Video Dubs"),
		},
		Lists: ListsConfig{
			Recording: getEnvOrDefault("TRELLO_LIST_RECORDING", "Skripte zur Aufnahme"),
			Review:    getEnvOrDefault("TRELLO_LIST_REVIEW", "In Review"),
			Done:      getEnvOrDefault("TRELLO_LIST_DONE", "Fertig"),
		},
		Upload: UploadConfig{
			HostSpec:   os.Getenv(EnvSSHHost),
			Password:   os.Getenv(EnvSSHPassword),
			RemotePath: os.Getenv(EnvRemotePath),
		},
		Output: OutputConfig{
			Directory:    getEnvOrDefault("OUTPUT_DIR", "reports"),
			SnapshotFile: getEnvOrDefault("SNAPSHOT_FILE", "trello_cards_detailed.json"),
			LogFile:      getEnvOrDefault("PIPELINE_LOG", "pipeline.log"),
		},
	}

	return cfg, nil
}

// Validate checks the hard prerequisites. Trello credentials are fatal when
// absent; upload parameters are not, the upload step skips without them.
func (c *Config) Validate() error {
	if c.Trello.APIKey == "" || c.Trello.Token == "" {
		return fmt.Errorf("%s and %s must be set in .env or the environment", EnvTrelloAPIKey, EnvTrelloToken)
	}
	if c.Trello.Board == "" {
		return fmt.Errorf("TRELLO_BOARD must not be empty")
	}
	return nil
}

// UploadConfigured reports whether every upload parameter is present.
func (c *Config) UploadConfigured() bool {
	return c.Upload.HostSpec != "" && c.Upload.Password != "" && c.Upload.RemotePath != ""
}

// loadEnvFile reads a .env file into the process environment. The deployed
// secrets file uses dashed key names, which godotenv's parser rejects, so
// dashed entries get a plain KEY=VALUE split first and only the remainder
// goes through godotenv. Variables already present in the environment win,
// same as godotenv.Load.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var rest []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		key, value, found := strings.Cut(trimmed, "=")
		key = strings.TrimSpace(key)
		if found && !strings.HasPrefix(trimmed, "#") && strings.Contains(key, "-") {
			setIfUnset(key, strings.Trim(strings.TrimSpace(value), `"'`))
			continue
		}
		rest = append(rest, line)
	}

	vars, err := godotenv.Unmarshal(strings.Join(rest, "\n"))
	if err != nil {
		return err
	}
	for key, value := range vars {
		setIfUnset(key, value)
	}
	return nil
}

func setIfUnset(key, value string) {
	if _, exists := os.LookupEnv(key); !exists {
		os.Setenv(key, value)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
