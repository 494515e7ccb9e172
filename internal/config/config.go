package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration wraps time.Duration so TOML strings like "30s" decode; go-toml
// only honors encoding.TextUnmarshaler, not time.Duration directly.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

type Config struct {
	Server ServerConfig `toml:"server"`
	DB     DBConfig     `toml:"db"`
	Log    LogConfig    `toml:"log"`
	Game   GameConfig   `toml:"game"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type DBConfig struct {
	// Driver selects the backend: "postgres" or "memory".
	Driver         string `toml:"driver"`
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	User           string `toml:"user"`
	Password       string `toml:"password"`
	Database       string `toml:"database"`
	SSLMode        string `toml:"sslmode"`
	MigrationsPath string `toml:"migrations_path"`
}

type LogConfig struct {
	Level     string `toml:"level"`
	Directory string `toml:"directory"`
}

type GameConfig struct {
	LeaderboardSize   int      `toml:"leaderboard_size"`
	BroadcastInterval Duration `toml:"broadcast_interval"`
	// IdentityURL points at the external display-name provider; empty
	// disables the lookup.
	IdentityURL string `toml:"identity_url"`
}

// Default is the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		DB: DBConfig{
			Driver:         "postgres",
			Host:           "localhost",
			Port:           5432,
			User:           "user",
			Password:       "password",
			Database:       "monadclicker",
			SSLMode:        "disable",
			MigrationsPath: "migrations",
		},
		Log: LogConfig{Level: "info", Directory: "./logs"},
		Game: GameConfig{
			LeaderboardSize:   100,
			BroadcastInterval: Duration{30 * time.Second},
		},
	}
}

// Load reads a TOML config file over the defaults. A missing file is not an
// error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ConnString assembles the lib/pq connection string.
func (c DBConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}
