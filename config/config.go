package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	RoleHost  = "host"
	RoleGuest = "guest"
)

type Config struct {
	Role       string
	Listen     string // Host: address to serve the match endpoint on
	Connect    string // Guest: websocket URL of the host
	Name       string
	LogLevel   zerolog.Level
	Pacing     bool   // Real-time delays between resolver steps
	RecordsDir string // Where the host writes match records, "" to skip
	Bot        bool   // Play automatically
	Seed       uint64
}

// Load reads envFile if present, then the environment, then flags. Flags win.
func Load(envFile string, args []string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var cfg Config
	var level string
	flags := flag.NewFlagSet("pylons", flag.ContinueOnError)
	flags.StringVar(&cfg.Role, "role", env("PYLONS_ROLE", RoleHost), "host or guest")
	flags.StringVar(&cfg.Listen, "listen", env("PYLONS_LISTEN", ":7777"), "host: listen address")
	flags.StringVar(&cfg.Connect, "connect", env("PYLONS_CONNECT", ""), "guest: host websocket URL, e.g. ws://10.0.0.2:7777/match")
	flags.StringVar(&cfg.Name, "name", env("PYLONS_NAME", "player"), "display name")
	flags.StringVar(&level, "log-level", env("PYLONS_LOG_LEVEL", "info"), "trace, debug, info, warn, error")
	flags.BoolVar(&cfg.Pacing, "pacing", envBool("PYLONS_PACING", true), "pause between combat steps")
	flags.StringVar(&cfg.RecordsDir, "records", env("PYLONS_RECORDS_DIR", ""), "host: directory for match records")
	flags.BoolVar(&cfg.Bot, "bot", envBool("PYLONS_BOT", false), "play automatically")
	flags.Uint64Var(&cfg.Seed, "seed", envUint("PYLONS_SEED", 1), "bot random seed")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return Config{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.LogLevel = lvl

	switch cfg.Role {
	case RoleHost:
		if cfg.Listen == "" {
			return Config{}, fmt.Errorf("host needs a listen address")
		}
	case RoleGuest:
		if cfg.Connect == "" {
			return Config{}, fmt.Errorf("guest needs -connect")
		}
	default:
		return Config{}, fmt.Errorf("unknown role %q", cfg.Role)
	}
	return cfg, nil
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(env(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return b
}

func envUint(key string, fallback uint64) uint64 {
	n, err := strconv.ParseUint(env(key, strconv.FormatUint(fallback, 10)), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
