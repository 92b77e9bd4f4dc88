package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvFPS      = "MOTIONLAB_FPS"
	EnvLogLevel = "MOTIONLAB_LOG_LEVEL"
)

// Env holds process-level overrides. Zero fields mean unset.
type Env struct {
	FPS      int
	LogLevel slog.Level
	HasLevel bool
}

// LoadEnv reads an optional dotenv file into the process environment, then
// parses the motionlab variables. Variables already set in the environment
// win over the file.
func LoadEnv(path string) (Env, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	var env Env
	if v := os.Getenv(EnvFPS); v != "" {
		fps, err := strconv.Atoi(v)
		if err != nil || fps <= 0 {
			return Env{}, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvFPS, v)
		}
		env.FPS = fps
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		if err := env.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Env{}, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvLogLevel, v)
		}
		env.HasLevel = true
	}
	return env, nil
}

// Apply copies set overrides into c.
func (e Env) Apply(c *Config) {
	if e.FPS > 0 {
		c.FPS = e.FPS
	}
}
