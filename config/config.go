package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/Invicton-Labs/go-linkedqueue/log"
	"github.com/Invicton-Labs/go-stackerr"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "LINKEDQUEUE_"

type (
	Config struct {
		Log   LogConfig
		Queue QueueConfig
		// Script is the path of the command script to run, empty for stdin.
		Script string
	}

	LogConfig struct {
		Level         zapcore.Level
		IsDevelopment bool
	}

	QueueConfig struct {
		// MaxBlocks caps the number of live allocations, 0 for no cap.
		MaxBlocks int
		// StopOnError makes a script stop at its first failing command.
		StopOnError bool
	}
)

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level: zapcore.InfoLevel,
		},
	}
}

// Load returns the default configuration overlaid with any LINKEDQUEUE_*
// environment variables.
func Load() (Config, stackerr.Error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, stackerr.Error) {
	cfg := Default()
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok {
		level, err := zapcore.ParseLevel(strings.ToLower(v))
		if err != nil {
			return cfg, stackerr.Wrap(err).With(map[string]any{
				"variable": envPrefix + "LOG_LEVEL",
			})
		}
		cfg.Log.Level = level
	}
	if v, ok := lookup(envPrefix + "LOG_DEVELOPMENT"); ok {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, stackerr.Wrap(err).With(map[string]any{
				"variable": envPrefix + "LOG_DEVELOPMENT",
			})
		}
		cfg.Log.IsDevelopment = dev
	}
	if v, ok := lookup(envPrefix + "MAX_BLOCKS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, stackerr.Wrap(err).With(map[string]any{
				"variable": envPrefix + "MAX_BLOCKS",
			})
		}
		cfg.Queue.MaxBlocks = n
	}
	if v, ok := lookup(envPrefix + "STOP_ON_ERROR"); ok {
		stop, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, stackerr.Wrap(err).With(map[string]any{
				"variable": envPrefix + "STOP_ON_ERROR",
			})
		}
		cfg.Queue.StopOnError = stop
	}
	if v, ok := lookup(envPrefix + "SCRIPT"); ok {
		cfg.Script = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that cannot be expressed by their types alone.
func (c Config) Validate() stackerr.Error {
	if c.Queue.MaxBlocks < 0 {
		return stackerr.Errorf("max blocks must not be negative").With(map[string]any{
			"max_blocks": c.Queue.MaxBlocks,
		})
	}
	return nil
}

// LogInput returns the logger settings for this configuration.
func (c Config) LogInput(name string) log.NewInput {
	return log.NewInput{
		Name:          name,
		Level:         c.Log.Level,
		IsDevelopment: c.Log.IsDevelopment,
	}
}
