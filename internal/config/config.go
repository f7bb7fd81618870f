package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Input    InputConfig     `yaml:"input"`
	Log      LogConfig       `yaml:"log"`
	Stations []StationConfig `yaml:"stations"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	MetricsAddr  string        `yaml:"metrics_addr"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type InputConfig struct {
	Rate  float64 `yaml:"rate"`
	Burst int     `yaml:"burst"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type StationConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":2323",
			MetricsAddr:  ":9090",
			WriteTimeout: 2 * time.Second,
		},
		Input: InputConfig{
			Rate:  50,
			Burst: 20,
		},
		Log: LogConfig{Level: "info"},
		Stations: []StationConfig{
			{Name: "Radio Paradise", URL: "http://stream.radioparadise.com/mp3-128"},
			{Name: "SomaFM Groove Salad", URL: "http://ice1.somafm.com/groovesalad-128-mp3"},
			{Name: "SomaFM Drone Zone", URL: "http://ice1.somafm.com/dronezone-128-mp3"},
			{Name: "Jazz24", URL: "http://live.wostreaming.net/direct/ppm-jazz24mp3-ibc1"},
		},
	}
}

// Load reads a YAML file over the defaults. An empty path yields the
// defaults. The result is always validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is empty"))
	}
	if c.Server.WriteTimeout < 0 {
		errs = append(errs, errors.New("server.write_timeout is negative"))
	}
	if c.Input.Rate <= 0 {
		errs = append(errs, errors.New("input.rate must be positive"))
	}
	if c.Input.Burst <= 0 {
		errs = append(errs, errors.New("input.burst must be positive"))
	}
	for i, s := range c.Stations {
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, fmt.Errorf("stations[%d].name is empty", i))
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
