package pipeline

import (
	"codex-backend/internal/bundle"
)

const (
	DefaultBaseUrl           = "https://wahapedia.ru/wh40k10ed"
	DefaultCacheDir          = ".codex/cache"
	DefaultCheckpointDir     = ".codex/checkpoints"
	DefaultOutputDir         = "out"
	DefaultRequestsPerSecond = 2
)

// Config is read from codex.json5, flags given on the command line take
// precedence over it.
type Config struct {
	BaseUrl           string        `json:"base_url"`
	CacheDir          string        `json:"cache_dir"`
	CheckpointDir     string        `json:"checkpoint_dir"`
	OutputDir         string        `json:"output_dir"`
	Bundle            bundle.Config `json:"bundle"`
	RequestsPerSecond float64       `json:"requests_per_second"`
	Debug             bool          `json:"debug"`

	// ForceDownload discards cached tables before fetching.
	ForceDownload bool `json:"-"`
}

func (c Config) withDefaults() Config {
	if c.BaseUrl == "" {
		c.BaseUrl = DefaultBaseUrl
	}
	if c.CacheDir == "" {
		c.CacheDir = DefaultCacheDir
	}
	if c.CheckpointDir == "" {
		c.CheckpointDir = DefaultCheckpointDir
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = DefaultRequestsPerSecond
	}
	return c
}
