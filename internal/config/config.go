package config

import (
	"os"
	"strconv"

	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression"
	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/algorithms/lzw"
)

// Config holds the application configuration
type Config struct {
	Port         string
	Environment  string
	MaxFileSize  int64 // in bytes
	LZWMaxWidth  uint
	CacheEntries int
	OutputDir    string
	// AllowAnyOrigin lets websocket clients from any origin upgrade. When
	// false the stream endpoint only accepts same-origin requests.
	AllowAnyOrigin bool
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("GO_ENV", "development"),
		MaxFileSize:  getEnvInt64("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LZWMaxWidth:  uint(getEnvInt64("LZW_MAX_WIDTH", lzw.DefaultMaxWidth)),
		CacheEntries: int(getEnvInt64("CACHE_ENTRIES", 128)),
		OutputDir:    getEnv("OUTPUT_DIR", "compressed_files"),
	}

	// The configured width is the default for every algorithm, so it has to
	// fit the default one.
	defaults := compression.Options{Algorithm: compression.DefaultAlgorithm, MaxWidth: cfg.LZWMaxWidth}
	if defaults.Validate() != nil {
		cfg.LZWMaxWidth = lzw.DefaultMaxWidth
	}
	cfg.AllowAnyOrigin = getEnvBool("ALLOW_ANY_ORIGIN", !cfg.IsProduction())
	if cfg.CacheEntries < 0 {
		cfg.CacheEntries = 0
	}
	return cfg
}

// IsProduction reports whether the service runs with GO_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt64 parses an integer environment variable, falling back to the
// default when it is unset or malformed.
func getEnvInt64(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
