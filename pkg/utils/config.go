package utils

import (
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Addr      string
	ITunesURL string
	CacheTTL  time.Duration
	LogLevel  string
}

func LoadServerConfig() ServerConfig {
	addr := os.Getenv("TUNESCOUT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	base := os.Getenv("TUNESCOUT_ITUNES_URL")
	if base == "" {
		base = "https://itunes.apple.com"
	}

	// cache TTL in seconds; fallback to 60s on missing/bad value
	ttl := 60 * time.Second
	if s := os.Getenv("TUNESCOUT_CACHE_TTL_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Second
		}
	}

	level := os.Getenv("TUNESCOUT_LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	return ServerConfig{
		Addr:      addr,
		ITunesURL: base,
		CacheTTL:  ttl,
		LogLevel:  level,
	}
}
